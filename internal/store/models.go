package store

import "time"

// Manufacturer is a top-level grouping for documents, carrying the UI theme
// colors for its tab.
type Manufacturer struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	ThemePrimary   *string `json:"theme_primary"`
	ThemeSecondary *string `json:"theme_secondary"`
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}

const RoleAdmin = "admin"

// Document is one uploaded PDF. Its sections and figures are derived once
// at upload time and die with it.
type Document struct {
	ID               int64     `json:"id"`
	ManufacturerID   int64     `json:"manufacturer_id"`
	Title            string    `json:"title"`
	OriginalFilename string    `json:"original_filename"`
	StorageKey       string    `json:"storage_key"`
	UploadedBy       int64     `json:"uploaded_by"`
	UploadedAt       time.Time `json:"uploaded_at"`
	RevisionDate     *string   `json:"revision_date"`
	Tags             *string   `json:"tags"`
}

type Section struct {
	ID           int64  `json:"id"`
	DocumentID   int64  `json:"document_id"`
	HeadingText  string `json:"heading_text"`
	HeadingLevel string `json:"heading_level"`
	PageStart    int    `json:"page_start"`
	PageEnd      int    `json:"page_end"`
	OrderIndex   int    `json:"order_index"`
}

type Figure struct {
	ID              int64   `json:"id"`
	DocumentID      int64   `json:"document_id"`
	SectionID       *int64  `json:"section_id"`
	PageNumber      int     `json:"page_number"`
	CaptionText     string  `json:"caption_text"`
	ImageStorageKey *string `json:"image_storage_key"`
	OrderIndex      int     `json:"order_index"`
}

type AuditLog struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Role           string    `json:"role"`
	ActionType     string    `json:"action_type"`
	ManufacturerID *int64    `json:"manufacturer_id"`
	DocumentID     *int64    `json:"document_id"`
	SectionID      *int64    `json:"section_id"`
	MetadataJSON   *string   `json:"metadata_json"`
	CreatedAt      time.Time `json:"created_at"`
}

// Audit action types.
const (
	ActionLogin           = "LOGIN"
	ActionLogout          = "LOGOUT"
	ActionViewDocList     = "VIEW_DOC_LIST"
	ActionUploadDoc       = "UPLOAD_DOC"
	ActionUpdateDoc       = "UPDATE_DOC"
	ActionDeleteDoc       = "DELETE_DOC"
	ActionViewSectionList = "VIEW_SECTION_LIST"
	ActionViewSection     = "VIEW_SECTION"
	ActionSearchTool      = "SEARCH_TOOL"
)
