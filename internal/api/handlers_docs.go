package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dgallion1/ndthub/internal/blob"
	"github.com/dgallion1/ndthub/internal/extract"
	"github.com/dgallion1/ndthub/internal/ingest"
	"github.com/dgallion1/ndthub/internal/store"
)

func (s *Server) handleListManufacturers(w http.ResponseWriter, r *http.Request) {
	manufacturers, err := s.db.ListManufacturers(r.Context())
	if err != nil {
		s.log.Error("list manufacturers failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if manufacturers == nil {
		manufacturers = []store.Manufacturer{}
	}
	respondJSON(w, http.StatusOK, manufacturers)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	manufacturerID, ok := idParam(r, "manufacturerID")
	if !ok {
		jsonError(w, "invalid manufacturer id", http.StatusBadRequest)
		return
	}

	documents, err := s.db.ListDocuments(r.Context(), manufacturerID)
	if err != nil {
		s.log.Error("list documents failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if documents == nil {
		documents = []store.Document{}
	}

	user := currentUser(r)
	s.recordAudit(r, store.AuditLog{
		UserID:         user.ID,
		Role:           user.Role,
		ActionType:     store.ActionViewDocList,
		ManufacturerID: &manufacturerID,
		MetadataJSON:   metaJSON(map[string]int{"count": len(documents)}),
	})

	respondJSON(w, http.StatusOK, documents)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	manufacturerID, ok := idParam(r, "manufacturerID")
	if !ok {
		jsonError(w, "invalid manufacturer id", http.StatusBadRequest)
		return
	}

	// Limit total request size, with slack for multipart overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	title := r.FormValue("title")
	if title == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := blob.SanitizeFilename(header.Filename)
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		jsonError(w, "only PDF files allowed", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	req := ingest.Request{
		ManufacturerID: manufacturerID,
		Title:          title,
		RevisionDate:   optionalFormValue(r, "revision_date"),
		Tags:           optionalFormValue(r, "tags"),
		Filename:       filename,
		Data:           data,
		UploadedBy:     currentUser(r),
	}

	result, err := s.ingestor.Upload(r.Context(), req)
	if errors.Is(err, extract.ErrMalformedPDF) {
		jsonError(w, "invalid document", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.log.Error("upload failed", "filename", filename, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, result.Document)
}

type updateDocumentRequest struct {
	Title        *string `json:"title"`
	RevisionDate *string `json:"revision_date"`
	Tags         *string `json:"tags"`
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := idParam(r, "docID")
	if !ok {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}

	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user := currentUser(r)
	entry := store.AuditLog{
		UserID:     user.ID,
		Role:       user.Role,
		ActionType: store.ActionUpdateDoc,
		DocumentID: &docID,
		MetadataJSON: metaJSON(map[string]*string{
			"title":         req.Title,
			"revision_date": req.RevisionDate,
		}),
	}

	doc, err := s.db.UpdateDocument(r.Context(), docID, req.Title, req.RevisionDate, req.Tags, entry)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("update document failed", "document_id", docID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := idParam(r, "docID")
	if !ok {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}

	user := currentUser(r)
	entry := store.AuditLog{
		UserID:     user.ID,
		Role:       user.Role,
		ActionType: store.ActionDeleteDoc,
		DocumentID: &docID,
	}

	storageKey, err := s.db.DeleteDocument(r.Context(), docID, entry)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("delete document failed", "document_id", docID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	// The rows are gone; a stale blob is only wasted disk, not an error.
	if err := s.blobs.Remove(storageKey); err != nil {
		s.log.Warn("blob removal failed", "key", storageKey, "error", err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	docID, ok := idParam(r, "docID")
	if !ok {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}

	sections, err := s.db.ListSections(r.Context(), docID)
	if err != nil {
		s.log.Error("list sections failed", "document_id", docID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if sections == nil {
		sections = []store.Section{}
	}

	user := currentUser(r)
	s.recordAudit(r, store.AuditLog{
		UserID:       user.ID,
		Role:         user.Role,
		ActionType:   store.ActionViewSectionList,
		DocumentID:   &docID,
		MetadataJSON: metaJSON(map[string]int{"count": len(sections)}),
	})

	respondJSON(w, http.StatusOK, sections)
}

func (s *Server) handleListFigures(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := idParam(r, "sectionID")
	if !ok {
		jsonError(w, "invalid section id", http.StatusBadRequest)
		return
	}

	figures, err := s.db.ListFigures(r.Context(), sectionID)
	if err != nil {
		s.log.Error("list figures failed", "section_id", sectionID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if figures == nil {
		figures = []store.Figure{}
	}

	user := currentUser(r)
	s.recordAudit(r, store.AuditLog{
		UserID:       user.ID,
		Role:         user.Role,
		ActionType:   store.ActionViewSection,
		SectionID:    &sectionID,
		MetadataJSON: metaJSON(map[string]int{"count": len(figures)}),
	})

	respondJSON(w, http.StatusOK, figures)
}

func (s *Server) handleGetPDF(w http.ResponseWriter, r *http.Request) {
	docID, ok := idParam(r, "docID")
	if !ok {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}

	doc, err := s.db.DocumentByID(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("document lookup failed", "document_id", docID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	f, err := s.blobs.Open(doc.StorageKey)
	if os.IsNotExist(err) {
		jsonError(w, "PDF missing", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("open blob failed", "document_id", docID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.log.Error("stat blob failed", "document_id", docID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	setPDFHeaders(w, doc.OriginalFilename)
	http.ServeContent(w, r, doc.OriginalFilename, info.ModTime(), f)
}

// setPDFHeaders marks the response as a PDF download. The original filename
// goes in the disposition so browsers save it under its uploaded name.
func setPDFHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.db.ListAudit(r.Context(), s.cfg.AuditLogLimit)
	if err != nil {
		s.log.Error("list audit logs failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []store.AuditLog{}
	}
	respondJSON(w, http.StatusOK, logs)
}

// recordAudit appends a best-effort audit entry for a read endpoint; a
// failed write is logged but never fails the request.
func (s *Server) recordAudit(r *http.Request, entry store.AuditLog) {
	if err := s.db.AppendAudit(r.Context(), entry); err != nil {
		s.log.Warn("audit write failed", "action", entry.ActionType, "error", err)
	}
}

func optionalFormValue(r *http.Request, name string) *string {
	v := r.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}
