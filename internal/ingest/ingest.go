package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgallion1/ndthub/internal/outline"
	"github.com/dgallion1/ndthub/internal/store"
)

// Extractor produces per-page plain text from raw PDF bytes.
type Extractor interface {
	Pages(data []byte) ([]string, error)
}

// BlobStore persists the raw PDF and hands back its storage key.
type BlobStore interface {
	Save(filename string, data []byte) (string, error)
	Remove(key string) error
}

// OutlineStore persists a document plus its outline atomically.
type OutlineStore interface {
	CreateDocumentWithOutline(ctx context.Context, doc *store.Document, res outline.Result, entry store.AuditLog) error
}

// Request carries everything one upload needs.
type Request struct {
	ManufacturerID int64
	Title          string
	RevisionDate   *string
	Tags           *string
	Filename       string
	Data           []byte
	UploadedBy     *store.User
}

// Result reports what the upload created.
type Result struct {
	Document        *store.Document
	SectionsCreated int
	FiguresCreated  int
}

// Ingestor runs the upload unit of work: extract, detect, store.
type Ingestor struct {
	extractor Extractor
	blobs     BlobStore
	db        OutlineStore
	log       *slog.Logger
}

func NewIngestor(extractor Extractor, blobs BlobStore, db OutlineStore, log *slog.Logger) *Ingestor {
	return &Ingestor{extractor: extractor, blobs: blobs, db: db, log: log}
}

// Upload processes one uploaded PDF synchronously. Extraction runs before
// anything is persisted, so a malformed document leaves no blob and no rows
// behind. The document, its sections and figures, and the upload audit
// record all land in one transaction.
func (ing *Ingestor) Upload(ctx context.Context, req Request) (*Result, error) {
	pages, err := ing.extractor.Pages(req.Data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", req.Filename, err)
	}

	res := outline.Detect(pages)

	key, err := ing.blobs.Save(req.Filename, req.Data)
	if err != nil {
		return nil, fmt.Errorf("store pdf: %w", err)
	}

	doc := &store.Document{
		ManufacturerID:   req.ManufacturerID,
		Title:            req.Title,
		OriginalFilename: req.Filename,
		StorageKey:       key,
		UploadedBy:       req.UploadedBy.ID,
		RevisionDate:     req.RevisionDate,
		Tags:             req.Tags,
	}

	meta, _ := json.Marshal(map[string]int{
		"sections": len(res.Sections),
		"figures":  len(res.Figures),
	})
	metaJSON := string(meta)
	entry := store.AuditLog{
		UserID:         req.UploadedBy.ID,
		Role:           req.UploadedBy.Role,
		ActionType:     store.ActionUploadDoc,
		ManufacturerID: &req.ManufacturerID,
		MetadataJSON:   &metaJSON,
	}

	if err := ing.db.CreateDocumentWithOutline(ctx, doc, res, entry); err != nil {
		// The blob was written before the transaction; drop it again so a
		// failed upload leaves no partial state.
		if rmErr := ing.blobs.Remove(key); rmErr != nil {
			ing.log.Warn("orphaned blob after failed upload", "key", key, "error", rmErr)
		}
		return nil, fmt.Errorf("persist document: %w", err)
	}

	ing.log.Info("document ingested",
		"document_id", doc.ID,
		"manufacturer_id", doc.ManufacturerID,
		"pages", res.PageCount,
		"sections", len(res.Sections),
		"figures", len(res.Figures),
	)

	return &Result{
		Document:        doc,
		SectionsCreated: len(res.Sections),
		FiguresCreated:  len(res.Figures),
	}, nil
}
