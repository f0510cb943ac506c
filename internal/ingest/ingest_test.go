package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/ndthub/internal/outline"
	"github.com/dgallion1/ndthub/internal/store"
)

type fakeExtractor struct {
	pages []string
	err   error
}

func (f *fakeExtractor) Pages(data []byte) ([]string, error) {
	return f.pages, f.err
}

type fakeBlobs struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *fakeBlobs) Save(filename string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	key := "pdfs/test/" + filename
	f.saved = append(f.saved, key)
	return key, nil
}

func (f *fakeBlobs) Remove(key string) error {
	f.removed = append(f.removed, key)
	return nil
}

type fakeOutlineStore struct {
	doc   *store.Document
	res   outline.Result
	entry store.AuditLog
	calls int
	err   error
}

func (f *fakeOutlineStore) CreateDocumentWithOutline(ctx context.Context, doc *store.Document, res outline.Result, entry store.AuditLog) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	doc.ID = 42
	f.doc = doc
	f.res = res
	f.entry = entry
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func uploader() *store.User {
	return &store.User{ID: 7, Username: "admin", Role: store.RoleAdmin, IsActive: true}
}

func TestUpload_HappyPath(t *testing.T) {
	ext := &fakeExtractor{pages: []string{
		"1 Scope\nFigure 1 probe arrangement",
		"2 References",
	}}
	blobs := &fakeBlobs{}
	db := &fakeOutlineStore{}
	ing := NewIngestor(ext, blobs, db, testLogger())

	res, err := ing.Upload(context.Background(), Request{
		ManufacturerID: 3,
		Title:          "UT Manual",
		Filename:       "manual.pdf",
		Data:           []byte("%PDF"),
		UploadedBy:     uploader(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.SectionsCreated != 2 {
		t.Errorf("expected 2 sections created, got %d", res.SectionsCreated)
	}
	if res.FiguresCreated != 1 {
		t.Errorf("expected 1 figure created, got %d", res.FiguresCreated)
	}
	if res.Document.ID != 42 {
		t.Errorf("expected persisted document ID 42, got %d", res.Document.ID)
	}
	if res.Document.StorageKey != "pdfs/test/manual.pdf" {
		t.Errorf("unexpected storage key %q", res.Document.StorageKey)
	}
	if db.entry.ActionType != store.ActionUploadDoc {
		t.Errorf("expected %s audit action, got %q", store.ActionUploadDoc, db.entry.ActionType)
	}
	if db.entry.MetadataJSON == nil || !strings.Contains(*db.entry.MetadataJSON, `"sections":2`) {
		t.Errorf("expected section count in audit metadata, got %v", db.entry.MetadataJSON)
	}
	if len(blobs.removed) != 0 {
		t.Errorf("expected no blob removal on success, got %v", blobs.removed)
	}
}

func TestUpload_MalformedPDFPersistsNothing(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("malformed pdf document")}
	blobs := &fakeBlobs{}
	db := &fakeOutlineStore{}
	ing := NewIngestor(ext, blobs, db, testLogger())

	_, err := ing.Upload(context.Background(), Request{
		Filename:   "broken.pdf",
		Data:       []byte("junk"),
		UploadedBy: uploader(),
	})
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}

	if len(blobs.saved) != 0 {
		t.Errorf("expected no blob saved, got %v", blobs.saved)
	}
	if db.calls != 0 {
		t.Errorf("expected no persistence attempt, got %d calls", db.calls)
	}
}

func TestUpload_PersistFailureRemovesBlob(t *testing.T) {
	ext := &fakeExtractor{pages: []string{"1 Scope"}}
	blobs := &fakeBlobs{}
	db := &fakeOutlineStore{err: errors.New("connection lost")}
	ing := NewIngestor(ext, blobs, db, testLogger())

	_, err := ing.Upload(context.Background(), Request{
		Filename:   "manual.pdf",
		Data:       []byte("%PDF"),
		UploadedBy: uploader(),
	})
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}

	if len(blobs.removed) != 1 || blobs.removed[0] != "pdfs/test/manual.pdf" {
		t.Errorf("expected failed upload to remove its blob, got %v", blobs.removed)
	}
}

func TestUpload_FallbackOutlineReachesStore(t *testing.T) {
	// No headings anywhere: the store still receives exactly one section.
	ext := &fakeExtractor{pages: []string{"body text only", "more text"}}
	blobs := &fakeBlobs{}
	db := &fakeOutlineStore{}
	ing := NewIngestor(ext, blobs, db, testLogger())

	res, err := ing.Upload(context.Background(), Request{
		ManufacturerID: 1,
		Filename:       "plain.pdf",
		Data:           []byte("%PDF"),
		UploadedBy:     uploader(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.SectionsCreated != 1 {
		t.Fatalf("expected the fallback section, got %d sections", res.SectionsCreated)
	}
	if db.res.Sections[0].HeadingText != outline.FallbackHeading {
		t.Errorf("expected fallback heading, got %q", db.res.Sections[0].HeadingText)
	}
	if db.res.Sections[0].PageEnd != 2 {
		t.Errorf("expected fallback page_end 2, got %d", db.res.Sections[0].PageEnd)
	}
}
