package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dgallion1/ndthub/internal/outline"
)

func (s *Store) ListManufacturers(ctx context.Context) ([]Manufacturer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, theme_primary, theme_secondary
		FROM manufacturers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	defer rows.Close()

	var out []Manufacturer
	for rows.Next() {
		var m Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.ThemePrimary, &m.ThemeSecondary); err != nil {
			return nil, fmt.Errorf("scan manufacturer: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const documentColumns = `id, manufacturer_id, title, original_filename, storage_key,
	uploaded_by, uploaded_at, revision_date, tags`

func (s *Store) ListDocuments(ctx context.Context, manufacturerID int64) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE manufacturer_id = $1
		ORDER BY uploaded_at DESC`, manufacturerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *Store) DocumentByID(ctx context.Context, id int64) (*Document, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.ManufacturerID, &d.Title, &d.OriginalFilename,
		&d.StorageKey, &d.UploadedBy, &d.UploadedAt, &d.RevisionDate, &d.Tags)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &d, nil
}

// UpdateDocument overwrites the provided metadata fields (nil keeps the
// stored value) and records the update. Document metadata edits never
// re-run outline extraction.
func (s *Store) UpdateDocument(ctx context.Context, id int64, title, revisionDate, tags *string, entry AuditLog) (*Document, error) {
	var doc *Document
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE documents
			SET title = COALESCE($2, title),
			    revision_date = COALESCE($3, revision_date),
			    tags = COALESCE($4, tags)
			WHERE id = $1
			RETURNING `+documentColumns, id, title, revisionDate, tags)
		d, err := scanDocument(row)
		if err != nil {
			return err
		}
		doc = d
		return insertAudit(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document; its sections and figures go with it
// through the cascading foreign keys. The storage key of the deleted row is
// returned so the caller can remove the blob.
func (s *Store) DeleteDocument(ctx context.Context, id int64, entry AuditLog) (string, error) {
	var storageKey string
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			DELETE FROM documents WHERE id = $1 RETURNING storage_key`, id)
		if err := row.Scan(&storageKey); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("delete document: %w", err)
		}
		return insertAudit(ctx, tx, entry)
	})
	if err != nil {
		return "", err
	}
	return storageKey, nil
}

// CreateDocumentWithOutline persists an uploaded document together with its
// detected outline and the upload audit record in one transaction. Sections
// are inserted first so every figure can reference a durable section ID;
// any failure rolls the whole upload back.
func (s *Store) CreateDocumentWithOutline(ctx context.Context, doc *Document, res outline.Result, entry AuditLog) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO documents (manufacturer_id, title, original_filename, storage_key, uploaded_by, revision_date, tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, uploaded_at`,
			doc.ManufacturerID, doc.Title, doc.OriginalFilename, doc.StorageKey,
			doc.UploadedBy, doc.RevisionDate, doc.Tags)
		if err := row.Scan(&doc.ID, &doc.UploadedAt); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}

		sectionIDs := make([]int64, len(res.Sections))
		for i, sec := range res.Sections {
			row := tx.QueryRow(ctx, `
				INSERT INTO sections (document_id, heading_text, heading_level, page_start, page_end, order_index)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				doc.ID, sec.HeadingText, sec.HeadingLevel, sec.PageStart, sec.PageEnd, sec.OrderIndex)
			if err := row.Scan(&sectionIDs[i]); err != nil {
				return fmt.Errorf("insert section %d: %w", sec.OrderIndex, err)
			}
		}

		for _, fig := range res.Figures {
			sectionID := ResolveSectionID(sectionIDs, fig.SectionIndex)
			if _, err := tx.Exec(ctx, `
				INSERT INTO figures (document_id, section_id, page_number, caption_text, image_storage_key, order_index)
				VALUES ($1, $2, $3, $4, NULL, $5)`,
				doc.ID, sectionID, fig.PageNumber, fig.CaptionText, fig.OrderIndex); err != nil {
				return fmt.Errorf("insert figure %d: %w", fig.OrderIndex, err)
			}
		}

		entry.DocumentID = &doc.ID
		return insertAudit(ctx, tx, entry)
	})
}

// ResolveSectionID maps a figure's transient detection index to the durable
// ID of the section created at that index, or nil when the figure belongs
// to no section.
func ResolveSectionID(sectionIDs []int64, sectionIndex int) *int64 {
	if sectionIndex < 0 || sectionIndex >= len(sectionIDs) {
		return nil
	}
	return &sectionIDs[sectionIndex]
}

func (s *Store) ListSections(ctx context.Context, documentID int64) ([]Section, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, document_id, heading_text, heading_level, page_start, page_end, order_index
		FROM sections
		WHERE document_id = $1
		ORDER BY order_index`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var out []Section
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.ID, &sec.DocumentID, &sec.HeadingText, &sec.HeadingLevel,
			&sec.PageStart, &sec.PageEnd, &sec.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (s *Store) ListFigures(ctx context.Context, sectionID int64) ([]Figure, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, document_id, section_id, page_number, caption_text, image_storage_key, order_index
		FROM figures
		WHERE section_id = $1
		ORDER BY order_index`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list figures: %w", err)
	}
	defer rows.Close()

	var out []Figure
	for rows.Next() {
		var f Figure
		if err := rows.Scan(&f.ID, &f.DocumentID, &f.SectionID, &f.PageNumber,
			&f.CaptionText, &f.ImageStorageKey, &f.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan figure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
