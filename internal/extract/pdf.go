package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// ErrMalformedPDF reports a document that could not be opened or parsed at
// all. No partial extraction is returned alongside it.
var ErrMalformedPDF = errors.New("malformed pdf document")

// PDFExtractor produces per-page plain text from raw PDF bytes. It tries the
// Go library first, then falls back to pdftotext if enabled and available.
type PDFExtractor struct {
	FallbackPdftotext bool
}

// Pages returns the extracted text of each page, 1-indexed by slice
// position. A page whose extraction yields nothing is an empty string, not
// an error.
func (e *PDFExtractor) Pages(data []byte) ([]string, error) {
	pages, err := extractPDFText(data)
	if err != nil && e.FallbackPdftotext {
		pages, err = extractPdftotext(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPDF, err)
	}
	return pages, nil
}

func extractPDFText(data []byte) (pages []string, err error) {
	// The pdf library panics on some corrupt files instead of returning an
	// error; treat those the same as an open failure.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	pages = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}

func extractPdftotext(data []byte) ([]string, error) {
	// pdftotext reads from a file path, so spill the bytes to a temp file.
	tmp, err := os.CreateTemp("", "ndthub-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.Command("pdftotext", "-layout", tmpPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return splitPages(string(out)), nil
}

// splitPages splits pdftotext output into per-page text. pdftotext ends
// every page with a form feed, the last one included, so a single trailing
// separator is dropped before splitting or the page count comes out one
// too high.
func splitPages(text string) []string {
	text = strings.TrimSuffix(text, "\f")
	return strings.Split(text, "\f")
}
