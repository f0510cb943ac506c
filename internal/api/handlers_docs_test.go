package api

import (
	"net/http/httptest"
	"testing"
)

func TestSetPDFHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	setPDFHeaders(rec, "UT Manual.pdf")

	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", got)
	}
	want := `attachment; filename="UT Manual.pdf"`
	if got := rec.Header().Get("Content-Disposition"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
