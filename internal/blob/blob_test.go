package blob

import (
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	s := NewStore(t.TempDir())

	key, err := s.Save("UT Manual Rev 3.pdf", []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(key, "pdfs/") {
		t.Errorf("expected key under pdfs/, got %q", key)
	}
	if !strings.HasSuffix(key, "/UT_Manual_Rev_3.pdf") {
		t.Errorf("expected sanitized filename suffix, got %q", key)
	}

	f, err := s.Open(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("expected stored bytes back, got %q", data)
	}
}

func TestSave_DistinctKeysForSameFilename(t *testing.T) {
	s := NewStore(t.TempDir())

	k1, err := s.Save("manual.pdf", []byte("one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k2, err := s.Save("manual.pdf", []byte("two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k1 == k2 {
		t.Errorf("expected distinct keys for repeated uploads, got %q twice", k1)
	}
}

func TestOpen_RejectsTraversal(t *testing.T) {
	s := NewStore(t.TempDir())

	for _, key := range []string{"", "../etc/passwd", "pdfs/../../x", "/abs/path"} {
		if _, err := s.Open(key); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestRemove_MissingBlobIsNotAnError(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Remove("pdfs/none/missing.pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"with space.pdf", "with_space.pdf"},
		{"../../etc/passwd", "passwd"},
		{"dir/nested.pdf", "nested.pdf"},
		{"", "unnamed"},
		{".", "unnamed"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}
