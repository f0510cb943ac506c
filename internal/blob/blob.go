package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store keeps uploaded PDF blobs on the local filesystem under an
// explicitly configured root directory.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Save writes data under a fresh opaque storage key derived from the
// original filename and returns the key. Keys look like
// "pdfs/<uuid>/<name>.pdf" so repeated uploads of the same filename never
// collide.
func (s *Store) Save(filename string, data []byte) (string, error) {
	key := fmt.Sprintf("pdfs/%s/%s", uuid.NewString(), SanitizeFilename(filename))
	dest := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return key, nil
}

// path resolves a storage key to an on-disk path, rejecting keys that would
// escape the storage root.
func (s *Store) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Open returns the stored blob for a key. A missing blob surfaces as an
// os.IsNotExist error.
func (s *Store) Open(key string) (*os.File, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes the blob for a key. A missing blob is not an error.
func (s *Store) Remove(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// SanitizeFilename strips path components and separators from an uploaded
// filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
