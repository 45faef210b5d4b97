package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"socialevents/internal/domain"
)

type diskStore struct {
	dir     string
	urlBase string
}

// NewDiskStore returns a MediaStore that writes uploads under dir and serves
// them from urlBase (e.g. "/uploads"). The directory is created if missing.
func NewDiskStore(dir, urlBase string) (domain.MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &diskStore{dir: dir, urlBase: strings.TrimRight(urlBase, "/")}, nil
}

func (s *diskStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type %q: %w", ext, domain.ErrInvalidInput)
	}
	ref := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return ref, nil
}

func (s *diskStore) URL(ref string) string {
	return s.urlBase + "/" + ref
}
