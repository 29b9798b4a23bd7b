package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
)

// PublicPrefix is the URL prefix stored references start with.
const PublicPrefix = "uploads/images"

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// LocalStore keeps uploaded images in a directory served at /uploads/images.
// References have the form "uploads/images/<uuid>.<ext>".
type LocalStore struct {
	dir      string
	maxBytes int64
}

func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory backing the store.
func (s *LocalStore) Dir() string { return s.dir }

// Store sniffs the content type, rejects anything but png/jpeg and writes the
// file under a random name.
func (s *LocalStore) Store(_ context.Context, upload ports.Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", domain.NewValidationError("image", "image is required")
	}
	if s.maxBytes > 0 && int64(len(upload.Data)) > s.maxBytes {
		return "", domain.NewValidationError("image", fmt.Sprintf("image must not exceed %d bytes", s.maxBytes))
	}

	mtype := mimetype.Detect(upload.Data)
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return "", domain.NewValidationError("image", "invalid mime type, only png, jpg and jpeg are allowed")
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), upload.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write image: %w", domain.ErrStorage, err)
	}
	return path.Join(PublicPrefix, name), nil
}

// Delete removes the file behind ref. A file that is already gone is not an
// error.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	name, err := s.fileName(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove image: %w", domain.ErrStorage, err)
	}
	return nil
}

func (s *LocalStore) fileName(ref string) (string, error) {
	name := strings.TrimPrefix(ref, PublicPrefix+"/")
	if name == "" || name == ref || strings.ContainsAny(name, `/\`) || name == ".." {
		return "", fmt.Errorf("%w: invalid image reference %q", domain.ErrStorage, ref)
	}
	return name, nil
}
