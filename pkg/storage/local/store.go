package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aromaten/aromaten-backend/pkg/config"
	"github.com/aromaten/aromaten-backend/pkg/logger"
)

// ErrUnsupportedType signals a content type outside the image allowlist.
var ErrUnsupportedType = errors.New("unsupported content type")

// ErrTooLarge signals an upload exceeding the configured size cap.
var ErrTooLarge = errors.New("upload exceeds size limit")

var extensionsByType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Store writes product images to a directory served as static assets.
type Store struct {
	dir        string
	publicPath string
	maxBytes   int64
	logg       *logger.Logger
}

// StoredFile describes a persisted upload.
type StoredFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// NewStore ensures the upload directory exists and returns a store over it.
func NewStore(cfg config.UploadsConfig, logg *logger.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("uploads directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Store{
		dir:        cfg.Dir,
		publicPath: strings.TrimRight(cfg.PublicPath, "/"),
		maxBytes:   cfg.MaxUploadBytes(),
		logg:       logg,
	}, nil
}

// Save validates and persists the upload under a generated name.
func (s *Store) Save(ctx context.Context, contentType string, body io.Reader) (*StoredFile, error) {
	ext, ok := extensionsByType[normalizeContentType(contentType)]
	if !ok {
		return nil, ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	target := filepath.Join(s.dir, name)

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating upload file: %w", err)
	}

	// Read one byte past the cap so an at-limit upload still succeeds.
	written, err := io.Copy(file, io.LimitReader(body, s.maxBytes+1))
	closeErr := file.Close()
	switch {
	case err != nil:
		_ = os.Remove(target)
		return nil, fmt.Errorf("writing upload: %w", err)
	case closeErr != nil:
		_ = os.Remove(target)
		return nil, fmt.Errorf("closing upload: %w", closeErr)
	case written > s.maxBytes:
		_ = os.Remove(target)
		return nil, ErrTooLarge
	}

	if s.logg != nil {
		s.logg.Info(ctx, "upload stored")
	}

	return &StoredFile{
		Name: name,
		URL:  s.publicPath + "/" + name,
		Size: written,
	}, nil
}

// Delete removes a previously stored upload. Missing files are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	clean := path.Base(name)
	if clean == "." || clean == "/" || clean == "" {
		return errors.New("invalid upload name")
	}
	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

func normalizeContentType(value string) string {
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = value[:idx]
	}
	return strings.ToLower(strings.TrimSpace(value))
}
