package local

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aromaten/aromaten-backend/pkg/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(config.UploadsConfig{
		Dir:         t.TempDir(),
		PublicPath:  "/uploads",
		MaxUploadMB: 1,
	}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.Save(ctx, "image/png", bytes.NewReader([]byte("png-bytes")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(stored.Name, ".png") {
		t.Fatalf("expected .png suffix, got %s", stored.Name)
	}
	if stored.URL != "/uploads/"+stored.Name {
		t.Fatalf("unexpected public url %s", stored.URL)
	}
	if stored.Size != int64(len("png-bytes")) {
		t.Fatalf("unexpected size %d", stored.Size)
	}
	if _, err := os.Stat(filepath.Join(store.dir, stored.Name)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	if err := store.Delete(ctx, stored.Name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.dir, stored.Name)); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, got %v", err)
	}

	if err := store.Delete(ctx, stored.Name); err != nil {
		t.Fatalf("deleting a missing file should not error: %v", err)
	}
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := newTestStore(t)
	for _, contentType := range []string{"application/pdf", "image/gif"} {
		if _, err := store.Save(context.Background(), contentType, bytes.NewReader([]byte("payload"))); !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType for %s, got %v", contentType, err)
		}
	}
}

func TestSaveNormalizesContentType(t *testing.T) {
	store := newTestStore(t)
	stored, err := store.Save(context.Background(), "Image/JPEG; charset=binary", bytes.NewReader([]byte("jpeg")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(stored.Name, ".jpg") {
		t.Fatalf("expected .jpg suffix, got %s", stored.Name)
	}
}

func TestSaveEnforcesSizeCap(t *testing.T) {
	store := newTestStore(t)
	store.maxBytes = 8

	if _, err := store.Save(context.Background(), "image/png", bytes.NewReader(make([]byte, 9))); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	entries, err := os.ReadDir(store.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("oversized upload should be cleaned up, found %d files", len(entries))
	}

	if _, err := store.Save(context.Background(), "image/png", bytes.NewReader(make([]byte, 8))); err != nil {
		t.Fatalf("at-limit upload should succeed: %v", err)
	}
}

func TestDeleteRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)
	outside := filepath.Join(filepath.Dir(store.dir), "victim.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write victim: %v", err)
	}

	if err := store.Delete(context.Background(), "../victim.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the store should be untouched: %v", err)
	}
}
