package storage

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adityapratama/shopeasy-backend/pkg/config"
)

func testStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(config.MediaConfig{
		UploadDir:      t.TempDir(),
		ImageMaxWidth:  800,
		ImageMaxHeight: 800,
	})
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return s
}

func encodeJPEG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return &buf
}

func TestSaveImageShrinksOversized(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	name, err := s.SaveImage(encodeJPEG(t, 1600, 1200), "big.jpg")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("unexpected name %s", name)
	}

	f, err := s.Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width > 800 || cfg.Height > 800 {
		t.Fatalf("image not shrunk: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Fatalf("aspect ratio not preserved: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSaveImageKeepsSmallPNG(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 100, 50))); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	name, err := s.SaveImage(&buf, "small.png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("unexpected name %s", name)
	}

	f, err := s.Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("small image should be untouched: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSaveImageRejectsGarbage(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if _, err := s.SaveImage(strings.NewReader("not an image"), "x.jpg"); err != ErrUnsupportedImage {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	name, err := s.SaveImage(encodeJPEG(t, 10, 10), "x.jpg")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Remove(name); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove(name); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.dir, name)); !os.IsNotExist(err) {
		t.Fatal("file should be gone")
	}
}

func TestRemoveRejectsTraversal(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.Remove("../escape.jpg"); err == nil {
		t.Fatal("expected error for traversal path")
	}
}
