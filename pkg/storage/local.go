package storage

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/adityapratama/shopeasy-backend/pkg/config"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// LocalStore writes product images to disk, resizing anything larger than
// the configured bounds while preserving aspect ratio.
type LocalStore struct {
	dir       string
	maxWidth  int
	maxHeight int
}

func NewLocalStore(cfg config.MediaConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{
		dir:       cfg.UploadDir,
		maxWidth:  cfg.ImageMaxWidth,
		maxHeight: cfg.ImageMaxHeight,
	}, nil
}

// SaveImage decodes, bounds-checks and stores an uploaded image. It returns
// the relative path to serve the file under.
func (s *LocalStore) SaveImage(r io.Reader, originalName string) (string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return "", ErrUnsupportedImage
	}
	if format != "jpeg" && format != "png" {
		return "", ErrUnsupportedImage
	}

	img = s.shrink(img)

	ext := ".jpg"
	if format == "png" {
		ext = ".png"
	}
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer f.Close()

	switch format {
	case "png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("encoding image: %w", err)
	}

	return name, nil
}

// Remove deletes a stored image. Missing files are ignored.
func (s *LocalStore) Remove(name string) error {
	if strings.Contains(name, "..") || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("invalid image name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}

// Open returns a stored image for serving.
func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	if strings.Contains(name, "..") || strings.ContainsRune(name, filepath.Separator) {
		return nil, fmt.Errorf("invalid image name %q", name)
	}
	return os.Open(filepath.Join(s.dir, name))
}

func (s *LocalStore) shrink(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= s.maxWidth && h <= s.maxHeight {
		return img
	}

	scaleW := float64(s.maxWidth) / float64(w)
	scaleH := float64(s.maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
