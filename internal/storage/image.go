package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxUploadBytes = 5 << 20
	MaxImageSide   = 1024
	webpQuality    = 80
)

var (
	ErrInvalidMIME  = errors.New("invalid MIME type")
	ErrFileTooLarge = errors.New("file size exceeds limit")
	ErrUndecodable  = errors.New("image could not be decoded")
)

var allowedMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ImageUploader normalises uploads to webp and stores them under a prefix.
type ImageUploader struct {
	store ObjectStore
}

func NewImageUploader(store ObjectStore) *ImageUploader {
	return &ImageUploader{store: store}
}

// Upload validates, re-encodes and stores r. prefix is e.g. "stylists".
func (u *ImageUploader) Upload(ctx context.Context, prefix string, r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return "", ErrFileTooLarge
	}

	if mime := http.DetectContentType(raw); !allowedMIMEs[mime] {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, mime)
	}

	encoded, err := Normalize(raw)
	if err != nil {
		return "", err
	}

	key := path.Join(prefix, uuid.NewString()+".webp")
	return u.store.Put(ctx, key, "image/webp", encoded)
}

// Normalize decodes jpeg, png or webp, fits it inside MaxImageSide and
// encodes it as lossy webp.
func Normalize(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	img := fit(src, MaxImageSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, side int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= side && h <= side {
		return src
	}

	if w >= h {
		h = h * side / w
		w = side
	} else {
		w = w * side / h
		h = side
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
