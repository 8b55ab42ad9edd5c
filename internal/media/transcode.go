// Package media turns uploaded images into size-bounded WebP objects in S3.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
)

const (
	MaxUploadBytes = 5 << 20
	MaxWidth       = 1600
	webpQuality    = 80
)

// Transcode decodes a PNG, JPEG or WebP upload, scales it down to MaxWidth
// and re-encodes it as lossy WebP.
func Transcode(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return nil, onboarding.NewValidationError("image", "too_large")
	}
	if len(raw) == 0 {
		return nil, onboarding.NewValidationError("image", "required")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, onboarding.NewValidationError("image", "unsupported_format")
	}

	img := scaleToWidth(src, MaxWidth)

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return out.Bytes(), nil
}

func scaleToWidth(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxWidth {
		return src
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
