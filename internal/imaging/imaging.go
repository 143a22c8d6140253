// Package imaging validates uploaded garment photos and produces the
// normalized image shown in the wardrobe grid.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxDimension is the maximum width or height of a processed image.
const MaxDimension = 1024

// MaxPixels caps the decoded size of an upload.
const MaxPixels = 50_000_000

// ErrTooManyPixels is returned for images whose declared size exceeds MaxPixels.
var ErrTooManyPixels = errors.New("image dimensions too large")

// JPEGQuality is the compression quality for processed images.
const JPEGQuality = 85

// ProcessedMIME is the MIME type of every processed image.
const ProcessedMIME = "image/jpeg"

// AllowedMIME lists the accepted upload MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Result is a processed image.
type Result struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Sniff detects the image type from its bytes, ignoring any client-supplied
// content type, and rejects anything that is not an accepted image.
func Sniff(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return "", fmt.Errorf("unsupported image format: %s (only JPEG, PNG and WebP accepted)", detected)
	}
	return detected, nil
}

// Process decodes an uploaded image, downscales it to fit MaxDimension and
// re-encodes it as JPEG.
func Process(data []byte) (*Result, error) {
	if _, err := Sniff(data); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = flatten(downscale(img, MaxDimension))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:   buf.Bytes(),
		MIME:   ProcessedMIME,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, keeping
// the aspect ratio. Smaller images are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// flatten composites transparent garment cut-outs onto white, since JPEG has
// no alpha channel and would otherwise render them on black.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
