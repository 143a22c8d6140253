package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

// createTestPNG returns a fully transparent PNG.
func createTestPNG(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr bool
	}{
		{"jpeg", createTestJPEG(4, 4), "image/jpeg", false},
		{"png", createTestPNG(4, 4), "image/png", false},
		{"gif", []byte("GIF89a..."), "", true},
		{"text", []byte("not an image"), "", true},
		{"empty", nil, "", true},
	}

	for _, tt := range tests {
		got, err := Sniff(tt.data)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Sniff error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("%s: Sniff = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestProcessJPEG(t *testing.T) {
	result, err := Process(createTestJPEG(100, 80))
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", result.MIME)
	}
	if result.Width != 100 || result.Height != 80 {
		t.Errorf("expected 100x80, got %dx%d", result.Width, result.Height)
	}
}

func TestProcessTransparentPNGOnWhite(t *testing.T) {
	result, err := Process(createTestPNG(20, 20))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg (always outputs JPEG), got %s", result.MIME)
	}

	img, err := jpeg.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected transparent pixels to become white, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestProcessDownscale(t *testing.T) {
	result, err := Process(createTestJPEG(2048, 1024))
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != MaxDimension || bounds.Dy() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, bounds.Dx(), bounds.Dy())
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	result, err := Process(createTestJPEG(50, 50))
	if err != nil {
		t.Fatalf("Process small image: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("small image should not be resized: got %dx%d", result.Width, result.Height)
	}
}

func TestProcessInvalidFormat(t *testing.T) {
	if _, err := Process([]byte("not an image")); err == nil {
		t.Error("expected error for invalid format")
	}
}

// withDimensions rewrites the IHDR chunk of a PNG to declare w x h.
func withDimensions(data []byte, w, h uint32) []byte {
	out := append([]byte(nil), data...)
	// signature (8) | length (4) | "IHDR" (4) | width (4) | height (4) | ...
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestProcessRejectsHugeDimensions(t *testing.T) {
	data := withDimensions(createTestPNG(1, 1), 40000, 40000)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("crafted header should still parse: %v", err)
	}
	if cfg.Width != 40000 || cfg.Height != 40000 {
		t.Fatalf("unexpected crafted size %dx%d", cfg.Width, cfg.Height)
	}

	_, err = Process(data)
	if !errors.Is(err, ErrTooManyPixels) {
		t.Errorf("expected ErrTooManyPixels, got %v", err)
	}
}
