package imageprep

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeTestJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizePNGPassesThrough(t *testing.T) {
	data := encodeTestPNG(t)
	out, mime, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("mime mismatch: %s", mime)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("png must pass through unmodified")
	}
}

func TestNormalizeJPEGPassesThrough(t *testing.T) {
	data := encodeTestJPEG(t)
	out, mime, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if mime != "image/jpeg" {
		t.Fatalf("mime mismatch: %s", mime)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("jpeg must pass through unmodified")
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, _, err := Normalize([]byte("definitely not an image"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNormalizeRejectsEmptyPayload(t *testing.T) {
	if _, _, err := Normalize(nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		base, mime, want string
	}{
		{"product", "image/png", "product.png"},
		{"product", "image/jpeg", "product.jpg"},
		{"", "image/png", "product.png"},
		{"shoes", "", "shoes.png"},
	}
	for _, tt := range tests {
		if got := FileName(tt.base, tt.mime); got != tt.want {
			t.Fatalf("FileName(%q, %q) = %q, want %q", tt.base, tt.mime, got, tt.want)
		}
	}
}
