package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"
)

// ErrUnsupportedFormat is returned for payloads that are not a decodable image.
var ErrUnsupportedFormat = errors.New("imageprep: unsupported image format")

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Normalize converts a product photo into a format the generation backend
// accepts. PNG and JPEG pass through untouched; WEBP is re-encoded as PNG;
// anything else stdlib can decode is also re-encoded as PNG.
func Normalize(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("imageprep: empty payload")
	}

	switch {
	case isPNG(data):
		return data, "image/png", nil
	case isJPEG(data):
		return data, "image/jpeg", nil
	case isWEBP(data):
		img, err := webp.Decode(bytes.NewReader(data), &decoder.Options{})
		if err != nil {
			return nil, "", fmt.Errorf("imageprep: decode webp: %w", err)
		}
		return encodePNG(img)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedFormat
	}
	return encodePNG(img)
}

// FileName picks an upload name matching the normalized MIME type.
func FileName(base, mime string) string {
	if base == "" {
		base = "product"
	}
	if mime == "image/jpeg" {
		return base + ".jpg"
	}
	return base + ".png"
}

func encodePNG(img image.Image) ([]byte, string, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, "", fmt.Errorf("imageprep: encode png: %w", err)
	}
	return out.Bytes(), "image/png", nil
}

func isPNG(data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[:8], pngMagic)
}

func isJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xff && data[1] == 0xd8 && data[2] == 0xff
}

func isWEBP(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	return string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}
