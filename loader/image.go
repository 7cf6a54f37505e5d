package loader

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	// Register the stdlib and extended image formats so DecodeConfig can
	// size anything the validator accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Dimensions returns the natural pixel dimensions and format name of an
// encoded image without decoding its pixels.
func Dimensions(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("decoding image dimensions: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}

// DecodeDataURL extracts the raw bytes and MIME type from a
// "data:image/png;base64,..." URL, the form pasted images arrive in.
func DecodeDataURL(url string) (data []byte, mimeType string, err error) {
	const scheme = "data:"
	if !strings.HasPrefix(url, scheme) {
		return nil, "", fmt.Errorf("not a data URL")
	}
	rest := url[len(scheme):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("malformed data URL: no comma")
	}
	meta, payload := rest[:comma], rest[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URL encoding %q", meta)
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding data URL payload: %w", err)
	}
	return data, mimeType, nil
}
