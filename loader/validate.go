// Package loader handles file validation and document construction for the
// folio editor.
package loader

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind represents a supported input file kind.
type Kind int

const (
	// KindUnknown indicates an unrecognized file.
	KindUnknown Kind = iota
	// KindPDF indicates a PDF document.
	KindPDF
	// KindPNG indicates a PNG image.
	KindPNG
	// KindJPEG indicates a JPEG image.
	KindJPEG
	// KindGIF indicates a GIF image.
	KindGIF
	// KindWebP indicates a WebP image.
	KindWebP
	// KindText indicates a plain-text file.
	KindText
	// KindMarkdown indicates a Markdown file.
	KindMarkdown
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "PDF"
	case KindPNG:
		return "PNG"
	case KindJPEG:
		return "JPEG"
	case KindGIF:
		return "GIF"
	case KindWebP:
		return "WebP"
	case KindText:
		return "text"
	case KindMarkdown:
		return "Markdown"
	default:
		return "unknown"
	}
}

// IsImage reports whether the kind is a raster image format.
func (k Kind) IsImage() bool {
	switch k {
	case KindPNG, KindJPEG, KindGIF, KindWebP:
		return true
	}
	return false
}

// DefaultMaxFileSize is the default upper bound on input file size.
const DefaultMaxFileSize int64 = 50 << 20 // 50MB

// ValidationError is a rejected file with a human-readable reason, suitable
// for showing to the user directly.
type ValidationError struct {
	FileName string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FileName, e.Reason)
}

// Detect determines the file kind from the name's extension, confirmed
// against the content's magic bytes for the binary formats. A mismatch
// between extension and content trusts the content.
func Detect(name string, data []byte) Kind {
	if k := sniff(data); k != KindUnknown {
		return k
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return KindText
	case ".md", ".markdown":
		return KindMarkdown
	}
	return KindUnknown
}

// sniff identifies binary formats by their magic bytes.
func sniff(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return KindPDF
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return KindPNG
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return KindJPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return KindGIF
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return KindWebP
	}
	return KindUnknown
}

// Validate checks a file descriptor plus content against the accepted kinds
// and size limit (maxSize <= 0 selects DefaultMaxFileSize). It returns the
// detected kind, or a *ValidationError describing the rejection.
func Validate(name string, data []byte, maxSize int64) (Kind, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if len(data) == 0 {
		return KindUnknown, &ValidationError{FileName: name, Reason: "file is empty"}
	}
	if int64(len(data)) > maxSize {
		return KindUnknown, &ValidationError{
			FileName: name,
			Reason:   fmt.Sprintf("file is too large (%d bytes; limit %d)", len(data), maxSize),
		}
	}
	kind := Detect(name, data)
	if kind == KindUnknown {
		return KindUnknown, &ValidationError{
			FileName: name,
			Reason:   "unsupported file type (accepted: pdf, png, jpeg, gif, webp, txt, md)",
		}
	}
	return kind, nil
}
