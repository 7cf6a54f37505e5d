package folio

import (
	"github.com/tsawler/folio/history"
	"github.com/tsawler/folio/loader"
)

// config holds session construction settings.
type config struct {
	maxHistory  int
	maxFileSize int64
	pageWidth   float64
	pageHeight  float64
	openPDF     loader.PDFOpener
	logger      history.Logger
}

// defaultConfig returns the default settings: a 50-entry undo log, the 50MB
// file limit, US Letter generated pages, and no PDF decoder.
func defaultConfig() config {
	return config{
		maxHistory:  history.DefaultMaxSize,
		maxFileSize: loader.DefaultMaxFileSize,
	}
}

// Option configures a session at construction.
type Option func(*config)

// WithMaxHistory caps the undo log at n patches.
func WithMaxHistory(n int) Option {
	return func(c *config) {
		c.maxHistory = n
	}
}

// WithMaxFileSize caps accepted input files at n bytes.
func WithMaxFileSize(n int64) Option {
	return func(c *config) {
		c.maxFileSize = n
	}
}

// WithPageSize sets the page dimensions, in points, used when generating
// pages for text and markdown documents.
func WithPageSize(width, height float64) Option {
	return func(c *config) {
		c.pageWidth = width
		c.pageHeight = height
	}
}

// WithPDFOpener supplies the PDF decode collaborator. Without one, loading
// a PDF fails with a clear error.
func WithPDFOpener(open loader.PDFOpener) Option {
	return func(c *config) {
		c.openPDF = open
	}
}

// WithLogger routes undo/redo apply-failure logging.
func WithLogger(l history.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
