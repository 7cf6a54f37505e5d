// Package folio provides a local, in-memory document editing core: load a
// PDF, image, text, or markdown file, overlay vector annotations and raster
// layers on its pages, undo and redo every edit, and hand the result to an
// export collaborator.
//
// Basic usage:
//
//	sess, err := folio.Open(ctx, "report.pdf", folio.WithPDFOpener(openPDF))
//	if err != nil {
//	    // handle error
//	}
//	page := sess.CurrentPage()
//	sess.AddAnnotation(model.NewRectAnnotation(page.ID, bbox, nil))
//	sess.Undo()
//
// The heavy lifting lives in the subpackages: model (the document tree and
// geometry), history (patch-based undo/redo), editor (the session and its
// mutation operations), loader (file validation and decoding), and export
// (job assembly for export collaborators).
package folio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsawler/folio/editor"
	"github.com/tsawler/folio/loader"
)

// New creates an empty editing session.
func New(opts ...Option) *editor.Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return editor.NewSession(editor.Config{
		MaxHistory: cfg.maxHistory,
		Logger:     cfg.logger,
		Loader: &loader.Loader{
			OpenPDF:     cfg.openPDF,
			MaxFileSize: cfg.maxFileSize,
			PageWidth:   cfg.pageWidth,
			PageHeight:  cfg.pageHeight,
		},
	})
}

// Open creates a session and loads the named file into it.
//
// Example:
//
//	sess, err := folio.Open(ctx, "notes.md")
func Open(ctx context.Context, filename string, opts ...Option) (*editor.Session, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	sess := New(opts...)
	if err := sess.LoadDocument(ctx, filepath.Base(filename), data); err != nil {
		return nil, err
	}
	return sess, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	sess := folio.Must(folio.Open(ctx, "report.pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
