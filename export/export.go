// Package export assembles export jobs for the external export collaborator.
//
// The core's obligation at this boundary is consistency: a job only ever
// contains visible (non-deleted) pages, in display order, with each page's
// annotation and raster payloads attached. Encoding the output bytes is the
// collaborator's business.
package export

import (
	"context"
	"fmt"

	"github.com/tsawler/folio/model"
)

// Format is an output format accepted by export collaborators.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
)

// Options configures an export.
type Options struct {
	Format  Format
	Quality int     // 1-100, lossy formats
	DPI     float64 // raster formats
	// Pages selects pages by 0-based position in the visible page list;
	// nil means all visible pages.
	Pages               []int
	IncludeAnnotations  bool
	IncludeRasterLayers bool
	FlattenLayers       bool
}

// DefaultOptions returns a full-fidelity PDF export of every visible page.
func DefaultOptions() Options {
	return Options{
		Format:              FormatPDF,
		Quality:             90,
		DPI:                 150,
		Pages:               nil,
		IncludeAnnotations:  true,
		IncludeRasterLayers: true,
		FlattenLayers:       false,
	}
}

// Clone creates a deep copy of the options.
func (o Options) Clone() Options {
	c := o
	if o.Pages != nil {
		c.Pages = make([]int, len(o.Pages))
		copy(c.Pages, o.Pages)
	}
	return c
}

// Page is one page of an export job with its layer payloads resolved per
// the options.
type Page struct {
	Page        *model.Page
	Annotations []model.Annotation
	Rasters     []*model.RasterLayer
}

// Job is a validated, self-consistent export request handed to an Exporter.
type Job struct {
	Document *model.Document
	Pages    []Page
	Options  Options
}

// Exporter is the export collaborator: it encodes a job into output bytes.
type Exporter interface {
	Export(ctx context.Context, job *Job) ([]byte, error)
}

// BuildJob resolves the page selection against the document's visible pages
// and attaches the layer payloads. Deleted pages can never appear in a job;
// selecting an index outside the visible list is an error.
func BuildJob(doc *model.Document, opts Options) (*Job, error) {
	if doc == nil {
		return nil, fmt.Errorf("export: no document")
	}
	visible := doc.VisiblePages()

	indexes := opts.Pages
	if indexes == nil {
		indexes = make([]int, len(visible))
		for i := range visible {
			indexes[i] = i
		}
	}

	pages := make([]Page, 0, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(visible) {
			return nil, fmt.Errorf("export: page index %d out of range (have %d visible pages)", idx, len(visible))
		}
		p := visible[idx]
		ep := Page{Page: p}
		if opts.IncludeAnnotations {
			ep.Annotations = p.Annotations
		}
		if opts.IncludeRasterLayers {
			ep.Rasters = visibleRasters(p)
		}
		pages = append(pages, ep)
	}

	return &Job{Document: doc, Pages: pages, Options: opts.Clone()}, nil
}

func visibleRasters(p *model.Page) []*model.RasterLayer {
	out := make([]*model.RasterLayer, 0, len(p.Rasters))
	for _, r := range p.Rasters {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}
