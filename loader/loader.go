package loader

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/tsawler/folio/model"
)

// Default page geometry for text and markdown documents, in points
// (US Letter).
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
	pageMargin        = 72.0
	bodyLineHeight    = 16.0
)

// PageSource is the PDF decode/render collaborator. Implementations wrap a
// PDF library; the loader only asks for page count, page dimensions at
// scale 1 (page-point units, rotation already applied), and rendered pixel
// buffers. Nothing in this module inspects PDF internals.
type PageSource interface {
	PageCount() int
	PageSize(index int) (width, height float64, err error)
	RenderPage(ctx context.Context, index int, scale float64) (image.Image, error)
}

// PDFOpener produces a PageSource from raw PDF bytes.
type PDFOpener func(data []byte) (PageSource, error)

// Loader turns validated input files into documents. The zero value plus
// New's defaults handles images, text, and markdown; loading PDFs requires
// an OpenPDF collaborator.
type Loader struct {
	// OpenPDF opens raw PDF bytes; nil makes PDF loads fail with a clear
	// error rather than a panic.
	OpenPDF PDFOpener
	// MaxFileSize caps accepted input; <= 0 selects DefaultMaxFileSize.
	MaxFileSize int64
	// PageWidth/PageHeight size generated text and markdown pages;
	// zero selects US Letter.
	PageWidth  float64
	PageHeight float64
}

// New returns a loader with default limits.
func New() *Loader {
	return &Loader{
		MaxFileSize: DefaultMaxFileSize,
		PageWidth:   defaultPageWidth,
		PageHeight:  defaultPageHeight,
	}
}

// LoadDocument validates and decodes a file into a fresh document tree.
// The load is all-or-nothing: any failure returns an error and no document.
// This is the only asynchronous-friendly entry point in the core; the
// context cancels long multi-page builds.
func (l *Loader) LoadDocument(ctx context.Context, name string, data []byte) (*model.Document, error) {
	kind, err := Validate(name, data, l.MaxFileSize)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case kind == KindPDF:
		return l.loadPDF(ctx, name, data)
	case kind.IsImage():
		return l.loadImage(name, data)
	case kind == KindText:
		return l.loadText(name, data)
	case kind == KindMarkdown:
		return l.loadMarkdown(name, data)
	}
	return nil, &ValidationError{FileName: name, Reason: "unsupported file type"}
}

func (l *Loader) loadPDF(ctx context.Context, name string, data []byte) (*model.Document, error) {
	if l.OpenPDF == nil {
		return nil, fmt.Errorf("loading %s: no PDF decoder configured", name)
	}
	src, err := l.OpenPDF(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	doc := model.NewDocument(name, model.Source{
		Kind:          model.SourcePDF,
		FileName:      name,
		FileSize:      int64(len(data)),
		OriginalBytes: data,
	})
	for i := 0; i < src.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w, h, err := src.PageSize(i)
		if err != nil {
			return nil, fmt.Errorf("loading %s page %d: %w", name, i+1, err)
		}
		page := model.NewPage(doc.ID, w, h, &model.PDFRef{SourceIndex: i})
		page.Index = i
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

// loadImage builds a one-page document sized to the image, with the image
// itself placed as an annotation covering the page (one pixel per point).
func (l *Loader) loadImage(name string, data []byte) (*model.Document, error) {
	w, h, format, err := Dimensions(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	doc := model.NewDocument(name, model.Source{
		Kind:     model.SourceImages,
		FileName: name,
		FileSize: int64(len(data)),
	})
	page := model.NewBlankPage(doc.ID, float64(w), float64(h))
	page.ContentType = model.ContentImage
	img := model.NewImageAnnotation(page.ID, model.NewBBox(0, 0, float64(w), float64(h)), data, format, w, h)
	page.Annotations = append(page.Annotations, img)
	doc.Pages = append(doc.Pages, page)
	return doc, nil
}

func (l *Loader) loadText(name string, data []byte) (*model.Document, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	doc := model.NewDocument(name, model.Source{
		Kind:     model.SourceTextFile,
		FileName: name,
		FileSize: int64(len(data)),
	})

	pageW, pageH := l.pageDims()
	perPage := int((pageH - 2*pageMargin) / bodyLineHeight)
	for i, lines := range paginateLines(splitLines(text), perPage) {
		page := model.NewBlankPage(doc.ID, pageW, pageH)
		page.ContentType = model.ContentText
		page.Index = i
		if content := strings.Join(lines, "\n"); content != "" {
			bbox := model.NewBBox(pageMargin, pageMargin,
				pageW-2*pageMargin, float64(len(lines))*bodyLineHeight)
			ann := model.NewTextAnnotation(page.ID, bbox, content, &model.Style{FontSize: 12})
			page.Annotations = append(page.Annotations, ann)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

// loadMarkdown flows the markdown's blocks onto as many pages as they need,
// one text annotation per block.
func (l *Loader) loadMarkdown(name string, data []byte) (*model.Document, error) {
	blocks, err := markdownBlocks(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	doc := model.NewDocument(name, model.Source{
		Kind:     model.SourceTextFile,
		FileName: name,
		FileSize: int64(len(data)),
	})

	pageW, pageH := l.pageDims()
	newPage := func() *model.Page {
		page := model.NewBlankPage(doc.ID, pageW, pageH)
		page.ContentType = model.ContentMarkdown
		page.Index = len(doc.Pages)
		doc.Pages = append(doc.Pages, page)
		return page
	}

	page := newPage()
	y := pageMargin
	for _, b := range blocks {
		height := blockHeight(b, pageW-2*pageMargin-b.indent)
		if y+height > pageH-pageMargin && y > pageMargin {
			page = newPage()
			y = pageMargin
		}
		style := &model.Style{FontSize: b.fontSize, Bold: b.bold}
		if b.mono {
			style.FontFamily = "Courier"
		}
		bbox := model.NewBBox(pageMargin+b.indent, y, pageW-2*pageMargin-b.indent, height)
		ann := model.NewTextAnnotation(page.ID, bbox, b.text, style)
		page.Annotations = append(page.Annotations, ann)
		y += height + b.fontSize*0.6
	}
	return doc, nil
}

// blockHeight estimates the rendered height of a block from a rough average
// glyph width. Precise metrics belong to the rendering collaborator; this
// only has to produce sane page breaks.
func blockHeight(b textBlock, width float64) float64 {
	lineHeight := b.fontSize * 1.4
	if width <= 0 {
		return lineHeight
	}
	charsPerLine := int(width / (b.fontSize * 0.5))
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	lines := 0
	for _, seg := range strings.Split(b.text, "\n") {
		n := (len(seg) + charsPerLine - 1) / charsPerLine
		if n < 1 {
			n = 1
		}
		lines += n
	}
	if lines < 1 {
		lines = 1
	}
	return float64(lines) * lineHeight
}

func (l *Loader) pageDims() (float64, float64) {
	w, h := l.PageWidth, l.PageHeight
	if w <= 0 {
		w = defaultPageWidth
	}
	if h <= 0 {
		h = defaultPageHeight
	}
	return w, h
}
