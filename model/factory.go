package model

import (
	"time"

	"github.com/tsawler/folio/internal/ident"
)

// NewDocument creates an empty document with a generated id, version 1, and
// creation timestamps.
func NewDocument(name string, src Source) *Document {
	now := time.Now()
	return &Document{
		ID:         ident.New("doc"),
		Name:       name,
		Source:     src,
		Pages:      make([]*Page, 0),
		Meta:       make(map[string]string),
		Version:    1,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// NewPage creates a page with a generated id. The content type is inferred
// from the presence of a PDF reference; use NewBlankPage or set ContentType
// for the other kinds. Index is not assigned here; the reorder/reindex pass
// owns index consistency.
func NewPage(docID string, width, height float64, ref *PDFRef) *Page {
	contentType := ContentBlank
	if ref != nil {
		contentType = ContentPDF
	}
	return &Page{
		ID:          ident.New("page"),
		DocID:       docID,
		Width:       width,
		Height:      height,
		Rotation:    0,
		PDFRef:      ref,
		ContentType: contentType,
		Annotations: make([]Annotation, 0),
		Rasters:     make([]*RasterLayer, 0),
	}
}

// NewBlankPage creates an empty page with no source content.
func NewBlankPage(docID string, width, height float64) *Page {
	return NewPage(docID, width, height, nil)
}

// mergeStyle fills the zero-valued fields of an override from the defaults.
// A nil override yields the default style unchanged.
func mergeStyle(override *Style) Style {
	def := DefaultStyle()
	if override == nil {
		return def
	}
	s := *override
	if s.StrokeColor == (Color{}) {
		s.StrokeColor = def.StrokeColor
	}
	if s.StrokeWidth == 0 {
		s.StrokeWidth = def.StrokeWidth
	}
	if s.FillColor == (Color{}) {
		s.FillColor = def.FillColor
	}
	if s.FontFamily == "" {
		s.FontFamily = def.FontFamily
	}
	if s.FontSize == 0 {
		s.FontSize = def.FontSize
	}
	return s
}

func newBase(pageID string, bbox BBox, style *Style) AnnotationBase {
	now := time.Now()
	return AnnotationBase{
		ID:         ident.New("ann"),
		PageID:     pageID,
		BBox:       bbox.Normalize(),
		Style:      mergeStyle(style),
		Opacity:    1,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// NewTextAnnotation creates a text annotation. The merged style always
// carries a font family and size.
func NewTextAnnotation(pageID string, bbox BBox, content string, style *Style) *TextAnnotation {
	return &TextAnnotation{AnnotationBase: newBase(pageID, bbox, style), Content: content}
}

// NewHighlightAnnotation creates a highlight region.
func NewHighlightAnnotation(pageID string, bbox BBox, style *Style) *HighlightAnnotation {
	return &HighlightAnnotation{AnnotationBase: newBase(pageID, bbox, style)}
}

// NewRectAnnotation creates a rectangle shape.
func NewRectAnnotation(pageID string, bbox BBox, style *Style) *RectAnnotation {
	return &RectAnnotation{AnnotationBase: newBase(pageID, bbox, style)}
}

// NewEllipseAnnotation creates an ellipse shape.
func NewEllipseAnnotation(pageID string, bbox BBox, style *Style) *EllipseAnnotation {
	return &EllipseAnnotation{AnnotationBase: newBase(pageID, bbox, style)}
}

// NewArrowAnnotation creates an arrow from start to end. The bounding box is
// derived from the endpoints.
func NewArrowAnnotation(pageID string, start, end Point, style *Style) *ArrowAnnotation {
	return &ArrowAnnotation{
		AnnotationBase: newBase(pageID, NewBBoxFromPoints(start, end), style),
		StartPoint:     start,
		EndPoint:       end,
	}
}

// NewLineAnnotation creates a line segment from start to end.
func NewLineAnnotation(pageID string, start, end Point, style *Style) *LineAnnotation {
	return &LineAnnotation{
		AnnotationBase: newBase(pageID, NewBBoxFromPoints(start, end), style),
		StartPoint:     start,
		EndPoint:       end,
	}
}

// NewStarAnnotation creates a star shape. numPoints below 3 falls back to 5;
// innerRadius outside (0, 1) falls back to 0.5.
func NewStarAnnotation(pageID string, bbox BBox, numPoints int, innerRadius float64, style *Style) *StarAnnotation {
	if numPoints < 3 {
		numPoints = 5
	}
	if innerRadius <= 0 || innerRadius >= 1 {
		innerRadius = 0.5
	}
	return &StarAnnotation{
		AnnotationBase: newBase(pageID, bbox, style),
		NumPoints:      numPoints,
		InnerRadius:    innerRadius,
	}
}

// NewHeartAnnotation creates a heart shape.
func NewHeartAnnotation(pageID string, bbox BBox, style *Style) *HeartAnnotation {
	return &HeartAnnotation{AnnotationBase: newBase(pageID, bbox, style)}
}

// NewLightningAnnotation creates a lightning-bolt shape.
func NewLightningAnnotation(pageID string, bbox BBox, style *Style) *LightningAnnotation {
	return &LightningAnnotation{AnnotationBase: newBase(pageID, bbox, style)}
}

// NewImageAnnotation creates an image annotation. The natural pixel
// dimensions are recorded so renderers can preserve the aspect ratio.
func NewImageAnnotation(pageID string, bbox BBox, data []byte, format string, naturalW, naturalH int) *ImageAnnotation {
	return &ImageAnnotation{
		AnnotationBase: newBase(pageID, bbox, nil),
		ImageData:      data,
		ImageFormat:    format,
		OriginalWidth:  naturalW,
		OriginalHeight: naturalH,
	}
}

// NewStampAnnotation creates a named stamp.
func NewStampAnnotation(pageID string, bbox BBox, stampName string, style *Style) *StampAnnotation {
	return &StampAnnotation{AnnotationBase: newBase(pageID, bbox, style), StampName: stampName}
}

// NewFreehandAnnotation creates a pen stroke from a point path. The bounding
// box is the path's extent.
func NewFreehandAnnotation(pageID string, points []Point, style *Style) *FreehandAnnotation {
	return &FreehandAnnotation{
		AnnotationBase: newBase(pageID, pathBounds(points), style),
		Points:         clonePoints(points),
	}
}

// NewHighlighterAnnotation creates a wide translucent stroke from a point path.
func NewHighlighterAnnotation(pageID string, points []Point, style *Style) *HighlighterAnnotation {
	return &HighlighterAnnotation{
		AnnotationBase: newBase(pageID, pathBounds(points), style),
		Points:         clonePoints(points),
	}
}

// NewTableAnnotation creates a rows×cols table with evenly divided cells.
func NewTableAnnotation(pageID string, bbox BBox, rows, cols int, style *Style) *TableAnnotation {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	colWidths := make([]float64, cols)
	for i := range colWidths {
		colWidths[i] = 1 / float64(cols)
	}
	rowHeights := make([]float64, rows)
	for i := range rowHeights {
		rowHeights[i] = 1 / float64(rows)
	}
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	return &TableAnnotation{
		AnnotationBase: newBase(pageID, bbox, style),
		Rows:           rows,
		Cols:           cols,
		ColWidths:      colWidths,
		RowHeights:     rowHeights,
		Cells:          cells,
	}
}

// NewRasterLayer creates a visible, fully opaque raster layer with an empty
// operation log.
func NewRasterLayer(pageID string, kind RasterKind) *RasterLayer {
	now := time.Now()
	return &RasterLayer{
		ID:         ident.New("raster"),
		PageID:     pageID,
		Kind:       kind,
		Visible:    true,
		Opacity:    1,
		Operations: make([]RasterOperation, 0),
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// CloneWithNewIDs deep-copies the page, assigning a fresh page id and fresh
// ids to every contained annotation and raster layer, with each child's
// PageID rebound to the new page. Duplicate and paste go through this so no
// id ever appears on two pages.
func (p *Page) CloneWithNewIDs() *Page {
	c := p.Clone()
	c.ID = ident.New("page")
	for _, a := range c.Annotations {
		base := a.Base()
		base.ID = ident.New("ann")
		base.PageID = c.ID
	}
	for _, r := range c.Rasters {
		r.ID = ident.New("raster")
		r.PageID = c.ID
	}
	return c
}

func pathBounds(points []Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	b := BBox{X: points[0].X, Y: points[0].Y}
	for _, pt := range points[1:] {
		b = b.Union(BBox{X: pt.X, Y: pt.Y})
	}
	return b
}
