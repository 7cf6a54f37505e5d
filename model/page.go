package model

// ContentType describes where a page's base content comes from.
type ContentType int

const (
	ContentPDF ContentType = iota
	ContentBlank
	ContentText
	ContentMarkdown
	ContentImage
)

func (c ContentType) String() string {
	switch c {
	case ContentPDF:
		return "pdf"
	case ContentBlank:
		return "blank"
	case ContentText:
		return "text"
	case ContentMarkdown:
		return "markdown"
	case ContentImage:
		return "image"
	default:
		return "unknown"
	}
}

// PDFRef ties a page back to a page of a source PDF. AppendedFrom names the
// file a page came from when it was appended after the initial load.
type PDFRef struct {
	SourceIndex  int
	AppendedFrom string
}

// Page is a single page of a document. Index is the page's 0-based position
// in the document's page slice; ReorderPages (or the reindex pass after
// duplicate/paste) keeps it contiguous. Deleted pages stay in the slice so
// history patch paths remain valid.
type Page struct {
	ID          string
	DocID       string
	Index       int
	Width       float64 // page-point units
	Height      float64
	Rotation    int // 0, 90, 180, 270
	PDFRef      *PDFRef
	ContentType ContentType
	Deleted     bool
	Annotations []Annotation
	Rasters     []*RasterLayer
}

// Rotate turns the page by the given number of degrees (multiples of 90).
// Odd quarter turns swap width and height; 180 leaves dimensions unchanged.
// The stored rotation is normalized to {0, 90, 180, 270}.
func (p *Page) Rotate(by int) {
	by = ((by % 360) + 360) % 360
	if by%90 != 0 {
		return
	}
	p.Rotation = (p.Rotation + by) % 360
	if by == 90 || by == 270 {
		p.Width, p.Height = p.Height, p.Width
	}
}

// AnnotationByID returns the annotation with the given id and its position,
// or (nil, -1) if the page has no such annotation.
func (p *Page) AnnotationByID(id string) (Annotation, int) {
	for i, a := range p.Annotations {
		if a.Base().ID == id {
			return a, i
		}
	}
	return nil, -1
}

// RasterByID returns the raster layer with the given id and its position,
// or (nil, -1) if the page has no such layer.
func (p *Page) RasterByID(id string) (*RasterLayer, int) {
	for i, r := range p.Rasters {
		if r.ID == id {
			return r, i
		}
	}
	return nil, -1
}

// AnnotationsInRegion returns the annotations whose bounding boxes intersect
// the given region, in paint order.
func (p *Page) AnnotationsInRegion(bbox BBox) []Annotation {
	var hits []Annotation
	for _, a := range p.Annotations {
		if bbox.Intersects(a.Base().BBox) {
			hits = append(hits, a)
		}
	}
	return hits
}

// Clone returns a deep copy of the page. Identifiers are preserved; use
// CloneWithNewIDs when the copy must coexist with the original.
func (p *Page) Clone() *Page {
	c := *p
	if p.PDFRef != nil {
		ref := *p.PDFRef
		c.PDFRef = &ref
	}
	c.Annotations = make([]Annotation, len(p.Annotations))
	for i, a := range p.Annotations {
		c.Annotations[i] = a.Clone()
	}
	c.Rasters = make([]*RasterLayer, len(p.Rasters))
	for i, r := range p.Rasters {
		c.Rasters[i] = r.Clone()
	}
	return &c
}
