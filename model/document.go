package model

import "time"

// SourceKind describes what a document was loaded from.
type SourceKind int

const (
	SourcePDF SourceKind = iota
	SourceImages
	SourceTextFile
	SourceBlank
)

func (k SourceKind) String() string {
	switch k {
	case SourcePDF:
		return "pdf"
	case SourceImages:
		return "images"
	case SourceTextFile:
		return "text"
	case SourceBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Source records the file a document was created from. OriginalBytes keeps
// the raw input so the export collaborator can re-embed unmodified PDF
// content.
type Source struct {
	Kind          SourceKind
	FileName      string
	FileSize      int64
	OriginalBytes []byte
}

// Document is the root of the editing tree. The order of Pages is the
// authoritative display order. Version and ModifiedAt are bumped on every
// mutation.
type Document struct {
	ID         string
	Name       string
	Source     Source
	Pages      []*Page
	Meta       map[string]string
	Version    int
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Touch bumps the document version and modification timestamp. Every
// mutation operation calls this exactly once.
func (d *Document) Touch() {
	d.Version++
	d.ModifiedAt = time.Now()
}

// PageByID returns the page with the given id and its position in the page
// slice (deleted pages included), or (nil, -1).
func (d *Document) PageByID(id string) (*Page, int) {
	for i, p := range d.Pages {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// VisiblePages returns the non-deleted pages in display order. Renderers,
// page counts, and export must all go through this; soft-deleted pages are
// never shown.
func (d *Document) VisiblePages() []*Page {
	visible := make([]*Page, 0, len(d.Pages))
	for _, p := range d.Pages {
		if !p.Deleted {
			visible = append(visible, p)
		}
	}
	return visible
}

// PageCount returns the number of visible pages.
func (d *Document) PageCount() int {
	return len(d.VisiblePages())
}

// AnnotationByID searches every page for the annotation with the given id.
func (d *Document) AnnotationByID(id string) (Annotation, *Page) {
	for _, p := range d.Pages {
		if a, _ := p.AnnotationByID(id); a != nil {
			return a, p
		}
	}
	return nil, nil
}

// Clone returns a deep copy of the document tree.
func (d *Document) Clone() *Document {
	c := *d
	if d.Source.OriginalBytes != nil {
		c.Source.OriginalBytes = make([]byte, len(d.Source.OriginalBytes))
		copy(c.Source.OriginalBytes, d.Source.OriginalBytes)
	}
	if d.Meta != nil {
		c.Meta = make(map[string]string, len(d.Meta))
		for k, v := range d.Meta {
			c.Meta[k] = v
		}
	}
	c.Pages = make([]*Page, len(d.Pages))
	for i, p := range d.Pages {
		c.Pages[i] = p.Clone()
	}
	return &c
}
