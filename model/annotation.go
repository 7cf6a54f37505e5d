package model

import "time"

// AnnotationKind identifies the concrete type of an annotation.
type AnnotationKind int

const (
	KindUnknown AnnotationKind = iota
	KindText
	KindHighlight
	KindRect
	KindEllipse
	KindArrow
	KindLine
	KindStar
	KindHeart
	KindLightning
	KindImage
	KindStamp
	KindFreehand
	KindHighlighter
	KindTable
)

func (k AnnotationKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHighlight:
		return "highlight"
	case KindRect:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	case KindArrow:
		return "arrow"
	case KindLine:
		return "line"
	case KindStar:
		return "star"
	case KindHeart:
		return "heart"
	case KindLightning:
		return "lightning"
	case KindImage:
		return "image"
	case KindStamp:
		return "stamp"
	case KindFreehand:
		return "freehand"
	case KindHighlighter:
		return "highlighter"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Color represents an RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Style holds the visual attributes shared by annotations. Fields that do
// not apply to a given kind are ignored by its renderer.
type Style struct {
	StrokeColor Color
	StrokeWidth float64
	FillColor   Color
	Filled      bool
	FontFamily  string
	FontSize    float64
	Bold        bool
	Italic      bool
}

// DefaultStyle returns the style applied to new annotations before caller
// overrides are merged in.
func DefaultStyle() Style {
	return Style{
		StrokeColor: Color{R: 0x1f, G: 0x2a, B: 0x37, A: 0xff},
		StrokeWidth: 2,
		FillColor:   Color{R: 0xff, G: 0xe0, B: 0x66, A: 0x80},
		FontFamily:  "Helvetica",
		FontSize:    14,
	}
}

// AnnotationBase holds the fields common to every annotation kind.
type AnnotationBase struct {
	ID         string
	PageID     string
	BBox       BBox
	Style      Style
	Locked     bool
	Opacity    float64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Touch refreshes the modification timestamp.
func (b *AnnotationBase) Touch() {
	b.ModifiedAt = time.Now()
}

// Annotation is the interface implemented by every annotation kind. Concrete
// types embed AnnotationBase; switch on Kind for exhaustive handling.
type Annotation interface {
	Kind() AnnotationKind
	Base() *AnnotationBase
	Clone() Annotation
}

// TextAnnotation is editable text placed on a page. FontFamily and FontSize
// on the style are always populated by the factory.
type TextAnnotation struct {
	AnnotationBase
	Content string
}

func (a *TextAnnotation) Kind() AnnotationKind  { return KindText }
func (a *TextAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *TextAnnotation) Clone() Annotation {
	c := *a
	return &c
}

// HighlightAnnotation is a translucent emphasis region.
type HighlightAnnotation struct {
	AnnotationBase
}

func (a *HighlightAnnotation) Kind() AnnotationKind  { return KindHighlight }
func (a *HighlightAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *HighlightAnnotation) Clone() Annotation {
	c := *a
	return &c
}

// RectAnnotation is an axis-aligned rectangle shape.
type RectAnnotation struct {
	AnnotationBase
	CornerRadius float64
}

func (a *RectAnnotation) Kind() AnnotationKind  { return KindRect }
func (a *RectAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *RectAnnotation) Clone() Annotation {
	c := *a
	return &c
}

// EllipseAnnotation is an ellipse inscribed in its bounding box.
type EllipseAnnotation struct {
	AnnotationBase
}

func (a *EllipseAnnotation) Kind() AnnotationKind  { return KindEllipse }
func (a *EllipseAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *EllipseAnnotation) Clone() Annotation {
	c := *a
	return &c
}

// ArrowAnnotation is a directed connector. ControlPoint, when set, bends the
// shaft into a quadratic curve.
type ArrowAnnotation struct {
	AnnotationBase
	StartPoint   Point
	EndPoint     Point
	ControlPoint *Point
}

func (a *ArrowAnnotation) Kind() AnnotationKind  { return KindArrow }
func (a *ArrowAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *ArrowAnnotation) Clone() Annotation {
	c := *a
	if a.ControlPoint != nil {
		cp := *a.ControlPoint
		c.ControlPoint = &cp
	}
	return &c
}

// LineAnnotation is an undirected line segment, optionally curved.
type LineAnnotation struct {
	AnnotationBase
	StartPoint   Point
	EndPoint     Point
	ControlPoint *Point
}

func (a *LineAnnotation) Kind() AnnotationKind  { return KindLine }
func (a *LineAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *LineAnnotation) Clone() Annotation {
	c := *a
	if a.ControlPoint != nil {
		cp := *a.ControlPoint
		c.ControlPoint = &cp
	}
	return &c
}

// StarAnnotation is an n-pointed star inscribed in its bounding box.
// InnerRadius is a fraction of the outer radius in (0, 1).
type StarAnnotation struct {
	AnnotationBase
	NumPoints   int
	InnerRadius float64
}

func (a *StarAnnotation) Kind() AnnotationKind  { return KindStar }
func (a *StarAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *StarAnnotation) Clone() Annotation {
	c := *a
	return &c
}

// HeartAnnotation is a heart shape inscribed in its bounding box.
type HeartAnnotation struct {
	AnnotationBase
}

func (a *HeartAnnotation) Kind() AnnotationKind  { return KindHeart }
func (a *HeartAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *HeartAnnotation) Clone() Annotation {
	c := *a
	return &c
}

// LightningAnnotation is a lightning-bolt shape inscribed in its bounding box.
type LightningAnnotation struct {
	AnnotationBase
}

func (a *LightningAnnotation) Kind() AnnotationKind  { return KindLightning }
func (a *LightningAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *LightningAnnotation) Clone() Annotation {
	c := *a
	return &c
}

// ImageAnnotation places a decoded raster image on the page. ImageData holds
// the encoded bytes; OriginalWidth/Height are the natural pixel dimensions.
type ImageAnnotation struct {
	AnnotationBase
	ImageData      []byte
	ImageFormat    string
	OriginalWidth  int
	OriginalHeight int
}

func (a *ImageAnnotation) Kind() AnnotationKind  { return KindImage }
func (a *ImageAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *ImageAnnotation) Clone() Annotation {
	c := *a
	if a.ImageData != nil {
		c.ImageData = make([]byte, len(a.ImageData))
		copy(c.ImageData, a.ImageData)
	}
	return &c
}

// StampAnnotation is a named pre-drawn glyph (check mark, cross, etc.).
type StampAnnotation struct {
	AnnotationBase
	StampName string
}

func (a *StampAnnotation) Kind() AnnotationKind  { return KindStamp }
func (a *StampAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *StampAnnotation) Clone() Annotation {
	c := *a
	return &c
}

// FreehandAnnotation is a pen stroke recorded as a point path in page space.
type FreehandAnnotation struct {
	AnnotationBase
	Points []Point
}

func (a *FreehandAnnotation) Kind() AnnotationKind  { return KindFreehand }
func (a *FreehandAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *FreehandAnnotation) Clone() Annotation {
	c := *a
	c.Points = clonePoints(a.Points)
	return &c
}

// HighlighterAnnotation is a translucent wide stroke recorded as a point path.
type HighlighterAnnotation struct {
	AnnotationBase
	Points []Point
}

func (a *HighlighterAnnotation) Kind() AnnotationKind  { return KindHighlighter }
func (a *HighlighterAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *HighlighterAnnotation) Clone() Annotation {
	c := *a
	c.Points = clonePoints(a.Points)
	return &c
}

// TableAnnotation is a grid of editable text cells. ColWidths and RowHeights
// are fractions of the bounding box; Cells is row-major.
type TableAnnotation struct {
	AnnotationBase
	Rows       int
	Cols       int
	ColWidths  []float64
	RowHeights []float64
	Cells      [][]string
}

func (a *TableAnnotation) Kind() AnnotationKind  { return KindTable }
func (a *TableAnnotation) Base() *AnnotationBase { return &a.AnnotationBase }
func (a *TableAnnotation) Clone() Annotation {
	c := *a
	c.ColWidths = append([]float64(nil), a.ColWidths...)
	c.RowHeights = append([]float64(nil), a.RowHeights...)
	c.Cells = make([][]string, len(a.Cells))
	for i, row := range a.Cells {
		c.Cells[i] = append([]string(nil), row...)
	}
	return &c
}

func clonePoints(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	return append([]Point(nil), pts...)
}
