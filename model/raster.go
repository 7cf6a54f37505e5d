package model

import "time"

// RasterKind identifies the role of a raster layer.
type RasterKind int

const (
	RasterFreedraw RasterKind = iota
	RasterErase
	RasterBlur
	RasterMask
)

func (k RasterKind) String() string {
	switch k {
	case RasterFreedraw:
		return "freedraw"
	case RasterErase:
		return "erase"
	case RasterBlur:
		return "blur"
	case RasterMask:
		return "mask"
	default:
		return "unknown"
	}
}

// RasterOperation is one recorded stroke. The operation log is append-only;
// replaying it from the start reproduces the layer's pixels, which is what
// makes stroke-level undo possible.
type RasterOperation struct {
	Tool   string
	Points []Point
	Size   float64
	Color  Color
}

// RasterLayer is a pixel layer composited over a page's content. CanvasData
// holds the encoded snapshot of the painted pixels, when one has been taken;
// Operations is the authoritative stroke log.
type RasterLayer struct {
	ID         string
	PageID     string
	Kind       RasterKind
	Visible    bool
	Opacity    float64
	BlendMode  string
	CanvasData []byte
	Operations []RasterOperation
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Touch refreshes the modification timestamp.
func (r *RasterLayer) Touch() {
	r.ModifiedAt = time.Now()
}

// Append records a stroke at the end of the operation log.
func (r *RasterLayer) Append(op RasterOperation) {
	r.Operations = append(r.Operations, op)
	r.Touch()
}

// Clone returns a deep copy of the layer.
func (r *RasterLayer) Clone() *RasterLayer {
	c := *r
	if r.CanvasData != nil {
		c.CanvasData = make([]byte, len(r.CanvasData))
		copy(c.CanvasData, r.CanvasData)
	}
	c.Operations = make([]RasterOperation, len(r.Operations))
	for i, op := range r.Operations {
		c.Operations[i] = op
		c.Operations[i].Points = clonePoints(op.Points)
	}
	return &c
}
