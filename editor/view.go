package editor

import "github.com/tsawler/folio/model"

// FitMode controls how zoom is derived from page and viewport dimensions.
type FitMode string

const (
	FitWidth  FitMode = "width"
	FitHeight FitMode = "height"
	FitPage   FitMode = "page"
	FitCustom FitMode = "custom"
)

// Zoom bounds and the breathing-room factor applied by the fit modes.
const (
	MinZoom   = 0.1
	MaxZoom   = 5.0
	fitMargin = 0.95
)

// ViewState is the zoom/pan/fit state for the viewport. It is independent
// of the document tree; view changes are not undoable. Canvas pixels and
// viewport units share a coordinate system (1:1), so only the page↔viewport
// mapping involves a transform.
type ViewState struct {
	Zoom    float64
	PanX    float64
	PanY    float64
	FitMode FitMode
}

// NewViewState returns the default 100% view.
func NewViewState() ViewState {
	return ViewState{Zoom: 1, FitMode: FitPage}
}

// View returns a copy of the view state.
func (s *Session) View() ViewState {
	return s.view
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom], and switches
// the fit mode to custom.
func (s *Session) SetZoom(zoom float64) {
	s.view.Zoom = clampZoom(zoom)
	s.view.FitMode = FitCustom
}

// PanView shifts the pan offset by a viewport-space delta.
func (s *Session) PanView(dx, dy float64) {
	s.view.PanX += dx
	s.view.PanY += dy
}

// FitToPage derives zoom so the whole current page fits the viewport with a
// small margin, and centers it.
func (s *Session) FitToPage(viewportW, viewportH float64) {
	page := s.CurrentPage()
	if page == nil || page.Width <= 0 || page.Height <= 0 || viewportW <= 0 || viewportH <= 0 {
		return
	}
	scaleX := viewportW / page.Width
	scaleY := viewportH / page.Height
	zoom := scaleX
	if scaleY < zoom {
		zoom = scaleY
	}
	s.view.Zoom = clampZoom(zoom * fitMargin)
	s.view.PanX = (viewportW - page.Width*s.view.Zoom) / 2
	s.view.PanY = (viewportH - page.Height*s.view.Zoom) / 2
	s.view.FitMode = FitPage
}

// FitToWidth derives zoom so the current page spans the viewport width with
// a small margin, centered horizontally with the top edge aligned.
func (s *Session) FitToWidth(viewportW float64) {
	page := s.CurrentPage()
	if page == nil || page.Width <= 0 || viewportW <= 0 {
		return
	}
	s.view.Zoom = clampZoom(viewportW * fitMargin / page.Width)
	s.view.PanX = (viewportW - page.Width*s.view.Zoom) / 2
	s.view.PanY = 0
	s.view.FitMode = FitWidth
}

// viewMatrix maps page space to viewport space: scale by zoom, then shift
// by the pan offset.
func (s *Session) viewMatrix() model.Matrix {
	return model.Scaled(s.view.Zoom, s.view.Zoom).
		Multiply(model.Translated(s.view.PanX, s.view.PanY))
}

// PageToViewport converts a page-space point to viewport coordinates.
func (s *Session) PageToViewport(p model.Point) model.Point {
	return s.viewMatrix().Transform(p)
}

// ViewportToPage converts a viewport point back to page space.
func (s *Session) ViewportToPage(p model.Point) model.Point {
	inv, ok := s.viewMatrix().Invert()
	if !ok {
		return p
	}
	return inv.Transform(p)
}

// PageBBoxToViewport converts a page-space box to viewport coordinates.
func (s *Session) PageBBoxToViewport(b model.BBox) model.BBox {
	origin := s.PageToViewport(model.Point{X: b.X, Y: b.Y})
	return model.BBox{
		X:      origin.X,
		Y:      origin.Y,
		Width:  b.Width * s.view.Zoom,
		Height: b.Height * s.view.Zoom,
	}
}

// ScreenToViewport converts a screen-space point to viewport coordinates by
// subtracting the viewport element's origin.
func ScreenToViewport(p, origin model.Point) model.Point {
	return model.Point{X: p.X - origin.X, Y: p.Y - origin.Y}
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
