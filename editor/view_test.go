package editor

import (
	"math"
	"testing"

	"github.com/tsawler/folio/model"
)

const viewEpsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < viewEpsilon
}

func TestSetZoomClamps(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below minimum", 0.01, MinZoom},
		{"at minimum", 0.1, 0.1},
		{"normal", 1.5, 1.5},
		{"at maximum", 5.0, 5.0},
		{"above maximum", 12, MaxZoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSessionWithPages(t, 1)
			s.SetZoom(tt.in)
			if got := s.View().Zoom; got != tt.want {
				t.Errorf("Zoom = %v, want %v", got, tt.want)
			}
			if got := s.View().FitMode; got != FitCustom {
				t.Errorf("FitMode = %v, want %v", got, FitCustom)
			}
		})
	}
}

func TestPanViewAccumulates(t *testing.T) {
	s, _ := newSessionWithPages(t, 1)
	s.PanView(10, -5)
	s.PanView(3, 2)
	v := s.View()
	if v.PanX != 13 || v.PanY != -3 {
		t.Errorf("pan = (%v, %v), want (13, -3)", v.PanX, v.PanY)
	}
}

func TestFitToPage(t *testing.T) {
	// 600x800 page in a 1200x800 viewport; height constrains, so zoom is
	// (800/800)*margin and the page is centered both ways.
	s, _ := newSessionWithPages(t, 1)
	s.FitToPage(1200, 800)

	v := s.View()
	wantZoom := 1.0 * fitMargin
	if !almostEqual(v.Zoom, wantZoom) {
		t.Errorf("Zoom = %v, want %v", v.Zoom, wantZoom)
	}
	if !almostEqual(v.PanX, (1200-600*wantZoom)/2) {
		t.Errorf("PanX = %v, want centered", v.PanX)
	}
	if !almostEqual(v.PanY, (800-800*wantZoom)/2) {
		t.Errorf("PanY = %v, want centered", v.PanY)
	}
	if v.FitMode != FitPage {
		t.Errorf("FitMode = %v, want %v", v.FitMode, FitPage)
	}
}

func TestFitToPageHonorsZoomCeiling(t *testing.T) {
	// A tiny page in a huge viewport would need a zoom above the ceiling.
	s := NewSession(Config{})
	doc := model.NewDocument("tiny", model.Source{Kind: model.SourceBlank})
	doc.Pages = append(doc.Pages, model.NewBlankPage(doc.ID, 10, 10))
	s.SetDocument(doc)

	s.FitToPage(1000, 1000)
	if got := s.View().Zoom; got != MaxZoom {
		t.Errorf("Zoom = %v, want clamped to %v", got, MaxZoom)
	}
}

func TestFitToWidth(t *testing.T) {
	s, _ := newSessionWithPages(t, 1)
	s.FitToWidth(900)

	v := s.View()
	wantZoom := 900 * fitMargin / 600
	if !almostEqual(v.Zoom, wantZoom) {
		t.Errorf("Zoom = %v, want %v", v.Zoom, wantZoom)
	}
	if v.PanY != 0 {
		t.Errorf("PanY = %v, want top-aligned 0", v.PanY)
	}
	if v.FitMode != FitWidth {
		t.Errorf("FitMode = %v, want %v", v.FitMode, FitWidth)
	}
}

func TestFitWithoutPageIsNoop(t *testing.T) {
	s := NewSession(Config{})
	before := s.View()
	s.FitToPage(800, 600)
	s.FitToWidth(800)
	if s.View() != before {
		t.Error("fit without a current page changed the view")
	}
}

func TestPageViewportRoundTrip(t *testing.T) {
	s, _ := newSessionWithPages(t, 1)
	s.SetZoom(2)
	s.PanView(50, -20)

	points := []model.Point{
		{X: 0, Y: 0},
		{X: 100, Y: 250},
		{X: -3.5, Y: 7.25},
	}
	for _, p := range points {
		vp := s.PageToViewport(p)
		back := s.ViewportToPage(vp)
		if !almostEqual(back.X, p.X) || !almostEqual(back.Y, p.Y) {
			t.Errorf("round trip of %+v came back as %+v", p, back)
		}
	}

	// Spot-check the forward mapping: scale then pan.
	vp := s.PageToViewport(model.Point{X: 10, Y: 20})
	if !almostEqual(vp.X, 10*2+50) || !almostEqual(vp.Y, 20*2-20) {
		t.Errorf("PageToViewport = %+v, want {70 20}", vp)
	}
}

func TestPageBBoxToViewport(t *testing.T) {
	s, _ := newSessionWithPages(t, 1)
	s.SetZoom(2)
	s.PanView(10, 10)

	got := s.PageBBoxToViewport(model.NewBBox(5, 5, 30, 40))
	want := model.NewBBox(20, 20, 60, 80)
	if got != want {
		t.Errorf("PageBBoxToViewport = %+v, want %+v", got, want)
	}
}

func TestScreenToViewport(t *testing.T) {
	got := ScreenToViewport(model.Point{X: 500, Y: 300}, model.Point{X: 120, Y: 80})
	if got != (model.Point{X: 380, Y: 220}) {
		t.Errorf("ScreenToViewport = %+v, want {380 220}", got)
	}
}
