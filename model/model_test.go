package model

import (
	"math"
	"strings"
	"testing"
)

// ============================================================================
// Geometry Tests
// ============================================================================

func TestNewBBoxFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		want   BBox
	}{
		{"normal", Point{10, 20}, Point{50, 70}, BBox{10, 20, 40, 50}},
		{"reversed drag", Point{50, 70}, Point{10, 20}, BBox{10, 20, 40, 50}},
		{"up-right drag", Point{10, 70}, Point{50, 20}, BBox{10, 20, 40, 50}},
		{"same point", Point{10, 10}, Point{10, 10}, BBox{10, 10, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBBoxFromPoints(tt.p1, tt.p2)
			if got != tt.want {
				t.Errorf("NewBBoxFromPoints() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   BBox
		want BBox
	}{
		{"already normal", BBox{1, 2, 3, 4}, BBox{1, 2, 3, 4}},
		{"negative width", BBox{1, 2, -3, 4}, BBox{1, 2, 3, 4}},
		{"negative height", BBox{1, 2, 3, -4}, BBox{1, 2, 3, 4}},
		{"both negative", BBox{1, 2, -3, -4}, BBox{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxContainsCorners(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)
	corners := []Point{
		{10, 20}, {110, 20}, {10, 70}, {110, 70},
	}
	for _, c := range corners {
		if !b.Contains(c) {
			t.Errorf("Contains(%+v) = false, want true", c)
		}
	}
	if b.Contains(Point{9.99, 20}) {
		t.Error("Contains() = true for point left of box")
	}
	if !b.ContainsXY(60, 45) {
		t.Error("ContainsXY() = false for center point")
	}
}

func TestBBoxIntersectsSymmetry(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want bool
	}{
		{"overlapping", BBox{0, 0, 10, 10}, BBox{5, 5, 10, 10}, true},
		{"touching edge", BBox{0, 0, 10, 10}, BBox{10, 0, 10, 10}, true},
		{"disjoint x", BBox{0, 0, 10, 10}, BBox{20, 0, 10, 10}, false},
		{"disjoint y", BBox{0, 0, 10, 10}, BBox{0, 20, 10, 10}, false},
		{"contained", BBox{0, 0, 100, 100}, BBox{10, 10, 5, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("a.Intersects(b) = %v, want %v", got, tt.want)
			}
			if tt.a.Intersects(tt.b) != tt.b.Intersects(tt.a) {
				t.Error("Intersects is not symmetric")
			}
		})
	}
}

func TestBBoxUnionContainsBoth(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
	}{
		{"overlapping", BBox{0, 0, 10, 10}, BBox{5, 5, 10, 10}},
		{"disjoint", BBox{0, 0, 10, 10}, BBox{50, 50, 10, 10}},
		{"contained", BBox{0, 0, 100, 100}, BBox{10, 10, 5, 5}},
	}

	contains := func(outer, inner BBox) bool {
		return outer.Contains(Point{inner.Left(), inner.Top()}) &&
			outer.Contains(Point{inner.Right(), inner.Bottom()})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.a.Union(tt.b)
			if !contains(u, tt.a) || !contains(u, tt.b) {
				t.Errorf("Union(%+v, %+v) = %+v does not cover both", tt.a, tt.b, u)
			}
		})
	}
}

func TestBBoxExpand(t *testing.T) {
	b := NewBBox(10, 10, 20, 30).Expand(5)
	want := BBox{5, 5, 30, 40}
	if b != want {
		t.Errorf("Expand(5) = %+v, want %+v", b, want)
	}
}

func TestBBoxTranslateScale(t *testing.T) {
	b := NewBBox(10, 20, 30, 40)
	if got := b.Translate(5, -5); got != (BBox{15, 15, 30, 40}) {
		t.Errorf("Translate() = %+v", got)
	}
	if got := b.Scale(2, 0.5); got != (BBox{20, 10, 60, 20}) {
		t.Errorf("Scale() = %+v", got)
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	m := Scaled(2, 2).Multiply(Translated(10, 20))
	p := Point{3, 4}
	mapped := m.Transform(p)
	if mapped != (Point{16, 28}) {
		t.Fatalf("Transform() = %+v, want {16 28}", mapped)
	}
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() reported singular matrix")
	}
	back := inv.Transform(mapped)
	if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	if _, ok := Scaled(0, 1).Invert(); ok {
		t.Error("Invert() accepted a singular matrix")
	}
}

// ============================================================================
// Factory Tests
// ============================================================================

func TestNewDocumentDefaults(t *testing.T) {
	doc := NewDocument("notes.pdf", Source{Kind: SourcePDF, FileName: "notes.pdf"})
	if doc.Version != 1 {
		t.Errorf("Version = %d, want 1", doc.Version)
	}
	if !strings.HasPrefix(doc.ID, "doc-") {
		t.Errorf("ID = %q, want doc- prefix", doc.ID)
	}
	if doc.CreatedAt.IsZero() || doc.ModifiedAt.IsZero() {
		t.Error("timestamps not stamped")
	}
}

func TestNewPageContentType(t *testing.T) {
	withRef := NewPage("doc-1", 612, 792, &PDFRef{SourceIndex: 3})
	if withRef.ContentType != ContentPDF {
		t.Errorf("ContentType = %v, want pdf", withRef.ContentType)
	}
	blank := NewBlankPage("doc-1", 612, 792)
	if blank.ContentType != ContentBlank {
		t.Errorf("ContentType = %v, want blank", blank.ContentType)
	}
	if blank.Rotation != 0 {
		t.Errorf("Rotation = %d, want 0", blank.Rotation)
	}
}

func TestFactoryIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		a := NewRectAnnotation("page-1", NewBBox(0, 0, 1, 1), nil)
		if seen[a.ID] {
			t.Fatalf("duplicate id %q after %d annotations", a.ID, i)
		}
		seen[a.ID] = true
	}
}

func TestStyleMergeOverrideWins(t *testing.T) {
	a := NewTextAnnotation("page-1", NewBBox(0, 0, 10, 10), "hi", &Style{FontSize: 22})
	if a.Style.FontSize != 22 {
		t.Errorf("FontSize = %v, want caller override 22", a.Style.FontSize)
	}
	if a.Style.FontFamily != DefaultStyle().FontFamily {
		t.Errorf("FontFamily = %q, want default", a.Style.FontFamily)
	}
	if a.Style.StrokeWidth != DefaultStyle().StrokeWidth {
		t.Errorf("StrokeWidth = %v, want default", a.Style.StrokeWidth)
	}
}

func TestFactoryNormalizesBBox(t *testing.T) {
	a := NewRectAnnotation("page-1", BBox{10, 10, -20, -30}, nil)
	if a.BBox.Width < 0 || a.BBox.Height < 0 {
		t.Errorf("BBox = %+v, want non-negative dimensions", a.BBox)
	}
}

func TestNewStarAnnotationFallbacks(t *testing.T) {
	a := NewStarAnnotation("page-1", NewBBox(0, 0, 10, 10), 1, 2.5, nil)
	if a.NumPoints != 5 {
		t.Errorf("NumPoints = %d, want fallback 5", a.NumPoints)
	}
	if a.InnerRadius != 0.5 {
		t.Errorf("InnerRadius = %v, want fallback 0.5", a.InnerRadius)
	}
}

func TestNewTableAnnotationGrid(t *testing.T) {
	a := NewTableAnnotation("page-1", NewBBox(0, 0, 100, 50), 2, 4, nil)
	if a.Rows != 2 || a.Cols != 4 {
		t.Fatalf("grid = %dx%d, want 2x4", a.Rows, a.Cols)
	}
	if len(a.ColWidths) != 4 || len(a.RowHeights) != 2 || len(a.Cells) != 2 {
		t.Fatal("grid slices not sized to rows/cols")
	}
	var total float64
	for _, w := range a.ColWidths {
		total += w
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("column widths sum to %v, want 1", total)
	}
}

func TestFreehandBounds(t *testing.T) {
	pts := []Point{{10, 40}, {30, 10}, {20, 50}}
	a := NewFreehandAnnotation("page-1", pts, nil)
	want := BBox{10, 10, 20, 40}
	if a.BBox != want {
		t.Errorf("BBox = %+v, want %+v", a.BBox, want)
	}
}

// ============================================================================
// Page Tests
// ============================================================================

func TestPageRotateSwapsDimensions(t *testing.T) {
	p := NewBlankPage("doc-1", 600, 800)

	p.Rotate(90)
	if p.Width != 800 || p.Height != 600 || p.Rotation != 90 {
		t.Fatalf("after 90: %vx%v rot %d, want 800x600 rot 90", p.Width, p.Height, p.Rotation)
	}

	p.Rotate(90)
	if p.Width != 600 || p.Height != 800 || p.Rotation != 180 {
		t.Fatalf("after 180: %vx%v rot %d, want 600x800 rot 180", p.Width, p.Height, p.Rotation)
	}

	p.Rotate(180)
	if p.Width != 600 || p.Height != 800 || p.Rotation != 0 {
		t.Fatalf("after 360: %vx%v rot %d, want 600x800 rot 0", p.Width, p.Height, p.Rotation)
	}

	p.Rotate(-90)
	if p.Width != 800 || p.Height != 600 || p.Rotation != 270 {
		t.Fatalf("after -90: %vx%v rot %d, want 800x600 rot 270", p.Width, p.Height, p.Rotation)
	}
}

func TestPageAnnotationLookup(t *testing.T) {
	p := NewBlankPage("doc-1", 600, 800)
	a := NewRectAnnotation(p.ID, NewBBox(0, 0, 10, 10), nil)
	p.Annotations = append(p.Annotations, a)

	got, idx := p.AnnotationByID(a.ID)
	if got == nil || idx != 0 {
		t.Fatalf("AnnotationByID() = (%v, %d), want (annotation, 0)", got, idx)
	}
	if missing, idx := p.AnnotationByID("nope"); missing != nil || idx != -1 {
		t.Error("lookup of unknown id should return (nil, -1)")
	}
}

func TestDocumentVisiblePages(t *testing.T) {
	doc := NewDocument("d", Source{})
	p1 := NewBlankPage(doc.ID, 600, 800)
	p2 := NewBlankPage(doc.ID, 600, 800)
	p3 := NewBlankPage(doc.ID, 600, 800)
	p2.Deleted = true
	doc.Pages = append(doc.Pages, p1, p2, p3)

	visible := doc.VisiblePages()
	if len(visible) != 2 || visible[0] != p1 || visible[1] != p3 {
		t.Errorf("VisiblePages() returned wrong set: %v", visible)
	}
	if doc.PageCount() != 2 {
		t.Errorf("PageCount() = %d, want 2", doc.PageCount())
	}
}

// ============================================================================
// Clone Tests
// ============================================================================

func TestPageCloneIsDeep(t *testing.T) {
	p := NewBlankPage("doc-1", 600, 800)
	ann := NewTextAnnotation(p.ID, NewBBox(0, 0, 10, 10), "original", nil)
	p.Annotations = append(p.Annotations, ann)
	raster := NewRasterLayer(p.ID, RasterFreedraw)
	raster.Append(RasterOperation{Tool: "pen", Points: []Point{{1, 2}}})
	p.Rasters = append(p.Rasters, raster)

	c := p.Clone()
	c.Annotations[0].(*TextAnnotation).Content = "changed"
	c.Rasters[0].Operations[0].Points[0] = Point{9, 9}

	if ann.Content != "original" {
		t.Error("clone shares annotation with source")
	}
	if raster.Operations[0].Points[0] != (Point{1, 2}) {
		t.Error("clone shares raster stroke points with source")
	}
}

func TestCloneWithNewIDsRebinds(t *testing.T) {
	p := NewBlankPage("doc-1", 600, 800)
	p.Annotations = append(p.Annotations, NewRectAnnotation(p.ID, NewBBox(0, 0, 5, 5), nil))
	p.Rasters = append(p.Rasters, NewRasterLayer(p.ID, RasterBlur))

	c := p.CloneWithNewIDs()
	if c.ID == p.ID {
		t.Fatal("page id not refreshed")
	}
	if c.Annotations[0].Base().ID == p.Annotations[0].Base().ID {
		t.Error("annotation id not refreshed")
	}
	if c.Annotations[0].Base().PageID != c.ID {
		t.Error("annotation PageID not rebound to new page")
	}
	if c.Rasters[0].ID == p.Rasters[0].ID {
		t.Error("raster id not refreshed")
	}
	if c.Rasters[0].PageID != c.ID {
		t.Error("raster PageID not rebound to new page")
	}
}
