package editor

import (
	"fmt"
	"reflect"

	"github.com/tsawler/folio/history"
	"github.com/tsawler/folio/model"
)

// transformState is the Idle → Dragging → Idle interaction machine for
// moving and resizing an annotation. While a transform is live, pointer
// deltas mutate the annotation directly with no history; EndTransform
// records the whole gesture as one patch, so a drag undoes in a single
// step.
type transformState struct {
	annotationID string
	before       model.Annotation
}

// BeginTransform starts a move/resize gesture on the annotation with the
// given id on the current page. Locked annotations do not transform.
// Returns false (and starts nothing) when the annotation is not found.
func (s *Session) BeginTransform(annotationID string) bool {
	page, _ := s.currentPageIndexed()
	if page == nil {
		return false
	}
	a, _ := page.AnnotationByID(annotationID)
	if a == nil || a.Base().Locked {
		return false
	}
	s.transform = &transformState{
		annotationID: annotationID,
		before:       a.Clone(),
	}
	return true
}

// Transforming reports whether a gesture is in progress.
func (s *Session) Transforming() bool {
	return s.transform != nil
}

// TranslateTransform shifts the transforming annotation by a page-space
// delta. No-op outside a gesture.
func (s *Session) TranslateTransform(dx, dy float64) {
	a := s.transformTarget()
	if a == nil {
		return
	}
	translateAnnotation(a, dx, dy)
}

// SetTransformBBox resizes the transforming annotation to the given box.
// Point-based kinds (lines, arrows, freehand strokes) are remapped through
// the affine change between the old and new boxes so their geometry scales
// with the handle drag.
func (s *Session) SetTransformBBox(bbox model.BBox) {
	a := s.transformTarget()
	if a == nil {
		return
	}
	remapAnnotation(a, a.Base().BBox, bbox.Normalize())
}

// EndTransform completes the gesture. If the annotation actually changed, a
// single patch from the pre-gesture snapshot to the final geometry is
// pushed; intermediate positions are never individually undoable. Returns
// true when a patch was recorded.
func (s *Session) EndTransform() bool {
	t := s.transform
	s.transform = nil
	if t == nil || s.doc == nil {
		return false
	}
	page, pageIdx := s.currentPageIndexed()
	if page == nil {
		return false
	}
	a, idx := page.AnnotationByID(t.annotationID)
	if a == nil {
		return false
	}
	if reflect.DeepEqual(a, t.before) {
		return false
	}
	a.Base().Touch()
	s.doc.Touch()
	path := fmt.Sprintf("/pages/%d/layers/annotations/%d", pageIdx, idx)
	s.history.Push(history.NewPatch("transform annotation",
		[]history.Op{{Kind: history.OpReplace, Path: path, Value: a.Clone()}},
		[]history.Op{{Kind: history.OpReplace, Path: path, Value: t.before}},
	))
	return true
}

// CancelTransform abandons the gesture and restores the pre-gesture
// geometry. Nothing is recorded.
func (s *Session) CancelTransform() {
	t := s.transform
	s.transform = nil
	if t == nil {
		return
	}
	page, _ := s.currentPageIndexed()
	if page == nil {
		return
	}
	_, idx := page.AnnotationByID(t.annotationID)
	if idx < 0 {
		return
	}
	page.Annotations[idx] = t.before.Clone()
}

func (s *Session) transformTarget() model.Annotation {
	if s.transform == nil {
		return nil
	}
	page, _ := s.currentPageIndexed()
	if page == nil {
		return nil
	}
	a, _ := page.AnnotationByID(s.transform.annotationID)
	return a
}

func translateAnnotation(a model.Annotation, dx, dy float64) {
	base := a.Base()
	base.BBox = base.BBox.Translate(dx, dy)
	switch t := a.(type) {
	case *model.ArrowAnnotation:
		t.StartPoint = t.StartPoint.Translate(dx, dy)
		t.EndPoint = t.EndPoint.Translate(dx, dy)
		if t.ControlPoint != nil {
			cp := t.ControlPoint.Translate(dx, dy)
			t.ControlPoint = &cp
		}
	case *model.LineAnnotation:
		t.StartPoint = t.StartPoint.Translate(dx, dy)
		t.EndPoint = t.EndPoint.Translate(dx, dy)
		if t.ControlPoint != nil {
			cp := t.ControlPoint.Translate(dx, dy)
			t.ControlPoint = &cp
		}
	case *model.FreehandAnnotation:
		translatePoints(t.Points, dx, dy)
	case *model.HighlighterAnnotation:
		translatePoints(t.Points, dx, dy)
	}
}

// remapAnnotation moves an annotation from one bounding box to another,
// mapping any point geometry through the corresponding affine change.
func remapAnnotation(a model.Annotation, from, to model.BBox) {
	base := a.Base()
	base.BBox = to
	if from.Width == 0 || from.Height == 0 {
		return
	}
	sx := to.Width / from.Width
	sy := to.Height / from.Height
	remap := func(p model.Point) model.Point {
		return model.Point{
			X: to.X + (p.X-from.X)*sx,
			Y: to.Y + (p.Y-from.Y)*sy,
		}
	}
	switch t := a.(type) {
	case *model.ArrowAnnotation:
		t.StartPoint = remap(t.StartPoint)
		t.EndPoint = remap(t.EndPoint)
		if t.ControlPoint != nil {
			cp := remap(*t.ControlPoint)
			t.ControlPoint = &cp
		}
	case *model.LineAnnotation:
		t.StartPoint = remap(t.StartPoint)
		t.EndPoint = remap(t.EndPoint)
		if t.ControlPoint != nil {
			cp := remap(*t.ControlPoint)
			t.ControlPoint = &cp
		}
	case *model.FreehandAnnotation:
		for i := range t.Points {
			t.Points[i] = remap(t.Points[i])
		}
	case *model.HighlighterAnnotation:
		for i := range t.Points {
			t.Points[i] = remap(t.Points[i])
		}
	}
}

func translatePoints(pts []model.Point, dx, dy float64) {
	for i := range pts {
		pts[i] = pts[i].Translate(dx, dy)
	}
}
