package editor

import (
	"context"
	"fmt"

	"github.com/tsawler/folio/history"
	"github.com/tsawler/folio/loader"
	"github.com/tsawler/folio/model"
)

// Tool identifies the active editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolText
	ToolHighlight
	ToolRect
	ToolEllipse
	ToolArrow
	ToolLine
	ToolStar
	ToolHeart
	ToolLightning
	ToolImage
	ToolStamp
	ToolFreehand
	ToolHighlighter
	ToolTable
	ToolEraser
)

// ToolOptions carries the style settings applied to newly created
// annotations and strokes.
type ToolOptions struct {
	StrokeColor model.Color
	StrokeWidth float64
	FillColor   model.Color
	FontFamily  string
	FontSize    float64
	Opacity     float64
}

// SelectionState is the ephemeral tool and selection state. It is not part
// of the document tree and never participates in undo history.
type SelectionState struct {
	CurrentPageID         string
	SelectedAnnotationIDs []string
	SelectedRasterLayerID string
	ActiveTool            Tool
	ToolOptions           ToolOptions
}

// Config configures a session.
type Config struct {
	// MaxHistory caps the undo log; <= 0 selects history.DefaultMaxSize.
	MaxHistory int
	// Logger receives undo/redo apply failures; nil uses the standard logger.
	Logger history.Logger
	// Loader handles file decoding for LoadDocument; nil uses defaults.
	Loader *loader.Loader
}

// Session is one editing session over one document: the authoritative tree,
// its undo log, selection and view state, and the single-slot page
// clipboard. A session is created, mutated, and disposed; it is not a
// process-wide singleton, so tests and multi-document hosts can run several
// side by side. All operations are synchronous and single-writer.
//
// Lookups by id that find nothing are silent no-ops throughout: a UI racing
// an undo (deleting an annotation the undo already removed) must not throw.
type Session struct {
	doc       *model.Document
	history   *history.Log
	selection SelectionState
	view      ViewState
	clipboard *model.Page
	transform *transformState
	loader    *loader.Loader
	renderGen uint64
}

// NewSession creates an empty session.
func NewSession(cfg Config) *Session {
	ld := cfg.Loader
	if ld == nil {
		ld = loader.New()
	}
	return &Session{
		history: history.NewLog(cfg.MaxHistory, cfg.Logger),
		view:    NewViewState(),
		loader:  ld,
	}
}

// Document returns the current document tree, or nil when none is loaded.
// Callers must re-read it after every mutation or undo/redo; undo and redo
// replace the tree wholesale, so a captured pointer goes stale.
func (s *Session) Document() *model.Document {
	return s.doc
}

// Selection returns a copy of the selection state.
func (s *Session) Selection() SelectionState {
	sel := s.selection
	sel.SelectedAnnotationIDs = append([]string(nil), s.selection.SelectedAnnotationIDs...)
	return sel
}

// History returns the session's undo log.
func (s *Session) History() *history.Log {
	return s.history
}

// LoadDocument decodes the file and replaces the session's document. The
// load is all-or-nothing: on failure the error is returned and nothing in
// the session changes.
func (s *Session) LoadDocument(ctx context.Context, name string, data []byte) error {
	doc, err := s.loader.LoadDocument(ctx, name, data)
	if err != nil {
		return err
	}
	s.doc = doc
	s.history.Reset()
	s.clipboard = nil
	s.transform = nil
	s.selection = SelectionState{}
	if pages := doc.VisiblePages(); len(pages) > 0 {
		s.selection.CurrentPageID = pages[0].ID
	}
	return nil
}

// SetDocument replaces the session's document directly, for callers that
// build a tree without the loader (blank documents, tests).
func (s *Session) SetDocument(doc *model.Document) {
	s.doc = doc
	s.history.Reset()
	s.clipboard = nil
	s.transform = nil
	s.selection = SelectionState{}
	if doc != nil {
		if pages := doc.VisiblePages(); len(pages) > 0 {
			s.selection.CurrentPageID = pages[0].ID
		}
	}
}

// ClearDocument closes the current document and drops all session state.
func (s *Session) ClearDocument() {
	s.doc = nil
	s.history.Reset()
	s.clipboard = nil
	s.transform = nil
	s.selection = SelectionState{}
}

// ----------------------------------------------------------------------------
// Page operations
// ----------------------------------------------------------------------------

// AddPage appends a page to the document. Index is not assigned here; bulk
// inserts are followed by ReorderPages, which owns index consistency.
func (s *Session) AddPage(page *model.Page) {
	if s.doc == nil || page == nil {
		return
	}
	path := fmt.Sprintf("/pages/%d", len(s.doc.Pages))
	s.record("add page", path, func(d *model.Document) {
		page.DocID = d.ID
		d.Pages = append(d.Pages, page)
		d.Touch()
	})
	if s.selection.CurrentPageID == "" {
		s.selection.CurrentPageID = page.ID
	}
}

// RemovePage soft-deletes a page. The page stays in the slice so its id and
// history patch paths remain valid; it just stops being visible. If the
// removed page was current, the first remaining visible page becomes
// current.
func (s *Session) RemovePage(pageID string) {
	if s.doc == nil {
		return
	}
	page, idx := s.doc.PageByID(pageID)
	if page == nil || page.Deleted {
		return
	}
	s.record("remove page", fmt.Sprintf("/pages/%d/deleted", idx), func(d *model.Document) {
		d.Pages[idx].Deleted = true
		d.Touch()
	})
	if s.selection.CurrentPageID == pageID {
		s.selection.CurrentPageID = ""
		if pages := s.doc.VisiblePages(); len(pages) > 0 {
			s.selection.CurrentPageID = pages[0].ID
		}
	}
}

// RestorePage clears a page's deleted flag, returning it to its original
// relative position in the display order.
func (s *Session) RestorePage(pageID string) {
	if s.doc == nil {
		return
	}
	page, idx := s.doc.PageByID(pageID)
	if page == nil || !page.Deleted {
		return
	}
	s.record("restore page", fmt.Sprintf("/pages/%d/deleted", idx), func(d *model.Document) {
		d.Pages[idx].Deleted = false
		d.Touch()
	})
}

// ReorderPages rebuilds the page slice in the order given. Ids not present
// in the document are dropped; document pages missing from the request are
// appended at the end in their prior relative order. This leniency is
// documented behavior, not a validation gate. Afterwards every page's Index
// equals its position; this operation is the single source of truth for
// index consistency.
func (s *Session) ReorderPages(pageIDs []string) {
	if s.doc == nil {
		return
	}
	s.record("reorder pages", "/pages", func(d *model.Document) {
		used := make(map[string]bool, len(d.Pages))
		next := make([]*model.Page, 0, len(d.Pages))
		for _, id := range pageIDs {
			if used[id] {
				continue
			}
			if p, _ := d.PageByID(id); p != nil {
				next = append(next, p)
				used[id] = true
			}
		}
		for _, p := range d.Pages {
			if !used[p.ID] {
				next = append(next, p)
			}
		}
		d.Pages = next
		reindex(d)
		d.Touch()
	})
}

// RotatePage rotates a page by a multiple of 90 degrees. Quarter turns swap
// the page's width and height.
func (s *Session) RotatePage(pageID string, by int) {
	if s.doc == nil {
		return
	}
	page, idx := s.doc.PageByID(pageID)
	if page == nil {
		return
	}
	s.record("rotate page", fmt.Sprintf("/pages/%d", idx), func(d *model.Document) {
		d.Pages[idx].Rotate(by)
		d.Touch()
	})
}

// DuplicatePage inserts a structural copy immediately after the source
// page. Every contained annotation and raster layer gets a fresh id bound
// to the new page, so no id ever appears on two pages. Returns the new
// page's id, or "" if the source was not found.
func (s *Session) DuplicatePage(pageID string) string {
	if s.doc == nil {
		return ""
	}
	page, idx := s.doc.PageByID(pageID)
	if page == nil {
		return ""
	}
	var newID string
	s.record("duplicate page", "/pages", func(d *model.Document) {
		dup := page.CloneWithNewIDs()
		dup.Deleted = false
		newID = dup.ID
		d.Pages = append(d.Pages, nil)
		copy(d.Pages[idx+2:], d.Pages[idx+1:])
		d.Pages[idx+1] = dup
		reindex(d)
		d.Touch()
	})
	return newID
}

// CopyPage places a deep copy of the page in the single-slot clipboard.
// Copying is not a document mutation and records no history.
func (s *Session) CopyPage(pageID string) {
	if s.doc == nil {
		return
	}
	page, _ := s.doc.PageByID(pageID)
	if page == nil {
		return
	}
	s.clipboard = page.Clone()
}

// PastePage inserts a copy of the clipboard page after the current page
// (or at the end when no page is current), with fresh ids throughout, and
// makes the new page current. Returns the new page's id, or "" when the
// clipboard is empty.
func (s *Session) PastePage() string {
	if s.doc == nil || s.clipboard == nil {
		return ""
	}
	insertAfter := len(s.doc.Pages) - 1
	if _, idx := s.doc.PageByID(s.selection.CurrentPageID); idx >= 0 {
		insertAfter = idx
	}
	var newID string
	s.record("paste page", "/pages", func(d *model.Document) {
		dup := s.clipboard.CloneWithNewIDs()
		dup.DocID = d.ID
		dup.Deleted = false
		newID = dup.ID
		at := insertAfter + 1
		d.Pages = append(d.Pages, nil)
		copy(d.Pages[at+1:], d.Pages[at:])
		d.Pages[at] = dup
		reindex(d)
		d.Touch()
	})
	if newID != "" {
		s.selection.CurrentPageID = newID
	}
	return newID
}

// VisiblePages returns the non-deleted pages in display order.
func (s *Session) VisiblePages() []*model.Page {
	if s.doc == nil {
		return nil
	}
	return s.doc.VisiblePages()
}

// SetCurrentPage makes the page current. Unknown or deleted ids are
// ignored.
func (s *Session) SetCurrentPage(pageID string) {
	if s.doc == nil {
		return
	}
	if page, _ := s.doc.PageByID(pageID); page != nil && !page.Deleted {
		s.selection.CurrentPageID = pageID
	}
}

// CurrentPage returns the current page, or nil.
func (s *Session) CurrentPage() *model.Page {
	if s.doc == nil {
		return nil
	}
	page, _ := s.doc.PageByID(s.selection.CurrentPageID)
	return page
}

// ----------------------------------------------------------------------------
// Annotation operations
// ----------------------------------------------------------------------------

// AddAnnotation appends an annotation to the current page, rebinding its
// PageID. No-op when no page is current.
func (s *Session) AddAnnotation(a model.Annotation) {
	page, pageIdx := s.currentPageIndexed()
	if page == nil || a == nil {
		return
	}
	path := fmt.Sprintf("/pages/%d/layers/annotations/%d", pageIdx, len(page.Annotations))
	s.record("add annotation", path, func(d *model.Document) {
		a.Base().PageID = page.ID
		page.Annotations = append(page.Annotations, a)
		d.Touch()
	})
}

// UpdateAnnotation applies a partial update to the annotation with the
// given id on the current page and refreshes its modification timestamp.
// The whole before/after annotation is recorded, so the update is a single
// undo step.
func (s *Session) UpdateAnnotation(id string, update func(model.Annotation)) {
	page, pageIdx := s.currentPageIndexed()
	if page == nil || update == nil {
		return
	}
	a, idx := page.AnnotationByID(id)
	if a == nil {
		return
	}
	path := fmt.Sprintf("/pages/%d/layers/annotations/%d", pageIdx, idx)
	s.record("update annotation", path, func(d *model.Document) {
		update(a)
		a.Base().Touch()
		d.Touch()
	})
}

// RemoveAnnotation removes the annotation with the given id from the
// current page. Unknown ids are a silent no-op.
func (s *Session) RemoveAnnotation(id string) {
	page, pageIdx := s.currentPageIndexed()
	if page == nil {
		return
	}
	_, idx := page.AnnotationByID(id)
	if idx < 0 {
		return
	}
	path := fmt.Sprintf("/pages/%d/layers/annotations/%d", pageIdx, idx)
	s.record("remove annotation", path, func(d *model.Document) {
		page.Annotations = append(page.Annotations[:idx], page.Annotations[idx+1:]...)
		d.Touch()
	})
	s.selection.SelectedAnnotationIDs = removeID(s.selection.SelectedAnnotationIDs, id)
}

// SelectAnnotations replaces the annotation selection.
func (s *Session) SelectAnnotations(ids ...string) {
	s.selection.SelectedAnnotationIDs = append([]string(nil), ids...)
}

// ----------------------------------------------------------------------------
// Raster layer operations
// ----------------------------------------------------------------------------

// AddRasterLayer appends a raster layer to the current page.
func (s *Session) AddRasterLayer(r *model.RasterLayer) {
	page, pageIdx := s.currentPageIndexed()
	if page == nil || r == nil {
		return
	}
	path := fmt.Sprintf("/pages/%d/layers/rasters/%d", pageIdx, len(page.Rasters))
	s.record("add raster layer", path, func(d *model.Document) {
		r.PageID = page.ID
		page.Rasters = append(page.Rasters, r)
		d.Touch()
	})
}

// UpdateRasterLayer applies a partial update to the raster layer with the
// given id on the current page.
func (s *Session) UpdateRasterLayer(id string, update func(*model.RasterLayer)) {
	page, pageIdx := s.currentPageIndexed()
	if page == nil || update == nil {
		return
	}
	r, idx := page.RasterByID(id)
	if r == nil {
		return
	}
	path := fmt.Sprintf("/pages/%d/layers/rasters/%d", pageIdx, idx)
	s.record("update raster layer", path, func(d *model.Document) {
		update(r)
		r.Touch()
		d.Touch()
	})
}

// AppendRasterStroke records one stroke at the end of a raster layer's
// operation log as a single undo step.
func (s *Session) AppendRasterStroke(id string, op model.RasterOperation) {
	s.UpdateRasterLayer(id, func(r *model.RasterLayer) {
		r.Operations = append(r.Operations, op)
	})
}

// RemoveRasterLayer removes the raster layer with the given id from the
// current page.
func (s *Session) RemoveRasterLayer(id string) {
	page, pageIdx := s.currentPageIndexed()
	if page == nil {
		return
	}
	_, idx := page.RasterByID(id)
	if idx < 0 {
		return
	}
	path := fmt.Sprintf("/pages/%d/layers/rasters/%d", pageIdx, idx)
	s.record("remove raster layer", path, func(d *model.Document) {
		page.Rasters = append(page.Rasters[:idx], page.Rasters[idx+1:]...)
		d.Touch()
	})
	if s.selection.SelectedRasterLayerID == id {
		s.selection.SelectedRasterLayerID = ""
	}
}

// SelectRasterLayer makes the raster layer the active paint target.
func (s *Session) SelectRasterLayer(id string) {
	s.selection.SelectedRasterLayerID = id
}

// ----------------------------------------------------------------------------
// History
// ----------------------------------------------------------------------------

// Undo reverses the most recent recorded mutation. Returns false when there
// is nothing to undo or the patch failed to apply (in which case the
// document is untouched).
func (s *Session) Undo() bool {
	next, ok := s.history.Undo(s.doc)
	if ok {
		s.doc = next
		s.reconcileSelection()
	}
	return ok
}

// Redo reapplies the most recently undone mutation.
func (s *Session) Redo() bool {
	next, ok := s.history.Redo(s.doc)
	if ok {
		s.doc = next
		s.reconcileSelection()
	}
	return ok
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// AddHistoryPatch pushes a caller-built patch. The operation lists are
// stored verbatim; the caller is responsible for forward and backward being
// true inverses. Session mutations never use this path, so prefer the
// mutation methods when one fits.
func (s *Session) AddHistoryPatch(description string, forward, backward []history.Op) {
	s.history.Push(history.NewPatch(description, forward, backward))
}

// ----------------------------------------------------------------------------
// Tool state
// ----------------------------------------------------------------------------

// SetActiveTool switches tools. Switching away from the select tool clears
// the annotation and raster selection.
func (s *Session) SetActiveTool(tool Tool) {
	s.selection.ActiveTool = tool
	if tool != ToolSelect {
		s.selection.SelectedAnnotationIDs = nil
		s.selection.SelectedRasterLayerID = ""
	}
}

// SetToolOptions replaces the tool option set.
func (s *Session) SetToolOptions(opts ToolOptions) {
	s.selection.ToolOptions = opts
}

// ----------------------------------------------------------------------------
// Render generations
// ----------------------------------------------------------------------------

// BeginRender advances and returns the render generation. An async page
// render holds the value and checks CurrentRender before committing its
// pixels; a newer request makes the stale result a discard.
func (s *Session) BeginRender() uint64 {
	s.renderGen++
	return s.renderGen
}

// CurrentRender reports whether gen is still the latest render request.
func (s *Session) CurrentRender(gen uint64) bool {
	return gen == s.renderGen
}

// ----------------------------------------------------------------------------
// internal
// ----------------------------------------------------------------------------

// record wraps history.Record. Record failures mean a malformed path, which
// is a programming error in this package; they are logged by the history
// package's apply path, and here the mutation simply does not happen.
func (s *Session) record(description, path string, mutate func(*model.Document)) {
	_ = s.history.Record(s.doc, description, path, mutate)
}

func (s *Session) currentPageIndexed() (*model.Page, int) {
	if s.doc == nil {
		return nil, -1
	}
	page, idx := s.doc.PageByID(s.selection.CurrentPageID)
	if page == nil || page.Deleted {
		return nil, -1
	}
	return page, idx
}

// reconcileSelection drops selection referring to entities an undo/redo
// removed, and moves the current page off a deleted or vanished page.
func (s *Session) reconcileSelection() {
	if s.doc == nil {
		s.selection = SelectionState{}
		return
	}
	if page, _ := s.doc.PageByID(s.selection.CurrentPageID); page == nil || page.Deleted {
		s.selection.CurrentPageID = ""
		if pages := s.doc.VisiblePages(); len(pages) > 0 {
			s.selection.CurrentPageID = pages[0].ID
		}
	}
	var kept []string
	for _, id := range s.selection.SelectedAnnotationIDs {
		if a, _ := s.doc.AnnotationByID(id); a != nil {
			kept = append(kept, id)
		}
	}
	s.selection.SelectedAnnotationIDs = kept
}

func reindex(d *model.Document) {
	for i, p := range d.Pages {
		p.Index = i
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
