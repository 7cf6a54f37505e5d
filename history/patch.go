package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/folio/internal/ident"
	"github.com/tsawler/folio/model"
)

// OpKind is the kind of a patch operation, following JSON-Patch naming.
type OpKind string

const (
	OpAdd     OpKind = "add"
	OpRemove  OpKind = "remove"
	OpReplace OpKind = "replace"
)

// Op is a single reversible edit against the document tree, addressed by an
// array-index path such as /pages/0/layers/annotations/2. The path "-" index
// means append (add only).
type Op struct {
	Kind  OpKind
	Path  string
	Value any
}

// Patch pairs the forward and backward operation lists for one undoable
// action. Applying Forward to the pre-mutation document yields the
// post-mutation document; applying Backward to the post-mutation document
// restores the pre-mutation document exactly.
type Patch struct {
	ID          string
	Timestamp   time.Time
	Description string
	Forward     []Op
	Backward    []Op
}

// NewPatch stamps an id and timestamp and stores the caller-supplied
// operation lists verbatim. No patch computation happens here; use
// [Log.Record] to derive inverse pairs centrally.
func NewPatch(description string, forward, backward []Op) *Patch {
	return &Patch{
		ID:          ident.New("patch"),
		Timestamp:   time.Now(),
		Description: description,
		Forward:     forward,
		Backward:    backward,
	}
}

// Apply failures. All are wrapped with the offending path.
var (
	ErrBadPath      = errors.New("history: bad patch path")
	ErrOutOfRange   = errors.New("history: index out of range")
	ErrTypeMismatch = errors.New("history: value type mismatch")
)

// Apply applies the operations to the document in place, in order. Values
// are cloned on insertion so a patch can be replayed any number of times
// without aliasing the tree. On error the document may be partially patched;
// callers that need all-or-nothing semantics apply to a clone.
func Apply(doc *model.Document, ops []Op) error {
	for _, op := range ops {
		if err := applyOp(doc, op); err != nil {
			return err
		}
	}
	return nil
}

func applyOp(doc *model.Document, op Op) error {
	parts := splitPath(op.Path)
	if len(parts) == 0 {
		return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
	}

	switch parts[0] {
	case "name":
		if len(parts) != 1 || op.Kind != OpReplace {
			return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
		}
		name, ok := op.Value.(string)
		if !ok {
			return fmt.Errorf("%w: %q wants string", ErrTypeMismatch, op.Path)
		}
		doc.Name = name
		return nil

	case "pages":
		return applyPagesOp(doc, op, parts[1:])
	}
	return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
}

func applyPagesOp(doc *model.Document, op Op, parts []string) error {
	// /pages — whole-slice replace.
	if len(parts) == 0 {
		if op.Kind != OpReplace {
			return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
		}
		pages, ok := op.Value.([]*model.Page)
		if !ok {
			return fmt.Errorf("%w: %q wants []*Page", ErrTypeMismatch, op.Path)
		}
		doc.Pages = clonePages(pages)
		return nil
	}

	// /pages/{i} — page entry.
	if len(parts) == 1 {
		switch op.Kind {
		case OpAdd:
			page, ok := op.Value.(*model.Page)
			if !ok {
				return fmt.Errorf("%w: %q wants *Page", ErrTypeMismatch, op.Path)
			}
			idx, err := insertIndex(parts[0], len(doc.Pages), op.Path)
			if err != nil {
				return err
			}
			doc.Pages = append(doc.Pages, nil)
			copy(doc.Pages[idx+1:], doc.Pages[idx:])
			doc.Pages[idx] = page.Clone()
			return nil
		case OpRemove:
			idx, err := elementIndex(parts[0], len(doc.Pages), op.Path)
			if err != nil {
				return err
			}
			doc.Pages = append(doc.Pages[:idx], doc.Pages[idx+1:]...)
			return nil
		case OpReplace:
			idx, err := elementIndex(parts[0], len(doc.Pages), op.Path)
			if err != nil {
				return err
			}
			page, ok := op.Value.(*model.Page)
			if !ok {
				return fmt.Errorf("%w: %q wants *Page", ErrTypeMismatch, op.Path)
			}
			doc.Pages[idx] = page.Clone()
			return nil
		}
		return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
	}

	idx, err := elementIndex(parts[0], len(doc.Pages), op.Path)
	if err != nil {
		return err
	}
	page := doc.Pages[idx]

	// /pages/{i}/{field} — scalar page field replace.
	if len(parts) == 2 {
		if op.Kind != OpReplace {
			return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
		}
		return setPageField(page, parts[1], op)
	}

	// /pages/{i}/layers/{annotations|rasters}/{j} — layer entry.
	if len(parts) == 4 && parts[1] == "layers" {
		switch parts[2] {
		case "annotations":
			return applyAnnotationOp(page, op, parts[3])
		case "rasters":
			return applyRasterOp(page, op, parts[3])
		}
	}
	return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
}

func setPageField(page *model.Page, field string, op Op) error {
	switch field {
	case "deleted":
		v, ok := op.Value.(bool)
		if !ok {
			return fmt.Errorf("%w: %q wants bool", ErrTypeMismatch, op.Path)
		}
		page.Deleted = v
	case "rotation":
		v, ok := op.Value.(int)
		if !ok {
			return fmt.Errorf("%w: %q wants int", ErrTypeMismatch, op.Path)
		}
		page.Rotation = v
	case "index":
		v, ok := op.Value.(int)
		if !ok {
			return fmt.Errorf("%w: %q wants int", ErrTypeMismatch, op.Path)
		}
		page.Index = v
	case "width":
		v, ok := op.Value.(float64)
		if !ok {
			return fmt.Errorf("%w: %q wants float64", ErrTypeMismatch, op.Path)
		}
		page.Width = v
	case "height":
		v, ok := op.Value.(float64)
		if !ok {
			return fmt.Errorf("%w: %q wants float64", ErrTypeMismatch, op.Path)
		}
		page.Height = v
	default:
		return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
	}
	return nil
}

func applyAnnotationOp(page *model.Page, op Op, seg string) error {
	switch op.Kind {
	case OpAdd:
		a, ok := op.Value.(model.Annotation)
		if !ok {
			return fmt.Errorf("%w: %q wants Annotation", ErrTypeMismatch, op.Path)
		}
		idx, err := insertIndex(seg, len(page.Annotations), op.Path)
		if err != nil {
			return err
		}
		page.Annotations = append(page.Annotations, nil)
		copy(page.Annotations[idx+1:], page.Annotations[idx:])
		page.Annotations[idx] = a.Clone()
		return nil
	case OpRemove:
		idx, err := elementIndex(seg, len(page.Annotations), op.Path)
		if err != nil {
			return err
		}
		page.Annotations = append(page.Annotations[:idx], page.Annotations[idx+1:]...)
		return nil
	case OpReplace:
		idx, err := elementIndex(seg, len(page.Annotations), op.Path)
		if err != nil {
			return err
		}
		a, ok := op.Value.(model.Annotation)
		if !ok {
			return fmt.Errorf("%w: %q wants Annotation", ErrTypeMismatch, op.Path)
		}
		page.Annotations[idx] = a.Clone()
		return nil
	}
	return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
}

func applyRasterOp(page *model.Page, op Op, seg string) error {
	switch op.Kind {
	case OpAdd:
		r, ok := op.Value.(*model.RasterLayer)
		if !ok {
			return fmt.Errorf("%w: %q wants *RasterLayer", ErrTypeMismatch, op.Path)
		}
		idx, err := insertIndex(seg, len(page.Rasters), op.Path)
		if err != nil {
			return err
		}
		page.Rasters = append(page.Rasters, nil)
		copy(page.Rasters[idx+1:], page.Rasters[idx:])
		page.Rasters[idx] = r.Clone()
		return nil
	case OpRemove:
		idx, err := elementIndex(seg, len(page.Rasters), op.Path)
		if err != nil {
			return err
		}
		page.Rasters = append(page.Rasters[:idx], page.Rasters[idx+1:]...)
		return nil
	case OpReplace:
		idx, err := elementIndex(seg, len(page.Rasters), op.Path)
		if err != nil {
			return err
		}
		r, ok := op.Value.(*model.RasterLayer)
		if !ok {
			return fmt.Errorf("%w: %q wants *RasterLayer", ErrTypeMismatch, op.Path)
		}
		page.Rasters[idx] = r.Clone()
		return nil
	}
	return fmt.Errorf("%w: %q", ErrBadPath, op.Path)
}

// resolve returns the value at path, with ok=false when the path is well
// formed but nothing exists there yet (an index one past the end, or "-").
func resolve(doc *model.Document, path string) (any, bool, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false, fmt.Errorf("%w: %q", ErrBadPath, path)
	}

	switch parts[0] {
	case "name":
		if len(parts) != 1 {
			return nil, false, fmt.Errorf("%w: %q", ErrBadPath, path)
		}
		return doc.Name, true, nil
	case "pages":
		// fall through below
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrBadPath, path)
	}

	parts = parts[1:]
	if len(parts) == 0 {
		return doc.Pages, true, nil
	}

	idx, ok, err := lookupIndex(parts[0], len(doc.Pages), path)
	if err != nil || !ok {
		return nil, false, err
	}
	page := doc.Pages[idx]
	if len(parts) == 1 {
		return page, true, nil
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "deleted":
			return page.Deleted, true, nil
		case "rotation":
			return page.Rotation, true, nil
		case "index":
			return page.Index, true, nil
		case "width":
			return page.Width, true, nil
		case "height":
			return page.Height, true, nil
		}
		return nil, false, fmt.Errorf("%w: %q", ErrBadPath, path)
	}

	if len(parts) == 4 && parts[1] == "layers" {
		switch parts[2] {
		case "annotations":
			j, ok, err := lookupIndex(parts[3], len(page.Annotations), path)
			if err != nil || !ok {
				return nil, false, err
			}
			return page.Annotations[j], true, nil
		case "rasters":
			j, ok, err := lookupIndex(parts[3], len(page.Rasters), path)
			if err != nil || !ok {
				return nil, false, err
			}
			return page.Rasters[j], true, nil
		}
	}
	return nil, false, fmt.Errorf("%w: %q", ErrBadPath, path)
}

// cloneValue deep-copies a value destined for an op, so later tree mutations
// cannot reach into recorded history.
func cloneValue(v any) any {
	switch t := v.(type) {
	case *model.Page:
		return t.Clone()
	case model.Annotation:
		return t.Clone()
	case *model.RasterLayer:
		return t.Clone()
	case []*model.Page:
		return clonePages(t)
	default:
		return v
	}
}

func clonePages(pages []*model.Page) []*model.Page {
	out := make([]*model.Page, len(pages))
	for i, p := range pages {
		out[i] = p.Clone()
	}
	return out
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// elementIndex parses an index that must address an existing element.
func elementIndex(seg string, length int, path string) (int, error) {
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	if idx < 0 || idx >= length {
		return 0, fmt.Errorf("%w: %q (len %d)", ErrOutOfRange, path, length)
	}
	return idx, nil
}

// insertIndex parses an add-position index; "-" and len both mean append.
func insertIndex(seg string, length int, path string) (int, error) {
	if seg == "-" {
		return length, nil
	}
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	if idx < 0 || idx > length {
		return 0, fmt.Errorf("%w: %q (len %d)", ErrOutOfRange, path, length)
	}
	return idx, nil
}

// lookupIndex parses an index for resolve; out-of-range and "-" report
// not-found rather than an error.
func lookupIndex(seg string, length int, path string) (int, bool, error) {
	if seg == "-" {
		return 0, false, nil
	}
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	if idx < 0 || idx >= length {
		return 0, false, nil
	}
	return idx, true, nil
}
