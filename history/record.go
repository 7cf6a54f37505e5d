package history

import (
	"fmt"
	"strings"

	"github.com/tsawler/folio/model"
)

// Record runs mutate against the document and pushes a patch derived from
// the value at path before and after the mutation. Both directions come from
// a single before/after capture, so forward and backward are inverses by
// construction; call sites never hand-author op pairs.
//
// The path must name the tree location the mutation touches: an element path
// for inserts and removals (the element's index after insert, or before
// removal), or any replaceable path for in-place edits. A mutation that
// leaves the path untouched records nothing.
func (l *Log) Record(doc *model.Document, description, path string, mutate func(*model.Document)) error {
	if doc == nil {
		return fmt.Errorf("history: record %q: nil document", description)
	}
	before, hadBefore, err := resolve(doc, path)
	if err != nil {
		return fmt.Errorf("history: record %q: %w", description, err)
	}
	before = cloneValue(before)

	mutate(doc)

	after, hasAfter, err := resolve(doc, path)
	if err != nil {
		return fmt.Errorf("history: record %q: %w", description, err)
	}
	after = cloneValue(after)

	var forward, backward []Op
	switch {
	case hadBefore && hasAfter:
		forward = []Op{{Kind: OpReplace, Path: path, Value: after}}
		backward = []Op{{Kind: OpReplace, Path: path, Value: before}}
	case !hadBefore && hasAfter:
		forward = []Op{{Kind: OpAdd, Path: l.addPath(doc, path), Value: after}}
		backward = []Op{{Kind: OpRemove, Path: path}}
	case hadBefore && !hasAfter:
		forward = []Op{{Kind: OpRemove, Path: path}}
		backward = []Op{{Kind: OpAdd, Path: path, Value: before}}
	default:
		// Nothing existed at the path before or after; the mutation was a
		// no-op as far as this path is concerned.
		return nil
	}

	l.Push(NewPatch(description, forward, backward))
	return nil
}

// addPath rewrites an insert path to the append form "…/-" when the inserted
// element landed at the end of its list, matching how interactive additions
// are conventionally recorded.
func (l *Log) addPath(doc *model.Document, path string) string {
	slash := strings.LastIndex(path, "/")
	if slash < 0 {
		return path
	}
	parent, seg := path[:slash], path[slash+1:]
	length, ok := listLen(doc, parent)
	if !ok {
		return path
	}
	if seg == fmt.Sprint(length-1) {
		return parent + "/-"
	}
	return path
}

// listLen returns the length of the list at the given parent path, if the
// path names one of the tree's lists.
func listLen(doc *model.Document, parent string) (int, bool) {
	parts := splitPath(parent)
	if len(parts) == 0 || parts[0] != "pages" {
		return 0, false
	}
	if len(parts) == 1 {
		return len(doc.Pages), true
	}
	if len(parts) != 4 || parts[2] != "layers" {
		return 0, false
	}
	idx, ok, err := lookupIndex(parts[1], len(doc.Pages), parent)
	if err != nil || !ok {
		return 0, false
	}
	switch parts[3] {
	case "annotations":
		return len(doc.Pages[idx].Annotations), true
	case "rasters":
		return len(doc.Pages[idx].Rasters), true
	}
	return 0, false
}
