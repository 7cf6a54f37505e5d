package history

import (
	"log"

	"github.com/tsawler/folio/model"
)

// DefaultMaxSize is the default cap on the number of retained patches.
const DefaultMaxSize = 50

// Logger receives undo/redo apply failures. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// Log is a bounded, strictly linear undo/redo log: a patch slice plus a
// cursor. There is no redo tree; pushing after an undo discards the
// redone-away patches permanently.
type Log struct {
	patches      []*Patch
	currentIndex int
	maxSize      int
	logger       Logger
}

// NewLog creates an empty log. maxSize <= 0 selects [DefaultMaxSize]; a nil
// logger falls back to the standard logger.
func NewLog(maxSize int, logger Logger) *Log {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Log{
		patches:      make([]*Patch, 0),
		currentIndex: -1,
		maxSize:      maxSize,
		logger:       logger,
	}
}

// Len returns the number of retained patches.
func (l *Log) Len() int {
	return len(l.patches)
}

// CurrentIndex returns the cursor: the position of the last applied patch,
// or -1 before the first.
func (l *Log) CurrentIndex() int {
	return l.currentIndex
}

// CanUndo reports whether a patch is available to undo.
func (l *Log) CanUndo() bool {
	return l.currentIndex >= 0
}

// CanRedo reports whether a previously undone patch is available to redo.
func (l *Log) CanRedo() bool {
	return l.currentIndex < len(l.patches)-1
}

// Patch returns the retained patch at position i, or nil if out of range.
func (l *Log) Patch(i int) *Patch {
	if i < 0 || i >= len(l.patches) {
		return nil
	}
	return l.patches[i]
}

// Push appends a patch after the cursor, discarding any redo branch. When
// the cap is exceeded the oldest patch is evicted and the cursor decremented
// so it still points at the same logical patch.
func (l *Log) Push(p *Patch) {
	l.patches = append(l.patches[:l.currentIndex+1], p)
	l.currentIndex++
	if len(l.patches) > l.maxSize {
		l.patches = l.patches[1:]
		l.currentIndex--
	}
}

// Undo applies the current patch's backward operations to a copy of the
// document and returns the result. If nothing can be undone, or if the apply
// fails, the input document is returned unchanged with ok=false; failures
// are logged, never propagated, so a bad patch cannot corrupt the tree.
func (l *Log) Undo(doc *model.Document) (*model.Document, bool) {
	if !l.CanUndo() || doc == nil {
		return doc, false
	}
	p := l.patches[l.currentIndex]
	next := doc.Clone()
	if err := Apply(next, p.Backward); err != nil {
		l.logger.Printf("folio: undo %q failed: %v", p.Description, err)
		return doc, false
	}
	l.currentIndex--
	return next, true
}

// Redo applies the next patch's forward operations, symmetric with Undo.
func (l *Log) Redo(doc *model.Document) (*model.Document, bool) {
	if !l.CanRedo() || doc == nil {
		return doc, false
	}
	p := l.patches[l.currentIndex+1]
	next := doc.Clone()
	if err := Apply(next, p.Forward); err != nil {
		l.logger.Printf("folio: redo %q failed: %v", p.Description, err)
		return doc, false
	}
	l.currentIndex++
	return next, true
}

// Reset drops all patches, for document close/replace.
func (l *Log) Reset() {
	l.patches = l.patches[:0]
	l.currentIndex = -1
}
