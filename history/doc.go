// Package history provides patch-based undo/redo over the document tree.
//
// Every reversible mutation is recorded as a [Patch]: a forward and a
// backward list of JSON-Patch-style [Op] values (add, remove, replace)
// addressed against the tree by array-index paths like
// /pages/0/layers/annotations/2. The [Log] keeps a bounded, strictly linear
// patch list with a cursor; Undo applies the current patch's backward
// operations and Redo the next patch's forward operations, each producing a
// replacement document.
//
// The invariant that forward and backward are true inverses is not enforced
// structurally, so mutations should go through [Log.Record], which derives
// both directions from a single before/after capture at the mutated path.
// [NewPatch] remains available for callers that build their own op pairs.
//
// A patch that fails to apply is logged and skipped; the document is never
// left partially patched, because Undo and Redo apply against a clone.
package history
