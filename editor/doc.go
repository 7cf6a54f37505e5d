// Package editor provides the document editing session: the authoritative
// document tree, its mutation operations, undo/redo, selection and tool
// state, and view-state coordinate mapping.
//
// A [Session] is an explicitly constructed object with a create → mutate →
// dispose lifecycle. Hosts that need several open documents run several
// sessions; nothing in this package is process-global.
//
//	sess := editor.NewSession(editor.Config{})
//	if err := sess.LoadDocument(ctx, "report.pdf", data); err != nil {
//	    // surface to the user; the session is unchanged
//	}
//	sess.AddAnnotation(model.NewRectAnnotation(pageID, bbox, nil))
//	sess.Undo()
//
// Every reversible mutation is recorded through the history package's
// central recorder, so each session method is one undo step. Interactive
// move/resize gestures go through BeginTransform/TranslateTransform/
// EndTransform and coalesce into one step on release.
//
// The session is single-writer and synchronous: every operation runs to
// completion on the calling goroutine, and undo/redo replace the document
// tree wholesale. Callers must re-read Session.Document rather than holding
// a tree pointer across operations.
package editor
