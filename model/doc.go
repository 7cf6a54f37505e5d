// Package model defines the in-memory document tree for the folio editor.
//
// The tree is Document → ordered Pages → per-page layer collections: vector
// [Annotation] values and raster [RasterLayer] values. All coordinates are in
// page-point units with a top-left origin.
//
// # Document Structure
//
// A [Document] owns its pages; page order in the slice is the authoritative
// display order. Pages are soft-deleted (the Deleted flag) rather than
// removed, so identifiers and history patch paths stay valid for undo.
//
//	doc := model.NewDocument("report.pdf", src)
//	page := model.NewPage(doc.ID, 612, 792, &model.PDFRef{SourceIndex: 0})
//	doc.Pages = append(doc.Pages, page)
//
// # Annotations
//
// All vector content implements the [Annotation] interface. Concrete kinds
// include [TextAnnotation], [HighlightAnnotation], [RectAnnotation],
// [EllipseAnnotation], [ArrowAnnotation], [LineAnnotation], [StarAnnotation],
// [HeartAnnotation], [LightningAnnotation], [ImageAnnotation],
// [StampAnnotation], [FreehandAnnotation], [HighlighterAnnotation], and
// [TableAnnotation]. Switch on Kind() for exhaustive handling; every kind
// embeds [AnnotationBase] for the shared fields.
//
// # Factories
//
// The New* constructors stamp generated ids and timestamps and merge the
// default style under caller overrides. They perform no validation beyond
// normalizing geometry; a constructed entity is always well-formed.
//
// # Geometry
//
// [BBox], [Point], and [Matrix] provide the box algebra and affine
// transforms used for hit testing and coordinate mapping. All geometry
// functions are pure and total.
package model
