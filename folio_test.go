package folio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/folio/model"
)

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(context.Background(), "nonexistent.txt"); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestOpenTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("first line\nsecond line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sess, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	doc := sess.Document()
	if doc == nil || doc.Name != "notes.txt" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if sess.CurrentPage() == nil {
		t.Error("Open should select the first page")
	}
}

func TestNewWithOptions(t *testing.T) {
	sess := New(WithMaxHistory(2), WithMaxFileSize(1<<10), WithPageSize(400, 500))

	doc := model.NewDocument("scratch", model.Source{Kind: model.SourceBlank})
	doc.Pages = append(doc.Pages, model.NewBlankPage(doc.ID, 400, 500))
	sess.SetDocument(doc)
	page := doc.Pages[0]
	sess.SetCurrentPage(page.ID)

	for i := 0; i < 5; i++ {
		sess.AddAnnotation(model.NewRectAnnotation(page.ID, model.NewBBox(float64(i), 0, 5, 5), nil))
	}
	if got := sess.History().Len(); got != 2 {
		t.Errorf("history length = %d, want capped at 2", got)
	}
}

func TestOpenPDFWithoutDecoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(context.Background(), path); err == nil {
		t.Error("expected error: no PDF decoder configured")
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must() = %d, want 42", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(0, os.ErrNotExist)
}
