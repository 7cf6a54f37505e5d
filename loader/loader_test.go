package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/tsawler/folio/model"
)

// ============================================================================
// Validation
// ============================================================================

func TestValidate(t *testing.T) {
	pngBytes := encodePNG(t, 3, 2)

	tests := []struct {
		name     string
		fileName string
		data     []byte
		maxSize  int64
		wantKind Kind
		wantErr  bool
	}{
		{"pdf magic", "doc.pdf", []byte("%PDF-1.7\n..."), 0, KindPDF, false},
		{"png magic", "shot.png", pngBytes, 0, KindPNG, false},
		{"jpeg magic", "photo.jpg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, 0, KindJPEG, false},
		{"gif magic", "anim.gif", []byte("GIF89a\x01\x00"), 0, KindGIF, false},
		{"webp magic", "pic.webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0x00), 0, KindWebP, false},
		{"text extension", "notes.txt", []byte("plain words"), 0, KindText, false},
		{"markdown extension", "readme.md", []byte("# Title"), 0, KindMarkdown, false},
		{"markdown long extension", "readme.markdown", []byte("# Title"), 0, KindMarkdown, false},
		{"empty file", "empty.pdf", nil, 0, KindUnknown, true},
		{"too large", "big.txt", []byte("0123456789"), 5, KindUnknown, true},
		{"unknown type", "prog.exe", []byte{0x4d, 0x5a, 0x90}, 0, KindUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := Validate(tt.fileName, tt.data, tt.maxSize)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if kind != tt.wantKind {
				t.Errorf("Validate() kind = %v, want %v", kind, tt.wantKind)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("error type = %T, want *ValidationError", err)
				} else if ve.FileName != tt.fileName {
					t.Errorf("error FileName = %q, want %q", ve.FileName, tt.fileName)
				}
			}
		})
	}
}

func TestDetectContentBeatsExtension(t *testing.T) {
	// A PDF renamed to .txt is still a PDF; magic bytes win.
	if got := Detect("disguised.txt", []byte("%PDF-1.4")); got != KindPDF {
		t.Errorf("Detect() = %v, want %v", got, KindPDF)
	}
}

// ============================================================================
// Text decoding and pagination
// ============================================================================

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain utf-8", []byte("hello\nworld"), "hello\nworld"},
		{"utf-8 bom stripped", []byte("\xef\xbb\xbfhello"), "hello"},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"windows-1252 fallback", []byte{'c', 'a', 'f', 0xe9}, "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeText(tt.data)
			if err != nil {
				t.Fatalf("decodeText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitLinesNormalizesEndings(t *testing.T) {
	got := splitLines("a\r\nb\rc\nd")
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("splitLines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPaginateLines(t *testing.T) {
	lines := make([]string, 7)
	pages := paginateLines(lines, 3)
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	if len(pages[0]) != 3 || len(pages[2]) != 1 {
		t.Errorf("page sizes = %d,%d,%d, want 3,3,1", len(pages[0]), len(pages[1]), len(pages[2]))
	}
	if got := paginateLines(nil, 3); len(got) != 1 {
		t.Errorf("empty input should still yield one page, got %d", len(got))
	}
}

func TestLoadTextPaginates(t *testing.T) {
	// 40 body lines fit a default page; 45 need two.
	var sb strings.Builder
	for i := 0; i < 45; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}

	doc, err := New().LoadDocument(context.Background(), "long.txt", []byte(sb.String()))
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		if p.ContentType != model.ContentText {
			t.Errorf("page %d ContentType = %v, want text", i, p.ContentType)
		}
		if p.Index != i {
			t.Errorf("page %d Index = %d", i, p.Index)
		}
		if len(p.Annotations) != 1 {
			t.Fatalf("page %d annotations = %d, want 1", i, len(p.Annotations))
		}
	}
	first := doc.Pages[0].Annotations[0].(*model.TextAnnotation)
	if !strings.HasPrefix(first.Content, "line 0\n") {
		t.Errorf("first page content starts %q", first.Content[:20])
	}
}

// ============================================================================
// Markdown
// ============================================================================

func TestMarkdownBlocks(t *testing.T) {
	src := []byte("# Title\n\nBody paragraph.\n\n- first\n- second\n\n```\ncode  line\n```\n")
	blocks, err := markdownBlocks(src)
	if err != nil {
		t.Fatalf("markdownBlocks() error = %v", err)
	}
	if len(blocks) != 5 {
		t.Fatalf("blocks = %d, want 5: %+v", len(blocks), blocks)
	}

	title := blocks[0]
	if title.text != "Title" || !title.bold || title.fontSize != 24 {
		t.Errorf("heading block = %+v", title)
	}
	if blocks[1].text != "Body paragraph." || blocks[1].bold {
		t.Errorf("paragraph block = %+v", blocks[1])
	}
	if blocks[2].text != "• first" || blocks[2].indent == 0 {
		t.Errorf("list block = %+v", blocks[2])
	}
	code := blocks[4]
	if code.text != "code  line" || !code.mono {
		t.Errorf("code block = %+v, want double space preserved and mono", code)
	}
}

func TestLoadMarkdownStyles(t *testing.T) {
	doc, err := New().LoadDocument(context.Background(), "notes.md",
		[]byte("## Section\n\nSome text.\n"))
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].ContentType != model.ContentMarkdown {
		t.Fatal("expected one markdown page")
	}
	anns := doc.Pages[0].Annotations
	if len(anns) != 2 {
		t.Fatalf("annotations = %d, want 2", len(anns))
	}
	heading := anns[0].Base()
	if !heading.Style.Bold || heading.Style.FontSize != 20 {
		t.Errorf("heading style = %+v", heading.Style)
	}
	if anns[1].Base().BBox.Y <= heading.BBox.Y {
		t.Error("body should flow below the heading")
	}
}

// ============================================================================
// Image loading
// ============================================================================

func TestLoadImage(t *testing.T) {
	data := encodePNG(t, 320, 200)
	doc, err := New().LoadDocument(context.Background(), "shot.png", data)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(doc.Pages))
	}
	p := doc.Pages[0]
	if p.Width != 320 || p.Height != 200 || p.ContentType != model.ContentImage {
		t.Errorf("page = %vx%v %v, want 320x200 image", p.Width, p.Height, p.ContentType)
	}
	if len(p.Annotations) != 1 {
		t.Fatal("expected one image annotation covering the page")
	}
	img := p.Annotations[0].(*model.ImageAnnotation)
	if img.BBox != model.NewBBox(0, 0, 320, 200) {
		t.Errorf("image BBox = %+v", img.BBox)
	}
	if img.OriginalWidth != 320 || img.OriginalHeight != 200 || img.ImageFormat != "png" {
		t.Errorf("image metadata = %dx%d %q", img.OriginalWidth, img.OriginalHeight, img.ImageFormat)
	}
}

func TestDimensionsRejectsGarbage(t *testing.T) {
	if _, _, _, err := Dimensions([]byte("not an image")); err == nil {
		t.Error("Dimensions() accepted garbage")
	}
}

func TestDecodeDataURL(t *testing.T) {
	data, mime, err := DecodeDataURL("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("DecodeDataURL() error = %v", err)
	}
	if mime != "image/png" || string(data) != "hello" {
		t.Errorf("DecodeDataURL() = %q, %q", data, mime)
	}

	for _, bad := range []string{"http://x/y.png", "data:image/png;base64", "data:;base64,%%%"} {
		if _, _, err := DecodeDataURL(bad); err == nil {
			t.Errorf("DecodeDataURL(%q) accepted malformed input", bad)
		}
	}
}

// ============================================================================
// PDF loading
// ============================================================================

// fakePageSource stands in for the PDF decode collaborator.
type fakePageSource struct {
	sizes [][2]float64
}

func (f *fakePageSource) PageCount() int { return len(f.sizes) }

func (f *fakePageSource) PageSize(i int) (float64, float64, error) {
	if i < 0 || i >= len(f.sizes) {
		return 0, 0, fmt.Errorf("page %d out of range", i)
	}
	return f.sizes[i][0], f.sizes[i][1], nil
}

func (f *fakePageSource) RenderPage(_ context.Context, i int, scale float64) (image.Image, error) {
	w, h, err := f.PageSize(i)
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, int(w*scale), int(h*scale))), nil
}

func TestLoadPDF(t *testing.T) {
	l := New()
	l.OpenPDF = func(data []byte) (PageSource, error) {
		return &fakePageSource{sizes: [][2]float64{{612, 792}, {792, 612}}}, nil
	}

	raw := []byte("%PDF-1.5 fake")
	doc, err := l.LoadDocument(context.Background(), "report.pdf", raw)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}

	if doc.Source.Kind != model.SourcePDF || !bytes.Equal(doc.Source.OriginalBytes, raw) {
		t.Error("source metadata should keep the original bytes for export")
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		if p.PDFRef == nil || p.PDFRef.SourceIndex != i {
			t.Errorf("page %d PDF ref = %+v, want SourceIndex %d", i, p.PDFRef, i)
		}
		if p.ContentType != model.ContentPDF {
			t.Errorf("page %d ContentType = %v, want PDF", i, p.ContentType)
		}
	}
	if doc.Pages[1].Width != 792 {
		t.Errorf("landscape page Width = %v, want 792", doc.Pages[1].Width)
	}
}

func TestLoadPDFWithoutOpener(t *testing.T) {
	if _, err := New().LoadDocument(context.Background(), "a.pdf", []byte("%PDF-1.4")); err == nil {
		t.Error("expected an error without a PDF decoder configured")
	}
}

func TestLoadDocumentCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().LoadDocument(ctx, "n.txt", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}
