package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/overmark/internal/shape"
)

var red = color.RGBA{255, 0, 0, 255}

func TestPaintStroke(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	s := shape.NewStroke(image.Pt(5, 5), red, 2)
	s.Points = append(s.Points, image.Pt(20, 5))
	Paint(dst, nil, shape.List{s}, nil, "")
	if got := dst.RGBAAt(12, 5); got != red {
		t.Fatalf("expected stroke pixel at (12,5), got %+v", got)
	}
	if got := dst.RGBAAt(12, 20); got.A != 0 {
		t.Fatalf("unexpected paint far from the stroke: %+v", got)
	}
}

func TestPaintNormalizesRects(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	// Dragged up-left: origin at (30,30) with negative extent.
	s := shape.NewRect(30, 30, red, 1)
	s.W = -20
	s.H = -20
	Paint(dst, nil, shape.List{s}, nil, "")
	if got := dst.RGBAAt(10, 20); got != red {
		t.Fatalf("expected left edge pixel at (10,20), got %+v", got)
	}
}

func TestPaintDraftOnTop(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	draft := shape.NewStroke(image.Pt(2, 2), red, 2)
	draft.Points = append(draft.Points, image.Pt(10, 2))
	Paint(dst, nil, nil, &draft, "")
	if got := dst.RGBAAt(5, 2); got != red {
		t.Fatalf("draft not painted: %+v", got)
	}
}

func TestPaintBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	fill := color.RGBA{10, 20, 30, 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			bg.Set(x, y, fill)
		}
	}
	dst := image.NewRGBA(bg.Bounds())
	Paint(dst, bg, nil, nil, "")
	if got := dst.RGBAAt(4, 4); got != fill {
		t.Fatalf("background not painted: %+v", got)
	}
}

func TestExportDoublesDensity(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 50, 30))
	s := shape.NewRect(10, 10, red, 2)
	s.W = 20
	s.H = 10
	out := Export(bg, shape.List{s})
	if out == nil {
		t.Fatal("expected export image")
	}
	if got, want := out.Bounds(), image.Rect(0, 0, 100, 60); !got.Eq(want) {
		t.Fatalf("export bounds %v, want %v", got, want)
	}
	// The rect edge lands at doubled coordinates.
	if got := out.RGBAAt(20, 30); got != red {
		t.Fatalf("expected scaled rect edge at (20,30), got %+v", got)
	}
}

func TestExportNilBackground(t *testing.T) {
	if out := Export(nil, shape.List{shape.NewRect(0, 0, red, 1)}); out != nil {
		t.Fatalf("expected nil export without a background, got %v", out.Bounds())
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	bottom := shape.NewRect(0, 0, red, 1)
	bottom.W, bottom.H = 30, 30
	top := shape.NewRect(10, 10, red, 1)
	top.W, top.H = 30, 30
	l := shape.List{bottom, top}
	id, ok := HitTest(l, image.Pt(20, 20))
	if !ok || id != top.ID {
		t.Fatalf("got id=%q ok=%v, want topmost %q", id, ok, top.ID)
	}
	id, ok = HitTest(l, image.Pt(2, 2))
	if !ok || id != bottom.ID {
		t.Fatalf("got id=%q ok=%v, want bottom %q", id, ok, bottom.ID)
	}
	if _, ok := HitTest(l, image.Pt(200, 200)); ok {
		t.Fatal("hit reported on empty background")
	}
}

func TestHitTestStrokeTolerance(t *testing.T) {
	s := shape.NewStroke(image.Pt(0, 10), red, 2)
	s.Points = append(s.Points, image.Pt(40, 10))
	l := shape.List{s}
	if _, ok := HitTest(l, image.Pt(20, 13)); !ok {
		t.Fatal("point within tolerance should hit the stroke")
	}
	if _, ok := HitTest(l, image.Pt(20, 30)); ok {
		t.Fatal("point far from the stroke should miss")
	}
}

func TestHitTestLabelGlyphBox(t *testing.T) {
	s := shape.NewLabel(10, 10, "Hello", 16, red)
	l := shape.List{s}
	if _, ok := HitTest(l, image.Pt(12, 14)); !ok {
		t.Fatal("point inside the glyph box should hit the label")
	}
	if _, ok := HitTest(l, image.Pt(10, 200)); ok {
		t.Fatal("point below the glyph box should miss")
	}
}

func TestResizeClampsMinimum(t *testing.T) {
	start := image.Rect(10, 10, 40, 40)
	// Drag the right edge far past the left edge.
	r := Resize(start, HandleR, image.Pt(-100, 0))
	if r.Dx() < shape.MinSize || r.Dy() != 30 {
		t.Fatalf("resize result %v violates the minimum", r)
	}
	// Shrinking from the top-left clamps both axes.
	r = Resize(start, HandleTL, image.Pt(100, 100))
	if r.Dx() < shape.MinSize || r.Dy() < shape.MinSize {
		t.Fatalf("resize result %v violates the minimum", r)
	}
	if r.Max != start.Max {
		t.Fatalf("top-left resize moved the anchored corner: %v", r)
	}
}

func TestResizeMove(t *testing.T) {
	start := image.Rect(10, 10, 40, 40)
	r := Resize(start, HandleMove, image.Pt(5, -3))
	if !r.Eq(start.Add(image.Pt(5, -3))) {
		t.Fatalf("move result %v", r)
	}
}

func TestHandleAt(t *testing.T) {
	rect := image.Rect(20, 20, 60, 60)
	if h := HandleAt(rect, image.Pt(20, 20)); h != HandleTL {
		t.Fatalf("corner pick = %v, want HandleTL", h)
	}
	if h := HandleAt(rect, image.Pt(40, 40)); h != HandleMove {
		t.Fatalf("interior pick = %v, want HandleMove", h)
	}
	if h := HandleAt(rect, image.Pt(100, 100)); h != HandleNone {
		t.Fatalf("outside pick = %v, want HandleNone", h)
	}
}

func TestMeasureText(t *testing.T) {
	w, h, baseline, err := MeasureText("Hello", 16)
	if err != nil {
		t.Fatalf("MeasureText: %v", err)
	}
	if w <= 0 || h <= 0 || baseline <= 0 || baseline > h {
		t.Fatalf("implausible metrics w=%d h=%d baseline=%d", w, h, baseline)
	}
	wide, _, _, err := MeasureText("Hello, world", 16)
	if err != nil {
		t.Fatalf("MeasureText: %v", err)
	}
	if wide <= w {
		t.Fatalf("longer text should measure wider: %d vs %d", wide, w)
	}
}
