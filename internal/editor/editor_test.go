package editor

import (
	"image"
	"testing"

	"github.com/example/overmark/internal/render"
	"github.com/example/overmark/internal/shape"
)

func testImage() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 200, 100))
}

func newTestEditor(opts ...Option) *Editor {
	base := []Option{WithImage(testImage()), WithHitTester(render.HitTest)}
	return New(append(base, opts...)...)
}

func drawStroke(e *Editor, pts ...image.Point) {
	e.SetTool(ToolFreehand)
	e.PointerDown(pts[0])
	for _, p := range pts[1:] {
		e.PointerMove(p)
	}
	e.PointerUp(pts[len(pts)-1])
}

func drawRect(e *Editor, from, to image.Point) {
	e.SetTool(ToolRect)
	e.PointerDown(from)
	e.PointerMove(to)
	e.PointerUp(to)
}

func typeLabel(e *Editor, at image.Point, text string) {
	e.SetTool(ToolText)
	e.PointerDown(at)
	for _, r := range text {
		e.InsertOverlayRune(r)
	}
	e.CommitText()
}

func TestStrokeGestureCommits(t *testing.T) {
	e := newTestEditor()
	drawStroke(e, image.Pt(10, 10), image.Pt(10, 12))
	got := e.Shapes()
	if len(got) != 1 || got[0].Kind != shape.KindStroke {
		t.Fatalf("expected one committed stroke, got %+v", got)
	}
	if len(got[0].Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got[0].Points))
	}
}

func TestSinglePointStrokeDiscarded(t *testing.T) {
	e := newTestEditor()
	e.SetTool(ToolFreehand)
	e.PointerDown(image.Pt(10, 10))
	e.PointerUp(image.Pt(10, 10))
	if got := e.Shapes(); len(got) != 0 {
		t.Fatalf("single tap should leave no mark, got %d shapes", len(got))
	}
	if e.CanUndo() {
		t.Fatal("discarded gesture must not produce a history entry")
	}
}

func TestSubThresholdRectDiscarded(t *testing.T) {
	e := newTestEditor()
	tests := []struct {
		name     string
		from, to image.Point
		commit   bool
	}{
		{"both small", image.Pt(0, 0), image.Pt(2, 2), false},
		{"exactly at threshold", image.Pt(0, 0), image.Pt(5, 5), false},
		{"wide enough", image.Pt(0, 0), image.Pt(6, 2), true},
		{"tall enough dragging up", image.Pt(50, 50), image.Pt(50, 40), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(e.Shapes())
			drawRect(e, tt.from, tt.to)
			after := len(e.Shapes())
			if tt.commit && after != before+1 {
				t.Fatalf("expected rect to commit")
			}
			if !tt.commit && after != before {
				t.Fatalf("expected rect to be discarded")
			}
		})
	}
}

func TestRectDraftKeepsSignedExtent(t *testing.T) {
	e := newTestEditor()
	e.SetTool(ToolRect)
	e.PointerDown(image.Pt(50, 50))
	e.PointerMove(image.Pt(30, 20))
	d := e.Draft()
	if d == nil {
		t.Fatal("expected an active draft")
	}
	if d.W != -20 || d.H != -30 {
		t.Fatalf("draft extent %d,%d; want signed -20,-30", d.W, d.H)
	}
	e.PointerUp(image.Pt(30, 20))
	if e.Draft() != nil {
		t.Fatal("draft must clear after pointer up")
	}
	got := e.Shapes()
	if len(got) != 1 {
		t.Fatalf("expected commit, got %d shapes", len(got))
	}
	if r := got[0].NormalizedRect(); !r.Eq(image.Rect(30, 20, 50, 50)) {
		t.Fatalf("normalized rect %v", r)
	}
}

func TestUndoReversibility(t *testing.T) {
	e := newTestEditor()
	drawStroke(e, image.Pt(0, 0), image.Pt(5, 5))
	mid := e.Shapes()
	drawRect(e, image.Pt(10, 10), image.Pt(40, 40))
	e.Undo()
	got := e.Shapes()
	if len(got) != len(mid) || got[0].ID != mid[0].ID {
		t.Fatalf("undo did not restore prior snapshot: %d shapes", len(got))
	}
	e.Undo()
	if len(e.Shapes()) != 0 {
		t.Fatal("second undo should reach the empty snapshot")
	}
	e.Undo() // bottom of history, no-op
	if len(e.Shapes()) != 0 {
		t.Fatal("undo at the bottom must be a no-op")
	}
}

func TestSelectionToggleAndBackgroundClear(t *testing.T) {
	e := newTestEditor()
	drawRect(e, image.Pt(10, 10), image.Pt(60, 60))
	id := e.Shapes()[0].ID

	e.SetTool(ToolSelect)
	e.PointerDown(image.Pt(30, 30))
	if e.Selection() != id {
		t.Fatalf("selection %q, want %q", e.Selection(), id)
	}
	// Clicking the selected shape again deselects.
	e.PointerDown(image.Pt(30, 30))
	if e.Selection() != "" {
		t.Fatal("second click should deselect")
	}
	e.PointerDown(image.Pt(30, 30))
	// Click on empty background clears.
	e.PointerDown(image.Pt(190, 90))
	if e.Selection() != "" {
		t.Fatal("background click should clear selection")
	}
}

func TestSelectionInvariantOnDelete(t *testing.T) {
	e := newTestEditor()
	drawRect(e, image.Pt(10, 10), image.Pt(60, 60))
	id := e.Shapes()[0].ID
	e.SetTool(ToolSelect)
	e.ClickShape(id)
	e.DeleteSelection()
	if e.Selection() != "" {
		t.Fatal("deleting the selected shape must clear the selection")
	}
	if len(e.Shapes()) != 0 {
		t.Fatal("shape not removed")
	}
	// Delete without a selection is a no-op.
	before := e.CanUndo()
	e.DeleteSelection()
	if e.CanUndo() != before || len(e.Shapes()) != 0 {
		t.Fatal("delete without selection mutated state")
	}
}

func TestUndoClearsSelection(t *testing.T) {
	e := newTestEditor()
	drawRect(e, image.Pt(10, 10), image.Pt(60, 60))
	id := e.Shapes()[0].ID
	e.SetTool(ToolSelect)
	e.ClickShape(id)
	e.Undo()
	if e.Selection() != "" {
		t.Fatal("undo must clear the selection")
	}
}

func TestImageSwitchReset(t *testing.T) {
	e := newTestEditor()
	drawStroke(e, image.Pt(0, 0), image.Pt(5, 5))
	typeLabel(e, image.Pt(50, 50), "note")
	e.SetTool(ToolText)
	e.PointerDown(image.Pt(20, 20)) // leave an overlay open

	e.SetImage(testImage())
	if got := e.Shapes(); len(got) != 0 {
		t.Fatalf("expected empty collection after image switch, got %d", len(got))
	}
	if e.hist.Len() != 1 || e.hist.Cursor() != 0 {
		t.Fatalf("history len=%d cursor=%d, want 1/0", e.hist.Len(), e.hist.Cursor())
	}
	if e.OverlayOpen() {
		t.Fatal("image switch must close the text overlay")
	}
	if e.Selection() != "" {
		t.Fatal("image switch must clear the selection")
	}
}

func TestIdempotentClear(t *testing.T) {
	e := newTestEditor()
	drawStroke(e, image.Pt(0, 0), image.Pt(5, 5))
	e.ClearAll()
	lenAfterFirst := e.hist.Len()
	e.ClearAll()
	if len(e.Shapes()) != 0 {
		t.Fatal("clear-all should leave an empty collection")
	}
	if e.hist.Len() != lenAfterFirst+1 {
		t.Fatalf("second clear must still push a history entry: %d vs %d", e.hist.Len(), lenAfterFirst)
	}
	e.Undo()
	if len(e.Shapes()) != 0 {
		t.Fatal("undoing the second clear yields the first clear's empty collection")
	}
}

func TestDisabledSuppressesGestures(t *testing.T) {
	e := newTestEditor(WithDisabled(true))
	drawStroke(e, image.Pt(0, 0), image.Pt(5, 5))
	drawRect(e, image.Pt(0, 0), image.Pt(50, 50))
	typeLabel(e, image.Pt(10, 10), "nope")
	if len(e.Shapes()) != 0 {
		t.Fatalf("disabled editor committed %d shapes", len(e.Shapes()))
	}
	if e.OverlayOpen() {
		t.Fatal("disabled editor opened the text overlay")
	}
}

func TestNoImageKeepsToolsInert(t *testing.T) {
	e := New(WithHitTester(render.HitTest))
	drawStroke(e, image.Pt(0, 0), image.Pt(5, 5))
	if len(e.Shapes()) != 0 || e.Draft() != nil {
		t.Fatal("drawing without an image must be inert")
	}
}

func TestViewportChangeLeavesDraftAlone(t *testing.T) {
	e := newTestEditor()
	e.SetViewport(400, 400)
	e.SetTool(ToolFreehand)
	e.PointerDown(image.Pt(10, 10))
	e.PointerMove(image.Pt(20, 20))
	e.SetViewport(150, 80)
	d := e.Draft()
	if d == nil || len(d.Points) != 2 {
		t.Fatal("viewport resize disturbed the in-progress draft")
	}
	if e.hist.Len() != 1 {
		t.Fatal("viewport resize touched history")
	}
	e.PointerUp(image.Pt(20, 20))
	if len(e.Shapes()) != 1 {
		t.Fatal("gesture failed to commit after resize")
	}
}

func TestScaleNeverUpscales(t *testing.T) {
	e := newTestEditor()
	e.SetViewport(1000, 1000)
	if s := e.Scale(); s != 1 {
		t.Fatalf("scale %v, want cap at 1", s)
	}
	e.SetViewport(100, 100)
	if s := e.Scale(); s != 0.5 {
		t.Fatalf("scale %v, want 0.5", s)
	}
}

func TestApplyTransformRectClampsMinimum(t *testing.T) {
	e := newTestEditor()
	drawRect(e, image.Pt(10, 10), image.Pt(60, 60))
	id := e.Shapes()[0].ID
	from := e.Shapes()[0].NormalizedRect()

	e.ApplyTransform(id, from, image.Rect(10, 10, 12, 12))
	got := e.Shapes()[0].NormalizedRect()
	if got.Dx() < shape.MinSize || got.Dy() < shape.MinSize {
		t.Fatalf("transform shrank below the minimum: %v", got)
	}
}

func TestApplyTransformMovesLabel(t *testing.T) {
	e := newTestEditor()
	typeLabel(e, image.Pt(50, 50), "Hello")
	id := e.Shapes()[0].ID
	from := image.Rect(50, 50, 90, 70)
	to := from.Add(image.Pt(15, -10))
	e.ApplyTransform(id, from, to)
	got := e.Shapes()[0]
	if got.X != 65 || got.Y != 40 {
		t.Fatalf("label at (%d,%d), want (65,40)", got.X, got.Y)
	}
	if got.FontSize != 16 {
		t.Fatalf("pure move changed font size to %v", got.FontSize)
	}
}

func TestApplyTransformScalesLabelFont(t *testing.T) {
	e := newTestEditor()
	typeLabel(e, image.Pt(50, 50), "Hello")
	id := e.Shapes()[0].ID
	from := image.Rect(50, 50, 90, 70)
	to := image.Rect(50, 50, 130, 90) // doubled height
	e.ApplyTransform(id, from, to)
	if got := e.Shapes()[0].FontSize; got != 32 {
		t.Fatalf("font size %v, want 32", got)
	}
}

func TestHandleDragPreservesRectGeometry(t *testing.T) {
	e := newTestEditor()
	drawRect(e, image.Pt(10, 10), image.Pt(60, 60))
	s := e.Shapes()[0]

	// The interactive shell drags the selection chrome box, which is padded
	// beyond the shape's own rectangle. A pure move of that box must move
	// the shape without adopting the padding.
	bounds := render.SelectionBounds(s)
	to := render.Resize(bounds, render.HandleMove, image.Pt(5, 0))
	e.ApplyTransform(s.ID, bounds, to)

	got := e.Shapes()[0].NormalizedRect()
	if want := image.Rect(15, 10, 65, 60); !got.Eq(want) {
		t.Fatalf("pure move produced %v, want %v", got, want)
	}

	// Repeated moves must not accumulate growth either.
	s = e.Shapes()[0]
	bounds = render.SelectionBounds(s)
	e.ApplyTransform(s.ID, bounds, render.Resize(bounds, render.HandleMove, image.Pt(-5, 0)))
	got = e.Shapes()[0].NormalizedRect()
	if want := image.Rect(10, 10, 60, 60); !got.Eq(want) {
		t.Fatalf("second move produced %v, want %v", got, want)
	}
}

func TestHandleDragResizesOnlyDraggedEdge(t *testing.T) {
	e := newTestEditor()
	drawRect(e, image.Pt(10, 10), image.Pt(60, 60))
	s := e.Shapes()[0]

	bounds := render.SelectionBounds(s)
	to := render.Resize(bounds, render.HandleR, image.Pt(20, 0))
	e.ApplyTransform(s.ID, bounds, to)

	got := e.Shapes()[0].NormalizedRect()
	if want := image.Rect(10, 10, 80, 60); !got.Eq(want) {
		t.Fatalf("right-edge drag produced %v, want %v", got, want)
	}
}

func TestApplyTransformNoChangeNoHistory(t *testing.T) {
	e := newTestEditor()
	drawRect(e, image.Pt(10, 10), image.Pt(60, 60))
	id := e.Shapes()[0].ID
	from := e.Shapes()[0].NormalizedRect()
	before := e.hist.Len()
	e.ApplyTransform(id, from, from)
	if e.hist.Len() != before {
		t.Fatal("no-op transform recorded a history entry")
	}
}

func TestStrokeNotTransformable(t *testing.T) {
	e := newTestEditor()
	drawStroke(e, image.Pt(0, 0), image.Pt(10, 10))
	id := e.Shapes()[0].ID
	before := e.Shapes()[0]
	e.ApplyTransform(id, image.Rect(0, 0, 10, 10), image.Rect(50, 50, 80, 80))
	after := e.Shapes()[0]
	if after.Points[0] != before.Points[0] {
		t.Fatal("stroke moved by transform")
	}
}

func TestAnnotationsSignalCrossings(t *testing.T) {
	var calls []bool
	e := newTestEditor(WithAnnotationsListener(func(has bool) { calls = append(calls, has) }))
	drawStroke(e, image.Pt(0, 0), image.Pt(5, 5))
	drawRect(e, image.Pt(10, 10), image.Pt(60, 60)) // still non-empty, no crossing
	e.ClearAll()
	if len(calls) != 2 || calls[0] != true || calls[1] != false {
		t.Fatalf("listener calls %v, want [true false]", calls)
	}
}

// The concrete end-to-end scenario from the product brief: stroke commits,
// micro rect is discarded, a label lands at its anchor, and two undos walk
// back to empty.
func TestScenarioStrokeRectLabelUndo(t *testing.T) {
	e := newTestEditor()
	drawStroke(e, image.Pt(10, 10), image.Pt(10, 12))
	drawRect(e, image.Pt(0, 0), image.Pt(2, 2))
	typeLabel(e, image.Pt(50, 50), "Hello")

	got := e.Shapes()
	if len(got) != 2 {
		t.Fatalf("expected stroke + label, got %d shapes", len(got))
	}
	if got[0].Kind != shape.KindStroke {
		t.Fatalf("first shape %v, want stroke", got[0].Kind)
	}
	if got[1].Kind != shape.KindLabel || got[1].Text != "Hello" || got[1].X != 50 || got[1].Y != 50 {
		t.Fatalf("label %+v", got[1])
	}

	e.Undo()
	got = e.Shapes()
	if len(got) != 1 || got[0].Kind != shape.KindStroke {
		t.Fatalf("after undo expected only the stroke, got %d shapes", len(got))
	}
	e.Undo()
	if len(e.Shapes()) != 0 {
		t.Fatal("after second undo expected empty collection")
	}
	if e.hist.Cursor() != 0 {
		t.Fatalf("cursor %d, want 0", e.hist.Cursor())
	}
}
