// Package editor holds the annotation core: the per-gesture tool state
// machine, the committed shape collection with its undo history, single-shape
// selection, and the text-entry overlay lifecycle. It owns no rendering;
// hit-testing and transform-handle geometry are capabilities injected from
// the render layer.
package editor

import (
	"image"
	"image/color"
	"sync"

	"github.com/example/overmark/internal/fit"
	"github.com/example/overmark/internal/history"
	"github.com/example/overmark/internal/shape"
)

// Tool selects how pointer gestures are interpreted. Exactly one tool is
// active at a time.
type Tool int

const (
	ToolSelect Tool = iota
	ToolFreehand
	ToolRect
	ToolText
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolFreehand:
		return "freehand"
	case ToolRect:
		return "rect"
	case ToolText:
		return "text"
	default:
		return "unknown"
	}
}

// HitTester maps a point in image coordinates to the identifier of the
// topmost shape under it.
type HitTester func(shape.List, image.Point) (string, bool)

// Editor is the annotation core. Mutating methods are serialized by an
// internal mutex so the overlay timers, which fire on their own goroutines,
// stay ordered with the event loop.
type Editor struct {
	mu sync.Mutex

	img          *image.RGBA
	viewW, viewH int

	tool     Tool
	disabled bool

	color       color.RGBA
	strokeWidth int
	fontSize    float64

	shapes    shape.List
	draft     *shape.Shape
	hist      *history.History
	selection string

	hitTest HitTester

	hasAnnotations bool
	annotationsFn  func(bool)

	overlay overlayState
	sched   Scheduler
	focusFn func()
}

// Option modifies an Editor during creation.
type Option func(*Editor)

// WithImage sets the initial background image.
func WithImage(img *image.RGBA) Option { return func(e *Editor) { e.img = img } }

// WithTool sets the initially active tool.
func WithTool(t Tool) Option { return func(e *Editor) { e.tool = t } }

// WithColor sets the drawing color for new shapes.
func WithColor(c color.RGBA) Option { return func(e *Editor) { e.color = c } }

// WithStrokeWidth sets the stroke width for new strokes and rectangles.
func WithStrokeWidth(w int) Option { return func(e *Editor) { e.strokeWidth = w } }

// WithFontSize sets the point size for new labels.
func WithFontSize(s float64) Option { return func(e *Editor) { e.fontSize = s } }

// WithHitTester injects the render layer's point-to-shape lookup.
func WithHitTester(fn HitTester) Option { return func(e *Editor) { e.hitTest = fn } }

// WithAnnotationsListener registers a callback invoked when the committed
// collection crosses between empty and non-empty.
func WithAnnotationsListener(fn func(bool)) Option { return func(e *Editor) { e.annotationsFn = fn } }

// WithFocusListener registers a callback invoked once the text overlay is
// ready to take keyboard focus.
func WithFocusListener(fn func()) Option { return func(e *Editor) { e.focusFn = fn } }

// WithScheduler replaces the timer scheduler used by the overlay lifecycle.
// Tests substitute a manual scheduler to fire timers deterministically.
func WithScheduler(s Scheduler) Option { return func(e *Editor) { e.sched = s } }

// WithDisabled starts the editor with all mutating interactions suppressed.
func WithDisabled(disabled bool) Option { return func(e *Editor) { e.disabled = disabled } }

// New creates an Editor with the provided options.
func New(opts ...Option) *Editor {
	e := &Editor{
		tool:        ToolFreehand,
		color:       color.RGBA{255, 0, 0, 255},
		strokeWidth: 2,
		fontSize:    16,
		hist:        history.New(),
		sched:       timerScheduler{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetTool switches the active tool. Any in-flight draft is discarded and an
// open text overlay is cancelled; committed shapes are untouched.
func (e *Editor) SetTool(t Tool) {
	e.mu.Lock()
	e.tool = t
	e.draft = nil
	e.closeOverlayLocked()
	e.mu.Unlock()
}

// Disabled reports whether mutating interactions are suppressed.
func (e *Editor) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

// SetDisabled toggles the gate that suppresses all gesture-start transitions
// and keyboard mutations.
func (e *Editor) SetDisabled(disabled bool) {
	e.mu.Lock()
	e.disabled = disabled
	if disabled {
		e.draft = nil
	}
	e.mu.Unlock()
}

// SetColor sets the drawing color for subsequently created shapes.
func (e *Editor) SetColor(c color.RGBA) {
	e.mu.Lock()
	e.color = c
	e.mu.Unlock()
}

// Color returns the current drawing color.
func (e *Editor) Color() color.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.color
}

// SetStrokeWidth sets the width for subsequently created strokes and rects.
func (e *Editor) SetStrokeWidth(w int) {
	if w < 1 {
		w = 1
	}
	e.mu.Lock()
	e.strokeWidth = w
	e.mu.Unlock()
}

// StrokeWidth returns the current stroke width.
func (e *Editor) StrokeWidth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strokeWidth
}

// SetFontSize sets the point size for subsequently created labels.
func (e *Editor) SetFontSize(s float64) {
	e.mu.Lock()
	e.fontSize = s
	e.mu.Unlock()
}

// FontSize returns the current label point size.
func (e *Editor) FontSize() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fontSize
}

// Image returns the current background image, nil when none is mounted.
func (e *Editor) Image() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.img
}

// SetImage mounts a new background image and performs the full reset:
// in-flight draft cancelled, text overlay closed with its timers
// invalidated, selection cleared, history back to a single empty entry.
// Annotations never carry across images. Passing nil leaves the editor in
// the "no image" state where all drawing tools are inert.
func (e *Editor) SetImage(img *image.RGBA) {
	e.mu.Lock()
	e.img = img
	e.draft = nil
	e.selection = ""
	e.shapes = nil
	e.hist.Reset()
	e.closeOverlayLocked()
	changed, has, fn := e.refreshAnnotationsLocked()
	e.mu.Unlock()
	if changed && fn != nil {
		fn(has)
	}
}

// SetViewport records the available display area. It feeds only the
// scale-to-fit computation; drafts, history, and the overlay are untouched.
func (e *Editor) SetViewport(w, h int) {
	e.mu.Lock()
	e.viewW = w
	e.viewH = h
	e.mu.Unlock()
}

// Scale returns the current non-upscaling fit factor for the mounted image.
func (e *Editor) Scale() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.img == nil {
		return 0
	}
	b := e.img.Bounds()
	return fit.Scale(b.Dx(), b.Dy(), e.viewW, e.viewH)
}

// DisplaySize returns the displayed dimensions of the mounted image.
func (e *Editor) DisplaySize() (w, h int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.img == nil {
		return 0, 0
	}
	b := e.img.Bounds()
	return fit.Size(b.Dx(), b.Dy(), e.viewW, e.viewH)
}

// Shapes returns a copy of the committed shape collection in paint order.
func (e *Editor) Shapes() shape.List {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shapes.Clone()
}

// Draft returns a copy of the shape under construction, or nil outside a
// gesture. Used for live preview; the draft is never part of the committed
// collection.
func (e *Editor) Draft() *shape.Shape {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return nil
	}
	d := e.draft.Clone()
	return &d
}

// Selection returns the selected shape id, empty when nothing is selected.
func (e *Editor) Selection() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

// HasAnnotations reports whether the committed collection is non-empty.
func (e *Editor) HasAnnotations() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.shapes) > 0
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanUndo()
}

// PointerDown starts a gesture at p in image coordinates. The transition
// depends on the active tool; it is suppressed entirely while disabled or
// without a mounted image.
func (e *Editor) PointerDown(p image.Point) {
	e.mu.Lock()
	if e.disabled || e.img == nil {
		e.mu.Unlock()
		return
	}
	switch e.tool {
	case ToolSelect:
		if e.hitTest != nil {
			if id, ok := e.hitTest(e.shapes, p); ok {
				e.clickShapeLocked(id)
				e.mu.Unlock()
				return
			}
		}
		e.selection = ""
	case ToolFreehand:
		e.selection = ""
		d := shape.NewStroke(p, e.color, e.strokeWidth)
		e.draft = &d
	case ToolRect:
		e.selection = ""
		d := shape.NewRect(p.X, p.Y, e.color, e.strokeWidth)
		e.draft = &d
	case ToolText:
		e.selection = ""
		e.openOverlayLocked(p)
		changed, has, fn := e.refreshAnnotationsLocked()
		e.mu.Unlock()
		if changed && fn != nil {
			fn(has)
		}
		return
	}
	e.mu.Unlock()
}

// PointerMove extends the in-flight gesture: strokes append the point,
// rectangles recompute their signed extent from the origin.
func (e *Editor) PointerMove(p image.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updateDraftLocked(p)
}

func (e *Editor) updateDraftLocked(p image.Point) {
	if e.draft == nil {
		return
	}
	switch e.draft.Kind {
	case shape.KindStroke:
		last := e.draft.Points[len(e.draft.Points)-1]
		if last != p {
			e.draft.Points = append(e.draft.Points, p)
		}
	case shape.KindRect:
		e.draft.W = p.X - e.draft.X
		e.draft.H = p.Y - e.draft.Y
	}
}

// PointerUp ends the gesture. The draft commits if it passes its commit
// predicate (more than one point for a stroke, an extent over shape.MinSize
// on either axis for a rectangle) and is discarded silently otherwise.
func (e *Editor) PointerUp(p image.Point) {
	e.mu.Lock()
	if e.draft == nil {
		e.mu.Unlock()
		return
	}
	e.updateDraftLocked(p)
	d := *e.draft
	e.draft = nil
	if !commitPredicate(d) {
		e.mu.Unlock()
		return
	}
	e.commitLocked(append(e.shapes.Clone(), d))
	changed, has, fn := e.refreshAnnotationsLocked()
	e.mu.Unlock()
	if changed && fn != nil {
		fn(has)
	}
}

func commitPredicate(s shape.Shape) bool {
	switch s.Kind {
	case shape.KindStroke:
		return len(s.Points) > 1
	case shape.KindRect:
		return abs(s.W) > shape.MinSize || abs(s.H) > shape.MinSize
	default:
		return false
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// commitLocked replaces the committed collection and records a history
// snapshot atomically.
func (e *Editor) commitLocked(l shape.List) {
	e.shapes = l
	e.hist.Push(e.shapes)
}

// ClickShape toggles selection of the shape with the given id. Only
// meaningful in the select tool; clicking the already-selected shape
// deselects it. Ids not present in the committed collection are ignored.
func (e *Editor) ClickShape(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disabled || e.tool != ToolSelect {
		return
	}
	e.clickShapeLocked(id)
}

func (e *Editor) clickShapeLocked(id string) {
	if e.shapes.Index(id) < 0 {
		return
	}
	if e.selection == id {
		e.selection = ""
		return
	}
	e.selection = id
}

// ClearSelection unsets the selection, if any.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	e.selection = ""
	e.mu.Unlock()
}

// DeleteSelection removes the selected shape from the committed collection,
// records a history snapshot, and clears the selection. Without a selection
// it is a no-op.
func (e *Editor) DeleteSelection() {
	e.mu.Lock()
	if e.disabled || e.selection == "" {
		e.mu.Unlock()
		return
	}
	e.commitLocked(e.shapes.Remove(e.selection))
	e.selection = ""
	changed, has, fn := e.refreshAnnotationsLocked()
	e.mu.Unlock()
	if changed && fn != nil {
		fn(has)
	}
}

// ApplyTransform applies a completed transform-handle gesture that dragged
// the selection box from bounds `from` to bounds `to`. The per-edge deltas
// of that drag land on the shape's own geometry, so the chrome padding
// around the box never leaks into the shape. Rect axes clamp at
// shape.MinSize. Labels move with the box origin and scale their font size
// with the height ratio. Strokes are not transformable and are left
// untouched. A gesture that changes nothing records no history entry.
func (e *Editor) ApplyTransform(id string, from, to image.Rectangle) {
	e.mu.Lock()
	if e.disabled {
		e.mu.Unlock()
		return
	}
	i := e.shapes.Index(id)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	next := e.shapes.Clone()
	s := &next[i]
	switch s.Kind {
	case shape.KindRect:
		r := s.NormalizedRect()
		r.Min = r.Min.Add(to.Min.Sub(from.Min))
		r.Max = r.Max.Add(to.Max.Sub(from.Max))
		r = r.Canon()
		if r.Dx() < shape.MinSize {
			r.Max.X = r.Min.X + shape.MinSize
		}
		if r.Dy() < shape.MinSize {
			r.Max.Y = r.Min.Y + shape.MinSize
		}
		s.X, s.Y = r.Min.X, r.Min.Y
		s.W, s.H = r.Dx(), r.Dy()
	case shape.KindLabel:
		s.X += to.Min.X - from.Min.X
		s.Y += to.Min.Y - from.Min.Y
		if from.Dy() > 0 && to.Dy() != from.Dy() {
			size := s.FontSize * float64(to.Dy()) / float64(from.Dy())
			if size < 6 {
				size = 6
			}
			s.FontSize = size
		}
	default:
		e.mu.Unlock()
		return
	}
	if shapesEqual(e.shapes[i], next[i]) {
		e.mu.Unlock()
		return
	}
	e.commitLocked(next)
	e.mu.Unlock()
}

func shapesEqual(a, b shape.Shape) bool {
	if a.X != b.X || a.Y != b.Y || a.W != b.W || a.H != b.H || a.FontSize != b.FontSize {
		return false
	}
	return true
}

// Undo steps the committed collection back one history entry. At the bottom
// of history it is a no-op. The selection is cleared because the shape it
// referenced may no longer exist.
func (e *Editor) Undo() {
	e.mu.Lock()
	if e.disabled {
		e.mu.Unlock()
		return
	}
	l, ok := e.hist.Undo()
	if !ok {
		e.mu.Unlock()
		return
	}
	e.shapes = l
	e.selection = ""
	changed, has, fn := e.refreshAnnotationsLocked()
	e.mu.Unlock()
	if changed && fn != nil {
		fn(has)
	}
}

// ClearAll commits an empty collection. It is itself a history-producing
// operation, so clearing remains undoable.
func (e *Editor) ClearAll() {
	e.mu.Lock()
	if e.disabled {
		e.mu.Unlock()
		return
	}
	e.commitLocked(shape.List{})
	e.selection = ""
	changed, has, fn := e.refreshAnnotationsLocked()
	e.mu.Unlock()
	if changed && fn != nil {
		fn(has)
	}
}

// Escape cancels the open text overlay if there is one, otherwise it clears
// the selection.
func (e *Editor) Escape() {
	e.mu.Lock()
	if e.overlay.open {
		e.closeOverlayLocked()
		e.mu.Unlock()
		return
	}
	e.selection = ""
	e.mu.Unlock()
}

// refreshAnnotationsLocked recomputes the has-annotations signal and returns
// whether it crossed, its new value, and the listener to invoke after the
// lock is released.
func (e *Editor) refreshAnnotationsLocked() (changed, has bool, fn func(bool)) {
	has = len(e.shapes) > 0
	changed = has != e.hasAnnotations
	e.hasAnnotations = has
	return changed, has, e.annotationsFn
}
