package shape

import (
	"image"
	"image/color"

	"github.com/google/uuid"
)

// MinSize is the smallest useful extent of a transformable shape in image
// pixels. Rectangle drags under this size on both axes are discarded, and
// transform-handle resizes clamp to it.
const MinSize = 5

// Kind discriminates the annotation shape variants. The set is closed; code
// that renders or mutates shapes switches exhaustively on it.
type Kind int

const (
	KindStroke Kind = iota
	KindRect
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindStroke:
		return "stroke"
	case KindRect:
		return "rect"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Shape is a single annotation placed over the background image. Which fields
// are meaningful depends on Kind:
//
//   - KindStroke: Points (at least one), Color, StrokeWidth.
//   - KindRect: X, Y, W, H, Color, StrokeWidth. W and H stay signed while a
//     drag is in flight; use NormalizedRect at render and hit-test time.
//   - KindLabel: X, Y, Text, FontSize, Color.
//
// Every shape carries a unique identifier assigned at creation and never
// reused. Identifiers correlate hit-test results and selection with shapes.
type Shape struct {
	ID   string
	Kind Kind

	Points []image.Point

	X, Y, W, H int

	Text     string
	FontSize float64

	Color       color.RGBA
	StrokeWidth int
}

// NewStroke creates a freehand stroke seeded with a single point.
func NewStroke(start image.Point, col color.RGBA, width int) Shape {
	return Shape{
		ID:          uuid.NewString(),
		Kind:        KindStroke,
		Points:      []image.Point{start},
		Color:       col,
		StrokeWidth: width,
	}
}

// NewRect creates a rectangle anchored at (x, y) with zero size.
func NewRect(x, y int, col color.RGBA, width int) Shape {
	return Shape{
		ID:          uuid.NewString(),
		Kind:        KindRect,
		X:           x,
		Y:           y,
		Color:       col,
		StrokeWidth: width,
	}
}

// NewLabel creates a text label anchored at (x, y).
func NewLabel(x, y int, text string, size float64, col color.RGBA) Shape {
	return Shape{
		ID:       uuid.NewString(),
		Kind:     KindLabel,
		X:        x,
		Y:        y,
		Text:     text,
		FontSize: size,
		Color:    col,
	}
}

// Clone returns a deep copy of the shape. The copy keeps the same ID; it is
// still the same annotation, only detached from shared backing storage.
func (s Shape) Clone() Shape {
	out := s
	if s.Points != nil {
		out.Points = make([]image.Point, len(s.Points))
		copy(out.Points, s.Points)
	}
	return out
}

// NormalizedRect returns the rectangle with non-negative width and height.
// Only meaningful for KindRect.
func (s Shape) NormalizedRect() image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+s.W, s.Y+s.H).Canon()
}

// Bounds returns the axis-aligned bounding box of the shape, padded by the
// stroke width where one applies. Labels report a degenerate box at their
// anchor; measuring the rendered glyph box needs a font face and is the
// render layer's job.
func (s Shape) Bounds() image.Rectangle {
	switch s.Kind {
	case KindStroke:
		if len(s.Points) == 0 {
			return image.Rectangle{}
		}
		r := image.Rectangle{Min: s.Points[0], Max: s.Points[0].Add(image.Pt(1, 1))}
		for _, p := range s.Points[1:] {
			r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
		}
		pad := s.StrokeWidth/2 + 1
		return r.Inset(-pad)
	case KindRect:
		return s.NormalizedRect().Inset(-(s.StrokeWidth/2 + 1))
	case KindLabel:
		return image.Rect(s.X, s.Y, s.X+1, s.Y+1)
	default:
		return image.Rectangle{}
	}
}

// List is an ordered collection of committed shapes. Insertion order is
// paint order.
type List []Shape

// Clone deep-copies the list so history snapshots never share point storage.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, s := range l {
		out[i] = s.Clone()
	}
	return out
}

// Index returns the position of the shape with the given id, or -1.
func (l List) Index(id string) int {
	for i, s := range l {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the shape with the given id.
func (l List) Find(id string) (Shape, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return Shape{}, false
}

// Remove returns a copy of the list without the shape carrying id. The
// receiver is left untouched so history entries stay immutable.
func (l List) Remove(id string) List {
	i := l.Index(id)
	if i < 0 {
		return l.Clone()
	}
	out := make(List, 0, len(l)-1)
	for j, s := range l {
		if j == i {
			continue
		}
		out = append(out, s.Clone())
	}
	return out
}
