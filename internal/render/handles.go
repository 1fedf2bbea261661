package render

import (
	"image"

	"github.com/example/overmark/internal/shape"
)

const handleSize = 8

// Handle identifies one grab point of the transform chrome around the
// selected shape, or a move of the whole shape.
type Handle int

const (
	HandleNone Handle = iota
	HandleMove
	HandleTL
	HandleT
	HandleTR
	HandleR
	HandleBR
	HandleB
	HandleBL
	HandleL
)

// HandleRects returns the eight resize grab rectangles around bounds, in the
// order HandleTL through HandleL.
func HandleRects(rect image.Rectangle) []image.Rectangle {
	hs := handleSize / 2
	cx := (rect.Min.X + rect.Max.X) / 2
	cy := (rect.Min.Y + rect.Max.Y) / 2
	return []image.Rectangle{
		image.Rect(rect.Min.X-hs, rect.Min.Y-hs, rect.Min.X+hs, rect.Min.Y+hs), // tl
		image.Rect(cx-hs, rect.Min.Y-hs, cx+hs, rect.Min.Y+hs),                 // t
		image.Rect(rect.Max.X-hs, rect.Min.Y-hs, rect.Max.X+hs, rect.Min.Y+hs), // tr
		image.Rect(rect.Max.X-hs, cy-hs, rect.Max.X+hs, cy+hs),                 // r
		image.Rect(rect.Max.X-hs, rect.Max.Y-hs, rect.Max.X+hs, rect.Max.Y+hs), // br
		image.Rect(cx-hs, rect.Max.Y-hs, cx+hs, rect.Max.Y+hs),                 // b
		image.Rect(rect.Min.X-hs, rect.Max.Y-hs, rect.Min.X+hs, rect.Max.Y+hs), // bl
		image.Rect(rect.Min.X-hs, cy-hs, rect.Min.X+hs, cy+hs),                 // l
	}
}

// HandleAt returns the handle under p for the given bounds: one of the eight
// resize handles, HandleMove inside the bounds, or HandleNone.
func HandleAt(rect image.Rectangle, p image.Point) Handle {
	for i, hr := range HandleRects(rect) {
		if p.In(hr) {
			return Handle(i + int(HandleTL))
		}
	}
	if p.In(rect) {
		return HandleMove
	}
	return HandleNone
}

// Resize applies a drag delta to one handle of the starting bounds. The
// result is canonical, and each dimension clamps at shape.MinSize: a drag
// that would shrink an axis below the minimum pins that axis rather than
// rejecting the gesture.
func Resize(start image.Rectangle, h Handle, delta image.Point) image.Rectangle {
	r := start
	switch h {
	case HandleMove:
		return start.Add(delta)
	case HandleTL:
		r.Min.X += delta.X
		r.Min.Y += delta.Y
	case HandleT:
		r.Min.Y += delta.Y
	case HandleTR:
		r.Min.Y += delta.Y
		r.Max.X += delta.X
	case HandleR:
		r.Max.X += delta.X
	case HandleBR:
		r.Max.X += delta.X
		r.Max.Y += delta.Y
	case HandleB:
		r.Max.Y += delta.Y
	case HandleBL:
		r.Min.X += delta.X
		r.Max.Y += delta.Y
	case HandleL:
		r.Min.X += delta.X
	default:
		return start
	}
	r = r.Canon()
	if r.Dx() < shape.MinSize {
		if movesMinX(h) {
			r.Min.X = r.Max.X - shape.MinSize
		} else {
			r.Max.X = r.Min.X + shape.MinSize
		}
	}
	if r.Dy() < shape.MinSize {
		if movesMinY(h) {
			r.Min.Y = r.Max.Y - shape.MinSize
		} else {
			r.Max.Y = r.Min.Y + shape.MinSize
		}
	}
	return r
}

func movesMinX(h Handle) bool { return h == HandleTL || h == HandleBL || h == HandleL }
func movesMinY(h Handle) bool { return h == HandleTL || h == HandleT || h == HandleTR }
