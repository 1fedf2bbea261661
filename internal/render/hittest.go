package render

import (
	"image"

	"github.com/example/overmark/internal/shape"
)

// strokeTolerance is the minimum pick distance around a stroke's polyline in
// image pixels, regardless of how thin the stroke is.
const strokeTolerance = 4

// HitTest maps a point in image coordinates to the identifier of the topmost
// shape under it. Shapes later in the list paint later and therefore win.
func HitTest(shapes shape.List, p image.Point) (string, bool) {
	for i := len(shapes) - 1; i >= 0; i-- {
		if hitShape(shapes[i], p) {
			return shapes[i].ID, true
		}
	}
	return "", false
}

func hitShape(s shape.Shape, p image.Point) bool {
	switch s.Kind {
	case shape.KindStroke:
		tol := s.StrokeWidth / 2
		if tol < strokeTolerance {
			tol = strokeTolerance
		}
		return pointNearPolyline(s.Points, p, tol)
	case shape.KindRect:
		pad := s.StrokeWidth/2 + 2
		return p.In(s.NormalizedRect().Inset(-pad))
	case shape.KindLabel:
		return p.In(LabelBounds(s))
	default:
		return false
	}
}

func pointNearPolyline(pts []image.Point, p image.Point, tol int) bool {
	if len(pts) == 0 {
		return false
	}
	tol2 := tol * tol
	if len(pts) == 1 {
		return distSq(pts[0], p) <= tol2
	}
	for i := 1; i < len(pts); i++ {
		if distSqToSegment(pts[i-1], pts[i], p) <= tol2 {
			return true
		}
	}
	return false
}

func distSq(a, b image.Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// distSqToSegment returns the squared distance from p to the segment ab,
// computed with the projection clamped to the segment.
func distSqToSegment(a, b, p image.Point) int {
	abx := b.X - a.X
	aby := b.Y - a.Y
	apx := p.X - a.X
	apy := p.Y - a.Y
	den := abx*abx + aby*aby
	if den == 0 {
		return distSq(a, p)
	}
	t := float64(apx*abx+apy*aby) / float64(den)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := float64(a.X) + t*float64(abx)
	cy := float64(a.Y) + t*float64(aby)
	dx := float64(p.X) - cx
	dy := float64(p.Y) - cy
	return int(dx*dx + dy*dy)
}
