// Package render flattens the background image and annotation shapes into
// raster output. It also supplies the geometric capabilities the editor core
// delegates to: hit-testing from a point to a shape identifier and the
// transform-handle arithmetic for resizing.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	xdraw "golang.org/x/image/draw"

	"github.com/example/overmark/internal/shape"
)

// ExportScale is the fixed pixel-density multiplier applied on export.
const ExportScale = 2

var selectionAccent = color.RGBA{0, 120, 255, 255}

// Paint composes the scene into dst at image resolution: background first,
// then committed shapes in insertion order, then the draft under
// construction, then selection chrome. Pass nil for draft or an empty
// selection id when they do not apply.
func Paint(dst *image.RGBA, bg image.Image, shapes shape.List, draft *shape.Shape, selectedID string) {
	if bg != nil {
		draw.Draw(dst, dst.Bounds(), bg, bg.Bounds().Min, draw.Src)
	}
	for _, s := range shapes {
		paintShape(dst, s)
	}
	if draft != nil {
		paintShape(dst, *draft)
	}
	if selectedID != "" {
		if s, ok := shapes.Find(selectedID); ok {
			paintSelection(dst, s)
		}
	}
}

func paintShape(dst *image.RGBA, s shape.Shape) {
	switch s.Kind {
	case shape.KindStroke:
		drawPolyline(dst, s.Points, s.Color, s.StrokeWidth)
	case shape.KindRect:
		drawRectOutline(dst, s.NormalizedRect(), s.Color, s.StrokeWidth)
	case shape.KindLabel:
		if err := drawText(dst, s.X, s.Y, s.Text, s.Color, s.FontSize); err != nil {
			// A label that fails to rasterise is cosmetic; the shape stays
			// committed either way.
			log.Printf("render label: %v", err)
		}
	}
}

func paintSelection(dst *image.RGBA, s shape.Shape) {
	b := SelectionBounds(s)
	drawDashedRect(dst, b, 4, 1, color.White, color.Black)
	if Transformable(s) {
		for _, hr := range HandleRects(b) {
			draw.Draw(dst, hr, &image.Uniform{color.White}, image.Point{}, draw.Src)
			drawRectOutline(dst, hr, color.Black, 1)
		}
	}
}

// PaintTransformPreview draws the dashed outline shown while a handle drag
// is in progress, before the transform is applied.
func PaintTransformPreview(dst *image.RGBA, r image.Rectangle) {
	drawDashedRect(dst, r, 4, 1, color.White, selectionAccent)
}

// SelectionBounds returns the box the selection chrome is drawn around,
// using the rendered glyph box for labels.
func SelectionBounds(s shape.Shape) image.Rectangle {
	if s.Kind == shape.KindLabel {
		return LabelBounds(s)
	}
	return s.Bounds()
}

// LabelBounds measures the rendered glyph box of a label.
func LabelBounds(s shape.Shape) image.Rectangle {
	w, h, _, err := MeasureText(s.Text, s.FontSize)
	if err != nil {
		return image.Rect(s.X, s.Y, s.X+1, s.Y+1)
	}
	return image.Rect(s.X, s.Y, s.X+w, s.Y+h)
}

// Transformable reports whether the external transform handle may resize the
// shape. Strokes are selectable for deletion but keep their recorded path.
func Transformable(s shape.Shape) bool {
	return s.Kind == shape.KindRect || s.Kind == shape.KindLabel
}

// Export flattens background plus committed shapes into a raster image at
// ExportScale density. Draft shapes and selection chrome are excluded. It
// returns nil when no background is mounted.
func Export(bg image.Image, shapes shape.List) *image.RGBA {
	if bg == nil {
		return nil
	}
	b := bg.Bounds()
	if b.Empty() {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*ExportScale, b.Dy()*ExportScale))
	xdraw.CatmullRom.Scale(out, out.Bounds(), bg, b, draw.Src, nil)
	for _, s := range shapes {
		paintShape(out, scaleShape(s, ExportScale))
	}
	return out
}

func scaleShape(s shape.Shape, factor int) shape.Shape {
	out := s.Clone()
	out.X *= factor
	out.Y *= factor
	out.W *= factor
	out.H *= factor
	if out.StrokeWidth > 0 {
		out.StrokeWidth *= factor
	}
	if out.FontSize > 0 {
		out.FontSize *= float64(factor)
	}
	for i, p := range out.Points {
		out.Points[i] = image.Pt(p.X*factor, p.Y*factor)
	}
	return out
}
