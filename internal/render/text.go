package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextSizes lists the point sizes offered for labels.
var TextSizes = []float64{12, 16, 20, 24, 32}

var (
	labelFont  *opentype.Font
	labelFaces map[float64]font.Face
	extraFaces sync.Map // map[float64]font.Face
)

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	labelFont = f
	labelFaces = make(map[float64]font.Face, len(TextSizes))
	for _, sz := range TextSizes {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sz, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Fatalf("font face: %v", err)
		}
		labelFaces[sz] = face
	}
}

// DefaultTextSize returns the smallest configured label size.
func DefaultTextSize() float64 { return TextSizes[0] }

func faceForSize(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultTextSize()
	}
	for sz, face := range labelFaces {
		if math.Abs(sz-size) < 0.01 {
			return face, nil
		}
	}
	if labelFont == nil {
		return nil, fmt.Errorf("label font not initialised")
	}
	if face, ok := extraFaces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(labelFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	extraFaces.Store(size, face)
	return face, nil
}

// MeasureText returns the bounding box dimensions of text at the given size
// and the offset from the top to the baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	return width, ascent + descent, ascent, nil
}

// DrawText renders text with its top-left corner at p. The UI uses it for
// the in-progress text overlay, which is not part of the shape list yet.
func DrawText(img *image.RGBA, p image.Point, text string, col color.Color, size float64) error {
	return drawText(img, p.X, p.Y, text, col, size)
}

// drawText renders text with its top-left corner at (x, y).
func drawText(img *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := faceForSize(size)
	if err != nil {
		return err
	}
	baseline := y + face.Metrics().Ascent.Ceil()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	drawer.DrawString(text)
	return nil
}
