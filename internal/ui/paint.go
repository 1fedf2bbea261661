package ui

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"

	"github.com/example/overmark/internal/editor"
	"github.com/example/overmark/internal/render"
	"github.com/example/overmark/internal/shape"
	"github.com/example/overmark/internal/theme"
)

type toolButton struct {
	label string
	tool  editor.Tool
	rect  image.Rectangle
}

func toolButtons() []toolButton {
	labels := []struct {
		label string
		tool  editor.Tool
	}{
		{"S:Select", editor.ToolSelect},
		{"D:Draw", editor.ToolFreehand},
		{"R:Rect", editor.ToolRect},
		{"T:Text", editor.ToolText},
	}
	d := &font.Drawer{Face: basicfont.Face7x13}
	buttons := make([]toolButton, 0, len(labels))
	x := 4
	for _, l := range labels {
		w := d.MeasureString(l.label).Ceil() + 12
		buttons = append(buttons, toolButton{
			label: l.label,
			tool:  l.tool,
			rect:  image.Rect(x, 3, x+w, toolbarHeight-3),
		})
		x += w + 4
	}
	return buttons
}

func minWindowWidth() int {
	buttons := toolButtons()
	if len(buttons) == 0 {
		return 0
	}
	return buttons[len(buttons)-1].rect.Max.X + 4
}

func newPaintContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}

type paintState struct {
	width, height int
	bg            *image.RGBA
	shapes        shape.List
	draft         *shape.Shape
	selection     string
	scale         float64
	tool          editor.Tool
	overlayOpen   bool
	overlayText   string
	overlayPos    image.Point
	fontSize      float64
	color         color.RGBA
	dragRect      image.Rectangle
	dragging      bool
	message       string
	messageUntil  time.Time
	buttons       []toolButton
	hoverTool     int
	theme         *theme.Theme
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	drawCheckerboard(b.RGBA(), b.RGBA().Bounds(), 16, st.theme.CheckerLight, st.theme.CheckerDark)
	if ctx.Err() != nil {
		return
	}

	if st.bg != nil && st.scale > 0 {
		frame := image.NewRGBA(st.bg.Bounds())
		render.Paint(frame, st.bg, st.shapes, st.draft, st.selection)
		if st.dragging {
			render.PaintTransformPreview(frame, st.dragRect)
		}
		if st.overlayOpen {
			if err := render.DrawText(frame, st.overlayPos, st.overlayText+"|", st.color, st.fontSize); err != nil {
				log.Printf("overlay text: %v", err)
			}
		}
		if ctx.Err() != nil {
			return
		}
		dw := int(float64(frame.Bounds().Dx()) * st.scale)
		dh := int(float64(frame.Bounds().Dy()) * st.scale)
		dst := image.Rect(0, toolbarHeight, dw, toolbarHeight+dh)
		xdraw.NearestNeighbor.Scale(b.RGBA(), dst, frame, frame.Bounds(), draw.Over, nil)
	}
	if ctx.Err() != nil {
		return
	}

	drawToolbar(b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(b.RGBA(), st.width, st.height, st.message)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			c := light
			if ((x/size)+(y/size))%2 == 1 {
				c = dark
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, cell, &image.Uniform{c}, image.Point{}, draw.Src)
		}
	}
}

func drawToolbar(dst *image.RGBA, st paintState) {
	bar := image.Rect(0, 0, st.width, toolbarHeight)
	draw.Draw(dst, bar, &image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.ToolbarText), Face: basicfont.Face7x13}
	for i, b := range st.buttons {
		bg := st.theme.ToolbarBackground
		if b.tool == st.tool {
			bg = st.theme.ButtonActive
		} else if i == st.hoverTool {
			bg = st.theme.ButtonHover
		}
		draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
		d.Dot = fixed.P(b.rect.Min.X+6, b.rect.Min.Y+14)
		d.DrawString(b.label)
	}

	hints := "^Z:Undo  ^S:Save  ^C:Copy  ^L:Clear  Q:Quit"
	hw := d.MeasureString(hints).Ceil()
	if x := st.width - hw - 6; x > 0 {
		d.Dot = fixed.P(x, 17)
		d.DrawString(hints)
	}
}

func drawMessage(dst *image.RGBA, width, height int, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	descent := basicfont.Face7x13.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
