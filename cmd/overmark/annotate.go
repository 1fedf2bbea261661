package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/example/overmark/internal/editor"
	"github.com/example/overmark/internal/notify"
	"github.com/example/overmark/internal/render"
	"github.com/example/overmark/internal/theme"
	"github.com/example/overmark/internal/ui"
)

// annotateCmd opens an image in the interactive annotation window.
type annotateCmd struct {
	file      string
	output    string
	colorSpec string
	width     int
	textSize  float64
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) Program() string {
	if a.root != nil {
		return a.root.program + " annotate"
	}
	return "overmark annotate"
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image file to annotate")
	fs.StringVar(&a.output, "output", "annotated.png", "output file path used when saving")
	fs.StringVar(&a.colorSpec, "color", "", "initial annotation color name or hex value")
	fs.IntVar(&a.width, "width", 0, "initial stroke width in pixels")
	fs.Float64Var(&a.textSize, "text-size", 0, "initial text size in points")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.file == "" {
		return nil, &UsageError{of: a}
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	img, err := loadPNG(a.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", a.file, err)
	}

	col := defaultColor
	width := defaultWidth
	textSize := defaultTextSize
	if a.root != nil && a.root.config != nil {
		col = a.root.config.DefaultColor
		width = a.root.config.DefaultWidth
		textSize = a.root.config.DefaultFontSize
	}
	if a.colorSpec != "" {
		col, err = parseColor(a.colorSpec)
		if err != nil {
			return err
		}
	}
	if a.width > 0 {
		width = a.width
	}
	if a.textSize > 0 {
		textSize = a.textSize
	}

	var notifier *notify.Notifier
	var activeTheme *theme.Theme
	if a.root != nil {
		notifier = a.root.notifier
		activeTheme = a.root.activeTheme
	}

	var app *ui.App
	ed := editor.New(
		editor.WithImage(img),
		editor.WithColor(col),
		editor.WithStrokeWidth(width),
		editor.WithFontSize(textSize),
		editor.WithHitTester(render.HitTest),
		editor.WithFocusListener(func() { app.NotifyChanged() }),
		editor.WithAnnotationsListener(func(bool) { app.NotifyChanged() }),
	)
	app = ui.New(
		ui.WithEditor(ed),
		ui.WithOutput(a.output),
		ui.WithNotifier(notifier),
		ui.WithTheme(activeTheme),
	)
	app.Run()
	return nil
}

func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	rgba := image.NewRGBA(dec.Bounds())
	draw.Draw(rgba, rgba.Bounds(), dec, dec.Bounds().Min, draw.Src)
	return rgba, nil
}
