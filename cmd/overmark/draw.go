package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/overmark/internal/clipboard"
	"github.com/example/overmark/internal/editor"
	"github.com/example/overmark/internal/render"
)

var defaultColor = color.RGBA{255, 0, 0, 255}

const (
	defaultWidth    = 2
	defaultTextSize = 16.0
)

// drawCmd applies a single annotation to an image file without opening a
// window. It drives the same editor core the interactive UI uses.
type drawCmd struct {
	file        string
	output      string
	toClipboard bool
	shadow      bool
	colorSpec   string
	color       color.RGBA
	width       int
	shape       string
	coords      []int
	text        string
	textSize    float64
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) Program() string {
	if d.root != nil {
		return d.root.program + " draw"
	}
	return "overmark draw"
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		r, err := strconv.ParseUint(spec[1:3], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		g, err := strconv.ParseUint(spec[3:5], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		b, err := strconv.ParseUint(spec[5:7], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		a := uint64(255)
		if len(spec) == 9 {
			val, err := strconv.ParseUint(spec[7:9], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			a = val
		}
		return color.RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.BoolVar(&d.shadow, "shadow", false, "composite the result over a drop shadow")
	fs.StringVar(&d.colorSpec, "color", "red", "stroke or text color name or hex value")
	fs.IntVar(&d.width, "width", defaultWidth, "stroke width in pixels")
	fs.Float64Var(&d.textSize, "text-size", defaultTextSize, "text size in points")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.shape = strings.ToLower(positionals[0])
	remaining := positionals[1:]
	switch d.shape {
	case "stroke":
		if len(remaining) < 4 || len(remaining)%2 != 0 {
			return nil, fmt.Errorf("stroke requires an even number of at least 4 coordinates")
		}
		d.coords, err = expectInts(remaining, len(remaining), d.shape)
	case "rect":
		d.coords, err = expectInts(remaining, 4, d.shape)
	case "text":
		if len(remaining) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		d.coords, err = expectInts(remaining[:2], 2, d.shape)
		if err != nil {
			return nil, err
		}
		d.text = strings.Join(remaining[2:], " ")
		if strings.TrimSpace(d.text) == "" {
			return nil, fmt.Errorf("text content cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unsupported shape %q", d.shape)
	}
	if err != nil {
		return nil, err
	}
	colorVal, err := parseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	d.color = colorVal
	if d.file == "" {
		return nil, fmt.Errorf("input file is required")
	}
	if d.output == "" {
		d.output = d.file
	}
	if d.width < 1 {
		d.width = 1
	}
	if d.textSize <= 0 {
		d.textSize = defaultTextSize
	}
	return d, nil
}

var drawFlagNames = map[string]struct{}{
	"file": {}, "output": {}, "to-clipboard": {}, "to-clip": {},
	"shadow": {}, "color": {}, "width": {}, "text-size": {},
}

var drawBoolFlags = map[string]struct{}{
	"to-clipboard": {}, "to-clip": {}, "shadow": {},
}

// splitDrawArgs separates known flags from the shape and its arguments so
// negative coordinates are not mistaken for flags.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}

func expectInts(args []string, n int, shape string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", shape, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

func (d *drawCmd) Run() error {
	img, err := loadPNG(d.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.file, err)
	}

	ed := editor.New(
		editor.WithImage(img),
		editor.WithColor(d.color),
		editor.WithStrokeWidth(d.width),
		editor.WithFontSize(d.textSize),
	)
	if err := d.applyShape(ed); err != nil {
		return err
	}

	out := render.Export(ed.Image(), ed.Shapes())
	if out == nil {
		return fmt.Errorf("nothing to export")
	}
	if d.shadow {
		out = render.ApplyShadow(out, render.DefaultShadowOptions())
	}
	f, err := os.Create(d.output)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", f.Name(), err)
		}
	}(f)
	if err := png.Encode(f, out); err != nil {
		return err
	}
	saved := d.output
	if abs, err := filepath.Abs(d.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if d.root != nil {
		d.root.notifySave(saved)
	}
	if d.toClipboard {
		if err := clipboard.WriteImage(out); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		if d.root != nil {
			d.root.notifyCopy(detail)
		}
	}
	return nil
}

// applyShape replays the annotation through the editor as a pointer or text
// gesture, so the committed shape obeys the same rules as the UI.
func (d *drawCmd) applyShape(ed *editor.Editor) error {
	switch d.shape {
	case "stroke":
		ed.SetTool(editor.ToolFreehand)
		ed.PointerDown(image.Pt(d.coords[0], d.coords[1]))
		for i := 2; i < len(d.coords); i += 2 {
			ed.PointerMove(image.Pt(d.coords[i], d.coords[i+1]))
		}
		ed.PointerUp(image.Pt(d.coords[len(d.coords)-2], d.coords[len(d.coords)-1]))
	case "rect":
		x, y, w, h := d.coords[0], d.coords[1], d.coords[2], d.coords[3]
		ed.SetTool(editor.ToolRect)
		ed.PointerDown(image.Pt(x, y))
		ed.PointerUp(image.Pt(x+w, y+h))
	case "text":
		ed.SetTool(editor.ToolText)
		ed.PointerDown(image.Pt(d.coords[0], d.coords[1]))
		for _, r := range d.text {
			ed.InsertOverlayRune(r)
		}
		ed.CommitText()
	}
	if !ed.HasAnnotations() {
		return fmt.Errorf("%s did not produce a committable shape", d.shape)
	}
	return nil
}
