// Package ui runs the interactive annotation window on top of shiny. It owns
// the event loop and frame scheduling; all annotation state lives in the
// editor core, which the loop drives with pointer and key events.
package ui

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/overmark/internal/clipboard"
	"github.com/example/overmark/internal/editor"
	"github.com/example/overmark/internal/notify"
	"github.com/example/overmark/internal/render"
	"github.com/example/overmark/internal/theme"
)

const toolbarHeight = 28

// frameDropThreshold bounds how many consecutive in-flight frames may be
// cancelled before one is allowed to finish.
const frameDropThreshold = 10

// App wires an editor to a shiny window.
type App struct {
	ed       *editor.Editor
	output   string
	notifier *notify.Notifier
	theme    *theme.Theme

	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithEditor sets the editor driven by the window.
func WithEditor(ed *editor.Editor) Option { return func(a *App) { a.ed = ed } }

// WithOutput sets the file path used when saving the annotated image.
func WithOutput(out string) Option { return func(a *App) { a.output = out } }

// WithNotifier sets the desktop notifier used for save and copy feedback.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// WithTheme sets the UI color palette.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.theme = t } }

// New creates an App with the provided options.
func New(opts ...Option) *App {
	a := &App{updateCh: make(chan struct{}, 1)}
	for _, o := range opts {
		o(a)
	}
	if a.ed == nil {
		a.ed = editor.New()
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	return a
}

// NotifyChanged requests a repaint when editor state mutates outside the
// event loop, such as an overlay timer firing.
func (a *App) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

func (a *App) Main(s screen.Screen) {
	bg := a.ed.Image()
	if bg == nil {
		log.Fatalf("no image loaded")
	}

	width := bg.Bounds().Dx()
	if min := minWindowWidth(); width < min {
		width = min
	}
	height := bg.Bounds().Dy() + toolbarHeight

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Overmark"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	a.ed.SetViewport(width, height-toolbarHeight)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	var message string
	var messageUntil time.Time
	hoverTool := -1

	// In-progress handle drag on the selected shape. The editor only sees
	// the finished transform on release.
	var dragHandle render.Handle
	var dragID string
	var dragStart image.Point
	var dragFrom image.Rectangle
	var dragRect image.Rectangle

	buttons := toolButtons()

	setMessage := func(msg string) {
		message = msg
		log.Print(msg)
		messageUntil = time.Now().Add(2 * time.Second)
	}

	save := func() {
		out := render.Export(a.ed.Image(), a.ed.Shapes())
		if out == nil {
			return
		}
		path := a.output
		if path == "" {
			path = fmt.Sprintf("annotated-%s.png", time.Now().Format("20060102-150405"))
		}
		f, err := os.Create(path)
		if err != nil {
			log.Printf("save: %v", err)
			return
		}
		if err := png.Encode(f, out); err != nil {
			log.Printf("save: %v", err)
			if cerr := f.Close(); cerr != nil {
				log.Printf("save: closing file: %v", cerr)
			}
			return
		}
		if err := f.Close(); err != nil {
			log.Printf("save: closing file: %v", err)
			return
		}
		setMessage(fmt.Sprintf("saved %s", path))
		a.notifier.Save(path)
	}

	copyImage := func() {
		out := render.Export(a.ed.Image(), a.ed.Shapes())
		if out == nil {
			return
		}
		if err := clipboard.WriteImage(out); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		setMessage("image copied to clipboard")
		a.notifier.Copy("annotated image")
	}

	var paintMu sync.Mutex
	var paintCancel func()
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := newPaintContext()
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	cancelInflight := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				cancelInflight()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			a.ed.SetViewport(width, height-toolbarHeight)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := paintState{
				width:        width,
				height:       height,
				bg:           a.ed.Image(),
				shapes:       a.ed.Shapes(),
				draft:        a.ed.Draft(),
				selection:    a.ed.Selection(),
				scale:        a.ed.Scale(),
				tool:         a.ed.Tool(),
				overlayOpen:  a.ed.OverlayOpen(),
				overlayText:  a.ed.OverlayText(),
				overlayPos:   a.ed.OverlayPos(),
				fontSize:     a.ed.FontSize(),
				color:        a.ed.Color(),
				dragRect:     dragRect,
				dragging:     dragHandle != render.HandleNone,
				message:      message,
				messageUntil: messageUntil,
				buttons:      buttons,
				hoverTool:    hoverTool,
				theme:        a.theme,
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if int(e.Y) < toolbarHeight {
				hoverTool = -1
				p := image.Point{int(e.X), int(e.Y)}
				for i, b := range buttons {
					if p.In(b.rect) {
						hoverTool = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							a.ed.SetTool(b.tool)
						}
						break
					}
				}
				w.Send(paint.Event{})
				continue
			}

			scale := a.ed.Scale()
			if scale <= 0 {
				continue
			}
			pt := image.Point{
				X: int(float64(e.X) / scale),
				Y: int((float64(e.Y) - toolbarHeight) / scale),
			}

			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
				if h, id, bounds, ok := a.grabHandle(pt); ok {
					dragHandle = h
					dragID = id
					dragStart = pt
					dragFrom = bounds
					dragRect = bounds
					w.Send(paint.Event{})
					continue
				}
				a.ed.PointerDown(pt)
				w.Send(paint.Event{})
				continue
			}
			if e.Direction == mouse.DirNone {
				if dragHandle != render.HandleNone {
					dragRect = render.Resize(dragFrom, dragHandle, pt.Sub(dragStart))
					w.Send(paint.Event{})
					continue
				}
				a.ed.PointerMove(pt)
				if a.ed.Draft() != nil {
					w.Send(paint.Event{})
				}
				continue
			}
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease {
				if dragHandle != render.HandleNone {
					a.ed.ApplyTransform(dragID, dragFrom, dragRect)
					dragHandle = render.HandleNone
					dragRect = image.Rectangle{}
					w.Send(paint.Event{})
					continue
				}
				a.ed.PointerUp(pt)
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if a.ed.OverlayOpen() {
				switch e.Code {
				case key.CodeReturnEnter:
					a.ed.CommitText()
				case key.CodeEscape:
					a.ed.CancelText()
				case key.CodeDeleteBackspace:
					a.ed.OverlayBackspace()
				default:
					if e.Rune > 0 {
						a.ed.InsertOverlayRune(e.Rune)
					}
				}
				w.Send(paint.Event{})
				continue
			}
			if e.Modifiers&key.ModControl != 0 {
				switch unicode.ToLower(e.Rune) {
				case 'z':
					a.ed.Undo()
				case 's':
					save()
				case 'c':
					copyImage()
				case 'l':
					a.ed.ClearAll()
				}
				w.Send(paint.Event{})
				continue
			}
			switch e.Code {
			case key.CodeEscape:
				a.ed.Escape()
				w.Send(paint.Event{})
				continue
			case key.CodeDeleteBackspace, key.CodeDeleteForward:
				a.ed.DeleteSelection()
				w.Send(paint.Event{})
				continue
			}
			switch unicode.ToLower(e.Rune) {
			case 's':
				a.ed.SetTool(editor.ToolSelect)
			case 'd':
				a.ed.SetTool(editor.ToolFreehand)
			case 'r':
				a.ed.SetTool(editor.ToolRect)
			case 't':
				a.ed.SetTool(editor.ToolText)
			case 'q':
				cancelInflight()
				return
			}
			w.Send(paint.Event{})
		}
	}
}

// grabHandle reports whether a press at pt (image coordinates) lands on the
// transform chrome of the current selection.
func (a *App) grabHandle(pt image.Point) (render.Handle, string, image.Rectangle, bool) {
	id := a.ed.Selection()
	if id == "" || a.ed.Tool() != editor.ToolSelect {
		return render.HandleNone, "", image.Rectangle{}, false
	}
	s, ok := a.ed.Shapes().Find(id)
	if !ok || !render.Transformable(s) {
		return render.HandleNone, "", image.Rectangle{}, false
	}
	bounds := render.SelectionBounds(s)
	h := render.HandleAt(bounds, pt)
	if h == render.HandleNone {
		return render.HandleNone, "", image.Rectangle{}, false
	}
	return h, id, bounds, true
}
