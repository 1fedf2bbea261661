package editor

import (
	"image"
	"strings"
	"time"

	"github.com/example/overmark/internal/shape"
)

// focusDelay postpones focusing the text input until the overlay has had a
// chance to mount, so the focus change does not race the open itself.
const focusDelay = 50 * time.Millisecond

// guardDelay is how long blur-triggered commit attempts are suppressed after
// the overlay opens. The synthetic focus shuffle around opening must not be
// read as the user leaving the input.
const guardDelay = 200 * time.Millisecond

// Scheduler defers a function by a duration. The returned cancel stops the
// callback if it has not fired yet.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func() bool)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// overlayState tracks the ephemeral text-entry surface. gen is a generation
// counter: every open and close bumps it, and a timer fires only if the
// generation it was armed for is still current. That is the cancellation
// token replacing a bare "ignore blur for a while" flag race.
type overlayState struct {
	open  bool
	pos   image.Point
	text  string
	guard bool
	gen   int

	cancelFocus func() bool
	cancelGuard func() bool
}

// OverlayOpen reports whether the text-entry overlay is showing.
func (e *Editor) OverlayOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlay.open
}

// OverlayPos returns the canvas coordinate the overlay is anchored at.
func (e *Editor) OverlayPos() image.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlay.pos
}

// OverlayText returns the draft text typed so far.
func (e *Editor) OverlayText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlay.text
}

// GuardActive reports whether blur-triggered commits are currently
// suppressed.
func (e *Editor) GuardActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlay.open && e.overlay.guard
}

// InsertOverlayRune appends a typed character to the overlay draft.
func (e *Editor) InsertOverlayRune(r rune) {
	e.mu.Lock()
	if e.overlay.open && r > 0 {
		e.overlay.text += string(r)
	}
	e.mu.Unlock()
}

// OverlayBackspace removes the last character of the overlay draft.
func (e *Editor) OverlayBackspace() {
	e.mu.Lock()
	if e.overlay.open && len(e.overlay.text) > 0 {
		e.overlay.text = e.overlay.text[:len(e.overlay.text)-1]
	}
	e.mu.Unlock()
}

// openOverlayLocked records the anchor, clears the draft text, arms the
// blur-commit guard, and schedules the focus and guard-release timers. A
// previously open overlay gets a blur-style commit attempt first, so text
// typed there is not lost by tapping elsewhere with the text tool.
func (e *Editor) openOverlayLocked(p image.Point) {
	if e.overlay.open && !e.overlay.guard {
		e.commitOverlayTextLocked()
	}
	e.closeOverlayLocked()
	e.overlay.open = true
	e.overlay.pos = p
	e.overlay.text = ""
	e.overlay.guard = true
	gen := e.overlay.gen
	e.overlay.cancelFocus = e.sched.AfterFunc(focusDelay, func() { e.overlayFocus(gen) })
	e.overlay.cancelGuard = e.sched.AfterFunc(guardDelay, func() { e.overlayGuardRelease(gen) })
}

// closeOverlayLocked tears the overlay down and invalidates any timers armed
// for it by bumping the generation. Safe to call when the overlay is closed.
func (e *Editor) closeOverlayLocked() {
	if e.overlay.cancelFocus != nil {
		e.overlay.cancelFocus()
		e.overlay.cancelFocus = nil
	}
	if e.overlay.cancelGuard != nil {
		e.overlay.cancelGuard()
		e.overlay.cancelGuard = nil
	}
	e.overlay.open = false
	e.overlay.text = ""
	e.overlay.guard = false
	e.overlay.gen++
}

func (e *Editor) overlayFocus(gen int) {
	e.mu.Lock()
	stale := !e.overlay.open || e.overlay.gen != gen
	fn := e.focusFn
	e.mu.Unlock()
	if stale || fn == nil {
		return
	}
	fn()
}

func (e *Editor) overlayGuardRelease(gen int) {
	e.mu.Lock()
	if e.overlay.open && e.overlay.gen == gen {
		e.overlay.guard = false
	}
	e.mu.Unlock()
}

// CommitText is the explicit commit (Enter, or a confirm action on touch
// layouts). Trimmed non-empty text becomes a label at the recorded anchor
// with the current font size and color; empty text just closes the overlay.
func (e *Editor) CommitText() {
	e.mu.Lock()
	if !e.overlay.open {
		e.mu.Unlock()
		return
	}
	e.commitOverlayTextLocked()
	e.closeOverlayLocked()
	changed, has, fn := e.refreshAnnotationsLocked()
	e.mu.Unlock()
	if changed && fn != nil {
		fn(has)
	}
}

// Blur is the implicit commit attempt when the overlay loses focus. While
// the open guard is armed it is suppressed entirely; afterwards it behaves
// exactly like CommitText.
func (e *Editor) Blur() {
	e.mu.Lock()
	if !e.overlay.open || e.overlay.guard {
		e.mu.Unlock()
		return
	}
	e.commitOverlayTextLocked()
	e.closeOverlayLocked()
	changed, has, fn := e.refreshAnnotationsLocked()
	e.mu.Unlock()
	if changed && fn != nil {
		fn(has)
	}
}

// CancelText discards the overlay draft and closes it without mutating the
// committed collection.
func (e *Editor) CancelText() {
	e.mu.Lock()
	e.closeOverlayLocked()
	e.mu.Unlock()
}

// commitOverlayTextLocked turns non-empty trimmed overlay text into a
// committed label with a history snapshot. It does not close the overlay.
func (e *Editor) commitOverlayTextLocked() {
	text := strings.TrimSpace(e.overlay.text)
	if text == "" {
		return
	}
	label := shape.NewLabel(e.overlay.pos.X, e.overlay.pos.Y, text, e.fontSize, e.color)
	e.commitLocked(append(e.shapes.Clone(), label))
	e.overlay.text = ""
}
