package triage

import (
	"strings"
	"sync"
)

// Key names follow the DOM KeyboardEvent.key values so a web host can
// forward events unchanged. Single characters are compared
// case-insensitively.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Key is one key press.
type Key struct {
	Code  string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

func (k Key) is(code string) bool {
	if len(code) == 1 {
		return strings.EqualFold(k.Code, code)
	}
	return k.Code == code
}

// Focus describes the element that currently owns keyboard input.
type Focus int

const (
	FocusNone Focus = iota
	FocusTextInput
	FocusTextArea
)

func (f Focus) capturesText() bool {
	return f == FocusTextInput || f == FocusTextArea
}

// KeyLayer is one scope of shortcuts. Active layers are consulted from
// the top of the stack down; a modal layer stops the search whether or
// not it handled the key.
type KeyLayer interface {
	Name() string
	Active() bool
	Modal() bool
	HandleKey(k Key) bool
}

// Dispatcher routes key presses through a stack of layers.
type Dispatcher struct {
	mu     sync.Mutex
	layers []KeyLayer
}

func NewDispatcher(layers ...KeyLayer) *Dispatcher {
	d := &Dispatcher{}
	for _, l := range layers {
		d.Push(l)
	}
	return d
}

// Push puts layer on top of the stack.
func (d *Dispatcher) Push(layer KeyLayer) {
	d.mu.Lock()
	d.layers = append(d.layers, layer)
	d.mu.Unlock()
}

// Remove drops the topmost layer with the given name.
func (d *Dispatcher) Remove(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.layers) - 1; i >= 0; i-- {
		if d.layers[i].Name() == name {
			d.layers = append(d.layers[:i], d.layers[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch delivers k and reports whether a layer consumed it, in which
// case the host should suppress its default action.
func (d *Dispatcher) Dispatch(k Key, focus Focus) bool {
	if focus.capturesText() {
		return false
	}

	d.mu.Lock()
	layers := make([]KeyLayer, len(d.layers))
	copy(layers, d.layers)
	d.mu.Unlock()

	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if !l.Active() {
			continue
		}
		if l.HandleKey(k) {
			return true
		}
		if l.Modal() {
			return false
		}
	}
	return false
}

type gridKeys struct {
	store *Store
}

// GridKeys binds Escape to clearing the checked set and Ctrl/Cmd+A to
// checking every filtered photo.
func GridKeys(store *Store) KeyLayer {
	return gridKeys{store: store}
}

func (gridKeys) Name() string { return "grid" }
func (gridKeys) Active() bool { return true }
func (gridKeys) Modal() bool  { return false }

func (g gridKeys) HandleKey(k Key) bool {
	switch {
	case k.is(KeyEscape):
		g.store.ClearSelection()
		return true
	case k.is("a") && (k.Ctrl || k.Meta):
		g.store.SelectAll()
		return true
	}
	return false
}

type lightboxKeys struct {
	lb *Lightbox
}

// LightboxKeys is active while lb is open and swallows every key so the
// grid shortcuts stay silent behind it.
func LightboxKeys(lb *Lightbox) KeyLayer {
	return lightboxKeys{lb: lb}
}

func (lightboxKeys) Name() string   { return "lightbox" }
func (l lightboxKeys) Active() bool { return l.lb.IsOpen() }
func (lightboxKeys) Modal() bool    { return true }

func (l lightboxKeys) HandleKey(k Key) bool {
	if k.Ctrl || k.Meta || k.Alt {
		return false
	}
	switch {
	case k.is(KeyEscape):
		l.lb.Close()
	case k.is(KeyArrowLeft):
		l.lb.Prev()
	case k.is(KeyArrowRight):
		l.lb.Next()
	// The lightbox only marks the photo it just resolved from the store,
	// so ErrUnknownPhoto cannot come back from these.
	case k.is("s"):
		_ = l.lb.MarkSelected()
	case k.is("r"):
		_ = l.lb.MarkRejected()
	case k.is("h"):
		_ = l.lb.ToggleHighlight()
	default:
		return false
	}
	return true
}
