package tui

import "github.com/charmbracelet/bubbles/key"

// gridKeyMap holds the board's own bindings. Escape and ctrl+a are not
// here: they belong to the shortcut layers in pkg/triage.
type gridKeyMap struct {
	Left, Right, Up, Down key.Binding

	Check, Range, Open key.Binding

	Keep, Discard, Reset, Highlight key.Binding

	BulkKeep, BulkDiscard, BulkReset, BulkHighlight, BulkUnhighlight key.Binding

	Filter, Size, Reload, Dismiss, Help, Quit key.Binding
}

func newGridKeyMap() gridKeyMap {
	return gridKeyMap{
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		Check: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "check")),
		Range: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "check range")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),

		Keep:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "keep")),
		Discard:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "discard")),
		Reset:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "reset")),
		Highlight: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "highlight")),

		BulkKeep:        key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "keep checked")),
		BulkDiscard:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "discard checked")),
		BulkReset:       key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "reset checked")),
		BulkHighlight:   key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "highlight checked")),
		BulkUnhighlight: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "unhighlight checked")),

		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Size:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grid size")),
		Reload:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "reload")),
		Dismiss: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss error")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k gridKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Check, k.Keep, k.Discard, k.Highlight, k.Open, k.Filter, k.Help, k.Quit}
}

func (k gridKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Check, k.Range, k.Open, k.Keep, k.Discard, k.Reset, k.Highlight},
		{k.BulkKeep, k.BulkDiscard, k.BulkReset, k.BulkHighlight, k.BulkUnhighlight},
		{k.Filter, k.Size, k.Reload, k.Dismiss, k.Help, k.Quit},
	}
}

// lightboxKeyMap only documents the lightbox layer; the dispatcher
// handles the keys themselves.
type lightboxKeyMap struct {
	Keep, Discard, Highlight, Move, Close key.Binding
}

func newLightboxKeyMap() lightboxKeyMap {
	return lightboxKeyMap{
		Keep:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "keep")),
		Discard:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "discard")),
		Highlight: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "highlight")),
		Move:      key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "move")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

func (k lightboxKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Keep, k.Discard, k.Highlight, k.Move, k.Close}
}

func (k lightboxKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
