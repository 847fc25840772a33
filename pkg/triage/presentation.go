package triage

import (
	"fmt"
	"math"
)

const (
	EmptyGalleryMessage = "No photos in this gallery yet"
	EmptyFilterMessage  = "No photos match this filter"
	SavingIndicator     = "Saving…"
)

// Badge is a status marker drawn on a card.
type Badge string

const (
	BadgeKept      Badge = "kept"
	BadgeDiscarded Badge = "discarded"
	BadgeHighlight Badge = "highlight"
)

// Action is a per-card hover action.
type Action string

const (
	ActionSelect    Action = "select"
	ActionReject    Action = "reject"
	ActionReset     Action = "reset"
	ActionHighlight Action = "highlight"
	ActionOpen      Action = "open"
)

type Card struct {
	Photo        Photo
	Checked      bool
	Badges       []Badge
	QualityLabel string
	Actions      []Action
}

// NewCard derives the card for p. Reset is offered only for photos that
// have been reviewed.
func NewCard(p Photo, checked bool) Card {
	c := Card{Photo: p, Checked: checked, QualityLabel: QualityLabel(p.QualityScore)}
	switch p.Status {
	case StatusSelected:
		c.Badges = append(c.Badges, BadgeKept)
	case StatusRejected:
		c.Badges = append(c.Badges, BadgeDiscarded)
	}
	if p.IsHighlight {
		c.Badges = append(c.Badges, BadgeHighlight)
	}

	c.Actions = []Action{ActionSelect, ActionReject}
	if p.Status != StatusUntouched {
		c.Actions = append(c.Actions, ActionReset)
	}
	c.Actions = append(c.Actions, ActionHighlight, ActionOpen)
	return c
}

// QualityLabel renders a 0-100 score as "Q 87".
func QualityLabel(score *float64) string {
	if score == nil {
		return ""
	}
	return fmt.Sprintf("Q %d", int(math.Round(*score)))
}

type GridModel struct {
	Cards        []Card
	Columns      int
	Size         GridSize
	EmptyMessage string
}

func (g GridModel) Empty() bool { return len(g.Cards) == 0 }

// Rows splits the cards into rows of Columns.
func (g GridModel) Rows() [][]Card {
	if g.Columns <= 0 {
		return nil
	}
	var rows [][]Card
	for i := 0; i < len(g.Cards); i += g.Columns {
		end := i + g.Columns
		if end > len(g.Cards) {
			end = len(g.Cards)
		}
		rows = append(rows, g.Cards[i:end])
	}
	return rows
}

func NewGridModel(v View) GridModel {
	g := GridModel{Columns: v.GridSize.Columns(), Size: v.GridSize}
	switch {
	case len(v.Photos) == 0:
		g.EmptyMessage = EmptyGalleryMessage
	case len(v.Filtered) == 0:
		g.EmptyMessage = EmptyFilterMessage
	}
	g.Cards = make([]Card, len(v.Filtered))
	for i, p := range v.Filtered {
		g.Cards[i] = NewCard(p, v.IsChecked(p.ID))
	}
	return g
}

type FilterOption struct {
	Mode   FilterMode
	Count  int
	Active bool
}

func (o FilterOption) Label() string {
	return fmt.Sprintf("%s (%d)", o.Mode, o.Count)
}

type ToolbarModel struct {
	Filters      []FilterOption
	GridSize     GridSize
	CheckedCount int
	ShowBulkBar  bool
	Saving       string
	ErrorBanner  string
}

func NewToolbarModel(v View) ToolbarModel {
	counts := map[FilterMode]int{
		FilterAll:        v.Stats.Total,
		FilterSelected:   v.Stats.Selected,
		FilterRejected:   v.Stats.Rejected,
		FilterHighlights: v.Stats.Highlighted,
	}
	t := ToolbarModel{
		GridSize:     v.GridSize,
		CheckedCount: len(v.Checked),
		ShowBulkBar:  len(v.Checked) > 0,
	}
	for _, m := range FilterModes {
		t.Filters = append(t.Filters, FilterOption{Mode: m, Count: counts[m], Active: m == v.FilterMode})
	}
	if v.IsUpdating {
		t.Saving = SavingIndicator
	}
	if n := len(v.Failures); n > 0 {
		t.ErrorBanner = v.Failures[n-1].Message()
	}
	return t
}
