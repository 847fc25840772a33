package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"photo-triage/pkg/triage"
)

// storeChangedMsg wakes the program after the store changed outside
// Update, e.g. when a write finished or was rolled back.
type storeChangedMsg struct{}

// Loader fetches the gallery's current photo list from the server.
type Loader func(ctx context.Context) ([]triage.Photo, error)

type reloadedMsg struct {
	photos []triage.Photo
	err    error
}

// Model is the terminal triage board. The store owns all review state;
// the model only keeps the cursor and the window size.
type Model struct {
	title    string
	store    *triage.Store
	lightbox *triage.Lightbox
	keys     *triage.Dispatcher

	gridKeys     gridKeyMap
	lightboxKeys lightboxKeyMap
	help         help.Model
	spinner      spinner.Model
	spinning     bool

	load    Loader
	loadErr error

	changed     chan struct{}
	unsubscribe func()

	cursor int
	width  int
	height int
}

// New builds the board. load may be nil, which disables reloading.
func New(store *triage.Store, title string, load Loader) Model {
	lb := triage.NewLightbox(store)
	changed := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(triage.View) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = savingStyle

	return Model{
		title:        title,
		store:        store,
		lightbox:     lb,
		keys:         triage.NewDispatcher(triage.GridKeys(store), triage.LightboxKeys(lb)),
		gridKeys:     newGridKeyMap(),
		lightboxKeys: newLightboxKeyMap(),
		help:         help.New(),
		spinner:      sp,
		load:         load,
		changed:      changed,
		unsubscribe:  unsubscribe,
		width:        100,
	}
}

// Close stops listening to the store.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changed)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		m.clampCursor()
		if m.store.IsUpdating() && !m.spinning {
			m.spinning = true
			return m, tea.Batch(waitForChange(m.changed), m.spinner.Tick)
		}
		return m, waitForChange(m.changed)

	case reloadedMsg:
		m.loadErr = msg.err
		if msg.err == nil {
			m.store.Reconcile(msg.photos)
		}
		return m, nil

	case spinner.TickMsg:
		// The spinner only runs while a write is in flight.
		if !m.store.IsUpdating() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.lightbox.IsOpen() {
			m.keys.Dispatch(toKey(msg), triage.FocusNone)
			m.syncCursorToLightbox()
			return m, nil
		}
		if m.keys.Dispatch(toKey(msg), triage.FocusNone) {
			return m, nil
		}
		return m.handleGridKey(msg)
	}
	return m, nil
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.store.Snapshot()
	cols := view.GridSize.Columns()
	current, hasCurrent := m.current(view)

	k := m.gridKeys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Left):
		m.moveCursor(-1, len(view.Filtered))
	case key.Matches(msg, k.Right):
		m.moveCursor(1, len(view.Filtered))
	case key.Matches(msg, k.Up):
		m.moveCursor(-cols, len(view.Filtered))
	case key.Matches(msg, k.Down):
		m.moveCursor(cols, len(view.Filtered))
	case key.Matches(msg, k.Check):
		if hasCurrent {
			_ = m.store.TogglePhotoCheck(current.ID, false)
		}
	case key.Matches(msg, k.Range):
		if hasCurrent {
			_ = m.store.TogglePhotoCheck(current.ID, true)
		}
	case key.Matches(msg, k.Open):
		if hasCurrent {
			_ = m.lightbox.Open(current.ID)
		}
	case key.Matches(msg, k.Keep):
		if hasCurrent {
			_ = m.store.MarkAsSelected(current.ID)
		}
	case key.Matches(msg, k.Discard):
		if hasCurrent {
			_ = m.store.MarkAsRejected(current.ID)
		}
	case key.Matches(msg, k.Reset):
		if hasCurrent {
			_ = m.store.ResetStatus(current.ID)
		}
	case key.Matches(msg, k.Highlight):
		if hasCurrent {
			_ = m.store.ToggleHighlight(current.ID)
		}
	case key.Matches(msg, k.BulkKeep):
		m.store.BulkMarkSelected()
	case key.Matches(msg, k.BulkDiscard):
		m.store.BulkMarkRejected()
	case key.Matches(msg, k.BulkReset):
		m.store.BulkReset()
	case key.Matches(msg, k.BulkHighlight):
		m.store.BulkToggleHighlights(true)
	case key.Matches(msg, k.BulkUnhighlight):
		m.store.BulkToggleHighlights(false)
	case key.Matches(msg, k.Filter):
		m.store.SetFilterMode(view.FilterMode.Next())
	case key.Matches(msg, k.Size):
		m.store.SetGridSize(view.GridSize.Next())
	case key.Matches(msg, k.Reload):
		if m.load != nil {
			return m, m.reload()
		}
	case key.Matches(msg, k.Dismiss):
		m.loadErr = nil
		m.store.DismissFailure()
	}
	m.clampCursor()
	return m, nil
}

func (m Model) reload() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		photos, err := load(ctx)
		return reloadedMsg{photos: photos, err: err}
	}
}

func (m Model) current(view triage.View) (triage.Photo, bool) {
	if m.cursor < 0 || m.cursor >= len(view.Filtered) {
		return triage.Photo{}, false
	}
	return view.Filtered[m.cursor], true
}

func (m *Model) moveCursor(delta, n int) {
	next := m.cursor + delta
	if next >= 0 && next < n {
		m.cursor = next
	}
}

func (m *Model) clampCursor() {
	n := len(m.store.FilteredPhotos())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// syncCursorToLightbox keeps the grid cursor on the photo the lightbox
// shows, so closing it returns to where the user was looking.
func (m *Model) syncCursorToLightbox() {
	if m.lightbox.IsOpen() {
		m.cursor = m.lightbox.Index()
	}
	m.clampCursor()
}

// toKey maps a terminal key press onto the DOM-style names the
// shortcut layers use.
func toKey(msg tea.KeyMsg) triage.Key {
	switch msg.Type {
	case tea.KeyEsc:
		return triage.Key{Code: triage.KeyEscape}
	case tea.KeyLeft:
		return triage.Key{Code: triage.KeyArrowLeft}
	case tea.KeyRight:
		return triage.Key{Code: triage.KeyArrowRight}
	case tea.KeyCtrlA:
		return triage.Key{Code: "a", Ctrl: true}
	case tea.KeyRunes:
		k := triage.Key{Code: string(msg.Runes), Alt: msg.Alt}
		if len(msg.Runes) == 1 && strings.ToUpper(k.Code) == k.Code && strings.ToLower(k.Code) != k.Code {
			k.Shift = true
		}
		return k
	}
	return triage.Key{Code: msg.String()}
}

func (m Model) View() string {
	view := m.store.Snapshot()
	if m.lightbox.IsOpen() {
		return m.renderLightbox(view)
	}

	var b strings.Builder
	b.WriteString(m.renderToolbar(view))
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid(view))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.gridKeys))
	return b.String()
}

func (m Model) renderToolbar(view triage.View) string {
	tb := triage.NewToolbarModel(view)

	filters := make([]string, 0, len(tb.Filters))
	for _, f := range tb.Filters {
		if f.Active {
			filters = append(filters, filterActiveStyle.Render(f.Label()))
		} else {
			filters = append(filters, filterStyle.Render(f.Label()))
		}
	}

	parts := []string{titleStyle.Render(m.title), lipgloss.JoinHorizontal(lipgloss.Top, filters...), mutedStyle.Render("grid: " + string(tb.GridSize))}
	if tb.ShowBulkBar {
		parts = append(parts, bulkStyle.Render(fmt.Sprintf("%d checked", tb.CheckedCount)))
	}
	if tb.Saving != "" {
		parts = append(parts, m.spinner.View()+savingStyle.Render(tb.Saving))
	}
	line := strings.Join(parts, "  ")
	if tb.ErrorBanner != "" {
		line += "\n" + errorStyle.Render(tb.ErrorBanner+"  (d to dismiss)")
	}
	if m.loadErr != nil {
		line += "\n" + errorStyle.Render("Reload failed: "+m.loadErr.Error())
	}
	return line
}

func (m Model) renderGrid(view triage.View) string {
	grid := triage.NewGridModel(view)
	if grid.Empty() {
		return mutedStyle.Render(grid.EmptyMessage) + "\n"
	}

	cellWidth := m.width/grid.Columns - 4
	if cellWidth < 10 {
		cellWidth = 10
	}

	var rows []string
	for r, row := range grid.Rows() {
		cells := make([]string, len(row))
		for c, card := range row {
			index := r*grid.Columns + c
			cells[c] = renderCard(card, cellWidth, index == m.cursor)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(card triage.Card, width int, cursor bool) string {
	check := "[ ]"
	if card.Checked {
		check = cardCheckedMark.Render("[x]")
	}
	name := lipgloss.NewStyle().MaxWidth(width - 4).Render(card.Photo.Filename)

	meta := renderBadges(card.Badges)
	if card.QualityLabel != "" {
		meta = strings.TrimSpace(meta + " " + mutedStyle.Render(card.QualityLabel))
	}

	style := cardStyle
	if cursor {
		style = cardCursorStyle
	}
	return style.Width(width).Render(check + " " + name + "\n" + meta)
}

func renderBadges(badges []triage.Badge) string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		switch b {
		case triage.BadgeKept:
			out = append(out, badgeKeptStyle.Render("✓ kept"))
		case triage.BadgeDiscarded:
			out = append(out, badgeDiscardedStyle.Render("✗ discarded"))
		case triage.BadgeHighlight:
			out = append(out, badgeHighlightStyle.Render("★"))
		}
	}
	return strings.Join(out, " ")
}

func (m Model) renderLightbox(view triage.View) string {
	p, ok := m.lightbox.Current()
	if !ok {
		return ""
	}
	card := triage.NewCard(p, view.IsChecked(p.ID))

	nav := fmt.Sprintf("%d / %d", m.lightbox.Index()+1, m.lightbox.Len())
	if m.lightbox.HasPrev() {
		nav = "← " + nav
	}
	if m.lightbox.HasNext() {
		nav += " →"
	}

	body := strings.Join([]string{
		titleStyle.Render(p.Filename),
		mutedStyle.Render(nav),
		"",
		"status: " + string(p.Status) + "  " + renderBadges(card.Badges),
		mutedStyle.Render(card.QualityLabel),
		mutedStyle.Render(p.URL),
		"",
		m.help.View(m.lightboxKeys),
	}, "\n")
	return lightboxStyle.Render(body)
}

// Run starts the board full screen and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, store *triage.Store, title string, load Loader) error {
	m := New(store, title, load)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
