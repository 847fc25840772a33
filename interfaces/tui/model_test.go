package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-triage/pkg/triage"
)

type recorder struct {
	mu      sync.Mutex
	changes []triage.Change
}

func (r *recorder) Persist(ctx context.Context, c triage.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	return nil
}

func (r *recorder) all() []triage.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]triage.Change(nil), r.changes...)
}

func newBoard(t *testing.T) (Model, *triage.Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	store := triage.NewStore("g1", []triage.Photo{
		{ID: "p1", Filename: "ceremony.jpg", Status: triage.StatusUntouched},
		{ID: "p2", Filename: "rings.jpg", Status: triage.StatusUntouched},
		{ID: "p3", Filename: "dance.jpg", Status: triage.StatusUntouched},
	}, rec)
	t.Cleanup(store.Close)

	m := New(store, "Smith wedding", nil)
	t.Cleanup(m.Close)
	return m, store, rec
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func statusOf(store *triage.Store, id string) triage.Photo {
	for _, p := range store.Photos() {
		if p.ID == id {
			return p
		}
	}
	return triage.Photo{}
}

func TestBoard_MarksPhotoUnderCursor(t *testing.T) {
	m, store, rec := newBoard(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, runes("s"))
	store.Wait()

	assert.Equal(t, triage.StatusSelected, statusOf(store, "p2").Status)
	assert.Equal(t, triage.StatusUntouched, statusOf(store, "p1").Status)
	require.Len(t, rec.all(), 1)
	assert.Equal(t, []string{"p2"}, rec.all()[0].IDs)
	assert.Equal(t, 1, m.cursor)
}

func TestBoard_BulkRejectIsOneWrite(t *testing.T) {
	m, store, rec := newBoard(t)

	m = press(m, runes(" "), tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, runes("x"))
	assert.Equal(t, []string{"p1", "p3"}, store.CheckedIDs())

	press(m, runes("R"))
	store.Wait()

	assert.Empty(t, store.CheckedIDs())
	assert.Equal(t, triage.StatusRejected, statusOf(store, "p1").Status)
	assert.Equal(t, triage.StatusRejected, statusOf(store, "p3").Status)
	require.Len(t, rec.all(), 1)
	assert.ElementsMatch(t, []string{"p1", "p3"}, rec.all()[0].IDs)
}

func TestBoard_GridShortcutsGoThroughDispatcher(t *testing.T) {
	m, store, _ := newBoard(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Len(t, store.CheckedIDs(), 3)
	assert.Contains(t, m.View(), "3 checked")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, store.CheckedIDs())
}

func TestBoard_LightboxIsModal(t *testing.T) {
	m, store, _ := newBoard(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.lightbox.IsOpen())
	assert.Contains(t, m.View(), "ceremony.jpg")
	assert.Contains(t, m.View(), "1 / 3")

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, runes("h"), tea.KeyMsg{Type: tea.KeyCtrlA})
	store.Wait()
	assert.True(t, statusOf(store, "p2").IsHighlight)
	assert.Empty(t, store.CheckedIDs(), "grid shortcuts are silent behind the lightbox")

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.lightbox.IsOpen())
	assert.Equal(t, 1, m.cursor, "cursor follows the lightbox")
}

func TestBoard_FilterAndGridSize(t *testing.T) {
	m, store, _ := newBoard(t)

	m = press(m, runes("s"), runes("f"))
	store.Wait()
	assert.Equal(t, triage.FilterSelected, store.FilterMode())
	assert.Contains(t, m.View(), "selected (1)")

	m = press(m, runes("f"))
	assert.Contains(t, m.View(), triage.EmptyFilterMessage)

	press(m, runes("g"))
	assert.Equal(t, triage.GridLarge, store.GridSize())
}

func TestBoard_EmptyGallery(t *testing.T) {
	store := triage.NewStore("g1", nil, &recorder{})
	defer store.Close()
	m := New(store, "Empty", nil)
	defer m.Close()

	assert.Contains(t, m.View(), triage.EmptyGalleryMessage)
	m = press(m, runes("s"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.lightbox.IsOpen())
}

func TestBoard_StoreChangesWakeTheProgram(t *testing.T) {
	m, store, _ := newBoard(t)

	cmd := m.Init()
	require.NotNil(t, cmd)
	store.SetGridSize(triage.GridSmall)
	assert.IsType(t, storeChangedMsg{}, cmd())
}

func TestToKey(t *testing.T) {
	assert.Equal(t, triage.Key{Code: triage.KeyEscape}, toKey(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, triage.Key{Code: "a", Ctrl: true}, toKey(tea.KeyMsg{Type: tea.KeyCtrlA}))
	assert.Equal(t, triage.Key{Code: "S", Shift: true}, toKey(runes("S")))
	assert.Equal(t, triage.Key{Code: "s"}, toKey(runes("s")))
}

func TestBoard_HelpToggle(t *testing.T) {
	m, _, _ := newBoard(t)

	assert.Contains(t, m.View(), "keep")
	assert.NotContains(t, m.View(), "discard checked")

	m = press(m, runes("?"))
	assert.Contains(t, m.View(), "discard checked")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "close")
}

func TestBoard_SpinnerStopsWhenIdle(t *testing.T) {
	m, store, _ := newBoard(t)
	m.spinning = true

	store.Wait()
	next, cmd := m.Update(m.spinner.Tick())
	assert.Nil(t, cmd)
	assert.False(t, next.(Model).spinning)
}

func TestBoard_ReloadReconciles(t *testing.T) {
	m, store, _ := newBoard(t)
	m = press(m, runes(" "), tea.KeyMsg{Type: tea.KeyRight}, runes(" "))
	require.Len(t, store.CheckedIDs(), 2)

	m.load = func(ctx context.Context) ([]triage.Photo, error) {
		return []triage.Photo{{ID: "p1", Filename: "ceremony.jpg", Status: triage.StatusSelected}}, nil
	}
	_, cmd := m.Update(runes("l"))
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)

	assert.Len(t, store.Photos(), 1)
	assert.Equal(t, triage.StatusSelected, statusOf(store, "p1").Status)
	assert.Equal(t, []string{"p1"}, store.CheckedIDs(), "checks on vanished photos are dropped")

	m.load = func(ctx context.Context) ([]triage.Photo, error) { return nil, errors.New("gateway timeout") }
	_, cmd = m.Update(runes("l"))
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Contains(t, m.View(), "Reload failed: gateway timeout")
	assert.Len(t, store.Photos(), 1)
}
