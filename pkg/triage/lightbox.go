package triage

import "sync"

// Lightbox is the full-screen single-photo viewer. It navigates the
// store's current filtered list and remembers the open photo by id, so
// reordering or filtering keeps the same photo on screen when possible.
type Lightbox struct {
	store *Store

	mu    sync.Mutex
	open  bool
	id    string
	index int
}

func NewLightbox(store *Store) *Lightbox {
	return &Lightbox{store: store}
}

// Open shows the photo with id. It fails when the photo is not part of
// the current filter.
func (l *Lightbox) Open(id string) error {
	filtered := l.store.FilteredPhotos()
	for i, p := range filtered {
		if p.ID == id {
			l.mu.Lock()
			l.open, l.id, l.index = true, id, i
			l.mu.Unlock()
			return nil
		}
	}
	return ErrUnknownPhoto
}

func (l *Lightbox) Close() {
	l.mu.Lock()
	l.open, l.id, l.index = false, "", 0
	l.mu.Unlock()
}

func (l *Lightbox) IsOpen() bool {
	_, _, ok := l.resolve()
	return ok
}

// resolve finds the open photo in the current filter. If it has left
// the filter, the photo now at the remembered index takes its place;
// an empty filter closes the lightbox.
func (l *Lightbox) resolve() (Photo, int, bool) {
	filtered := l.store.FilteredPhotos()

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return Photo{}, 0, false
	}
	for i, p := range filtered {
		if p.ID == l.id {
			l.index = i
			return p, i, true
		}
	}
	if len(filtered) == 0 {
		l.open, l.id, l.index = false, "", 0
		return Photo{}, 0, false
	}
	if l.index >= len(filtered) {
		l.index = len(filtered) - 1
	}
	l.id = filtered[l.index].ID
	return filtered[l.index], l.index, true
}

// Current returns the photo on screen.
func (l *Lightbox) Current() (Photo, bool) {
	p, _, ok := l.resolve()
	return p, ok
}

// Index is the position of the open photo in the filtered list, or -1.
func (l *Lightbox) Index() int {
	_, i, ok := l.resolve()
	if !ok {
		return -1
	}
	return i
}

func (l *Lightbox) Len() int {
	return len(l.store.FilteredPhotos())
}

func (l *Lightbox) HasPrev() bool {
	_, i, ok := l.resolve()
	return ok && i > 0
}

func (l *Lightbox) HasNext() bool {
	_, i, ok := l.resolve()
	return ok && i < l.Len()-1
}

// Prev moves one photo back. It is a no-op on the first photo.
func (l *Lightbox) Prev() bool {
	return l.step(-1)
}

// Next moves one photo forward. It is a no-op on the last photo.
func (l *Lightbox) Next() bool {
	return l.step(1)
}

func (l *Lightbox) step(delta int) bool {
	_, i, ok := l.resolve()
	if !ok {
		return false
	}
	filtered := l.store.FilteredPhotos()
	j := i + delta
	if j < 0 || j >= len(filtered) {
		return false
	}

	l.mu.Lock()
	l.id, l.index = filtered[j].ID, j
	l.mu.Unlock()
	return true
}

func (l *Lightbox) MarkSelected() error {
	p, ok := l.Current()
	if !ok {
		return nil
	}
	return l.store.MarkAsSelected(p.ID)
}

func (l *Lightbox) MarkRejected() error {
	p, ok := l.Current()
	if !ok {
		return nil
	}
	return l.store.MarkAsRejected(p.ID)
}

func (l *Lightbox) ToggleHighlight() error {
	p, ok := l.Current()
	if !ok {
		return nil
	}
	return l.store.ToggleHighlight(p.ID)
}
