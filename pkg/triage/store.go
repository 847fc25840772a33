package triage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultMaxRetries = 2
	defaultRetryDelay = 500 * time.Millisecond
	maxFailures       = 20
)

type options struct {
	timeout         time.Duration
	maxRetries      int
	baseRetryDelay  time.Duration
	onPhotosUpdated func(Stats)
	now             func() time.Time
}

type Option func(*options)

// WithTimeout bounds a single persistence attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetry sets how often a retryable failure is retried and the base
// delay of the exponential backoff between attempts.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(o *options) {
		o.maxRetries = maxRetries
		o.baseRetryDelay = baseDelay
	}
}

// WithOnPhotosUpdated registers the gallery-level callback fired after
// every successful batch write.
func WithOnPhotosUpdated(fn func(Stats)) Option {
	return func(o *options) { o.onPhotosUpdated = fn }
}

// View is an immutable snapshot of the store for renderers.
type View struct {
	GalleryID  string
	Photos     []Photo
	Filtered   []Photo
	Checked    []string // in photo order
	Anchor     string
	FilterMode FilterMode
	GridSize   GridSize
	Stats      Stats
	IsUpdating bool
	Failures   []Failure

	checked map[string]struct{}
}

func (v View) IsChecked(id string) bool {
	_, ok := v.checked[id]
	return ok
}

// Photo looks up a photo in the snapshot.
func (v View) Photo(id string) (Photo, bool) {
	for _, p := range v.Photos {
		if p.ID == id {
			return p, true
		}
	}
	return Photo{}, false
}

// Store owns the photo list of one gallery and mediates every change to
// it. Mutations apply locally at once and are written to the server in
// the background, one after another in the order they were made;
// IsUpdating reports pending writes.
type Store struct {
	mu        sync.Mutex
	galleryID string
	photos    []Photo
	index     map[string]int
	checked   map[string]struct{}
	anchor    string
	filter    FilterMode
	grid      GridSize
	inflight  int
	failures  []Failure

	// saved is the last value the server confirmed for each photo.
	saved   map[string]savedValue
	queue   []Change
	current *Change
	writing bool

	persister Persister
	opts      options

	subs    map[int]func(View)
	nextSub int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore seeds a store with the server-provided photo list.
func NewStore(galleryID string, initialPhotos []Photo, persister Persister, opts ...Option) *Store {
	o := options{
		timeout:        defaultTimeout,
		maxRetries:     defaultMaxRetries,
		baseRetryDelay: defaultRetryDelay,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		galleryID: galleryID,
		checked:   make(map[string]struct{}),
		filter:    FilterAll,
		grid:      GridMedium,
		persister: persister,
		opts:      o,
		subs:      make(map[int]func(View)),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.setPhotosLocked(normalize(initialPhotos))
	s.seedSavedLocked()
	return s
}

func normalize(photos []Photo) []Photo {
	out := make([]Photo, len(photos))
	copy(out, photos)
	for i := range out {
		if out[i].Status == "" {
			out[i].Status = StatusUntouched
		}
	}
	return out
}

func (s *Store) setPhotosLocked(photos []Photo) {
	s.photos = photos
	s.index = make(map[string]int, len(photos))
	for i, p := range photos {
		s.index[p.ID] = i
	}
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function unregisters it.
func (s *Store) Subscribe(fn func(View)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(v View) {
	s.mu.Lock()
	subs := make([]func(View), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// commit unlocks the store and publishes the resulting snapshot.
func (s *Store) commit() {
	v := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(v)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() View {
	photos := s.photos
	checked := make(map[string]struct{}, len(s.checked))
	order := make([]string, 0, len(s.checked))
	for _, p := range photos {
		if _, ok := s.checked[p.ID]; ok {
			checked[p.ID] = struct{}{}
			order = append(order, p.ID)
		}
	}
	failures := make([]Failure, len(s.failures))
	copy(failures, s.failures)

	return View{
		GalleryID:  s.galleryID,
		Photos:     photos,
		Filtered:   Filter(photos, s.filter),
		Checked:    order,
		Anchor:     s.anchor,
		FilterMode: s.filter,
		GridSize:   s.grid,
		Stats:      ComputeStats(photos, len(order)),
		IsUpdating: s.inflight > 0,
		Failures:   failures,
		checked:    checked,
	}
}

func (s *Store) Photos() []Photo          { return s.Snapshot().Photos }
func (s *Store) FilteredPhotos() []Photo  { return s.Snapshot().Filtered }
func (s *Store) CheckedIDs() []string     { return s.Snapshot().Checked }
func (s *Store) Stats() Stats             { return s.Snapshot().Stats }
func (s *Store) Failures() []Failure      { return s.Snapshot().Failures }
func (s *Store) GalleryID() string        { return s.galleryID }
func (s *Store) IsChecked(id string) bool { return s.Snapshot().IsChecked(id) }

func (s *Store) IsUpdating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

func (s *Store) FilterMode() FilterMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Store) SetFilterMode(mode FilterMode) {
	s.mu.Lock()
	s.filter = mode
	s.commit()
}

func (s *Store) GridSize() GridSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

func (s *Store) SetGridSize(size GridSize) {
	s.mu.Lock()
	s.grid = size
	s.commit()
}

// TogglePhotoCheck flips id in the checked set. With extendRange and a
// previous anchor visible in the current filter, every photo between
// the anchor and id (inclusive, either direction) is checked instead.
// id becomes the new anchor either way.
func (s *Store) TogglePhotoCheck(id string, extendRange bool) error {
	s.mu.Lock()
	if _, ok := s.index[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownPhoto, id)
	}

	if extendRange && s.anchor != "" && s.anchor != id {
		order := photoIDs(Filter(s.photos, s.filter))
		if rng := CheckRange(order, s.anchor, id); rng != nil {
			for _, rid := range rng {
				s.checked[rid] = struct{}{}
			}
			s.anchor = id
			s.commit()
			return nil
		}
	}

	if _, ok := s.checked[id]; ok {
		delete(s.checked, id)
	} else {
		s.checked[id] = struct{}{}
	}
	s.anchor = id
	s.commit()
	return nil
}

// SelectAll checks every photo of the current filter.
func (s *Store) SelectAll() {
	s.mu.Lock()
	s.checked = idSet(photoIDs(Filter(s.photos, s.filter)))
	s.commit()
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.checked = make(map[string]struct{})
	s.anchor = ""
	s.commit()
}

func (s *Store) MarkAsSelected(ids ...string) error {
	return s.applyStatus(ids, StatusSelected)
}

func (s *Store) MarkAsRejected(ids ...string) error {
	return s.applyStatus(ids, StatusRejected)
}

// ResetStatus returns photos to untouched. Highlight is a separate axis
// and is left alone.
func (s *Store) ResetStatus(ids ...string) error {
	return s.applyStatus(ids, StatusUntouched)
}

func (s *Store) ToggleHighlight(id string) error {
	s.mu.Lock()
	if _, ok := s.index[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownPhoto, id)
	}
	photos, value, _ := ToggleHighlight(s.photos, id)
	s.setPhotosLocked(photos)
	change := Change{GalleryID: s.galleryID, Kind: ChangeHighlight, IDs: []string{id}, Highlight: value}
	s.dispatchLocked(change)
	return nil
}

func (s *Store) BulkMarkSelected() { s.applyStatusToChecked(StatusSelected) }
func (s *Store) BulkMarkRejected() { s.applyStatusToChecked(StatusRejected) }
func (s *Store) BulkReset()        { s.applyStatusToChecked(StatusUntouched) }

// BulkToggleHighlights sets the highlight bit of every checked photo to
// value in one batch.
func (s *Store) BulkToggleHighlights(value bool) {
	s.mu.Lock()
	ids := s.checkedOrderLocked()
	if len(ids) == 0 {
		s.mu.Unlock()
		return
	}
	s.setPhotosLocked(SetHighlight(s.photos, ids, value))
	s.checked = make(map[string]struct{})
	s.anchor = ""
	change := Change{GalleryID: s.galleryID, Kind: ChangeHighlight, IDs: ids, Highlight: value}
	s.dispatchLocked(change)
}

func (s *Store) checkedOrderLocked() []string {
	ids := make([]string, 0, len(s.checked))
	for _, p := range s.photos {
		if _, ok := s.checked[p.ID]; ok {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (s *Store) applyStatusToChecked(status ReviewStatus) {
	s.mu.Lock()
	ids := s.checkedOrderLocked()
	if len(ids) == 0 {
		s.mu.Unlock()
		return
	}
	s.checked = make(map[string]struct{})
	s.anchor = ""
	s.applyStatusLocked(ids, status)
}

func (s *Store) applyStatus(ids []string, status ReviewStatus) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	for _, id := range ids {
		if _, ok := s.index[id]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrUnknownPhoto, id)
		}
	}
	s.applyStatusLocked(dedupe(ids), status)
	return nil
}

// applyStatusLocked releases s.mu.
func (s *Store) applyStatusLocked(ids []string, status ReviewStatus) {
	s.setPhotosLocked(SetStatus(s.photos, ids, status))
	change := Change{GalleryID: s.galleryID, Kind: ChangeStatus, IDs: ids, Status: status}
	s.dispatchLocked(change)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Reconcile replaces the photo list with server truth, dropping checks
// on photos that no longer exist. Writes still pending are replayed on
// top so they are not lost from the local view.
func (s *Store) Reconcile(photos []Photo) {
	s.mu.Lock()
	s.setPhotosLocked(normalize(photos))
	s.seedSavedLocked()
	local := s.photos
	if s.current != nil {
		local = applyLocal(local, *s.current)
	}
	for _, q := range s.queue {
		local = applyLocal(local, q)
	}
	s.setPhotosLocked(local)
	for id := range s.checked {
		if _, ok := s.index[id]; !ok {
			delete(s.checked, id)
		}
	}
	if _, ok := s.index[s.anchor]; !ok {
		s.anchor = ""
	}
	s.commit()
}

// DismissFailure drops the oldest recorded failure.
func (s *Store) DismissFailure() {
	s.mu.Lock()
	if len(s.failures) > 0 {
		s.failures = s.failures[1:]
	}
	s.commit()
}

// Wait blocks until every in-flight write has settled.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close aborts pending retries and waits for in-flight writes. Writes
// still queued fail with context.Canceled and are rolled back.
func (s *Store) Close() {
	s.cancel()
	s.wg.Wait()
}

// savedValue is what the server is known to store for one photo.
type savedValue struct {
	status    ReviewStatus
	highlight bool
}

func (s *Store) seedSavedLocked() {
	s.saved = make(map[string]savedValue, len(s.photos))
	for _, p := range s.photos {
		s.saved[p.ID] = savedValue{status: p.Status, highlight: p.IsHighlight}
	}
}

// dispatchLocked queues change behind every earlier write and releases
// the lock. The caller must hold s.mu.
func (s *Store) dispatchLocked(change Change) {
	if s.persister == nil {
		s.commit()
		return
	}
	s.queue = append(s.queue, change)
	s.inflight++
	start := !s.writing
	if start {
		s.writing = true
		s.wg.Add(1)
	}
	s.commit()

	if start {
		go s.drain()
	}
}

// drain writes queued changes one at a time, in the order they were
// made, until the queue is empty.
func (s *Store) drain() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.writing = false
			s.current = nil
			s.mu.Unlock()
			return
		}
		change := s.queue[0]
		s.queue = s.queue[1:]
		s.current = &change
		s.mu.Unlock()

		s.settle(change, s.persistWithRetry(change))
	}
}

func (s *Store) settle(change Change, err error) {
	s.mu.Lock()
	s.inflight--
	s.current = nil
	if err == nil {
		s.confirmLocked(change, change.IDs)
	} else {
		var partial *PartialWriteError
		if errors.As(err, &partial) {
			s.confirmLocked(change, partial.Applied)
		}
		restored := s.rollbackLocked(change)
		s.failures = append(s.failures, Failure{
			Change:     change,
			Err:        err,
			At:         s.opts.now(),
			RolledBack: restored,
		})
		if len(s.failures) > maxFailures {
			s.failures = s.failures[len(s.failures)-maxFailures:]
		}
	}
	v := s.snapshotLocked()
	s.mu.Unlock()

	if err == nil && s.opts.onPhotosUpdated != nil {
		s.opts.onPhotosUpdated(v.Stats)
	}
	s.notify(v)
}

func (s *Store) persistWithRetry(change Change) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	var lastErr error
	for attempt := 0; attempt <= s.opts.maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.opts.baseRetryDelay * time.Duration(1<<uint(attempt-1))
			timer := time.NewTimer(delay)
			select {
			case <-s.ctx.Done():
				timer.Stop()
				return lastErr
			case <-timer.C:
			}
		}

		ctx, cancel := context.WithTimeout(s.ctx, s.opts.timeout)
		err := s.persister.Persist(ctx, change)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
	}
	return lastErr
}

// confirmLocked records that the server now stores change's value for
// ids.
func (s *Store) confirmLocked(change Change, ids []string) {
	for _, id := range ids {
		v := s.saved[id]
		switch change.Kind {
		case ChangeStatus:
			v.status = change.Status
		case ChangeHighlight:
			v.highlight = change.Highlight
		}
		s.saved[id] = v
	}
}

// rollbackLocked puts each photo of a failed change back to the value
// the server last confirmed. Photos that a still-queued change of the
// same kind will write again keep their local value, since that write
// carries it to the server.
func (s *Store) rollbackLocked(change Change) int {
	pending := make(map[string]struct{})
	for _, q := range s.queue {
		if q.Kind != change.Kind {
			continue
		}
		for _, id := range q.IDs {
			pending[id] = struct{}{}
		}
	}

	photos := make([]Photo, len(s.photos))
	copy(photos, s.photos)

	restored := 0
	for _, id := range change.IDs {
		i, ok := s.index[id]
		if !ok {
			continue
		}
		if _, ok := pending[id]; ok {
			continue
		}
		saved, ok := s.saved[id]
		if !ok {
			continue
		}
		switch change.Kind {
		case ChangeStatus:
			if photos[i].Status != saved.status {
				photos[i].Status = saved.status
				restored++
			}
		case ChangeHighlight:
			if photos[i].IsHighlight != saved.highlight {
				photos[i].IsHighlight = saved.highlight
				restored++
			}
		}
	}
	s.setPhotosLocked(photos)
	return restored
}

// applyLocal replays change on photos without writing it.
func applyLocal(photos []Photo, change Change) []Photo {
	if change.Kind == ChangeHighlight {
		return SetHighlight(photos, change.IDs, change.Highlight)
	}
	return SetStatus(photos, change.IDs, change.Status)
}
