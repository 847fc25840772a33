package serviceimpl

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
	"photo-triage/domain/services"
)

type fakeGalleryRepo struct {
	mu        sync.Mutex
	galleries map[uuid.UUID]*models.Gallery
}

func newFakeGalleryRepo(galleries ...*models.Gallery) *fakeGalleryRepo {
	r := &fakeGalleryRepo{galleries: make(map[uuid.UUID]*models.Gallery)}
	for _, g := range galleries {
		r.galleries[g.ID] = g
	}
	return r
}

func (r *fakeGalleryRepo) Create(ctx context.Context, g *models.Gallery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *g
	r.galleries[g.ID] = &cp
	return nil
}

func (r *fakeGalleryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Gallery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.galleries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGalleryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, vertical models.Vertical, offset, limit int) ([]models.Gallery, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Gallery
	for _, g := range r.galleries {
		if g.OwnerID == ownerID && (vertical == "" || g.Vertical == vertical) {
			out = append(out, *g)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeGalleryRepo) ListRecentlyActive(ctx context.Context, hours int, limit int) ([]uuid.UUID, error) {
	return nil, nil
}

func (r *fakeGalleryRepo) Update(ctx context.Context, g *models.Gallery) error {
	return r.Create(ctx, g)
}

func (r *fakeGalleryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.galleries, id)
	return nil
}

type fakePhotoRepo struct {
	mu          sync.Mutex
	photos      map[uuid.UUID]*models.Photo
	activities  []*models.ActivityLog
	updateCalls int
	failUpdate  error
}

func newFakePhotoRepo(photos ...*models.Photo) *fakePhotoRepo {
	r := &fakePhotoRepo{photos: make(map[uuid.UUID]*models.Photo)}
	for _, p := range photos {
		r.photos[p.ID] = p
	}
	return r
}

func (r *fakePhotoRepo) CreateBatch(ctx context.Context, photos []*models.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range photos {
		cp := *p
		r.photos[p.ID] = &cp
	}
	return nil
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePhotoRepo) NextPosition(ctx context.Context, galleryID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := 0
	for _, p := range r.photos {
		if p.GalleryID == galleryID && p.Position >= next {
			next = p.Position + 1
		}
	}
	return next, nil
}

func (r *fakePhotoRepo) ListByGallery(ctx context.Context, galleryID uuid.UUID, f repositories.PhotoFilter) ([]models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Photo
	for _, p := range r.photos {
		if p.GalleryID != galleryID {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.Highlight != nil && p.IsHighlight != *f.Highlight {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakePhotoRepo) CountInGallery(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := r.photos[id]; ok && p.GalleryID == galleryID {
			n++
		}
	}
	return n, nil
}

func (r *fakePhotoRepo) UpdateStatus(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID, status models.ReviewStatus, activity *models.ActivityLog) (int64, error) {
	return r.apply(ids, activity, func(p *models.Photo) { p.Status = status })
}

func (r *fakePhotoRepo) UpdateHighlight(ctx context.Context, galleryID uuid.UUID, ids []uuid.UUID, value bool, activity *models.ActivityLog) (int64, error) {
	return r.apply(ids, activity, func(p *models.Photo) { p.IsHighlight = value })
}

func (r *fakePhotoRepo) apply(ids []uuid.UUID, activity *models.ActivityLog, fn func(*models.Photo)) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.failUpdate != nil {
		return 0, r.failUpdate
	}
	var n int64
	for _, id := range ids {
		if p, ok := r.photos[id]; ok {
			fn(p)
			n++
		}
	}
	if activity != nil {
		r.activities = append(r.activities, activity)
	}
	return n, nil
}

func (r *fakePhotoRepo) GetStats(ctx context.Context, galleryID uuid.UUID) (*models.GalleryStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := &models.GalleryStats{}
	for _, p := range r.photos {
		if p.GalleryID != galleryID {
			continue
		}
		st.Total++
		switch p.Status {
		case models.ReviewSelected:
			st.Selected++
		case models.ReviewRejected:
			st.Rejected++
		default:
			st.Untouched++
		}
		if p.IsHighlight {
			st.Highlighted++
		}
	}
	return st, nil
}

func (r *fakePhotoRepo) FindSimilar(ctx context.Context, photo *models.Photo, limit int, threshold float64) ([]repositories.SimilarPhoto, error) {
	return []repositories.SimilarPhoto{{Photo: *photo, Similarity: 1}}, nil
}

type fakeActivityRepo struct {
	mu   sync.Mutex
	logs []*models.ActivityLog
}

func (r *fakeActivityRepo) Create(ctx context.Context, log *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeActivityRepo) GetByGallery(ctx context.Context, galleryID uuid.UUID, offset, limit int) ([]models.ActivityLog, int64, error) {
	return r.GetByGalleryAndType(ctx, galleryID, "", offset, limit)
}

func (r *fakeActivityRepo) GetByGalleryAndType(ctx context.Context, galleryID uuid.UUID, t models.ActivityType, offset, limit int) ([]models.ActivityLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ActivityLog
	for _, l := range r.logs {
		if l.GalleryID == galleryID && (t == "" || l.ActivityType == t) {
			out = append(out, *l)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeActivityRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Provider == provider && u.ProviderID == providerID })
}

func (r *fakeUserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := r.find(func(u *models.User) bool { return u.Username == username })
	return err == nil, nil
}

func (r *fakeUserRepo) SaveProfile(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[u.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Provider, cur.ProviderID, cur.Avatar = u.Provider, u.ProviderID, u.Avatar
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.LastLogin = &at
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	stats       map[uuid.UUID]*models.GalleryStats
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stats: make(map[uuid.UUID]*models.GalleryStats)}
}

func (c *fakeCache) Get(ctx context.Context, id uuid.UUID) (*models.GalleryStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.stats[id]
	return st, ok
}

func (c *fakeCache) Set(ctx context.Context, id uuid.UUID, st *models.GalleryStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats[id] = st
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stats, id)
	c.invalidated++
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []services.PhotosUpdatedEvent
}

func (n *fakeNotifier) PhotosUpdated(e services.PhotosUpdatedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

var errDB = errors.New("connection reset by peer")

func newGallery(owner uuid.UUID) *models.Gallery {
	return &models.Gallery{
		ID:        uuid.New(),
		OwnerID:   owner,
		Name:      "Smith wedding",
		Vertical:  models.VerticalEvents,
		CreatedAt: time.Now(),
	}
}

func newPhotos(galleryID uuid.UUID, n int) []*models.Photo {
	out := make([]*models.Photo, n)
	for i := range out {
		out[i] = &models.Photo{
			ID:        uuid.New(),
			GalleryID: galleryID,
			Position:  i,
			FileName:  "img.jpg",
			URL:       "https://cdn.example.com/img.jpg",
			Status:    models.ReviewUntouched,
		}
	}
	return out
}
