package serviceimpl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-triage/domain/models"
	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/triage"
)

type triageFixture struct {
	owner    uuid.UUID
	gallery  *models.Gallery
	photos   []*models.Photo
	photoRep *fakePhotoRepo
	cache    *fakeCache
	notifier *fakeNotifier
	svc      services.TriageService
}

func newTriageFixture(t *testing.T, n int) *triageFixture {
	t.Helper()
	l, err := logger.NewLogger("", false)
	require.NoError(t, err)
	logger.SetDefault(l)

	f := &triageFixture{owner: uuid.New(), cache: newFakeCache(), notifier: &fakeNotifier{}}
	f.gallery = newGallery(f.owner)
	f.photos = newPhotos(f.gallery.ID, n)
	f.photoRep = newFakePhotoRepo(f.photos...)
	f.svc = NewTriageService(newFakeGalleryRepo(f.gallery), f.photoRep, f.cache, f.notifier, TriageOptions{MaxBatchSize: 10})
	return f
}

func (f *triageFixture) ownerPrincipal() services.Principal {
	return services.Principal{UserID: f.owner}
}

func (f *triageFixture) ids(idx ...int) []uuid.UUID {
	out := make([]uuid.UUID, len(idx))
	for i, j := range idx {
		out[i] = f.photos[j].ID
	}
	return out
}

func TestUpdateStatus_OneWriteWithActivity(t *testing.T) {
	f := newTriageFixture(t, 5)
	ctx := context.Background()

	updated, stats, err := f.svc.UpdateStatus(ctx, f.ownerPrincipal(), f.gallery.ID, f.ids(0, 1, 2, 2), models.ReviewRejected)
	require.NoError(t, err)

	assert.EqualValues(t, 3, updated, "duplicates are collapsed")
	assert.Equal(t, 1, f.photoRep.updateCalls)
	require.Len(t, f.photoRep.activities, 1)
	assert.Equal(t, models.ActivityPhotosRejected, f.photoRep.activities[0].ActivityType)
	assert.Equal(t, f.owner.String(), f.photoRep.activities[0].ActorID)

	require.NotNil(t, stats)
	assert.EqualValues(t, 3, stats.Rejected)
	assert.EqualValues(t, 2, stats.Untouched)

	require.Len(t, f.notifier.events, 1)
	ev := f.notifier.events[0]
	assert.Equal(t, string(triage.ChangeStatus), ev.Kind)
	assert.Equal(t, "rejected", ev.Status)
	assert.Len(t, ev.IDs, 3)
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestUpdateStatus_ForeignPhotoWritesNothing(t *testing.T) {
	f := newTriageFixture(t, 2)

	ids := append(f.ids(0), uuid.New())
	_, _, err := f.svc.UpdateStatus(context.Background(), f.ownerPrincipal(), f.gallery.ID, ids, models.ReviewSelected)

	assert.ErrorIs(t, err, services.ErrPhotosNotInGallery)
	assert.Zero(t, f.photoRep.updateCalls)
	assert.Empty(t, f.notifier.events)
}

func TestUpdateStatus_Authorization(t *testing.T) {
	f := newTriageFixture(t, 2)
	ctx := context.Background()

	_, _, err := f.svc.UpdateStatus(ctx, services.Principal{UserID: uuid.New()}, f.gallery.ID, f.ids(0), models.ReviewSelected)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, _, err = f.svc.UpdateStatus(ctx, services.Principal{Client: true, GalleryID: uuid.New()}, f.gallery.ID, f.ids(0), models.ReviewSelected)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, _, err = f.svc.UpdateStatus(ctx, f.ownerPrincipal(), uuid.New(), f.ids(0), models.ReviewSelected)
	assert.ErrorIs(t, err, services.ErrGalleryNotFound)

	client := services.Principal{Client: true, GalleryID: f.gallery.ID}
	_, _, err = f.svc.UpdateStatus(ctx, client, f.gallery.ID, f.ids(0), models.ReviewSelected)
	require.NoError(t, err)
	assert.Equal(t, "client", f.notifier.events[0].ActorID)
}

func TestUpdateStatus_Limits(t *testing.T) {
	f := newTriageFixture(t, 12)
	ctx := context.Background()

	all := f.ids(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	_, _, err := f.svc.UpdateStatus(ctx, f.ownerPrincipal(), f.gallery.ID, all, models.ReviewSelected)
	assert.ErrorIs(t, err, services.ErrBatchTooLarge)

	_, _, err = f.svc.UpdateStatus(ctx, f.ownerPrincipal(), f.gallery.ID, f.ids(0), models.ReviewStatus("maybe"))
	assert.ErrorIs(t, err, triage.ErrInvalidReviewStatus)
}

func TestUpdateStatus_IsIdempotent(t *testing.T) {
	f := newTriageFixture(t, 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, stats, err := f.svc.UpdateStatus(ctx, f.ownerPrincipal(), f.gallery.ID, f.ids(0, 1), models.ReviewSelected)
		require.NoError(t, err)
		assert.EqualValues(t, 2, stats.Selected)
	}
}

func TestUpdateStatus_RepositoryFailure(t *testing.T) {
	f := newTriageFixture(t, 2)
	f.photoRep.failUpdate = errDB

	_, _, err := f.svc.UpdateStatus(context.Background(), f.ownerPrincipal(), f.gallery.ID, f.ids(0), models.ReviewRejected)
	assert.ErrorIs(t, err, errDB)
	assert.Empty(t, f.notifier.events)
	assert.Zero(t, f.cache.invalidated)
}

func TestUpdateHighlight_KeepsStatus(t *testing.T) {
	f := newTriageFixture(t, 3)
	f.photos[0].Status = models.ReviewRejected

	_, stats, err := f.svc.UpdateHighlight(context.Background(), f.ownerPrincipal(), f.gallery.ID, f.ids(0, 1), true)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.Highlighted)
	assert.EqualValues(t, 1, stats.Rejected)
	assert.Equal(t, models.ActivityHighlightsAdded, f.photoRep.activities[0].ActivityType)
	require.NotNil(t, f.notifier.events[0].Highlight)
	assert.True(t, *f.notifier.events[0].Highlight)
}

func TestListPhotos_Filters(t *testing.T) {
	f := newTriageFixture(t, 4)
	f.photos[1].Status = models.ReviewSelected
	f.photos[2].Status = models.ReviewRejected
	f.photos[2].IsHighlight = true
	f.photos[3].Status = models.ReviewSelected
	ctx := context.Background()

	selected, err := f.svc.ListPhotos(ctx, f.ownerPrincipal(), f.gallery.ID, triage.FilterSelected)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, f.photos[1].ID, selected[0].ID)
	assert.Equal(t, f.photos[3].ID, selected[1].ID)

	highlights, err := f.svc.ListPhotos(ctx, f.ownerPrincipal(), f.gallery.ID, triage.FilterHighlights)
	require.NoError(t, err)
	assert.Len(t, highlights, 1)

	all, err := f.svc.ListPhotos(ctx, f.ownerPrincipal(), f.gallery.ID, triage.FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetStats_UsesCache(t *testing.T) {
	f := newTriageFixture(t, 2)
	ctx := context.Background()

	cached := &models.GalleryStats{Total: 99}
	require.NoError(t, f.cache.Set(ctx, f.gallery.ID, cached))

	stats, err := f.svc.GetStats(ctx, f.ownerPrincipal(), f.gallery.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 99, stats.Total)

	require.NoError(t, f.cache.Invalidate(ctx, f.gallery.ID))
	stats, err = f.svc.GetStats(ctx, f.ownerPrincipal(), f.gallery.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
}

func TestFindSimilar_ScopedToGallery(t *testing.T) {
	f := newTriageFixture(t, 2)
	ctx := context.Background()

	res, err := f.svc.FindSimilar(ctx, f.ownerPrincipal(), f.gallery.ID, f.photos[0].ID, 0)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	_, err = f.svc.FindSimilar(ctx, f.ownerPrincipal(), f.gallery.ID, uuid.New(), 5)
	assert.ErrorIs(t, err, services.ErrPhotoNotFound)
}
