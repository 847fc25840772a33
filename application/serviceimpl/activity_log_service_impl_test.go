package serviceimpl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-triage/domain/models"
	"photo-triage/domain/services"
)

func TestActivityLog_GalleryScoped(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	g := newGallery(owner)
	activity := &fakeActivityRepo{}
	for _, typ := range []models.ActivityType{models.ActivityPhotosSelected, models.ActivityPhotosRejected, models.ActivityPhotosSelected} {
		require.NoError(t, activity.Create(ctx, &models.ActivityLog{ID: uuid.New(), GalleryID: g.ID, ActivityType: typ}))
	}
	require.NoError(t, activity.Create(ctx, &models.ActivityLog{ID: uuid.New(), GalleryID: uuid.New(), ActivityType: models.ActivityPhotosSelected}))

	svc := NewActivityLogService(activity, newFakeGalleryRepo(g))

	logs, total, err := svc.GetByGallery(ctx, services.Principal{UserID: owner}, g.ID, "", 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, logs, 3)

	_, total, err = svc.GetByGallery(ctx, services.Principal{Client: true, GalleryID: g.ID}, g.ID, models.ActivityPhotosSelected, 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, _, err = svc.GetByGallery(ctx, services.Principal{UserID: uuid.New()}, g.ID, "", 1, 50)
	assert.ErrorIs(t, err, services.ErrForbidden)
}
