package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-triage/domain/dto"
	"photo-triage/domain/models"
	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/utils"
)

const testSecret = "test-secret"

func newGalleryFixture(t *testing.T) (services.GalleryService, *fakeGalleryRepo, *fakePhotoRepo, *fakeActivityRepo) {
	t.Helper()
	l, err := logger.NewLogger("", false)
	require.NoError(t, err)
	logger.SetDefault(l)

	galleries := newFakeGalleryRepo()
	photos := newFakePhotoRepo()
	activity := &fakeActivityRepo{}
	return NewGalleryService(galleries, photos, activity, testSecret, time.Hour), galleries, photos, activity
}

func TestGallery_CreateAndGrantAccess(t *testing.T) {
	svc, _, _, activity := newGalleryFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	g, err := svc.CreateGallery(ctx, owner, &dto.CreateGalleryRequest{
		Name: "Spring recital", Vertical: "musicians", AccessCode: "sunflower",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerticalMusicians, g.Vertical)
	assert.NotEqual(t, "sunflower", g.AccessCodeHash)

	_, _, err = svc.GrantAccess(ctx, g.ID, "wrong-code")
	assert.ErrorIs(t, err, services.ErrInvalidAccessCode)

	_, _, err = svc.GrantAccess(ctx, uuid.New(), "sunflower")
	assert.ErrorIs(t, err, services.ErrGalleryNotFound)

	token, expires, err := svc.GrantAccess(ctx, g.ID, "sunflower")
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	user, err := utils.ValidateTokenStringToUUID(token, testSecret)
	require.NoError(t, err)
	assert.True(t, user.IsClient())
	assert.Equal(t, g.ID, user.GalleryID)

	logs, _, err := activity.GetByGallery(ctx, g.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestGallery_AddPhotosAppends(t *testing.T) {
	svc, galleries, photos, _ := newGalleryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	g := newGallery(owner)
	require.NoError(t, galleries.Create(ctx, g))
	p := services.Principal{UserID: owner}

	first, err := svc.AddPhotos(ctx, p, g.ID, []dto.PhotoUpload{
		{FileName: "a.jpg", URL: "https://cdn/a.jpg"},
		{FileName: "b.jpg", URL: "https://cdn/b.jpg", Embedding: make([]float32, 512)},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 0, first[0].Position)
	assert.NotNil(t, first[1].Embedding)
	assert.Equal(t, models.ReviewUntouched, first[0].Status)

	second, err := svc.AddPhotos(ctx, p, g.ID, []dto.PhotoUpload{{FileName: "c.jpg", URL: "https://cdn/c.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, 2, second[0].Position)
	assert.Len(t, photos.photos, 3)

	_, err = svc.AddPhotos(ctx, services.Principal{Client: true, GalleryID: g.ID}, g.ID, []dto.PhotoUpload{{FileName: "d.jpg"}})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestGallery_ListAndDelete(t *testing.T) {
	svc, galleries, _, _ := newGalleryFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	mine := newGallery(owner)
	fitness := newGallery(owner)
	fitness.Vertical = models.VerticalFitness
	require.NoError(t, galleries.Create(ctx, mine))
	require.NoError(t, galleries.Create(ctx, fitness))
	require.NoError(t, galleries.Create(ctx, newGallery(uuid.New())))

	list, total, err := svc.ListGalleries(ctx, owner, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, _, err = svc.ListGalleries(ctx, owner, models.VerticalFitness, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fitness.ID, list[0].ID)

	assert.ErrorIs(t, svc.DeleteGallery(ctx, services.Principal{UserID: uuid.New()}, mine.ID), services.ErrForbidden)
	require.NoError(t, svc.DeleteGallery(ctx, services.Principal{UserID: owner}, mine.ID))
	_, err = svc.GetGallery(ctx, services.Principal{UserID: owner}, mine.ID)
	assert.ErrorIs(t, err, services.ErrGalleryNotFound)
}
