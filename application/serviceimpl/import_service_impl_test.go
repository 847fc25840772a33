package serviceimpl

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-triage/domain/dto"
	"photo-triage/domain/services"
)

type fakeDrive struct {
	files []services.DriveFile
	calls int
}

func (d *fakeDrive) ListImages(ctx context.Context, folderID, resourceKey string, recursive bool) ([]services.DriveFile, error) {
	d.calls++
	if folderID == "private" {
		return nil, services.ErrDriveFolderAccess
	}
	return d.files, nil
}

func driveFiles(n int) []services.DriveFile {
	out := make([]services.DriveFile, n)
	for i := range out {
		id := fmt.Sprintf("file%d", i)
		out[i] = services.DriveFile{
			ID:       id,
			Name:     id + ".jpg",
			MimeType: "image/jpeg",
			ViewURL:  "https://drive.google.com/uc?export=view&id=" + id,
		}
	}
	return out
}

func TestImportFromDrive_SkipsKnownFilesAndChunks(t *testing.T) {
	_, galleries, photos, _ := newGalleryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	g := newGallery(owner)
	require.NoError(t, galleries.Create(ctx, g))

	drive := &fakeDrive{files: driveFiles(5)}
	gallerySvc := NewGalleryService(galleries, photos, &fakeActivityRepo{}, testSecret, time.Hour)
	svc := NewImportService(galleries, photos, gallerySvc, drive, 2)
	p := services.Principal{UserID: owner}
	req := &dto.DriveImportRequest{FolderID: "shared"}

	added, skipped, err := svc.ImportFromDrive(ctx, p, g.ID, req)
	require.NoError(t, err)
	assert.Len(t, added, 5)
	assert.Zero(t, skipped)
	assert.Equal(t, 4, added[4].Position)

	drive.files = driveFiles(7)
	added, skipped, err = svc.ImportFromDrive(ctx, p, g.ID, req)
	require.NoError(t, err)
	assert.Len(t, added, 2, "only new files are imported")
	assert.Equal(t, 5, skipped)
	assert.Len(t, photos.photos, 7)
}

func TestImportFromDrive_Errors(t *testing.T) {
	_, galleries, photos, _ := newGalleryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	g := newGallery(owner)
	require.NoError(t, galleries.Create(ctx, g))

	gallerySvc := NewGalleryService(galleries, photos, &fakeActivityRepo{}, testSecret, time.Hour)
	drive := &fakeDrive{files: driveFiles(1)}
	svc := NewImportService(galleries, photos, gallerySvc, drive, 0)

	_, _, err := svc.ImportFromDrive(ctx, services.Principal{Client: true, GalleryID: g.ID}, g.ID, &dto.DriveImportRequest{FolderID: "x"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, _, err = svc.ImportFromDrive(ctx, services.Principal{UserID: uuid.New()}, g.ID, &dto.DriveImportRequest{FolderID: "x"})
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Zero(t, drive.calls, "drive is not queried for callers without access")

	_, _, err = svc.ImportFromDrive(ctx, services.Principal{UserID: owner}, g.ID, &dto.DriveImportRequest{FolderID: "private"})
	assert.ErrorIs(t, err, services.ErrDriveFolderAccess)

	unconfigured := NewImportService(galleries, photos, gallerySvc, nil, 0)
	_, _, err = unconfigured.ImportFromDrive(ctx, services.Principal{UserID: owner}, g.ID, &dto.DriveImportRequest{FolderID: "x"})
	assert.ErrorIs(t, err, services.ErrDriveNotConfigured)
}
