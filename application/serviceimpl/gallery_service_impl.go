package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"photo-triage/domain/dto"
	"photo-triage/domain/models"
	"photo-triage/domain/repositories"
	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/utils"
)

type GalleryServiceImpl struct {
	galleryRepo  repositories.GalleryRepository
	photoRepo    repositories.PhotoRepository
	activityRepo repositories.ActivityLogRepository
	jwtSecret    string
	tokenTTL     time.Duration
}

func NewGalleryService(
	galleryRepo repositories.GalleryRepository,
	photoRepo repositories.PhotoRepository,
	activityRepo repositories.ActivityLogRepository,
	jwtSecret string,
	tokenTTL time.Duration,
) services.GalleryService {
	return &GalleryServiceImpl{
		galleryRepo:  galleryRepo,
		photoRepo:    photoRepo,
		activityRepo: activityRepo,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

func (s *GalleryServiceImpl) CreateGallery(ctx context.Context, ownerID uuid.UUID, req *dto.CreateGalleryRequest) (*models.Gallery, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.AccessCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash access code: %w", err)
	}

	now := time.Now()
	gallery := &models.Gallery{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Name:           req.Name,
		Description:    req.Description,
		Vertical:       models.Vertical(req.Vertical),
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		AccessCodeHash: string(hash),
		ShootDate:      req.ShootDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.galleryRepo.Create(ctx, gallery); err != nil {
		return nil, fmt.Errorf("failed to create gallery: %w", err)
	}

	s.record(ctx, gallery.ID, ownerID.String(), models.ActivityGalleryCreated, "Gallery created", models.ActivityDetails{})
	logger.Gallery("create", "Gallery created", map[string]interface{}{
		"gallery_id": gallery.ID.String(),
		"owner_id":   ownerID.String(),
		"vertical":   req.Vertical,
	})
	return gallery, nil
}

func (s *GalleryServiceImpl) ListGalleries(ctx context.Context, ownerID uuid.UUID, vertical models.Vertical, page, limit int) ([]models.Gallery, int64, error) {
	return s.galleryRepo.ListByOwner(ctx, ownerID, vertical, pageOffset(page, limit), limit)
}

func (s *GalleryServiceImpl) GetGallery(ctx context.Context, p services.Principal, galleryID uuid.UUID) (*models.Gallery, error) {
	return loadGallery(ctx, s.galleryRepo, p, galleryID)
}

func (s *GalleryServiceImpl) GrantAccess(ctx context.Context, galleryID uuid.UUID, accessCode string) (string, time.Time, error) {
	gallery, err := s.galleryRepo.GetByID(ctx, galleryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", time.Time{}, services.ErrGalleryNotFound
		}
		return "", time.Time{}, err
	}

	if gallery.AccessCodeHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(gallery.AccessCodeHash), []byte(accessCode)) != nil {
		logger.GalleryError("grant_access", "Invalid access code", services.ErrInvalidAccessCode, map[string]interface{}{
			"gallery_id": galleryID.String(),
		})
		return "", time.Time{}, services.ErrInvalidAccessCode
	}

	token, err := utils.GenerateToken(utils.JWTClaims{
		Role:      utils.RoleClient,
		GalleryID: gallery.ID.String(),
	}, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.record(ctx, gallery.ID, utils.RoleClient, models.ActivityGalleryOpened, "Client opened the gallery", models.ActivityDetails{})
	logger.Gallery("grant_access", "Client token issued", map[string]interface{}{
		"gallery_id": galleryID.String(),
	})
	return token, time.Now().Add(s.tokenTTL), nil
}

func (s *GalleryServiceImpl) AddPhotos(ctx context.Context, p services.Principal, galleryID uuid.UUID, uploads []dto.PhotoUpload) ([]models.Photo, error) {
	if p.Client {
		return nil, services.ErrForbidden
	}
	if _, err := loadGallery(ctx, s.galleryRepo, p, galleryID); err != nil {
		return nil, err
	}

	position, err := s.photoRepo.NextPosition(ctx, galleryID)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo order: %w", err)
	}

	rows := make([]*models.Photo, len(uploads))
	names := make([]string, len(uploads))
	for i := range uploads {
		rows[i] = dto.PhotoUploadToModel(galleryID, position+i, &uploads[i])
		if len(uploads[i].Embedding) > 0 {
			v := pgvector.NewVector(uploads[i].Embedding)
			rows[i].Embedding = &v
		}
		names[i] = uploads[i].FileName
	}

	if err := s.photoRepo.CreateBatch(ctx, rows); err != nil {
		logger.GalleryError("add_photos", "Failed to register photos", err, map[string]interface{}{
			"gallery_id": galleryID.String(),
			"count":      len(rows),
		})
		return nil, fmt.Errorf("failed to add photos: %w", err)
	}

	s.record(ctx, galleryID, p.ActorID(), models.ActivityPhotosAdded,
		fmt.Sprintf("%d photo(s) added", len(rows)),
		models.ActivityDetails{Count: len(rows), FileNames: names})

	photos := make([]models.Photo, len(rows))
	for i, row := range rows {
		photos[i] = *row
	}
	return photos, nil
}

func (s *GalleryServiceImpl) DeleteGallery(ctx context.Context, p services.Principal, galleryID uuid.UUID) error {
	if p.Client {
		return services.ErrForbidden
	}
	if _, err := loadGallery(ctx, s.galleryRepo, p, galleryID); err != nil {
		return err
	}
	if err := s.galleryRepo.Delete(ctx, galleryID); err != nil {
		return fmt.Errorf("failed to delete gallery: %w", err)
	}
	logger.Gallery("delete", "Gallery deleted", map[string]interface{}{"gallery_id": galleryID.String()})
	return nil
}

// record writes an activity row. Failures are logged, never returned.
func (s *GalleryServiceImpl) record(ctx context.Context, galleryID uuid.UUID, actor string, kind models.ActivityType, message string, details models.ActivityDetails) {
	if s.activityRepo == nil {
		return
	}
	log := newActivity(galleryID, services.Principal{}, kind, message, details)
	log.ActorID = actor
	if err := s.activityRepo.Create(ctx, log); err != nil {
		logger.GalleryError("record_activity", "Failed to record activity", err, map[string]interface{}{
			"gallery_id": galleryID.String(),
			"type":       string(kind),
		})
	}
}
