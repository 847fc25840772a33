package dto

import (
	"time"

	"github.com/google/uuid"

	"photo-triage/domain/models"
)

type CreateGalleryRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Vertical    string     `json:"vertical" validate:"required,oneof=events fitness musicians photography team-building"`
	ClientName  string     `json:"clientName" validate:"max=200"`
	ClientEmail string     `json:"clientEmail" validate:"omitempty,email"`
	AccessCode  string     `json:"accessCode" validate:"required,min=6,max=64"`
	ShootDate   *time.Time `json:"shootDate"`
}

type GalleryAccessRequest struct {
	AccessCode string `json:"accessCode" validate:"required"`
}

type GalleryAccessResponse struct {
	Token     string    `json:"token"`
	GalleryID uuid.UUID `json:"galleryId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type GalleryResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Vertical    string         `json:"vertical"`
	ClientName  string         `json:"clientName,omitempty"`
	ClientEmail string         `json:"clientEmail,omitempty"`
	ShootDate   *time.Time     `json:"shootDate,omitempty"`
	Stats       *StatsResponse `json:"stats,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func GalleryToResponse(g *models.Gallery, stats *models.GalleryStats) *GalleryResponse {
	resp := &GalleryResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Vertical:    string(g.Vertical),
		ClientName:  g.ClientName,
		ClientEmail: g.ClientEmail,
		ShootDate:   g.ShootDate,
		CreatedAt:   g.CreatedAt,
	}
	if stats != nil {
		s := StatsToResponse(stats)
		resp.Stats = &s
	}
	return resp
}

func GalleriesToResponse(galleries []models.Gallery) []*GalleryResponse {
	out := make([]*GalleryResponse, len(galleries))
	for i := range galleries {
		out[i] = GalleryToResponse(&galleries[i], nil)
	}
	return out
}
