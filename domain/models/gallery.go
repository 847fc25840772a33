package models

import (
	"time"

	"github.com/google/uuid"
)

// Vertical is the business line a gallery belongs to.
type Vertical string

const (
	VerticalEvents       Vertical = "events"
	VerticalFitness      Vertical = "fitness"
	VerticalMusicians    Vertical = "musicians"
	VerticalPhotography  Vertical = "photography"
	VerticalTeamBuilding Vertical = "team-building"
)

// Gallery is a set of photos delivered by one photographer to one client.
type Gallery struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Description string
	Vertical    Vertical `gorm:"type:varchar(30);not null;default:'photography';index"`
	ClientName  string
	ClientEmail string

	// bcrypt hash of the code the client uses to open the gallery
	AccessCodeHash string

	ShootDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Owner  User    `gorm:"foreignKey:OwnerID"`
	Photos []Photo `gorm:"foreignKey:GalleryID"`
}

func (Gallery) TableName() string {
	return "galleries"
}
