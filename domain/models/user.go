package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a photographer account. Clients never get a User row; they
// hold a gallery-scoped token instead.
type User struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email      string    `gorm:"uniqueIndex;not null"`
	Username   string    `gorm:"uniqueIndex;not null"`
	Password   string    // Optional for OAuth users
	FirstName  string
	LastName   string
	Avatar     string
	Role       string `gorm:"default:'photographer'"`
	IsActive   bool   `gorm:"default:true"`
	Provider   string `gorm:"default:'local'"` // local, google
	ProviderID string
	LastLogin  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Galleries []Gallery `gorm:"foreignKey:OwnerID"`
}

func (User) TableName() string {
	return "users"
}
