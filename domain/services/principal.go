package services

import "github.com/google/uuid"

// Principal is whoever is calling: a photographer (UserID set) or a
// client holding a gallery-scoped token (GalleryID set).
type Principal struct {
	UserID    uuid.UUID
	GalleryID uuid.UUID
	Client    bool
}

// ActorID identifies the principal in the activity log.
func (p Principal) ActorID() string {
	if p.Client {
		return "client"
	}
	return p.UserID.String()
}
