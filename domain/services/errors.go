package services

import "errors"

var (
	ErrGalleryNotFound    = errors.New("gallery not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrPhotosNotInGallery = errors.New("one or more photos do not belong to this gallery")
	ErrForbidden          = errors.New("access to this gallery is not allowed")
	ErrInvalidAccessCode  = errors.New("invalid access code")
	ErrBatchTooLarge      = errors.New("too many photos in one batch")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrDriveNotConfigured = errors.New("google drive import is not configured")
	ErrDriveFolderAccess  = errors.New("drive folder not found or not shared by link")
)
