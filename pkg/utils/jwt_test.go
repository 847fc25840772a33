package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidate_Photographer(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(JWTClaims{UserID: id.String(), Username: "ana", Role: RolePhotographer}, testSecret, time.Hour)
	require.NoError(t, err)

	user, err := ValidateTokenStringToUUID("Bearer "+token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.False(t, user.IsClient())
	assert.Equal(t, id.String(), user.ActorID())
}

func TestGenerateAndValidate_Client(t *testing.T) {
	galleryID := uuid.New()
	token, err := GenerateToken(JWTClaims{Role: RoleClient, GalleryID: galleryID.String()}, testSecret, time.Hour)
	require.NoError(t, err)

	user, err := ValidateTokenStringToUUID(token, testSecret)
	require.NoError(t, err)
	assert.True(t, user.IsClient())
	assert.Equal(t, galleryID, user.GalleryID)
	assert.Equal(t, uuid.Nil, user.ID)
	assert.Equal(t, RoleClient, user.ActorID())
}

func TestValidate_Errors(t *testing.T) {
	_, err := ValidateTokenStringToUUID("", testSecret)
	assert.ErrorIs(t, err, ErrMissingToken)

	expired, err := GenerateToken(JWTClaims{UserID: uuid.NewString()}, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateTokenStringToUUID(expired, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other, err := GenerateToken(JWTClaims{UserID: uuid.NewString()}, "other", time.Hour)
	require.NoError(t, err)
	_, err = ValidateTokenStringToUUID(other, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID:           uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ValidateTokenStringToUUID(foreign, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noGallery, err := GenerateToken(JWTClaims{Role: RoleClient}, testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ValidateTokenStringToUUID(noGallery, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer abc"))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, ExtractTokenFromHeader("Bearer a b"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}
