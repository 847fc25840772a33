package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"photo-triage/pkg/config"
)

func userinfoServer(t *testing.T, body string) *GoogleOAuth {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth2/v2/userinfo", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g := NewGoogleOAuth(config.GoogleOAuthConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	g.apiEndpoint = srv.URL + "/"
	return g
}

func TestGetUserInfo(t *testing.T) {
	g := userinfoServer(t, `{"id":"g-42","email":"mia@example.com","verified_email":true,"given_name":"Mia","picture":"https://lh3/p.jpg"}`)

	info, err := g.GetUserInfo(context.Background(), &oauth2.Token{AccessToken: "access-1", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "g-42", info.ID)
	assert.Equal(t, "Mia", info.GivenName)
	assert.Equal(t, "https://lh3/p.jpg", info.Picture)
}

func TestGetUserInfo_UnverifiedEmail(t *testing.T) {
	g := userinfoServer(t, `{"id":"g-42","email":"mia@example.com","verified_email":false}`)

	_, err := g.GetUserInfo(context.Background(), &oauth2.Token{AccessToken: "access-1", TokenType: "Bearer"})
	assert.ErrorIs(t, err, ErrUnverifiedEmail)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, NewGoogleOAuth(config.GoogleOAuthConfig{ClientID: "a", ClientSecret: "b", RedirectURL: "c"}).ValidateConfig())

	err := NewGoogleOAuth(config.GoogleOAuthConfig{ClientID: "a"}).ValidateConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "GOOGLE_REDIRECT_URL")
}
