package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"photo-triage/pkg/config"
)

// ErrUnverifiedEmail is returned for Google accounts whose address is not
// verified; such an address could claim someone else's photographer account.
var ErrUnverifiedEmail = errors.New("google account email is not verified")

// GoogleOAuth signs photographers in with their Google account.
type GoogleOAuth struct {
	config     *oauth2.Config
	httpClient *http.Client
	// apiEndpoint overrides the userinfo API base URL in tests.
	apiEndpoint string
}

type GoogleUserInfo struct {
	ID         string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Picture    string
}

func NewGoogleOAuth(cfg config.GoogleOAuthConfig) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oauth2api.OpenIDScope, oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetAuthURL returns the consent page URL carrying state.
func (g *GoogleOAuth) GetAuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *GoogleOAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// GetUserInfo reads the signed-in account through the userinfo API.
func (g *GoogleOAuth) GetUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	opts := []option.ClientOption{option.WithHTTPClient(g.config.Client(ctx, token))}
	if g.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(g.apiEndpoint))
	}

	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	if info.Id == "" {
		return nil, errors.New("invalid user info: missing ID")
	}
	if info.VerifiedEmail == nil || !*info.VerifiedEmail {
		return nil, ErrUnverifiedEmail
	}

	return &GoogleUserInfo{
		ID:         info.Id,
		Email:      info.Email,
		Name:       info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		Picture:    info.Picture,
	}, nil
}

func (g *GoogleOAuth) ValidateConfig() error {
	var missing []error
	if g.config.ClientID == "" {
		missing = append(missing, errors.New("GOOGLE_CLIENT_ID is not configured"))
	}
	if g.config.ClientSecret == "" {
		missing = append(missing, errors.New("GOOGLE_CLIENT_SECRET is not configured"))
	}
	if g.config.RedirectURL == "" {
		missing = append(missing, errors.New("GOOGLE_REDIRECT_URL is not configured"))
	}
	return errors.Join(missing...)
}
