package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rohits-web03/evently/internal/config"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/models"
	"github.com/rohits-web03/evently/internal/repositories"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	FlowLogin    = "login"
	FlowRegister = "register"

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type googleUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleAuth signs users in with their Google account and issues the same
// bearer tokens as password login.
type GoogleAuth struct {
	oauth       *oauth2.Config
	userInfoURL string
	auth        *AuthService
	log         logging.Logger
}

func NewGoogleOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// NewGoogleAuth returns nil when the OAuth client is not configured.
func NewGoogleAuth(oauth *oauth2.Config, auth *AuthService, log logging.Logger) *GoogleAuth {
	if oauth == nil || oauth.ClientID == "" {
		return nil
	}
	return &GoogleAuth{oauth: oauth, userInfoURL: googleUserInfoURL, auth: auth, log: log}
}

// AuthCodeURL returns the consent page URL for the given flow and the state
// embedded in it. Callers keep the state to check it on the callback.
func (g *GoogleAuth) AuthCodeURL(flow string) (url, state string, err error) {
	if g == nil {
		return "", "", ErrOAuthDisabled
	}
	state, err = newState(flow)
	if err != nil {
		return "", "", err
	}
	return g.oauth.AuthCodeURL(state), state, nil
}

// Callback exchanges the code, then logs in or registers the Google account.
// It returns the flow that was requested alongside the login result.
func (g *GoogleAuth) Callback(ctx context.Context, state, code string) (LoginResult, string, error) {
	if g == nil {
		return LoginResult{}, "", ErrOAuthDisabled
	}
	parsed, err := parseState(state)
	if err != nil {
		return LoginResult{}, "", err
	}
	flow := parsed.Flow

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return LoginResult{}, flow, fmt.Errorf("code exchange failed: %w", err)
	}
	profile, err := g.fetchUser(ctx, token)
	if err != nil {
		return LoginResult{}, flow, err
	}

	email := normalizeEmail(profile.Email)
	existing, err := g.auth.users.FindByEmailAny(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return LoginResult{}, flow, fmt.Errorf("lookup user: %w", err)
	}

	switch flow {
	case FlowRegister:
		if existing != nil {
			return LoginResult{}, flow, ErrEmailTaken
		}
		existing, err = g.register(ctx, profile.Name, email)
		if err != nil {
			return LoginResult{}, flow, err
		}
	default:
		if existing == nil {
			return LoginResult{}, flow, ErrUserNotFound
		}
		if existing.DeletedAt.Valid {
			return LoginResult{}, flow, ErrAccountDeactivated
		}
	}

	result, err := g.auth.issue(existing)
	return result, flow, err
}

func (g *GoogleAuth) fetchUser(ctx context.Context, token *oauth2.Token) (googleUser, error) {
	var profile googleUser
	client := g.oauth.Client(ctx, token)
	resp, err := client.Get(g.userInfoURL)
	if err != nil {
		return profile, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return profile, fmt.Errorf("failed to get user info: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return profile, fmt.Errorf("failed to read user info: %w", err)
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse user info: %w", err)
	}
	if profile.Email == "" {
		return profile, fmt.Errorf("%w: google account has no email", ErrInvalidInput)
	}
	return profile, nil
}

// register creates an account with an unusable random password.
func (g *GoogleAuth) register(ctx context.Context, name, email string) (*models.User, error) {
	if name == "" {
		name = email
	}
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}
	hash, err := g.auth.hashPassword(rand.Text())
	if err != nil {
		return nil, err
	}
	u := &models.User{Name: name, Email: email, Password: hash}
	if err := g.auth.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	g.log.Info(ctx, "user registered with google", "user_id", u.ID)
	return u, nil
}
