package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/models"
	"github.com/rohits-web03/evently/internal/notify"
	"github.com/rohits-web03/evently/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const maxNameLength = 100

type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      models.UserSummary `json:"user"`
}

type AuthService struct {
	users      UserStore
	tokens     *TokenIssuer
	notifier   notify.Notifier
	log        logging.Logger
	bcryptCost int
}

type AuthOption func(*AuthService)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

func NewAuthService(users UserStore, tokens *TokenIssuer, notifier notify.Notifier, log logging.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		notifier:   notifier,
		log:        log,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && utf8.RuneCountInString(email) <= 100
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is too long", ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates an account. The email must not belong to any account,
// active or soft-deleted.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.UserSummary, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if email == "" || name == "" || in.Password == "" {
		return models.UserSummary{}, fmt.Errorf("%w: email, name and password are required", ErrInvalidInput)
	}
	if !validEmail(email) {
		return models.UserSummary{}, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return models.UserSummary{}, fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}

	_, err := s.users.FindByEmailAny(ctx, email)
	switch {
	case err == nil:
		return models.UserSummary{}, ErrEmailTaken
	case !errors.Is(err, repositories.ErrNotFound):
		return models.UserSummary{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return models.UserSummary{}, err
	}

	u := &models.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.UserSummary{}, ErrEmailTaken
		}
		return models.UserSummary{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u.Summary(), nil
}

// Login verifies credentials, records unseen devices and issues a token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	u, err := s.users.FindByEmailAny(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if u.DeletedAt.Valid {
		return LoginResult{}, ErrAccountDeactivated
	}

	s.recordDevice(ctx, u, in.IP, in.UserAgent)

	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (LoginResult, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: u.Summary()}, nil
}

// recordDevice prepends an unseen (ip, user-agent) pair to the login history
// and sends a security alert. Failures here never block the login.
func (s *AuthService) recordDevice(ctx context.Context, u *models.User, ip, userAgent string) {
	if ip == "" || userAgent == "" || u.KnowsDevice(ip, userAgent) {
		return
	}

	now := time.Now().UTC()
	u.RememberDevice(ip, userAgent, now)
	if err := s.users.SaveLoginHistory(ctx, u); err != nil {
		s.log.Error(ctx, "save login history", "user_id", u.ID, "error", err)
	}

	alert := notify.NewDeviceAlert{Email: u.Email, IP: ip, UserAgent: userAgent, At: now}
	if err := s.notifier.NewDeviceLogin(ctx, alert); err != nil {
		s.log.Warn(ctx, "security alert not sent", "user_id", u.ID, "error", err)
	}
}
