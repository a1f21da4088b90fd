package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rohits-web03/evently/internal/cache"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/models"
	"github.com/rohits-web03/evently/internal/notify"
	"github.com/rohits-web03/evently/internal/repositories"
	"github.com/rohits-web03/evently/internal/testing/testdb"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NewDeviceLogin(ctx context.Context, a notify.NewDeviceAlert) error {
	return m.Called(a).Error(0)
}

// memCache is an in-process UserCache used to observe cache traffic.
type memCache struct {
	mu    sync.Mutex
	items map[uint]models.UserSummary
	hits  int
}

func newMemCache() *memCache {
	return &memCache{items: map[uint]models.UserSummary{}}
}

func (c *memCache) Get(_ context.Context, id uint) (models.UserSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.items[id]
	if !ok {
		return u, cache.ErrMiss
	}
	c.hits++
	return u, nil
}

func (c *memCache) Set(_ context.Context, u models.UserSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[u.ID] = u
	return nil
}

func (c *memCache) Delete(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

type fixture struct {
	users        *repositories.UserRepository
	events       *repositories.EventRepository
	participants *repositories.ParticipantRepository
	notifier     *mockNotifier
	cache        *memCache
	tokens       *TokenIssuer

	Auth   *AuthService
	Users  *UserService
	Events *EventService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	log := logging.Discard()

	f := &fixture{
		users:        repositories.NewUserRepository(db),
		events:       repositories.NewEventRepository(db),
		participants: repositories.NewParticipantRepository(db),
		notifier:     new(mockNotifier),
		cache:        newMemCache(),
		tokens:       NewTokenIssuer("test-secret", 24*time.Hour),
	}
	f.Auth = NewAuthService(f.users, f.tokens, f.notifier, log, WithBcryptCost(bcrypt.MinCost))
	f.Users = NewUserService(f.users, f.events, f.cache, log)
	f.Events = NewEventService(f.events, f.users, f.participants, nil, log)
	return f
}

func (f *fixture) register(t *testing.T, name, email string) models.UserSummary {
	t.Helper()
	u, err := f.Auth.Register(context.Background(), RegisterInput{Email: email, Name: name, Password: "secret123"})
	require.NoError(t, err)
	return u
}

func (f *fixture) createEvent(t *testing.T, creatorID uint, title, date string) models.EventView {
	t.Helper()
	e, err := f.Events.Create(context.Background(), creatorID, EventInput{Title: &title, Date: &date})
	require.NoError(t, err)
	return e
}

func strPtr(s string) *string { return &s }
