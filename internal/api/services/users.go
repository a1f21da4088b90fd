package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohits-web03/evently/internal/cache"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/models"
	"github.com/rohits-web03/evently/internal/repositories"
)

type UserService struct {
	users  UserStore
	events EventStore
	cache  cache.UserCache
	log    logging.Logger
}

func NewUserService(users UserStore, events EventStore, c cache.UserCache, log logging.Logger) *UserService {
	return &UserService{users: users, events: events, cache: c, log: log}
}

func (s *UserService) List(ctx context.Context, includeDeleted bool) ([]models.UserProfile, error) {
	users, err := s.users.List(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]models.UserProfile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out, nil
}

func (s *UserService) findActive(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.FindActive(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *UserService) findAny(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.FindAny(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Get returns an active user.
func (s *UserService) Get(ctx context.Context, id uint) (models.UserProfile, error) {
	u, err := s.findActive(ctx, id)
	if err != nil {
		return models.UserProfile{}, err
	}
	return u.Profile(), nil
}

// IsActive reports whether the account exists and is not soft-deleted.
func (s *UserService) IsActive(ctx context.Context, id uint) (bool, error) {
	_, err := s.findActive(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Info returns the public summary of any user, active or not, through the cache.
func (s *UserService) Info(ctx context.Context, id uint) (models.UserSummary, error) {
	summary, err := s.cache.Get(ctx, id)
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn(ctx, "user cache read failed", "user_id", id, "error", err)
	}

	u, err := s.findAny(ctx, id)
	if err != nil {
		return models.UserSummary{}, err
	}
	summary = u.Summary()
	if err := s.cache.Set(ctx, summary); err != nil {
		s.log.Warn(ctx, "user cache write failed", "user_id", id, "error", err)
	}
	return summary, nil
}

// CreatedEvents lists the active events a user created.
func (s *UserService) CreatedEvents(ctx context.Context, id uint) ([]models.EventView, error) {
	if _, err := s.findAny(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.events.ListByCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list created events: %w", err)
	}
	return eventViews(events), nil
}

// Delete soft-deletes the user and returns the deletion timestamp.
func (s *UserService) Delete(ctx context.Context, id uint) (time.Time, error) {
	if _, err := s.findAny(ctx, id); err != nil {
		return time.Time{}, err
	}
	now := time.Now().UTC()
	if err := s.users.SetDeletedAt(ctx, id, &now); err != nil {
		return time.Time{}, fmt.Errorf("delete user: %w", err)
	}
	s.evict(ctx, id)
	s.log.Info(ctx, "user deleted", "user_id", id)
	return now, nil
}

// Restore clears the deletion marker. alreadyActive is true, and nothing is
// written, when the user was not deleted.
func (s *UserService) Restore(ctx context.Context, id uint) (summary models.UserSummary, alreadyActive bool, err error) {
	u, err := s.findAny(ctx, id)
	if err != nil {
		return models.UserSummary{}, false, err
	}
	if !u.DeletedAt.Valid {
		return u.Summary(), true, nil
	}
	if err := s.users.SetDeletedAt(ctx, id, nil); err != nil {
		return models.UserSummary{}, false, fmt.Errorf("restore user: %w", err)
	}
	s.evict(ctx, id)

	u, err = s.findActive(ctx, id)
	if err != nil {
		return models.UserSummary{}, false, err
	}
	s.log.Info(ctx, "user restored", "user_id", id)
	return u.Summary(), false, nil
}

func (s *UserService) evict(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn(ctx, "user cache evict failed", "user_id", id, "error", err)
	}
}
