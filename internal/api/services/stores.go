package services

import (
	"context"
	"time"

	"github.com/rohits-web03/evently/internal/models"
)

// Persistence contracts, satisfied by the gorm repositories.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindActive(ctx context.Context, id uint) (*models.User, error)
	FindAny(ctx context.Context, id uint) (*models.User, error)
	FindByEmailAny(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, includeDeleted bool) ([]models.User, error)
	SetDeletedAt(ctx context.Context, id uint, at *time.Time) error
	SaveLoginHistory(ctx context.Context, u *models.User) error
}

type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	FindActive(ctx context.Context, id uint) (*models.Event, error)
	FindAny(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, includeDeleted bool) ([]models.Event, error)
	ListByCreator(ctx context.Context, userID uint) ([]models.Event, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	SetDeletedAt(ctx context.Context, id uint, at *time.Time) error
}

type ParticipantStore interface {
	Add(ctx context.Context, eventID, userID uint) error
	Remove(ctx context.Context, eventID, userID uint) error
	Exists(ctx context.Context, eventID, userID uint) (bool, error)
	UserIDs(ctx context.Context, eventID uint) ([]uint, error)
	Users(ctx context.Context, eventID uint) ([]models.UserSummary, error)
}

type PosterStorage interface {
	PresignPut(ctx context.Context, key string, expires time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}
