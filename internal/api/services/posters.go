package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/evently/internal/models"
)

const posterURLExpiry = 15 * time.Minute

type PosterUpload struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn string `json:"expiresIn"`
}

func posterPrefix(eventID uint) string {
	return fmt.Sprintf("events/%d/poster/", eventID)
}

func (s *EventService) ownedActive(ctx context.Context, actorID, eventID uint) (*models.Event, error) {
	e, err := s.findActive(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.CreatedBy != actorID {
		return nil, ErrNotEventOwner
	}
	return e, nil
}

// PresignPoster returns an upload URL for a new poster object of the event.
func (s *EventService) PresignPoster(ctx context.Context, actorID, eventID uint) (PosterUpload, error) {
	if s.posters == nil {
		return PosterUpload{}, ErrStorageDisabled
	}
	if _, err := s.ownedActive(ctx, actorID, eventID); err != nil {
		return PosterUpload{}, err
	}

	key := posterPrefix(eventID) + uuid.NewString()
	url, err := s.posters.PresignPut(ctx, key, posterURLExpiry)
	if err != nil {
		return PosterUpload{}, fmt.Errorf("presign poster upload: %w", err)
	}
	return PosterUpload{Key: key, URL: url, ExpiresIn: posterURLExpiry.String()}, nil
}

// AttachPoster records an uploaded object as the event's poster.
func (s *EventService) AttachPoster(ctx context.Context, actorID, eventID uint, key string) (models.EventView, error) {
	if s.posters == nil {
		return models.EventView{}, ErrStorageDisabled
	}
	if !strings.HasPrefix(key, posterPrefix(eventID)) || len(key) == len(posterPrefix(eventID)) {
		return models.EventView{}, fmt.Errorf("%w: poster key does not belong to this event", ErrInvalidInput)
	}
	if _, err := s.ownedActive(ctx, actorID, eventID); err != nil {
		return models.EventView{}, err
	}

	ok, err := s.posters.Exists(ctx, key)
	if err != nil {
		return models.EventView{}, fmt.Errorf("check poster object: %w", err)
	}
	if !ok {
		return models.EventView{}, ErrPosterNotUploaded
	}

	if err := s.events.Update(ctx, eventID, map[string]any{"poster_key": key}); err != nil {
		return models.EventView{}, fmt.Errorf("attach poster: %w", err)
	}
	e, err := s.findActive(ctx, eventID)
	if err != nil {
		return models.EventView{}, err
	}
	return e.View(), nil
}

// PosterURL returns a short-lived download URL for the event's poster.
func (s *EventService) PosterURL(ctx context.Context, eventID uint) (string, error) {
	if s.posters == nil {
		return "", ErrStorageDisabled
	}
	e, err := s.findAny(ctx, eventID)
	if err != nil {
		return "", err
	}
	if e.PosterKey == nil {
		return "", ErrPosterNotFound
	}
	url, err := s.posters.PresignGet(ctx, *e.PosterKey, posterURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign poster download: %w", err)
	}
	return url, nil
}
