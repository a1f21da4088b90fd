package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/models"
	"github.com/rohits-web03/evently/internal/repositories"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// EventInput carries create and update fields; nil means "not provided".
type EventInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

type SubscriptionResult struct {
	EventID          uint   `json:"eventId"`
	SubscribersCount int    `json:"subscribersCount"`
	Subscribers      []uint `json:"subscribers"`
}

type ParticipantsResult struct {
	EventID           uint                 `json:"eventId"`
	EventTitle        string               `json:"eventTitle"`
	Participants      []models.UserSummary `json:"participants"`
	ParticipantsCount int                  `json:"participantsCount"`
}

type EventService struct {
	events       EventStore
	users        UserStore
	participants ParticipantStore
	posters      PosterStorage
	log          logging.Logger
}

// NewEventService wires the event operations. posters may be nil, in which
// case poster operations return ErrStorageDisabled.
func NewEventService(events EventStore, users UserStore, participants ParticipantStore, posters PosterStorage, log logging.Logger) *EventService {
	return &EventService{events: events, users: users, participants: participants, posters: posters, log: log}
}

func eventViews(events []models.Event) []models.EventView {
	out := make([]models.EventView, 0, len(events))
	for i := range events {
		out = append(out, events[i].View())
	}
	return out
}

func parseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date must be an ISO 8601 date or date-time", ErrInvalidInput)
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, models.MaxTitleLength)
	}
	return title, nil
}

func (s *EventService) findActive(ctx context.Context, id uint) (*models.Event, error) {
	e, err := s.events.FindActive(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return e, nil
}

func (s *EventService) findAny(ctx context.Context, id uint) (*models.Event, error) {
	e, err := s.events.FindAny(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return e, nil
}

func (s *EventService) List(ctx context.Context, includeDeleted bool) ([]models.EventView, error) {
	events, err := s.events.List(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return eventViews(events), nil
}

// Get returns an event in any lifecycle state.
func (s *EventService) Get(ctx context.Context, id uint) (models.EventView, error) {
	e, err := s.findAny(ctx, id)
	if err != nil {
		return models.EventView{}, err
	}
	return e.View(), nil
}

func (s *EventService) Create(ctx context.Context, creatorID uint, in EventInput) (models.EventView, error) {
	if in.Title == nil || in.Date == nil {
		return models.EventView{}, fmt.Errorf("%w: title and date are required", ErrInvalidInput)
	}
	title, err := validateTitle(*in.Title)
	if err != nil {
		return models.EventView{}, err
	}
	date, err := parseEventDate(*in.Date)
	if err != nil {
		return models.EventView{}, err
	}

	if _, err := s.users.FindActive(ctx, creatorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.EventView{}, ErrUserNotFound
		}
		return models.EventView{}, fmt.Errorf("find creator: %w", err)
	}

	e := &models.Event{Title: title, Date: date, CreatedBy: creatorID}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		desc := *in.Description
		e.Description = &desc
	}
	if err := s.events.Create(ctx, e); err != nil {
		return models.EventView{}, fmt.Errorf("create event: %w", err)
	}
	s.log.Info(ctx, "event created", "event_id", e.ID, "user_id", creatorID)

	created, err := s.findActive(ctx, e.ID)
	if err != nil {
		return models.EventView{}, err
	}
	return created.View(), nil
}

// Update changes the provided fields of an active event owned by actorID.
func (s *EventService) Update(ctx context.Context, actorID, id uint, in EventInput) (models.EventView, error) {
	e, err := s.findActive(ctx, id)
	if err != nil {
		return models.EventView{}, err
	}
	if e.CreatedBy != actorID {
		return models.EventView{}, ErrNotEventOwner
	}

	fields := map[string]any{}
	if in.Title != nil {
		title, err := validateTitle(*in.Title)
		if err != nil {
			return models.EventView{}, err
		}
		fields["title"] = title
	}
	if in.Description != nil && *in.Description != "" {
		fields["description"] = *in.Description
	}
	if in.Date != nil {
		date, err := parseEventDate(*in.Date)
		if err != nil {
			return models.EventView{}, err
		}
		fields["date"] = date
	}
	if len(fields) == 0 {
		return models.EventView{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if err := s.events.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.EventView{}, ErrEventNotFound
		}
		return models.EventView{}, fmt.Errorf("update event: %w", err)
	}

	updated, err := s.findActive(ctx, id)
	if err != nil {
		return models.EventView{}, err
	}
	return updated.View(), nil
}

// Delete soft-deletes an event owned by actorID and returns the timestamp.
func (s *EventService) Delete(ctx context.Context, actorID, id uint) (time.Time, error) {
	e, err := s.findAny(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	if e.CreatedBy != actorID {
		return time.Time{}, ErrNotEventOwner
	}

	now := time.Now().UTC()
	if err := s.events.SetDeletedAt(ctx, id, &now); err != nil {
		return time.Time{}, fmt.Errorf("delete event: %w", err)
	}
	s.log.Info(ctx, "event deleted", "event_id", id, "user_id", actorID)
	return now, nil
}

// Restore clears the deletion marker of an event owned by actorID.
// alreadyActive is true, and nothing is written, when it was not deleted.
func (s *EventService) Restore(ctx context.Context, actorID, id uint) (summary models.EventSummary, alreadyActive bool, err error) {
	e, err := s.findAny(ctx, id)
	if err != nil {
		return models.EventSummary{}, false, err
	}
	if e.CreatedBy != actorID {
		return models.EventSummary{}, false, ErrNotEventOwner
	}
	if !e.DeletedAt.Valid {
		return e.Summary(), true, nil
	}

	if err := s.events.SetDeletedAt(ctx, id, nil); err != nil {
		return models.EventSummary{}, false, fmt.Errorf("restore event: %w", err)
	}
	restored, err := s.findActive(ctx, id)
	if err != nil {
		return models.EventSummary{}, false, err
	}
	s.log.Info(ctx, "event restored", "event_id", id, "user_id", actorID)
	return restored.Summary(), false, nil
}

// Subscribe adds userID to the participants of an active event.
func (s *EventService) Subscribe(ctx context.Context, eventID, userID uint) (SubscriptionResult, error) {
	e, err := s.findActive(ctx, eventID)
	if err != nil {
		return SubscriptionResult{}, err
	}
	if _, err := s.users.FindActive(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return SubscriptionResult{}, ErrUserNotFound
		}
		return SubscriptionResult{}, fmt.Errorf("find user: %w", err)
	}
	if userID == e.CreatedBy {
		return SubscriptionResult{}, ErrSelfSubscription
	}

	exists, err := s.participants.Exists(ctx, eventID, userID)
	if err != nil {
		return SubscriptionResult{}, fmt.Errorf("check subscription: %w", err)
	}
	if exists {
		return SubscriptionResult{}, ErrAlreadySubscribed
	}
	if err := s.participants.Add(ctx, eventID, userID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return SubscriptionResult{}, ErrAlreadySubscribed
		}
		return SubscriptionResult{}, fmt.Errorf("subscribe: %w", err)
	}

	return s.subscriptionResult(ctx, eventID)
}

// Unsubscribe removes userID from the participants of an active event.
func (s *EventService) Unsubscribe(ctx context.Context, eventID, userID uint) (SubscriptionResult, error) {
	if _, err := s.findActive(ctx, eventID); err != nil {
		return SubscriptionResult{}, err
	}
	if err := s.participants.Remove(ctx, eventID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return SubscriptionResult{}, ErrNotSubscribed
		}
		return SubscriptionResult{}, fmt.Errorf("unsubscribe: %w", err)
	}
	return s.subscriptionResult(ctx, eventID)
}

func (s *EventService) subscriptionResult(ctx context.Context, eventID uint) (SubscriptionResult, error) {
	ids, err := s.participants.UserIDs(ctx, eventID)
	if err != nil {
		return SubscriptionResult{}, fmt.Errorf("list subscribers: %w", err)
	}
	return SubscriptionResult{EventID: eventID, SubscribersCount: len(ids), Subscribers: ids}, nil
}

// Participants resolves the subscribers of an event to public summaries.
func (s *EventService) Participants(ctx context.Context, eventID uint) (ParticipantsResult, error) {
	e, err := s.findAny(ctx, eventID)
	if err != nil {
		return ParticipantsResult{}, err
	}
	users, err := s.participants.Users(ctx, eventID)
	if err != nil {
		return ParticipantsResult{}, fmt.Errorf("list participants: %w", err)
	}
	return ParticipantsResult{
		EventID:           e.ID,
		EventTitle:        e.Title,
		Participants:      users,
		ParticipantsCount: len(users),
	}, nil
}
