package repositories

import (
	"context"
	"time"

	"github.com/rohits-web03/evently/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// withRelations preloads the creator (even when soft-deleted) and the
// participants in subscription order.
func withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Creator", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") })
}

func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

// FindActive returns an event that is not soft-deleted, with relations.
func (r *EventRepository) FindActive(ctx context.Context, id uint) (*models.Event, error) {
	var e models.Event
	if err := withRelations(r.db.WithContext(ctx)).First(&e, id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// FindAny returns an event in any lifecycle state, with relations.
func (r *EventRepository) FindAny(ctx context.Context, id uint) (*models.Event, error) {
	var e models.Event
	if err := withRelations(r.db.WithContext(ctx).Unscoped()).First(&e, id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context, includeDeleted bool) ([]models.Event, error) {
	q := r.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var events []models.Event
	if err := withRelations(q).Order("date, id").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListByCreator returns the active events created by a user.
func (r *EventRepository) ListByCreator(ctx context.Context, userID uint) ([]models.Event, error) {
	var events []models.Event
	err := withRelations(r.db.WithContext(ctx)).
		Where("created_by = ?", userID).
		Order("date, id").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Update writes the given columns of an active event.
func (r *EventRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDeletedAt writes the soft-delete marker; nil clears it.
func (r *EventRepository) SetDeletedAt(ctx context.Context, id uint, at *time.Time) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&models.Event{}).Where("id = ?", id).Update("deleted_at", deletedAtValue(at))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
