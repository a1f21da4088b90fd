package repositories

import (
	"context"

	"github.com/rohits-web03/evently/internal/models"
	"gorm.io/gorm"
)

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Add inserts the (event, user) pair. ErrDuplicate when it already exists.
func (r *ParticipantRepository) Add(ctx context.Context, eventID, userID uint) error {
	p := models.EventParticipant{EventID: eventID, UserID: userID}
	return translate(r.db.WithContext(ctx).Create(&p).Error)
}

// Remove deletes the pair. ErrNotFound when the user was not subscribed.
func (r *ParticipantRepository) Remove(ctx context.Context, eventID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventParticipant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ParticipantRepository) Exists(ctx context.Context, eventID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&n).Error
	return n > 0, err
}

// UserIDs returns subscriber ids in subscription order.
func (r *ParticipantRepository) UserIDs(ctx context.Context, eventID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.EventParticipant{}).
		Where("event_id = ?", eventID).
		Order("created_at, id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Users resolves subscribers to public summaries in subscription order.
func (r *ParticipantRepository) Users(ctx context.Context, eventID uint) ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	err := r.db.WithContext(ctx).
		Table("event_participants AS p").
		Select("u.id, u.name, u.email").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("p.event_id = ?", eventID).
		Order("p.created_at, p.id").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
