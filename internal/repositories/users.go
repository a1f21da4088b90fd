package repositories

import (
	"context"
	"time"

	"github.com/rohits-web03/evently/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

// FindActive returns a user that is not soft-deleted.
func (r *UserRepository) FindActive(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindAny returns a user in any lifecycle state.
func (r *UserRepository) FindAny(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Unscoped().First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByEmailAny looks up an account by email including soft-deleted ones.
func (r *UserRepository) FindByEmailAny(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Unscoped().Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, includeDeleted bool) ([]models.User, error) {
	q := r.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var users []models.User
	if err := q.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetDeletedAt writes the soft-delete marker; nil clears it.
func (r *UserRepository) SetDeletedAt(ctx context.Context, id uint, at *time.Time) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&models.User{}).Where("id = ?", id).Update("deleted_at", deletedAtValue(at))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) SaveLoginHistory(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Unscoped().Model(u).Select("LoginHistory").Updates(u).Error
}
