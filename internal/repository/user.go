package repository

import (
	"context"
	"errors"

	"blogapi/internal/cache"
	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context, nameContains string) ([]*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateUserName(ctx context.Context, id uint, userName string) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context, nameContains string) ([]*models.User, error) {
	defer observability.TrackQuery("list", "users")()

	var users []*models.User
	q := readDB(r.db).WithContext(ctx).Model(&models.User{})
	if !blank(nameContains) {
		q = q.Where(columnContains("user_name"), containsPattern(nameContains))
	}
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// GetByID serves from the cache when possible. The cached copy carries no password hash.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, "user", func() error {
		defer observability.TrackQuery("get", "users")()
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return lookupError(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUserName returns the oldest user with exactly this name, or nil when none exists.
func (r *userRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	defer observability.TrackQuery("get_by_name", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("user_name = ?", userName).Order("id ASC").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	defer observability.TrackQuery("exists", "users")()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("insert", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateUserName touches only user_name so the stored password hash is never rewritten.
func (r *userRepository) UpdateUserName(ctx context.Context, id uint, userName string) error {
	defer observability.TrackQuery("update", "users")()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("user_name", userName)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// Delete removes the user row only. Posts and comments by the user are left in place.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "users")()

	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}
