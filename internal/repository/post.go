package repository

import (
	"context"

	"blogapi/internal/cache"
	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id uint, title, body string) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List applies every non-empty filter field, ANDed, in id order.
func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	db := readDB(r.db).WithContext(ctx)
	q := db.Model(&models.Post{})
	if !blank(filter.TitleContains) {
		q = q.Where(columnContains("title"), containsPattern(filter.TitleContains))
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if !blank(filter.UserName) {
		q = q.Where("user_id IN (?)", userNameSubquery(db, filter.UserName))
	}

	var posts []*models.Post
	if err := q.Order("id ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, "post", func() error {
		defer observability.TrackQuery("get", "posts")()
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			return lookupError(err, "Post", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	defer observability.TrackQuery("exists", "posts")()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Update replaces title and body. user_id is never written after creation.
func (r *postRepository) Update(ctx context.Context, id uint, title, body string) error {
	defer observability.TrackQuery("update", "posts")()

	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "body": body})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
