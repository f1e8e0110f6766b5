package repository

import (
	"context"

	"blogapi/internal/cache"
	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	List(ctx context.Context, filter models.CommentFilter) ([]*models.Comment, error)
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateBody(ctx context.Context, id uint, body string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) List(ctx context.Context, filter models.CommentFilter) ([]*models.Comment, error) {
	defer observability.TrackQuery("list", "comments")()

	db := readDB(r.db).WithContext(ctx)
	q := db.Model(&models.Comment{})
	if filter.PostID != nil {
		q = q.Where("post_id = ?", *filter.PostID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if !blank(filter.UserName) {
		q = q.Where("user_id IN (?)", userNameSubquery(db, filter.UserName))
	}

	var comments []*models.Comment
	if err := q.Order("id ASC").Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	key := cache.CommentKey(id)

	err := cache.Aside(ctx, key, &comment, cache.CommentTTL, "comment", func() error {
		defer observability.TrackQuery("get", "comments")()
		if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
			return lookupError(err, "Comment", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", "comments")()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) UpdateBody(ctx context.Context, id uint, body string) error {
	defer observability.TrackQuery("update", "comments")()

	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("body", body)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	cache.InvalidateComment(ctx, id)
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "comments")()

	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	cache.InvalidateComment(ctx, id)
	return nil
}
