package service

import (
	"context"
	"testing"

	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost_UnknownUser(t *testing.T) {
	t.Parallel()

	created := false
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, _ *models.Post) error {
		created = true
		return nil
	}
	userRepo := noopUserRepo()
	userRepo.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }

	svc := NewPostService(postRepo, userRepo, nil)
	_, err := svc.CreatePost(context.Background(), models.CreatePostDto{Title: "t", Body: "b", UserID: 42})

	appErr := assertAppError(t, err, models.CodeValidation)
	assert.Equal(t, "User with id 42 not found.", appErr.Message)
	assert.False(t, created)
}

func TestPostService_CreatePost_Success(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 9
		return nil
	}

	svc := NewPostService(postRepo, noopUserRepo(), nil)
	dto, err := svc.CreatePost(context.Background(), models.CreatePostDto{Title: "Hello", Body: "World", UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.PostDto{ID: 9, Title: "Hello", Body: "World", UserID: 1}, *dto)
}

func TestPostService_ListPosts_PassesFilter(t *testing.T) {
	t.Parallel()

	uid := uint(3)
	postRepo := noopPostRepo()
	postRepo.listFn = func(_ context.Context, f models.PostFilter) ([]*models.Post, error) {
		assert.Equal(t, "go", f.TitleContains)
		assert.Equal(t, &uid, f.UserID)
		return []*models.Post{{ID: 1, Title: "go", UserID: 3}}, nil
	}

	posts, err := NewPostService(postRepo, noopUserRepo(), nil).
		ListPosts(context.Background(), models.PostFilter{TitleContains: "go", UserID: &uid})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, uint(3), posts[0].UserID)
}

func TestPostService_UpdatePost_OnlyTitleAndBody(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.updateFn = func(_ context.Context, id uint, title, body string) error {
		assert.Equal(t, uint(4), id)
		assert.Equal(t, "new title", title)
		assert.Equal(t, "new body", body)
		return nil
	}

	svc := NewPostService(postRepo, noopUserRepo(), nil)
	require.NoError(t, svc.UpdatePost(context.Background(), 4, models.UpdatePostDto{Title: "new title", Body: "new body"}))
}

func TestPostService_DeletePost_NotFound(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.deleteFn = func(_ context.Context, id uint) error { return models.NewNotFoundError("Post", id) }

	err := NewPostService(postRepo, noopUserRepo(), nil).DeletePost(context.Background(), 8)
	assertAppError(t, err, models.CodeNotFound)
}
