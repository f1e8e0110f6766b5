package service

import (
	"context"
	"errors"
	"testing"

	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	listFn           func(context.Context, string) ([]*models.User, error)
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByUserNameFn  func(context.Context, string) (*models.User, error)
	existsFn         func(context.Context, uint) (bool, error)
	createFn         func(context.Context, *models.User) error
	updateUserNameFn func(context.Context, uint, string) error
	deleteFn         func(context.Context, uint) error
}

func (s *userRepoStub) List(ctx context.Context, nameContains string) ([]*models.User, error) {
	return s.listFn(ctx, nameContains)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return s.getByUserNameFn(ctx, userName)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateUserName(ctx context.Context, id uint, userName string) error {
	return s.updateUserNameFn(ctx, id, userName)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		listFn:           func(_ context.Context, _ string) ([]*models.User, error) { return nil, nil },
		getByIDFn:        func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUserNameFn:  func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		existsFn:         func(_ context.Context, _ uint) (bool, error) { return true, nil },
		createFn:         func(_ context.Context, _ *models.User) error { return nil },
		updateUserNameFn: func(_ context.Context, _ uint, _ string) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	listFn    func(context.Context, models.PostFilter) ([]*models.Post, error)
	getByIDFn func(context.Context, uint) (*models.Post, error)
	existsFn  func(context.Context, uint) (bool, error)
	createFn  func(context.Context, *models.Post) error
	updateFn  func(context.Context, uint, string, string) error
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Update(ctx context.Context, id uint, title, body string) error {
	return s.updateFn(ctx, id, title, body)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		listFn:    func(_ context.Context, _ models.PostFilter) ([]*models.Post, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		existsFn:  func(_ context.Context, _ uint) (bool, error) { return true, nil },
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		updateFn:  func(_ context.Context, _ uint, _, _ string) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	listFn       func(context.Context, models.CommentFilter) ([]*models.Comment, error)
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	createFn     func(context.Context, *models.Comment) error
	updateBodyFn func(context.Context, uint, string) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) List(ctx context.Context, filter models.CommentFilter) ([]*models.Comment, error) {
	return s.listFn(ctx, filter)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) UpdateBody(ctx context.Context, id uint, body string) error {
	return s.updateBodyFn(ctx, id, body)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		listFn:       func(_ context.Context, _ models.CommentFilter) ([]*models.Comment, error) { return nil, nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		updateBodyFn: func(_ context.Context, _ uint, _ string) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}
