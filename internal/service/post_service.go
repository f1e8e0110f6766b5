package service

import (
	"context"
	"fmt"

	"blogapi/internal/models"
	"blogapi/internal/notifications"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	notifier *notifications.Notifier
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *PostService) ListPosts(ctx context.Context, filter models.PostFilter) (_ []models.PostDto, err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.ListPosts")
	defer func() { end(err) }()

	posts, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]models.PostDto, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ToDto())
	}
	return out, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (_ *models.PostDto, err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.GetPost", attribute.Int64("post.id", int64(id)))
	defer func() { end(err) }()

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := post.ToDto()
	return &dto, nil
}

// CreatePost requires the author to exist; nothing is written otherwise.
func (s *PostService) CreatePost(ctx context.Context, in models.CreatePostDto) (_ *models.PostDto, err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.CreatePost", attribute.Int64("user.id", int64(in.UserID)))
	defer func() { end(err) }()

	if err := requireUser(ctx, s.userRepo, in.UserID); err != nil {
		return nil, err
	}

	post := &models.Post{Title: in.Title, Body: in.Body, UserID: in.UserID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	dto := post.ToDto()
	s.notifier.Emit(ctx, notifications.Event{
		Type:     notifications.EventPostCreated,
		EntityID: post.ID,
		UserID:   post.UserID,
		Payload:  dto,
	})
	return &dto, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id uint, in models.UpdatePostDto) (err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.UpdatePost", attribute.Int64("post.id", int64(id)))
	defer func() { end(err) }()

	if err := s.postRepo.Update(ctx, id, in.Title, in.Body); err != nil {
		return err
	}
	s.notifier.Emit(ctx, notifications.Event{Type: notifications.EventPostUpdated, EntityID: id, Payload: in})
	return nil
}

func (s *PostService) DeletePost(ctx context.Context, id uint) (err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.DeletePost", attribute.Int64("post.id", int64(id)))
	defer func() { end(err) }()

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Emit(ctx, notifications.Event{Type: notifications.EventPostDeleted, EntityID: id})
	return nil
}

func requireUser(ctx context.Context, users repository.UserRepository, id uint) error {
	ok, err := users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewValidationError(fmt.Sprintf("User with id %d not found.", id))
	}
	return nil
}

func requirePost(ctx context.Context, posts repository.PostRepository, id uint) error {
	ok, err := posts.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewValidationError(fmt.Sprintf("Post with id %d not found.", id))
	}
	return nil
}
