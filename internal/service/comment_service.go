package service

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/notifications"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	notifier    *notifications.Notifier
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

func (s *CommentService) ListComments(ctx context.Context, filter models.CommentFilter) (_ []models.CommentDto, err error) {
	ctx, end := observability.StartSpan(ctx, "CommentService.ListComments")
	defer func() { end(err) }()

	comments, err := s.commentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]models.CommentDto, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ToDto())
	}
	return out, nil
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (_ *models.CommentDto, err error) {
	ctx, end := observability.StartSpan(ctx, "CommentService.GetComment", attribute.Int64("comment.id", int64(id)))
	defer func() { end(err) }()

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := comment.ToDto()
	return &dto, nil
}

// CreateComment checks the author first, then the post.
func (s *CommentService) CreateComment(ctx context.Context, in models.CreateCommentDto) (_ *models.CommentDto, err error) {
	ctx, end := observability.StartSpan(ctx, "CommentService.CreateComment",
		attribute.Int64("user.id", int64(in.UserID)),
		attribute.Int64("post.id", int64(in.PostID)))
	defer func() { end(err) }()

	if err := requireUser(ctx, s.userRepo, in.UserID); err != nil {
		return nil, err
	}
	if err := requirePost(ctx, s.postRepo, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Body: in.Body, UserID: in.UserID, PostID: in.PostID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	dto := comment.ToDto()
	s.notifier.Emit(ctx, notifications.Event{
		Type:     notifications.EventCommentCreated,
		EntityID: comment.ID,
		UserID:   comment.UserID,
		Payload:  dto,
	})
	return &dto, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, id uint, in models.UpdateCommentDto) (err error) {
	ctx, end := observability.StartSpan(ctx, "CommentService.UpdateComment", attribute.Int64("comment.id", int64(id)))
	defer func() { end(err) }()

	if err := s.commentRepo.UpdateBody(ctx, id, in.Body); err != nil {
		return err
	}
	s.notifier.Emit(ctx, notifications.Event{Type: notifications.EventCommentUpdated, EntityID: id, Payload: in})
	return nil
}

func (s *CommentService) DeleteComment(ctx context.Context, id uint) (err error) {
	ctx, end := observability.StartSpan(ctx, "CommentService.DeleteComment", attribute.Int64("comment.id", int64(id)))
	defer func() { end(err) }()

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Emit(ctx, notifications.Event{Type: notifications.EventCommentDeleted, EntityID: id})
	return nil
}
