// Package service holds the business rules between handlers and repositories:
// foreign key checks, password hashing, DTO projection and change events.
package service

import (
	"context"
	"errors"

	"blogapi/internal/models"
	"blogapi/internal/notifications"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
	bcryptCost int
}

func NewUserService(userRepo repository.UserRepository, notifier *notifications.Notifier, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{userRepo: userRepo, notifier: notifier, bcryptCost: bcryptCost}
}

func (s *UserService) ListUsers(ctx context.Context, nameContains string) (_ []models.UserDto, err error) {
	ctx, end := observability.StartSpan(ctx, "UserService.ListUsers")
	defer func() { end(err) }()

	users, err := s.userRepo.List(ctx, nameContains)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserDto, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToDto())
	}
	return out, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (_ *models.UserDto, err error) {
	ctx, end := observability.StartSpan(ctx, "UserService.GetUser", attribute.Int64("user.id", int64(id)))
	defer func() { end(err) }()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := user.ToDto()
	return &dto, nil
}

// CreateUser stores the user with a bcrypt hash of the password. Duplicate names are allowed.
func (s *UserService) CreateUser(ctx context.Context, in models.CreateUserDto) (_ *models.UserDto, err error) {
	ctx, end := observability.StartSpan(ctx, "UserService.CreateUser")
	defer func() { end(err) }()

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, models.NewValidationError("Password too long (max 72 bytes)")
		}
		return nil, models.NewInternalError(err)
	}

	user := &models.User{UserName: in.UserName, Password: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	dto := user.ToDto()
	s.notifier.Emit(ctx, notifications.Event{Type: notifications.EventUserCreated, EntityID: user.ID, Payload: dto})
	return &dto, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, in models.UpdateUserDto) (err error) {
	ctx, end := observability.StartSpan(ctx, "UserService.UpdateUser", attribute.Int64("user.id", int64(id)))
	defer func() { end(err) }()

	if err := s.userRepo.UpdateUserName(ctx, id, in.UserName); err != nil {
		return err
	}
	s.notifier.Emit(ctx, notifications.Event{
		Type:     notifications.EventUserUpdated,
		EntityID: id,
		Payload:  models.UserDto{ID: id, UserName: in.UserName},
	})
	return nil
}

// DeleteUser removes only the user; their posts and comments stay addressable.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (err error) {
	ctx, end := observability.StartSpan(ctx, "UserService.DeleteUser", attribute.Int64("user.id", int64(id)))
	defer func() { end(err) }()

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Emit(ctx, notifications.Event{Type: notifications.EventUserDeleted, EntityID: id})
	return nil
}
