package service

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// InvalidCredentialsMessage is returned for every login failure.
const InvalidCredentialsMessage = "Invalid username or password"

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login verifies the password against the stored bcrypt hash of the user with this exact name.
func (s *AuthService) Login(ctx context.Context, in models.LoginRequest) (_ *models.UserDto, err error) {
	ctx, end := observability.StartSpan(ctx, "AuthService.Login")
	defer func() { end(err) }()

	user, err := s.userRepo.GetByUserName(ctx, in.UserName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(InvalidCredentialsMessage)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError(InvalidCredentialsMessage)
	}

	dto := user.ToDto()
	return &dto, nil
}
