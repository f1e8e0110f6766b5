package service

import (
	"context"
	"testing"

	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByUserNameFn = func(_ context.Context, name string) (*models.User, error) {
		if name != "alice" {
			return nil, nil
		}
		return &models.User{ID: 3, UserName: "alice", Password: string(hash)}, nil
	}
	svc := NewAuthService(repo)
	ctx := context.Background()

	t.Run("correct credentials", func(t *testing.T) {
		t.Parallel()
		dto, err := svc.Login(ctx, models.LoginRequest{UserName: "alice", Password: "correct"})
		require.NoError(t, err)
		assert.Equal(t, models.UserDto{ID: 3, UserName: "alice"}, *dto)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login(ctx, models.LoginRequest{UserName: "alice", Password: "nope"})
		appErr := assertAppError(t, err, models.CodeUnauthorized)
		assert.Equal(t, InvalidCredentialsMessage, appErr.Message)
	})

	t.Run("unknown user gets same message", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login(ctx, models.LoginRequest{UserName: "mallory", Password: "correct"})
		appErr := assertAppError(t, err, models.CodeUnauthorized)
		assert.Equal(t, InvalidCredentialsMessage, appErr.Message)
	})
}
