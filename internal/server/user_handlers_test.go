package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"blogapi/internal/config"
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) List(ctx context.Context, nameContains string) ([]*models.User, error) {
	args := m.Called(ctx, nameContains)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	args := m.Called(ctx, userName)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) UpdateUserName(ctx context.Context, id uint, userName string) error {
	return m.Called(ctx, id, userName).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// newMockedApp builds the full middleware stack over a mocked user repository.
func newMockedApp(repo *mockUserRepo) *fiber.App {
	s := &Server{
		config:   &config.Config{Env: "test"},
		userRepo: repo,
	}
	s.wireServices()
	return s.NewApp()
}

func TestUserHandlers_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		setup      func(m *mockUserRepo)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "list failure is a generic 500",
			method: http.MethodGet,
			path:   "/users",
			setup: func(m *mockUserRepo) {
				m.On("List", mock.Anything, "").Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal server error",
		},
		{
			name:   "wrapped internal error hides cause",
			method: http.MethodGet,
			path:   "/users/5",
			setup: func(m *mockUserRepo) {
				m.On("GetByID", mock.Anything, uint(5)).Return(nil, models.NewInternalError(errors.New("pq: timeout")))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal server error",
		},
		{
			name:   "not found",
			method: http.MethodGet,
			path:   "/users/6",
			setup: func(m *mockUserRepo) {
				m.On("GetByID", mock.Anything, uint(6)).Return(nil, models.NewNotFoundError("User", 6))
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "User with id 6 not found.",
		},
		{
			name:   "update forwards only the name",
			method: http.MethodPut,
			path:   "/users/7",
			body:   map[string]string{"userName": "renamed", "password": "ignored"},
			setup: func(m *mockUserRepo) {
				m.On("UpdateUserName", mock.Anything, uint(7), "renamed").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "list uses the alias when nameContains is absent",
			method: http.MethodGet,
			path:   "/users?userNameContains=bo",
			setup: func(m *mockUserRepo) {
				m.On("List", mock.Anything, "bo").Return([]*models.User{{ID: 2, UserName: "bob", Password: "hash"}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":2,"userName":"bob"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{}
			tt.setup(repo)
			app := newMockedApp(repo)

			resp := doRequest(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, readBody(t, resp))
			}
			repo.AssertExpectations(t)
		})
	}
}
