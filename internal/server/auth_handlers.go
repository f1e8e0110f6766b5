package server

import (
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Login verifies credentials and returns the public identity
// @Summary User login
// @Description Authenticate with userName and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.UserDto
// @Failure 401 {string} string
// @Failure 429 {string} string
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}
