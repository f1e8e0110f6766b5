package server

import (
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles user registration
// @Summary Create user
// @Description Create a user. The password is stored hashed and never returned.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.CreateUserDto true "New user"
// @Success 201 {object} models.UserDto
// @Failure 400 {string} string
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req models.CreateUserDto
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.CreateUser(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return created(c, "users", user.ID, user)
}

// GetUsers lists users
// @Summary List users
// @Description Case-insensitive substring match on userName. userNameContains is accepted as an alias.
// @Tags users
// @Produce json
// @Param nameContains query string false "Substring of userName"
// @Success 200 {array} models.UserDto
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	nameContains := c.Query("nameContains")
	if nameContains == "" {
		nameContains = c.Query("userNameContains")
	}

	users, err := s.userService.ListUsers(c.UserContext(), nameContains)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// GetUser returns a single user
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserDto
// @Failure 404 {string} string
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser replaces the userName
// @Summary Update user
// @Tags users
// @Accept json
// @Param id path int true "User ID"
// @Param request body models.UpdateUserDto true "New userName"
// @Success 204
// @Failure 404 {string} string
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req models.UpdateUserDto
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.userService.UpdateUser(c.UserContext(), id, req); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteUser removes a user without touching their posts or comments
// @Summary Delete user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {string} string
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.DeleteUser(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
