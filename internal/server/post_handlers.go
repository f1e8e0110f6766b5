package server

import (
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost creates a new post
// @Summary Create post
// @Description The author must exist.
// @Tags posts
// @Accept json
// @Produce json
// @Param request body models.CreatePostDto true "New post"
// @Success 201 {object} models.PostDto
// @Failure 400 {string} string
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req models.CreatePostDto
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return created(c, "posts", post.ID, post)
}

// GetPosts lists posts
// @Summary List posts
// @Description All filters are optional and ANDed together.
// @Tags posts
// @Produce json
// @Param titleContains query string false "Case-insensitive substring of the title"
// @Param userId query int false "Author ID"
// @Param userName query string false "Case-insensitive substring of the author's userName"
// @Success 200 {array} models.PostDto
// @Failure 400 {string} string
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	userID, err := parseOptionalID(c, "userId")
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListPosts(c.UserContext(), models.PostFilter{
		TitleContains: c.Query("titleContains"),
		UserID:        userID,
		UserName:      c.Query("userName"),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost returns a single post
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostDto
// @Failure 404 {string} string
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost replaces title and body
// @Summary Update post
// @Description userId cannot be changed.
// @Tags posts
// @Accept json
// @Param id path int true "Post ID"
// @Param request body models.UpdatePostDto true "New title and body"
// @Success 204
// @Failure 404 {string} string
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req models.UpdatePostDto
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.postService.UpdatePost(c.UserContext(), id, req); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePost deletes a post
// @Summary Delete post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {string} string
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
