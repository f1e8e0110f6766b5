package server

import (
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment on a post
// @Summary Create comment
// @Description Both the author and the post must exist.
// @Tags comments
// @Accept json
// @Produce json
// @Param request body models.CreateCommentDto true "New comment"
// @Success 201 {object} models.CommentDto
// @Failure 400 {string} string
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req models.CreateCommentDto
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return created(c, "comments", comment.ID, comment)
}

// GetComments lists comments
// @Summary List comments
// @Tags comments
// @Produce json
// @Param postId query int false "Post ID"
// @Param userId query int false "Author ID"
// @Param userName query string false "Case-insensitive substring of the author's userName"
// @Success 200 {array} models.CommentDto
// @Failure 400 {string} string
// @Router /comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseOptionalID(c, "postId")
	if err != nil {
		return nil
	}
	userID, err := parseOptionalID(c, "userId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), models.CommentFilter{
		PostID:   postID,
		UserID:   userID,
		UserName: c.Query("userName"),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comments)
}

// GetComment returns a single comment
// @Summary Get comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} models.CommentDto
// @Failure 404 {string} string
// @Router /comments/{id} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comment)
}

// UpdateComment replaces the body
// @Summary Update comment
// @Tags comments
// @Accept json
// @Param id path int true "Comment ID"
// @Param request body models.UpdateCommentDto true "New body"
// @Success 204
// @Failure 404 {string} string
// @Router /comments/{id} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req models.UpdateCommentDto
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.commentService.UpdateComment(c.UserContext(), id, req); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteComment deletes a comment
// @Summary Delete comment
// @Tags comments
// @Param id path int true "Comment ID"
// @Success 204
// @Failure 404 {string} string
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
