package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten means a helper already sent a 400. The handler must
// return nil so the error handler does not replace that response.
var errResponseWritten = errors.New("response already written")

func badRequest(c *fiber.Ctx, msg string) error {
	_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(msg))
	return errResponseWritten
}

// parseID reads a positive integer route parameter, answering "Invalid ID" otherwise.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest(c, "Invalid "+paramLabel(param))
	}
	return uint(id), nil
}

// parseOptionalID reads an id filter from the query string. A missing or
// blank value is no filter.
func parseOptionalID(c *fiber.Ctx, param string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, badRequest(c, "Invalid "+paramLabel(param))
	}
	id := uint(v)
	return &id, nil
}

func parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return nil
}

// created answers 201 with an absolute Location for the new resource.
func created(c *fiber.Ctx, resource string, id uint, body interface{}) error {
	c.Location(fmt.Sprintf("%s/%s/%d", c.BaseURL(), resource, id))
	return c.Status(fiber.StatusCreated).JSON(body)
}

// paramLabel turns a parameter name into message text:
// id is "ID", userId is "user ID" and parentPostId is "parent post ID".
func paramLabel(param string) string {
	stem, isID := strings.CutSuffix(param, "Id")
	if param == "id" {
		stem, isID = "", true
	}
	if !isID {
		return param
	}

	var b strings.Builder
	for i, r := range stem {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString("ID")
	return b.String()
}
