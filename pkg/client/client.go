// Package client provides a typed Go client for the blog API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Wire types shared with the server.
type (
	UserDto          = models.UserDto
	CreateUserDto    = models.CreateUserDto
	UpdateUserDto    = models.UpdateUserDto
	PostDto          = models.PostDto
	CreatePostDto    = models.CreatePostDto
	UpdatePostDto    = models.UpdatePostDto
	CommentDto       = models.CommentDto
	CreateCommentDto = models.CreateCommentDto
	UpdateCommentDto = models.UpdateCommentDto
	LoginRequest     = models.LoginRequest
)

// DefaultTimeout bounds a request when the context carries no deadline.
const DefaultTimeout = 30 * time.Second

// APIError is returned for any non-success response. Body is the raw response text.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Body
}

// Client talks to a blog API server.
type Client struct {
	baseURL string
	timeout time.Duration

	Users    *UserService
	Posts    *PostService
	Comments *CommentService
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Users = &UserService{c: c}
	c.Posts = &PostService{c: c}
	c.Comments = &CommentService{c: c}
	return c
}

// do sends one request. A non-nil in is sent as JSON; a 2xx body is decoded into a non-nil out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(target)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	a.Timeout(timeout)

	if in != nil {
		a.JSON(in)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errs[0])
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return &APIError{StatusCode: code, Body: string(body)}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// getOptional is do for single-entity reads: a 404 yields found=false and no error.
func (c *Client) getOptional(ctx context.Context, path string, out interface{}) (found bool, err error) {
	err = c.do(ctx, http.MethodGet, path, nil, nil, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func idPath(resource string, id uint) string {
	return fmt.Sprintf("/%s/%d", resource, id)
}
