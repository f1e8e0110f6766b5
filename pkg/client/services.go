package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// UserService wraps the /users endpoints.
type UserService struct {
	c *Client
}

func (s *UserService) AddUser(ctx context.Context, in CreateUserDto) (*UserDto, error) {
	var out UserDto
	if err := s.c.do(ctx, http.MethodPost, "/users", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, in UpdateUserDto) error {
	return s.c.do(ctx, http.MethodPut, idPath("users", id), nil, in, nil)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.c.do(ctx, http.MethodDelete, idPath("users", id), nil, nil, nil)
}

// GetUser returns nil, nil when the user does not exist.
func (s *UserService) GetUser(ctx context.Context, id uint) (*UserDto, error) {
	var out UserDto
	found, err := s.c.getOptional(ctx, idPath("users", id), &out)
	if !found {
		return nil, err
	}
	return &out, nil
}

// GetUsers lists users whose userName contains nameContains. Blank lists all.
func (s *UserService) GetUsers(ctx context.Context, nameContains string) ([]UserDto, error) {
	query := url.Values{}
	if strings.TrimSpace(nameContains) != "" {
		query.Set("nameContains", nameContains)
	}
	out := []UserDto{}
	if err := s.c.do(ctx, http.MethodGet, "/users", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PostQuery filters GetPosts. Zero fields are omitted.
type PostQuery struct {
	TitleContains string
	UserID        *uint
	UserName      string
}

func (q PostQuery) values() url.Values {
	v := url.Values{}
	if strings.TrimSpace(q.TitleContains) != "" {
		v.Set("titleContains", q.TitleContains)
	}
	if q.UserID != nil {
		v.Set("userId", strconv.FormatUint(uint64(*q.UserID), 10))
	}
	if strings.TrimSpace(q.UserName) != "" {
		v.Set("userName", q.UserName)
	}
	return v
}

// PostService wraps the /posts endpoints.
type PostService struct {
	c *Client
}

func (s *PostService) AddPost(ctx context.Context, in CreatePostDto) (*PostDto, error) {
	var out PostDto
	if err := s.c.do(ctx, http.MethodPost, "/posts", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id uint, in UpdatePostDto) error {
	return s.c.do(ctx, http.MethodPut, idPath("posts", id), nil, in, nil)
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	return s.c.do(ctx, http.MethodDelete, idPath("posts", id), nil, nil, nil)
}

// GetPost returns nil, nil when the post does not exist.
func (s *PostService) GetPost(ctx context.Context, id uint) (*PostDto, error) {
	var out PostDto
	found, err := s.c.getOptional(ctx, idPath("posts", id), &out)
	if !found {
		return nil, err
	}
	return &out, nil
}

func (s *PostService) GetPosts(ctx context.Context, q PostQuery) ([]PostDto, error) {
	out := []PostDto{}
	if err := s.c.do(ctx, http.MethodGet, "/posts", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CommentQuery filters GetComments. Zero fields are omitted.
type CommentQuery struct {
	PostID   *uint
	UserID   *uint
	UserName string
}

func (q CommentQuery) values() url.Values {
	v := url.Values{}
	if q.PostID != nil {
		v.Set("postId", strconv.FormatUint(uint64(*q.PostID), 10))
	}
	if q.UserID != nil {
		v.Set("userId", strconv.FormatUint(uint64(*q.UserID), 10))
	}
	if strings.TrimSpace(q.UserName) != "" {
		v.Set("userName", q.UserName)
	}
	return v
}

// CommentService wraps the /comments endpoints.
type CommentService struct {
	c *Client
}

func (s *CommentService) AddComment(ctx context.Context, in CreateCommentDto) (*CommentDto, error) {
	var out CommentDto
	if err := s.c.do(ctx, http.MethodPost, "/comments", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, id uint, in UpdateCommentDto) error {
	return s.c.do(ctx, http.MethodPut, idPath("comments", id), nil, in, nil)
}

func (s *CommentService) DeleteComment(ctx context.Context, id uint) error {
	return s.c.do(ctx, http.MethodDelete, idPath("comments", id), nil, nil, nil)
}

// GetComment returns nil, nil when the comment does not exist.
func (s *CommentService) GetComment(ctx context.Context, id uint) (*CommentDto, error) {
	var out CommentDto
	found, err := s.c.getOptional(ctx, idPath("comments", id), &out)
	if !found {
		return nil, err
	}
	return &out, nil
}

func (s *CommentService) GetComments(ctx context.Context, q CommentQuery) ([]CommentDto, error) {
	out := []CommentDto{}
	if err := s.c.do(ctx, http.MethodGet, "/comments", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCommentsForPost lists the comments on one post.
func (s *CommentService) GetCommentsForPost(ctx context.Context, postID uint) ([]CommentDto, error) {
	return s.GetComments(ctx, CommentQuery{PostID: &postID})
}
