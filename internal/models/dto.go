package models

// UserDto is the public representation of a user.
type UserDto struct {
	ID       uint   `json:"id"`
	UserName string `json:"userName"`
}

type CreateUserDto struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type UpdateUserDto struct {
	UserName string `json:"userName"`
}

// PostDto is the public representation of a post.
type PostDto struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID uint   `json:"userId"`
}

type CreatePostDto struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID uint   `json:"userId"`
}

type UpdatePostDto struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CommentDto is the public representation of a comment.
type CommentDto struct {
	ID     uint   `json:"id"`
	Body   string `json:"body"`
	UserID uint   `json:"userId"`
	PostID uint   `json:"postId"`
}

type CreateCommentDto struct {
	Body   string `json:"body"`
	UserID uint   `json:"userId"`
	PostID uint   `json:"postId"`
}

type UpdateCommentDto struct {
	Body string `json:"body"`
}

// LoginRequest carries credentials for POST /auth/login.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// PostFilter narrows a post listing. Empty strings and nil pointers are ignored.
type PostFilter struct {
	TitleContains string
	UserID        *uint
	UserName      string
}

// CommentFilter narrows a comment listing. Empty strings and nil pointers are ignored.
type CommentFilter struct {
	PostID   *uint
	UserID   *uint
	UserName string
}
