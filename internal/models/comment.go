package models

import "time"

// Comment is a reply by a user on a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"not null" json:"body"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) ToDto() CommentDto {
	return CommentDto{ID: c.ID, Body: c.Body, UserID: c.UserID, PostID: c.PostID}
}
