package models

import "time"

// Post is a blog entry owned by a user. UserID is fixed at creation.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"not null" json:"body"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Post) ToDto() PostDto {
	return PostDto{ID: p.ID, Title: p.Title, Body: p.Body, UserID: p.UserID}
}
