// Package models contains data structures for the application's domain models.
package models

import "time"

// User is an account that authors posts and comments.
// Password holds a bcrypt hash and is never serialized.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserName  string    `gorm:"not null;index" json:"userName"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToDto projects the user onto its public shape.
func (u *User) ToDto() UserDto {
	return UserDto{ID: u.ID, UserName: u.UserName}
}
