// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"

	"blogapi/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password every seeded user gets.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db       *gorm.DB
	faker    *gofakeit.Faker
	password string
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
// The bcrypt hash of DefaultPassword is computed once and shared by all users.
func NewFactory(db *gorm.DB, seed int64, bcryptCost int) (*Factory, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash default password: %w", err)
	}
	return &Factory{db: db, faker: gofakeit.New(seed), password: string(hash)}, nil
}

// BuildUser returns an unsaved user with a fake handle.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		UserName: f.faker.Username() + fmt.Sprintf("%d", f.faker.Number(100, 999)),
		Password: f.password,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildPost returns an unsaved post authored by userID.
func (f *Factory) BuildPost(userID uint, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:  f.faker.Sentence(5),
		Body:   f.faker.Paragraph(1, 3, 8, "\n"),
		UserID: userID,
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// BuildComment returns an unsaved comment by userID on postID.
func (f *Factory) BuildComment(userID, postID uint) *models.Comment {
	return &models.Comment{
		Body:   f.faker.Sentence(f.faker.Number(4, 16)),
		UserID: userID,
		PostID: postID,
	}
}

// CreateUsers persists n users in one batch.
func (f *Factory) CreateUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, f.BuildUser())
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := f.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

// CreatePosts persists perUser posts for each of users.
func (f *Factory) CreatePosts(users []*models.User, perUser int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(users)*perUser)
	for _, u := range users {
		for i := 0; i < perUser; i++ {
			posts = append(posts, f.BuildPost(u.ID))
		}
	}
	if len(posts) == 0 {
		return posts, nil
	}
	if err := f.db.Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

// CreateComments persists perPost comments on each post, authored by random users.
func (f *Factory) CreateComments(users []*models.User, posts []*models.Post, perPost int) ([]*models.Comment, error) {
	if len(users) == 0 {
		return nil, nil
	}
	comments := make([]*models.Comment, 0, len(posts)*perPost)
	for _, p := range posts {
		for i := 0; i < perPost; i++ {
			author := users[f.faker.Number(0, len(users)-1)]
			comments = append(comments, f.BuildComment(author.ID, p.ID))
		}
	}
	if len(comments) == 0 {
		return comments, nil
	}
	if err := f.db.Create(&comments).Error; err != nil {
		return nil, fmt.Errorf("create comments: %w", err)
	}
	return comments, nil
}
