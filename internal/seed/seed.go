package seed

import (
	"fmt"
	"log"

	"blogapi/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	PostsPerUser    int
	CommentsPerPost int
	ShouldClean     bool
	Seed            int64
	BcryptCost      int
}

// Result counts what a run created.
type Result struct {
	Users    int
	Posts    int
	Comments int
}

// Seeder fills a database with fake users, posts and comments.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes every comment, post and user.
func (s *Seeder) ClearAll() error {
	log.Println("🧹 Cleaning database...")
	for _, model := range []interface{}{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run applies opts and reports how many rows were created.
func (s *Seeder) Run(opts Options) (*Result, error) {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	f, err := NewFactory(s.db, opts.Seed, opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	var res Result
	err = s.db.Transaction(func(tx *gorm.DB) error {
		f.db = tx

		users, err := f.CreateUsers(opts.NumUsers)
		if err != nil {
			return err
		}
		posts, err := f.CreatePosts(users, opts.PostsPerUser)
		if err != nil {
			return err
		}
		comments, err := f.CreateComments(users, posts, opts.CommentsPerPost)
		if err != nil {
			return err
		}

		res = Result{Users: len(users), Posts: len(posts), Comments: len(comments)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Seeded %d users, %d posts, %d comments", res.Users, res.Posts, res.Comments)
	return &res, nil
}
