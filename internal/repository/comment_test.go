package repository

import (
	"context"
	"regexp"
	"testing"

	"blogapi/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Body: "Nice post!", PostID: 1, UserID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 ORDER BY id ASC`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "user_id", "post_id"}).
			AddRow(1, "Comment 1", 101, 1).
			AddRow(2, "Comment 2", 102, 1))

	comments, err := repo.List(ctx, models.CommentFilter{PostID: uintPtr(1)})
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "Comment 1", comments[0].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_FiltersAgainstSQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	p1 := seedPost(t, db, "one", alice.ID)
	p2 := seedPost(t, db, "two", bob.ID)
	c1 := seedComment(t, db, "a on 1", alice.ID, p1.ID)
	c2 := seedComment(t, db, "b on 1", bob.ID, p1.ID)
	c3 := seedComment(t, db, "a on 2", alice.ID, p2.ID)

	tests := []struct {
		name   string
		filter models.CommentFilter
		want   []uint
	}{
		{"all", models.CommentFilter{}, []uint{c1.ID, c2.ID, c3.ID}},
		{"post", models.CommentFilter{PostID: uintPtr(p1.ID)}, []uint{c1.ID, c2.ID}},
		{"user", models.CommentFilter{UserID: uintPtr(alice.ID)}, []uint{c1.ID, c3.ID}},
		{"user name", models.CommentFilter{UserName: "BO"}, []uint{c2.ID}},
		{"post and user name", models.CommentFilter{PostID: uintPtr(p2.ID), UserName: "bob"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			var got []uint
			for _, c := range comments {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommentRepository_UpdateAndDelete(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "alice")
	p := seedPost(t, db, "one", u.ID)
	c := seedComment(t, db, "first", u.ID, p.ID)

	require.NoError(t, repo.UpdateBody(ctx, c.ID, "edited"))
	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Body)
	assert.Equal(t, p.ID, got.PostID)

	assert.True(t, models.IsNotFound(repo.UpdateBody(ctx, 999, "x")))

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(repo.Delete(ctx, c.ID)))
}
