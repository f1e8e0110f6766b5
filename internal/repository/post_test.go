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

func TestPostRepository_ListBuildsFilteredQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE LOWER\(title\) LIKE \$1 ESCAPE '\\' AND user_id = \$2 AND user_id IN \(SELECT id FROM "users" WHERE LOWER\(user_name\) LIKE \$3 ESCAPE '\\'\) ORDER BY id ASC`).
		WithArgs("%hello%", 7, "%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body", "user_id"}).
			AddRow(1, "Hello", "world", 7))

	posts, err := repo.List(context.Background(), models.PostFilter{
		TitleContains: "HeLLo",
		UserID:        uintPtr(7),
		UserName:      "Ali",
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, uint(7), posts[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "body"=$1,"title"=$2,"updated_at"=$3 WHERE id = $4`)).
		WithArgs("new body", "new title", sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), 2, "new title", "new body"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_FiltersAgainstSQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	a1 := seedPost(t, db, "Go tips", alice.ID)
	a2 := seedPost(t, db, "Cooking", alice.ID)
	b1 := seedPost(t, db, "More go", bob.ID)
	zoe := seedUser(t, db, "Zoë")
	z1 := seedPost(t, db, "Crème Brûlée", zoe.ID)

	tests := []struct {
		name   string
		filter models.PostFilter
		want   []uint
	}{
		{"no filter", models.PostFilter{}, []uint{a1.ID, a2.ID, b1.ID, z1.ID}},
		{"non-ASCII title", models.PostFilter{TitleContains: "CRÈME BRÛ"}, []uint{z1.ID}},
		{"non-ASCII user name", models.PostFilter{UserName: "ZOË"}, []uint{z1.ID}},
		{"title", models.PostFilter{TitleContains: "GO"}, []uint{a1.ID, b1.ID}},
		{"user id", models.PostFilter{UserID: uintPtr(bob.ID)}, []uint{b1.ID}},
		{"user name", models.PostFilter{UserName: "ali"}, []uint{a1.ID, a2.ID}},
		{"anded", models.PostFilter{TitleContains: "go", UserName: "ALI"}, []uint{a1.ID}},
		{"no match", models.PostFilter{UserName: "carol"}, nil},
		{"whitespace ignored", models.PostFilter{TitleContains: "  ", UserName: " "}, []uint{a1.ID, a2.ID, b1.ID, z1.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			var got []uint
			for _, p := range posts {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostRepository_UpdateRetainsOwnerAndDelete(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "alice")
	p := seedPost(t, db, "old", u.ID)

	require.NoError(t, repo.Update(ctx, p.ID, "new", "new body"))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "new body", got.Body)
	assert.Equal(t, u.ID, got.UserID)

	assert.True(t, models.IsNotFound(repo.Update(ctx, 999, "x", "y")))

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(repo.Delete(ctx, p.ID)))

	exists, err := repo.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
