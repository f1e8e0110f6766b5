package service

import (
	"context"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/crypto/bcrypt"
)

// Not parallel: swaps the package-level tracer.
func TestReads_OpenSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := observability.Tracer
	observability.Tracer = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)).Tracer("test")
	t.Cleanup(func() { observability.Tracer = prev })

	ctx := context.Background()
	users := NewUserService(noopUserRepo(), nil, bcrypt.MinCost)
	posts := NewPostService(noopPostRepo(), noopUserRepo(), nil)

	missing := noopCommentRepo()
	missing.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return nil, models.NewNotFoundError("Comment", id)
	}
	comments := NewCommentService(missing, noopPostRepo(), noopUserRepo(), nil)

	_, err := users.ListUsers(ctx, "")
	require.NoError(t, err)
	_, err = users.GetUser(ctx, 3)
	require.NoError(t, err)
	_, err = posts.ListPosts(ctx, models.PostFilter{})
	require.NoError(t, err)
	_, err = posts.GetPost(ctx, 4)
	require.NoError(t, err)
	_, err = comments.ListComments(ctx, models.CommentFilter{})
	require.NoError(t, err)
	_, err = comments.GetComment(ctx, 5)
	require.Error(t, err)

	spans := rec.Ended()
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"UserService.ListUsers",
		"UserService.GetUser",
		"PostService.ListPosts",
		"PostService.GetPost",
		"CommentService.ListComments",
		"CommentService.GetComment",
	}, names)

	assert.Contains(t, spans[1].Attributes(), attribute.Int64("user.id", 3))
	assert.Equal(t, codes.Unset, spans[3].Status().Code)
	assert.Equal(t, codes.Error, spans[5].Status().Code)
}
