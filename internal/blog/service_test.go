package blog

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyunsol/techtalk/internal/apperr"
	"github.com/hyunsol/techtalk/internal/store"
)

func newSvcForTest(t *testing.T) *Service {
	t.Helper()
	f, err := os.CreateTemp("", "techtalk-blog-test-*.db")
	require.NoError(t, err)
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := store.Open(f.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(db, DefaultPasswordPolicy())
}

func createPost(t *testing.T, svc *Service) int64 {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title:    "Hello",
		Content:  "World",
		Tags:     []string{"go", "web"},
		Password: "abc123",
	})
	require.NoError(t, err)
	return post.ID
}

func TestCreatePost_ValidatesPasswordPolicy(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		password string
	}{
		{"too short", "abc12"},
		{"too long", "abc1234"},
		{"bad characters", "abc!2#"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, CreatePostInput{Title: "t", Content: "c", Password: tc.password})
			require.Error(t, err)
			require.True(t, IsValidationError(err), "expected validation error, got %v", err)
		})
	}

	_, err := svc.CreatePost(ctx, CreatePostInput{Title: "t", Content: "c", Password: "abc123"})
	require.NoError(t, err)
}

func TestCreatePost_TitleLimit(t *testing.T) {
	svc := newSvcForTest(t)
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.CreatePost(context.Background(), CreatePostInput{Title: string(long), Content: "c", Password: "abc123"})
	require.True(t, IsValidationError(err))
}

func TestCreatePost_LimitsCountCharactersNotBytes(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()

	// 50 Korean characters are 150 bytes but still a legal title
	title := strings.Repeat("가", 50)
	post, err := svc.CreatePost(ctx, CreatePostInput{
		Title:    title,
		Content:  "c",
		Tags:     []string{strings.Repeat("나", 20)},
		Password: "abc123",
	})
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{
		PostID:   post.ID,
		Content:  strings.Repeat("다", 200),
		Password: "pw12",
	})
	require.NoError(t, err)

	// one character over still trips the limit
	_, err = svc.CreatePost(ctx, CreatePostInput{Title: strings.Repeat("가", 51), Content: "c", Password: "abc123"})
	require.True(t, IsValidationError(err))
	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: post.ID, Content: strings.Repeat("다", 201), Password: "pw12"})
	require.True(t, IsValidationError(err))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" go ", "go", "", "web", "go"})
	require.Equal(t, []string{"go", "web"}, got)

	// Adding a duplicate or blank never changes the sequence.
	require.Equal(t, got, NormalizeTags(append(got, "go", " ")))
}

func TestPostTagsRoundTrip(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostInput{
		Title: "tags", Content: "c", Tags: []string{"a", "b"}, Password: "abc123",
	})
	require.NoError(t, err)

	loaded, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, loaded.Tags)
}

func TestGetPost_IncrementsViewsAndEmbedsFirstPage(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()
	id := createPost(t, svc)

	for i := 0; i < 12; i++ {
		_, err := svc.CreateComment(ctx, CreateCommentInput{PostID: id, Content: "c", Password: "ab12"})
		require.NoError(t, err)
	}

	post, err := svc.GetPost(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, post.Views)
	require.Len(t, post.Comments, CommentPageSize)
	require.Equal(t, 12, post.CommentCount)

	post, err = svc.GetPost(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 2, post.Views)
}

func TestListPosts_HasNext(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		createPost(t, svc)
	}

	// offset=0 limit=20 returning all 15 posts must report no next page.
	posts, total, hasNext, err := svc.ListPosts(ctx, 0, 20)
	require.NoError(t, err)
	require.Len(t, posts, 15)
	require.Equal(t, 15, total)
	require.False(t, hasNext)

	posts, _, hasNext, err = svc.ListPosts(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 10)
	require.True(t, hasNext)
}

func TestVerifyPostPassword(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()
	id := createPost(t, svc)

	require.NoError(t, svc.VerifyPostPassword(ctx, id, "abc123"))
	require.ErrorIs(t, svc.VerifyPostPassword(ctx, id, "wrong0"), apperr.ErrPasswordMismatch)
	require.ErrorIs(t, svc.VerifyPostPassword(ctx, 999, "abc123"), apperr.ErrNotFound)
}

func TestUpdatePost_NoPasswordRequired(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()
	id := createPost(t, svc)

	updated, err := svc.UpdatePost(ctx, id, UpdatePostInput{
		Title: "edited", Content: "new body", Tags: []string{"x"},
	})
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Title)
	require.Equal(t, []string{"x"}, updated.Tags)
}

func TestCommentPasswordGate(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()
	id := createPost(t, svc)

	c, err := svc.CreateComment(ctx, CreateCommentInput{PostID: id, Content: "first", Password: "ab12"})
	require.NoError(t, err)

	_, err = svc.UpdateComment(ctx, c.ID, "edited", "zz99")
	require.ErrorIs(t, err, apperr.ErrPasswordMismatch)

	updated, err := svc.UpdateComment(ctx, c.ID, "edited", "ab12")
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Content)

	require.ErrorIs(t, svc.DeleteComment(ctx, c.ID, "zz99"), apperr.ErrPasswordMismatch)
	require.NoError(t, svc.DeleteComment(ctx, c.ID, "ab12"))
	require.ErrorIs(t, svc.DeleteComment(ctx, c.ID, "ab12"), apperr.ErrNotFound)
}

func TestCreateComment_Validation(t *testing.T) {
	svc := newSvcForTest(t)
	ctx := context.Background()
	id := createPost(t, svc)

	// Content blank after trim.
	_, err := svc.CreateComment(ctx, CreateCommentInput{PostID: id, Content: "   ", Password: "ab12"})
	require.True(t, IsValidationError(err))

	// Comment password uses the 4-char policy, not the 6-char post policy.
	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: id, Content: "hi", Password: "abc123"})
	require.True(t, IsValidationError(err))

	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: id, Content: "hi", Password: "ab12"})
	require.NoError(t, err)
}
