package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunsol/techtalk/internal/apperr"
)

func TestHTTPBackendStatusMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts/1/verify-password":
			w.WriteHeader(http.StatusForbidden)
		case "/posts/2/verify-password":
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]bool{"valid": true})
		case "/posts/404":
			w.WriteHeader(http.StatusNotFound)
		case "/comments/9":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL)
	ctx := context.Background()

	ok, err := b.VerifyPostPassword(ctx, 1, "wrong1")
	require.NoError(t, err, "a 403 from verify is not an error")
	assert.False(t, ok)

	ok, err = b.VerifyPostPassword(ctx, 2, "abc123")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = b.GetPost(ctx, 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = b.DeleteComment(ctx, 9, "pw12")
	assert.ErrorIs(t, err, apperr.ErrPasswordMismatch)

	_, err = b.ListPosts(ctx, 0, 20)
	assert.Error(t, err)
}

func TestHTTPBackendListPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("offset"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(PostPage{Total: 30, HasNext: true})
	}))
	defer srv.Close()

	page, err := NewHTTPBackend(srv.URL).ListPosts(context.Background(), 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 30, page.Total)
	assert.True(t, page.HasNext)
}

func TestHTTPBackendCreateComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/comments", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["postId"])
		assert.Equal(t, "hi", body["content"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 11, "postId": 3, "content": "hi", "createdAt": "2026-01-05T09:00:00Z"}`))
	}))
	defer srv.Close()

	c, err := NewHTTPBackend(srv.URL).CreateComment(context.Background(), 3, "hi", "pw12")
	require.NoError(t, err)
	assert.Equal(t, int64(11), c.ID)
}

func TestHTTPBackendAnalyzePostNotTech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "기술 관련 게시글이 아닙니다."}`))
	}))
	defer srv.Close()

	isTech, err := NewHTTPBackend(srv.URL).AnalyzePost(context.Background(), "오늘 점심 메뉴")
	require.NoError(t, err, "a 400 means not tech, not failure")
	assert.False(t, isTech)
}

func TestHTTPBackendFetchPreviewNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/url-preview", r.URL.Path)
		assert.Equal(t, "https://example.com", r.URL.Query().Get("url"))
		json.NewEncoder(w).Encode(map[string]string{
			"og:title": "OG Title",
			"og:image": "https://example.com/og.png",
		})
	}))
	defer srv.Close()

	pv, err := NewHTTPBackend(srv.URL).FetchPreview(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "OG Title", pv.Title)
	assert.Equal(t, "https://example.com/og.png", pv.Image)
}
