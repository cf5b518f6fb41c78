// Package client implements the state logic of the Tech Talk frontend:
// password validation, comment-thread reconciliation, password-gated
// post mutation, draft handoff, and inline link-preview collection.
// It talks to the REST API through the Backend interface so the state
// machines can be exercised without a server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hyunsol/techtalk/internal/apperr"
	"github.com/hyunsol/techtalk/internal/models"
	"github.com/hyunsol/techtalk/internal/preview"
)

// PostPage is one page of the post list.
type PostPage struct {
	Posts   []models.Post `json:"posts"`
	Total   int           `json:"total"`
	HasNext bool          `json:"has_next"`
}

// PostDraft carries the fields for creating or updating a post.
type PostDraft struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	URL          string   `json:"url,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Password     string   `json:"password,omitempty"`
}

// Backend is the remote API surface the client logic depends on.
type Backend interface {
	ListPosts(ctx context.Context, offset, limit int) (*PostPage, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, draft PostDraft) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, draft PostDraft) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	// VerifyPostPassword returns false (with nil error) on a 403 and an
	// error for anything else unexpected.
	VerifyPostPassword(ctx context.Context, id int64, password string) (bool, error)
	CreateComment(ctx context.Context, postID int64, content, password string) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64, offset, limit int) ([]models.Comment, int, error)
	UpdateComment(ctx context.Context, id int64, content, password string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64, password string) error
	AnalyzeURL(ctx context.Context, rawurl string) (*models.URLAnalysis, error)
	FetchPreview(ctx context.Context, rawurl string) (*preview.URLPreview, error)
}

// HTTPBackend implements Backend over the REST API.
type HTTPBackend struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ Backend = (*HTTPBackend)(nil)

// NewHTTPBackend creates a Backend rooted at baseURL.
func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{BaseURL: baseURL, HTTPClient: &http.Client{}}
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("client: marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return resp.StatusCode, fmt.Errorf("client: %s %s: %w", method, path, apperr.ErrPasswordMismatch)
	}
	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, fmt.Errorf("client: %s %s: %w", method, path, apperr.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("client: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("client: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// ListPosts fetches one page of the post list.
func (b *HTTPBackend) ListPosts(ctx context.Context, offset, limit int) (*PostPage, error) {
	var page PostPage
	path := fmt.Sprintf("/posts?offset=%d&limit=%d", offset, limit)
	if _, err := b.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPost fetches a single post with its first comment page.
func (b *HTTPBackend) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if _, err := b.do(ctx, http.MethodGet, "/posts/"+strconv.FormatInt(id, 10), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost submits a new post.
func (b *HTTPBackend) CreatePost(ctx context.Context, draft PostDraft) (*models.Post, error) {
	var post models.Post
	if _, err := b.do(ctx, http.MethodPost, "/posts", draft, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces an existing post. No password: ownership was
// proven through the verify step.
func (b *HTTPBackend) UpdatePost(ctx context.Context, id int64, draft PostDraft) (*models.Post, error) {
	draft.Password = ""
	var post models.Post
	if _, err := b.do(ctx, http.MethodPut, "/posts/"+strconv.FormatInt(id, 10), draft, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (b *HTTPBackend) DeletePost(ctx context.Context, id int64) error {
	_, err := b.do(ctx, http.MethodDelete, "/posts/"+strconv.FormatInt(id, 10), nil, nil)
	return err
}

// VerifyPostPassword checks a candidate against the server.
func (b *HTTPBackend) VerifyPostPassword(ctx context.Context, id int64, password string) (bool, error) {
	body := map[string]string{"password": password}
	_, err := b.do(ctx, http.MethodPost, "/posts/"+strconv.FormatInt(id, 10)+"/verify-password", body, nil)
	if errors.Is(err, apperr.ErrPasswordMismatch) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateComment registers a comment on a post.
func (b *HTTPBackend) CreateComment(ctx context.Context, postID int64, content, password string) (*models.Comment, error) {
	body := map[string]any{"postId": postID, "content": content, "password": password}
	var c models.Comment
	if _, err := b.do(ctx, http.MethodPost, "/comments", body, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

type commentPage struct {
	Comments []models.Comment `json:"comments"`
	Total    int              `json:"total"`
}

// ListComments fetches one page of a post's comments plus the total.
func (b *HTTPBackend) ListComments(ctx context.Context, postID int64, offset, limit int) ([]models.Comment, int, error) {
	var page commentPage
	path := fmt.Sprintf("/comments?postId=%d&offset=%d&limit=%d", postID, offset, limit)
	if _, err := b.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, 0, err
	}
	return page.Comments, page.Total, nil
}

// UpdateComment edits a comment guarded by its password.
func (b *HTTPBackend) UpdateComment(ctx context.Context, id int64, content, password string) (*models.Comment, error) {
	body := map[string]string{"content": content, "password": password}
	var c models.Comment
	if _, err := b.do(ctx, http.MethodPatch, "/comments/"+strconv.FormatInt(id, 10), body, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment guarded by its password. The password
// travels in the request body.
func (b *HTTPBackend) DeleteComment(ctx context.Context, id int64, password string) error {
	body := map[string]string{"password": password}
	_, err := b.do(ctx, http.MethodDelete, "/comments/"+strconv.FormatInt(id, 10), body, nil)
	return err
}

// AnalyzeURL asks the server to summarize a link into a draft post.
func (b *HTTPBackend) AnalyzeURL(ctx context.Context, rawurl string) (*models.URLAnalysis, error) {
	body := map[string]string{"url": rawurl}
	var out models.URLAnalysis
	if _, err := b.do(ctx, http.MethodPost, "/analyze-url", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzePost asks the server whether content is tech-related. A 400
// response means "not tech" and is not an error.
func (b *HTTPBackend) AnalyzePost(ctx context.Context, content string) (bool, error) {
	body := map[string]string{"content": content}
	var out struct {
		IsTech bool `json:"is_tech"`
	}
	status, err := b.do(ctx, http.MethodPost, "/analyze-post", body, &out)
	if status == http.StatusBadRequest {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out.IsTech, nil
}

// FetchPreview resolves link metadata through the url-preview proxy and
// normalizes Open Graph and Twitter keys.
func (b *HTTPBackend) FetchPreview(ctx context.Context, rawurl string) (*preview.URLPreview, error) {
	var meta map[string]string
	path := "/api/url-preview?url=" + url.QueryEscape(rawurl)
	if _, err := b.do(ctx, http.MethodGet, path, nil, &meta); err != nil {
		return nil, err
	}
	p := preview.Normalize(rawurl, meta)
	return &p, nil
}
