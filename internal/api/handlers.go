package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyunsol/techtalk/internal/analyze"
	"github.com/hyunsol/techtalk/internal/apperr"
	"github.com/hyunsol/techtalk/internal/blog"
	"github.com/hyunsol/techtalk/internal/digest"
	"github.com/hyunsol/techtalk/internal/preview"
)

const defaultPostPageSize = 20

// Handler holds API route handlers.
type Handler struct {
	svc     *blog.Service
	ai      *analyze.Client
	fetcher *preview.Fetcher
	mailer  *digest.Mailer
}

// NewHandler creates a new Handler. ai and mailer may be nil when the
// corresponding features are not configured.
func NewHandler(svc *blog.Service, ai *analyze.Client, fetcher *preview.Fetcher, mailer *digest.Mailer) *Handler {
	if fetcher == nil {
		fetcher = preview.NewFetcher(nil, 0, "")
	}
	return &Handler{svc: svc, ai: ai, fetcher: fetcher, mailer: mailer}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ListPosts handles GET /posts.
//
//	@Summary		List posts, newest first
//	@Tags			posts
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Page offset"
//	@Success		200		{object}	PostListResponse
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 {
		limit = defaultPostPageSize
	}
	if offset < 0 {
		offset = 0
	}

	posts, total, hasNext, err := h.svc.ListPosts(r.Context(), offset, limit)
	if err != nil {
		slog.Error("list posts failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts":    posts,
		"total":    total,
		"has_next": hasNext,
	})
}

// GetPost handles GET /posts/{id}. Reading a post counts as a view and
// embeds the first comment page.
//
//	@Summary		Get a single post with its first comment page
//	@Tags			posts
//	@Produce		json
//	@Param			id	path		int	true	"Post id"
//	@Success		200	{object}	models.Post
//	@Failure		404	{object}	errResponse
//	@Router			/posts/{id} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	post, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
		} else {
			slog.Error("get post failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /posts.
//
//	@Summary		Create a new post
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreatePostRequest	true	"Post to create"
//	@Success		201		{object}	models.Post
//	@Failure		400		{object}	errResponse
//	@Router			/posts [post]
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	post, err := h.svc.CreatePost(r.Context(), blog.CreatePostInput{
		Title:        req.Title,
		Content:      req.Content,
		Tags:         req.Tags,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		Password:     req.Password,
	})
	if err != nil {
		if blog.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			slog.Error("create post failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /posts/{id}. No password check here:
// ownership is proven beforehand through the verify-password endpoint.
//
//	@Summary		Update a post
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Post id"
//	@Param			body	body		UpdatePostRequest	true	"Updated fields"
//	@Success		200		{object}	models.Post
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/posts/{id} [put]
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	post, err := h.svc.UpdatePost(r.Context(), id, blog.UpdatePostInput{
		Title:        req.Title,
		Content:      req.Content,
		Tags:         req.Tags,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		switch {
		case blog.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		default:
			slog.Error("update post failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /posts/{id}.
//
//	@Summary		Delete a post and its comments
//	@Tags			posts
//	@Param			id	path	int	true	"Post id"
//	@Success		204	"Post deleted"
//	@Failure		404	{object}	errResponse
//	@Router			/posts/{id} [delete]
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	if err := h.svc.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
		} else {
			slog.Error("delete post failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VerifyPostPassword handles POST /posts/{id}/verify-password.
//
//	@Summary		Check a post password without mutating anything
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Post id"
//	@Param			body	body		PasswordRequest	true	"Candidate password"
//	@Success		200		{object}	VerifyResponse
//	@Failure		403		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/posts/{id}/verify-password [post]
func (h *Handler) VerifyPostPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.svc.VerifyPostPassword(r.Context(), id, req.Password); err != nil {
		switch {
		case errors.Is(err, apperr.ErrPasswordMismatch):
			writeError(w, http.StatusForbidden, "비밀번호가 일치하지 않습니다.")
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		default:
			slog.Error("verify password failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Valid: true})
}
