package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hyunsol/techtalk/internal/apperr"
	"github.com/hyunsol/techtalk/internal/blog"
)

// ListComments handles GET /comments. Comments are paged oldest first.
//
//	@Summary		List a post's comments
//	@Tags			comments
//	@Produce		json
//	@Param			postId	query		int	true	"Post id"
//	@Param			offset	query		int	false	"Page offset"
//	@Param			limit	query		int	false	"Page size"
//	@Success		200		{object}	CommentListResponse
//	@Failure		400		{object}	errResponse
//	@Router			/comments [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	postID, err := strconv.ParseInt(q.Get("postId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "query parameter 'postId' is required")
		return
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = blog.CommentPageSize
	}

	comments, total, err := h.svc.ListComments(r.Context(), postID, offset, limit)
	if err != nil {
		slog.Error("list comments failed", slog.Int64("postId", postID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"comments": comments,
		"total":    total,
	})
}

// CreateComment handles POST /comments.
//
//	@Summary		Register a comment on a post
//	@Tags			comments
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCommentRequest	true	"Comment to create"
//	@Success		201		{object}	models.Comment
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/comments [post]
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	comment, err := h.svc.CreateComment(r.Context(), blog.CreateCommentInput{
		PostID:   req.PostID,
		Content:  req.Content,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case blog.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		default:
			slog.Error("create comment failed", slog.Int64("postId", req.PostID), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// UpdateComment handles PATCH /comments/{id}.
//
//	@Summary		Edit a comment guarded by its password
//	@Tags			comments
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Comment id"
//	@Param			body	body		UpdateCommentRequest	true	"New content and password"
//	@Success		200		{object}	models.Comment
//	@Failure		403		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/comments/{id} [patch]
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	comment, err := h.svc.UpdateComment(r.Context(), id, req.Content, req.Password)
	if err != nil {
		h.writeCommentError(w, id, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /comments/{id}. The password travels in
// the request body.
//
//	@Summary		Delete a comment guarded by its password
//	@Tags			comments
//	@Accept			json
//	@Param			id		path	int				true	"Comment id"
//	@Param			body	body	PasswordRequest	true	"Comment password"
//	@Success		204		"Comment deleted"
//	@Failure		403		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/comments/{id} [delete]
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.svc.DeleteComment(r.Context(), id, req.Password); err != nil {
		h.writeCommentError(w, id, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeCommentError(w http.ResponseWriter, id int64, op string, err error) {
	switch {
	case blog.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrPasswordMismatch):
		writeError(w, http.StatusForbidden, "비밀번호가 일치하지 않습니다.")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "comment not found")
	default:
		slog.Error(op+" comment failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
