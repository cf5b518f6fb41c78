package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyunsol/techtalk/internal/preview"
)

// AnalyzeURL handles POST /analyze-url: fetch a page and summarize it
// into a post draft. When the model's reply cannot be parsed the
// response degrades to placeholder fields instead of failing.
//
//	@Summary		Summarize a URL into a draft post
//	@Tags			ai
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnalyzeURLRequest	true	"Link to analyze"
//	@Success		200		{object}	models.URLAnalysis
//	@Failure		400		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Router			/analyze-url [post]
func (h *Handler) AnalyzeURL(w http.ResponseWriter, r *http.Request) {
	if h.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "AI 기능이 설정되지 않았습니다.")
		return
	}
	var req AnalyzeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !preview.IsValidURL(req.URL) {
		writeError(w, http.StatusBadRequest, "올바른 URL을 입력해주세요.")
		return
	}
	analysis, err := h.ai.AnalyzeURL(r.Context(), req.URL)
	if err != nil {
		slog.Error("analyze url failed", slog.String("url", req.URL), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "URL 분석에 실패했습니다.")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// AnalyzePost handles POST /analyze-post: classify whether content is
// tech-related. Non-tech content answers 400 so clients can block
// submission.
//
//	@Summary		Classify whether content is tech-related
//	@Tags			ai
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnalyzePostRequest	true	"Content to classify"
//	@Success		200		{object}	AnalyzePostResponse
//	@Failure		400		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Router			/analyze-post [post]
func (h *Handler) AnalyzePost(w http.ResponseWriter, r *http.Request) {
	if h.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "AI 기능이 설정되지 않았습니다.")
		return
	}
	var req AnalyzePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	isTech, err := h.ai.ClassifyPost(r.Context(), req.Content)
	if err != nil {
		slog.Error("analyze post failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "게시글 분석에 실패했습니다.")
		return
	}
	if !isTech {
		writeError(w, http.StatusBadRequest, "기술 관련 게시글이 아닙니다.")
		return
	}
	writeJSON(w, http.StatusOK, AnalyzePostResponse{IsTech: true})
}

// URLPreview handles GET /api/url-preview: a same-origin proxy that
// fetches a page and returns its meta tags with lower-cased keys. The
// upstream status is passed through when the page answers non-2xx.
//
//	@Summary		Proxy link metadata for preview cards
//	@Tags			preview
//	@Produce		json
//	@Param			url	query		string	true	"Page URL"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	errResponse
//	@Failure		500	{object}	errResponse
//	@Router			/api/url-preview [get]
func (h *Handler) URLPreview(w http.ResponseWriter, r *http.Request) {
	rawurl := r.URL.Query().Get("url")
	if rawurl == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'url' is required")
		return
	}
	meta, err := h.fetcher.Fetch(r.Context(), rawurl)
	if err != nil {
		var upstream *preview.UpstreamError
		if errors.As(err, &upstream) {
			writeError(w, upstream.Status, "upstream returned an error")
			return
		}
		slog.Error("url preview failed", slog.String("url", rawurl), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to fetch url")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// SendWeeklyDigest handles POST /emails/send-weekly, the manual
// trigger for the digest the scheduler sends every Monday morning.
//
//	@Summary		Send the weekly digest mail now
//	@Tags			digest
//	@Produce		json
//	@Success		200	{object}	DigestResponse
//	@Failure		503	{object}	errResponse
//	@Router			/emails/send-weekly [post]
func (h *Handler) SendWeeklyDigest(w http.ResponseWriter, r *http.Request) {
	if h.mailer == nil {
		writeError(w, http.StatusServiceUnavailable, "메일 기능이 설정되지 않았습니다.")
		return
	}
	sent, err := h.mailer.SendWeekly(r.Context())
	if err != nil {
		slog.Error("weekly digest failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "메일 발송에 실패했습니다.")
		return
	}
	writeJSON(w, http.StatusOK, DigestResponse{Sent: sent})
}
