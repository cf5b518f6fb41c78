package api

import (
	"github.com/hyunsol/techtalk/internal/models"
)

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title        string   `json:"title" example:"Go 1.25 릴리스 노트" validate:"required"`
	Content      string   `json:"content" example:"본문" validate:"required"`
	Tags         []string `json:"tags" example:"go,release"`
	URL          string   `json:"url,omitempty" example:"https://go.dev/blog"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Password     string   `json:"password" example:"abc123" validate:"required"`
}

// UpdatePostRequest is the request body for updating a post. No
// password field: verification happens beforehand.
type UpdatePostRequest struct {
	Title        string   `json:"title" validate:"required"`
	Content      string   `json:"content" validate:"required"`
	Tags         []string `json:"tags"`
	URL          string   `json:"url,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
}

// PostListResponse wraps paginated post listings.
type PostListResponse struct {
	Posts   []models.Post `json:"posts" validate:"required"`
	Total   int           `json:"total" example:"42" validate:"required"`
	HasNext bool          `json:"has_next" validate:"required"`
}

// CreateCommentRequest is the request body for registering a comment.
type CreateCommentRequest struct {
	PostID   int64  `json:"postId" example:"7" validate:"required"`
	Content  string `json:"content" example:"좋은 글이네요" validate:"required"`
	Password string `json:"password" example:"pw12" validate:"required"`
}

// UpdateCommentRequest is the request body for editing a comment.
type UpdateCommentRequest struct {
	Content  string `json:"content" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CommentListResponse wraps paginated comment listings.
type CommentListResponse struct {
	Comments []models.Comment `json:"comments" validate:"required"`
	Total    int              `json:"total" example:"12" validate:"required"`
}

// PasswordRequest carries a candidate password.
type PasswordRequest struct {
	Password string `json:"password" example:"abc123" validate:"required"`
}

// VerifyResponse is returned when a password checks out.
type VerifyResponse struct {
	Valid bool `json:"valid" validate:"required"`
}

// AnalyzeURLRequest is the request body for the URL summarizer.
type AnalyzeURLRequest struct {
	URL string `json:"url" example:"https://go.dev/blog" validate:"required"`
}

// AnalyzePostRequest is the request body for the tech classifier.
type AnalyzePostRequest struct {
	Content string `json:"content" validate:"required"`
}

// AnalyzePostResponse is returned when content passes the classifier.
type AnalyzePostResponse struct {
	IsTech bool `json:"is_tech" validate:"required"`
}

// DigestResponse reports how many posts the weekly mail covered.
type DigestResponse struct {
	Sent int `json:"sent" example:"5" validate:"required"`
}
