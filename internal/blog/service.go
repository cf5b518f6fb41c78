// Package blog implements the business rules for posts and comments.
package blog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyunsol/techtalk/internal/apperr"
	"github.com/hyunsol/techtalk/internal/models"
	"github.com/hyunsol/techtalk/internal/store"
)

// CommentPageSize is the page size for comment pagination, both for the
// page embedded in a post detail and for explicit "load more" requests.
const CommentPageSize = 10

var alnumRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// PasswordPolicy holds the exact password lengths required for post and
// comment mutations. Earlier iterations used 6 for both, so the lengths
// are configuration rather than constants.
type PasswordPolicy struct {
	PostLength    int
	CommentLength int
}

// DefaultPasswordPolicy matches the shipped frontend: 6 for posts, 4 for comments.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{PostLength: 6, CommentLength: 4}
}

func (p PasswordPolicy) rule(length int) []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.RuneLength(length, length),
		validation.Match(alnumRe).Error("must contain only letters and digits"),
	}
}

// Service coordinates store operations and enforces request rules.
type Service struct {
	db     *store.DB
	policy PasswordPolicy
}

// NewService creates a blog service over the given store.
func NewService(db *store.DB, policy PasswordPolicy) *Service {
	if policy.PostLength == 0 {
		policy = DefaultPasswordPolicy()
	}
	return &Service{db: db, policy: policy}
}

// CreatePostInput carries the fields for creating a post.
type CreatePostInput struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	URL          string   `json:"url"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Password     string   `json:"password"`
}

// Validate checks the create request against the posting rules.
func (in CreatePostInput) Validate(policy PasswordPolicy) error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, 50)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Password, policy.rule(policy.PostLength)...),
	); err != nil {
		return err
	}
	return validateTags(in.Tags)
}

// UpdatePostInput carries the fields for updating a post. No password:
// ownership was already proven through the verify-password step.
type UpdatePostInput struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	URL          string   `json:"url"`
	ThumbnailURL string   `json:"thumbnailUrl"`
}

// Validate checks the update request.
func (in UpdatePostInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, 50)),
		validation.Field(&in.Content, validation.Required),
	); err != nil {
		return err
	}
	return validateTags(in.Tags)
}

func validateTags(tags []string) error {
	for _, t := range tags {
		if err := validation.Validate(t, validation.RuneLength(1, 20)); err != nil {
			return fmt.Errorf("tag %q: %w", t, err)
		}
	}
	return nil
}

// NormalizeTags trims whitespace and deduplicates while preserving
// insertion order. Blank entries are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// CreatePost validates input, hashes the password, and stores the post.
func (s *Service) CreatePost(_ context.Context, in CreatePostInput) (*models.Post, error) {
	in.Tags = NormalizeTags(in.Tags)
	if err := in.Validate(s.policy); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("blog: hash password: %w", err)
	}
	row, err := s.db.CreatePost(in.Title, in.Content, in.Tags, in.URL, in.ThumbnailURL, string(hash))
	if err != nil {
		return nil, err
	}
	return postFromRow(row), nil
}

// GetPost returns a post with its first comment page embedded and bumps
// the view counter.
func (s *Service) GetPost(_ context.Context, id int64) (*models.Post, error) {
	if err := s.db.IncrementViews(id); err != nil {
		return nil, err
	}
	row, err := s.db.GetPost(id)
	if err != nil {
		return nil, err
	}
	comments, total, err := s.db.ListComments(id, 0, CommentPageSize)
	if err != nil {
		return nil, err
	}
	post := postFromRow(row)
	post.CommentCount = total
	post.Comments = make([]models.Comment, len(comments))
	for i, c := range comments {
		post.Comments[i] = commentFromRow(&c)
	}
	return post, nil
}

// ListPosts returns one page of posts, newest first, plus the total and
// whether more pages exist.
func (s *Service) ListPosts(_ context.Context, offset, limit int) ([]models.Post, int, bool, error) {
	rows, total, err := s.db.ListPosts(limit, offset)
	if err != nil {
		return nil, 0, false, err
	}
	posts := make([]models.Post, len(rows))
	for i := range rows {
		posts[i] = *postFromRow(&rows[i])
	}
	hasNext := offset+len(rows) < total
	return posts, total, hasNext, nil
}

// UpdatePost validates and applies an update.
func (s *Service) UpdatePost(_ context.Context, id int64, in UpdatePostInput) (*models.Post, error) {
	in.Tags = NormalizeTags(in.Tags)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row, err := s.db.UpdatePost(id, in.Title, in.Content, in.Tags, in.URL, in.ThumbnailURL)
	if err != nil {
		return nil, err
	}
	return postFromRow(row), nil
}

// DeletePost removes a post and its comments.
func (s *Service) DeletePost(_ context.Context, id int64) error {
	return s.db.DeletePost(id)
}

// VerifyPostPassword compares a candidate against the stored hash.
// Returns apperr.ErrPasswordMismatch on a wrong password and
// apperr.ErrNotFound for a missing post.
func (s *Service) VerifyPostPassword(_ context.Context, id int64, password string) error {
	hash, err := s.db.PostPasswordHash(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return apperr.ErrPasswordMismatch
	}
	return nil
}

func postFromRow(r *store.PostRow) *models.Post {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Post{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		CreatedAt:    r.CreatedAt,
		Views:        r.Views,
		Tags:         tags,
		CommentCount: r.CommentCount,
		URL:          r.URL,
		ThumbnailURL: r.ThumbnailURL,
	}
}

func commentFromRow(r *store.CommentRow) models.Comment {
	return models.Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

// IsValidationError reports whether err came from request validation
// rather than storage or authorization.
func IsValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.Error
	return errors.As(err, &verr)
}
