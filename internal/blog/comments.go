package blog

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyunsol/techtalk/internal/apperr"
	"github.com/hyunsol/techtalk/internal/models"
)

// CreateCommentInput carries the fields for registering a comment.
type CreateCommentInput struct {
	PostID   int64  `json:"postId"`
	Content  string `json:"content"`
	Password string `json:"password"`
}

// Validate checks the comment against the posting rules.
func (in CreateCommentInput) Validate(policy PasswordPolicy) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PostID, validation.Required),
		validation.Field(&in.Content, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.Password, policy.rule(policy.CommentLength)...),
	)
}

// CreateComment validates, hashes the password, and stores the comment.
func (s *Service) CreateComment(_ context.Context, in CreateCommentInput) (*models.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := in.Validate(s.policy); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("blog: hash password: %w", err)
	}
	row, err := s.db.CreateComment(in.PostID, in.Content, string(hash))
	if err != nil {
		return nil, err
	}
	c := commentFromRow(row)
	return &c, nil
}

// ListComments returns one page of a post's comments plus the total.
func (s *Service) ListComments(_ context.Context, postID int64, offset, limit int) ([]models.Comment, int, error) {
	rows, total, err := s.db.ListComments(postID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.Comment, len(rows))
	for i := range rows {
		out[i] = commentFromRow(&rows[i])
	}
	return out, total, nil
}

// UpdateComment replaces a comment's content after verifying its password.
func (s *Service) UpdateComment(_ context.Context, id int64, content, password string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || password == "" {
		return nil, validation.NewError("validation_required", "password and content are required")
	}
	if err := s.verifyCommentPassword(id, password); err != nil {
		return nil, err
	}
	row, err := s.db.UpdateComment(id, content)
	if err != nil {
		return nil, err
	}
	c := commentFromRow(row)
	return &c, nil
}

// DeleteComment removes a comment after verifying its password.
func (s *Service) DeleteComment(_ context.Context, id int64, password string) error {
	if password == "" {
		return validation.NewError("validation_required", "password is required")
	}
	if err := s.verifyCommentPassword(id, password); err != nil {
		return err
	}
	return s.db.DeleteComment(id)
}

func (s *Service) verifyCommentPassword(id int64, password string) error {
	hash, err := s.db.CommentPasswordHash(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return apperr.ErrPasswordMismatch
	}
	return nil
}
