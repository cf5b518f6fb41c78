package client

import (
	"context"
	"strings"

	"github.com/hyunsol/techtalk/internal/models"
)

// WriteForm models the post compose screen for both creating and
// editing. Editing skips the password pair because ownership was
// already proven through the verify step.
type WriteForm struct {
	Title    string
	Content  string
	URL      string
	Password *PasswordForm

	tags    []string
	editing *models.Post
}

// NewWriteForm creates an empty compose form whose password pair
// requires exactly passwordLength characters.
func NewWriteForm(passwordLength int) *WriteForm {
	return &WriteForm{Password: NewPasswordForm(passwordLength)}
}

// BeginEdit prefills the form from an existing post and switches it
// into edit mode.
func (f *WriteForm) BeginEdit(p models.Post) {
	f.editing = &p
	f.Title = p.Title
	f.Content = p.Content
	f.URL = p.URL
	f.tags = append([]string(nil), p.Tags...)
	f.Password.Reset()
}

// Editing reports whether the form updates an existing post.
func (f *WriteForm) Editing() bool { return f.editing != nil }

// ApplyAnalysis prefills the form from an AI analysis without
// clobbering anything the user already typed: only empty fields are
// filled.
func (f *WriteForm) ApplyAnalysis(a models.URLAnalysis) {
	d := ComposeDraft(a)
	if f.Title == "" {
		f.Title = d.Title
	}
	if f.Content == "" {
		f.Content = d.Content
	}
	if len(f.tags) == 0 {
		f.tags = d.Tags
	}
	if f.URL == "" {
		f.URL = d.URL
	}
}

// Tags returns the current tag list.
func (f *WriteForm) Tags() []string {
	return append([]string(nil), f.tags...)
}

// AddTag appends a tag after trimming. Blank and duplicate tags are
// silently dropped.
func (f *WriteForm) AddTag(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	for _, t := range f.tags {
		if t == s {
			return
		}
	}
	f.tags = append(f.tags, s)
}

// RemoveTag drops a tag by value.
func (f *WriteForm) RemoveTag(s string) {
	for i, t := range f.tags {
		if t == s {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return
		}
	}
}

// CanSubmit reports whether the submit button is enabled: a non-blank
// title within 50 characters, non-blank content, and for new posts a
// valid matching password pair.
func (f *WriteForm) CanSubmit() bool {
	title := strings.TrimSpace(f.Title)
	if title == "" || len([]rune(title)) > 50 {
		return false
	}
	if strings.TrimSpace(f.Content) == "" {
		return false
	}
	if f.editing == nil && !f.Password.Valid() {
		return false
	}
	return true
}

// Submit sends the form to the server, creating or updating depending
// on mode, and resets the form on success.
func (f *WriteForm) Submit(ctx context.Context, api Backend, thumbnailURL string) (*models.Post, error) {
	draft := PostDraft{
		Title:        strings.TrimSpace(f.Title),
		Content:      f.Content,
		Tags:         f.Tags(),
		URL:          f.URL,
		ThumbnailURL: thumbnailURL,
	}

	var (
		post *models.Post
		err  error
	)
	if f.editing != nil {
		post, err = api.UpdatePost(ctx, f.editing.ID, draft)
	} else {
		draft.Password = f.Password.Password.Value()
		post, err = api.CreatePost(ctx, draft)
	}
	if err != nil {
		return nil, err
	}
	f.reset()
	return post, nil
}

func (f *WriteForm) reset() {
	f.Title = ""
	f.Content = ""
	f.URL = ""
	f.tags = nil
	f.editing = nil
	f.Password.Reset()
}
