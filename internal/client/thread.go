package client

import (
	"context"
	"errors"
	"strings"

	"github.com/hyunsol/techtalk/internal/apperr"
	"github.com/hyunsol/techtalk/internal/models"
)

// DefaultCommentPageSize matches the server's comment page size.
const DefaultCommentPageSize = 10

// Default password lengths mirror the server's defaults. Both are
// overridable per instance because the server policy is configurable.
const (
	DefaultPostPasswordLength    = 6
	DefaultCommentPasswordLength = 4
)

var (
	// ErrCommentEmpty is returned when a comment is blank after trimming.
	ErrCommentEmpty = errors.New("comment content is empty")
	// ErrCommentTooLong is returned when a comment exceeds 200 characters.
	ErrCommentTooLong = errors.New("comment content exceeds 200 characters")
	// ErrBadPassword is returned when the local password rules fail.
	ErrBadPassword = errors.New("password does not satisfy the rules")
	// ErrLoading is returned when a load is already in flight.
	ErrLoading = errors.New("a page load is already in flight")
)

// Thread reconciles an incrementally loaded comment list with comments
// the user just wrote. A freshly registered comment is held aside as
// the pending "recent" comment and pinned to the end of the visible
// list until a server page brings back the same id, at which point the
// server copy wins and the pending slot is cleared. The recent comment
// therefore appears exactly once no matter how loads and registrations
// interleave.
type Thread struct {
	api      Backend
	postID   int64
	pageSize int
	pwLength int

	loaded  []models.Comment
	recent  *models.Comment
	total   int
	loading bool
}

// NewThread starts a thread from a post's embedded first comment page
// and total count. passwordLength sets the comment password rule; zero
// means DefaultCommentPasswordLength.
func NewThread(api Backend, postID int64, first []models.Comment, total int, passwordLength int) *Thread {
	if passwordLength <= 0 {
		passwordLength = DefaultCommentPasswordLength
	}
	t := &Thread{api: api, postID: postID, pageSize: DefaultCommentPageSize, pwLength: passwordLength}
	t.loaded = append(t.loaded, first...)
	t.total = total
	return t
}

// Total returns the server-reported comment count plus any pending
// comment not yet reflected in it.
func (t *Thread) Total() int { return t.total }

// HasMore reports whether the server holds comments beyond what is
// shown. The pending comment counts as shown even before a page
// returns it.
func (t *Thread) HasMore() bool {
	shown := len(t.loaded)
	if t.recent != nil {
		shown++
	}
	return shown < t.total
}

// Visible returns the comments in display order: the loaded sequence
// with any copy of the recent comment filtered out, then the recent
// comment pinned at the end.
func (t *Thread) Visible() []models.Comment {
	out := make([]models.Comment, 0, len(t.loaded)+1)
	for _, c := range t.loaded {
		if t.recent != nil && c.ID == t.recent.ID {
			continue
		}
		out = append(out, c)
	}
	if t.recent != nil {
		out = append(out, *t.recent)
	}
	return out
}

// Register validates and submits a new comment. On success it becomes
// the pending recent comment; any previous pending comment is folded
// into the loaded sequence so it stays visible.
func (t *Thread) Register(ctx context.Context, content, password string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrCommentEmpty
	}
	if len([]rune(content)) > 200 {
		return ErrCommentTooLong
	}
	f := NewPasswordField(t.pwLength)
	f.Set(password)
	if !f.Valid() {
		return ErrBadPassword
	}

	c, err := t.api.CreateComment(ctx, t.postID, content, password)
	if err != nil {
		return err
	}
	if t.recent != nil && !t.contains(t.recent.ID) {
		t.loaded = append(t.loaded, *t.recent)
	}
	t.recent = c
	t.total++
	return nil
}

// LoadMore fetches the next server page and appends it. Overlapping
// loads are rejected rather than queued.
func (t *Thread) LoadMore(ctx context.Context) error {
	if t.loading {
		return ErrLoading
	}
	if !t.HasMore() {
		return nil
	}
	t.loading = true
	defer func() { t.loading = false }()

	page, total, err := t.api.ListComments(ctx, t.postID, len(t.loaded), t.pageSize)
	if err != nil {
		return err
	}
	for _, c := range page {
		if t.contains(c.ID) {
			continue
		}
		t.loaded = append(t.loaded, c)
	}
	t.total = total
	t.reconcile()
	return nil
}

// SetInitial replaces the thread state from a fresh first page, as
// after a page-level refetch. Merge semantics keep a still-pending
// recent comment visible.
func (t *Thread) SetInitial(first []models.Comment, total int) {
	merged, pending := Merge(first, t.recent)
	t.loaded = merged
	t.recent = pending
	t.total = total
}

// Merge reconciles a server page with a pending comment. When the page
// already carries the pending id the server copy wins and the pending
// slot empties; otherwise the page passes through and the comment stays
// pending.
func Merge(serverPage []models.Comment, pending *models.Comment) ([]models.Comment, *models.Comment) {
	out := make([]models.Comment, len(serverPage))
	copy(out, serverPage)
	if pending == nil {
		return out, nil
	}
	for _, c := range out {
		if c.ID == pending.ID {
			return out, nil
		}
	}
	return out, pending
}

// Edit updates a comment's content after checking its password with
// the server. A wrong password surfaces as apperr.ErrPasswordMismatch
// and leaves the thread untouched.
func (t *Thread) Edit(ctx context.Context, id int64, content, password string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrCommentEmpty
	}
	updated, err := t.api.UpdateComment(ctx, id, content, password)
	if err != nil {
		return err
	}
	if t.recent != nil && t.recent.ID == id {
		t.recent = updated
		return nil
	}
	for i := range t.loaded {
		if t.loaded[i].ID == id {
			t.loaded[i] = *updated
			break
		}
	}
	return nil
}

// Delete removes a comment after checking its password with the
// server.
func (t *Thread) Delete(ctx context.Context, id int64, password string) error {
	if err := t.api.DeleteComment(ctx, id, password); err != nil {
		return err
	}
	if t.recent != nil && t.recent.ID == id {
		t.recent = nil
	}
	for i := range t.loaded {
		if t.loaded[i].ID == id {
			t.loaded = append(t.loaded[:i], t.loaded[i+1:]...)
			break
		}
	}
	if t.total > 0 {
		t.total--
	}
	return nil
}

// MutationMessage translates a mutation error into the inline message
// shown next to the comment.
func MutationMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, apperr.ErrPasswordMismatch):
		return "비밀번호가 일치하지 않습니다."
	case errors.Is(err, apperr.ErrNotFound):
		return "댓글을 찾을 수 없습니다."
	default:
		return "요청을 처리하지 못했습니다."
	}
}

func (t *Thread) contains(id int64) bool {
	for _, c := range t.loaded {
		if c.ID == id {
			return true
		}
	}
	return false
}

// reconcile clears the pending slot once the loaded sequence carries
// the same id.
func (t *Thread) reconcile() {
	if t.recent == nil {
		return
	}
	if t.contains(t.recent.ID) {
		t.recent = nil
	}
}
