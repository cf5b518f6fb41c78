package client

import (
	"context"
)

// GateAction names what a verified password unlocks.
type GateAction int

const (
	// ActionEdit routes to the write form after verification.
	ActionEdit GateAction = iota
	// ActionDelete removes the post after verification.
	ActionDelete
)

// Gate models the password prompt guarding post edit and delete. The
// verify call and the mutation are separate requests: verification can
// succeed and the mutation still fail, in which case the prompt stays
// open with an inline message and the typed password is kept for
// another attempt.
type Gate struct {
	api    Backend
	postID int64
	action GateAction

	Password *PasswordField
	open     bool
	message  string
}

// NewGate opens a password prompt for the given post and action.
// passwordLength sets the expected password length; zero means
// DefaultPostPasswordLength.
func NewGate(api Backend, postID int64, action GateAction, passwordLength int) *Gate {
	if passwordLength <= 0 {
		passwordLength = DefaultPostPasswordLength
	}
	return &Gate{
		api:      api,
		postID:   postID,
		action:   action,
		Password: NewPasswordField(passwordLength),
		open:     true,
	}
}

// Open reports whether the prompt is still showing.
func (g *Gate) Open() bool { return g.open }

// Action returns what the gate will unlock.
func (g *Gate) Action() GateAction { return g.action }

// Message returns the inline error shown under the password input.
func (g *Gate) Message() string { return g.message }

// Cancel dismisses the prompt and clears its state.
func (g *Gate) Cancel() {
	g.open = false
	g.message = ""
	g.Password.Reset()
}

// Confirm verifies the typed password and, for ActionDelete, performs
// the deletion. It returns true once the gated action may proceed (for
// ActionEdit: route to the write form) and the prompt has closed. On
// any failure the prompt stays open with a message and the password is
// retained.
func (g *Gate) Confirm(ctx context.Context) (bool, error) {
	if !g.open {
		return false, nil
	}
	g.Password.Touch()
	if !g.Password.Valid() {
		g.message = g.Password.Message()
		return false, nil
	}

	ok, err := g.api.VerifyPostPassword(ctx, g.postID, g.Password.Value())
	if err != nil {
		g.message = "비밀번호 검증에 실패했습니다."
		return false, err
	}
	if !ok {
		g.message = "비밀번호가 일치하지 않습니다."
		return false, nil
	}

	if g.action == ActionDelete {
		if err := g.api.DeletePost(ctx, g.postID); err != nil {
			g.message = "삭제에 실패했습니다."
			return false, err
		}
	}

	g.open = false
	g.message = ""
	return true, nil
}
