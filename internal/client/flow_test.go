package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateConfirmDelete(t *testing.T) {
	f := newFakeBackend()
	g := NewGate(f, 42, ActionDelete, 0)
	ctx := context.Background()

	g.Password.Set("wrong1")
	done, err := g.Confirm(ctx)
	require.NoError(t, err)
	assert.False(t, done)
	assert.True(t, g.Open())
	assert.Equal(t, "비밀번호가 일치하지 않습니다.", g.Message())
	assert.Equal(t, "wrong1", g.Password.Value(), "typed password is kept for retry")
	assert.Empty(t, f.deletedPosts)

	g.Password.Set("abc123")
	done, err = g.Confirm(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.False(t, g.Open())
	assert.Equal(t, []int64{42}, f.deletedPosts)
}

func TestGateConfirmEditDoesNotDelete(t *testing.T) {
	f := newFakeBackend()
	g := NewGate(f, 7, ActionEdit, 0)

	g.Password.Set("abc123")
	done, err := g.Confirm(context.Background())
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, f.deletedPosts, "edit only verifies")
}

func TestGateLocalValidationShortCircuits(t *testing.T) {
	f := newFakeBackend()
	g := NewGate(f, 7, ActionEdit, 0)

	g.Password.Set("abc")
	done, err := g.Confirm(context.Background())
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "비밀번호는 6자리 이상 입력해주세요.", g.Message())
}

func TestGateVerifyFailureKeepsPromptOpen(t *testing.T) {
	f := newFakeBackend()
	f.verifyErr = errors.New("boom")
	g := NewGate(f, 7, ActionDelete, 0)

	g.Password.Set("abc123")
	done, err := g.Confirm(context.Background())
	assert.Error(t, err)
	assert.False(t, done)
	assert.True(t, g.Open())
	assert.Equal(t, "비밀번호 검증에 실패했습니다.", g.Message())
}

func TestGateDeleteFailureAfterVerify(t *testing.T) {
	f := newFakeBackend()
	f.deleteErr = errors.New("boom")
	g := NewGate(f, 7, ActionDelete, 0)

	g.Password.Set("abc123")
	done, err := g.Confirm(context.Background())
	assert.Error(t, err)
	assert.False(t, done)
	assert.True(t, g.Open(), "verification passed but deletion failed, prompt stays")
	assert.Equal(t, "삭제에 실패했습니다.", g.Message())
	assert.Equal(t, "abc123", g.Password.Value())
}

func TestGateCancel(t *testing.T) {
	g := NewGate(newFakeBackend(), 7, ActionDelete, 0)
	g.Password.Set("abc123")
	g.Cancel()
	assert.False(t, g.Open())
	assert.Equal(t, "", g.Password.Value())

	done, err := g.Confirm(context.Background())
	require.NoError(t, err)
	assert.False(t, done, "a dismissed prompt confirms nothing")
}

func TestGatePasswordLengthConfigurable(t *testing.T) {
	f := newFakeBackend()
	f.password = "abcd1234"
	g := NewGate(f, 7, ActionEdit, 8)

	g.Password.Set("abc123")
	done, err := g.Confirm(context.Background())
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "비밀번호는 8자리 이상 입력해주세요.", g.Message())

	g.Password.Set("abcd1234")
	done, err = g.Confirm(context.Background())
	require.NoError(t, err)
	assert.True(t, done)
}
