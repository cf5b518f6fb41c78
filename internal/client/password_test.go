package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordFieldMessages(t *testing.T) {
	f := NewPasswordField(6)

	assert.Equal(t, "", f.Message(), "untouched field shows nothing")

	f.Set("abc")
	assert.Equal(t, "비밀번호는 6자리 이상 입력해주세요.", f.Message())
	assert.False(t, f.Valid())

	f.Set("abc1234")
	assert.Equal(t, "비밀번호는 6자리 이하로 입력해주세요.", f.Message())

	f.Set("abc!12")
	assert.Equal(t, "비밀번호는 영문과 숫자만 입력할 수 있습니다.", f.Message())

	f.Set("abc123")
	assert.Equal(t, "", f.Message())
	assert.True(t, f.Valid())

	// clearing the input suppresses the message again
	f.Set("")
	assert.Equal(t, "", f.Message())
	assert.False(t, f.Valid())
}

func TestPasswordFieldCountsCharactersNotBytes(t *testing.T) {
	f := NewPasswordField(4)

	// four Hangul characters are twelve bytes but the length rule is
	// satisfied, so only the charset message applies
	f.Set("가나다라")
	assert.Equal(t, "비밀번호는 영문과 숫자만 입력할 수 있습니다.", f.Message())
	assert.False(t, f.Valid())

	f.Set("가나다")
	assert.Equal(t, "비밀번호는 4자리 이상 입력해주세요.", f.Message())
}

func TestPasswordFieldLengthOutranksPattern(t *testing.T) {
	f := NewPasswordField(6)
	f.Set("ab!")
	assert.Equal(t, "비밀번호는 6자리 이상 입력해주세요.", f.Message())
}

func TestPasswordFieldReset(t *testing.T) {
	f := NewPasswordField(4)
	f.Set("x")
	f.Reset()
	assert.Equal(t, "", f.Value())
	assert.Equal(t, "", f.Message(), "reset clears the touched flag")
}

func TestPasswordFormConfirm(t *testing.T) {
	f := NewPasswordForm(6)
	f.Password.Set("abc123")

	assert.Equal(t, "", f.ConfirmMessage(), "untouched confirm shows nothing")
	assert.False(t, f.Valid())

	f.SetConfirm("abc12")
	assert.Equal(t, "비밀번호가 일치하지 않습니다.", f.ConfirmMessage())
	assert.False(t, f.Valid())

	f.SetConfirm("abc123")
	assert.Equal(t, "", f.ConfirmMessage())
	assert.True(t, f.Valid())

	f.Reset()
	assert.Equal(t, "", f.Password.Value())
	assert.Equal(t, "", f.Confirm())
	assert.Equal(t, "", f.ConfirmMessage())
}

func TestPasswordFieldCommentLength(t *testing.T) {
	f := NewPasswordField(4)
	f.Set("pw12")
	assert.True(t, f.Valid())
	f.Set("pw123")
	assert.False(t, f.Valid())
	assert.Equal(t, "비밀번호는 4자리 이하로 입력해주세요.", f.Message())
}
