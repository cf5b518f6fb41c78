package client

import (
	"fmt"
	"regexp"
)

var passwordPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// PasswordField validates a single password input of a fixed length.
// Messages stay empty until the field has been touched so a form does
// not scold the user before they typed anything.
type PasswordField struct {
	Length  int
	value   string
	touched bool
}

// NewPasswordField creates a field requiring exactly length characters.
func NewPasswordField(length int) *PasswordField {
	return &PasswordField{Length: length}
}

// Set updates the value and marks the field touched.
func (f *PasswordField) Set(v string) {
	f.value = v
	f.touched = true
}

// Value returns the current input.
func (f *PasswordField) Value() string { return f.value }

// Touch marks the field as interacted with, e.g. on blur or submit.
func (f *PasswordField) Touch() { f.touched = true }

// Valid reports whether the value satisfies the length and character
// rules, independent of touched state.
func (f *PasswordField) Valid() bool {
	return len([]rune(f.value)) == f.Length && passwordPattern.MatchString(f.value)
}

// Message returns the highest-priority violation, or "" when the field
// is valid, empty, or not yet touched. Length errors outrank character
// errors. Length is counted in characters, not bytes, so multibyte
// input gets the right message.
func (f *PasswordField) Message() string {
	if !f.touched || f.value == "" {
		return ""
	}
	if n := len([]rune(f.value)); n < f.Length {
		return fmt.Sprintf("비밀번호는 %d자리 이상 입력해주세요.", f.Length)
	} else if n > f.Length {
		return fmt.Sprintf("비밀번호는 %d자리 이하로 입력해주세요.", f.Length)
	}
	if !passwordPattern.MatchString(f.value) {
		return "비밀번호는 영문과 숫자만 입력할 수 있습니다."
	}
	return ""
}

// Reset clears the value and the touched flag together.
func (f *PasswordField) Reset() {
	f.value = ""
	f.touched = false
}

// PasswordForm pairs a password field with its confirmation input.
type PasswordForm struct {
	Password *PasswordField
	confirm  string
	cTouched bool
}

// NewPasswordForm creates a password-with-confirmation pair requiring
// exactly length characters.
func NewPasswordForm(length int) *PasswordForm {
	return &PasswordForm{Password: NewPasswordField(length)}
}

// SetConfirm updates the confirmation value and marks it touched.
func (f *PasswordForm) SetConfirm(v string) {
	f.confirm = v
	f.cTouched = true
}

// Confirm returns the confirmation input.
func (f *PasswordForm) Confirm() string { return f.confirm }

// Match reports whether password and confirmation agree.
func (f *PasswordForm) Match() bool {
	return f.Password.Value() == f.confirm
}

// ConfirmMessage returns the mismatch message once the confirmation has
// been touched and disagrees with a non-empty password.
func (f *PasswordForm) ConfirmMessage() string {
	if !f.cTouched || f.confirm == "" {
		return ""
	}
	if !f.Match() {
		return "비밀번호가 일치하지 않습니다."
	}
	return ""
}

// Valid reports whether the pair is ready for submission.
func (f *PasswordForm) Valid() bool {
	return f.Password.Valid() && f.Match()
}

// Reset clears both inputs and their touched flags atomically, so a
// reused modal never shows a stale error.
func (f *PasswordForm) Reset() {
	f.Password.Reset()
	f.confirm = ""
	f.cTouched = false
}
