package authform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLogin(t *testing.T) {
	assert.Error(t, validateLogin(""))
	assert.Error(t, validateLogin("ab"))
	assert.Error(t, validateLogin("  a  "))
	assert.NoError(t, validateLogin("alice"))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, validatePassword("12345"))
	assert.NoError(t, validatePassword("123456"))
}

func TestStartPrefillsRememberedLogin(t *testing.T) {
	m := New(80, 24)
	m.Start(SignIn, "alice", "")

	assert.Equal(t, SignIn, m.Mode())
	assert.Equal(t, "alice", m.fb.login)
}

func TestFailWithErrorClearsPasswords(t *testing.T) {
	m := New(80, 24)
	m.Start(Register, "alice", "secret1")
	m.fb.confirm = "secret1"

	m.FailWithError(assert.AnError)

	assert.Equal(t, "alice", m.fb.login)
	assert.Empty(t, m.fb.password)
	assert.Empty(t, m.fb.confirm)
}
