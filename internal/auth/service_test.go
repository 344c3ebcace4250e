package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndLogin(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	principal, err := svc.SignUp("Alice@Example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, principal)

	// Emails are case-insensitive.
	token, err := svc.Login("alice@example.com", "hunter22")
	require.NoError(t, err)

	parsed, err := svc.principalFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal, parsed)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.SignUp("alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.SignUp("ALICE@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpRejectsEmptyFields(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.SignUp("", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignUp("alice@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.SignUp("alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenSignedWithDifferentSecretRejected(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	token, err := issuer.IssueToken("alice")
	require.NoError(t, err)

	_, err = verifier.principalFromToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	token, err := svc.IssueToken("alice")
	require.NoError(t, err)

	_, err = svc.principalFromToken(token)
	assert.Error(t, err)
}
