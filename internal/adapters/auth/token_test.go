package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuth_SessionToken(t *testing.T) {
	issuer, verifier := NewJWTAuth("test-secret")

	token, err := issuer.Issue("user-1", "ana@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestJWTAuth_ProfileToken(t *testing.T) {
	issuer, verifier := NewJWTAuth("test-secret")

	token, err := issuer.IssueProfileToken("new@example.com", time.Hour)
	require.NoError(t, err)

	email, err := verifier.VerifyProfileToken(token)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", email)
}

func TestJWTAuth_TokenKindsAreNotInterchangeable(t *testing.T) {
	issuer, verifier := NewJWTAuth("test-secret")

	profileToken, err := issuer.IssueProfileToken("new@example.com", time.Hour)
	require.NoError(t, err)
	_, err = verifier.Verify(profileToken)
	assert.Error(t, err)

	sessionToken, err := issuer.Issue("user-1", "ana@example.com", time.Hour)
	require.NoError(t, err)
	_, err = verifier.VerifyProfileToken(sessionToken)
	assert.Error(t, err)
}

func TestJWTAuth_RejectsWrongSecret(t *testing.T) {
	issuer, _ := NewJWTAuth("secret-a")
	_, verifier := NewJWTAuth("secret-b")

	token, err := issuer.Issue("user-1", "ana@example.com", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTAuth_RejectsExpiredToken(t *testing.T) {
	issuer, verifier := NewJWTAuth("test-secret")

	token, err := issuer.Issue("user-1", "ana@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTAuth_RejectsGarbage(t *testing.T) {
	_, verifier := NewJWTAuth("test-secret")

	_, err := verifier.Verify("not-a-jwt")
	assert.Error(t, err)
}
