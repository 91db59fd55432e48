package jwtauth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseVisitorToken(t *testing.T) {
	tm := NewTokenManager("test-secret-key", "funnel-api", 24)
	visitorID := uuid.NewString()

	token, err := tm.IssueVisitorToken(visitorID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ParseVisitorToken(token)
	require.NoError(t, err)
	assert.Equal(t, visitorID, claims.VisitorID)
	assert.Equal(t, visitorID, claims.Subject)
	assert.Equal(t, "funnel-api", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", "funnel-api", 24)
	other := NewTokenManager("secret-b", "funnel-api", 24)

	token, err := tm.IssueVisitorToken(uuid.NewString())
	require.NoError(t, err)

	_, err = other.ParseVisitorToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret-key", "funnel-api", -1)

	token, err := tm.IssueVisitorToken(uuid.NewString())
	require.NoError(t, err)

	_, err = tm.ParseVisitorToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret-key", "funnel-api", 24)

	_, err := tm.ParseVisitorToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, TimingSafeCompare("abc", "abc"))
	assert.False(t, TimingSafeCompare("abc", "abd"))
	assert.False(t, TimingSafeCompare("abc", ""))
}
