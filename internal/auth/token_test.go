package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safelink-service/internal/model"
)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	principal := model.Principal{ActorID: "user_1", Role: model.ActorRoleRescue, Name: "Team 4"}

	raw, expiresAt, err := tokens.Issue(principal)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, principal, claims.Principal())
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	raw, _, err := NewTokens("other", time.Hour).Issue(model.Principal{ActorID: "user_1", Role: model.ActorRoleCivilian})
	require.NoError(t, err)
	_, err = tokens.Parse(raw)
	assert.Error(t, err, "wrong secret")

	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, _, err = expired.Issue(model.Principal{ActorID: "user_1", Role: model.ActorRoleCivilian})
	require.NoError(t, err)
	_, err = tokens.Parse(raw)
	assert.Error(t, err, "expired")

	raw, _, err = tokens.Issue(model.Principal{ActorID: "user_1"})
	require.NoError(t, err)
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid, "role not chosen")

	_, err = tokens.Parse("not-a-token")
	assert.Error(t, err)
}
