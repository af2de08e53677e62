package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_RoundTrip(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	s, err := m.Create("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, 5*time.Second)

	id, err := m.UserID(s.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestSessionManager_Expired(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	s, err := m.Create("user-1")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.UserID(s.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_WrongSecret(t *testing.T) {
	s, err := NewSessionManager("right", time.Hour).Create("user-1")
	require.NoError(t, err)

	_, err = NewSessionManager("wrong", time.Hour).UserID(s.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_Garbage(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := m.UserID(tok)
		assert.ErrorIs(t, err, ErrInvalidSession, tok)
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	tok, digest, err := newToken()
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.Equal(t, digest, hashToken(tok))
	assert.NotEqual(t, tok, digest)
}
