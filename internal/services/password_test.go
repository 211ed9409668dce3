package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	for _, scheme := range []string{HasherBcrypt, HasherArgon2id} {
		t.Run(scheme, func(t *testing.T) {
			h := NewPasswordHasher(scheme)

			hash, err := h.Hash("correct horse")
			require.NoError(t, err)
			assert.NotContains(t, hash, "correct horse")

			ok, err := h.Verify("correct horse", hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("battery staple", hash)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestPasswordHasher_VerifiesEitherScheme(t *testing.T) {
	argonHash, err := NewPasswordHasher(HasherArgon2id).Hash("secret-pass")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(argonHash, argon2idPrefix))

	ok, err := NewPasswordHasher(HasherBcrypt).Verify("secret-pass", argonHash)
	require.NoError(t, err)
	assert.True(t, ok)

	bcryptHash, err := NewPasswordHasher("unknown").Hash("secret-pass")
	require.NoError(t, err)

	ok, err = NewPasswordHasher(HasherArgon2id).Verify("secret-pass", bcryptHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionManager(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	session, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	userID, err := m.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	other, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, other.Token, "every token carries its own id")
}

func TestSessionManager_Rejects(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	session, err := m.Issue("user-1")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := NewSessionManager("another-secret", time.Hour).Parse(session.Token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := m.Parse(session.Token + "x")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewSessionManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err := later.Parse(session.Token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}
