package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		req := require.New(t)
		m := NewTokenManager("secret", time.Hour)

		token, claims, err := m.Generate("user-1")
		req.NoError(err)
		req.Equal("user-1", claims.UserID)

		parsed, err := m.Validate(token)
		req.NoError(err)
		req.Equal("user-1", parsed.UserID)
		req.Equal(claims.ID, parsed.ID)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token, _, err := NewTokenManager("one", time.Hour).Generate("user-1")
		require.NoError(t, err)

		_, err = NewTokenManager("two", time.Hour).Validate(token)
		require.Error(t, err)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		m := NewTokenManager("secret", time.Minute)
		m.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := m.Generate("user-1")
		require.NoError(t, err)

		m.now = time.Now
		_, err = m.Validate(token)
		require.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewTokenManager("secret", time.Hour).Validate("abc.def.ghi")
		require.Error(t, err)
	})
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", BearerToken("Bearer abc"))
	require.Equal(t, "abc", BearerToken("bearer  abc "))
	require.Equal(t, "", BearerToken("abc"))
	require.Equal(t, "", BearerToken(""))
}
