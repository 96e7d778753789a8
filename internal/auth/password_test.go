package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("night-shift-42")
	req.NoError(err)
	req.Contains(hash, "$argon2id$")

	ok, err := ComparePassword("night-shift-42", hash)
	req.NoError(err)
	req.True(ok)

	ok, err = ComparePassword("day-shift-42", hash)
	req.NoError(err)
	req.False(ok)

	other, err := HashPassword("night-shift-42")
	req.NoError(err)
	req.NotEqual(hash, other, "salts must differ")
}

func TestComparePassword_InvalidFormat(t *testing.T) {
	_, err := ComparePassword("x", "not-a-hash")
	require.Error(t, err)

	_, err = ComparePassword("x", "$bcrypt$v=19$m=1,t=1,p=1$abc$def")
	require.Error(t, err)
}
