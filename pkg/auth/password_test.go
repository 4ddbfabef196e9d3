package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	pm := NewPasswordManager()

	hash, err := pm.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, pm.ComparePassword(hash, "correct horse"))
	assert.Error(t, pm.ComparePassword(hash, "battery staple"))
}

func TestHashPasswordTooShort(t *testing.T) {
	pm := NewPasswordManager()

	_, err := pm.HashPassword("ab")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestValidatePassword(t *testing.T) {
	pm := NewPasswordManager()

	assert.NoError(t, pm.ValidatePassword("abc"))
	assert.ErrorIs(t, pm.ValidatePassword(""), ErrWeakPassword)
}
