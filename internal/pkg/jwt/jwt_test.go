package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	s := New("secret", time.Hour)

	token, err := s.GenerateToken("user-1")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("secret", time.Hour).GenerateToken("user-1")
	require.NoError(t, err)

	_, err = New("other", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	token, err := New("secret", -time.Minute).GenerateToken("user-1")
	require.NoError(t, err)

	_, err = New("secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidate_EmptyUserID(t *testing.T) {
	s := New("secret", time.Hour)
	token, err := s.GenerateToken("")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}
