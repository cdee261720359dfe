package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour, "mindnest")

	pair, err := m.GenerateTokenPair("user-1", "robin", "robin@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(60), pair.ExpiresIn)
	assert.Len(t, pair.RefreshToken, 43)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	userID, ok := claims.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "robin", claims.Username)

	other, err := m.GenerateTokenPair("user-1", "robin", "robin@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, other.RefreshToken)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour, "mindnest")
	pair, err := m.GenerateTokenPair("user-1", "robin", "")
	require.NoError(t, err)

	_, err = NewJWTManager("other-secret", time.Minute, time.Hour, "mindnest").ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTManager("secret", time.Minute, time.Hour, "someone-else").ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTManager("secret", -time.Hour, time.Hour, "mindnest")
	pair, err = expired.GenerateTokenPair("user-1", "robin", "")
	require.NoError(t, err)
	_, err = expired.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = m.ValidateAccessToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearer(t *testing.T) {
	token, err := ExtractBearer("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = ExtractBearer("")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = ExtractBearer("Basic abc")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ExtractBearer("Bearer   ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestHashRefreshToken(t *testing.T) {
	assert.Equal(t, HashRefreshToken("a"), HashRefreshToken("a"))
	assert.NotEqual(t, HashRefreshToken("a"), HashRefreshToken("b"))
	assert.Len(t, HashRefreshToken("a"), 64)
}
