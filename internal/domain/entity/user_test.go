package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_Greeting(t *testing.T) {
	assert.Equal(t, "Robin", (&User{Username: "robin", DisplayName: "Robin"}).Greeting())
	assert.Equal(t, "robin", (&User{Username: "robin"}).Greeting())
	assert.Equal(t, "r.birch", (&User{Username: "robin", Email: "r.birch@example.com"}).Greeting())
}

func TestUser_IsActive(t *testing.T) {
	assert.True(t, (&User{Status: UserStatusActive}).IsActive())
	assert.False(t, (&User{Status: UserStatusDisabled}).IsActive())
}

func TestRefreshToken_State(t *testing.T) {
	now := time.Now().UTC()
	token := &RefreshToken{ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, token.IsExpired())
	assert.False(t, token.IsRevoked())

	token = &RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &now}
	assert.False(t, token.IsExpired())
	assert.True(t, token.IsRevoked())
}
