package api_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lawbuddy/lawbuddy-api/api"
)

func TestSignTokenRoundTrip(t *testing.T) {
	token, err := api.SignToken("64b1f0a0a0a0a0a0a0a0a0a0", "USER", "test-secret", api.TokenTTL)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := api.ParseToken(token, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, "64b1f0a0a0a0a0a0a0a0a0a0", claims.ID)
	assert.Equal(t, "USER", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := api.SignToken("64b1f0a0a0a0a0a0a0a0a0a0", "USER", "test-secret", api.TokenTTL)
	assert.NoError(t, err)

	_, err = api.ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := api.SignToken("64b1f0a0a0a0a0a0a0a0a0a0", "USER", "test-secret", -time.Minute)
	assert.NoError(t, err)

	_, err = api.ParseToken(token, "test-secret")
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := api.ParseToken("asdfasdf", "test-secret")
	assert.Error(t, err)
}
