package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-key-for-unit-tests"

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 24*time.Hour, "test-issuer")

	tokenStr, expiresAt, err := svc.Generate("ops-console")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "ops-console", claims.Subject)
}

func TestJWTTokenService_EmptySubject(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "issuer")

	_, _, err := svc.Generate("")
	assert.Error(t, err)
}

func TestJWTTokenService_ExpiredToken(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, -1*time.Hour, "test-issuer")

	tokenStr, _, err := svc.Generate("ops")
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.Error(t, err, "expired token should fail validation")
}

func TestJWTTokenService_InvalidSignature(t *testing.T) {
	svc1 := NewJWTTokenService("secret-1", 24*time.Hour, "issuer")
	svc2 := NewJWTTokenService("secret-2", 24*time.Hour, "issuer")

	tokenStr, _, err := svc1.Generate("ops")
	require.NoError(t, err)

	_, err = svc2.Validate(tokenStr)
	assert.Error(t, err, "token signed with different secret should fail")
}

func TestJWTTokenService_WrongIssuer(t *testing.T) {
	svc1 := NewJWTTokenService(testJWTSecret, time.Hour, "someone-else")
	svc2 := NewJWTTokenService(testJWTSecret, time.Hour, "chappi-wallet")

	tokenStr, _, err := svc1.Generate("ops")
	require.NoError(t, err)

	_, err = svc2.Validate(tokenStr)
	assert.Error(t, err)
}

func TestJWTTokenService_MalformedToken(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 24*time.Hour, "issuer")

	for _, tok := range []string{"", "not.a.valid.jwt"} {
		_, err := svc.Validate(tok)
		assert.Error(t, err, tok)
	}
}
