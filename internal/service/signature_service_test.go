package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	secret := "federation-shared-secret"
	payload := svc.BuildCanonicalString("POST", "/federation/register", 1708092000, "n-1", `{"username":"alice"}`)

	signature := svc.Sign(secret, payload)

	assert.Regexp(t, `^[0-9a-f]{64}$`, signature)
	assert.True(t, svc.Verify(secret, payload, signature))
	assert.True(t, svc.Verify(secret, payload, strings.ToUpper(signature)), "hex case is not significant")
}

func TestHMACSignatureService_VerifyFailures(t *testing.T) {
	svc := NewHMACSignatureService()
	sig := svc.Sign("right", "payload")

	assert.False(t, svc.Verify("wrong", "payload", sig))
	assert.False(t, svc.Verify("right", "tampered", sig))
	assert.False(t, svc.Verify("right", "payload", "deadbeef"))
	assert.False(t, svc.Verify("right", "payload", ""))
}

func TestHMACSignatureService_BuildCanonicalString(t *testing.T) {
	svc := NewHMACSignatureService()
	body := `{"username":"alice","account_id":"GABC"}`
	sum := sha256.Sum256([]byte(body))

	got := svc.BuildCanonicalString("post", "/federation/register", 1708092000, "abc123", body)

	want := "POST\n/federation/register\n1708092000\nabc123\n" + hex.EncodeToString(sum[:])
	assert.Equal(t, want, got)
}

func TestHMACSignatureService_EmptyBody(t *testing.T) {
	svc := NewHMACSignatureService()

	got := svc.BuildCanonicalString("GET", "/federation", 1, "n", "")

	// sha256 of the empty string
	assert.True(t, strings.HasSuffix(got, "\ne3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"))
}
