package domain

import (
	"strings"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidFederatedAddress(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"alice*chappi.com", true},
		{"alice_01*chappi.com", true},
		{"Bob-2*rewards.example.org", true},
		{"x*a.io", true},
		{"alice*chappi", false},       // no dot in domain
		{"alice*chappi.c", false},     // tld too short
		{"alice*chappi.c0m", false},   // tld must be letters
		{"*chappi.com", false},        // empty local part
		{"alice.b*chappi.com", false}, // dot in local part
		{"alice*bob*chappi.com", false},
		{"alicechappi.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidFederatedAddress(tt.address))
		})
	}
}

func TestParseFederatedAddress(t *testing.T) {
	addr, ok := ParseFederatedAddress("alice_01*chappi.com")
	require.True(t, ok)
	assert.Equal(t, "alice_01", addr.Username)
	assert.Equal(t, "chappi.com", addr.Domain)
	assert.Equal(t, "alice_01*chappi.com", addr.String())
}

func TestParseFederatedAddress_Invalid(t *testing.T) {
	for _, in := range []string{"alice", "alice*", "a*b*c.com", "alice*chappi"} {
		_, ok := ParseFederatedAddress(in)
		assert.False(t, ok, in)
	}
}

func TestParseFederatedAddress_MatchesPatternSplit(t *testing.T) {
	locals := []string{"a", "alice", "A_b-9", "___x", "0"}
	domains := []string{"chappi.com", "sub.domain.io", "x-y.example.org"}

	for _, l := range locals {
		for _, d := range domains {
			s := l + "*" + d
			require.True(t, IsValidFederatedAddress(s), s)
			addr, ok := ParseFederatedAddress(s)
			require.True(t, ok, s)
			assert.Equal(t, l, addr.Username)
			assert.Equal(t, d, addr.Domain)
		}
	}
}

func TestBuildFederatedAddress(t *testing.T) {
	addr := BuildFederatedAddress("Alice_01", "Chappi.com")

	assert.Equal(t, "alice_01*chappi.com", addr)
	assert.True(t, IsValidFederatedAddress(addr))
}

func TestKeyFormatCheckers(t *testing.T) {
	kp, err := keypair.Random()
	require.NoError(t, err)

	assert.True(t, IsValidPublicKey(kp.Address()))
	assert.False(t, IsValidPublicKey(kp.Seed()))
	assert.True(t, IsValidSecretKey(kp.Seed()))
	assert.False(t, IsValidSecretKey(kp.Address()))

	for _, junk := range []string{"", "G", "not-a-key", strings.Repeat("G", 56), "alice*chappi.com"} {
		assert.False(t, IsValidPublicKey(junk), junk)
		assert.False(t, IsValidSecretKey(junk), junk)
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
		errors   []string
	}{
		{"valid simple", "alice", true, nil},
		{"valid with digits and symbols", "alice_01", true, nil},
		{"valid min length", "abc", true, nil},
		{"valid max length", strings.Repeat("a", 32), true, nil},
		{"too short", "ab", false, []string{MsgUsernameTooShort}},
		{"too long", strings.Repeat("a", 33), false, []string{MsgUsernameTooLong}},
		{"bad charset", "alice.b", false, []string{MsgUsernameCharset}},
		{"leading hyphen", "-alice", false, []string{MsgUsernameEdgeSymbol}},
		{"trailing underscore", "alice_", false, []string{MsgUsernameEdgeSymbol}},
		{"reserved", "admin", false, []string{MsgUsernameReserved}},
		{"reserved case-insensitive", "SuPPort", false, []string{MsgUsernameReserved}},
		{"short and bad charset", "a!", false, []string{MsgUsernameTooShort, MsgUsernameCharset}},
		{"long and bad charset", strings.Repeat("b", 33) + " ", false, []string{MsgUsernameTooLong, MsgUsernameCharset}},
		{"empty", "", false, []string{MsgUsernameTooShort, MsgUsernameCharset}},
		{"short with edge symbol", "_a", false, []string{MsgUsernameTooShort, MsgUsernameEdgeSymbol}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateUsername(tt.username)
			assert.Equal(t, tt.valid, got.IsValid)
			if tt.errors == nil {
				assert.Empty(t, got.Errors)
			} else {
				assert.Equal(t, tt.errors, got.Errors)
			}
			assert.False(t, got.IsAvailable, "availability is not decided by format validation")
		})
	}
}

func TestLooksFederated(t *testing.T) {
	assert.True(t, LooksFederated("bob*chappi.com"))
	assert.False(t, LooksFederated("GABC"))
}
