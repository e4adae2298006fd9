package domain

import (
	"regexp"
	"strings"

	"github.com/stellar/go/strkey"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 32

	// FederationSeparator splits a federated address into username and domain.
	FederationSeparator = "*"
)

var (
	federatedAddressRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+\*[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameCharsetRe  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ReservedUsernames cannot be registered by anyone. Compared case-insensitively.
var ReservedUsernames = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"www":     {},
	"mail":    {},
	"support": {},
	"help":    {},
	"info":    {},
	"root":    {},
}

// Username rule violation messages, in the order the rules are checked.
const (
	MsgUsernameTooShort   = "Username must be at least 3 characters long"
	MsgUsernameTooLong    = "Username must be at most 32 characters long"
	MsgUsernameCharset    = "Username may only contain letters, numbers, underscores and hyphens"
	MsgUsernameEdgeSymbol = "Username cannot start or end with a hyphen or underscore"
	MsgUsernameReserved   = "Username is reserved"
)

// FederatedAddress is a parsed "username*domain" address.
type FederatedAddress struct {
	Username string
	Domain   string
}

func (a FederatedAddress) String() string {
	return a.Username + FederationSeparator + a.Domain
}

// IsValidFederatedAddress reports whether address looks like "name*domain.tld".
func IsValidFederatedAddress(address string) bool {
	return federatedAddressRe.MatchString(address)
}

// ParseFederatedAddress splits a valid federated address on its '*'.
// Addresses containing more than one '*' never match the pattern and are rejected.
func ParseFederatedAddress(address string) (FederatedAddress, bool) {
	if !IsValidFederatedAddress(address) {
		return FederatedAddress{}, false
	}
	username, domain, _ := strings.Cut(address, FederationSeparator)
	return FederatedAddress{Username: username, Domain: domain}, true
}

// LooksFederated reports whether a payment destination should go through
// federation resolution rather than be treated as a raw account id.
func LooksFederated(destination string) bool {
	return strings.Contains(destination, FederationSeparator)
}

// BuildFederatedAddress joins a normalized username with the federation domain.
func BuildFederatedAddress(username, domain string) string {
	return NormalizeUsername(username) + FederationSeparator + strings.ToLower(domain)
}

// NormalizeUsername lowercases and trims a username; directory keys are
// always stored in this form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// IsValidPublicKey reports whether s is a well-formed account id (G...).
func IsValidPublicKey(s string) bool {
	return strkey.IsValidEd25519PublicKey(s)
}

// IsValidSecretKey reports whether s is a well-formed secret seed (S...).
func IsValidSecretKey(s string) bool {
	return strkey.IsValidEd25519SecretSeed(s)
}

// ValidateUsername applies the naming rules. Every rule is checked; each
// violated rule contributes its own message. Availability is not checked here.
func ValidateUsername(username string) UsernameValidation {
	errs := make([]string, 0)

	if len(username) < UsernameMinLength {
		errs = append(errs, MsgUsernameTooShort)
	}
	if len(username) > UsernameMaxLength {
		errs = append(errs, MsgUsernameTooLong)
	}
	if !usernameCharsetRe.MatchString(username) {
		errs = append(errs, MsgUsernameCharset)
	}
	if strings.HasPrefix(username, "-") || strings.HasPrefix(username, "_") ||
		strings.HasSuffix(username, "-") || strings.HasSuffix(username, "_") {
		errs = append(errs, MsgUsernameEdgeSymbol)
	}
	if _, reserved := ReservedUsernames[strings.ToLower(username)]; reserved {
		errs = append(errs, MsgUsernameReserved)
	}

	return UsernameValidation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
