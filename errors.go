package identity

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to collaborators so user-facing messages can be mapped
// without string matching on error messages.
const (
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeAccountDisabled  = "ACCOUNT_DISABLED"
	TextCodeDuplicateLoginID = "DUPLICATE_LOGIN_ID"
	TextCodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeWeakPassword     = "WEAK_PASSWORD"
	TextCodeNotLinked        = "IDENTITY_NOT_LINKED"
	TextCodeSessionNotFound  = "SESSION_NOT_FOUND"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
)

// ErrInvalidCredentials is the single answer for both an unknown login id and
// a wrong password. Collapsing the two prevents identifier enumeration.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountDisabled is returned once identity is proven but the account is
// inactive. Distinct messaging is safe here: the secret already matched.
var ErrAccountDisabled = goerrors.New("the account is disabled", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountDisabled).
	WithCode(goerrors.CodeForbidden)

// ErrDuplicateLoginID is a recoverable registration conflict.
var ErrDuplicateLoginID = goerrors.New("login id is already in use", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateLoginID).
	WithCode(goerrors.CodeConflict)

// ErrAccountNotFound is returned by administrative operations that reference
// a nonexistent account. Never used on the login path.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrIdentityNotLinked means a federated claim has no mapped account.
// Provisioning on miss is the caller's decision, not ours.
var ErrIdentityNotLinked = goerrors.New("federated identity is not linked to an account", goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotLinked).
	WithCode(goerrors.CodeNotFound)

// ErrUnableToFindSession is the error when a request carries no session token.
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired marks a session token past its expiry.
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed marks a session token we could not decode.
var ErrTokenMalformed = goerrors.New("session token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// IsUniqueViolation detects a storage-level unique constraint failure. The
// exact error shape is driver specific, so we match on the two spellings the
// supported dialects produce.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for undecodable tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
