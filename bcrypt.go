package identity

import (
	"golang.org/x/crypto/bcrypt"

	goerrors "github.com/goliatone/go-errors"
)

// HashCost is the bcrypt work factor used for new hashes.
const HashCost = 12

// dummyHash is compared against when the login id is unknown so the lookup
// miss and the password mismatch paths do the same amount of work.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("identity.dummy.password"), passwordHashCost())

// HashPassword will generate a salted password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}
	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if goerrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to compare password hash")
	}
	return nil
}

// compareAgainstDummy burns a bcrypt comparison when no account exists. It
// always fails; the point is the CPU time, not the result.
func compareAgainstDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
