package passhash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is tuned for ~100-250 ms per hash on production hardware.
// bcrypt embeds the cost in the digest, so it can be raised later without
// invalidating stored hashes.
const DefaultCost = 12

// DummyDigest is a digest of a throwaway password. Login flows compare
// against it when the email is unknown so both paths burn the same work.
const DummyDigest = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword creates a salted bcrypt digest with the default cost.
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, DefaultCost)
}

func HashPasswordWithCost(password string, cost int) (string, error) {
	if len(password) > 72 {
		// bcrypt silently truncates beyond 72 bytes; reject instead
		return "", ErrPasswordTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword compares a plaintext password with a bcrypt digest.
// A malformed stored digest is reported as a non-match, never a panic:
// callers treat any non-nil error the same as false.
func VerifyPassword(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Cost reports the cost parameter embedded in an encoded digest.
func Cost(encoded string) (int, error) {
	return bcrypt.Cost([]byte(encoded))
}
