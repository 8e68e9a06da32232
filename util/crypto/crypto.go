// Package crypto is the credential store: salted one-way digests for
// passwords and tokens, with verification only. Plaintext is never
// recoverable from a digest.
package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/ku-unplugged/livelog/config"
)

// HashDigest generates a bcrypt digest of the given plaintext. The work
// factor comes from config; tests run at the bcrypt minimum.
func HashDigest(plain string) (string, error) {
	cost := config.GetBcryptCost()
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(hash), err
}

// VerifyDigest reports whether candidate hashes to digest. An empty or
// absent digest verifies false rather than erroring, and the comparison
// itself is bcrypt's constant-time check.
func VerifyDigest(digest, candidate string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)) == nil
}
