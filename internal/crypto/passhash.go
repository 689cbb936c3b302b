// Package crypto implements server-side password hashing and random token generation.
package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the fixed work factor for stored password hashes.
const BcryptCost = 10

// ShareAlphabet omits characters that are easy to confuse when read aloud or typed (0/O, 1/l/I).
const ShareAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// dummyHash is compared against when no stored hash exists, so a missing user
// costs the same bcrypt round as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("brainly-dummy-password"), BcryptCost)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// RandString returns n characters drawn uniformly from ShareAlphabet.
// Bytes at or above the largest multiple of the alphabet size are discarded to avoid modulo bias.
func RandString(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("crypto: non-positive length")
	}
	const limit = 256 - 256%len(ShareAlphabet)
	out := make([]byte, 0, n)
	for len(out) < n {
		buf, err := RandBytes(n - len(out) + 8)
		if err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, ShareAlphabet[int(b)%len(ShareAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, BcryptCost)
}

// VerifyPassword reports whether password matches hash. An empty hash never
// matches but still spends one bcrypt comparison.
func VerifyPassword(password, hash []byte) bool {
	if len(hash) == 0 {
		_ = bcrypt.CompareHashAndPassword(dummyHash, password)
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}
