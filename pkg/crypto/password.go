package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor for stored account passwords
	DefaultCost = 12
	// MaxPasswordBytes is the longest input bcrypt reads; anything past it
	// would be silently ignored.
	MaxPasswordBytes = 72
)

// ErrPasswordTooLong is returned for passwords bcrypt would truncate
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// swapped out in tests
var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// HashPassword returns the bcrypt hash stored in place of a plain password.
func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcryptGenerateFromPassword([]byte(plain), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches a hash from HashPassword.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateRandomToken reads n bytes from crypto/rand and hex encodes them, so
// the result is 2n characters long.
func GenerateRandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := randomRead(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateSessionID returns an opaque 128-bit session key
func GenerateSessionID() (string, error) {
	return GenerateRandomToken(16)
}
