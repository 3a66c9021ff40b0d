package crypto

import "fmt"

const (
	// DealCodeLength is the length of a generated deal code
	DealCodeLength = 6
	// VerificationCodeLength is the length of a redemption verification code
	VerificationCodeLength = 6

	dealCodeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	verificationAlphabet = "0123456789"
)

// GenerateDealCode returns a short uppercase alphanumeric code. Uniqueness is
// not guaranteed; callers regenerate on a persistence conflict.
func GenerateDealCode() (string, error) {
	return randomString(DealCodeLength, dealCodeAlphabet)
}

// GenerateVerificationCode returns a numeric code shown at the point of sale.
func GenerateVerificationCode() (string, error) {
	return randomString(VerificationCodeLength, verificationAlphabet)
}

// randomString draws from alphabet with rejection sampling so every symbol is
// equally likely.
func randomString(length int, alphabet string) (string, error) {
	n := len(alphabet)
	limit := 256 - (256 % n)

	out := make([]byte, 0, length)
	buf := make([]byte, length*2)
	for len(out) < length {
		if _, err := randomRead(buf); err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
