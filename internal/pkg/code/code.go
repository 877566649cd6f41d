package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the 36-symbol space verification codes are drawn from.
// Uppercase-only keeps codes unambiguous when users retype them.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a random verification code of the given length, each
// character drawn uniformly from Alphabet. Codes carry no uniqueness
// guarantee across calls. Safe for concurrent use: the only shared state
// is the process-wide CSPRNG.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	b := make([]byte, length)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(Alphabet))))
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		b[i] = Alphabet[idx.Int64()]
	}
	return string(b), nil
}
