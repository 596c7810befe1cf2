package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	low    = 100000
	spread = 900000 // codes are drawn uniformly from [100000, 999999]
)

// New generates a 6-digit numeric one-time passcode. The draw is uniform over
// the closed range and backed by crypto/rand, since the value gates an
// authentication decision.
func New() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(spread))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+low), nil
}
