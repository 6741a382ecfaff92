package ledger

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	referenceMin  = 100_000
	referenceSpan = 900_000
)

// RandomReference draws a 6-digit payment reference from crypto/rand. It
// never blocks on anything outside the process. Uniqueness is not guaranteed
// here; the payment store's unique index is the authority and the coordinator
// redraws on collision.
func RandomReference() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(referenceSpan))
	if err != nil {
		return 0, fmt.Errorf("generate reference number: %w", err)
	}
	return referenceMin + int(n.Int64()), nil
}
