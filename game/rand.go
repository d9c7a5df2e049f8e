package game

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Rand produces uniform random ints in [0, n). The engine takes it as an
// injected capability so tests can supply deterministic sequences.
// *math/rand.Rand satisfies it directly.
type Rand interface {
	Intn(n int) int
}

// CryptoRand draws from crypto/rand (CSPRNG). Production default.
type CryptoRand struct {
	// Reader defaults to crypto/rand.Reader when nil.
	Reader io.Reader
}

// Intn returns a uniform random int in [0, n). If the entropy source fails it
// returns n-1, which loses the win gate at every rate below 100 and lands on
// the last roulette slot; a dead source degrades toward losses, never toward
// extra wins.
func (c CryptoRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r := c.Reader
	if r == nil {
		r = rand.Reader
	}
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return n - 1
	}
	return int(v.Int64())
}
