package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"
)

// NumberGenerator yields unique, human-readable order numbers. It is a
// collaborator of the orchestrator so tests can substitute a fixed one.
type NumberGenerator interface {
	Next() string
}

// OrderNumbers generates time-ordered numbers. A bare timestamp collides
// under concurrent requests within the same second, so a process-local
// monotonic counter and a cryptographic random suffix are appended.
type OrderNumbers struct {
	seq atomic.Uint64
}

func NewOrderNumbers() *OrderNumbers {
	return &OrderNumbers{}
}

func (g *OrderNumbers) Next() string {
	now := time.Now().UTC()
	datePart := now.Format("20060102-150405")
	seq := g.seq.Add(1) % 1000

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("ORD-%s-%03d-%04d", datePart, seq, n.Int64())
}
