// Package id mints ULID run identifiers.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator mints ULIDs that sort by creation time, increasing even within one millisecond.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewGenerator returns a generator reading time from now, or the wall clock when now is nil.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     now,
	}
}

// Next returns the next identifier.
func (g *Generator) Next() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

var runIDs = NewGenerator(nil)

// NewRunID identifies one reconciliation batch.
func NewRunID() ulid.ULID {
	return runIDs.Next()
}
