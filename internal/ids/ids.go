// Package ids generates collision-free integer identifiers for string
// resources, either sequentially or at random.
package ids

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
)

const (
	// FirstID is returned by sequential generation for an empty table.
	FirstID = 1
	// DefaultMin is the lowest id random generation draws.
	DefaultMin = 1
	// DefaultMax is the highest id random generation draws.
	DefaultMax = 32767
	// DefaultMaxAttempts bounds the random draws for one id.
	DefaultMaxAttempts = 1000
)

// randomMode mirrors the persisted "random id" preference.
var randomMode atomic.Bool

// SetRandom switches the process-wide generation mode.
func SetRandom(random bool) { randomMode.Store(random) }

// Random reports whether random generation is active.
func Random() bool { return randomMode.Load() }

// ExhaustedError is returned when random generation finds no free id.
type ExhaustedError struct {
	Min, Max int
	Attempts int
	Used     int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("identifier space exhausted: no free id in [%d, %d] after %d attempts (%d in use)",
		e.Min, e.Max, e.Attempts, e.Used)
}

// Set is a set of ids already in use.
type Set map[int]struct{}

// NewSet builds a set from ids.
func NewSet(ids ...int) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id.
func (s Set) Add(id int) { s[id] = struct{}{} }

// Has reports whether id is in use.
func (s Set) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Generator produces ids within configured bounds.
type Generator struct {
	Min         int
	Max         int
	MaxAttempts int
	// IntN draws a value in [0, n). Defaults to math/rand/v2.
	IntN func(n int) int
}

// NewGenerator returns a generator with default bounds.
func NewGenerator() *Generator {
	return &Generator{
		Min:         DefaultMin,
		Max:         DefaultMax,
		MaxAttempts: DefaultMaxAttempts,
	}
}

var defaultGenerator atomic.Pointer[Generator]

func init() {
	defaultGenerator.Store(NewGenerator())
}

// Configure replaces the bounds used by Next.
func Configure(g *Generator) {
	if g != nil {
		defaultGenerator.Store(g)
	}
}

// Next returns a free id using the process-wide mode and generator.
func Next(existing Set) (int, error) {
	return defaultGenerator.Load().Next(existing, Random())
}

// Next returns a free id in sequential or random mode.
func (g *Generator) Next(existing Set, random bool) (int, error) {
	if random {
		return g.NextRandom(existing)
	}
	return NextSequential(existing), nil
}

// NextSequential returns max(existing)+1, or FirstID when existing is empty.
func NextSequential(existing Set) int {
	if len(existing) == 0 {
		return FirstID
	}
	maxID := 0
	first := true
	for id := range existing {
		if first || id > maxID {
			maxID = id
			first = false
		}
	}
	return maxID + 1
}

// NextRandom draws ids in [Min, Max] until one is not in existing.
func (g *Generator) NextRandom(existing Set) (int, error) {
	lo, hi := g.Min, g.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	intN := g.IntN
	if intN == nil {
		intN = rand.IntN
	}

	span := hi - lo + 1
	if usedInRange(existing, lo, hi) >= span {
		return 0, &ExhaustedError{Min: lo, Max: hi, Attempts: 0, Used: len(existing)}
	}

	for i := 0; i < attempts; i++ {
		id := lo + intN(span)
		if !existing.Has(id) {
			return id, nil
		}
	}
	return 0, &ExhaustedError{Min: lo, Max: hi, Attempts: attempts, Used: len(existing)}
}

func usedInRange(existing Set, lo, hi int) int {
	n := 0
	for id := range existing {
		if id >= lo && id <= hi {
			n++
		}
	}
	return n
}
