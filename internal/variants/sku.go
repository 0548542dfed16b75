package variants

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
)

const (
	baseCodeLength    = 6
	valueCodeLength   = 2
	suffixModulo      = 10000
	defaultMaxRetries = 5
	fallbackBaseCode  = "SKU"
)

// Sequence yields a monotonically increasing number per call.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// Counter is the subset of the redis client used for a shared sequence.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// CounterSequence draws numbers from a shared counter so SKUs stay unique across processes.
type CounterSequence struct {
	counter Counter
	key     string
}

// NewCounterSequence builds a Sequence over the named counter.
func NewCounterSequence(counter Counter, name string) *CounterSequence {
	return &CounterSequence{counter: counter, key: counter.CounterKey(name)}
}

func (s *CounterSequence) Next(ctx context.Context) (int64, error) {
	n, err := s.counter.Incr(ctx, s.key)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sku sequence unavailable")
	}
	return n, nil
}

// ClockSequence is an in-process sequence seeded from the wall clock.
type ClockSequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClockSequence returns a ClockSequence reading time.Now.
func NewClockSequence() *ClockSequence {
	return &ClockSequence{now: time.Now}
}

func (s *ClockSequence) Next(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate := s.now().UnixMilli()
	if candidate <= s.last {
		candidate = s.last + 1
	}
	s.last = candidate
	return candidate, nil
}

// SKUGenerator builds human-readable SKUs with a sequence-derived suffix.
type SKUGenerator struct {
	seq         Sequence
	maxAttempts int
}

// NewSKUGenerator wires a generator. maxAttempts <= 0 uses the default.
func NewSKUGenerator(seq Sequence, maxAttempts int) *SKUGenerator {
	if seq == nil {
		seq = NewClockSequence()
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxRetries
	}
	return &SKUGenerator{seq: seq, maxAttempts: maxAttempts}
}

// Generate returns BASE-VV-VV-NNNN for the combination, retrying with a fresh
// suffix while the candidate is already in taken.
func (g *SKUGenerator) Generate(ctx context.Context, productName string, combination Combination, taken map[string]struct{}) (string, error) {
	prefix := SKUPrefix(productName, combination)
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		n, err := g.seq.Next(ctx)
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s-%04d", prefix, n%suffixModulo)
		if _, exists := taken[candidate]; !exists {
			return candidate, nil
		}
	}
	return "", pkgerrors.Newf(pkgerrors.CodeConflict, "could not allocate a unique sku for %s after %d attempts", prefix, g.maxAttempts)
}

// SKUPrefix is the human-readable part of a SKU: product code then one code per value.
func SKUPrefix(productName string, combination Combination) string {
	base := code(productName, baseCodeLength)
	if base == "" {
		base = fallbackBaseCode
	}
	parts := []string{base}
	for _, entry := range combination {
		if c := code(entry.Value, valueCodeLength); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "-")
}

func code(raw string, length int) string {
	var b strings.Builder
	n := 0
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		if n == length {
			break
		}
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	return b.String()
}
