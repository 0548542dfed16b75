package variants

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
)

func TestSKUPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		product     string
		combination Combination
		want        string
	}{
		{name: "basic", product: "Cotton Tee", combination: Combination{{Value: "Red"}, {Value: "M"}}, want: "COTTON-RE-M"},
		{name: "whitespace stripped", product: "  t s h i r t s ", combination: Combination{{Value: " x l "}}, want: "TSHIRT-XL"},
		{name: "blank product", product: "   ", combination: Combination{{Value: "Blue"}}, want: "SKU-BL"},
		{name: "multibyte", product: "চা পাতা বিশেষ", combination: Combination{{Value: "৫০০"}}, want: "চাপাতা-৫০"},
		{name: "no attributes", product: "Mug", combination: nil, want: "MUG"},
	}

	for _, tc := range cases {
		if got := SKUPrefix(tc.product, tc.combination); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestSKUGeneratorUsesLastFourDigits(t *testing.T) {
	t.Parallel()

	gen := NewSKUGenerator(&fixedSequence{values: []int64{1730000123456}}, 3)
	sku, err := gen.Generate(context.Background(), "Mug", Combination{{Value: "Blue"}}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sku != "MUG-BL-3456" {
		t.Fatalf("expected MUG-BL-3456, got %s", sku)
	}
}

func TestSKUGeneratorRetriesOnCollision(t *testing.T) {
	t.Parallel()

	seq := &fixedSequence{values: []int64{7, 7, 8}}
	gen := NewSKUGenerator(seq, 3)
	taken := map[string]struct{}{"MUG-0007": {}}

	sku, err := gen.Generate(context.Background(), "Mug", nil, taken)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sku != "MUG-0008" {
		t.Fatalf("expected MUG-0008, got %s", sku)
	}
	if seq.calls != 3 {
		t.Fatalf("expected 3 sequence draws, got %d", seq.calls)
	}
}

func TestSKUGeneratorGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	gen := NewSKUGenerator(&fixedSequence{values: []int64{7, 7, 7}}, 3)
	_, err := gen.Generate(context.Background(), "Mug", nil, map[string]struct{}{"MUG-0007": {}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

type stubCounter struct {
	n   int64
	key string
	err error
}

func (c *stubCounter) Incr(_ context.Context, key string) (int64, error) {
	c.key = key
	if c.err != nil {
		return 0, c.err
	}
	c.n++
	return c.n, nil
}

func (c *stubCounter) CounterKey(name string) string { return "samucha:counter:" + name }

func TestCounterSequence(t *testing.T) {
	t.Parallel()

	counter := &stubCounter{n: 41}
	seq := NewCounterSequence(counter, "sku")
	n, err := seq.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if n != 42 || counter.key != "samucha:counter:sku" {
		t.Fatalf("unexpected draw %d from %s", n, counter.key)
	}

	counter.err = errors.New("connection refused")
	if _, err := seq.Next(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestClockSequenceMonotonic(t *testing.T) {
	t.Parallel()

	frozen := time.UnixMilli(1_000)
	seq := &ClockSequence{now: func() time.Time { return frozen }}
	var last int64
	for i := 0; i < 5; i++ {
		n, err := seq.Next(context.Background())
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if n <= last {
			t.Fatalf("sequence went backwards: %d after %d", n, last)
		}
		last = n
	}
}
