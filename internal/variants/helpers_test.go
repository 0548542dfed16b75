package variants

import (
	"context"
	"fmt"
	"testing"

	"github.com/Saymandev/samucha-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

type fixedSequence struct {
	values []int64
	calls  int
}

func (s *fixedSequence) Next(context.Context) (int64, error) {
	if s.calls >= len(s.values) {
		return 0, fmt.Errorf("sequence exhausted after %d calls", s.calls)
	}
	v := s.values[s.calls]
	s.calls++
	return v, nil
}

type countingSequence struct{ n int64 }

func (s *countingSequence) Next(context.Context) (int64, error) {
	s.n++
	return s.n, nil
}

func newTestExpander() *Expander {
	e := NewExpander(NewSKUGenerator(&countingSequence{}, 3))
	var ids int
	e.newID = func() string {
		ids++
		return fmt.Sprintf("variant-%d", ids)
	}
	return e
}

func dec(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", raw, err)
	}
	return d
}

func values(mods map[string]string, order ...string) []AttributeValue {
	out := make([]AttributeValue, 0, len(order))
	for _, v := range order {
		value := AttributeValue{Value: v}
		if raw, ok := mods[v]; ok {
			value.PriceModifier = decimal.RequireFromString(raw)
		}
		out = append(out, value)
	}
	return out
}

func colorSizeDefinitions() []AttributeDefinition {
	return []AttributeDefinition{
		{Name: "Color", Type: enums.AttributeTypeColor, Values: values(nil, "Red", "Blue")},
		{Name: "Size", Type: enums.AttributeTypeSize, AffectsPrice: true, Values: values(map[string]string{"S": "0", "M": "20"}, "S", "M")},
	}
}
