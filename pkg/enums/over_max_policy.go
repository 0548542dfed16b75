package enums

import (
	"fmt"
	"strings"
)

// OverMaxPolicy decides what an add-to-cart does when the merged quantity would
// exceed the product's maximum order quantity.
type OverMaxPolicy string

const (
	OverMaxPolicyReject OverMaxPolicy = "reject"
	OverMaxPolicyClamp  OverMaxPolicy = "clamp"
)

var validOverMaxPolicies = []OverMaxPolicy{
	OverMaxPolicyReject,
	OverMaxPolicyClamp,
}

// String implements fmt.Stringer.
func (p OverMaxPolicy) String() string {
	return string(p)
}

// IsValid reports whether the value is a known OverMaxPolicy.
func (p OverMaxPolicy) IsValid() bool {
	for _, candidate := range validOverMaxPolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseOverMaxPolicy converts raw input into an OverMaxPolicy. Empty input
// falls back to reject.
func ParseOverMaxPolicy(value string) (OverMaxPolicy, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return OverMaxPolicyReject, nil
	}
	for _, candidate := range validOverMaxPolicies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid over max policy %q", value)
}
