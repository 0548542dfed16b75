package enums

import "fmt"

// AttributeType classifies a configurable product dimension.
type AttributeType string

const (
	AttributeTypeColor    AttributeType = "color"
	AttributeTypeSize     AttributeType = "size"
	AttributeTypeWeight   AttributeType = "weight"
	AttributeTypeVolume   AttributeType = "volume"
	AttributeTypeMaterial AttributeType = "material"
	AttributeTypeStyle    AttributeType = "style"
	AttributeTypeCustom   AttributeType = "custom"
)

var validAttributeTypes = []AttributeType{
	AttributeTypeColor,
	AttributeTypeSize,
	AttributeTypeWeight,
	AttributeTypeVolume,
	AttributeTypeMaterial,
	AttributeTypeStyle,
	AttributeTypeCustom,
}

// String implements fmt.Stringer.
func (a AttributeType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AttributeType.
func (a AttributeType) IsValid() bool {
	for _, candidate := range validAttributeTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAttributeType converts raw input into an AttributeType.
func ParseAttributeType(value string) (AttributeType, error) {
	for _, candidate := range validAttributeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attribute type %q", value)
}
