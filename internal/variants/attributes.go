package variants

import (
	"strings"

	"github.com/Saymandev/samucha-storefront/pkg/enums"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"go.uber.org/multierr"
)

// AddAttribute appends def to defs after normalizing and validating it.
// The input slice is never modified.
func AddAttribute(defs []AttributeDefinition, def AttributeDefinition) ([]AttributeDefinition, error) {
	def.Name = strings.TrimSpace(def.Name)
	if def.Type == "" {
		def.Type = enums.AttributeTypeCustom
	}
	if err := ValidateDefinitions([]AttributeDefinition{def}); err != nil {
		return defs, err
	}
	if indexOf(defs, def.Name) >= 0 {
		return defs, pkgerrors.Newf(pkgerrors.CodeValidation, "attribute %q already exists", def.Name)
	}

	values := make([]AttributeValue, 0, len(def.Values))
	for _, value := range def.Values {
		values = append(values, normalizeValue(def.Type, value))
	}
	def.Values = values

	out := cloneDefinitions(defs)
	return append(out, def), nil
}

// AddValueToAttribute appends value to the named attribute. Blank and duplicate
// values are rejected here so expansion can assume clean input.
func AddValueToAttribute(defs []AttributeDefinition, name string, value AttributeValue) ([]AttributeDefinition, error) {
	idx := indexOf(defs, name)
	if idx < 0 {
		return defs, pkgerrors.Newf(pkgerrors.CodeNotFound, "attribute %q not found", name)
	}
	value.Value = strings.TrimSpace(value.Value)
	if value.Value == "" {
		return defs, pkgerrors.New(pkgerrors.CodeValidation, "attribute value cannot be blank")
	}
	if _, exists := defs[idx].FindValue(value.Value); exists {
		return defs, pkgerrors.Newf(pkgerrors.CodeValidation, "value %q already exists on attribute %q", value.Value, name)
	}

	out := cloneDefinitions(defs)
	out[idx].Values = append(out[idx].Values, normalizeValue(out[idx].Type, value))
	return out, nil
}

// RemoveValueFromAttribute drops value from the named attribute. Absent names
// and values are ignored.
func RemoveValueFromAttribute(defs []AttributeDefinition, name, value string) []AttributeDefinition {
	out := cloneDefinitions(defs)
	idx := indexOf(out, name)
	if idx < 0 {
		return out
	}
	kept := out[idx].Values[:0]
	for _, v := range out[idx].Values {
		if v.Value != value {
			kept = append(kept, v)
		}
	}
	out[idx].Values = kept
	return out
}

// RemoveAttribute drops the named attribute definition.
func RemoveAttribute(defs []AttributeDefinition, name string) []AttributeDefinition {
	out := make([]AttributeDefinition, 0, len(defs))
	for _, def := range cloneDefinitions(defs) {
		if def.Name != name {
			out = append(out, def)
		}
	}
	return out
}

// ValidateDefinitions checks a whole attribute configuration before expansion
// and reports every problem found.
func ValidateDefinitions(defs []AttributeDefinition) error {
	var errs error
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if _, dup := seen[def.Name]; dup {
			errs = multierr.Append(errs, pkgerrors.Newf(pkgerrors.CodeConfiguration, "attribute %q is defined more than once", def.Name))
		}
		seen[def.Name] = struct{}{}
		errs = multierr.Append(errs, validateDefinition(def))
	}
	if errs == nil {
		return nil
	}
	problems := multierr.Errors(errs)
	messages := make([]string, 0, len(problems))
	for _, problem := range problems {
		if typed := pkgerrors.As(problem); typed != nil {
			messages = append(messages, typed.Message())
			continue
		}
		messages = append(messages, problem.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeConfiguration, errs, strings.Join(messages, "; ")).
		WithDetails(map[string]any{"problems": messages})
}

func validateDefinition(def AttributeDefinition) error {
	var errs error
	if strings.TrimSpace(def.Name) == "" {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeConfiguration, "attribute name is required"))
	}
	if def.Type != "" && !def.Type.IsValid() {
		errs = multierr.Append(errs, pkgerrors.Newf(pkgerrors.CodeConfiguration, "attribute %q has unknown type %q", def.Name, def.Type))
	}
	if len(def.Values) == 0 {
		errs = multierr.Append(errs, pkgerrors.Newf(pkgerrors.CodeConfiguration, "attribute %q has no values", def.Name))
	}
	seen := make(map[string]struct{}, len(def.Values))
	for _, value := range def.Values {
		trimmed := strings.TrimSpace(value.Value)
		if trimmed == "" {
			errs = multierr.Append(errs, pkgerrors.Newf(pkgerrors.CodeConfiguration, "attribute %q has a blank value", def.Name))
			continue
		}
		if _, dup := seen[trimmed]; dup {
			errs = multierr.Append(errs, pkgerrors.Newf(pkgerrors.CodeConfiguration, "attribute %q repeats value %q", def.Name, trimmed))
		}
		seen[trimmed] = struct{}{}
	}
	return errs
}

func normalizeValue(kind enums.AttributeType, value AttributeValue) AttributeValue {
	value.Value = strings.TrimSpace(value.Value)
	value.Unit = strings.TrimSpace(value.Unit)
	if kind != enums.AttributeTypeColor {
		value.ColorCode = ""
	}
	return value
}

func indexOf(defs []AttributeDefinition, name string) int {
	for i, def := range defs {
		if def.Name == name {
			return i
		}
	}
	return -1
}

func cloneDefinitions(defs []AttributeDefinition) []AttributeDefinition {
	out := make([]AttributeDefinition, len(defs))
	for i, def := range defs {
		out[i] = def
		out[i].Values = append([]AttributeValue(nil), def.Values...)
	}
	return out
}
