package core

// validation.go checks submitted form data before an inspection is stored.
//
// Validation happens at two levels:
//  1. Field validation: unknown names, required values, enum membership and length
//  2. Location validation: each location value must be one of the cascade's
//     options given the levels above it, and together they must pick out at
//     least one inventory box
//
// Every problem is collected so the client can highlight all fields at once.

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// Validate checks data against the form and the network's inventory.
// On success it returns a cleaned copy with values trimmed, defaults
// applied and derived fields filled in.
func (f Form) Validate(data map[string]string, items []inventory.Item) (map[string]string, error) {
	var errs ValidationErrors
	clean := make(map[string]string, len(f.Fields))

	var unknown []string
	for name := range data {
		if _, ok := f.Field(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, ValidationError{Field: name, Message: "unknown field"})
	}

	for _, spec := range f.Fields {
		if spec.Derived {
			continue
		}
		raw := strings.TrimSpace(data[spec.Name])
		if raw == "" {
			raw = spec.Default
		}
		clean[spec.Name] = raw
		if spec.IsLocation() {
			continue
		}
		if err := validateValue(raw, spec); err != nil {
			errs = append(errs, *err)
		}
	}

	matched, locErrs := f.validateLocation(clean, items)
	errs = append(errs, locErrs...)

	if len(errs) > 0 {
		return nil, errs
	}

	for _, spec := range f.Fields {
		if spec.Derived {
			clean[spec.Name] = spec.Location.Value(matched[0])
		}
	}
	return clean, nil
}

func validateValue(value string, spec FieldSpec) *ValidationError {
	if value == "" {
		if spec.Required {
			return &ValidationError{Field: spec.Name, Message: "is required"}
		}
		return nil
	}
	switch spec.Kind {
	case FieldEnum:
		if !slices.Contains(spec.EnumValues, value) {
			return &ValidationError{
				Field:   spec.Name,
				Value:   value,
				Message: fmt.Sprintf("must be one of %s", strings.Join(spec.EnumValues, ", ")),
			}
		}
	case FieldText, FieldTextArea:
		if spec.MaxLength > 0 && utf8.RuneCountInString(value) > spec.MaxLength {
			return &ValidationError{
				Field:   spec.Name,
				Message: fmt.Sprintf("must be at most %d characters", spec.MaxLength),
			}
		}
	}
	return nil
}

// validateLocation walks the location fields outermost first. A level is
// required only when every box under the selected ancestors has a value
// for it. Some FTTH boxes have no MSAN code; leaving the MSAN level empty
// selects exactly those boxes.
func (f Form) validateLocation(clean map[string]string, items []inventory.Item) ([]inventory.Item, ValidationErrors) {
	var errs ValidationErrors
	c := f.Cascade()
	pool := items

	for _, spec := range f.LocationFields() {
		v := clean[spec.Name]
		opts := c.Options(pool, spec.Location)
		switch {
		case v == "" && len(opts) > 0 && !hasBlank(c.Filter(pool), spec.Location):
			errs = append(errs, ValidationError{Field: spec.Name, Message: "is required"})
		case v == "":
			pool = onlyBlank(pool, spec.Location)
		case !slices.Contains(opts, v):
			errs = append(errs, ValidationError{
				Field:   spec.Name,
				Value:   v,
				Message: "is not a valid choice for the selected location",
			})
			return nil, errs
		default:
			_ = c.Select(spec.Location, v)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	matched := c.Filter(pool)
	if len(matched) == 0 {
		return nil, ValidationErrors{{
			Message: fmt.Sprintf("location does not match any %s box", f.Network()),
			Err:     ErrLocationMismatch,
		}}
	}
	return matched, nil
}

func hasBlank(items []inventory.Item, f inventory.Field) bool {
	return slices.ContainsFunc(items, func(it inventory.Item) bool {
		return f.Value(it) == ""
	})
}

// onlyBlank keeps the items with no value for f.
func onlyBlank(items []inventory.Item, f inventory.Field) []inventory.Item {
	out := make([]inventory.Item, 0, len(items))
	for _, it := range items {
		if f.Value(it) == "" {
			out = append(out, it)
		}
	}
	return out
}
