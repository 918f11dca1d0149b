package service

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// SelectorKind enumerates the supported field selector kinds. A selector is
// a UI/type hint describing how a field's value is entered and validated.
type SelectorKind string

const (
	SelectorText     SelectorKind = "text"
	SelectorNumber   SelectorKind = "number"
	SelectorBoolean  SelectorKind = "boolean"
	SelectorSelect   SelectorKind = "select"
	SelectorEntity   SelectorKind = "entity"
	SelectorObject   SelectorKind = "object"
	SelectorDate     SelectorKind = "date"
	SelectorTime     SelectorKind = "time"
	SelectorDateTime SelectorKind = "datetime"
)

// ParseSelectorKind validates a selector kind string from a manifest.
func ParseSelectorKind(s string) (SelectorKind, error) {
	k := SelectorKind(s)
	switch k {
	case SelectorText, SelectorNumber, SelectorBoolean, SelectorSelect,
		SelectorEntity, SelectorObject, SelectorDate, SelectorTime,
		SelectorDateTime:
		return k, nil
	}
	return "", fmt.Errorf("unknown selector kind %q", s)
}

// CtyType returns the wire type a selector kind coerces values into.
func (k SelectorKind) CtyType() cty.Type {
	switch k {
	case SelectorNumber:
		return cty.Number
	case SelectorBoolean:
		return cty.Bool
	case SelectorObject:
		return cty.DynamicPseudoType
	default:
		// text, select, entity and the date/time kinds are all carried as
		// strings; the validator applies the kind-specific format checks.
		return cty.String
	}
}

// Selector is the full selector declaration of a field: the kind plus the
// kind-specific constraints that apply after coercion.
type Selector struct {
	Kind SelectorKind

	// Options constrains a "select" field to a fixed set of values.
	Options []string

	// Min and Max bound a "number" field when set.
	Min *float64
	Max *float64
}
