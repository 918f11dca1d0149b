package service

import (
	"github.com/zclconf/go-cty/cty"
)

// Call is what a registered handler receives: one invocation of one service
// against at most one entity. For targeted services the dispatcher issues
// one Call per resolved entity; for targetless services EntityID is empty.
type Call struct {
	// ID is the dispatch-wide call id shared by every Call fanned out from
	// the same invocation.
	ID string

	Key Key

	// EntityID is the concrete entity this invocation applies to, or ""
	// for whole-system services.
	EntityID string

	// Fields holds the validated, coerced field values.
	Fields map[string]cty.Value
}

// StringField returns a text-like field value, if present.
func (c Call) StringField(key string) (string, bool) {
	v, ok := c.Fields[key]
	if !ok || v.IsNull() || v.Type() != cty.String {
		return "", false
	}
	return v.AsString(), true
}

// NumberField returns a number field value, if present.
func (c Call) NumberField(key string) (float64, bool) {
	v, ok := c.Fields[key]
	if !ok || v.IsNull() || v.Type() != cty.Number {
		return 0, false
	}
	f, _ := v.AsBigFloat().Float64()
	return f, true
}

// BoolField returns a boolean field value, if present.
func (c Call) BoolField(key string) (bool, bool) {
	v, ok := c.Fields[key]
	if !ok || v.IsNull() || v.Type() != cty.Bool {
		return false, false
	}
	return v.True(), true
}

// ObjectField returns an object field as its raw cty value, if present.
func (c Call) ObjectField(key string) (cty.Value, bool) {
	v, ok := c.Fields[key]
	if !ok || v.IsNull() {
		return cty.NilVal, false
	}
	return v, true
}
