package validator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vk/servicecore/internal/service"
	"github.com/zclconf/go-cty/cty"
)

// Date/time layouts accepted by the corresponding selector kinds.
const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	datetimeLayout = "2006-01-02 15:04:05"
)

// coerce checks a raw field value against its selector kind and converts it
// into the wire representation handlers receive. On failure it returns a
// *TypeMismatchError describing what the selector wanted.
func coerce(raw any, spec *service.FieldSpec) (cty.Value, error) {
	sel := spec.Selector
	switch sel.Kind {
	case service.SelectorText:
		return coerceString(raw, spec, "a string")

	case service.SelectorEntity:
		val, err := coerceString(raw, spec, "an entity id")
		if err != nil {
			return cty.NilVal, err
		}
		if !strings.Contains(val.AsString(), ".") {
			return cty.NilVal, mismatch(spec, "an entity id (\"domain.object_id\")", raw)
		}
		return val, nil

	case service.SelectorSelect:
		val, err := coerceString(raw, spec, "a string")
		if err != nil {
			return cty.NilVal, err
		}
		for _, opt := range sel.Options {
			if val.AsString() == opt {
				return val, nil
			}
		}
		return cty.NilVal, mismatch(spec, fmt.Sprintf("one of [%s]", strings.Join(sel.Options, ", ")), raw)

	case service.SelectorNumber:
		f, ok := toFloat(raw)
		if !ok {
			return cty.NilVal, mismatch(spec, "a number", raw)
		}
		if sel.Min != nil && f < *sel.Min || sel.Max != nil && f > *sel.Max {
			return cty.NilVal, mismatch(spec, numberRange(sel), raw)
		}
		return cty.NumberFloatVal(f), nil

	case service.SelectorBoolean:
		b, ok := raw.(bool)
		if !ok {
			return cty.NilVal, mismatch(spec, "a boolean", raw)
		}
		return cty.BoolVal(b), nil

	case service.SelectorDate:
		return coerceTimestamp(raw, spec, dateLayout)
	case service.SelectorTime:
		return coerceTimestamp(raw, spec, timeLayout)
	case service.SelectorDateTime:
		return coerceTimestamp(raw, spec, datetimeLayout, time.RFC3339)

	case service.SelectorObject:
		val, err := toCtyValue(raw)
		if err != nil {
			return cty.NilVal, mismatch(spec, "a structured value", raw)
		}
		return val, nil
	}

	return cty.NilVal, fmt.Errorf("field %q has unsupported selector kind %q", spec.Key, sel.Kind)
}

func coerceString(raw any, spec *service.FieldSpec, want string) (cty.Value, error) {
	s, ok := raw.(string)
	if !ok {
		return cty.NilVal, mismatch(spec, want, raw)
	}
	return cty.StringVal(s), nil
}

func coerceTimestamp(raw any, spec *service.FieldSpec, layouts ...string) (cty.Value, error) {
	s, ok := raw.(string)
	if !ok {
		return cty.NilVal, mismatch(spec, fmt.Sprintf("a %q timestamp", layouts[0]), raw)
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return cty.StringVal(s), nil
		}
	}
	return cty.NilVal, mismatch(spec, fmt.Sprintf("a %q timestamp", layouts[0]), raw)
}

// toFloat widens the numeric representations JSON and YAML decoders
// produce, plus numeric strings (form inputs arrive as text).
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// toCtyValue converts an arbitrary decoded value (string/number/bool plus
// nested maps and slices) into its cty equivalent.
func toCtyValue(data any) (cty.Value, error) {
	if data == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	switch v := data.(type) {
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value)
		for key, val := range v {
			ctyVal, err := toCtyValue(val)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key] = ctyVal
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(v))
		for i, val := range v {
			ctyVal, err := toCtyValue(val)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = ctyVal
		}
		return cty.TupleVal(elems), nil
	}
	if f, ok := toFloat(data); ok {
		return cty.NumberFloatVal(f), nil
	}
	return cty.NilVal, fmt.Errorf("cannot represent value of type %T", data)
}

func numberRange(sel service.Selector) string {
	switch {
	case sel.Min != nil && sel.Max != nil:
		return fmt.Sprintf("a number between %v and %v", *sel.Min, *sel.Max)
	case sel.Min != nil:
		return fmt.Sprintf("a number >= %v", *sel.Min)
	default:
		return fmt.Sprintf("a number <= %v", *sel.Max)
	}
}

func mismatch(spec *service.FieldSpec, want string, raw any) *TypeMismatchError {
	return &TypeMismatchError{
		Field: spec.Key,
		Want:  want,
		Got:   fmt.Sprintf("%v (%T)", raw, raw),
	}
}
