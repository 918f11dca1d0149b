package hcl

import (
	"fmt"

	"github.com/vk/servicecore/internal/schema"
	"github.com/vk/servicecore/internal/service"
	"github.com/zclconf/go-cty/cty"
)

// translateService converts the HCL-specific service schema into the
// agnostic model.
func translateService(s *schema.Service) (*service.Definition, error) {
	if s.Domain == "" || s.Name == "" {
		return nil, fmt.Errorf("service block needs non-empty domain and name labels")
	}

	def := &service.Definition{
		Key:         service.NewKey(s.Domain, s.Name),
		Name:        s.DisplayName,
		Description: s.Description,
	}

	seen := make(map[string]struct{})
	for _, f := range s.Fields {
		if _, dup := seen[f.Key]; dup {
			return nil, fmt.Errorf("service %q declares field %q twice", def.Key, f.Key)
		}
		seen[f.Key] = struct{}{}

		spec, err := translateField(f)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", def.Key, err)
		}
		def.Fields = append(def.Fields, spec)
	}

	def.Target = translateTarget(s.Target)
	return def, nil
}

func translateField(f *schema.Field) (*service.FieldSpec, error) {
	spec := &service.FieldSpec{
		Key:         f.Key,
		Name:        f.Name,
		Description: f.Description,
		Required:    f.Required,
		Advanced:    f.Advanced,
		// Fields without a selector block default to free-form text.
		Selector: service.Selector{Kind: service.SelectorText},
	}

	if f.Selector != nil {
		kind, err := service.ParseSelectorKind(f.Selector.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		spec.Selector = service.Selector{
			Kind:    kind,
			Options: f.Selector.Options,
			Min:     f.Selector.Min,
			Max:     f.Selector.Max,
		}
	}

	if f.Example != nil {
		// An example is static metadata; it is evaluated without any
		// variable context and dropped when it does not evaluate cleanly.
		if val, diags := f.Example.Value(nil); !diags.HasErrors() && !val.IsNull() {
			spec.Example = ctyToNative(val)
		}
	}

	return spec, nil
}

func translateTarget(t *schema.Target) *service.TargetSpec {
	if t == nil {
		return nil
	}
	spec := &service.TargetSpec{AllowEmpty: t.AllowEmpty}

	translate := func(c *schema.Constraint) *service.Constraint {
		if c == nil {
			return nil
		}
		return &service.Constraint{Domains: c.Domains}
	}
	spec.Entity = translate(t.Entity)
	spec.Device = translate(t.Device)
	spec.Area = translate(t.Area)
	spec.Label = translate(t.Label)

	// A bare `target {}` block accepts every category unconstrained.
	if spec.Entity == nil && spec.Device == nil && spec.Area == nil && spec.Label == nil {
		spec.Entity = &service.Constraint{}
		spec.Device = &service.Constraint{}
		spec.Area = &service.Constraint{}
		spec.Label = &service.Constraint{}
	}
	return spec
}

// ctyToNative converts the static example value into a plain Go value for
// the agnostic model.
func ctyToNative(val cty.Value) any {
	switch val.Type() {
	case cty.String:
		return val.AsString()
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f
	case cty.Bool:
		return val.True()
	}
	return val.GoString()
}
