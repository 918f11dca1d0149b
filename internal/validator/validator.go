// Package validator checks invocation requests against service schemas,
// producing either a normalized request ready for dispatch or a structured
// error that lists every problem at once.
package validator

import (
	"context"

	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/service"
	"github.com/zclconf/go-cty/cty"
)

// TargetResolver expands a raw target descriptor into a resolved entity
// set. It is the resolver.Resolver contract, narrowed so tests can observe
// when resolution is (not) invoked.
type TargetResolver interface {
	Resolve(ctx context.Context, desc *service.TargetDescriptor, spec *service.TargetSpec) (*service.ResolvedTarget, error)
}

// Validator validates invocation requests. It is stateless apart from the
// resolver it delegates target expansion to.
type Validator struct {
	resolver TargetResolver
}

// New creates a Validator backed by the given target resolver.
func New(resolver TargetResolver) *Validator {
	return &Validator{resolver: resolver}
}

// Validate checks the request's fields and target shape against the
// definition. Every field problem is accumulated so a single call reports
// the complete picture; target resolution runs only once all schema checks
// have passed, since it is the one registry-costly step.
func (v *Validator) Validate(ctx context.Context, req *service.InvocationRequest, def *service.Definition) (*service.NormalizedRequest, error) {
	logger := ctxlog.FromContext(ctx)
	var issues []error

	// Required fields have no implicit default; absence is an error.
	for _, spec := range def.Fields {
		if !spec.Required {
			continue
		}
		if _, ok := req.Fields[spec.Key]; !ok {
			issues = append(issues, &MissingFieldError{Field: spec.Key})
		}
	}

	// Unknown fields are rejected, never silently passed through.
	fields := make(map[string]cty.Value, len(req.Fields))
	for key, raw := range req.Fields {
		spec, ok := def.Field(key)
		if !ok {
			issues = append(issues, &UnknownFieldError{Field: key})
			continue
		}
		val, err := coerce(raw, spec)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		fields[key] = val
	}

	// Target shape: a declared TargetSpec makes the descriptor mandatory;
	// without one, supplying a (non-empty) descriptor is itself an error.
	if def.Target != nil && req.Target == nil {
		issues = append(issues, &MissingTargetError{Service: def.Key})
	}
	if def.Target == nil && !req.Target.IsEmpty() {
		issues = append(issues, &UnexpectedTargetError{Service: def.Key})
	}

	if len(issues) > 0 {
		logger.Debug("Request validation failed.", "service", def.Key.String(), "issues", len(issues))
		return nil, &ValidationError{Service: def.Key, Issues: issues}
	}

	normalized := &service.NormalizedRequest{Definition: def, Fields: fields}

	// The only short-circuit point: resolution is deferred past the field
	// checks because it may hit remote registries.
	if def.Target != nil {
		resolved, err := v.resolver.Resolve(ctx, req.Target, def.Target)
		if err != nil {
			return nil, err
		}
		normalized.Target = resolved
	}

	return normalized, nil
}
