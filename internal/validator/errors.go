package validator

import (
	"fmt"
	"strings"

	"github.com/vk/servicecore/internal/service"
)

// ValidationError is the composite failure returned by Validate: every
// individual sub-error from one validation pass, never just the first.
type ValidationError struct {
	Service service.Key
	Issues  []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("invalid call to service %q:\n- %s", e.Service, strings.Join(msgs, "\n- "))
}

// Unwrap exposes the sub-errors to errors.Is / errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Issues
}

// MissingFieldError reports an absent required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}

// UnknownFieldError reports a supplied field the schema does not declare.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("field %q is not declared by the service", e.Field)
}

// TypeMismatchError reports a field value the selector kind cannot accept.
type TypeMismatchError struct {
	Field string
	Want  string
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: want %s, got %s", e.Field, e.Want, e.Got)
}

// MissingTargetError reports an absent target descriptor on a service that
// declares a target spec.
type MissingTargetError struct {
	Service service.Key
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("service %q requires a target", e.Service)
}

// UnexpectedTargetError reports a supplied target on a service that accepts
// none.
type UnexpectedTargetError struct {
	Service service.Key
}

func (e *UnexpectedTargetError) Error() string {
	return fmt.Sprintf("service %q accepts no target", e.Service)
}
