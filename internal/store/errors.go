package store

import (
	"fmt"

	"github.com/vk/servicecore/internal/service"
)

// DuplicateServiceError is returned by Register when the (domain, name)
// pair is already present.
type DuplicateServiceError struct {
	Key service.Key
}

func (e *DuplicateServiceError) Error() string {
	return fmt.Sprintf("service %q is already registered", e.Key)
}

// UnknownServiceError is returned by Lookup for an unregistered key.
type UnknownServiceError struct {
	Key service.Key
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown service %q", e.Key)
}
