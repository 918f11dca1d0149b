package dispatcher

import (
	"fmt"

	"github.com/vk/servicecore/internal/service"
)

// HandlerError wraps whatever a handler invocation produced, tagged with
// the service and (for targeted calls) the entity it applied to.
type HandlerError struct {
	Service  service.Key
	EntityID string
	Err      error
}

func (e *HandlerError) Error() string {
	if e.EntityID == "" {
		return fmt.Sprintf("service %q: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("service %q on entity %q: %v", e.Service, e.EntityID, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
