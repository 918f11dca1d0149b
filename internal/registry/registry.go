package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/servicecore/internal/service"
)

// Handler implements one service. For targeted services the dispatcher
// invokes the handler once per resolved entity; for targetless services it
// is invoked exactly once with an empty entity id.
type Handler func(ctx context.Context, call service.Call) error

// Module is the interface service-handler modules implement to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered handlers for a single application instance.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// RegisterHandler registers the Go handler for a service key. Registering
// the same key twice is a programmer error and panics at startup.
func (r *Registry) RegisterHandler(key service.Key, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key.String()
	if _, exists := r.handlers[k]; exists {
		panic(fmt.Sprintf("handler for service '%s' already registered", k))
	}
	slog.Debug("Registering service handler.", "service", k)
	r.handlers[k] = h
}

// Handler returns the handler registered for a service key.
func (r *Registry) Handler(key service.Key) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[key.String()]
	return h, ok
}

// Keys returns the registered service keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
