package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/service"
	"github.com/vk/servicecore/internal/store"
)

// Validate performs a strict parity check between the loaded manifests and
// the registered Go handlers: every definition must have a handler and
// every handler a definition. All mismatches are reported at once.
func Validate(ctx context.Context, r *Registry, st *store.Store) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	defined := make(map[string]struct{})
	for def := range st.All() {
		k := def.Key.String()
		defined[k] = struct{}{}
		if _, ok := r.Handler(def.Key); !ok {
			errs = append(errs, fmt.Sprintf("service '%s': manifest declares the service, but no Go handler is registered", k))
		}
	}

	for _, k := range r.Keys() {
		if _, ok := defined[k]; !ok {
			errs = append(errs, fmt.Sprintf("service '%s': Go handler is registered, but no manifest declares the service", k))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry parity check passed.", "services", len(defined))
	return nil
}

// MustKey parses a "domain.name" service key and panics on malformed input.
// It is intended for module registration code where the key is a literal.
func MustKey(s string) service.Key {
	k, err := service.ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}
