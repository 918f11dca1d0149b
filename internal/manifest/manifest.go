// Package manifest defines the interface for format-specific service
// manifest loaders. Concrete implementations (YAML, HCL) live in separate
// packages and translate their wire format into the format-agnostic
// service model.
package manifest

import (
	"context"

	"github.com/vk/servicecore/internal/service"
)

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads service manifests from the given paths (files or
	// directories), translates them into the format-agnostic model and
	// returns the definitions in declaration order.
	Load(ctx context.Context, paths ...string) ([]*service.Definition, error)
}
