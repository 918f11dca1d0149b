package manifest

import (
	"context"

	"github.com/vk/servicecore/internal/service"
)

// multiLoader runs several format-specific loaders over the same paths and
// concatenates their results.
type multiLoader struct {
	loaders []Loader
}

// Multi combines loaders so an application can accept several manifest
// formats side by side. Each loader only picks up the file extensions it
// owns, so definitions are never loaded twice.
func Multi(loaders ...Loader) Loader {
	return &multiLoader{loaders: loaders}
}

// Load implements Loader.
func (m *multiLoader) Load(ctx context.Context, paths ...string) ([]*service.Definition, error) {
	var defs []*service.Definition
	for _, loader := range m.loaders {
		loaded, err := loader.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		defs = append(defs, loaded...)
	}
	return defs, nil
}
