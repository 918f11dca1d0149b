// Package yaml implements the manifest.Loader interface for services.yaml
// style manifests: a mapping from "domain.name" service keys to service
// descriptors.
package yaml

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/fsutil"
	"github.com/vk/servicecore/internal/service"
	"gopkg.in/yaml.v3"
)

// Loader loads and translates YAML service manifests.
type Loader struct{}

// NewLoader creates a new YAML manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements manifest.Loader for ".yaml"/".yml" manifest files.
//
// Decoding goes through yaml.Node rather than plain maps so that the
// declaration order of services and fields survives into the model.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*service.Definition, error) {
	logger := ctxlog.FromContext(ctx)

	var filePaths []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".yaml", ".yml")
		if err != nil {
			return nil, fmt.Errorf("failed to walk manifest path %s: %w", path, err)
		}
		filePaths = append(filePaths, found...)
	}
	if len(filePaths) == 0 {
		logger.Warn("No YAML manifest files found.", "paths", paths)
		return nil, nil
	}

	var defs []*service.Definition
	for _, filePath := range filePaths {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", filePath, err)
		}

		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse YAML manifest %s: %w", filePath, err)
		}
		if len(root.Content) == 0 {
			continue // empty document
		}

		doc := root.Content[0]
		if doc.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("manifest %s: top level must be a mapping of service keys", filePath)
		}

		for i := 0; i+1 < len(doc.Content); i += 2 {
			keyNode, valNode := doc.Content[i], doc.Content[i+1]
			key, err := service.ParseKey(keyNode.Value)
			if err != nil {
				return nil, fmt.Errorf("manifest %s line %d: %w", filePath, keyNode.Line, err)
			}
			def, err := translateService(key, valNode)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: service %q: %w", filePath, key, err)
			}
			defs = append(defs, def)
		}
		logger.Debug("Loaded definitions from YAML manifest.", "file", filePath)
	}

	logger.Debug("YAML manifests loaded.", "services", len(defs))
	return defs, nil
}
