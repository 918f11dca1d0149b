// Package hcl implements the manifest.Loader interface for HCL service
// manifests.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/fsutil"
	"github.com/vk/servicecore/internal/schema"
	"github.com/vk/servicecore/internal/service"
)

// Loader loads and translates HCL service manifests.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements manifest.Loader for ".hcl" manifest files.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*service.Definition, error) {
	logger := ctxlog.FromContext(ctx)

	var filePaths []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to walk manifest path %s: %w", path, err)
		}
		filePaths = append(filePaths, found...)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found.", "paths", paths)
		return nil, nil
	}

	parser := hclparse.NewParser()
	var defs []*service.Definition

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var m schema.Manifest
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &m); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", filePath, diags)
		}

		for _, svc := range m.Services {
			def, err := translateService(svc)
			if err != nil {
				return nil, fmt.Errorf("invalid service definition in %s: %w", filePath, err)
			}
			defs = append(defs, def)
		}
		logger.Debug("Loaded definitions from HCL manifest.", "file", filePath)
	}

	logger.Debug("HCL manifests loaded.", "services", len(defs))
	return defs, nil
}
