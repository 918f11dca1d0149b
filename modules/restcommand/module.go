// Package restcommand provides the targetless rest.command service: fire an
// HTTP request at an external endpoint as a service call.
package restcommand

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/internal/service"
	"resty.dev/v3"
)

const defaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client overrides the HTTP client, primarily for tests. When nil a
	// fresh client is created per call.
	Client *resty.Client
}

// Register registers the rest.command handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(service.NewKey("rest", "command"), m.onCommand)
}

// onCommand is the handler for the 'rest.command' service.
func (m *Module) onCommand(ctx context.Context, call service.Call) error {
	url, ok := call.StringField("url")
	if !ok || url == "" {
		return fmt.Errorf("rest.command requires a url")
	}

	method := "POST"
	if v, ok := call.StringField("method"); ok && v != "" {
		method = strings.ToUpper(v)
	}

	timeout := defaultTimeout
	if v, ok := call.StringField("timeout"); ok && v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", v, err)
		}
		timeout = parsed
	}

	logger := ctxlog.FromContext(ctx).With("method", method, "url", url)
	logger.Debug("Executing REST command.")

	client := m.Client
	if client == nil {
		client = resty.New()
		defer client.Close()
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := client.R().SetContext(opCtx)
	if payload, ok := call.StringField("payload"); ok && payload != "" {
		contentType := "application/json"
		if v, ok := call.StringField("content_type"); ok && v != "" {
			contentType = v
		}
		req.SetHeader("Content-Type", contentType).SetBody(payload)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("rest command failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("rest command returned status %d", resp.StatusCode())
	}

	logger.Debug("REST command finished.", "status", resp.StatusCode())
	return nil
}
