// Package socketio provides the targetless socketio.emit service: connect
// to a Socket.IO endpoint, emit one event and optionally wait for a reply
// event before reporting success.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/internal/service"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const defaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the socketio.emit handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(service.NewKey("socketio", "emit"), onEmit)
}

// onEmit is the handler for the 'socketio.emit' service.
func onEmit(ctx context.Context, call service.Call) error {
	rawURL, ok := call.StringField("url")
	if !ok || rawURL == "" {
		return fmt.Errorf("socketio.emit requires a url")
	}
	event, ok := call.StringField("event")
	if !ok || event == "" {
		return fmt.Errorf("socketio.emit requires an event name")
	}
	namespace, _ := call.StringField("namespace")
	ackEvent, _ := call.StringField("ack_event")

	timeout := defaultTimeout
	if v, ok := call.StringField("timeout"); ok && v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", v, err)
		}
		timeout = parsed
	}

	payload, err := emitPayload(call)
	if err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx).With("url", rawURL, "event", event, "namespace", namespace)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if insecure, ok := call.BoolField("insecure_skip_verify"); ok && insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		logger.Debug("Connected, emitting event.", "sid", io.Id())
		io.Emit(event, payload)
		if ackEvent == "" {
			done <- nil
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if err, ok := errs[0].(error); ok {
			done <- err
			return
		}
		done <- fmt.Errorf("connect error: %v", errs[0])
	})

	if ackEvent != "" {
		io.On(types.EventName(ackEvent), func(...any) {
			done <- nil
		})
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		if ackEvent != "" {
			return fmt.Errorf("timed out waiting for event %q", ackEvent)
		}
		return fmt.Errorf("timed out waiting for connection to %s", baseURL)
	case err := <-done:
		return err
	}
}

// emitPayload converts the validated payload field into the plain value the
// Socket.IO client serializes.
func emitPayload(call service.Call) (any, error) {
	v, ok := call.ObjectField("payload")
	if !ok {
		return nil, nil
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return out, nil
}
