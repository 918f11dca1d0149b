package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/dispatcher"
	"github.com/vk/servicecore/internal/manifest"
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/internal/resolver"
	"github.com/vk/servicecore/internal/service"
	"github.com/vk/servicecore/internal/store"
	"github.com/vk/servicecore/internal/validator"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: the schema store, handler registry and invocation pipeline.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	store      *store.Store
	registry   *registry.Registry
	validator  *validator.Validator
	dispatcher *dispatcher.Dispatcher
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, schema store
// and handler registry.
func NewApp(outW io.Writer, cfg *Config, loader manifest.Loader, regs resolver.Registries, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all manifests into the format-agnostic model first.
	defs, err := loader.Load(ctx, cfg.ManifestPath)
	if err != nil {
		// A failure to load the manifests is a fatal startup error.
		panic(fmt.Errorf("failed to load service manifests: %w", err))
	}

	st := store.New()
	for _, def := range defs {
		if err := st.Register(def); err != nil {
			// Duplicate keys across manifests are a configuration error.
			panic(fmt.Errorf("failed to register service schema: %w", err))
		}
	}
	logger.Debug("Service schemas registered.", "count", st.Len())

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	// Validate handler/schema parity before accepting any calls.
	if err := registry.Validate(ctx, reg, st); err != nil {
		// This is a programmer error (mismatch between code and manifests),
		// so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	res := resolver.New(regs, resolver.Options{Strict: cfg.StrictTargets})

	return &App{
		outW:       outW,
		logger:     logger,
		store:      st,
		registry:   reg,
		validator:  validator.New(res),
		dispatcher: dispatcher.New(reg, cfg.WorkerCount),
	}
}

// Call runs the full invocation pipeline for one request: schema lookup,
// validation with target resolution, then dispatch.
func (a *App) Call(ctx context.Context, req *service.InvocationRequest) (*service.DispatchResult, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger.With("service", req.Service.String())
	logger.Debug("Service call received.")

	def, err := a.store.Lookup(req.Service.Domain, req.Service.Name)
	if err != nil {
		return nil, err
	}

	normalized, err := a.validator.Validate(ctx, req, def)
	if err != nil {
		return nil, err
	}

	result, err := a.dispatcher.Dispatch(ctx, normalized)
	if err != nil {
		return nil, err
	}
	logger.Debug("Service call finished.", "status", result.Status, "call_id", result.CallID)
	return result, nil
}

// Reload atomically upserts a service definition, for platforms that
// rescan manifests at runtime.
func (a *App) Reload(def *service.Definition) {
	a.store.Reload(def)
}

// Store returns the application's schema store. This is primarily for
// testing and embedding.
func (a *App) Store() *store.Store {
	return a.store
}

// Registry returns the application's handler registry. This is primarily
// for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
