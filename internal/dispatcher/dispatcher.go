// Package dispatcher routes validated requests to their registered handlers
// and aggregates per-entity outcomes into a single result.
package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/internal/service"
	"golang.org/x/sync/semaphore"
)

// Dispatcher fans a validated request out across its resolved entities.
type Dispatcher struct {
	handlers *registry.Registry
	workers  int64
}

// New creates a Dispatcher. workers bounds the number of concurrent entity
// invocations per call; values below one fall back to a single worker.
func New(handlers *registry.Registry, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{handlers: handlers, workers: int64(workers)}
}

// Dispatch invokes the handler for the request's service. Targetless
// services get a single invocation; targeted services get one invocation
// per resolved entity, with failures isolated per entity so one entity's
// failure never prevents invocation on the others.
//
// Cancelling ctx stops not-yet-issued entity calls; entity calls already in
// flight run to completion.
func (d *Dispatcher) Dispatch(ctx context.Context, req *service.NormalizedRequest) (*service.DispatchResult, error) {
	key := req.Definition.Key
	handler, ok := d.handlers.Handler(key)
	if !ok {
		// Startup parity validation makes this unreachable in a correctly
		// assembled application; guard anyway.
		return nil, fmt.Errorf("no handler registered for service %q", key)
	}

	callID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("service", key.String(), "call_id", callID)

	if req.Target == nil {
		logger.Debug("Dispatching targetless service call.")
		result := &service.DispatchResult{CallID: callID}
		if err := d.invoke(ctx, handler, service.Call{ID: callID, Key: key, Fields: req.Fields}); err != nil {
			result.Status = service.StatusFailure
			result.Err = &HandlerError{Service: key, Err: err}
		}
		logger.Debug("Dispatch finished.", "status", result.Status)
		return result, nil
	}

	entityIDs := req.Target.EntityList()
	logger.Debug("Dispatching targeted service call.", "entities", len(entityIDs))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(entityIDs))
	)
	sem := semaphore.NewWeighted(d.workers)

	for _, entityID := range entityIDs {
		// Acquire both bounds concurrency and observes cancellation: once
		// the context is done, remaining entities are recorded as not
		// issued instead of being started.
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			results[entityID] = &HandlerError{Service: key, EntityID: entityID, Err: err}
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			call := service.Call{ID: callID, Key: key, EntityID: entityID, Fields: req.Fields}
			// An issued call is never retroactively cancelled.
			err := d.invoke(context.WithoutCancel(ctx), handler, call)

			mu.Lock()
			if err != nil {
				results[entityID] = &HandlerError{Service: key, EntityID: entityID, Err: err}
			} else {
				results[entityID] = nil
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	result := &service.DispatchResult{
		CallID:  callID,
		Status:  aggregate(results),
		Results: results,
	}
	logger.Debug("Dispatch finished.", "status", result.Status, "failed", len(result.FailedEntities()))
	return result, nil
}

// invoke runs a handler, converting a panic into an error so a misbehaving
// handler cannot take down sibling dispatches.
func (d *Dispatcher) invoke(ctx context.Context, handler registry.Handler, call service.Call) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler(ctx, call)
}

// aggregate derives the overall status from the per-entity outcomes.
func aggregate(results map[string]error) service.Status {
	failed := 0
	for _, err := range results {
		if err != nil {
			failed++
		}
	}
	switch {
	case failed == 0:
		return service.StatusSuccess
	case failed == len(results):
		return service.StatusFailure
	default:
		return service.StatusPartialFailure
	}
}
