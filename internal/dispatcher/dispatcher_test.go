package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/internal/service"
)

func targetedRequest(entityIDs ...string) *service.NormalizedRequest {
	target := service.NewResolvedTarget()
	for _, id := range entityIDs {
		target.Add(id)
	}
	return &service.NormalizedRequest{
		Definition: &service.Definition{
			Key:    service.NewKey("light", "turn_on"),
			Target: &service.TargetSpec{Entity: &service.Constraint{}},
		},
		Target: target,
	}
}

func TestDispatchPartialFailure(t *testing.T) {
	t.Parallel()
	handlers := registry.New()
	handlers.RegisterHandler(registry.MustKey("light.turn_on"), func(_ context.Context, call service.Call) error {
		if call.EntityID == "light.a" {
			return errors.New("bulb unreachable")
		}
		return nil
	})

	d := New(handlers, 4)
	result, err := d.Dispatch(context.Background(), targetedRequest("light.a", "light.b"))

	require.NoError(t, err)
	assert.Equal(t, service.StatusPartialFailure, result.Status)
	assert.Equal(t, []string{"light.a"}, result.FailedEntities())
	assert.NoError(t, result.Results["light.b"])

	var hErr *HandlerError
	require.ErrorAs(t, result.Results["light.a"], &hErr)
	assert.Equal(t, "light.a", hErr.EntityID)
}

func TestDispatchAllFail(t *testing.T) {
	t.Parallel()
	handlers := registry.New()
	handlers.RegisterHandler(registry.MustKey("light.turn_on"), func(context.Context, service.Call) error {
		return errors.New("nope")
	})

	d := New(handlers, 4)
	result, err := d.Dispatch(context.Background(), targetedRequest("light.a", "light.b"))

	require.NoError(t, err)
	assert.Equal(t, service.StatusFailure, result.Status)
}

func TestDispatchAllSucceed(t *testing.T) {
	t.Parallel()
	handlers := registry.New()

	var mu sync.Mutex
	var seen []string
	handlers.RegisterHandler(registry.MustKey("light.turn_on"), func(_ context.Context, call service.Call) error {
		mu.Lock()
		seen = append(seen, call.EntityID)
		mu.Unlock()
		return nil
	})

	d := New(handlers, 2)
	result, err := d.Dispatch(context.Background(), targetedRequest("light.a", "light.b", "light.c"))

	require.NoError(t, err)
	assert.Equal(t, service.StatusSuccess, result.Status)
	assert.ElementsMatch(t, []string{"light.a", "light.b", "light.c"}, seen)
	assert.NotEmpty(t, result.CallID)
}

func TestDispatchTargetless(t *testing.T) {
	t.Parallel()
	handlers := registry.New()

	invoked := 0
	handlers.RegisterHandler(registry.MustKey("homeassistant.restart"), func(_ context.Context, call service.Call) error {
		invoked++
		assert.Empty(t, call.EntityID)
		return nil
	})

	d := New(handlers, 4)
	result, err := d.Dispatch(context.Background(), &service.NormalizedRequest{
		Definition: &service.Definition{Key: service.NewKey("homeassistant", "restart")},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, invoked)
	assert.Equal(t, service.StatusSuccess, result.Status)
	assert.Nil(t, result.Results)
}

func TestDispatchTargetlessFailure(t *testing.T) {
	t.Parallel()
	handlers := registry.New()
	handlers.RegisterHandler(registry.MustKey("homeassistant.restart"), func(context.Context, service.Call) error {
		return errors.New("busy")
	})

	d := New(handlers, 4)
	result, err := d.Dispatch(context.Background(), &service.NormalizedRequest{
		Definition: &service.Definition{Key: service.NewKey("homeassistant", "restart")},
	})

	require.NoError(t, err)
	assert.Equal(t, service.StatusFailure, result.Status)

	var hErr *HandlerError
	require.ErrorAs(t, result.Err, &hErr)
}

func TestDispatchNoHandler(t *testing.T) {
	t.Parallel()
	d := New(registry.New(), 4)

	_, err := d.Dispatch(context.Background(), targetedRequest("light.a"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestDispatchCancelledBeforeIssue(t *testing.T) {
	t.Parallel()
	handlers := registry.New()

	invoked := 0
	handlers.RegisterHandler(registry.MustKey("light.turn_on"), func(context.Context, service.Call) error {
		invoked++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(handlers, 1)
	result, err := d.Dispatch(ctx, targetedRequest("light.a", "light.b"))

	require.NoError(t, err)
	assert.Equal(t, 0, invoked)
	assert.Equal(t, service.StatusFailure, result.Status)
	for _, id := range []string{"light.a", "light.b"} {
		assert.ErrorIs(t, result.Results[id], context.Canceled)
	}
}

// An in-flight entity call keeps running after cancellation; only
// not-yet-issued calls are suppressed.
func TestDispatchCancelDoesNotAbortStartedCalls(t *testing.T) {
	t.Parallel()
	handlers := registry.New()

	started := make(chan struct{})
	release := make(chan struct{})
	completed := 0
	var mu sync.Mutex

	handlers.RegisterHandler(registry.MustKey("light.turn_on"), func(ctx context.Context, call service.Call) error {
		close(started)
		<-release
		// The handler context must survive the caller's cancellation.
		if err := ctx.Err(); err != nil {
			return err
		}
		mu.Lock()
		completed++
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
		close(release)
	}()

	d := New(handlers, 1)
	result, err := d.Dispatch(ctx, targetedRequest("light.a"))

	require.NoError(t, err)
	mu.Lock()
	assert.Equal(t, 1, completed)
	mu.Unlock()
	assert.Equal(t, service.StatusSuccess, result.Status)
}

func TestDispatchHandlerPanicIsolated(t *testing.T) {
	t.Parallel()
	handlers := registry.New()
	handlers.RegisterHandler(registry.MustKey("light.turn_on"), func(_ context.Context, call service.Call) error {
		if call.EntityID == "light.a" {
			panic("boom")
		}
		return nil
	})

	d := New(handlers, 4)
	result, err := d.Dispatch(context.Background(), targetedRequest("light.a", "light.b"))

	require.NoError(t, err)
	assert.Equal(t, service.StatusPartialFailure, result.Status)
	assert.Contains(t, result.Results["light.a"].Error(), "panicked")
}
