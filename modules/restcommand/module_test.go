package restcommand

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/internal/service"
	"github.com/zclconf/go-cty/cty"
)

func commandHandler(t *testing.T) registry.Handler {
	t.Helper()
	r := registry.New()
	(&Module{}).Register(r)
	h, ok := r.Handler(service.NewKey("rest", "command"))
	require.True(t, ok)
	return h
}

func TestCommandPostsPayload(t *testing.T) {
	t.Parallel()
	var gotMethod, gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotMethod = r.Method
		gotBody = string(body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := commandHandler(t)(context.Background(), service.Call{
		Key: service.NewKey("rest", "command"),
		Fields: map[string]cty.Value{
			"url":     cty.StringVal(srv.URL),
			"payload": cty.StringVal(`{"state":"on"}`),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, `{"state":"on"}`, gotBody)
	assert.Equal(t, "application/json", gotContentType)
}

func TestCommandCustomMethod(t *testing.T) {
	t.Parallel()
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer srv.Close()

	err := commandHandler(t)(context.Background(), service.Call{
		Fields: map[string]cty.Value{
			"url":    cty.StringVal(srv.URL),
			"method": cty.StringVal("put"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
}

func TestCommandErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := commandHandler(t)(context.Background(), service.Call{
		Fields: map[string]cty.Value{"url": cty.StringVal(srv.URL)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCommandRequiresURL(t *testing.T) {
	t.Parallel()
	err := commandHandler(t)(context.Background(), service.Call{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestCommandRejectsBadTimeout(t *testing.T) {
	t.Parallel()
	err := commandHandler(t)(context.Background(), service.Call{
		Fields: map[string]cty.Value{
			"url":     cty.StringVal("http://127.0.0.1:1"),
			"timeout": cty.StringVal("soon"),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")
}
