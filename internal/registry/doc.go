// Package registry provides the central "glue" for the handler system.
//
// The Registry stores mappings between the service keys declared in
// manifests (e.g., "light.turn_on") and the compiled Go handlers that
// implement them. During application startup the registry is populated and
// then checked against the schema store to ensure that the Go code and the
// public-facing manifests are in sync, preventing a wide class of runtime
// errors.
package registry
