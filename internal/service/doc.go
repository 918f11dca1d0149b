// Package service defines the format-agnostic data model shared by the
// whole invocation core: service definitions with their typed field and
// target schemas, invocation requests, resolved targets, and dispatch
// results.
//
// The model is the single source of truth for the `store`, `validator`,
// `resolver` and `dispatcher` packages. Concrete manifest formats (YAML,
// HCL) are translated into this model by loaders in separate packages.
package service
