// Package inmemory provides a thread-safe, in-memory implementation of the
// resolver registry interfaces. It is suitable for development, testing, or
// any embedding where the entity topology does not live in an external
// store.
package inmemory
