package service

import (
	"fmt"
	"strings"
)

// Key uniquely identifies a service as a (domain, name) pair, e.g.
// ("light", "turn_on").
type Key struct {
	Domain string
	Name   string
}

// NewKey constructs a Key from its two parts.
func NewKey(domain, name string) Key {
	return Key{Domain: domain, Name: name}
}

// ParseKey parses the canonical "domain.name" form used as the service key
// in manifests and in the handler registry.
func ParseKey(s string) (Key, error) {
	domain, name, ok := strings.Cut(s, ".")
	if !ok || domain == "" || name == "" {
		return Key{}, fmt.Errorf("invalid service key %q: want \"domain.name\"", s)
	}
	return Key{Domain: domain, Name: name}, nil
}

// String returns the canonical "domain.name" form.
func (k Key) String() string {
	return k.Domain + "." + k.Name
}
