package service

// Definition describes a single invocable service: its identity, its
// human-readable metadata, the ordered list of typed fields it accepts and
// the categories of targets it applies to.
//
// A Definition is immutable once registered with a store.Store. It is
// created by a manifest loader at load time and replaced wholesale on
// reload; it is never partially mutated.
type Definition struct {
	Key         Key
	Name        string // display name, e.g. "Turn on"
	Description string

	// Fields preserves the declaration order from the manifest so that UI
	// listings render fields the way the author wrote them.
	Fields []*FieldSpec

	// Target is nil for whole-system services that accept no target
	// (restart, stop, check_config and friends).
	Target *TargetSpec
}

// Field returns the field spec declared under the given key, if any.
func (d *Definition) Field(key string) (*FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return nil, false
}

// FieldSpec describes one typed field of a service.
type FieldSpec struct {
	Key         string // unique within the service
	Name        string // display name
	Description string
	Required    bool
	Advanced    bool // UI hint only, no runtime effect
	Example     any
	Selector    Selector
}

// TargetSpec declares which target categories a service accepts. A nil
// constraint means the category is not accepted; a constraint with no
// domains means any instance of the category is accepted.
type TargetSpec struct {
	Entity *Constraint
	Device *Constraint
	Area   *Constraint
	Label  *Constraint

	// AllowEmpty permits an invocation whose target resolves to zero
	// entities. The default (false) makes an empty resolution an error.
	AllowEmpty bool
}

// Constraint narrows a target category, currently by entity domain.
// The zero value accepts everything.
type Constraint struct {
	Domains []string
}

// Matches reports whether an entity domain satisfies the constraint.
func (c *Constraint) Matches(domain string) bool {
	if c == nil || len(c.Domains) == 0 {
		return true
	}
	for _, d := range c.Domains {
		if d == domain {
			return true
		}
	}
	return false
}
