// Package schema defines the HCL wire structures for service manifests.
// These are decoded directly from manifest files and translated into the
// format-agnostic service model by the hcl loader package.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Manifest represents the top-level structure of an HCL manifest file,
// containing any number of service declarations.
type Manifest struct {
	Services []*Service `hcl:"service,block"`
	Body     hcl.Body   `hcl:",remain"`
}

// Service represents a `service "domain" "name"` block.
type Service struct {
	Domain      string   `hcl:"domain,label"`
	Name        string   `hcl:"name,label"`
	DisplayName string   `hcl:"name,optional"`
	Description string   `hcl:"description,optional"`
	Fields      []*Field `hcl:"field,block"`
	Target      *Target  `hcl:"target,block"`
}

// Field represents a `field "key"` block declaring one typed field.
type Field struct {
	Key         string         `hcl:"key,label"`
	Name        string         `hcl:"name,optional"`
	Description string         `hcl:"description,optional"`
	Required    bool           `hcl:"required,optional"`
	Advanced    bool           `hcl:"advanced,optional"`
	Example     hcl.Expression `hcl:"example,optional"`
	Selector    *Selector      `hcl:"selector,block"`
}

// Selector represents the `selector` block of a field. Options and the
// min/max bounds only apply to the kinds that use them.
type Selector struct {
	Kind    string   `hcl:"kind"`
	Options []string `hcl:"options,optional"`
	Min     *float64 `hcl:"min,optional"`
	Max     *float64 `hcl:"max,optional"`
}

// Target represents the `target` block declaring which target categories a
// service accepts. An empty category block accepts any instance of that
// category; a target block with no category blocks at all accepts every
// category.
type Target struct {
	AllowEmpty bool        `hcl:"allow_empty,optional"`
	Entity     *Constraint `hcl:"entity,block"`
	Device     *Constraint `hcl:"device,block"`
	Area       *Constraint `hcl:"area,block"`
	Label      *Constraint `hcl:"label,block"`
}

// Constraint narrows a target category by entity domain.
type Constraint struct {
	Domains []string `hcl:"domains,optional"`
}
