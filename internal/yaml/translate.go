package yaml

import (
	"fmt"

	"github.com/vk/servicecore/internal/service"
	"gopkg.in/yaml.v3"
)

// serviceDoc mirrors the YAML shape of one service entry. Fields and the
// target stay raw nodes: field order matters, and a bare `target:` key must
// be distinguishable from an absent one.
type serviceDoc struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Fields      yaml.Node `yaml:"fields"`
	Target      yaml.Node `yaml:"target"`
}

type fieldDoc struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Required    bool      `yaml:"required"`
	Advanced    bool      `yaml:"advanced"`
	Example     any       `yaml:"example"`
	Selector    yaml.Node `yaml:"selector"`
}

type selectorConfig struct {
	Options []string `yaml:"options"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
}

type targetDoc struct {
	AllowEmpty bool           `yaml:"allow_empty"`
	Entity     *constraintDoc `yaml:"entity"`
	Device     *constraintDoc `yaml:"device"`
	Area       *constraintDoc `yaml:"area"`
	Label      *constraintDoc `yaml:"label"`
}

type constraintDoc struct {
	Domain stringList `yaml:"domain"`
}

// stringList accepts either a single scalar or a sequence of strings, the
// way services.yaml writes `domain: light` and `domain: [light, switch]`
// interchangeably.
type stringList []string

func (s *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*s = stringList{single}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return err
	}
	*s = stringList(many)
	return nil
}

// translateService converts one YAML service entry into the agnostic model.
func translateService(key service.Key, node *yaml.Node) (*service.Definition, error) {
	var doc serviceDoc
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid service body: %w", err)
	}

	def := &service.Definition{
		Key:         key,
		Name:        doc.Name,
		Description: doc.Description,
	}

	if doc.Fields.Kind != 0 && !isNull(&doc.Fields) {
		if doc.Fields.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("fields must be a mapping")
		}
		seen := make(map[string]struct{})
		for i := 0; i+1 < len(doc.Fields.Content); i += 2 {
			keyNode, valNode := doc.Fields.Content[i], doc.Fields.Content[i+1]
			if _, dup := seen[keyNode.Value]; dup {
				return nil, fmt.Errorf("declares field %q twice", keyNode.Value)
			}
			seen[keyNode.Value] = struct{}{}

			spec, err := translateField(keyNode.Value, valNode)
			if err != nil {
				return nil, err
			}
			def.Fields = append(def.Fields, spec)
		}
	}

	target, err := translateTarget(&doc.Target)
	if err != nil {
		return nil, err
	}
	def.Target = target
	return def, nil
}

func translateField(key string, node *yaml.Node) (*service.FieldSpec, error) {
	var doc fieldDoc
	if !isNull(node) {
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
	}

	spec := &service.FieldSpec{
		Key:         key,
		Name:        doc.Name,
		Description: doc.Description,
		Required:    doc.Required,
		Advanced:    doc.Advanced,
		Example:     doc.Example,
		// Fields without a selector default to free-form text.
		Selector: service.Selector{Kind: service.SelectorText},
	}

	if doc.Selector.Kind != 0 && !isNull(&doc.Selector) {
		sel, err := translateSelector(&doc.Selector)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		spec.Selector = sel
	}
	return spec, nil
}

// translateSelector accepts the scalar shorthand `selector: text` and the
// one-key mapping form `selector: {number: {min: 0, max: 255}}`.
func translateSelector(node *yaml.Node) (service.Selector, error) {
	if node.Kind == yaml.ScalarNode {
		kind, err := service.ParseSelectorKind(node.Value)
		if err != nil {
			return service.Selector{}, err
		}
		return service.Selector{Kind: kind}, nil
	}

	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return service.Selector{}, fmt.Errorf("selector must be a kind name or a single-key mapping")
	}

	kindNode, cfgNode := node.Content[0], node.Content[1]
	kind, err := service.ParseSelectorKind(kindNode.Value)
	if err != nil {
		return service.Selector{}, err
	}

	var cfg selectorConfig
	if !isNull(cfgNode) {
		if err := cfgNode.Decode(&cfg); err != nil {
			return service.Selector{}, fmt.Errorf("selector %q: %w", kindNode.Value, err)
		}
	}
	return service.Selector{
		Kind:    kind,
		Options: cfg.Options,
		Min:     cfg.Min,
		Max:     cfg.Max,
	}, nil
}

// translateTarget maps the target node onto the model. An absent key means
// a targetless service; a bare `target:` key (or one with no categories)
// accepts every category unconstrained.
func translateTarget(node *yaml.Node) (*service.TargetSpec, error) {
	if node.Kind == 0 {
		return nil, nil
	}

	var doc targetDoc
	if !isNull(node) {
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid target: %w", err)
		}
	}

	spec := &service.TargetSpec{AllowEmpty: doc.AllowEmpty}
	translate := func(c *constraintDoc) *service.Constraint {
		if c == nil {
			return nil
		}
		return &service.Constraint{Domains: c.Domain}
	}
	spec.Entity = translate(doc.Entity)
	spec.Device = translate(doc.Device)
	spec.Area = translate(doc.Area)
	spec.Label = translate(doc.Label)

	if spec.Entity == nil && spec.Device == nil && spec.Area == nil && spec.Label == nil {
		spec.Entity = &service.Constraint{}
		spec.Device = &service.Constraint{}
		spec.Area = &service.Constraint{}
		spec.Label = &service.Constraint{}
	}
	return spec, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
