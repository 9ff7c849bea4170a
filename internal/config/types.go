package config

import (
	"errors"
	"fmt"

	"github.com/jakoblorz/go-remote-context/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrConfigMalformed marks schema violations in the configuration
// document. It is fatal for a run: nothing is fetched after it.
var ErrConfigMalformed = errors.New("context configuration malformed")

// CategorySet holds ordered context sources per artifact category.
type CategorySet struct {
	Instructions []models.ContextSource `yaml:"instructions,omitempty"`
	Chatmodes    []models.ContextSource `yaml:"chatmodes,omitempty"`
	Prompts      []models.ContextSource `yaml:"prompts,omitempty"`
}

// Get returns the sources declared for a category, in declared order.
func (c CategorySet) Get(category models.Category) []models.ContextSource {
	switch category {
	case models.CategoryInstructions:
		return c.Instructions
	case models.CategoryChatmodes:
		return c.Chatmodes
	case models.CategoryPrompts:
		return c.Prompts
	}
	return nil
}

// IsEmpty reports whether no category declares any source.
func (c CategorySet) IsEmpty() bool {
	return len(c.Instructions) == 0 && len(c.Chatmodes) == 0 && len(c.Prompts) == 0
}

// ConditionalRule adds sources to the resolution when its gating fact is
// true. Rules apply in the order they are declared in the configuration,
// never in fact-evaluation order.
type ConditionalRule struct {
	Fact string
	Adds CategorySet
}

// Profile is a named, switchable bundle of context-fetch rules for one
// project type. At most one profile per project type is active.
type Profile struct {
	Active      bool
	AlwaysFetch CategorySet
	Conditional []ConditionalRule
}

// UnmarshalYAML decodes a profile mapping, preserving the declared order
// of conditional rules and rejecting unknown keys.
func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: profile must be a mapping", ErrConfigMalformed)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		switch keyNode.Value {
		case "active":
			if err := valNode.Decode(&p.Active); err != nil {
				return fmt.Errorf("%w: active must be a boolean: %v", ErrConfigMalformed, err)
			}
		case "always_fetch":
			if err := valNode.Decode(&p.AlwaysFetch); err != nil {
				return fmt.Errorf("%w: invalid always_fetch: %v", ErrConfigMalformed, err)
			}
		case "conditional":
			rules, err := decodeConditional(valNode)
			if err != nil {
				return err
			}
			p.Conditional = rules
		default:
			return fmt.Errorf("%w: unknown profile key %q", ErrConfigMalformed, keyNode.Value)
		}
	}
	return nil
}

// MarshalYAML encodes the profile, keeping conditional rule order.
func (p Profile) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	appendKeyed(root, "active", p.Active)
	if !p.AlwaysFetch.IsEmpty() {
		appendKeyed(root, "always_fetch", p.AlwaysFetch)
	}
	if len(p.Conditional) > 0 {
		cond := &yaml.Node{Kind: yaml.MappingNode}
		for _, rule := range p.Conditional {
			appendKeyed(cond, rule.Fact, rule.Adds)
		}
		key := &yaml.Node{}
		if err := key.Encode("conditional"); err != nil {
			return nil, err
		}
		root.Content = append(root.Content, key, cond)
	}

	return root, nil
}

func decodeConditional(node *yaml.Node) ([]ConditionalRule, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: conditional must be a mapping of fact name to rules", ErrConfigMalformed)
	}

	var rules []ConditionalRule
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var adds CategorySet
		if err := valNode.Decode(&adds); err != nil {
			return nil, fmt.Errorf("%w: invalid rules for fact %q: %v", ErrConfigMalformed, keyNode.Value, err)
		}
		rules = append(rules, ConditionalRule{Fact: keyNode.Value, Adds: adds})
	}
	return rules, nil
}

func appendKeyed(mapping *yaml.Node, key string, value interface{}) {
	keyNode := &yaml.Node{}
	_ = keyNode.Encode(key)
	valNode := &yaml.Node{}
	_ = valNode.Encode(value)
	mapping.Content = append(mapping.Content, keyNode, valNode)
}

// ProjectType owns the named profiles of one project type.
type ProjectType struct {
	names    []string
	profiles map[string]*Profile
}

// ProfileNames returns profile names in declared order.
func (t *ProjectType) ProfileNames() []string {
	return append([]string{}, t.names...)
}

// Profile returns the named profile.
func (t *ProjectType) Profile(name string) (*Profile, bool) {
	p, ok := t.profiles[name]
	return p, ok
}

// ActiveProfile returns the active profile, if any. A project type with
// no active profile is inactive: resolution yields empty lists for it.
func (t *ProjectType) ActiveProfile() (string, *Profile, bool) {
	for _, name := range t.names {
		if p := t.profiles[name]; p.Active {
			return name, p, true
		}
	}
	return "", nil, false
}

// Snapshot is the immutable, loaded view of the configuration. Profile
// activation produces a new snapshot rather than mutating in place.
type Snapshot struct {
	typeNames []string
	types     map[string]*ProjectType
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{types: make(map[string]*ProjectType)}
}

// ProjectTypeNames returns project type names in declared order.
func (s *Snapshot) ProjectTypeNames() []string {
	return append([]string{}, s.typeNames...)
}

// ProjectType returns the named project type.
func (s *Snapshot) ProjectType(name string) (*ProjectType, bool) {
	t, ok := s.types[name]
	return t, ok
}

// WithActiveProfile returns a new snapshot in which profileName is the
// single active profile of projectType. The receiver is unchanged.
func (s *Snapshot) WithActiveProfile(projectType, profileName string) (*Snapshot, error) {
	t, ok := s.types[projectType]
	if !ok {
		return nil, fmt.Errorf("project type %q not found in configuration", projectType)
	}
	if _, ok := t.profiles[profileName]; !ok {
		return nil, fmt.Errorf("profile %q not found for project type %q (available: %v)",
			profileName, projectType, t.names)
	}

	next := &Snapshot{
		typeNames: append([]string{}, s.typeNames...),
		types:     make(map[string]*ProjectType, len(s.types)),
	}
	for name, pt := range s.types {
		copied := &ProjectType{
			names:    append([]string{}, pt.names...),
			profiles: make(map[string]*Profile, len(pt.profiles)),
		}
		for pname, profile := range pt.profiles {
			clone := *profile
			if name == projectType {
				clone.Active = pname == profileName
			}
			copied.profiles[pname] = &clone
		}
		next.types[name] = copied
	}

	return next, nil
}

// UnmarshalYAML decodes the top-level configuration document:
//
//	project_types:
//	  <type>:
//	    <profile>: {active, always_fetch, conditional}
func (s *Snapshot) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: document must be a mapping", ErrConfigMalformed)
	}

	s.types = make(map[string]*ProjectType)

	var typesNode *yaml.Node
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		if keyNode.Value == "project_types" {
			typesNode = valNode
			continue
		}
		return fmt.Errorf("%w: unknown top-level key %q", ErrConfigMalformed, keyNode.Value)
	}
	if typesNode == nil {
		return fmt.Errorf("%w: missing project_types", ErrConfigMalformed)
	}
	if typesNode.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: project_types must be a mapping", ErrConfigMalformed)
	}

	for i := 0; i+1 < len(typesNode.Content); i += 2 {
		typeName := typesNode.Content[i].Value
		profilesNode := typesNode.Content[i+1]
		if profilesNode.Kind != yaml.MappingNode {
			return fmt.Errorf("%w: project type %q must map profile names to profiles", ErrConfigMalformed, typeName)
		}

		t := &ProjectType{profiles: make(map[string]*Profile)}
		for j := 0; j+1 < len(profilesNode.Content); j += 2 {
			profileName := profilesNode.Content[j].Value
			var profile Profile
			if err := profilesNode.Content[j+1].Decode(&profile); err != nil {
				return fmt.Errorf("profile %s/%s: %w", typeName, profileName, err)
			}
			t.names = append(t.names, profileName)
			t.profiles[profileName] = &profile
		}

		if err := validateSingleActive(typeName, t); err != nil {
			return err
		}

		s.typeNames = append(s.typeNames, typeName)
		s.types[typeName] = t
	}

	return nil
}

// MarshalYAML encodes the snapshot back into the document shape,
// preserving declared order.
func (s *Snapshot) MarshalYAML() (interface{}, error) {
	typesNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, typeName := range s.typeNames {
		t := s.types[typeName]
		profilesNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, profileName := range t.names {
			appendKeyed(profilesNode, profileName, t.profiles[profileName])
		}
		key := &yaml.Node{}
		if err := key.Encode(typeName); err != nil {
			return nil, err
		}
		typesNode.Content = append(typesNode.Content, key, profilesNode)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	key := &yaml.Node{}
	if err := key.Encode("project_types"); err != nil {
		return nil, err
	}
	root.Content = append(root.Content, key, typesNode)
	return root, nil
}

func validateSingleActive(typeName string, t *ProjectType) error {
	active := 0
	for _, name := range t.names {
		if t.profiles[name].Active {
			active++
		}
	}
	if active > 1 {
		return fmt.Errorf("%w: project type %q has %d active profiles, at most one is allowed",
			ErrConfigMalformed, typeName, active)
	}
	return nil
}
