package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBranch is used when a repository pattern omits the branch.
const DefaultBranch = "main"

// defaultPaths is used when a repository pattern omits its path list.
var defaultPaths = []string{"*.md"}

// ContextSource describes remote files to retrieve. It is either a direct
// URL (fetched verbatim) or a repository pattern (owner/repo + branch +
// ordered glob path patterns expanded against the repository tree).
//
// In YAML a source is a bare string (direct URL) or a mapping:
//
//	repo: owner/repo
//	branch: main
//	paths: ["instructions/*.md"]
type ContextSource struct {
	// URL is set for direct-URL sources.
	URL string `yaml:"url,omitempty"`

	// Repo is the "owner/repo" identifier for repository patterns.
	Repo string `yaml:"repo,omitempty"`

	// Branch is the branch to resolve patterns against.
	Branch string `yaml:"branch,omitempty"`

	// Paths are glob path patterns, in declared order.
	Paths []string `yaml:"paths,omitempty"`
}

// IsRepoPattern reports whether the source is a repository pattern.
func (s ContextSource) IsRepoPattern() bool {
	return s.Repo != ""
}

// Key returns the dedup identity of the source: the URL for direct
// sources, the repo+branch+paths triple for repository patterns.
func (s ContextSource) Key() string {
	if !s.IsRepoPattern() {
		return "url:" + s.URL
	}
	return fmt.Sprintf("repo:%s@%s:%s", s.Repo, s.Branch, strings.Join(s.Paths, ","))
}

// Owner returns the owner half of a repository pattern's Repo field.
func (s ContextSource) Owner() string {
	owner, _, _ := strings.Cut(s.Repo, "/")
	return owner
}

// RepoName returns the repository half of a repository pattern's Repo field.
func (s ContextSource) RepoName() string {
	_, name, _ := strings.Cut(s.Repo, "/")
	return name
}

// Validate checks the structural invariants of the source.
func (s ContextSource) Validate() error {
	if s.URL != "" && s.Repo != "" {
		return fmt.Errorf("source cannot be both a URL and a repository pattern")
	}
	if s.URL == "" && s.Repo == "" {
		return fmt.Errorf("source must set either a URL or a repository")
	}
	if s.Repo != "" && !strings.Contains(s.Repo, "/") {
		return fmt.Errorf("repository %q must be in owner/repo form", s.Repo)
	}
	return nil
}

// UnmarshalYAML decodes either the bare-string or the mapping form.
func (s *ContextSource) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var url string
		if err := value.Decode(&url); err != nil {
			return err
		}
		*s = ContextSource{URL: url}
		return nil
	}

	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("context source must be a string or a mapping, got %s", nodeKind(value))
	}

	type rawSource struct {
		URL    string   `yaml:"url"`
		Repo   string   `yaml:"repo"`
		Branch string   `yaml:"branch"`
		Paths  []string `yaml:"paths"`
	}
	var raw rawSource
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*s = ContextSource{URL: raw.URL, Repo: raw.Repo, Branch: raw.Branch, Paths: raw.Paths}
	if s.IsRepoPattern() {
		if s.Branch == "" {
			s.Branch = DefaultBranch
		}
		if len(s.Paths) == 0 {
			s.Paths = append([]string{}, defaultPaths...)
		}
	}
	return s.Validate()
}

// MarshalYAML emits the compact bare-string form for direct URLs.
func (s ContextSource) MarshalYAML() (interface{}, error) {
	if !s.IsRepoPattern() {
		return s.URL, nil
	}
	return map[string]interface{}{
		"repo":   s.Repo,
		"branch": s.Branch,
		"paths":  s.Paths,
	}, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
