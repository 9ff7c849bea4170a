package resolver

import (
	"testing"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/models"
	"gopkg.in/yaml.v3"
)

func loadSnapshot(t *testing.T, document string) *config.Snapshot {
	t.Helper()

	snapshot := config.NewSnapshot()
	if err := yaml.Unmarshal([]byte(document), snapshot); err != nil {
		t.Fatalf("failed to parse configuration: %v", err)
	}
	return snapshot
}

func urls(sources []models.ContextSource) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.URL)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

const pythonConfig = `
project_types:
  python:
    web:
      active: true
      always_fetch:
        instructions:
          - https://example.com/base.md
      conditional:
        has-django:
          instructions:
            - https://example.com/django.md
        has-flask:
          instructions:
            - https://example.com/flask.md
          prompts:
            - https://example.com/flask-prompts.md
    data:
      active: false
      always_fetch:
        instructions:
          - https://example.com/data.md
`

func TestResolve_AlwaysFetchBeforeConditional(t *testing.T) {
	snapshot := loadSnapshot(t, pythonConfig)

	facts := models.NewFactSet()
	facts.AddProjectType("python")
	facts.Conditions["has-flask"] = true

	resolution := Resolve(snapshot, "python", facts)

	got := urls(resolution.Sources(models.CategoryInstructions))
	want := []string{"https://example.com/base.md", "https://example.com/flask.md"}
	if !equalStrings(got, want) {
		t.Errorf("instructions = %v, want %v", got, want)
	}

	prompts := urls(resolution.Sources(models.CategoryPrompts))
	if !equalStrings(prompts, []string{"https://example.com/flask-prompts.md"}) {
		t.Errorf("prompts = %v", prompts)
	}
}

func TestResolve_FalseFactsContributeNothing(t *testing.T) {
	snapshot := loadSnapshot(t, pythonConfig)

	facts := models.NewFactSet()
	facts.AddProjectType("python")

	resolution := Resolve(snapshot, "python", facts)

	got := urls(resolution.Sources(models.CategoryInstructions))
	if !equalStrings(got, []string{"https://example.com/base.md"}) {
		t.Errorf("instructions = %v", got)
	}
	if len(resolution.Sources(models.CategoryPrompts)) != 0 {
		t.Errorf("prompts should be empty, got %v", resolution.Sources(models.CategoryPrompts))
	}
}

func TestResolve_ConditionalRulesApplyInDeclaredOrder(t *testing.T) {
	snapshot := loadSnapshot(t, pythonConfig)

	facts := models.NewFactSet()
	facts.AddProjectType("python")
	// Both facts true: django's rule is declared first, so its source
	// comes first regardless of fact-evaluation order.
	facts.Conditions["has-flask"] = true
	facts.Conditions["has-django"] = true

	resolution := Resolve(snapshot, "python", facts)

	got := urls(resolution.Sources(models.CategoryInstructions))
	want := []string{
		"https://example.com/base.md",
		"https://example.com/django.md",
		"https://example.com/flask.md",
	}
	if !equalStrings(got, want) {
		t.Errorf("instructions = %v, want %v", got, want)
	}
}

func TestResolve_NoActiveProfileYieldsEmptyResolution(t *testing.T) {
	snapshot := loadSnapshot(t, `
project_types:
  rust:
    default:
      active: false
      always_fetch:
        instructions:
          - https://example.com/rust.md
`)

	facts := models.NewFactSet()
	facts.AddProjectType("rust")

	resolution := Resolve(snapshot, "rust", facts)
	if !resolution.IsEmpty() {
		t.Errorf("expected empty resolution, got %v", urls(resolution.Sources(models.CategoryInstructions)))
	}
}

func TestResolve_UnknownProjectTypeYieldsEmptyResolution(t *testing.T) {
	snapshot := loadSnapshot(t, pythonConfig)

	resolution := Resolve(snapshot, "haskell", models.NewFactSet())
	if !resolution.IsEmpty() {
		t.Error("expected empty resolution for unknown project type")
	}
}

func TestResolve_DuplicateSourcesKeepFirstOccurrence(t *testing.T) {
	snapshot := loadSnapshot(t, `
project_types:
  javascript:
    default:
      active: true
      always_fetch:
        instructions:
          - https://example.com/shared.md
      conditional:
        has-react:
          instructions:
            - https://example.com/shared.md
            - https://example.com/react.md
`)

	facts := models.NewFactSet()
	facts.AddProjectType("javascript")
	facts.Conditions["has-react"] = true

	resolution := Resolve(snapshot, "javascript", facts)

	got := urls(resolution.Sources(models.CategoryInstructions))
	want := []string{"https://example.com/shared.md", "https://example.com/react.md"}
	if !equalStrings(got, want) {
		t.Errorf("instructions = %v, want %v", got, want)
	}
}

func TestResolve_IsPure(t *testing.T) {
	snapshot := loadSnapshot(t, pythonConfig)

	facts := models.NewFactSet()
	facts.AddProjectType("python")
	facts.Conditions["has-django"] = true

	first := Resolve(snapshot, "python", facts)
	second := Resolve(snapshot, "python", facts)

	if !equalStrings(
		urls(first.Sources(models.CategoryInstructions)),
		urls(second.Sources(models.CategoryInstructions)),
	) {
		t.Error("repeated resolution with identical inputs diverged")
	}
}

func TestResolveAll_CombinesDetectedTypes(t *testing.T) {
	snapshot := loadSnapshot(t, `
project_types:
  javascript:
    default:
      active: true
      always_fetch:
        instructions:
          - https://example.com/js.md
          - https://example.com/shared.md
  typescript:
    default:
      active: true
      always_fetch:
        instructions:
          - https://example.com/shared.md
          - https://example.com/ts.md
`)

	facts := models.NewFactSet()
	facts.AddProjectType("javascript")
	facts.AddProjectType("typescript")

	resolution := ResolveAll(snapshot, facts)

	got := urls(resolution.Sources(models.CategoryInstructions))
	want := []string{
		"https://example.com/js.md",
		"https://example.com/shared.md",
		"https://example.com/ts.md",
	}
	if !equalStrings(got, want) {
		t.Errorf("instructions = %v, want %v", got, want)
	}
}
