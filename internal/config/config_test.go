package config

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jakoblorz/go-remote-context/internal/filesystem"
	"gopkg.in/yaml.v3"
)

const sampleConfig = `
project_types:
  python:
    web:
      active: true
      always_fetch:
        instructions:
          - https://example.com/python.md
      conditional:
        has-django:
          instructions:
            - repo: octo/context
              branch: main
              paths:
                - instructions/django/*.md
    data:
      active: false
  javascript:
    default:
      active: false
`

func parseSnapshot(t *testing.T, document string) *Snapshot {
	t.Helper()

	snapshot := NewSnapshot()
	if err := yaml.Unmarshal([]byte(document), snapshot); err != nil {
		t.Fatalf("failed to parse configuration: %v", err)
	}
	return snapshot
}

func TestSnapshot_ParsePreservesDeclaredOrder(t *testing.T) {
	snapshot := parseSnapshot(t, sampleConfig)

	typeNames := snapshot.ProjectTypeNames()
	if len(typeNames) != 2 || typeNames[0] != "python" || typeNames[1] != "javascript" {
		t.Errorf("project type names = %v", typeNames)
	}

	python, ok := snapshot.ProjectType("python")
	if !ok {
		t.Fatal("python project type missing")
	}
	profileNames := python.ProfileNames()
	if len(profileNames) != 2 || profileNames[0] != "web" || profileNames[1] != "data" {
		t.Errorf("profile names = %v", profileNames)
	}

	name, profile, ok := python.ActiveProfile()
	if !ok || name != "web" {
		t.Fatalf("active profile = %q, ok = %v", name, ok)
	}
	if len(profile.Conditional) != 1 || profile.Conditional[0].Fact != "has-django" {
		t.Errorf("conditional rules = %+v", profile.Conditional)
	}
}

func TestSnapshot_RepoPatternDefaults(t *testing.T) {
	snapshot := parseSnapshot(t, `
project_types:
  python:
    web:
      active: true
      always_fetch:
        instructions:
          - repo: octo/context
`)

	python, _ := snapshot.ProjectType("python")
	_, profile, _ := python.ActiveProfile()
	source := profile.AlwaysFetch.Instructions[0]

	if source.Branch != "main" {
		t.Errorf("default branch = %q, want main", source.Branch)
	}
	if len(source.Paths) != 1 || source.Paths[0] != "*.md" {
		t.Errorf("default paths = %v, want [*.md]", source.Paths)
	}
}

func TestSnapshot_MultipleActiveProfilesIsMalformed(t *testing.T) {
	err := yaml.Unmarshal([]byte(`
project_types:
  python:
    web:
      active: true
    data:
      active: true
`), NewSnapshot())

	if !errors.Is(err, ErrConfigMalformed) {
		t.Fatalf("expected ErrConfigMalformed, got %v", err)
	}
}

func TestSnapshot_UnknownKeysAreMalformed(t *testing.T) {
	cases := map[string]string{
		"top level": `
unexpected: true
project_types: {}
`,
		"profile": `
project_types:
  python:
    web:
      active: true
      surprise: yes
`,
	}

	for name, document := range cases {
		t.Run(name, func(t *testing.T) {
			err := yaml.Unmarshal([]byte(document), NewSnapshot())
			if !errors.Is(err, ErrConfigMalformed) {
				t.Fatalf("expected ErrConfigMalformed, got %v", err)
			}
		})
	}
}

func TestSnapshot_WithActiveProfileDoesNotMutateReceiver(t *testing.T) {
	snapshot := parseSnapshot(t, sampleConfig)

	next, err := snapshot.WithActiveProfile("python", "data")
	if err != nil {
		t.Fatalf("WithActiveProfile failed: %v", err)
	}

	python, _ := snapshot.ProjectType("python")
	if name, _, _ := python.ActiveProfile(); name != "web" {
		t.Errorf("receiver changed: active = %q", name)
	}

	nextPython, _ := next.ProjectType("python")
	if name, _, _ := nextPython.ActiveProfile(); name != "data" {
		t.Errorf("new snapshot active = %q, want data", name)
	}
	if web, _ := nextPython.Profile("web"); web.Active {
		t.Error("sibling profile web should be deactivated")
	}
}

func TestSnapshot_WithActiveProfileUnknownNames(t *testing.T) {
	snapshot := parseSnapshot(t, sampleConfig)

	if _, err := snapshot.WithActiveProfile("haskell", "web"); err == nil {
		t.Error("expected error for unknown project type")
	}
	if _, err := snapshot.WithActiveProfile("python", "nope"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestStore_LoadMissingFileYieldsEmptySnapshot(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	store := NewStore(fs, "/workspace/context_config.yaml")

	snapshot, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snapshot.ProjectTypeNames()) != 0 {
		t.Errorf("expected empty snapshot, got %v", snapshot.ProjectTypeNames())
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/workspace")
	store := NewStore(fs, "/workspace/context_config.yaml")

	original := parseSnapshot(t, sampleConfig)
	if err := store.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := loaded.ProjectTypeNames(); len(got) != 2 || got[0] != "python" {
		t.Errorf("roundtrip lost order: %v", got)
	}
	python, _ := loaded.ProjectType("python")
	if name, _, _ := python.ActiveProfile(); name != "web" {
		t.Errorf("roundtrip lost activation: %q", name)
	}
}

func TestStore_RemoteConfigIsLoaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleConfig))
	}))
	defer srv.Close()

	store := NewStore(filesystem.NewMockFileSystem(), srv.URL, WithHTTPClient(srv.Client()))

	snapshot, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := snapshot.ProjectType("python"); !ok {
		t.Error("remote configuration not parsed")
	}
}

func TestStore_RemoteConfigIsReadOnly(t *testing.T) {
	store := NewStore(filesystem.NewMockFileSystem(), "https://example.com/config.yaml")

	if err := store.Save(NewSnapshot()); err == nil {
		t.Fatal("expected error saving to remote configuration")
	}
}

func TestTokenFromEnv_GHTokenTakesPrecedence(t *testing.T) {
	t.Setenv("GH_TOKEN", "gh-token")
	t.Setenv("GITHUB_TOKEN", "github-token")

	if got := TokenFromEnv(); got != "gh-token" {
		t.Errorf("TokenFromEnv = %q, want gh-token", got)
	}

	t.Setenv("GH_TOKEN", "")
	if got := TokenFromEnv(); got != "github-token" {
		t.Errorf("TokenFromEnv = %q, want github-token", got)
	}
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	if got := ConfigPathFromEnv(); got != DefaultConfigFile {
		t.Errorf("ConfigPathFromEnv = %q, want %q", got, DefaultConfigFile)
	}

	t.Setenv(EnvConfigFile, "https://example.com/config.yaml")
	if got := ConfigPathFromEnv(); got != "https://example.com/config.yaml" {
		t.Errorf("ConfigPathFromEnv = %q", got)
	}
}
