package vscode

import (
	"encoding/json"
	"testing"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/filesystem"
	"github.com/jakoblorz/go-remote-context/internal/models"
	"gopkg.in/yaml.v3"
)

func parseSnapshot(t *testing.T, document string) *config.Snapshot {
	t.Helper()

	snapshot := config.NewSnapshot()
	if err := yaml.Unmarshal([]byte(document), snapshot); err != nil {
		t.Fatalf("failed to parse configuration: %v", err)
	}
	return snapshot
}

func TestLocationsFromSnapshot_FlagsActiveProfiles(t *testing.T) {
	snapshot := parseSnapshot(t, `
project_types:
  python:
    web:
      active: true
    data:
      active: false
`)

	locations := LocationsFromSnapshot(snapshot)

	instructions := locations[models.CategoryInstructions]
	if !instructions[".github/web/instructions"] {
		t.Error("active profile directory should be flagged true")
	}
	if instructions[".github/data/instructions"] {
		t.Error("inactive profile directory should be flagged false")
	}
	if _, listed := instructions[".github/data/instructions"]; !listed {
		t.Error("inactive profile directory should still be listed")
	}
}

func TestLocationsFromSnapshot_SharedProfileNameStaysActive(t *testing.T) {
	// Two project types share the profile name "default"; the directory
	// is active as long as either owning profile is.
	snapshot := parseSnapshot(t, `
project_types:
  javascript:
    default:
      active: true
  python:
    default:
      active: false
`)

	locations := LocationsFromSnapshot(snapshot)
	if !locations[models.CategoryPrompts][".github/default/prompts"] {
		t.Error("shared directory should be active when any owner is active")
	}
}

func TestUpdateSettings_PreservesUnrelatedSettings(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/repo/.vscode/settings.json", []byte(`{
		"editor.tabSize": 4,
		"chat.promptFilesLocations": {"stale/dir": true}
	}`))

	snapshot := parseSnapshot(t, `
project_types:
  python:
    web:
      active: true
`)

	if err := UpdateSettings(fs, "/repo", LocationsFromSnapshot(snapshot)); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	data, err := fs.ReadFile("/repo/.vscode/settings.json")
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("settings not valid JSON: %v", err)
	}

	if settings["editor.tabSize"] != float64(4) {
		t.Errorf("unrelated setting lost: %v", settings["editor.tabSize"])
	}

	prompts, ok := settings["chat.promptFilesLocations"].(map[string]interface{})
	if !ok {
		t.Fatalf("chat.promptFilesLocations missing: %v", settings)
	}
	if _, stale := prompts["stale/dir"]; stale {
		t.Error("managed keys are replaced, stale entries must not survive")
	}
	if prompts[".github/web/prompts"] != true {
		t.Errorf("expected .github/web/prompts active, got %v", prompts)
	}
}

func TestUpdateSettings_CreatesSettingsFile(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/repo")

	snapshot := parseSnapshot(t, `
project_types:
  go:
    default:
      active: true
`)

	if err := UpdateSettings(fs, "/repo", LocationsFromSnapshot(snapshot)); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if !fs.Exists("/repo/.vscode/settings.json") {
		t.Error("settings.json not created")
	}
}
