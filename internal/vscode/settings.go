// Package vscode updates the workspace's VS Code settings so the editor
// picks up the fetched context directories.
package vscode

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/filesystem"
	"github.com/jakoblorz/go-remote-context/internal/models"
	"github.com/jakoblorz/go-remote-context/internal/resolver"
)

// settingsKeys maps artifact categories to their VS Code setting.
var settingsKeys = map[models.Category]string{
	models.CategoryInstructions: "chat.instructionsFilesLocations",
	models.CategoryChatmodes:    "chat.modeFilesLocations",
	models.CategoryPrompts:      "chat.promptFilesLocations",
}

// LocationsFromSnapshot lists every profile directory of every project
// type per category, flagged true when the owning profile is active.
// All profiles stay listed as options so switching profiles only flips
// flags instead of rewriting the set.
func LocationsFromSnapshot(snapshot *config.Snapshot) map[models.Category]map[string]bool {
	locations := make(map[models.Category]map[string]bool)
	for _, category := range models.Categories() {
		locations[category] = make(map[string]bool)
	}

	for _, typeName := range snapshot.ProjectTypeNames() {
		t, _ := snapshot.ProjectType(typeName)
		for _, profileName := range t.ProfileNames() {
			profile, _ := t.Profile(profileName)
			for _, category := range models.Categories() {
				dir := resolver.ProfileDir(profileName, category)
				// A directory shared across project types is active if
				// any owning profile is.
				locations[category][dir] = locations[category][dir] || profile.Active
			}
		}
	}

	return locations
}

// UpdateSettings merges the category location maps into
// <repoRoot>/.vscode/settings.json, preserving unrelated settings.
func UpdateSettings(fs filesystem.FileSystem, repoRoot string, locations map[models.Category]map[string]bool) error {
	vscodeDir := filepath.Join(repoRoot, ".vscode")
	if err := fs.MkdirAll(vscodeDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", vscodeDir, err)
	}

	settingsPath := filepath.Join(vscodeDir, "settings.json")
	settings := make(map[string]interface{})
	if fs.Exists(settingsPath) {
		data, err := fs.ReadFile(settingsPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", settingsPath, err)
		}
		if strings.TrimSpace(string(data)) != "" {
			if err := json.Unmarshal(data, &settings); err != nil {
				return fmt.Errorf("failed to parse %s: %w", settingsPath, err)
			}
		}
	}

	for category, key := range settingsKeys {
		settings[key] = locations[category]
	}

	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if err := fs.WriteFile(settingsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", settingsPath, err)
	}
	return nil
}
