// Package service composes detection, resolution, expansion and fetching
// into the operations exposed by the CLI and the MCP tools.
package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/detect"
	"github.com/jakoblorz/go-remote-context/internal/fetch"
	"github.com/jakoblorz/go-remote-context/internal/filesystem"
	"github.com/jakoblorz/go-remote-context/internal/git"
	"github.com/jakoblorz/go-remote-context/internal/github"
	"github.com/jakoblorz/go-remote-context/internal/models"
	"github.com/jakoblorz/go-remote-context/internal/resolver"
	"github.com/jakoblorz/go-remote-context/internal/vscode"
)

// Service wires the resolution engine's stages together.
type Service struct {
	fs       filesystem.FileSystem
	git      git.GitClient
	gh       github.GitHubClient
	store    *config.Store
	pipeline *fetch.Pipeline
	detector *detect.Detector
}

// New creates a Service from its collaborators.
func New(fs filesystem.FileSystem, gitClient git.GitClient, ghClient github.GitHubClient,
	store *config.Store, pipeline *fetch.Pipeline) *Service {
	return &Service{
		fs:       fs,
		git:      gitClient,
		gh:       ghClient,
		store:    store,
		pipeline: pipeline,
		detector: detect.NewDetector(fs),
	}
}

// KeyFileInfo summarizes a well-known manifest for workspace context.
type KeyFileInfo struct {
	Size  int `json:"size"`
	Lines int `json:"lines"`
}

// WorkspaceContext is the detection report for a workspace.
type WorkspaceContext struct {
	WorkspacePath string                 `json:"workspace_path"`
	ProjectTypes  []string               `json:"project_types"`
	Conditions    map[string]bool        `json:"detected_conditions"`
	GoModule      string                 `json:"go_module,omitempty"`
	Git           *git.Info              `json:"git_info,omitempty"`
	KeyFiles      map[string]KeyFileInfo `json:"key_files,omitempty"`
}

// keyManifests are the manifests summarized in workspace context reports.
var keyManifests = []string{
	"package.json", "requirements.txt", "pyproject.toml",
	"Cargo.toml", "go.mod", "tsconfig.json",
}

// WorkspaceContext detects facts and gathers contextual metadata for a
// workspace. Detection never fails; git info is best effort.
func (s *Service) WorkspaceContext(workspacePath string, includeGit bool) *WorkspaceContext {
	facts := s.detector.Detect(workspacePath)

	wc := &WorkspaceContext{
		WorkspacePath: workspacePath,
		ProjectTypes:  facts.ProjectTypes,
		Conditions:    facts.Conditions,
		GoModule:      s.detector.GoModulePath(workspacePath),
		KeyFiles:      make(map[string]KeyFileInfo),
	}

	if includeGit {
		info := git.Analyze(s.git, workspacePath)
		wc.Git = &info
	}

	for _, name := range keyManifests {
		path := filepath.Join(workspacePath, name)
		if !s.fs.Exists(path) {
			continue
		}
		data, err := s.fs.ReadFile(path)
		if err != nil {
			continue
		}
		wc.KeyFiles[name] = KeyFileInfo{
			Size:  len(data),
			Lines: countLines(data),
		}
	}

	return wc
}

// FetchReport aggregates one fetch run end to end.
type FetchReport struct {
	ProfileName       string
	ProjectTypes      []string
	Planned           int
	Result            *fetch.Result
	ExpansionFailures []resolver.SourceError
	SettingsUpdated   bool
}

// FetchContextFiles runs the full pipeline for a workspace: detect facts,
// resolve the active profiles' rules, expand repository patterns, fetch
// and persist files, then refresh the editor settings. The workspace must
// be inside a git repository.
func (s *Service) FetchContextFiles(ctx context.Context, workspacePath string) (*FetchReport, error) {
	if !s.git.IsGitRepo(workspacePath) {
		return nil, fmt.Errorf("%s is not inside a git repository", workspacePath)
	}
	repoRoot, err := s.git.RepoRoot(workspacePath)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	facts := s.detector.Detect(workspacePath)
	report := &FetchReport{
		ProjectTypes: facts.ProjectTypes,
		ProfileName:  activeProfileName(snapshot, facts.ProjectTypes),
	}

	resolution := resolver.ResolveAll(snapshot, facts)
	plan := resolver.NewPlanner(s.gh).Plan(ctx, resolution, report.ProfileName)
	report.Planned = len(plan.Files)
	report.ExpansionFailures = plan.Failures

	report.Result = s.pipeline.Fetch(ctx, repoRoot, plan.Files)

	if err := vscode.UpdateSettings(s.fs, repoRoot, vscode.LocationsFromSnapshot(snapshot)); err == nil {
		report.SettingsUpdated = true
	}

	return report, nil
}

// SetActiveProfile activates a profile for a project type, persists the
// new configuration and refreshes the editor settings.
func (s *Service) SetActiveProfile(ctx context.Context, workspacePath, projectType, profileName string) (*config.Snapshot, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	next, err := snapshot.WithActiveProfile(projectType, profileName)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(next); err != nil {
		return nil, err
	}

	// Settings refresh is best effort: activation succeeded either way.
	if root, err := s.git.RepoRoot(workspacePath); err == nil {
		_ = vscode.UpdateSettings(s.fs, root, vscode.LocationsFromSnapshot(next))
	} else {
		_ = vscode.UpdateSettings(s.fs, workspacePath, vscode.LocationsFromSnapshot(next))
	}

	return next, nil
}

// LoadConfig returns the current configuration snapshot.
func (s *Service) LoadConfig(ctx context.Context) (*config.Snapshot, error) {
	return s.store.Load(ctx)
}

// ProfileDirs returns the artifact directories of one profile.
func ProfileDirs(profileName string) map[models.Category]string {
	dirs := make(map[models.Category]string, 3)
	for _, category := range models.Categories() {
		dirs[category] = resolver.ProfileDir(profileName, category)
	}
	return dirs
}

// activeProfileName picks the destination profile for a run: the active
// profile of the first detected project type that has one. Falls back to
// "default" so destinations stay well-formed when nothing is configured.
func activeProfileName(snapshot *config.Snapshot, projectTypes []string) string {
	for _, typeName := range projectTypes {
		if t, ok := snapshot.ProjectType(typeName); ok {
			if name, _, ok := t.ActiveProfile(); ok {
				return name
			}
		}
	}
	return "default"
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	lines := 1
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	return lines
}
