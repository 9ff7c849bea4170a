package git

import (
	"context"
	"fmt"
)

// MockGitClient implements GitClient for testing
type MockGitClient struct {
	Repo    bool
	Root    string
	Branch  string
	Origin  string
	Commits []Commit

	// Hooks for testing error scenarios
	RepoRootError      error
	CurrentBranchError error
	OriginURLError     error
	RecentCommitsError error
}

// NewMockGitClient creates a MockGitClient describing a repository at root.
func NewMockGitClient(root string) *MockGitClient {
	return &MockGitClient{
		Repo:   true,
		Root:   root,
		Branch: "main",
	}
}

func (m *MockGitClient) WithContext(ctx context.Context) GitClient {
	return m
}

func (m *MockGitClient) IsGitRepo(dir string) bool {
	return m.Repo
}

func (m *MockGitClient) RepoRoot(dir string) (string, error) {
	if m.RepoRootError != nil {
		return "", m.RepoRootError
	}
	if !m.Repo {
		return "", fmt.Errorf("not a git repository: %s", dir)
	}
	return m.Root, nil
}

func (m *MockGitClient) CurrentBranch(dir string) (string, error) {
	if m.CurrentBranchError != nil {
		return "", m.CurrentBranchError
	}
	return m.Branch, nil
}

func (m *MockGitClient) OriginURL(dir string) (string, error) {
	if m.OriginURLError != nil {
		return "", m.OriginURLError
	}
	if m.Origin == "" {
		return "", fmt.Errorf("no origin remote configured")
	}
	return m.Origin, nil
}

func (m *MockGitClient) RecentCommits(dir string, count int) ([]Commit, error) {
	if m.RecentCommitsError != nil {
		return nil, m.RecentCommitsError
	}
	if count > len(m.Commits) {
		count = len(m.Commits)
	}
	return m.Commits[:count], nil
}
