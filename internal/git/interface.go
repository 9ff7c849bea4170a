package git

import (
	"context"
)

// Commit is one entry of a repository's recent history.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// Info is the git context of a workspace, used to enrich workspace
// reports. Everything besides IsGitRepo is best effort.
type Info struct {
	IsGitRepo     bool     `json:"is_git_repo"`
	OriginURL     string   `json:"origin_url,omitempty"`
	CurrentBranch string   `json:"current_branch,omitempty"`
	RecentCommits []Commit `json:"recent_commits,omitempty"`
}

// GitClient provides an abstraction over git operations for testability
type GitClient interface {
	// Repository operations
	IsGitRepo(dir string) bool
	RepoRoot(dir string) (string, error)
	CurrentBranch(dir string) (string, error)
	OriginURL(dir string) (string, error)

	// History operations
	RecentCommits(dir string, count int) ([]Commit, error)

	// Context support for long-running operations
	WithContext(ctx context.Context) GitClient
}

// Analyze gathers the git context of a directory. Missing remotes,
// detached heads and empty histories degrade to zero values instead of
// failing the analysis.
func Analyze(client GitClient, dir string) Info {
	if !client.IsGitRepo(dir) {
		return Info{}
	}

	info := Info{IsGitRepo: true}
	if url, err := client.OriginURL(dir); err == nil {
		info.OriginURL = url
	}
	if branch, err := client.CurrentBranch(dir); err == nil {
		info.CurrentBranch = branch
	}
	if commits, err := client.RecentCommits(dir, 5); err == nil {
		info.RecentCommits = commits
	}
	return info
}
