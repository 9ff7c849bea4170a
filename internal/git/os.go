package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OSGitClient implements GitClient using real git commands
type OSGitClient struct {
	ctx context.Context
}

// NewOSGitClient creates a new OSGitClient
func NewOSGitClient() *OSGitClient {
	return &OSGitClient{
		ctx: context.Background(),
	}
}

// WithContext returns a new client with the given context
func (g *OSGitClient) WithContext(ctx context.Context) GitClient {
	return &OSGitClient{
		ctx: ctx,
	}
}

func (g *OSGitClient) run(dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(g.ctx, "git", args...)
	cmd.Dir = dir

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

func (g *OSGitClient) IsGitRepo(dir string) bool {
	out, err := g.run(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// RepoRoot returns the top-level working tree directory containing dir.
func (g *OSGitClient) RepoRoot(dir string) (string, error) {
	root, err := g.run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to find repository root: %w", err)
	}
	return root, nil
}

func (g *OSGitClient) CurrentBranch(dir string) (string, error) {
	branch, err := g.run(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return branch, nil
}

func (g *OSGitClient) OriginURL(dir string) (string, error) {
	url, err := g.run(dir, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("failed to get origin URL: %w", err)
	}
	return url, nil
}

// RecentCommits returns the latest commits on HEAD, newest first.
func (g *OSGitClient) RecentCommits(dir string, count int) ([]Commit, error) {
	// Unit separator keeps the fields unambiguous in one-line subjects.
	out, err := g.run(dir, "log", fmt.Sprintf("-n%d", count), "--pretty=format:%h%x1f%s%x1f%an%x1f%cI")
	if err != nil {
		return nil, fmt.Errorf("failed to read commit history: %w", err)
	}
	if out == "" {
		return nil, nil
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\x1f")
		if len(fields) != 4 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    fields[0],
			Message: fields[1],
			Author:  fields[2],
			Date:    fields[3],
		})
	}
	return commits, nil
}
