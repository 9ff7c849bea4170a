package git

import (
	"errors"
	"testing"
)

func TestAnalyze_NonRepoYieldsZeroInfo(t *testing.T) {
	client := NewMockGitClient("/repo")
	client.Repo = false

	info := Analyze(client, "/repo")
	if info.IsGitRepo {
		t.Error("expected IsGitRepo false")
	}
	if info.CurrentBranch != "" || info.OriginURL != "" {
		t.Errorf("expected zero info, got %+v", info)
	}
}

func TestAnalyze_DegradesOnPartialFailures(t *testing.T) {
	client := NewMockGitClient("/repo")
	client.Origin = "git@github.com:octo/demo.git"
	client.Commits = []Commit{{Hash: "abc1234", Message: "initial", Author: "dev", Date: "2026-08-01T10:00:00Z"}}
	client.CurrentBranchError = errors.New("detached HEAD")

	info := Analyze(client, "/repo")
	if !info.IsGitRepo {
		t.Fatal("expected IsGitRepo true")
	}
	if info.CurrentBranch != "" {
		t.Errorf("branch lookup failed, expected empty branch, got %q", info.CurrentBranch)
	}
	if info.OriginURL != "git@github.com:octo/demo.git" {
		t.Errorf("origin = %q", info.OriginURL)
	}
	if len(info.RecentCommits) != 1 {
		t.Errorf("commits = %v", info.RecentCommits)
	}
}
