package resolver

import (
	"context"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/go-remote-context/internal/github"
	"github.com/jakoblorz/go-remote-context/internal/models"
	"github.com/stretchr/testify/require"
)

func TestDestinationPath(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"https://example.com/docs/python-style.md", ".github/web/instructions/python-style.instructions.md"},
		{"instructions/testing.md", ".github/web/instructions/testing.instructions.md"},
		{"notes.txt", ".github/web/instructions/notes.instructions.md"},
		{"no-extension", ".github/web/instructions/no-extension.instructions.md"},
	}

	for _, tc := range cases {
		got := DestinationPath("web", models.CategoryInstructions, tc.source)
		if got != tc.want {
			t.Errorf("DestinationPath(web, instructions, %q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}

func TestProfileDir(t *testing.T) {
	got := ProfileDir("web", models.CategoryPrompts)
	if got != ".github/web/prompts" {
		t.Errorf("ProfileDir = %q", got)
	}
}

func TestPlan_DirectURLsMapOneToOne(t *testing.T) {
	resolution := newResolution()
	resolution.add(models.CategoryInstructions, models.ContextSource{URL: "https://example.com/a.md"})
	resolution.add(models.CategoryPrompts, models.ContextSource{URL: "https://example.com/b.md"})

	plan := NewPlanner(github.NewMockClient()).Plan(context.Background(), resolution, "web")

	require.Empty(t, plan.Failures)
	require.Len(t, plan.Files, 2)
	require.Equal(t, "https://example.com/a.md", plan.Files[0].URL)
	require.Equal(t, ".github/web/instructions/a.instructions.md", plan.Files[0].Destination)
	require.Equal(t, ".github/web/prompts/b.prompts.md", plan.Files[1].Destination)
}

func TestPlan_RepoPatternsExpandToRawURLs(t *testing.T) {
	client := github.NewMockClient()
	client.SetTree("octo", "context", "main", []string{
		"instructions/a.md",
		"instructions/b.md",
		"readme.md",
	})

	resolution := newResolution()
	resolution.add(models.CategoryInstructions, models.ContextSource{
		Repo:   "octo/context",
		Branch: "main",
		Paths:  []string{"instructions/*.md"},
	})

	plan := NewPlanner(client).Plan(context.Background(), resolution, "web")

	require.Empty(t, plan.Failures)
	require.Len(t, plan.Files, 2)
	require.Equal(t, "https://raw.githubusercontent.com/octo/context/main/instructions/a.md", plan.Files[0].URL)
	require.Equal(t, "instructions/a.md", plan.Files[0].Path)
	require.Equal(t, ".github/web/instructions/a.instructions.md", plan.Files[0].Destination)
}

func TestPlan_ClaimedDestinationsKeepFirstFile(t *testing.T) {
	// Two sources whose basenames collide: the later file is dropped.
	resolution := newResolution()
	resolution.add(models.CategoryInstructions, models.ContextSource{URL: "https://one.example.com/style.md"})
	resolution.add(models.CategoryInstructions, models.ContextSource{URL: "https://two.example.com/style.md"})

	plan := NewPlanner(github.NewMockClient()).Plan(context.Background(), resolution, "web")

	require.Len(t, plan.Files, 1)
	require.Equal(t, "https://one.example.com/style.md", plan.Files[0].URL)
}

func TestPlan_SameBasenameAcrossCategoriesDoesNotCollide(t *testing.T) {
	resolution := newResolution()
	resolution.add(models.CategoryInstructions, models.ContextSource{URL: "https://example.com/style.md"})
	resolution.add(models.CategoryPrompts, models.ContextSource{URL: "https://example.com/style.md"})

	plan := NewPlanner(github.NewMockClient()).Plan(context.Background(), resolution, "web")

	require.Len(t, plan.Files, 2)
}

func TestPlan_ExpansionFailureIsScopedToItsSource(t *testing.T) {
	client := github.NewMockClient()
	client.ListTreeError = github.ErrTreeTruncated

	resolution := newResolution()
	resolution.add(models.CategoryInstructions, models.ContextSource{URL: "https://example.com/a.md"})
	resolution.add(models.CategoryInstructions, models.ContextSource{
		Repo:   "octo/context",
		Branch: "main",
		Paths:  []string{"instructions/*.md"},
	})

	plan := NewPlanner(client).Plan(context.Background(), resolution, "web")

	require.Len(t, plan.Files, 1)
	require.Len(t, plan.Failures, 1)
	require.ErrorIs(t, plan.Failures[0].Err, github.ErrTreeTruncated)
	require.Equal(t, models.CategoryInstructions, plan.Failures[0].Category)
}

func TestPlanSnapshots(t *testing.T) {
	client := github.NewMockClient()
	client.SetTree("octo", "context", "main", []string{
		"instructions/python.md",
		"instructions/django/models.md",
		"prompts/review.md",
	})

	resolution := newResolution()
	resolution.add(models.CategoryInstructions, models.ContextSource{URL: "https://example.com/base.md"})
	resolution.add(models.CategoryInstructions, models.ContextSource{
		Repo:   "octo/context",
		Branch: "main",
		Paths:  []string{"instructions/**/*.md"},
	})
	resolution.add(models.CategoryPrompts, models.ContextSource{
		Repo:   "octo/context",
		Branch: "main",
		Paths:  []string{"prompts/*.md"},
	})

	plan := NewPlanner(client).Plan(context.Background(), resolution, "web")

	t.Run("expanded plan", func(t *testing.T) {
		snaps.MatchSnapshot(t, plan.Files)
	})
}
