package expand

import (
	"context"
	"strings"
	"testing"

	"github.com/jakoblorz/go-remote-context/internal/github"
	"github.com/jakoblorz/go-remote-context/internal/models"
	"github.com/stretchr/testify/require"
)

func treeClient(paths []string) *github.MockClient {
	client := github.NewMockClient()
	client.SetTree("octo", "context", "main", paths)
	return client
}

func repoSource(paths ...string) models.ContextSource {
	return models.ContextSource{Repo: "octo/context", Branch: "main", Paths: paths}
}

func TestExpand_SingleStarStaysWithinSegment(t *testing.T) {
	client := treeClient([]string{
		"instructions/a.md",
		"instructions/sub/b.md",
		"readme.md",
	})

	result, err := Expand(context.Background(), client, repoSource("instructions/*.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"instructions/a.md"}, result)
}

func TestExpand_DoubleStarCrossesSegments(t *testing.T) {
	client := treeClient([]string{
		"instructions/a.md",
		"instructions/sub/b.md",
		"readme.md",
	})

	result, err := Expand(context.Background(), client, repoSource("instructions/**/*.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"instructions/a.md", "instructions/sub/b.md"}, result)
}

func TestExpand_LiteralPassesThroughWithoutTree(t *testing.T) {
	// No tree registered: a literal path must not trigger enumeration.
	client := github.NewMockClient()

	result, err := Expand(context.Background(), client, repoSource("docs/setup.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"docs/setup.md"}, result)
}

func TestExpand_NoMatchesContributesNothing(t *testing.T) {
	client := treeClient([]string{"readme.md"})

	result, err := Expand(context.Background(), client,
		repoSource("prompts/*.md", "readme.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"readme.md"}, result)
}

func TestExpand_DuplicatesAcrossPatternsKeepFirstOccurrence(t *testing.T) {
	client := treeClient([]string{
		"instructions/a.md",
		"instructions/b.md",
	})

	result, err := Expand(context.Background(), client,
		repoSource("instructions/b.md", "instructions/*.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"instructions/b.md", "instructions/a.md"}, result)
}

func TestExpand_MatchesAreSortedPerPattern(t *testing.T) {
	client := treeClient([]string{
		"prompts/zeta.md",
		"prompts/alpha.md",
		"prompts/mid.md",
	})

	result, err := Expand(context.Background(), client, repoSource("prompts/*.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"prompts/alpha.md", "prompts/mid.md", "prompts/zeta.md"}, result)
}

func TestExpand_TreeErrorFailsWholeSource(t *testing.T) {
	client := github.NewMockClient()
	client.ListTreeError = github.ErrTreeTruncated

	_, err := Expand(context.Background(), client,
		repoSource("docs/setup.md", "instructions/*.md"))
	require.Error(t, err)
	require.ErrorIs(t, err, github.ErrTreeTruncated)
	require.Contains(t, err.Error(), "octo/context@main")
}

func TestExpand_RejectsDirectURLSource(t *testing.T) {
	client := github.NewMockClient()

	_, err := Expand(context.Background(), client,
		models.ContextSource{URL: "https://example.com/a.md"})
	require.Error(t, err)
}

func TestPattern_Match(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.md", "readme.md", true},
		{"*.md", "docs/readme.md", false},
		{"**/*.md", "readme.md", true},
		{"**/*.md", "docs/deep/readme.md", true},
		{"docs/*.md", "docs/a.md", true},
		{"docs/*.md", "docs/sub/a.md", false},
		{"docs/**", "docs", true},
		{"docs/**", "docs/sub/a.md", true},
		{"docs/**/b.md", "docs/b.md", true},
		{"docs/**/b.md", "docs/x/y/b.md", true},
		{"a*c.md", "abc.md", true},
		{"a*c.md", "ac.md", true},
		{"a*c.md", "abd.md", false},
		{"exact.md", "exact.md", true},
		{"exact.md", "other.md", false},
	}

	for _, tc := range cases {
		name := tc.pattern + "~" + strings.ReplaceAll(tc.path, "/", "_")
		t.Run(name, func(t *testing.T) {
			if got := Compile(tc.pattern).Match(tc.path); got != tc.want {
				t.Errorf("Compile(%q).Match(%q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
			}
		})
	}
}

func TestPattern_IsLiteral(t *testing.T) {
	if !Compile("docs/setup.md").IsLiteral() {
		t.Error("expected docs/setup.md to be literal")
	}
	if Compile("docs/*.md").IsLiteral() {
		t.Error("expected docs/*.md to be non-literal")
	}
	if Compile("**").IsLiteral() {
		t.Error("expected ** to be non-literal")
	}
}
