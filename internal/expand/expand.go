// Package expand resolves repository path patterns against the remote
// repository tree into concrete file paths.
package expand

import (
	"context"
	"fmt"
	"sort"

	"github.com/jakoblorz/go-remote-context/internal/github"
	"github.com/jakoblorz/go-remote-context/internal/models"
)

// Expand resolves a repository-pattern source into the ordered list of
// concrete file paths it denotes.
//
// Patterns apply in declared order. A literal pattern contributes itself
// unchanged; a wildcard pattern contributes its tree matches sorted
// lexicographically. Duplicates across patterns are dropped keeping the
// first occurrence. A pattern with no matches contributes nothing; a tree
// enumeration failure fails the whole source.
func Expand(ctx context.Context, client github.GitHubClient, source models.ContextSource) ([]string, error) {
	if !source.IsRepoPattern() {
		return nil, fmt.Errorf("source %s is not a repository pattern", source.Key())
	}

	var tree []string
	treeLoaded := false

	var result []string
	seen := make(map[string]bool)

	for _, raw := range source.Paths {
		pattern := Compile(raw)

		if pattern.IsLiteral() {
			if !seen[raw] {
				seen[raw] = true
				result = append(result, raw)
			}
			continue
		}

		if !treeLoaded {
			paths, err := client.ListTree(ctx, source.Owner(), source.RepoName(), source.Branch)
			if err != nil {
				return nil, fmt.Errorf("pattern expansion failed for %s@%s: %w",
					source.Repo, source.Branch, err)
			}
			tree = paths
			treeLoaded = true
		}

		var matches []string
		for _, path := range tree {
			if pattern.Match(path) {
				matches = append(matches, path)
			}
		}
		sort.Strings(matches)

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	return result, nil
}
