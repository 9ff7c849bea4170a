package resolver

import (
	"context"
	"path"
	"strings"

	"github.com/jakoblorz/go-remote-context/internal/expand"
	"github.com/jakoblorz/go-remote-context/internal/github"
	"github.com/jakoblorz/go-remote-context/internal/models"
)

// SourceError records a repository source whose pattern expansion failed.
// The failure is scoped to that source: the rest of the plan stands.
type SourceError struct {
	Category models.Category
	Source   models.ContextSource
	Err      error
}

// Plan is the fully expanded fetch plan: concrete files with unique
// destinations, plus the sources that could not be expanded.
type Plan struct {
	Files    []models.ResolvedFile
	Failures []SourceError
}

// Planner expands resolved sources into concrete fetchable files.
type Planner struct {
	gh github.GitHubClient
}

// NewPlanner creates a Planner using the given provider client.
func NewPlanner(gh github.GitHubClient) *Planner {
	return &Planner{gh: gh}
}

// Plan expands every resolved source of every category. Direct URLs map
// one-to-one; repository patterns expand against the remote tree. Within
// one category, destination paths are unique: a later file that would
// write an already-claimed destination is dropped (first occurrence wins,
// same rule as source dedup).
func (p *Planner) Plan(ctx context.Context, resolution *Resolution, profileName string) *Plan {
	plan := &Plan{}
	claimed := make(map[models.Category]map[string]bool)

	for _, category := range models.Categories() {
		claimed[category] = make(map[string]bool)

		for _, source := range resolution.Sources(category) {
			if !source.IsRepoPattern() {
				p.appendFile(plan, claimed, models.ResolvedFile{
					Category:    category,
					URL:         source.URL,
					Destination: DestinationPath(profileName, category, source.URL),
				})
				continue
			}

			paths, err := expand.Expand(ctx, p.gh, source)
			if err != nil {
				plan.Failures = append(plan.Failures, SourceError{
					Category: category,
					Source:   source,
					Err:      err,
				})
				continue
			}

			for _, filePath := range paths {
				p.appendFile(plan, claimed, models.ResolvedFile{
					Category:    category,
					URL:         github.RawContentURL(source.Repo, source.Branch, filePath),
					Repo:        source.Repo,
					Branch:      source.Branch,
					Path:        filePath,
					Destination: DestinationPath(profileName, category, filePath),
				})
			}
		}
	}

	return plan
}

func (p *Planner) appendFile(plan *Plan, claimed map[models.Category]map[string]bool, file models.ResolvedFile) {
	if claimed[file.Category][file.Destination] {
		return
	}
	claimed[file.Category][file.Destination] = true
	plan.Files = append(plan.Files, file)
}

// ProfileDir returns the artifact directory of a profile relative to the
// workspace root: .github/<profile>/<category>.
func ProfileDir(profileName string, category models.Category) string {
	return path.Join(".github", profileName, string(category))
}

// DestinationPath derives the destination of a fetched file relative to
// the workspace root. The name is the source basename with any .md/.txt
// extension stripped and the category suffix appended:
// .github/<profile>/<category>/<base>.<category>.md
func DestinationPath(profileName string, category models.Category, sourcePath string) string {
	base := path.Base(strings.TrimSuffix(sourcePath, "/"))
	base = strings.TrimSuffix(base, ".md")
	base = strings.TrimSuffix(base, ".txt")
	return path.Join(ProfileDir(profileName, category), base+"."+string(category)+".md")
}
