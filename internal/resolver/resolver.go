// Package resolver turns the active profile of a project type plus the
// detected facts into the final, deduplicated source lists per artifact
// category.
package resolver

import (
	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/models"
)

// Resolution is the per-category outcome of rule resolution: ordered,
// deduplicated context sources. Empty lists are valid.
type Resolution struct {
	sources map[models.Category][]models.ContextSource
	seen    map[models.Category]map[string]bool
}

func newResolution() *Resolution {
	return &Resolution{
		sources: make(map[models.Category][]models.ContextSource),
		seen:    make(map[models.Category]map[string]bool),
	}
}

// Sources returns the resolved sources for a category in resolved order.
func (r *Resolution) Sources(category models.Category) []models.ContextSource {
	return r.sources[category]
}

// IsEmpty reports whether no category resolved any source.
func (r *Resolution) IsEmpty() bool {
	for _, category := range models.Categories() {
		if len(r.sources[category]) > 0 {
			return false
		}
	}
	return true
}

// add appends a source unless an equal source was already resolved for
// the category. First occurrence wins.
func (r *Resolution) add(category models.Category, source models.ContextSource) {
	if r.seen[category] == nil {
		r.seen[category] = make(map[string]bool)
	}
	key := source.Key()
	if r.seen[category][key] {
		return
	}
	r.seen[category][key] = true
	r.sources[category] = append(r.sources[category], source)
}

// appendProfile applies one active profile's rules to the resolution:
// the always-fetch set first, then each conditional rule whose gating
// fact is true, in declared order. The ordering is deterministic and
// independent of fact-evaluation order.
func (r *Resolution) appendProfile(profile *config.Profile, facts *models.FactSet) {
	for _, category := range models.Categories() {
		for _, source := range profile.AlwaysFetch.Get(category) {
			r.add(category, source)
		}
	}

	for _, rule := range profile.Conditional {
		if !facts.Condition(rule.Fact) {
			continue
		}
		for _, category := range models.Categories() {
			for _, source := range rule.Adds.Get(category) {
				r.add(category, source)
			}
		}
	}
}

// Resolve computes the source lists for a single project type. A project
// type with no active profile resolves to empty lists for every category.
// Resolve is a pure function of (snapshot, projectType, facts).
func Resolve(snapshot *config.Snapshot, projectType string, facts *models.FactSet) *Resolution {
	resolution := newResolution()

	t, ok := snapshot.ProjectType(projectType)
	if !ok {
		return resolution
	}
	_, profile, ok := t.ActiveProfile()
	if !ok {
		return resolution
	}

	resolution.appendProfile(profile, facts)
	return resolution
}

// ResolveAll resolves every detected project type in detection order into
// one combined resolution, deduplicating across types with the same
// first-occurrence-wins rule.
func ResolveAll(snapshot *config.Snapshot, facts *models.FactSet) *Resolution {
	resolution := newResolution()

	for _, projectType := range facts.ProjectTypes {
		t, ok := snapshot.ProjectType(projectType)
		if !ok {
			continue
		}
		_, profile, ok := t.ActiveProfile()
		if !ok {
			continue
		}
		resolution.appendProfile(profile, facts)
	}

	return resolution
}
