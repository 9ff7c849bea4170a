package models

// FactSet holds the boolean facts detected for a single workspace.
//
// Project-type facts say which project types apply; several may be true
// at once, a workspace can be both "javascript" and "typescript".
// Condition facts gate the conditional rules of an active profile.
// Facts are derived from workspace state and never persisted.
type FactSet struct {
	// ProjectTypes lists the detected project types in detection order.
	ProjectTypes []string

	// Conditions maps condition-fact names to their detected value.
	// Absent names are false.
	Conditions map[string]bool
}

// NewFactSet creates an empty FactSet.
func NewFactSet() *FactSet {
	return &FactSet{Conditions: make(map[string]bool)}
}

// Condition returns the value of a condition fact, false when unknown.
func (f *FactSet) Condition(name string) bool {
	if f == nil || f.Conditions == nil {
		return false
	}
	return f.Conditions[name]
}

// HasProjectType reports whether the given project type was detected.
func (f *FactSet) HasProjectType(name string) bool {
	if f == nil {
		return false
	}
	for _, t := range f.ProjectTypes {
		if t == name {
			return true
		}
	}
	return false
}

// AddProjectType appends a project type fact if not already present.
func (f *FactSet) AddProjectType(name string) {
	if !f.HasProjectType(name) {
		f.ProjectTypes = append(f.ProjectTypes, name)
	}
}
