package models

// ResolvedFile is the output of resolution: one concrete remote file with
// the destination it will be written to, relative to the repository root.
// Destinations are unique within one resolution run per category.
type ResolvedFile struct {
	// Category the file belongs to.
	Category Category `json:"category"`

	// URL is the concrete raw-content URL to fetch.
	URL string `json:"url"`

	// Repo is set when the file came from a repository pattern ("owner/repo").
	Repo string `json:"repo,omitempty"`

	// Branch is set when the file came from a repository pattern.
	Branch string `json:"branch,omitempty"`

	// Path is the repo-relative file path for repository-pattern files.
	Path string `json:"path,omitempty"`

	// Destination is the write target relative to the workspace root,
	// e.g. ".github/default/instructions/python.instructions.md".
	Destination string `json:"destination"`
}
