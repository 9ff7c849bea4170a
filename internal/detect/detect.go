package detect

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/jakoblorz/go-remote-context/internal/filesystem"
	"github.com/jakoblorz/go-remote-context/internal/models"
	"golang.org/x/mod/modfile"
)

// Project-type fact names.
const (
	FactPython     = "python"
	FactJavaScript = "javascript"
	FactTypeScript = "typescript"
	FactRust       = "rust"
	FactGo         = "go"
	FactGeneric    = "generic"
)

// maxWalkEntries bounds the extension scan so detection stays cheap on
// large workspaces. Manifest facts only need the immediate listing.
const maxWalkEntries = 2000

// pythonMarkers are files whose presence marks a Python project.
var pythonMarkers = []string{"requirements.txt", "setup.py", "pyproject.toml", "__init__.py"}

// Detector derives boolean facts from workspace contents. All predicates
// are pure functions of workspace state: no network access, no mutation.
type Detector struct {
	fs filesystem.FileSystem
}

// NewDetector creates a Detector reading through the given filesystem.
func NewDetector(fs filesystem.FileSystem) *Detector {
	return &Detector{fs: fs}
}

// Detect inspects the workspace root and returns the detected facts.
// Missing or unreadable manifests yield their dependent facts as false;
// detection itself never fails.
func (d *Detector) Detect(root string) *models.FactSet {
	facts := models.NewFactSet()

	names := d.listNames(root)
	hasTS, hasGo := d.scanExtensions(root)

	if anyPresent(names, pythonMarkers) {
		facts.AddProjectType(FactPython)
	}
	if names["package.json"] {
		facts.AddProjectType(FactJavaScript)
		if names["tsconfig.json"] || hasTS {
			facts.AddProjectType(FactTypeScript)
		}
	}
	if names["Cargo.toml"] {
		facts.AddProjectType(FactRust)
	}
	if names["go.mod"] || hasGo {
		facts.AddProjectType(FactGo)
	}
	if len(facts.ProjectTypes) == 0 {
		facts.AddProjectType(FactGeneric)
	}

	d.detectNodeConditions(root, names, facts)
	d.detectPythonConditions(root, names, facts)

	facts.Conditions["has-tsconfig"] = names["tsconfig.json"]
	facts.Conditions["has-cargo-toml"] = names["Cargo.toml"]
	facts.Conditions["has-go-mod"] = names["go.mod"]

	return facts
}

// listNames returns the immediate file listing of the workspace root.
func (d *Detector) listNames(root string) map[string]bool {
	names := make(map[string]bool)
	entries, err := d.fs.ReadDir(root)
	if err != nil {
		return names
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			names[entry.Name()] = true
		}
	}
	return names
}

// detectNodeConditions derives facts from package.json dependencies.
func (d *Detector) detectNodeConditions(root string, names map[string]bool, facts *models.FactSet) {
	if !names["package.json"] {
		return
	}

	data, err := d.fs.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return
	}

	deps := make(map[string]bool, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name := range pkg.Dependencies {
		deps[name] = true
	}
	for name := range pkg.DevDependencies {
		deps[name] = true
	}

	facts.Conditions["has-package-json"] = true
	facts.Conditions["has-react"] = deps["react"]
	facts.Conditions["has-nextjs"] = deps["next"]
	facts.Conditions["has-express"] = deps["express"]
	facts.Conditions["has-typescript"] = deps["typescript"]
}

// detectPythonConditions derives facts from the Python manifests.
func (d *Detector) detectPythonConditions(root string, names map[string]bool, facts *models.FactSet) {
	if names["requirements.txt"] {
		if data, err := d.fs.ReadFile(filepath.Join(root, "requirements.txt")); err == nil {
			content := strings.ToLower(string(data))
			facts.Conditions["has-requirements-txt"] = true
			facts.Conditions["has-django"] = strings.Contains(content, "django")
			facts.Conditions["has-flask"] = strings.Contains(content, "flask")
			facts.Conditions["has-fastapi"] = strings.Contains(content, "fastapi")
		}
	}
	facts.Conditions["has-pyproject-toml"] = names["pyproject.toml"]
	facts.Conditions["has-setup-py"] = names["setup.py"]
}

// scanExtensions walks the workspace looking for .ts and .go sources.
// The walk honors the root .gitignore and skips .git, and is capped at
// maxWalkEntries so detection cost stays bounded.
func (d *Detector) scanExtensions(root string) (hasTS, hasGo bool) {
	ignore := d.loadRootGitIgnore(root)

	visited := 0
	_ = d.fs.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if path == root {
			return nil
		}

		visited++
		if visited > maxWalkEntries || (hasTS && hasGo) {
			return fs.SkipAll
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if entry.Name() == ".git" || entry.Name() == "node_modules" {
				return filepath.SkipDir
			}
			if ignore != nil {
				if match := ignore.Relative(rel, true); match != nil && match.Ignore() {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if ignore != nil {
			if match := ignore.Relative(rel, false); match != nil && match.Ignore() {
				return nil
			}
		}

		switch {
		case strings.HasSuffix(path, ".ts"):
			hasTS = true
		case strings.HasSuffix(path, ".go"):
			hasGo = true
		}
		return nil
	})

	return hasTS, hasGo
}

func (d *Detector) loadRootGitIgnore(root string) gitignore.GitIgnore {
	ignorePath := filepath.Join(root, ".gitignore")
	if !d.fs.Exists(ignorePath) {
		return nil
	}

	data, err := d.fs.ReadFile(ignorePath)
	if err != nil {
		return nil
	}

	return gitignore.New(bytes.NewReader(data), root, nil)
}

// GoModulePath returns the module path declared in the workspace's go.mod,
// or "" when absent or unparseable. Used for workspace-context enrichment.
func (d *Detector) GoModulePath(root string) string {
	goModPath := filepath.Join(root, "go.mod")
	data, err := d.fs.ReadFile(goModPath)
	if err != nil {
		return ""
	}

	modFile, err := modfile.Parse(goModPath, data, nil)
	if err != nil || modFile.Module == nil {
		return ""
	}
	return modFile.Module.Mod.Path
}

func anyPresent(names map[string]bool, candidates []string) bool {
	for _, c := range candidates {
		if names[c] {
			return true
		}
	}
	return false
}
