package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jakoblorz/go-remote-context/internal/filesystem"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigFile names the configuration document (path or URL).
	EnvConfigFile = "CONTEXT_CONFIG_FILE"

	// EnvWorkdir names the default workspace directory.
	EnvWorkdir = "CONTEXT_WORKDIR"

	// DefaultConfigFile is used when EnvConfigFile is unset.
	DefaultConfigFile = "context_config.yaml"
)

// ConfigPathFromEnv returns the configured document location.
func ConfigPathFromEnv() string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	return DefaultConfigFile
}

// WorkdirFromEnv returns the configured default workspace directory.
func WorkdirFromEnv() string {
	if dir := os.Getenv(EnvWorkdir); dir != "" {
		return dir
	}
	return "."
}

// TokenFromEnv returns the bearer credential, GH_TOKEN taking precedence.
func TokenFromEnv() string {
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GITHUB_TOKEN")
}

// Store loads and persists the configuration document. The document
// location may be a local path or an http(s) URL; remote documents are
// read-only.
type Store struct {
	fs         filesystem.FileSystem
	httpClient *http.Client
	path       string
	token      string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithHTTPClient overrides the HTTP client used for remote documents.
func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *Store) {
		s.httpClient = client
	}
}

// WithToken sets the bearer credential used for remote github.com documents.
func WithToken(token string) StoreOption {
	return func(s *Store) {
		s.token = token
	}
}

// NewStore creates a Store for the given document location.
func NewStore(fs filesystem.FileSystem, path string, options ...StoreOption) *Store {
	s := &Store{
		fs:         fs,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		path:       path,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// IsRemote reports whether the document lives behind an http(s) URL.
func (s *Store) IsRemote() bool {
	return strings.HasPrefix(s.path, "http://") || strings.HasPrefix(s.path, "https://")
}

// Load reads and validates the configuration document. A missing local
// file yields an empty snapshot: the tool works before any profile has
// been configured. Schema violations return ErrConfigMalformed.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	var data []byte

	if s.IsRemote() {
		remote, err := s.fetchRemote(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load remote configuration %s: %w", s.path, err)
		}
		data = remote
	} else {
		if !s.fs.Exists(s.path) {
			return NewSnapshot(), nil
		}
		local, err := s.fs.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration %s: %w", s.path, err)
		}
		data = local
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return NewSnapshot(), nil
	}

	snapshot := NewSnapshot()
	if err := yaml.Unmarshal(data, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Save persists a snapshot to the local document. Remote documents
// cannot be written.
func (s *Store) Save(snapshot *Snapshot) error {
	if s.IsRemote() {
		return fmt.Errorf("remote configuration %s is read-only", s.path)
	}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	if err := s.fs.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.path, nil)
	if err != nil {
		return nil, err
	}
	if s.token != "" && strings.Contains(s.path, "github.com") {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
