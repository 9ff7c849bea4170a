package github

import (
	"context"
	"fmt"
	"sync"
)

// MockClient implements GitHubClient for testing
type MockClient struct {
	mu    sync.RWMutex
	trees map[string][]string // key: "owner/repo@branch"

	// Hooks for testing error scenarios
	ListTreeError error
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{
		trees: make(map[string][]string),
	}
}

// SetTree registers the blob paths of a repository tree
func (m *MockClient) SetTree(owner, repo, branch string, paths []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s/%s@%s", owner, repo, branch)
	m.trees[key] = append([]string{}, paths...)
}

func (m *MockClient) ListTree(ctx context.Context, owner, repo, branch string) ([]string, error) {
	if m.ListTreeError != nil {
		return nil, m.ListTreeError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fmt.Sprintf("%s/%s@%s", owner, repo, branch)
	paths, exists := m.trees[key]
	if !exists {
		return nil, fmt.Errorf("no tree found for %s", key)
	}
	return append([]string{}, paths...), nil
}
