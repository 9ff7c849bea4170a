package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client implements GitHubClient using the real GitHub API
type Client struct {
	client *github.Client
	hasTok bool
}

// NewClient creates a new GitHub API client
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		hasTok: true,
	}
}

// NewClientWithoutAuth creates a GitHub client without authentication.
// Public repositories remain accessible; private ones fail with
// ErrCredentialRequired.
func NewClientWithoutAuth() *Client {
	return &Client{
		client: github.NewClient(nil),
	}
}

// NewClientFromEnv creates a client using GH_TOKEN or GITHUB_TOKEN when
// present, falling back to unauthenticated access.
func NewClientFromEnv(token string) *Client {
	if token == "" {
		return NewClientWithoutAuth()
	}
	return NewClient(token)
}

func (c *Client) ListTree(ctx context.Context, owner, repo, branch string) ([]string, error) {
	tree, _, err := c.client.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		return nil, c.classifyError(owner, repo, err)
	}

	if tree.GetTruncated() {
		return nil, fmt.Errorf("tree of %s/%s@%s: %w", owner, repo, branch, ErrTreeTruncated)
	}

	paths := make([]string, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" {
			paths = append(paths, entry.GetPath())
		}
	}
	return paths, nil
}

// classifyError maps provider auth failures onto ErrCredentialRequired.
// GitHub answers 404 for private repositories queried without credentials,
// so an unauthenticated 404 is treated as possibly-private.
func (c *Client) classifyError(owner, repo string, err error) error {
	resp, ok := err.(*github.ErrorResponse)
	if !ok {
		return fmt.Errorf("failed to enumerate tree of %s/%s: %w", owner, repo, err)
	}

	switch resp.Response.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s/%s: %w", owner, repo, ErrCredentialRequired)
	case http.StatusNotFound:
		if !c.hasTok {
			return fmt.Errorf("%s/%s not found without credentials (may be private): %w",
				owner, repo, ErrCredentialRequired)
		}
	}
	return fmt.Errorf("failed to enumerate tree of %s/%s: %w", owner, repo, err)
}
