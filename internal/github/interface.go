package github

import (
	"context"
	"errors"
	"fmt"
)

// ErrCredentialRequired marks provider responses that indicate a private
// source was accessed without a usable credential. Callers distinguish it
// from generic fetch failures so they can prompt for a token.
var ErrCredentialRequired = errors.New("credential required for private source access")

// ErrTreeTruncated marks a tree enumeration the provider could not return
// completely. Expansion must fail the whole repository source rather than
// silently work with a truncated listing.
var ErrTreeTruncated = errors.New("repository tree listing is truncated")

// GitHubClient provides an abstraction over the provider operations the
// resolution engine needs: tree enumeration for wildcard expansion.
// Raw file content is fetched over the raw-content URL by the pipeline.
type GitHubClient interface {
	// ListTree enumerates all blob (file) paths of a repository at the
	// given branch. It returns ErrTreeTruncated when the provider cannot
	// deliver the complete tree.
	ListTree(ctx context.Context, owner, repo, branch string) ([]string, error)
}

// RawContentURL builds the raw-content URL for a repository file.
func RawContentURL(repo, branch, path string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", repo, branch, path)
}
