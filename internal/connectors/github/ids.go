package github

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// ResourceKind classifies what a fetch id points at.
type ResourceKind int

const (
	// KindDocument is a corpus document id (no recognized prefix).
	KindDocument ResourceKind = iota

	// KindRepo is a repository id, "repo:<owner>/<name>".
	KindRepo

	// KindFile is a file id, "file:<owner>:<name>:<path>".
	KindFile
)

// ResourceID is a parsed fetch id.
type ResourceID struct {
	Kind  ResourceKind
	Owner string
	Repo  string
	Path  string
}

// ParseID classifies a fetch id. Ids without a repo: or file: prefix
// are corpus documents and pass through untouched; prefixed ids that do
// not match their shape are invalid input.
func ParseID(id string) (ResourceID, error) {
	switch {
	case strings.HasPrefix(id, "repo:"):
		rest := strings.TrimPrefix(id, "repo:")
		owner, repo, ok := strings.Cut(rest, "/")
		if !ok || owner == "" || repo == "" {
			return ResourceID{}, fmt.Errorf("%w: repo id must be repo:<owner>/<name>", domain.ErrInvalidInput)
		}
		return ResourceID{Kind: KindRepo, Owner: owner, Repo: repo}, nil

	case strings.HasPrefix(id, "file:"):
		rest := strings.TrimPrefix(id, "file:")
		parts := strings.SplitN(rest, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return ResourceID{}, fmt.Errorf("%w: file id must be file:<owner>:<name>:<path>", domain.ErrInvalidInput)
		}
		return ResourceID{Kind: KindFile, Owner: parts[0], Repo: parts[1], Path: parts[2]}, nil

	default:
		return ResourceID{Kind: KindDocument}, nil
	}
}

// RepoID builds the fetch id for a repository.
func RepoID(owner, repo string) string {
	return fmt.Sprintf("repo:%s/%s", owner, repo)
}

// FileID builds the fetch id for a file.
func FileID(owner, repo, path string) string {
	return fmt.Sprintf("file:%s:%s:%s", owner, repo, path)
}
