// Package github wraps the GitHub REST API for the repository-backed
// tools: listing a repository's documentation tree, reading file
// contents and resolving the identity behind an access token. Every
// session gets its own Client carrying that user's token, so API quota
// is consumed per user, never from a shared credential.
package github

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds every API round trip.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with rate limiting and error
// mapping.
type Client struct {
	gh      *gh.Client
	limiter *RateLimiter
}

// NewClient creates a client authenticating with the given access
// token.
func NewClient(ctx context.Context, accessToken string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:      gh.NewClient(tc),
		limiter: NewRateLimiter(),
	}
}

// newClientWithGH is used by tests to inject a stub transport.
func newClientWithGH(client *gh.Client) *Client {
	return &Client{gh: client, limiter: NewRateLimiter()}
}

// wait blocks on the rate limiter before an API call.
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// update records quota headers after an API call.
func (c *Client) update(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.limiter.UpdateFromResponse(resp.Response)
}

// Repository is the subset of repository metadata the tools surface.
type Repository struct {
	FullName      string
	Description   string
	DefaultBranch string
	Language      string
	Stars         int
	Topics        []string
	URL           string
}

// GetRepository fetches repository metadata.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, c.wrapError(err, "get repository")
	}
	c.update(resp)

	return &Repository{
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		DefaultBranch: r.GetDefaultBranch(),
		Language:      r.GetLanguage(),
		Stars:         r.GetStargazersCount(),
		Topics:        r.Topics,
		URL:           r.GetHTMLURL(),
	}, nil
}

// GetReadme fetches the repository README, decoded.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	readme, resp, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		return "", c.wrapError(err, "get readme")
	}
	c.update(resp)

	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme: %w", err)
	}
	return content, nil
}

// MarkdownTree returns the paths of all markdown files on the default
// branch, sorted. One recursive git-tree call covers the whole
// repository.
func (c *Client) MarkdownTree(ctx context.Context, owner, repo string) ([]string, error) {
	repository, err := c.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	tree, resp, err := c.gh.Git.GetTree(ctx, owner, repo, repository.DefaultBranch, true)
	if err != nil {
		return nil, c.wrapError(err, "get tree")
	}
	c.update(resp)

	var paths []string
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		if isMarkdownPath(entry.GetPath()) {
			paths = append(paths, entry.GetPath())
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// isMarkdownPath reports whether path names a markdown document.
func isMarkdownPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".mdx") ||
		strings.HasSuffix(lower, ".markdown")
}

// GetFileContent fetches and decodes a file from the default branch.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	content, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return "", c.wrapError(err, "get contents")
	}
	c.update(resp)

	if content == nil {
		return "", fmt.Errorf("%s is a directory, not a file", path)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return decoded, nil
}

// SearchRepositories finds repositories matching the query, best match
// first, capped at limit.
func (c *Client) SearchRepositories(ctx context.Context, query string, limit int) ([]Repository, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: limit}}
	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, c.wrapError(err, "search repositories")
	}
	c.update(resp)

	repos := make([]Repository, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		repos = append(repos, Repository{
			FullName:      r.GetFullName(),
			Description:   r.GetDescription(),
			DefaultBranch: r.GetDefaultBranch(),
			Language:      r.GetLanguage(),
			Stars:         r.GetStargazersCount(),
			Topics:        r.Topics,
			URL:           r.GetHTMLURL(),
		})
		if len(repos) == limit {
			break
		}
	}
	return repos, nil
}

// AuthenticatedUser returns the login, display name and public email of
// the token's account.
func (c *Client) AuthenticatedUser(ctx context.Context) (login, name, email string, err error) {
	if err := c.wait(ctx); err != nil {
		return "", "", "", err
	}

	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", "", "", c.wrapError(err, "get authenticated user")
	}
	c.update(resp)

	return user.GetLogin(), user.GetName(), user.GetEmail(), nil
}

// IdentityService resolves identities for the authorization flow,
// creating a short-lived client per lookup.
type IdentityService struct{}

// AuthenticatedUser fetches the account behind accessToken.
func (IdentityService) AuthenticatedUser(ctx context.Context, accessToken string) (login, name, email string, err error) {
	return NewClient(ctx, accessToken).AuthenticatedUser(ctx)
}
