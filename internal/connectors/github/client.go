// -----------------------------------------------------------------------
// GitHub source-hosting client
//
// Read-only wrapper around the GitHub API implementing the GitClient
// contract. Outbound calls pass through a politeness limiter so repository
// analysis cannot hammer the API.
// -----------------------------------------------------------------------

package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/ternarybob/repodoc/internal/common"
	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

// Client implements interfaces.GitClient against the GitHub API.
type Client struct {
	client  *github.Client
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// Compile-time assertion: Client implements GitClient.
var _ interfaces.GitClient = (*Client)(nil)

// NewClient creates a GitHub client. An empty token yields an
// unauthenticated client subject to GitHub's anonymous rate limits.
func NewClient(config *common.GitHubConfig, logger arbor.ILogger) *Client {
	var httpClient *http.Client
	if config.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		client:  github.NewClient(httpClient),
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
		logger:  logger,
	}
}

// GetRepository fetches repository metadata from the source host.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*interfaces.RepositoryInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	repo, resp, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("repository %s/%s: %w", owner, name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}

	return &interfaces.RepositoryInfo{
		Owner:         owner,
		Name:          name,
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Language:      repo.GetLanguage(),
		URL:           repo.GetHTMLURL(),
	}, nil
}

// GetBranches returns all branches for a repository.
func (c *Client) GetBranches(ctx context.Context, owner, name string) ([]interfaces.BranchInfo, error) {
	var all []interfaces.BranchInfo

	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		branches, resp, err := c.client.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches: %w", err)
		}
		for _, b := range branches {
			branch := interfaces.BranchInfo{
				Name:      b.GetName(),
				Protected: b.GetProtected(),
			}
			if b.Commit != nil {
				branch.CommitSHA = b.Commit.GetSHA()
			}
			all = append(all, branch)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// GetCommitHistory returns up to limit commits for the given branch.
func (c *Client) GetCommitHistory(ctx context.Context, owner, name, branch string, limit int) ([]interfaces.CommitInfo, error) {
	if limit <= 0 {
		limit = 30
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: min(limit, 100)},
	}
	commits, _, err := c.client.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}

	var result []interfaces.CommitInfo
	for _, commit := range commits {
		if len(result) >= limit {
			break
		}
		info := interfaces.CommitInfo{
			SHA: commit.GetSHA(),
		}
		if detail := commit.GetCommit(); detail != nil {
			info.Message = detail.GetMessage()
			if author := detail.GetAuthor(); author != nil {
				info.Author = author.GetName()
				info.Date = author.GetDate().Time
			}
		}
		result = append(result, info)
	}

	return result, nil
}

// GetTreeWithMetadata returns the recursive file tree of the given branch.
// Only blob entries are returned; directories and submodules are skipped.
func (c *Client) GetTreeWithMetadata(ctx context.Context, owner, name, branch string, recursive bool) ([]models.TreeEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tree, resp, err := c.client.Git.GetTree(ctx, owner, name, branch, recursive)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("tree for %s/%s@%s: %w", owner, name, branch, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	entries := make([]models.TreeEntry, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		entries = append(entries, models.TreeEntry{
			Path: entry.GetPath(),
			Type: entry.GetType(),
			Size: entry.GetSize(),
		})
	}

	return entries, nil
}

// GetFileContent fetches and decodes the content of a single file at ref.
func (c *Client) GetFileContent(ctx context.Context, owner, name, path, ref string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	content, _, resp, err := c.client.Repositories.GetContents(ctx, owner, name, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("file %s: %w", path, models.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get file content for %s: %w", path, err)
	}
	if content == nil {
		return "", fmt.Errorf("file %s: %w", path, models.ErrNotFound)
	}

	// GetContent honors the response's Encoding field, so non-base64
	// payloads decode correctly too.
	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode content of %s: %w", path, err)
	}
	return decoded, nil
}
