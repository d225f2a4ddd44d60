package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/repodoc/internal/models"
)

// RepositoryInfo is the source host's view of a repository.
type RepositoryInfo struct {
	Owner         string
	Name          string
	FullName      string
	Description   string
	DefaultBranch string
	Language      string
	URL           string
}

// BranchInfo describes one branch of a repository.
type BranchInfo struct {
	Name      string
	CommitSHA string
	Protected bool
}

// CommitInfo describes one commit from the repository history.
type CommitInfo struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
}

// GitClient is the read-only source-hosting collaborator. Implementations
// wrap the hosting provider's API; the generation pipeline only depends on
// this data contract.
type GitClient interface {
	GetRepository(ctx context.Context, owner, name string) (*RepositoryInfo, error)
	GetBranches(ctx context.Context, owner, name string) ([]BranchInfo, error)
	GetCommitHistory(ctx context.Context, owner, name, branch string, limit int) ([]CommitInfo, error)

	// GetTreeWithMetadata returns the recursive file tree of the given branch.
	GetTreeWithMetadata(ctx context.Context, owner, name, branch string, recursive bool) ([]models.TreeEntry, error)

	// GetFileContent returns the decoded text content of a file at ref.
	GetFileContent(ctx context.Context, owner, name, path, ref string) (string, error)
}
