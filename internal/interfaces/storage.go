package interfaces

import (
	"github.com/ternarybob/repodoc/internal/models"
)

// RepositoryStore provides access to stored repository metadata.
// A nil repository with a nil error is never returned; missing entities
// surface models.ErrNotFound.
type RepositoryStore interface {
	GetByID(id string) (*models.Repository, error)
	Save(repo *models.Repository) error
	List(limit int) ([]*models.Repository, error)
}

// DocumentationStorage persists generated Documentation aggregates.
type DocumentationStorage interface {
	Save(doc *models.Documentation) error
	Get(id string) (*models.Documentation, error)
	GetByRepository(repositoryID string) ([]*models.Documentation, error)
	Delete(id string) error
}

// AnalysisCache caches RepositoryAnalysisContext values for a bounded TTL
// keyed by repository id. Entries expire implicitly; there is no explicit
// invalidation in the generation core.
type AnalysisCache interface {
	Get(repositoryID string) (*models.RepositoryAnalysisContext, bool)
	Set(repositoryID string, ctx *models.RepositoryAnalysisContext)
	Clear()
}
