package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

// RepositoryStorage implements the RepositoryStore interface for Badger.
type RepositoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRepositoryStorage creates a new RepositoryStorage instance.
func NewRepositoryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RepositoryStore {
	return &RepositoryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *RepositoryStorage) GetByID(id string) (*models.Repository, error) {
	var repo models.Repository
	if err := s.db.Store().Get(id, &repo); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("repository %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return &repo, nil
}

func (s *RepositoryStorage) Save(repo *models.Repository) error {
	if repo.ID == "" {
		return fmt.Errorf("repository ID is required")
	}

	now := time.Now().UTC()
	if repo.CreatedAt.IsZero() {
		repo.CreatedAt = now
	}
	repo.UpdatedAt = now

	if err := s.db.Store().Upsert(repo.ID, repo); err != nil {
		return fmt.Errorf("failed to save repository: %w", err)
	}
	return nil
}

func (s *RepositoryStorage) List(limit int) ([]*models.Repository, error) {
	var repos []models.Repository
	query := &badgerhold.Query{}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&repos, query); err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	result := make([]*models.Repository, len(repos))
	for i := range repos {
		result[i] = &repos[i]
	}
	return result, nil
}
