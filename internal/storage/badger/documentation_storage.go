package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

// DocumentationStorage implements the DocumentationStorage interface for
// Badger.
type DocumentationStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentationStorage creates a new DocumentationStorage instance.
func NewDocumentationStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentationStorage {
	return &DocumentationStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentationStorage) Save(doc *models.Documentation) error {
	if doc.ID == "" {
		return fmt.Errorf("documentation ID is required")
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to save documentation: %w", err)
	}
	return nil
}

func (s *DocumentationStorage) Get(id string) (*models.Documentation, error) {
	var doc models.Documentation
	if err := s.db.Store().Get(id, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("documentation %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get documentation: %w", err)
	}
	return &doc, nil
}

func (s *DocumentationStorage) GetByRepository(repositoryID string) ([]*models.Documentation, error) {
	var docs []models.Documentation
	err := s.db.Store().Find(&docs, badgerhold.Where("RepositoryID").Eq(repositoryID).Index("RepositoryID"))
	if err != nil {
		return nil, fmt.Errorf("failed to find documentation for repository %s: %w", repositoryID, err)
	}

	result := make([]*models.Documentation, len(docs))
	for i := range docs {
		result[i] = &docs[i]
	}
	return result, nil
}

func (s *DocumentationStorage) Delete(id string) error {
	if err := s.db.Store().Delete(id, &models.Documentation{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete documentation: %w", err)
	}
	return nil
}
