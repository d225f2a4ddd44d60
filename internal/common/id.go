package common

import (
	"github.com/google/uuid"
)

// NewDocumentationID generates a unique documentation ID.
// Format: doc_<uuid>
func NewDocumentationID() string {
	return "doc_" + uuid.New().String()
}

// NewRepositoryID generates a unique repository ID.
// Format: repo_<uuid>
func NewRepositoryID() string {
	return "repo_" + uuid.New().String()
}
