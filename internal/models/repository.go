package models

import "time"

// Repository is the stored record of a source repository that documentation
// can be generated for.
type Repository struct {
	ID            string    `json:"id" badgerhold:"key"`
	Owner         string    `json:"owner" badgerhold:"index"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description,omitempty"`
	DefaultBranch string    `json:"default_branch"`
	Language      string    `json:"language,omitempty"`
	URL           string    `json:"url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
