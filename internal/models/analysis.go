package models

import (
	"sort"
	"time"
)

// TreeEntry is a single blob in a repository tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

// ProjectStructureAnalysis summarizes the layout of a repository tree after
// noise filtering.
type ProjectStructureAnalysis struct {
	TotalFiles         int               `json:"total_files"`
	TotalSizeBytes     int64             `json:"total_size_bytes"`
	ProjectType        string            `json:"project_type"`
	Frameworks         []string          `json:"frameworks,omitempty"`
	DirectoryPurposes  map[string]string `json:"directory_purposes,omitempty"`
	EntryPoints        []string          `json:"entry_points,omitempty"`
	TestFiles          []string          `json:"test_files,omitempty"`
	DocumentationFiles []string          `json:"documentation_files,omitempty"`
	ConfigFiles        []string          `json:"config_files,omitempty"`
}

// DependencyInfo is one declared dependency from a package manifest.
type DependencyInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	Ecosystem string `json:"ecosystem"`
	Purpose   string `json:"purpose,omitempty"`
	IsDirect  bool   `json:"is_direct"`
}

// FileAnalysis holds the importance ranking and summary of one repository
// file. Content is populated only for files selected for deep analysis.
type FileAnalysis struct {
	Path            string   `json:"path"`
	Language        string   `json:"language,omitempty"`
	ImportanceScore float64  `json:"importance_score"`
	Purpose         string   `json:"purpose,omitempty"`
	KeyConcepts     []string `json:"key_concepts,omitempty"`
	Content         string   `json:"-"`
}

// ArchitecturalPatterns captures the structural signals detected across a
// repository: styles implied by frameworks, design patterns matched in
// source and quality indicators derived from the tree.
type ArchitecturalPatterns struct {
	Styles            []string `json:"styles,omitempty"`
	Explanations      []string `json:"explanations,omitempty"`
	DesignPatterns    []string `json:"design_patterns,omitempty"`
	Paradigms         []string `json:"paradigms,omitempty"`
	QualityIndicators []string `json:"quality_indicators,omitempty"`
}

// ProjectPurpose is the deterministic reading of a repository README.
type ProjectPurpose struct {
	Description         string   `json:"description,omitempty"`
	BusinessDomain      string   `json:"business_domain,omitempty"`
	KeyFeatures         []string `json:"key_features,omitempty"`
	TechnicalHighlights []string `json:"technical_highlights,omitempty"`
	UserValue           string   `json:"user_value,omitempty"`
}

// ContentSummary is the deterministic summary of one source file.
type ContentSummary struct {
	FunctionalityDescription string   `json:"functionality_description"`
	CodeSnippet              string   `json:"code_snippet,omitempty"`
	KeyFunctions             []string `json:"key_functions,omitempty"`
	Imports                  []string `json:"imports,omitempty"`
}

// CommitSummary is one recent commit included in the analysis context.
type CommitSummary struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author,omitempty"`
	Date    time.Time `json:"date"`
}

// RepositoryAnalysisContext is the complete grounding context a generation
// request runs against. It is built once per repository and cached.
type RepositoryAnalysisContext struct {
	RepositoryID    string                   `json:"repository_id"`
	RepositoryName  string                   `json:"repository_name"`
	Owner           string                   `json:"owner"`
	PrimaryLanguage string                   `json:"primary_language,omitempty"`
	Languages       []string                 `json:"languages,omitempty"`
	Structure       ProjectStructureAnalysis `json:"structure"`
	Dependencies    []DependencyInfo         `json:"dependencies,omitempty"`
	ImportantFiles  []FileAnalysis           `json:"important_files,omitempty"`
	Patterns        ArchitecturalPatterns    `json:"patterns"`
	Purpose         ProjectPurpose           `json:"purpose"`
	Components      map[string]string        `json:"components,omitempty"`
	RecentCommits   []CommitSummary          `json:"recent_commits,omitempty"`
	AnalyzedAt      time.Time                `json:"analyzed_at"`
}

// TopDependencies returns up to max dependencies, direct dependencies first,
// each group sorted by name.
func (c *RepositoryAnalysisContext) TopDependencies(max int) []DependencyInfo {
	deps := make([]DependencyInfo, len(c.Dependencies))
	copy(deps, c.Dependencies)
	sort.SliceStable(deps, func(i, j int) bool {
		if deps[i].IsDirect != deps[j].IsDirect {
			return deps[i].IsDirect
		}
		return deps[i].Name < deps[j].Name
	})
	if max > 0 && len(deps) > max {
		deps = deps[:max]
	}
	return deps
}
