package interfaces

import (
	"context"

	"github.com/ternarybob/repodoc/internal/models"
)

// AnalyzerService builds the grounded analysis context for a repository.
// Fails with models.ErrNotFound when the repository is unknown and
// models.ErrEmptyRepository when the tree contains no files.
type AnalyzerService interface {
	Analyze(ctx context.Context, repositoryID string) (*models.RepositoryAnalysisContext, error)
}

// SummarizerService extracts deterministic, language-aware summaries from
// file content. All methods are pure with respect to their inputs: two
// identical calls produce identical results.
type SummarizerService interface {
	SummarizeCode(path, content string) models.ContentSummary
	SummarizePurpose(readmeContent string) models.ProjectPurpose
	SummarizeConfig(path, content string) string
}

// GenerationOptions carries caller-supplied knobs for one generation request.
type GenerationOptions struct {
	RequestedSections  []models.SectionType
	CustomInstructions string
}

// GeneratorService orchestrates section generation and owns the
// Documentation aggregate's lifecycle for the duration of a request.
type GeneratorService interface {
	// GenerateDocumentation runs the full pipeline for one repository.
	GenerateDocumentation(ctx context.Context, repositoryID string, opts GenerationOptions) (*models.Documentation, error)

	// GenerateSection builds and executes the prompt for a single section.
	GenerateSection(ctx context.Context, analysis *models.RepositoryAnalysisContext, sectionType models.SectionType, customInstructions string) (*models.DocumentationSection, error)

	// ExtractCodeReferences pulls deduplicated code references out of
	// generated content.
	ExtractCodeReferences(content string, analysis *models.RepositoryAnalysisContext) []models.CodeReference

	// EnrichWithExamples re-prompts the completion service to inject
	// repository-specific examples into existing prose. Falls back to the
	// original content on failure.
	EnrichWithExamples(ctx context.Context, content string, analysis *models.RepositoryAnalysisContext) string

	// ValidateQuality scores a generated document in [0,1].
	ValidateQuality(doc *models.Documentation, analysis *models.RepositoryAnalysisContext) float64
}
