// -----------------------------------------------------------------------
// Section generation orchestrator
//
// Owns the Documentation aggregate for the duration of one request: runs
// the analysis engine, fans section generation out in parallel through the
// rate-limited completion client, isolates per-section failures as degraded
// sections and assembles the result in canonical order.
// -----------------------------------------------------------------------

package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/repodoc/internal/common"
	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

// Service implements the GeneratorService contract.
type Service struct {
	analyzer    interfaces.AnalyzerService
	completions interfaces.CompletionService
	docs        interfaces.DocumentationStorage
	config      common.GenerationConfig
	modelName   string
	logger      arbor.ILogger
}

var _ interfaces.GeneratorService = (*Service)(nil)

// NewService creates the generation orchestrator. The documentation store
// may be nil, in which case results are returned without persistence.
func NewService(
	analyzer interfaces.AnalyzerService,
	completions interfaces.CompletionService,
	docs interfaces.DocumentationStorage,
	config common.GenerationConfig,
	modelName string,
	logger arbor.ILogger,
) *Service {
	return &Service{
		analyzer:    analyzer,
		completions: completions,
		docs:        docs,
		config:      config,
		modelName:   modelName,
		logger:      logger,
	}
}

// GenerateDocumentation runs the full pipeline for one repository.
//
// Request-level failures (unknown repository, empty repository, quota
// exhaustion) abort the whole request. A single section's failure does not:
// its slot is filled with a degraded section and generation continues.
func (s *Service) GenerateDocumentation(ctx context.Context, repositoryID string, opts interfaces.GenerationOptions) (*models.Documentation, error) {
	started := time.Now()

	analysis, err := s.analyzer.Analyze(ctx, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("analysis failed for repository %s: %w", repositoryID, err)
	}

	sectionTypes := opts.RequestedSections
	if len(sectionTypes) == 0 {
		sectionTypes = models.DefaultSectionTypes()
	}

	doc := models.NewDocumentation(
		common.NewDocumentationID(),
		repositoryID,
		fmt.Sprintf("%s Documentation", analysis.RepositoryName),
	)
	doc.Metadata = models.DocumentationMetadata{
		Languages:       analysis.Languages,
		Frameworks:      analysis.Structure.Frameworks,
		TopDependencies: analysis.TopDependencies(maxPromptDependencies),
	}

	if err := doc.Advance(models.StatusGeneratingContent); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("documentation_id", doc.ID).
		Str("repository_id", repositoryID).
		Int("sections", len(sectionTypes)).
		Msg("Generating documentation sections")

	sections := s.generateSections(ctx, analysis, sectionTypes, opts.CustomInstructions)
	for _, section := range sections {
		if err := doc.AddSection(section); err != nil {
			return nil, err
		}
	}

	if err := doc.Advance(models.StatusEnriching); err != nil {
		return nil, err
	}
	if err := doc.Advance(models.StatusIndexing); err != nil {
		return nil, err
	}

	doc.SetStatistics(s.buildStatistics(doc, analysis, time.Since(started)))

	if err := doc.Advance(models.StatusGenerated); err != nil {
		return nil, err
	}

	if s.docs != nil {
		if err := s.docs.Save(doc); err != nil {
			return nil, fmt.Errorf("failed to persist documentation %s: %w", doc.ID, err)
		}
	}

	s.logger.Info().
		Str("documentation_id", doc.ID).
		Int("sections", doc.Statistics.TotalSections).
		Int("degraded", doc.Statistics.DegradedSections).
		Dur("duration", time.Since(started)).
		Msg("Documentation generated")

	return doc, nil
}

// generateSections fans one task out per section type and waits for all of
// them. Each task resolves to either a normal or a degraded section; the
// join is never fail-fast.
func (s *Service) generateSections(ctx context.Context, analysis *models.RepositoryAnalysisContext, sectionTypes []models.SectionType, customInstructions string) []models.DocumentationSection {
	results := make([]models.DocumentationSection, len(sectionTypes))

	var wg sync.WaitGroup
	for i, sectionType := range sectionTypes {
		wg.Add(1)
		go func(i int, sectionType models.SectionType) {
			defer wg.Done()

			section, err := s.GenerateSection(ctx, analysis, sectionType, customInstructions)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("section", string(sectionType)).
					Msg("Section generation failed, recording degraded section")
				results[i] = degradedSection(sectionType, err)
				return
			}
			results[i] = *section
		}(i, sectionType)
	}
	wg.Wait()

	return results
}

// GenerateSection builds and executes the prompt for a single section.
func (s *Service) GenerateSection(ctx context.Context, analysis *models.RepositoryAnalysisContext, sectionType models.SectionType, customInstructions string) (*models.DocumentationSection, error) {
	prompt := buildSectionPrompt(analysis, sectionType, customInstructions, s.config.LanguageInstructions)

	content, err := s.completions.Complete(ctx, interfaces.CompletionRequest{
		Prompt:            prompt,
		SystemInstruction: systemInstruction,
		MaxTokens:         s.config.MaxTokensPerSection,
		Temperature:       s.config.Temperature,
	})
	if err != nil {
		return nil, &models.SectionError{SectionType: sectionType, Err: err}
	}

	section := &models.DocumentationSection{
		Type:    sectionType,
		Title:   models.SectionTitle(sectionType),
		Content: content,
		Order:   models.CanonicalOrder(sectionType),
		Tags:    sectionTags(sectionType, analysis),
		Metadata: models.SectionMetadata{
			Model:           s.modelName,
			EstimatedTokens: s.completions.EstimateTokens(prompt + content),
			Confidence:      defaultConfidence,
			GeneratedAt:     time.Now().UTC(),
		},
	}

	if s.config.EnableCodeExtraction {
		section.CodeReferences = extractCodeReferences(content, analysis)
	}

	return section, nil
}

// ExtractCodeReferences pulls deduplicated code references out of generated
// content.
func (s *Service) ExtractCodeReferences(content string, analysis *models.RepositoryAnalysisContext) []models.CodeReference {
	return extractCodeReferences(content, analysis)
}

// ValidateQuality scores a generated document in [0,1].
func (s *Service) ValidateQuality(doc *models.Documentation, analysis *models.RepositoryAnalysisContext) float64 {
	return s.scoreQuality(doc, analysis)
}

// degradedSection fills a failed section's slot with an explanatory
// placeholder so the document keeps its requested shape.
func degradedSection(sectionType models.SectionType, cause error) models.DocumentationSection {
	return models.DocumentationSection{
		Type:          sectionType,
		Title:         models.SectionTitle(sectionType),
		Content:       fmt.Sprintf("This section could not be generated: %v", cause),
		Order:         models.CanonicalOrder(sectionType),
		Degraded:      true,
		FailureReason: cause.Error(),
		Metadata: models.SectionMetadata{
			GeneratedAt: time.Now().UTC(),
		},
	}
}

// sectionTags labels a section with its type plus the repository's salient
// technology facts.
func sectionTags(sectionType models.SectionType, analysis *models.RepositoryAnalysisContext) []string {
	tags := []string{string(sectionType)}
	if analysis.PrimaryLanguage != "" {
		tags = append(tags, strings.ToLower(analysis.PrimaryLanguage))
	}
	if analysis.Structure.ProjectType != "" && analysis.Structure.ProjectType != "Unknown" {
		tags = append(tags, strings.ToLower(analysis.Structure.ProjectType))
	}
	for _, framework := range analysis.Structure.Frameworks {
		tags = append(tags, strings.ToLower(framework))
	}
	return tags
}

// buildStatistics aggregates counts over the assembled document.
func (s *Service) buildStatistics(doc *models.Documentation, analysis *models.RepositoryAnalysisContext, elapsed time.Duration) models.DocumentationStatistics {
	stats := models.DocumentationStatistics{
		TotalSections:  len(doc.Sections),
		GenerationTime: elapsed.Round(time.Millisecond).String(),
	}

	seenTopics := make(map[string]bool)
	for _, section := range doc.Sections {
		if section.Degraded {
			stats.DegradedSections++
		}
		stats.TotalWords += len(strings.Fields(section.Content))
		stats.CodeReferences += len(section.CodeReferences)
		for _, tag := range section.Tags {
			if !seenTopics[tag] {
				seenTopics[tag] = true
				stats.CoveredTopics = append(stats.CoveredTopics, tag)
			}
		}
	}

	if s.config.EnableQualityValidation {
		stats.QualityScore = s.scoreQuality(doc, analysis)
	} else {
		stats.QualityScore = defaultConfidence
	}

	return stats
}
