package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

// EnrichWithExamples re-prompts the completion service to weave
// repository-specific examples into already-generated prose. Any failure
// falls back to the original content so a section is never lost to
// enrichment.
func (s *Service) EnrichWithExamples(ctx context.Context, content string, analysis *models.RepositoryAnalysisContext) string {
	if strings.TrimSpace(content) == "" || analysis == nil {
		return content
	}

	prompt := buildEnrichmentPrompt(content, analysis)
	enriched, err := s.completions.Complete(ctx, interfaces.CompletionRequest{
		Prompt:            prompt,
		SystemInstruction: systemInstruction,
		MaxTokens:         s.config.MaxTokensPerSection,
		Temperature:       s.config.Temperature,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Enrichment failed, keeping original content")
		return content
	}
	if strings.TrimSpace(enriched) == "" {
		return content
	}
	return enriched
}

func buildEnrichmentPrompt(content string, analysis *models.RepositoryAnalysisContext) string {
	var b strings.Builder
	b.WriteString("Improve the following documentation by adding concrete examples grounded in the repository's real code. ")
	b.WriteString("Keep the existing structure and facts. Do not invent APIs that are not shown.\n")
	fmt.Fprintf(&b, "\nRepository: %s/%s (%s)\n", analysis.Owner, analysis.RepositoryName, analysis.PrimaryLanguage)

	written := 0
	for _, file := range analysis.ImportantFiles {
		if written == 2 {
			break
		}
		if file.Content == "" {
			continue
		}
		fmt.Fprintf(&b, "\nExcerpt from %s:\n```%s\n%s\n```\n", file.Path, strings.ToLower(file.Language), excerptOf(file.Content))
		written++
	}

	b.WriteString("\nDocumentation to improve:\n\n")
	b.WriteString(content)
	return b.String()
}
