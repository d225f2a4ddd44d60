package generator

import (
	"strings"

	"github.com/ternarybob/repodoc/internal/models"
)

// defaultConfidence is the placeholder score recorded when quality
// validation is disabled. It is a deliberate stand-in, not a measured
// accuracy guarantee.
const defaultConfidence = 0.85

// conservativeScore is returned when validation itself fails.
const conservativeScore = 0.5

// requiredSections must be present for a document to count as complete.
var requiredSections = []models.SectionType{
	models.SectionOverview,
	models.SectionInstallation,
	models.SectionUsage,
}

// scoreQuality rates a document in [0,1] as the average of completeness,
// relevance and structure. Never returns an error: an unusable input maps
// to a conservative default score instead.
func (s *Service) scoreQuality(doc *models.Documentation, analysis *models.RepositoryAnalysisContext) float64 {
	if doc == nil || analysis == nil || len(doc.Sections) == 0 {
		return conservativeScore
	}
	return (s.scoreCompleteness(doc) + s.scoreRelevance(doc, analysis) + s.scoreStructure(doc)) / 3
}

// scoreCompleteness checks required-section coverage plus how close the
// section count is to the full canonical set.
func (s *Service) scoreCompleteness(doc *models.Documentation) float64 {
	present := make(map[models.SectionType]bool, len(doc.Sections))
	for _, section := range doc.Sections {
		if !section.Degraded {
			present[section.Type] = true
		}
	}

	covered := 0
	for _, required := range requiredSections {
		if present[required] {
			covered++
		}
	}
	requiredScore := float64(covered) / float64(len(requiredSections))

	countRatio := float64(len(present)) / float64(len(models.DefaultSectionTypes()))
	if countRatio > 1 {
		countRatio = 1
	}

	return (requiredScore + countRatio) / 2
}

// scoreRelevance measures how many repository facts the combined content
// actually mentions.
func (s *Service) scoreRelevance(doc *models.Documentation, analysis *models.RepositoryAnalysisContext) float64 {
	var combined strings.Builder
	for _, section := range doc.Sections {
		combined.WriteString(strings.ToLower(section.Content))
		combined.WriteString("\n")
	}
	content := combined.String()

	checks := 0
	hits := 0

	check := func(term string) {
		checks++
		if term != "" && strings.Contains(content, strings.ToLower(term)) {
			hits++
		}
	}

	check(analysis.PrimaryLanguage)
	check(analysis.Structure.ProjectType)
	check(analysis.RepositoryName)

	checks++
	for _, framework := range analysis.Structure.Frameworks {
		if strings.Contains(content, strings.ToLower(framework)) {
			hits++
			break
		}
	}
	if len(analysis.Structure.Frameworks) == 0 {
		hits++ // nothing to mention
	}

	return float64(hits) / float64(checks)
}

// scoreStructure checks section lengths against the configured band, the
// presence of at least one code reference and correct canonical ordering.
func (s *Service) scoreStructure(doc *models.Documentation) float64 {
	inBand := 0
	hasCodeRef := false
	ordered := true

	previousOrder := -1
	for _, section := range doc.Sections {
		length := len(section.Content)
		if length >= s.config.MinContentLength && length <= s.config.MaxContentLength {
			inBand++
		}
		if len(section.CodeReferences) > 0 {
			hasCodeRef = true
		}
		if section.Order < previousOrder {
			ordered = false
		}
		previousOrder = section.Order
	}

	score := float64(inBand) / float64(len(doc.Sections))
	if hasCodeRef {
		score += 1
	}
	if ordered {
		score += 1
	}
	return score / 3
}
