// -----------------------------------------------------------------------
// Architectural pattern heuristics
//
// Framework presence implies architectural styles; important-file content
// is scanned against a (pattern, label) table for design patterns. All
// results are deduplicated and order-stable.
// -----------------------------------------------------------------------

package analyzer

import (
	"regexp"
	"strings"

	"github.com/ternarybob/repodoc/internal/models"
)

// frameworkStyles maps a framework to the architectural styles it implies.
var frameworkStyles = map[string][]string{
	"Express":       {"MVC", "REST API"},
	"Fastify":       {"REST API"},
	"NestJS":        {"MVC", "REST API", "Dependency injection"},
	"Django":        {"MVC", "REST API"},
	"Flask":         {"REST API"},
	"FastAPI":       {"REST API"},
	"Ruby on Rails": {"MVC", "REST API"},
	"Spring Boot":   {"MVC", "REST API", "Dependency injection"},
	"Gin":           {"REST API"},
	"Echo":          {"REST API"},
	"Chi":           {"REST API"},
	"Fiber":         {"REST API"},
	"React":         {"Component-based architecture"},
	"Vue":           {"Component-based architecture"},
	"Angular":       {"Component-based architecture", "Dependency injection"},
	"Svelte":        {"Component-based architecture"},
	"Next.js":       {"Component-based architecture", "Server-side rendering"},
	"Cobra":         {"Command pattern"},
}

// designPatternSignals is the (pattern, label) table scanned over
// important-file content.
var designPatternSignals = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)\b\w*factory\w*\b`), "Factory"},
	{regexp.MustCompile(`(?i)\bsingleton\b|getInstance\s*\(`), "Singleton"},
	{regexp.MustCompile(`(?i)\b(observer|subscribe|addListener|emit)\b`), "Observer"},
	{regexp.MustCompile(`(?i)\b\w*strategy\w*\b`), "Strategy"},
	{regexp.MustCompile(`(?i)\b(interface|abstract class)\b`), "Interface-based design"},
	{regexp.MustCompile(`(?i)\b\w*(repository|store)\b`), "Repository"},
	{regexp.MustCompile(`(?i)\b\w*builder\b`), "Builder"},
	{regexp.MustCompile(`(?i)\b(middleware|decorator)\b`), "Decorator"},
}

// languageParadigms maps a primary language to its dominant paradigms.
var languageParadigms = map[string][]string{
	"Go":         {"Procedural", "Concurrent"},
	"JavaScript": {"Event-driven", "Functional"},
	"TypeScript": {"Object-oriented", "Functional"},
	"Python":     {"Object-oriented", "Scripting"},
	"Java":       {"Object-oriented"},
	"C#":         {"Object-oriented"},
	"Ruby":       {"Object-oriented"},
	"Rust":       {"Systems", "Functional"},
	"C":          {"Procedural"},
	"C++":        {"Object-oriented", "Systems"},
}

// derivePatterns builds the architectural signal summary from detected
// frameworks, the primary language, the structure and important-file content.
func derivePatterns(frameworks []string, primaryLanguage string, structure models.ProjectStructureAnalysis, importantFiles []models.FileAnalysis) models.ArchitecturalPatterns {
	patterns := models.ArchitecturalPatterns{}
	seenStyle := make(map[string]bool)
	seenPattern := make(map[string]bool)

	for _, framework := range frameworks {
		for _, style := range frameworkStyles[framework] {
			if !seenStyle[style] {
				seenStyle[style] = true
				patterns.Styles = append(patterns.Styles, style)
				patterns.Explanations = append(patterns.Explanations, style+" implied by "+framework)
			}
		}
	}

	for _, file := range importantFiles {
		if file.Content == "" {
			continue
		}
		for _, signal := range designPatternSignals {
			if !seenPattern[signal.label] && signal.re.MatchString(file.Content) {
				seenPattern[signal.label] = true
				patterns.DesignPatterns = append(patterns.DesignPatterns, signal.label)
			}
		}
	}

	patterns.Paradigms = append(patterns.Paradigms, languageParadigms[primaryLanguage]...)

	if len(structure.TestFiles) > 0 {
		patterns.QualityIndicators = append(patterns.QualityIndicators, "Has automated tests")
	}
	if len(structure.DocumentationFiles) > 0 {
		patterns.QualityIndicators = append(patterns.QualityIndicators, "Has documentation")
	}
	for _, config := range structure.ConfigFiles {
		lowered := strings.ToLower(config)
		if strings.Contains(lowered, ".github/workflows") || strings.Contains(lowered, ".gitlab-ci") || strings.Contains(lowered, "jenkinsfile") {
			patterns.QualityIndicators = append(patterns.QualityIndicators, "Has CI configuration")
			break
		}
	}

	return patterns
}
