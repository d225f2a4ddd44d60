// -----------------------------------------------------------------------
// Content summarization heuristics
//
// Deterministic, language-aware extraction of "what this file actually
// does" for prompt grounding. No calls to the completion service happen
// here; everything is derived from the content itself so generated prose
// can be anchored to real code.
// -----------------------------------------------------------------------

package summarizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

const (
	maxSnippetLength = 150
	maxKeyFunctions  = 3
	maxImports       = 5
)

// Service implements the SummarizerService contract.
type Service struct {
	logger arbor.ILogger
}

// Compile-time assertion: Service implements SummarizerService.
var _ interfaces.SummarizerService = (*Service)(nil)

// NewService creates a new summarizer service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// SummarizeCode extracts a functional summary, representative snippet, key
// function names and imported modules from file content. Two identical
// calls always produce identical results.
func (s *Service) SummarizeCode(path, content string) models.ContentSummary {
	lang := LanguageFromPath(path)

	summary := models.ContentSummary{
		FunctionalityDescription: s.describeFunctionality(lang, content),
		CodeSnippet:              extractSnippet(lang, content),
		KeyFunctions:             extractNames(functionPatterns[lang], content, maxKeyFunctions),
		Imports:                  extractNames(importPatterns[lang], content, maxImports),
	}
	return summary
}

// describeFunctionality builds a human-readable functionality sentence from
// the matched signal labels and declaration counts.
func (s *Service) describeFunctionality(lang, content string) string {
	var labels []string
	seen := make(map[string]bool)
	for _, table := range [][]signalPattern{functionalitySignals[lang], functionalitySignals["*"]} {
		for _, sig := range table {
			if sig.re.MatchString(content) && !seen[sig.label] {
				seen[sig.label] = true
				labels = append(labels, sig.label)
			}
		}
	}

	classes := countMatches(classPatterns[lang], content)
	functions := countMatches(functionPatterns[lang], content)

	subject := lang + " module"
	if lang == "Unknown" {
		subject = "Source file"
	}

	var parts []string
	switch {
	case classes > 0 && functions > 0:
		parts = append(parts, fmt.Sprintf("defines %d %s and %d %s", classes, plural(classes, "class", "classes"), functions, plural(functions, "function", "functions")))
	case classes > 0:
		parts = append(parts, fmt.Sprintf("defines %d %s", classes, plural(classes, "class", "classes")))
	case functions > 0:
		parts = append(parts, fmt.Sprintf("defines %d %s", functions, plural(functions, "function", "functions")))
	}
	if len(labels) > 0 {
		parts = append(parts, "implements "+joinNatural(labels))
	}

	if len(parts) == 0 {
		return subject + " with no recognizable declarations"
	}
	return subject + " that " + strings.Join(parts, "; ")
}

// extractSnippet chooses a representative code snippet of at most 150
// characters: a class definition first, then a function definition, then
// the first non-comment lines, falling back to the raw head of the file.
func extractSnippet(lang, content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	if re := classPatterns[lang]; re != nil {
		if loc := re.FindStringIndex(content); loc != nil {
			return truncateSnippet(content[loc[0]:])
		}
	}
	if re := functionPatterns[lang]; re != nil {
		if loc := re.FindStringIndex(content); loc != nil {
			return truncateSnippet(content[loc[0]:])
		}
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}
		lines = append(lines, line)
		if len(strings.Join(lines, "\n")) >= maxSnippetLength {
			break
		}
	}
	if len(lines) > 0 {
		return truncateSnippet(strings.Join(lines, "\n"))
	}

	// Raw head fallback
	return truncateSnippet(content)
}

func truncateSnippet(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= maxSnippetLength {
		return s
	}
	return string(runes[:maxSnippetLength])
}

// extractNames collects up to max distinct capture-group values.
func extractNames(re *regexp.Regexp, content string, max int) []string {
	if re == nil {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, match := range re.FindAllStringSubmatch(content, -1) {
		name := firstSubmatch(match)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if len(names) == max {
			break
		}
	}
	return names
}

func countMatches(re *regexp.Regexp, content string) int {
	if re == nil {
		return 0
	}
	return len(re.FindAllStringIndex(content, -1))
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// joinNatural joins labels as "a, b and c".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// SummarizeConfig produces a one-line description of a configuration file.
func (s *Service) SummarizeConfig(path, content string) string {
	lang := LanguageFromPath(path)
	lineCount := len(strings.Split(strings.TrimSpace(content), "\n"))
	keys := countConfigKeys(lang, content)
	if keys > 0 {
		return fmt.Sprintf("%s configuration (%d lines, ~%d settings)", lang, lineCount, keys)
	}
	return fmt.Sprintf("%s configuration (%d lines)", lang, lineCount)
}

// countConfigKeys approximates the number of top-level settings.
func countConfigKeys(lang, content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}
		switch lang {
		case "JSON":
			if strings.Contains(trimmed, "\":") {
				count++
			}
		case "YAML", "TOML":
			if strings.Contains(trimmed, ":") || strings.Contains(trimmed, "=") {
				count++
			}
		default:
			if strings.Contains(trimmed, "=") {
				count++
			}
		}
	}
	return count
}
