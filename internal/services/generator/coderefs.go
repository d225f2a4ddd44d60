package generator

import (
	"regexp"
	"strings"

	"github.com/ternarybob/repodoc/internal/models"
)

const maxCodeReferences = 10

var (
	fencedBlockPattern = regexp.MustCompile("(?s)```([a-zA-Z0-9+#._-]*)\\n(.*?)```")
	inlineCodePattern  = regexp.MustCompile("`([^`\\n]+)`")
)

// extractCodeReferences pulls fenced code blocks and qualifying inline code
// spans out of generated markdown. References are deduplicated by snippet
// and capped. When a snippet names a known repository file, the reference is
// linked back to that path.
func extractCodeReferences(content string, analysis *models.RepositoryAnalysisContext) []models.CodeReference {
	var refs []models.CodeReference
	seen := make(map[string]bool)

	for _, match := range fencedBlockPattern.FindAllStringSubmatch(content, -1) {
		snippet := strings.TrimSpace(match[2])
		if snippet == "" || seen[snippet] {
			continue
		}
		seen[snippet] = true
		refs = append(refs, models.CodeReference{
			CodeSnippet:   snippet,
			Description:   blockDescription(match[1]),
			ReferenceType: "code_block",
			FilePath:      matchKnownFile(snippet, analysis),
		})
		if len(refs) == maxCodeReferences {
			return refs
		}
	}

	for _, match := range inlineCodePattern.FindAllStringSubmatch(content, -1) {
		snippet := strings.TrimSpace(match[1])
		if !qualifiesInline(snippet) || seen[snippet] {
			continue
		}
		seen[snippet] = true
		refs = append(refs, models.CodeReference{
			CodeSnippet:   snippet,
			ReferenceType: "inline",
			FilePath:      matchKnownFile(snippet, analysis),
		})
		if len(refs) == maxCodeReferences {
			break
		}
	}

	return refs
}

// qualifiesInline filters inline spans down to ones that look like code
// rather than emphasized prose.
func qualifiesInline(snippet string) bool {
	if len(snippet) < 3 {
		return false
	}
	return strings.ContainsAny(snippet, "(){}.=/_-")
}

func blockDescription(language string) string {
	if language == "" {
		return ""
	}
	return language + " code block"
}

// matchKnownFile links a snippet to an analyzed file when the snippet
// mentions its path or base name appears verbatim in the snippet.
func matchKnownFile(snippet string, analysis *models.RepositoryAnalysisContext) string {
	if analysis == nil {
		return ""
	}
	for _, file := range analysis.ImportantFiles {
		if strings.Contains(snippet, file.Path) {
			return file.Path
		}
	}
	return ""
}
