// -----------------------------------------------------------------------
// README purpose extraction
//
// Parses a repository README into a structured project purpose using the
// goldmark AST rather than line-oriented regexes: headings give section
// boundaries, list items give features, and keyword families classify the
// business domain.
// -----------------------------------------------------------------------

package summarizer

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/repodoc/internal/models"
)

const (
	maxFeatures    = 8
	maxCleanLength = 200
)

// domainFamily groups keywords that indicate a business domain. Families
// are evaluated in order; the highest keyword hit count wins, with earlier
// families winning ties.
type domainFamily struct {
	name     string
	keywords []string
}

var domainFamilies = []domainFamily{
	{"Game", []string{"game", "player", "arcade", "score", "level up", "breakout", "tetris", "snake", "pong", "puzzle", "sprite"}},
	{"Web API", []string{"api", "endpoint", "rest", "graphql", "microservice", "backend"}},
	{"Library", []string{"library", "package", "sdk", "framework", "reusable", "module"}},
	{"Web Application", []string{"web app", "webapp", "frontend", "website", "react", "vue", "angular", "dashboard"}},
	{"CLI Tool", []string{"cli", "command line", "command-line", "terminal", "console tool"}},
	{"Documentation", []string{"documentation site", "docs site", "wiki", "knowledge base"}},
}

var userValueSentence = regexp.MustCompile(`(?i)[^.!?\n]*\b(?:helps|allows|enables)\b[^.!?\n]*[.!?]?`)

// readmeSections is the intermediate parse of a README document. headings
// preserves document order so lookups stay deterministic.
type readmeSections struct {
	title    string
	headings []string            // lowercased headings in document order
	sections map[string][]string // lowercased heading -> paragraph texts
	lists    map[string][]string // lowercased heading -> list item texts
}

// SummarizePurpose extracts the structured project purpose from README
// content. Extraction is best-effort: a malformed README yields a purpose
// built from whatever could be recovered, never an error.
func (s *Service) SummarizePurpose(readmeContent string) models.ProjectPurpose {
	parsed := parseReadme([]byte(readmeContent))

	purpose := models.ProjectPurpose{
		Description:    cleanText(parsed.title),
		BusinessDomain: classifyDomain(readmeContent),
	}

	if desc := parsed.firstParagraph("description", "about", "overview"); desc != "" {
		purpose.Description = cleanText(desc)
	}
	if purpose.Description == "" {
		purpose.Description = cleanText(firstNonEmptyLine(readmeContent))
	}

	for _, item := range parsed.listItems("feature") {
		purpose.KeyFeatures = append(purpose.KeyFeatures, cleanText(item))
		if len(purpose.KeyFeatures) == maxFeatures {
			break
		}
	}

	for _, item := range parsed.listItems("tech", "stack", "built with") {
		purpose.TechnicalHighlights = append(purpose.TechnicalHighlights, cleanText(item))
		if len(purpose.TechnicalHighlights) == maxFeatures {
			break
		}
	}

	if value := parsed.firstParagraph("why", "benefit", "value"); value != "" {
		purpose.UserValue = cleanText(value)
	} else if match := userValueSentence.FindString(readmeContent); match != "" {
		purpose.UserValue = cleanText(match)
	}

	return purpose
}

// parseReadme walks the goldmark AST collecting the title, per-section
// paragraphs and per-section list items.
func parseReadme(source []byte) *readmeSections {
	parsed := &readmeSections{
		sections: make(map[string][]string),
		lists:    make(map[string][]string),
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	currentHeading := ""
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if parsed.title == "" {
				parsed.title = heading
			}
			currentHeading = strings.ToLower(heading)
			parsed.headings = append(parsed.headings, currentHeading)
		case *ast.Paragraph:
			if currentHeading != "" {
				parsed.sections[currentHeading] = append(parsed.sections[currentHeading], nodeText(n, source))
			} else if parsed.title == "" {
				// README with no headings: lead paragraph stands in for the title.
				parsed.title = nodeText(n, source)
			}
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				parsed.lists[currentHeading] = append(parsed.lists[currentHeading], nodeText(item, source))
			}
		}
	}

	return parsed
}

// firstParagraph returns the first paragraph under the best-matching
// heading. Substrings are tried in the caller's preference order; each is
// resolved against headings in document order.
func (r *readmeSections) firstParagraph(substrings ...string) string {
	for _, sub := range substrings {
		for _, heading := range r.headings {
			if strings.Contains(heading, sub) {
				if paragraphs := r.sections[heading]; len(paragraphs) > 0 {
					return paragraphs[0]
				}
			}
		}
	}
	return ""
}

// listItems returns the items of the list under the best-matching heading.
// Same resolution order as firstParagraph.
func (r *readmeSections) listItems(substrings ...string) []string {
	for _, sub := range substrings {
		for _, heading := range r.headings {
			if strings.Contains(heading, sub) {
				if items := r.lists[heading]; len(items) > 0 {
					return items
				}
			}
		}
	}
	return nil
}

// nodeText concatenates every text segment beneath a node.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteByte(' ')
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// classifyDomain picks the business domain whose keyword family has the
// most hits in the README; earlier families win ties. Falls back to
// "Software" when nothing matches.
func classifyDomain(content string) string {
	lowered := strings.ToLower(content)

	best := "Software"
	bestCount := 0
	for _, family := range domainFamilies {
		count := 0
		for _, keyword := range family.keywords {
			count += strings.Count(lowered, keyword)
		}
		if count > bestCount {
			best = family.name
			bestCount = count
		}
	}
	return best
}

// cleanText strips markdown punctuation, collapses whitespace and truncates
// to 200 characters. It never fails: unexpected input degrades to a safely
// truncated raw string.
func cleanText(text string) string {
	cleaned := markdownStripper.Replace(text)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	runes := []rune(cleaned)
	if len(runes) > maxCleanLength {
		cleaned = string(runes[:maxCleanLength])
	}
	return strings.TrimSpace(cleaned)
}

var markdownStripper = strings.NewReplacer(
	"*", "", "_", "", "#", "", ">", "", "`", "",
	"[", "", "]", "", "(", " ", ")", " ", "!", "",
)

// firstNonEmptyLine returns the first non-blank line of text.
func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
