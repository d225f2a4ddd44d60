package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DocumentationStatus is the lifecycle state of a Documentation aggregate.
// Transitions only ever move forward.
type DocumentationStatus string

const (
	StatusAnalyzing         DocumentationStatus = "analyzing"
	StatusGeneratingContent DocumentationStatus = "generating_content"
	StatusEnriching         DocumentationStatus = "enriching"
	StatusIndexing          DocumentationStatus = "indexing"
	StatusGenerated         DocumentationStatus = "generated"
	StatusFailed            DocumentationStatus = "failed"
)

// statusRank orders the forward-only lifecycle. StatusFailed is terminal
// and reachable from any state.
var statusRank = map[DocumentationStatus]int{
	StatusAnalyzing:         1,
	StatusGeneratingContent: 2,
	StatusEnriching:         3,
	StatusIndexing:          4,
	StatusGenerated:         5,
}

// SectionType identifies one documentation section kind.
type SectionType string

const (
	SectionOverview        SectionType = "overview"
	SectionGettingStarted  SectionType = "getting_started"
	SectionInstallation    SectionType = "installation"
	SectionUsage           SectionType = "usage"
	SectionConfiguration   SectionType = "configuration"
	SectionArchitecture    SectionType = "architecture"
	SectionAPIReference    SectionType = "api_reference"
	SectionExamples        SectionType = "examples"
	SectionTesting         SectionType = "testing"
	SectionDeployment      SectionType = "deployment"
	SectionContributing    SectionType = "contributing"
	SectionTroubleshooting SectionType = "troubleshooting"
	SectionChangelog       SectionType = "changelog"
	SectionLicense         SectionType = "license"
)

// canonicalSectionOrder fixes the position of every section type in an
// assembled document regardless of generation completion order.
var canonicalSectionOrder = map[SectionType]int{
	SectionOverview:        1,
	SectionGettingStarted:  2,
	SectionInstallation:    3,
	SectionUsage:           4,
	SectionConfiguration:   5,
	SectionArchitecture:    6,
	SectionAPIReference:    7,
	SectionExamples:        8,
	SectionTesting:         9,
	SectionDeployment:      10,
	SectionContributing:    11,
	SectionTroubleshooting: 12,
	SectionChangelog:       13,
	SectionLicense:         14,
}

// sectionTitles overrides derived titles where simple capitalization reads
// poorly.
var sectionTitles = map[SectionType]string{
	SectionAPIReference: "API Reference",
}

// DefaultSectionTypes returns the canonical generation set in order.
func DefaultSectionTypes() []SectionType {
	types := make([]SectionType, 0, len(canonicalSectionOrder))
	for t := range canonicalSectionOrder {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return canonicalSectionOrder[types[i]] < canonicalSectionOrder[types[j]]
	})
	return types
}

// ParseSectionType resolves a user-supplied name to a known section type.
func ParseSectionType(name string) (SectionType, error) {
	normalized := SectionType(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_")))
	if _, ok := canonicalSectionOrder[normalized]; !ok {
		return "", fmt.Errorf("unknown section type %q", name)
	}
	return normalized, nil
}

// CanonicalOrder returns the fixed position of a section type. Unknown
// types sort after all known ones.
func CanonicalOrder(t SectionType) int {
	if order, ok := canonicalSectionOrder[t]; ok {
		return order
	}
	return len(canonicalSectionOrder) + 1
}

// SectionTitle returns the display title for a section type.
func SectionTitle(t SectionType) string {
	if title, ok := sectionTitles[t]; ok {
		return title
	}
	words := strings.Split(string(t), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// CodeReference links generated prose back to repository source.
type CodeReference struct {
	FilePath      string `json:"file_path,omitempty"`
	CodeSnippet   string `json:"code_snippet"`
	Description   string `json:"description,omitempty"`
	ReferenceType string `json:"reference_type"`
	StartLine     int    `json:"start_line,omitempty"`
	EndLine       int    `json:"end_line,omitempty"`
}

// SectionMetadata records how a section was produced.
type SectionMetadata struct {
	Model           string    `json:"model,omitempty"`
	EstimatedTokens int       `json:"estimated_tokens"`
	Confidence      float64   `json:"confidence"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// DocumentationSection is one assembled section of a document. Degraded
// sections carry placeholder content plus the failure that produced them.
type DocumentationSection struct {
	Type           SectionType     `json:"type"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	Order          int             `json:"order"`
	Tags           []string        `json:"tags,omitempty"`
	CodeReferences []CodeReference `json:"code_references,omitempty"`
	Metadata       SectionMetadata `json:"metadata"`
	Degraded       bool            `json:"degraded,omitempty"`
	FailureReason  string          `json:"failure_reason,omitempty"`
}

// DocumentationMetadata carries repository facts frozen at generation time.
type DocumentationMetadata struct {
	Languages       []string         `json:"languages,omitempty"`
	Frameworks      []string         `json:"frameworks,omitempty"`
	TopDependencies []DependencyInfo `json:"top_dependencies,omitempty"`
}

// DocumentationStatistics aggregates counts over a finished document.
type DocumentationStatistics struct {
	TotalSections    int      `json:"total_sections"`
	DegradedSections int      `json:"degraded_sections"`
	TotalWords       int      `json:"total_words"`
	CodeReferences   int      `json:"code_references"`
	CoveredTopics    []string `json:"covered_topics,omitempty"`
	QualityScore     float64  `json:"quality_score"`
	GenerationTime   string   `json:"generation_time,omitempty"`
}

// Documentation is the aggregate root for one generated document.
type Documentation struct {
	ID           string                  `json:"id" badgerhold:"key"`
	RepositoryID string                  `json:"repository_id" badgerhold:"index"`
	Title        string                  `json:"title"`
	Status       DocumentationStatus     `json:"status"`
	Metadata     DocumentationMetadata   `json:"metadata"`
	Sections     []DocumentationSection  `json:"sections,omitempty"`
	Statistics   DocumentationStatistics `json:"statistics"`
	Error        string                  `json:"error,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// NewDocumentation creates a document in the initial analyzing state.
func NewDocumentation(id, repositoryID, title string) *Documentation {
	now := time.Now().UTC()
	return &Documentation{
		ID:           id,
		RepositoryID: repositoryID,
		Title:        title,
		Status:       StatusAnalyzing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Advance moves the document to the next lifecycle state. Moving backward
// or sideways is rejected; Fail is the only other exit.
func (d *Documentation) Advance(next DocumentationStatus) error {
	nextRank, ok := statusRank[next]
	if !ok {
		return fmt.Errorf("unknown documentation status %q", next)
	}
	if d.Status == StatusFailed {
		return fmt.Errorf("documentation %s already failed", d.ID)
	}
	if nextRank <= statusRank[d.Status] {
		return fmt.Errorf("cannot move documentation %s from %s to %s", d.ID, d.Status, next)
	}
	d.Status = next
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail marks the document terminally failed with the given cause.
func (d *Documentation) Fail(cause error) {
	d.Status = StatusFailed
	if cause != nil {
		d.Error = cause.Error()
	}
	d.UpdatedAt = time.Now().UTC()
}

// AddSection inserts a section keeping sections sorted by Order. A section
// with a duplicate Order is rejected.
func (d *Documentation) AddSection(section DocumentationSection) error {
	for _, existing := range d.Sections {
		if existing.Order == section.Order {
			return fmt.Errorf("documentation %s already has a section at order %d", d.ID, section.Order)
		}
	}
	d.Sections = append(d.Sections, section)
	sort.SliceStable(d.Sections, func(i, j int) bool {
		return d.Sections[i].Order < d.Sections[j].Order
	})
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// SetStatistics replaces the aggregate statistics.
func (d *Documentation) SetStatistics(stats DocumentationStatistics) {
	d.Statistics = stats
	d.UpdatedAt = time.Now().UTC()
}

// Render assembles the document into a single markdown string in section
// order.
func (d *Documentation) Render() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(d.Title)
	b.WriteString("\n")
	for _, section := range d.Sections {
		b.WriteString("\n## ")
		b.WriteString(section.Title)
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(section.Content))
		b.WriteString("\n")
	}
	return b.String()
}
