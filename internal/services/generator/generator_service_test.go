package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/repodoc/internal/common"
	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

// fakeAnalyzer returns a fixed analysis context or error.
type fakeAnalyzer struct {
	analysis *models.RepositoryAnalysisContext
	err      error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, repositoryID string) (*models.RepositoryAnalysisContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

// fakeCompletions answers every prompt with canned text, optionally failing
// for prompts containing a trigger substring.
type fakeCompletions struct {
	mu          sync.Mutex
	calls       int
	response    string
	failTrigger string
	failErr     error
}

func (f *fakeCompletions) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.failTrigger != "" && strings.Contains(req.Prompt, f.failTrigger) {
		return "", f.failErr
	}
	return f.response, nil
}

func (f *fakeCompletions) EstimateTokens(text string) int { return len(text) / 4 }
func (f *fakeCompletions) Usage() int                     { return 0 }

func (f *fakeCompletions) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testAnalysis() *models.RepositoryAnalysisContext {
	return &models.RepositoryAnalysisContext{
		RepositoryID:    "repo_1",
		RepositoryName:  "widget",
		Owner:           "acme",
		PrimaryLanguage: "Go",
		Languages:       []string{"Go"},
		Structure: models.ProjectStructureAnalysis{
			ProjectType: "Go",
			Frameworks:  []string{"Gin"},
			TotalFiles:  12,
		},
		Dependencies: []models.DependencyInfo{
			{Name: "github.com/gin-gonic/gin", Version: "v1.9.1", IsDirect: true},
		},
		ImportantFiles: []models.FileAnalysis{
			{Path: "main.go", Language: "Go", Content: "package main\n\nfunc main() {}\n", Purpose: "entry point"},
		},
		Purpose: models.ProjectPurpose{
			Description:    "A widget service",
			BusinessDomain: "Web API",
		},
		Components: map[string]string{"main": "main.go"},
	}
}

func testConfig() common.GenerationConfig {
	return common.GenerationConfig{
		MaxConcurrentGenerations: 3,
		RequestsPerMinute:        100,
		RetryAttempts:            1,
		MaxTokensPerSection:      1024,
		MaxDailyTokens:           100_000,
		Temperature:              0.7,
		EnableQualityValidation:  true,
		EnableCodeExtraction:     true,
		MinContentLength:         10,
		MaxContentLength:         8000,
	}
}

func newTestGenerator(analyzer interfaces.AnalyzerService, completions interfaces.CompletionService, config common.GenerationConfig) *Service {
	return NewService(analyzer, completions, nil, config, "claude-sonnet-4-20250514", arbor.NewLogger())
}

func TestGenerateDocumentation_AllSectionsSucceed(t *testing.T) {
	completions := &fakeCompletions{response: "The widget project uses Go and Gin.\n\n```go\nfunc main() {}\n```\n"}
	service := newTestGenerator(&fakeAnalyzer{analysis: testAnalysis()}, completions, testConfig())

	requested := []models.SectionType{models.SectionOverview, models.SectionUsage}
	doc, err := service.GenerateDocumentation(context.Background(), "repo_1", interfaces.GenerationOptions{
		RequestedSections: requested,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusGenerated, doc.Status)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, models.SectionOverview, doc.Sections[0].Type)
	assert.Equal(t, models.SectionUsage, doc.Sections[1].Type)
	assert.Equal(t, 2, completions.callCount())
	assert.Equal(t, 0, doc.Statistics.DegradedSections)
	assert.Greater(t, doc.Statistics.TotalWords, 0)
	assert.Greater(t, doc.Statistics.CodeReferences, 0)
	assert.Equal(t, "claude-sonnet-4-20250514", doc.Sections[0].Metadata.Model)
}

func TestGenerateDocumentation_OneFailureIsIsolated(t *testing.T) {
	// The troubleshooting prompt fails; the other sections must still land.
	completions := &fakeCompletions{
		response:    "Generated content about the widget service.",
		failTrigger: "common problems",
		failErr:     errors.New("upstream exploded"),
	}
	service := newTestGenerator(&fakeAnalyzer{analysis: testAnalysis()}, completions, testConfig())

	requested := []models.SectionType{
		models.SectionOverview,
		models.SectionUsage,
		models.SectionTroubleshooting,
	}
	doc, err := service.GenerateDocumentation(context.Background(), "repo_1", interfaces.GenerationOptions{
		RequestedSections: requested,
	})
	require.NoError(t, err)

	require.Len(t, doc.Sections, 3, "a section failure must not shrink the document")
	degraded := 0
	for _, section := range doc.Sections {
		if section.Degraded {
			degraded++
			assert.Equal(t, models.SectionTroubleshooting, section.Type)
			assert.Contains(t, section.Content, "could not be generated")
			assert.Contains(t, section.FailureReason, "upstream exploded")
		}
	}
	assert.Equal(t, 1, degraded)
	assert.Equal(t, 1, doc.Statistics.DegradedSections)
	assert.Equal(t, models.StatusGenerated, doc.Status)
}

func TestGenerateDocumentation_AnalysisFailureAborts(t *testing.T) {
	service := newTestGenerator(
		&fakeAnalyzer{err: fmt.Errorf("repository repo_1: %w", models.ErrEmptyRepository)},
		&fakeCompletions{response: "x"},
		testConfig(),
	)

	_, err := service.GenerateDocumentation(context.Background(), "repo_1", interfaces.GenerationOptions{})
	require.ErrorIs(t, err, models.ErrEmptyRepository)
}

func TestGenerateDocumentation_DefaultsToAllSections(t *testing.T) {
	completions := &fakeCompletions{response: "Generated content."}
	service := newTestGenerator(&fakeAnalyzer{analysis: testAnalysis()}, completions, testConfig())

	doc, err := service.GenerateDocumentation(context.Background(), "repo_1", interfaces.GenerationOptions{})
	require.NoError(t, err)
	assert.Len(t, doc.Sections, len(models.DefaultSectionTypes()))

	for i := 1; i < len(doc.Sections); i++ {
		assert.Greater(t, doc.Sections[i].Order, doc.Sections[i-1].Order, "sections must assemble in canonical order")
	}
}

func TestGenerateSection_TagsAndMetadata(t *testing.T) {
	completions := &fakeCompletions{response: "Usage prose.\n\n```go\nwidget.Run()\n```\n"}
	service := newTestGenerator(&fakeAnalyzer{analysis: testAnalysis()}, completions, testConfig())

	section, err := service.GenerateSection(context.Background(), testAnalysis(), models.SectionUsage, "")
	require.NoError(t, err)

	assert.Equal(t, "Usage", section.Title)
	assert.Equal(t, models.CanonicalOrder(models.SectionUsage), section.Order)
	assert.Contains(t, section.Tags, "usage")
	assert.Contains(t, section.Tags, "go")
	assert.Contains(t, section.Tags, "gin")
	assert.Equal(t, defaultConfidence, section.Metadata.Confidence)
	assert.Greater(t, section.Metadata.EstimatedTokens, 0)
	require.NotEmpty(t, section.CodeReferences)
}

func TestGenerateSection_CustomInstructionsReachPrompt(t *testing.T) {
	var captured string
	completions := &capturingCompletions{response: "ok", capture: &captured}
	service := newTestGenerator(&fakeAnalyzer{analysis: testAnalysis()}, completions, testConfig())

	_, err := service.GenerateSection(context.Background(), testAnalysis(), models.SectionOverview, "Write in a formal tone.")
	require.NoError(t, err)
	assert.Contains(t, captured, "Write in a formal tone.")
	assert.Contains(t, captured, "acme/widget")
	assert.Contains(t, captured, "main.go")
}

func TestBuildSectionPrompt_ChangelogIncludesRecentCommits(t *testing.T) {
	analysis := testAnalysis()
	analysis.RecentCommits = []models.CommitSummary{
		{SHA: "abc123", Message: "Add retry handling", Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
	}

	changelog := buildSectionPrompt(analysis, models.SectionChangelog, "", nil)
	assert.Contains(t, changelog, "## Recent commits")
	assert.Contains(t, changelog, "2026-08-20 Add retry handling")

	overview := buildSectionPrompt(analysis, models.SectionOverview, "", nil)
	assert.NotContains(t, overview, "## Recent commits")
}

type capturingCompletions struct {
	response string
	capture  *string
}

func (c *capturingCompletions) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	*c.capture = req.Prompt
	return c.response, nil
}

func (c *capturingCompletions) EstimateTokens(text string) int { return len(text) / 4 }
func (c *capturingCompletions) Usage() int                     { return 0 }

func TestExtractCodeReferences_RoundTrip(t *testing.T) {
	service := newTestGenerator(&fakeAnalyzer{}, &fakeCompletions{}, testConfig())

	content := "Intro.\n\n```go\nfunc main() {}\n```\n\nUse `widget.Run()` to start.\n\n```go\nfunc main() {}\n```\n"
	refs := service.ExtractCodeReferences(content, testAnalysis())

	require.NotEmpty(t, refs)
	seen := map[string]bool{}
	for _, ref := range refs {
		assert.False(t, seen[ref.CodeSnippet], "references must be deduplicated by snippet")
		seen[ref.CodeSnippet] = true
	}
	assert.Equal(t, "code_block", refs[0].ReferenceType)
}

func TestExtractCodeReferences_CapsCount(t *testing.T) {
	service := newTestGenerator(&fakeAnalyzer{}, &fakeCompletions{}, testConfig())

	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "```go\nblock %d\n```\n\n", i)
	}
	refs := service.ExtractCodeReferences(b.String(), nil)
	assert.Len(t, refs, maxCodeReferences)
}

func TestEnrichWithExamples_FallsBackOnFailure(t *testing.T) {
	completions := &fakeCompletions{failTrigger: "Improve", failErr: errors.New("down")}
	service := newTestGenerator(&fakeAnalyzer{}, completions, testConfig())

	original := "Existing prose."
	assert.Equal(t, original, service.EnrichWithExamples(context.Background(), original, testAnalysis()))
}

func TestEnrichWithExamples_ReturnsEnriched(t *testing.T) {
	completions := &fakeCompletions{response: "Improved prose with examples."}
	service := newTestGenerator(&fakeAnalyzer{}, completions, testConfig())

	enriched := service.EnrichWithExamples(context.Background(), "Existing prose.", testAnalysis())
	assert.Equal(t, "Improved prose with examples.", enriched)
}

func TestValidateQuality(t *testing.T) {
	service := newTestGenerator(&fakeAnalyzer{}, &fakeCompletions{}, testConfig())
	analysis := testAnalysis()

	t.Run("nil document gets conservative default", func(t *testing.T) {
		assert.Equal(t, conservativeScore, service.ValidateQuality(nil, analysis))
	})

	t.Run("relevant complete document scores high", func(t *testing.T) {
		doc := models.NewDocumentation("doc_1", "repo_1", "widget Documentation")
		content := "The widget project is a Go service built with Gin.\n\n```go\nfunc main() {}\n```"
		for _, sectionType := range models.DefaultSectionTypes() {
			require.NoError(t, doc.AddSection(models.DocumentationSection{
				Type:    sectionType,
				Content: content,
				Order:   models.CanonicalOrder(sectionType),
				CodeReferences: []models.CodeReference{
					{CodeSnippet: "func main() {}", ReferenceType: "code_block"},
				},
			}))
		}

		score := service.ValidateQuality(doc, analysis)
		assert.Greater(t, score, 0.8)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("sparse document scores lower", func(t *testing.T) {
		doc := models.NewDocumentation("doc_2", "repo_1", "widget Documentation")
		require.NoError(t, doc.AddSection(models.DocumentationSection{
			Type: models.SectionChangelog, Content: "x", Order: 13,
		}))

		sparse := service.ValidateQuality(doc, analysis)
		assert.Less(t, sparse, 0.6)
	})
}
