// -----------------------------------------------------------------------
// Repository analysis engine
//
// Walks a repository's tree via the source host, classifies its contents
// and builds the RepositoryAnalysisContext every prompt is grounded on.
// Analysis fails fast on an empty tree so generation can never fabricate
// content for an inaccessible repository.
// -----------------------------------------------------------------------

package analyzer

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
	"github.com/ternarybob/repodoc/internal/services/summarizer"
)

// recentCommitLimit bounds how much history the analysis context carries.
const recentCommitLimit = 10

// Service implements the AnalyzerService contract.
type Service struct {
	git        interfaces.GitClient
	repos      interfaces.RepositoryStore
	summarizer interfaces.SummarizerService
	cache      interfaces.AnalysisCache
	logger     arbor.ILogger

	maxImportantFiles int
}

// Compile-time assertion: Service implements AnalyzerService.
var _ interfaces.AnalyzerService = (*Service)(nil)

// NewService creates a repository analysis service. The cache may be nil,
// in which case every call re-analyzes.
func NewService(
	git interfaces.GitClient,
	repos interfaces.RepositoryStore,
	summarizerService interfaces.SummarizerService,
	cache interfaces.AnalysisCache,
	maxImportantFiles int,
	logger arbor.ILogger,
) *Service {
	if maxImportantFiles <= 0 {
		maxImportantFiles = defaultMaxImportantFiles
	}
	return &Service{
		git:               git,
		repos:             repos,
		summarizer:        summarizerService,
		cache:             cache,
		maxImportantFiles: maxImportantFiles,
		logger:            logger,
	}
}

// Analyze builds the analysis context for a repository, serving from cache
// when a fresh entry exists.
//
// Fails with models.ErrNotFound when the repository is unknown and
// models.ErrEmptyRepository when the raw tree holds zero files. The
// empty-tree check runs before noise filtering: a tree whose files are all
// build noise still analyzes (with empty categories) rather than aborting.
func (s *Service) Analyze(ctx context.Context, repositoryID string) (*models.RepositoryAnalysisContext, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(repositoryID); ok {
			s.logger.Debug().
				Str("repository_id", repositoryID).
				Msg("Serving analysis context from cache")
			return cached, nil
		}
	}

	repo, err := s.repos.GetByID(repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository %s: %w", repositoryID, err)
	}

	started := time.Now()
	s.logger.Info().
		Str("repository", repo.FullName).
		Str("branch", repo.DefaultBranch).
		Msg("Analyzing repository")

	tree, err := s.git.GetTreeWithMetadata(ctx, repo.Owner, repo.Name, repo.DefaultBranch, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree for %s: %w", repo.FullName, err)
	}
	if len(tree) == 0 {
		return nil, fmt.Errorf("repository %s: %w", repo.FullName, models.ErrEmptyRepository)
	}

	filtered := filterNoise(tree)
	structure := analyzeStructure(filtered)

	dependencies := s.extractDependencies(ctx, repo, filtered)
	structure.ProjectType = detectProjectType(filtered)
	structure.Frameworks = detectFrameworks(filtered, dependencies)

	languages, primary := detectLanguages(filtered)
	if primary == "" {
		primary = repo.Language
	}

	importantFiles := s.analyzeImportantFiles(ctx, repo, filtered)

	analysis := &models.RepositoryAnalysisContext{
		RepositoryID:    repo.ID,
		RepositoryName:  repo.Name,
		Owner:           repo.Owner,
		PrimaryLanguage: primary,
		Languages:       languages,
		Structure:       structure,
		Dependencies:    dependencies,
		ImportantFiles:  importantFiles,
		Patterns:        derivePatterns(structure.Frameworks, primary, structure, importantFiles),
		Components:      componentMap(structure.EntryPoints),
		AnalyzedAt:      time.Now().UTC(),
	}

	if readme := findReadme(filtered); readme != "" {
		content, err := s.git.GetFileContent(ctx, repo.Owner, repo.Name, readme, repo.DefaultBranch)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", readme).Msg("Failed to fetch README, purpose extraction skipped")
		} else {
			analysis.Purpose = s.summarizer.SummarizePurpose(content)
		}
	}

	// Recent history feeds changelog-style generation; losing it is not worth
	// failing the analysis over.
	if commits, err := s.git.GetCommitHistory(ctx, repo.Owner, repo.Name, repo.DefaultBranch, recentCommitLimit); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to fetch commit history, continuing without it")
	} else {
		for _, commit := range commits {
			analysis.RecentCommits = append(analysis.RecentCommits, models.CommitSummary{
				SHA:     commit.SHA,
				Message: firstLine(commit.Message),
				Author:  commit.Author,
				Date:    commit.Date,
			})
		}
	}

	if s.cache != nil {
		s.cache.Set(repositoryID, analysis)
	}

	s.logger.Info().
		Str("repository", repo.FullName).
		Str("project_type", structure.ProjectType).
		Int("total_files", structure.TotalFiles).
		Int("important_files", len(importantFiles)).
		Int("dependencies", len(dependencies)).
		Dur("duration", time.Since(started)).
		Msg("Repository analysis complete")

	return analysis, nil
}

// extractDependencies parses every recognized manifest in the tree.
func (s *Service) extractDependencies(ctx context.Context, repo *models.Repository, entries []models.TreeEntry) []models.DependencyInfo {
	var all []models.DependencyInfo
	for _, entry := range entries {
		parser, ok := manifestParsers[strings.ToLower(path.Base(entry.Path))]
		if !ok || strings.Count(entry.Path, "/") > 1 {
			continue
		}
		content, err := s.git.GetFileContent(ctx, repo.Owner, repo.Name, entry.Path, repo.DefaultBranch)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", entry.Path).Msg("Failed to fetch manifest, skipping")
			continue
		}
		all = append(all, parser(content)...)
	}
	sortDependencies(all)
	return all
}

// analyzeImportantFiles fetches and summarizes the top-ranked files.
// Individual fetch failures degrade to a score-only entry instead of
// failing the analysis.
func (s *Service) analyzeImportantFiles(ctx context.Context, repo *models.Repository, entries []models.TreeEntry) []models.FileAnalysis {
	selected := selectImportantFiles(entries, s.maxImportantFiles)
	for i := range selected {
		selected[i].Language = summarizer.LanguageFromPath(selected[i].Path)

		content, err := s.git.GetFileContent(ctx, repo.Owner, repo.Name, selected[i].Path, repo.DefaultBranch)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", selected[i].Path).Msg("Failed to fetch important file")
			continue
		}
		selected[i].Content = content

		summary := s.summarizer.SummarizeCode(selected[i].Path, content)
		selected[i].Purpose = summary.FunctionalityDescription
		selected[i].KeyConcepts = append(summary.KeyFunctions, summary.Imports...)
	}
	return selected
}

// detectLanguages counts files per language and returns the list sorted by
// frequency plus the most common source language.
func detectLanguages(entries []models.TreeEntry) ([]string, string) {
	counts := make(map[string]int)
	for _, entry := range entries {
		lang := summarizer.LanguageFromPath(entry.Path)
		if summarizer.IsSourceLanguage(lang) {
			counts[lang]++
		}
	}

	languages := make([]string, 0, len(counts))
	for lang := range counts {
		languages = append(languages, lang)
	}
	sort.SliceStable(languages, func(i, j int) bool {
		if counts[languages[i]] != counts[languages[j]] {
			return counts[languages[i]] > counts[languages[j]]
		}
		return languages[i] < languages[j]
	})

	primary := ""
	if len(languages) > 0 {
		primary = languages[0]
	}
	return languages, primary
}

// componentMap names components after their entry-point directories.
func componentMap(entryPoints []string) map[string]string {
	if len(entryPoints) == 0 {
		return nil
	}
	components := make(map[string]string, len(entryPoints))
	for _, entryPoint := range entryPoints {
		name := path.Base(path.Dir(entryPoint))
		if name == "." || name == "/" {
			name = strings.TrimSuffix(path.Base(entryPoint), path.Ext(entryPoint))
		}
		components[name] = entryPoint
	}
	return components
}

// firstLine truncates a commit message to its subject line.
func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return strings.TrimSpace(message[:idx])
	}
	return strings.TrimSpace(message)
}
