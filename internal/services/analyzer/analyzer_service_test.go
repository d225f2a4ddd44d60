package analyzer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
	"github.com/ternarybob/repodoc/internal/services/summarizer"
)

// fakeGitClient serves a fixed tree, file map and commit history.
type fakeGitClient struct {
	tree    []models.TreeEntry
	files   map[string]string
	commits []interfaces.CommitInfo
}

func (f *fakeGitClient) GetRepository(ctx context.Context, owner, name string) (*interfaces.RepositoryInfo, error) {
	return &interfaces.RepositoryInfo{Owner: owner, Name: name, DefaultBranch: "main"}, nil
}

func (f *fakeGitClient) GetBranches(ctx context.Context, owner, name string) ([]interfaces.BranchInfo, error) {
	return []interfaces.BranchInfo{{Name: "main"}}, nil
}

func (f *fakeGitClient) GetCommitHistory(ctx context.Context, owner, name, branch string, limit int) ([]interfaces.CommitInfo, error) {
	return f.commits, nil
}

func (f *fakeGitClient) GetTreeWithMetadata(ctx context.Context, owner, name, branch string, recursive bool) ([]models.TreeEntry, error) {
	return f.tree, nil
}

func (f *fakeGitClient) GetFileContent(ctx context.Context, owner, name, path, ref string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("file %s: %w", path, models.ErrNotFound)
	}
	return content, nil
}

// fakeRepoStore holds repositories in a map.
type fakeRepoStore struct {
	repos map[string]*models.Repository
}

func (f *fakeRepoStore) GetByID(id string) (*models.Repository, error) {
	repo, ok := f.repos[id]
	if !ok {
		return nil, fmt.Errorf("repository %s: %w", id, models.ErrNotFound)
	}
	return repo, nil
}

func (f *fakeRepoStore) Save(repo *models.Repository) error {
	f.repos[repo.ID] = repo
	return nil
}

func (f *fakeRepoStore) List(limit int) ([]*models.Repository, error) {
	return nil, nil
}

func newTestAnalyzer(t *testing.T, tree []models.TreeEntry, files map[string]string) *Service {
	t.Helper()
	logger := arbor.NewLogger()
	git := &fakeGitClient{tree: tree, files: files}
	repos := &fakeRepoStore{repos: map[string]*models.Repository{
		"repo_1": {ID: "repo_1", Owner: "acme", Name: "widget", FullName: "acme/widget", DefaultBranch: "main"},
	}}
	return NewService(git, repos, summarizer.NewService(logger), nil, 20, logger)
}

func TestAnalyze_EmptyRepositoryFailsFast(t *testing.T) {
	service := newTestAnalyzer(t, nil, nil)

	_, err := service.Analyze(context.Background(), "repo_1")
	require.ErrorIs(t, err, models.ErrEmptyRepository)
}

func TestAnalyze_UnknownRepository(t *testing.T) {
	service := newTestAnalyzer(t, []models.TreeEntry{{Path: "main.go"}}, nil)

	_, err := service.Analyze(context.Background(), "repo_missing")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestAnalyze_NoiseOnlyTreeStillAnalyzes(t *testing.T) {
	// The empty check is tree-level: a non-empty tree whose files all get
	// filtered as noise analyzes with empty categories instead of failing.
	tree := []models.TreeEntry{
		{Path: "node_modules/react/index.js", Size: 100},
		{Path: "dist/bundle.js", Size: 5000},
	}
	service := newTestAnalyzer(t, tree, map[string]string{})

	analysis, err := service.Analyze(context.Background(), "repo_1")
	require.NoError(t, err)
	assert.Equal(t, 0, analysis.Structure.TotalFiles)
	assert.Empty(t, analysis.ImportantFiles)
}

func TestAnalyze_GoProject(t *testing.T) {
	tree := []models.TreeEntry{
		{Path: "go.mod", Size: 120},
		{Path: "main.go", Size: 300},
		{Path: "internal/server/server.go", Size: 900},
		{Path: "internal/server/server_test.go", Size: 400},
		{Path: "README.md", Size: 800},
		{Path: "docs/design.md", Size: 500},
	}
	files := map[string]string{
		"go.mod":  "module example.com/widget\n\ngo 1.22\n\nrequire (\n\tgithub.com/gin-gonic/gin v1.9.1\n\tgithub.com/stretchr/testify v1.9.0 // indirect\n)\n",
		"main.go": "package main\n\nfunc main() {\n\thttp.ListenAndServe(\":8080\", nil)\n}\n",
		"internal/server/server.go": "package server\n\ntype Server struct{}\n\nfunc Run() error { return nil }\n",
		"README.md":                 "# Widget\n\nA web API service for widgets.\n\n## Features\n\n- REST endpoint for widgets\n- JSON backend\n",
	}
	service := newTestAnalyzer(t, tree, files)

	analysis, err := service.Analyze(context.Background(), "repo_1")
	require.NoError(t, err)

	assert.Equal(t, "Go", analysis.Structure.ProjectType)
	assert.Equal(t, "Go", analysis.PrimaryLanguage)
	assert.Contains(t, analysis.Structure.Frameworks, "Gin")
	assert.Equal(t, 6, analysis.Structure.TotalFiles)
	assert.Contains(t, analysis.Structure.EntryPoints, "main.go")
	assert.Contains(t, analysis.Structure.TestFiles, "internal/server/server_test.go")

	// Dependencies come from the parsed manifest, direct first.
	require.NotEmpty(t, analysis.Dependencies)
	assert.Equal(t, "github.com/gin-gonic/gin", analysis.Dependencies[0].Name)
	assert.True(t, analysis.Dependencies[0].IsDirect)

	assert.Equal(t, "Web API", analysis.Purpose.BusinessDomain)
	require.NotEmpty(t, analysis.ImportantFiles)
	assert.Equal(t, "main.go", analysis.Components["main"])
}

func TestAnalyze_ServesFromCache(t *testing.T) {
	tree := []models.TreeEntry{{Path: "main.go", Size: 10}}
	service := newTestAnalyzer(t, tree, map[string]string{"main.go": "package main"})

	cache, err := NewCache(0, arbor.NewLogger())
	require.NoError(t, err)
	defer cache.Close()
	service.cache = cache

	first, err := service.Analyze(context.Background(), "repo_1")
	require.NoError(t, err)

	second, err := service.Analyze(context.Background(), "repo_1")
	require.NoError(t, err)
	assert.Same(t, first, second, "second call must be served from cache")
}

func TestDetectProjectType(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.TreeEntry
		want    string
	}{
		{"go module", []models.TreeEntry{{Path: "go.mod"}}, "Go"},
		{"node", []models.TreeEntry{{Path: "package.json"}}, "Node.js"},
		{"typescript", []models.TreeEntry{{Path: "package.json"}, {Path: "tsconfig.json"}}, "TypeScript"},
		{"rust", []models.TreeEntry{{Path: "Cargo.toml"}}, "Rust"},
		{"static web", []models.TreeEntry{{Path: "index.html"}}, "Static Web"},
		{"deep markers ignored", []models.TreeEntry{{Path: "third/party/vendor/go.mod"}}, "Unknown"},
		{"unknown", []models.TreeEntry{{Path: "notes.txt"}}, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectProjectType(tt.entries))
		})
	}
}

func TestSelectImportantFiles_Ordering(t *testing.T) {
	entries := []models.TreeEntry{
		{Path: "deep/nested/helper/util.go"},
		{Path: "main.go"},
		{Path: "go.mod"},
		{Path: "internal/core.go"},
		{Path: "internal/core_test.go"},
		{Path: "package-lock.json"},
	}

	selected := selectImportantFiles(entries, 10)
	require.Len(t, selected, 6)

	assert.Equal(t, "main.go", selected[0].Path, "entry point ranks first")
	assert.Equal(t, "go.mod", selected[1].Path, "manifest second")
	assert.Equal(t, "package-lock.json", selected[len(selected)-1].Path, "lock file suppressed to the bottom")

	testIdx := indexOfPath(selected, "internal/core_test.go")
	coreIdx := indexOfPath(selected, "internal/core.go")
	assert.Greater(t, testIdx, coreIdx, "test files rank below source")
}

func TestSelectImportantFiles_CapsAtMax(t *testing.T) {
	var entries []models.TreeEntry
	for i := 0; i < 30; i++ {
		entries = append(entries, models.TreeEntry{Path: fmt.Sprintf("src/file%02d.go", i)})
	}
	assert.Len(t, selectImportantFiles(entries, 20), 20)
}

func indexOfPath(files []models.FileAnalysis, path string) int {
	for i, file := range files {
		if file.Path == path {
			return i
		}
	}
	return -1
}

func TestFilterNoise(t *testing.T) {
	entries := []models.TreeEntry{
		{Path: "src/app.js"},
		{Path: "node_modules/lodash/index.js"},
		{Path: ".git/HEAD"},
		{Path: "assets/logo.png"},
		{Path: "README.md"},
	}

	filtered := filterNoise(entries)
	require.Len(t, filtered, 2)
	assert.Equal(t, "src/app.js", filtered[0].Path)
	assert.Equal(t, "README.md", filtered[1].Path)
}

func TestParseGoMod(t *testing.T) {
	content := "module example.com/x\n\ngo 1.22\n\nrequire (\n\tgithub.com/google/uuid v1.6.0\n\tgolang.org/x/sync v0.19.0 // indirect\n)\n"

	deps := parseGoMod(content)
	require.Len(t, deps, 2)
	assert.Equal(t, "github.com/google/uuid", deps[0].Name)
	assert.Equal(t, "v1.6.0", deps[0].Version)
	assert.True(t, deps[0].IsDirect)
	assert.False(t, deps[1].IsDirect)
}

func TestParsePackageJSON(t *testing.T) {
	content := `{"dependencies":{"react":"^18.0.0"},"devDependencies":{"jest":"^29.0.0"}}`

	deps := parsePackageJSON(content)
	require.Len(t, deps, 2)

	byName := map[string]models.DependencyInfo{}
	for _, dep := range deps {
		byName[dep.Name] = dep
	}
	assert.True(t, byName["react"].IsDirect)
	assert.Equal(t, "UI framework", byName["react"].Purpose)
	assert.False(t, byName["jest"].IsDirect)
}

func TestParseRequirementsTxt(t *testing.T) {
	content := "# deps\nrequests==2.31.0\nflask>=2.0\n\n-r other.txt\n"

	deps := parseRequirementsTxt(content)
	require.Len(t, deps, 2)
	assert.Equal(t, "requests", deps[0].Name)
	assert.Equal(t, "2.31.0", deps[0].Version)
	assert.Equal(t, "flask", deps[1].Name)
}

func TestDerivePatterns(t *testing.T) {
	structure := models.ProjectStructureAnalysis{
		TestFiles:  []string{"a_test.go"},
		ConfigFiles: []string{".github/workflows/ci.yml"},
	}
	files := []models.FileAnalysis{
		{Path: "factory.go", Content: "func NewWidgetFactory() *Factory { return &Factory{} }"},
	}

	patterns := derivePatterns([]string{"Express"}, "Go", structure, files)

	assert.Contains(t, patterns.Styles, "MVC")
	assert.Contains(t, patterns.DesignPatterns, "Factory")
	assert.Contains(t, patterns.Paradigms, "Concurrent")
	assert.Contains(t, patterns.QualityIndicators, "Has automated tests")
	assert.Contains(t, patterns.QualityIndicators, "Has CI configuration")
}

func TestAnalyze_RecentCommitsUseSubjectLine(t *testing.T) {
	logger := arbor.NewLogger()
	git := &fakeGitClient{
		tree: []models.TreeEntry{{Path: "main.go", Size: 50}},
		commits: []interfaces.CommitInfo{
			{SHA: "abc123", Message: "Add retry handling\n\nLonger body explaining the change.", Author: "dev"},
			{SHA: "def456", Message: "Initial commit"},
		},
	}
	repos := &fakeRepoStore{repos: map[string]*models.Repository{
		"repo_1": {ID: "repo_1", Owner: "acme", Name: "widget", FullName: "acme/widget", DefaultBranch: "main"},
	}}
	service := NewService(git, repos, summarizer.NewService(logger), nil, 20, logger)

	analysis, err := service.Analyze(context.Background(), "repo_1")
	require.NoError(t, err)

	require.Len(t, analysis.RecentCommits, 2)
	assert.Equal(t, "Add retry handling", analysis.RecentCommits[0].Message)
	assert.Equal(t, "abc123", analysis.RecentCommits[0].SHA)
	assert.Equal(t, "Initial commit", analysis.RecentCommits[1].Message)
}
