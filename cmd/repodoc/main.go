// -----------------------------------------------------------------------
// repodoc - generates grounded multi-section documentation for a source
// repository by analyzing its tree and orchestrating LLM completion calls.
// -----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/repodoc/internal/common"
	"github.com/ternarybob/repodoc/internal/connectors/github"
	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
	"github.com/ternarybob/repodoc/internal/services/analyzer"
	"github.com/ternarybob/repodoc/internal/services/generator"
	"github.com/ternarybob/repodoc/internal/services/llm"
	"github.com/ternarybob/repodoc/internal/services/summarizer"
	"github.com/ternarybob/repodoc/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// sectionSetFile is the YAML shape accepted by -sections-file.
type sectionSetFile struct {
	Sections     []string `yaml:"sections"`
	Instructions string   `yaml:"instructions"`
}

var (
	configFiles  configPaths
	repoOwner    = flag.String("owner", "", "Repository owner (required)")
	repoName     = flag.String("repo", "", "Repository name (required)")
	branchName   = flag.String("branch", "", "Branch to analyze (default: repository default branch)")
	sectionList  = flag.String("sections", "", "Comma-separated section types (default: all)")
	sectionsFile = flag.String("sections-file", "", "YAML file with sections and custom instructions")
	instructions = flag.String("instructions", "", "Custom prompt instructions")
	outputPath   = flag.String("out", "", "Write the rendered document to this file (default: stdout)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Repodoc version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("repodoc.toml"); err == nil {
			configFiles = append(configFiles, "repodoc.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	if *repoOwner == "" || *repoName == "" {
		logger.Fatal().Msg("Both -owner and -repo are required")
		os.Exit(1)
	}

	sections, customInstructions, err := resolveSections()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid section selection")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, sections, customInstructions); err != nil {
		logger.Fatal().Err(err).Msg("Generation failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, sections []models.SectionType, customInstructions string) error {
	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return err
	}
	defer db.Close()

	repoStore := badger.NewRepositoryStorage(db, logger)
	docStore := badger.NewDocumentationStorage(db, logger)

	gitClient := github.NewClient(&config.GitHub, logger)
	repo, err := ensureRepository(ctx, gitClient, repoStore)
	if err != nil {
		return err
	}

	// The analyzer reads the repository back from storage, so a branch
	// override has to be persisted to take effect.
	if *branchName != "" && *branchName != repo.DefaultBranch {
		if err := selectBranch(ctx, gitClient, repo, *branchName); err != nil {
			return err
		}
		if err := repoStore.Save(repo); err != nil {
			return err
		}
	}

	cacheTTL, err := time.ParseDuration(config.Analysis.CacheTTL)
	if err != nil {
		return fmt.Errorf("invalid analysis cache TTL %q: %w", config.Analysis.CacheTTL, err)
	}
	cache, err := analyzer.NewCache(cacheTTL, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	summarizerService := summarizer.NewService(logger)
	analyzerService := analyzer.NewService(gitClient, repoStore, summarizerService, cache, config.Analysis.MaxImportantFiles, logger)

	limiter := llm.NewRateLimiterState(
		config.Generation.MaxConcurrentGenerations,
		config.Generation.RequestsPerMinute,
		config.Generation.MaxDailyTokens,
	)
	factory := llm.NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger)
	defer factory.Close()
	completions := llm.NewClient(factory, &config.Generation, limiter, logger)

	// Hourly sweep keeps the token map bounded during long runs.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", limiter.Sweep); err != nil {
		return fmt.Errorf("failed to schedule limiter sweep: %w", err)
	}
	if _, err := scheduler.AddFunc("@hourly", db.RunGarbageCollection); err != nil {
		return fmt.Errorf("failed to schedule database garbage collection: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	generatorService := generator.NewService(analyzerService, completions, docStore, config.Generation, defaultModelName(), logger)

	doc, err := generatorService.GenerateDocumentation(ctx, repo.ID, interfaces.GenerationOptions{
		RequestedSections:  sections,
		CustomInstructions: customInstructions,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("documentation_id", doc.ID).
		Int("sections", doc.Statistics.TotalSections).
		Int("degraded", doc.Statistics.DegradedSections).
		Int("words", doc.Statistics.TotalWords).
		Float64("quality", doc.Statistics.QualityScore).
		Int("tokens_used_today", completions.Usage()).
		Msg("Documentation ready")

	rendered := doc.Render()
	if *outputPath == "" {
		fmt.Println(rendered)
		return nil
	}
	if err := os.WriteFile(*outputPath, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", *outputPath, err)
	}
	logger.Info().Str("path", *outputPath).Msg("Document written")
	return nil
}

// ensureRepository looks the repository up in local storage, registering it
// from the source host on first use.
func ensureRepository(ctx context.Context, gitClient interfaces.GitClient, store interfaces.RepositoryStore) (*models.Repository, error) {
	id := fmt.Sprintf("repo_%s_%s", *repoOwner, *repoName)
	if existing, err := store.GetByID(id); err == nil {
		return existing, nil
	}

	info, err := gitClient.GetRepository(ctx, *repoOwner, *repoName)
	if err != nil {
		return nil, err
	}

	repo := &models.Repository{
		ID:            id,
		Owner:         info.Owner,
		Name:          info.Name,
		FullName:      info.FullName,
		Description:   info.Description,
		DefaultBranch: info.DefaultBranch,
		Language:      info.Language,
		URL:           info.URL,
	}
	if repo.DefaultBranch == "" {
		repo.DefaultBranch = "main"
	}
	if err := store.Save(repo); err != nil {
		return nil, err
	}
	return repo, nil
}

// selectBranch verifies the requested branch exists on the host before the
// analyzer starts fetching against it.
func selectBranch(ctx context.Context, gitClient interfaces.GitClient, repo *models.Repository, branch string) error {
	branches, err := gitClient.GetBranches(ctx, repo.Owner, repo.Name)
	if err != nil {
		return fmt.Errorf("failed to list branches for %s: %w", repo.FullName, err)
	}
	for _, b := range branches {
		if b.Name == branch {
			repo.DefaultBranch = branch
			return nil
		}
	}
	return fmt.Errorf("branch %q not found in %s", branch, repo.FullName)
}

// resolveSections merges the -sections flag, the -sections-file YAML and
// the -instructions flag into one request.
func resolveSections() ([]models.SectionType, string, error) {
	names := splitList(*sectionList)
	customInstructions := *instructions

	if *sectionsFile != "" {
		data, err := os.ReadFile(*sectionsFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read sections file: %w", err)
		}
		var parsed sectionSetFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, "", fmt.Errorf("failed to parse sections file: %w", err)
		}
		if len(names) == 0 {
			names = parsed.Sections
		}
		if customInstructions == "" {
			customInstructions = parsed.Instructions
		}
	}

	sections, err := parseSectionNames(names)
	if err != nil {
		return nil, "", err
	}
	return sections, customInstructions, nil
}

// parseSectionNames parses and deduplicates section names. Duplicates would
// otherwise collide on section order after generation has already been paid
// for, so they are dropped here at the edge.
func parseSectionNames(names []string) ([]models.SectionType, error) {
	sections := make([]models.SectionType, 0, len(names))
	seen := make(map[models.SectionType]bool, len(names))
	for _, name := range names {
		sectionType, err := models.ParseSectionType(name)
		if err != nil {
			return nil, err
		}
		if seen[sectionType] {
			continue
		}
		seen[sectionType] = true
		sections = append(sections, sectionType)
	}
	return sections, nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// defaultModelName resolves the model recorded in section metadata.
func defaultModelName() string {
	if config.LLM.DefaultProvider == common.LLMProviderGemini {
		return config.Gemini.Model
	}
	return config.Claude.Model
}
