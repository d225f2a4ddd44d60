package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/repodoc/internal/models"
)

const (
	// maxPromptExcerpts bounds how many real code excerpts a section prompt
	// carries.
	maxPromptExcerpts = 3

	// maxPromptDependencies bounds the dependency list included in prompts.
	maxPromptDependencies = 20
)

// sectionInstructions holds the per-section prompt task description.
var sectionInstructions = map[models.SectionType]string{
	models.SectionOverview:        "Write a concise project overview: what the project is, the problem it solves and who it is for.",
	models.SectionGettingStarted:  "Write a getting-started guide covering prerequisites and the minimal steps to a first successful run.",
	models.SectionInstallation:    "Write installation instructions for this project, covering the package manager and build tooling it actually uses.",
	models.SectionUsage:           "Describe how the project is used day to day, grounded in its real entry points and commands.",
	models.SectionConfiguration:   "Document the configuration surface: configuration files, environment variables and their defaults.",
	models.SectionArchitecture:    "Describe the architecture: major components, how they interact and the patterns the codebase follows.",
	models.SectionAPIReference:    "Document the public API surface: exported entry points, their inputs and outputs.",
	models.SectionExamples:        "Provide worked examples demonstrating the project's main capabilities, grounded in its real code.",
	models.SectionTesting:         "Describe how the project is tested and how a contributor runs the test suite.",
	models.SectionDeployment:      "Describe how the project is built and deployed to a production environment.",
	models.SectionContributing:    "Write contribution guidelines: branching, code style and how to submit changes.",
	models.SectionTroubleshooting: "List common problems users hit with this kind of project and how to resolve them.",
	models.SectionChangelog:       "Summarize the notable capabilities of the current version as changelog-style entries.",
	models.SectionLicense:         "Describe the licensing and usage terms context for this project in neutral terms.",
}

// domainInstructions adds business-domain flavor to every section prompt.
var domainInstructions = map[string]string{
	"Game":            "This is a game project. Emphasize gameplay mechanics, controls and the rendering loop where relevant.",
	"Web API":         "This is a web API project. Emphasize endpoints, request/response shapes and integration concerns.",
	"Library":         "This is a reusable library. Emphasize the public API, integration steps and versioning expectations.",
	"Web Application": "This is a web application. Emphasize user-facing behavior, routing and state handling.",
	"CLI Tool":        "This is a command-line tool. Emphasize commands, flags and typical invocations.",
	"Documentation":   "This is a documentation project. Emphasize structure, navigation and contribution workflow.",
}

// languageInstructions adds language-idiom flavor; overridable via
// configuration.
var languageInstructions = map[string]string{
	"Go":         "Use Go terminology: packages, modules, goroutines. Show commands with the go tool.",
	"JavaScript": "Use JavaScript terminology and npm/yarn commands where commands are needed.",
	"TypeScript": "Use TypeScript terminology, mention type definitions and npm/yarn commands.",
	"Python":     "Use Python terminology: modules, virtual environments, pip commands.",
	"Rust":       "Use Rust terminology: crates, cargo commands, ownership where relevant.",
	"Java":       "Use Java terminology: packages, Maven/Gradle commands.",
	"Ruby":       "Use Ruby terminology: gems, bundler commands.",
	"C#":         "Use .NET terminology: projects, solutions, dotnet CLI commands.",
}

const systemInstruction = "You are a technical writer producing accurate repository documentation. " +
	"Only state facts supported by the provided repository analysis. " +
	"If the analysis does not cover something, say so instead of inventing details. " +
	"Write GitHub-flavored markdown without a top-level heading."

// buildSectionPrompt assembles the grounded prompt for one section from the
// analysis context plus caller instructions.
func buildSectionPrompt(analysis *models.RepositoryAnalysisContext, sectionType models.SectionType, customInstructions string, languageOverrides map[string]string) string {
	var b strings.Builder

	instruction, ok := sectionInstructions[sectionType]
	if !ok {
		instruction = fmt.Sprintf("Write the %s section of the project documentation.", models.SectionTitle(sectionType))
	}
	b.WriteString(instruction)
	b.WriteString("\n\n## Repository facts\n")
	fmt.Fprintf(&b, "- Name: %s/%s\n", analysis.Owner, analysis.RepositoryName)
	if analysis.PrimaryLanguage != "" {
		fmt.Fprintf(&b, "- Primary language: %s\n", analysis.PrimaryLanguage)
	}
	if len(analysis.Languages) > 1 {
		fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(analysis.Languages, ", "))
	}
	if analysis.Structure.ProjectType != "" {
		fmt.Fprintf(&b, "- Project type: %s\n", analysis.Structure.ProjectType)
	}
	if len(analysis.Structure.Frameworks) > 0 {
		fmt.Fprintf(&b, "- Frameworks: %s\n", strings.Join(analysis.Structure.Frameworks, ", "))
	}
	fmt.Fprintf(&b, "- Files: %d\n", analysis.Structure.TotalFiles)

	if deps := analysis.TopDependencies(maxPromptDependencies); len(deps) > 0 {
		b.WriteString("\n## Dependencies\n")
		for _, dep := range deps {
			if dep.Purpose != "" {
				fmt.Fprintf(&b, "- %s %s (%s)\n", dep.Name, dep.Version, dep.Purpose)
			} else {
				fmt.Fprintf(&b, "- %s %s\n", dep.Name, dep.Version)
			}
		}
	}

	writePurpose(&b, analysis.Purpose)
	writeComponents(&b, analysis.Components)
	writeExcerpts(&b, analysis.ImportantFiles)
	if sectionType == models.SectionChangelog {
		writeRecentCommits(&b, analysis.RecentCommits)
	}

	if domain := domainInstructions[analysis.Purpose.BusinessDomain]; domain != "" {
		b.WriteString("\n")
		b.WriteString(domain)
		b.WriteString("\n")
	}
	if lang := languageInstructionFor(analysis.PrimaryLanguage, languageOverrides); lang != "" {
		b.WriteString("\n")
		b.WriteString(lang)
		b.WriteString("\n")
	}
	if trimmed := strings.TrimSpace(customInstructions); trimmed != "" {
		b.WriteString("\n## Additional instructions\n")
		b.WriteString(trimmed)
		b.WriteString("\n")
	}

	return b.String()
}

func writePurpose(b *strings.Builder, purpose models.ProjectPurpose) {
	if purpose.Description == "" && len(purpose.KeyFeatures) == 0 {
		return
	}
	b.WriteString("\n## Project purpose\n")
	if purpose.Description != "" {
		fmt.Fprintf(b, "- Description: %s\n", purpose.Description)
	}
	if purpose.BusinessDomain != "" {
		fmt.Fprintf(b, "- Domain: %s\n", purpose.BusinessDomain)
	}
	if purpose.UserValue != "" {
		fmt.Fprintf(b, "- User value: %s\n", purpose.UserValue)
	}
	for _, feature := range purpose.KeyFeatures {
		fmt.Fprintf(b, "- Feature: %s\n", feature)
	}
}

func writeComponents(b *strings.Builder, components map[string]string) {
	if len(components) == 0 {
		return
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("\n## Components\n")
	for _, name := range names {
		fmt.Fprintf(b, "- %s: %s\n", name, components[name])
	}
}

func writeRecentCommits(b *strings.Builder, commits []models.CommitSummary) {
	if len(commits) == 0 {
		return
	}
	b.WriteString("\n## Recent commits\n")
	for _, commit := range commits {
		fmt.Fprintf(b, "- %s %s\n", commit.Date.Format("2006-01-02"), commit.Message)
	}
}

func writeExcerpts(b *strings.Builder, files []models.FileAnalysis) {
	written := 0
	for _, file := range files {
		if written == maxPromptExcerpts {
			break
		}
		if file.Content == "" {
			continue
		}
		if written == 0 {
			b.WriteString("\n## Code excerpts\n")
		}
		fmt.Fprintf(b, "\n### %s\n", file.Path)
		if file.Purpose != "" {
			fmt.Fprintf(b, "%s\n", file.Purpose)
		}
		fmt.Fprintf(b, "```%s\n%s\n```\n", strings.ToLower(file.Language), excerptOf(file.Content))
		written++
	}
}

// excerptOf returns the head of a file bounded to a prompt-friendly size.
func excerptOf(content string) string {
	const maxExcerptLines = 40
	lines := strings.Split(content, "\n")
	if len(lines) > maxExcerptLines {
		lines = lines[:maxExcerptLines]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func languageInstructionFor(language string, overrides map[string]string) string {
	if override, ok := overrides[language]; ok {
		return override
	}
	return languageInstructions[language]
}
