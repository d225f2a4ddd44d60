// -----------------------------------------------------------------------
// File importance scoring
//
// Deterministic ranking that decides which files receive deep content
// analysis and prompt inclusion. Entry points and manifests score highest,
// core source next, tests lowest-nonzero; build artifacts are suppressed
// by a large multiplicative penalty.
// -----------------------------------------------------------------------

package analyzer

import (
	"path"
	"sort"
	"strings"

	"github.com/ternarybob/repodoc/internal/models"
)

const defaultMaxImportantFiles = 20

// coreSourceDirs mark directories whose files carry the main logic.
var coreSourceDirs = map[string]bool{
	"src": true, "lib": true, "app": true, "internal": true,
	"pkg": true, "cmd": true, "core": true,
}

// manifestNames are dependency/build manifests, scored like entry points.
var manifestNames = map[string]bool{
	"package.json": true, "go.mod": true, "cargo.toml": true,
	"requirements.txt": true, "pyproject.toml": true, "setup.py": true,
	"pom.xml": true, "build.gradle": true, "gemfile": true,
	"composer.json": true,
}

// suppressedNames are generated or lock files whose content adds nothing.
var suppressedNames = map[string]bool{
	"package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
	"go.sum": true, "cargo.lock": true, "poetry.lock": true,
	"gemfile.lock": true, "composer.lock": true,
}

// scoreFile computes the deterministic importance score of a tree entry.
func scoreFile(entry models.TreeEntry) float64 {
	base := strings.ToLower(path.Base(entry.Path))
	depth := strings.Count(entry.Path, "/")

	score := 1.0

	switch {
	case entryPointNames[base]:
		score += 10
	case manifestNames[base]:
		score += 8
	case readmePattern.MatchString(base):
		score += 7
	case isConfigFile(entry.Path):
		score += 4
	}

	for _, segment := range strings.Split(path.Dir(entry.Path), "/") {
		if coreSourceDirs[strings.ToLower(segment)] {
			score += 5
			break
		}
	}

	// Shallow files describe the project better than deeply nested ones.
	score -= 0.2 * float64(depth)
	if score < 0.1 {
		score = 0.1
	}

	if isTestFile(entry.Path) {
		score = 0.5
	}
	if suppressedNames[base] || strings.Contains(base, ".min.") || strings.HasSuffix(base, ".generated.go") {
		score *= 0.01
	}

	return score
}

// selectImportantFiles ranks the filtered tree and returns the top max
// entries with their scores, highest first. Ties break on path order so
// the selection is stable.
func selectImportantFiles(entries []models.TreeEntry, max int) []models.FileAnalysis {
	if max <= 0 {
		max = defaultMaxImportantFiles
	}

	scored := make([]models.FileAnalysis, 0, len(entries))
	for _, entry := range entries {
		scored = append(scored, models.FileAnalysis{
			Path:            entry.Path,
			Language:        "",
			ImportanceScore: scoreFile(entry),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].ImportanceScore != scored[j].ImportanceScore {
			return scored[i].ImportanceScore > scored[j].ImportanceScore
		}
		return scored[i].Path < scored[j].Path
	})

	if len(scored) > max {
		scored = scored[:max]
	}
	return scored
}
