// -----------------------------------------------------------------------
// Project structure analysis - noise filtering, directory classification,
// entry-point and file-category detection
// -----------------------------------------------------------------------

package analyzer

import (
	"path"
	"regexp"
	"strings"

	"github.com/ternarybob/repodoc/internal/models"
)

// noiseSegments are path segments that mark version-control internals,
// build output and package-manager caches. Files beneath them are excluded
// from analysis entirely.
var noiseSegments = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"target":       true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
	".next":        true,
	".nuxt":        true,
	"coverage":     true,
	".cache":       true,
	"obj":          true,
}

// directoryPurposes classifies directory names against a fixed vocabulary.
var directoryPurposes = map[string]string{
	"src":         "Source code",
	"lib":         "Source code",
	"app":         "Source code",
	"internal":    "Source code",
	"pkg":         "Source code",
	"cmd":         "Entry points",
	"test":        "Tests",
	"tests":       "Tests",
	"__tests__":   "Tests",
	"spec":        "Tests",
	"docs":        "Documentation",
	"doc":         "Documentation",
	"config":      "Configuration",
	"conf":        "Configuration",
	"settings":    "Configuration",
	"dist":        "Build output",
	"build":       "Build output",
	"target":      "Build output",
	"vendor":      "Third-party libraries",
	"node_modules": "Third-party libraries",
	"assets":      "Assets",
	"static":      "Assets",
	"public":      "Assets",
	"images":      "Assets",
	"components":  "UI components",
	"services":    "Services",
	"models":      "Data models",
	"controllers": "Controllers",
	"handlers":    "Controllers",
	"views":       "Views",
	"templates":   "Views",
	"utils":       "Utilities",
	"helpers":     "Utilities",
	"common":      "Utilities",
	"api":         "API",
	"migrations":  "Database migrations",
}

// entryPointNames are file names that mark program entry points.
var entryPointNames = map[string]bool{
	"main.go":     true,
	"main.py":     true,
	"__main__.py": true,
	"app.py":      true,
	"index.js":    true,
	"index.ts":    true,
	"app.js":      true,
	"server.js":   true,
	"main.js":     true,
	"main.ts":     true,
	"main.rs":     true,
	"main.c":      true,
	"main.cpp":    true,
	"program.cs":  true,
	"main.java":   true,
	"index.html":  true,
}

var (
	configExtensions = map[string]bool{
		".json": true, ".yml": true, ".yaml": true, ".toml": true,
		".ini": true, ".conf": true, ".env": true, ".properties": true,
	}
	configNames = map[string]bool{
		"dockerfile": true, "makefile": true, ".gitignore": true,
		".editorconfig": true, ".env": true,
	}

	testFilePattern = regexp.MustCompile(`(?i)(_test\.|\.test\.|\.spec\.|^test_|/test_|Test\w*\.java$)`)
	docExtensions   = map[string]bool{".md": true, ".rst": true, ".txt": true, ".adoc": true}

	readmePattern = regexp.MustCompile(`(?i)^readme(\.(md|rst|txt|adoc))?$`)

	binaryExtensions = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
		".svg": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
		".zip": true, ".gz": true, ".tar": true, ".pdf": true, ".exe": true,
		".dll": true, ".so": true, ".dylib": true, ".bin": true, ".jar": true,
		".class": true, ".pyc": true, ".wasm": true, ".mp3": true, ".mp4": true,
	}
)

// isNoisePath reports whether any path segment marks build/dependency noise.
func isNoisePath(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if noiseSegments[strings.ToLower(segment)] {
			return true
		}
	}
	return false
}

// isBinaryPath reports whether the file extension marks binary content.
func isBinaryPath(p string) bool {
	return binaryExtensions[strings.ToLower(path.Ext(p))]
}

// filterNoise drops noise and binary entries from a tree listing.
func filterNoise(entries []models.TreeEntry) []models.TreeEntry {
	filtered := make([]models.TreeEntry, 0, len(entries))
	for _, entry := range entries {
		if isNoisePath(entry.Path) || isBinaryPath(entry.Path) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// isConfigFile reports whether a path names a configuration file.
func isConfigFile(p string) bool {
	base := strings.ToLower(path.Base(p))
	if configNames[base] {
		return true
	}
	return configExtensions[strings.ToLower(path.Ext(p))]
}

// isTestFile reports whether a path names a test file.
func isTestFile(p string) bool {
	if testFilePattern.MatchString(p) {
		return true
	}
	for _, segment := range strings.Split(path.Dir(p), "/") {
		purpose := directoryPurposes[strings.ToLower(segment)]
		if purpose == "Tests" {
			return true
		}
	}
	return false
}

// isDocFile reports whether a path names documentation.
func isDocFile(p string) bool {
	base := strings.ToLower(path.Base(p))
	if readmePattern.MatchString(base) || strings.HasPrefix(base, "license") || strings.HasPrefix(base, "changelog") {
		return true
	}
	return docExtensions[strings.ToLower(path.Ext(p))]
}

// analyzeStructure classifies a filtered tree into the project structure
// summary: directory purposes, entry points and file categories.
func analyzeStructure(entries []models.TreeEntry) models.ProjectStructureAnalysis {
	structure := models.ProjectStructureAnalysis{
		DirectoryPurposes: make(map[string]string),
	}

	for _, entry := range entries {
		structure.TotalFiles++
		structure.TotalSizeBytes += int64(entry.Size)

		dir := path.Dir(entry.Path)
		if dir != "." {
			for _, segment := range strings.Split(dir, "/") {
				if purpose, ok := directoryPurposes[strings.ToLower(segment)]; ok {
					structure.DirectoryPurposes[segment] = purpose
				}
			}
		}

		base := strings.ToLower(path.Base(entry.Path))
		switch {
		case entryPointNames[base]:
			structure.EntryPoints = append(structure.EntryPoints, entry.Path)
		case isTestFile(entry.Path):
			structure.TestFiles = append(structure.TestFiles, entry.Path)
		case isDocFile(entry.Path):
			structure.DocumentationFiles = append(structure.DocumentationFiles, entry.Path)
		case isConfigFile(entry.Path):
			structure.ConfigFiles = append(structure.ConfigFiles, entry.Path)
		}
	}

	return structure
}

// findReadme returns the path of the repository README, preferring one at
// the repository root.
func findReadme(entries []models.TreeEntry) string {
	fallback := ""
	for _, entry := range entries {
		if !readmePattern.MatchString(strings.ToLower(path.Base(entry.Path))) {
			continue
		}
		if !strings.Contains(entry.Path, "/") {
			return entry.Path
		}
		if fallback == "" {
			fallback = entry.Path
		}
	}
	return fallback
}
