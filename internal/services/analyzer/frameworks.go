// -----------------------------------------------------------------------
// Project type and framework detection
//
// A fixed decision table maps ecosystem marker files to a project type;
// framework markers and dependency names refine the framework set.
// Unmatched combinations yield "Unknown".
// -----------------------------------------------------------------------

package analyzer

import (
	"path"
	"strings"

	"github.com/ternarybob/repodoc/internal/models"
)

// typeMarker maps a manifest/build file name to a project type. Earlier
// entries win when several markers are present.
type typeMarker struct {
	file        string
	projectType string
}

var projectTypeTable = []typeMarker{
	{"go.mod", "Go"},
	{"cargo.toml", "Rust"},
	{"package.json", "Node.js"},
	{"pyproject.toml", "Python"},
	{"requirements.txt", "Python"},
	{"setup.py", "Python"},
	{"pom.xml", "Java"},
	{"build.gradle", "Java"},
	{"build.gradle.kts", "Kotlin"},
	{"gemfile", "Ruby"},
	{"composer.json", "PHP"},
	{"mix.exs", "Elixir"},
	{"pubspec.yaml", "Dart"},
}

// frameworkMarkers maps specific file names to frameworks.
var frameworkMarkers = map[string]string{
	"angular.json":       "Angular",
	"next.config.js":     "Next.js",
	"next.config.mjs":    "Next.js",
	"nuxt.config.js":     "Nuxt",
	"vue.config.js":      "Vue",
	"svelte.config.js":   "Svelte",
	"tailwind.config.js": "Tailwind CSS",
	"docker-compose.yml": "Docker Compose",
	"serverless.yml":     "Serverless",
}

// frameworkDependencies maps dependency names to frameworks.
var frameworkDependencies = map[string]string{
	"react":                        "React",
	"vue":                          "Vue",
	"@angular/core":                "Angular",
	"express":                      "Express",
	"next":                         "Next.js",
	"svelte":                       "Svelte",
	"fastify":                      "Fastify",
	"nestjs":                       "NestJS",
	"@nestjs/core":                 "NestJS",
	"django":                       "Django",
	"flask":                        "Flask",
	"fastapi":                      "FastAPI",
	"rails":                        "Ruby on Rails",
	"spring-boot-starter":          "Spring Boot",
	"github.com/gin-gonic/gin":     "Gin",
	"github.com/labstack/echo/v4":  "Echo",
	"github.com/go-chi/chi/v5":     "Chi",
	"github.com/gofiber/fiber/v2":  "Fiber",
	"github.com/spf13/cobra":       "Cobra",
	"actix-web":                    "Actix Web",
	"rocket":                       "Rocket",
	"laravel/framework":            "Laravel",
}

// detectProjectType resolves the project type from the marker files present
// in the tree. A package.json alongside a tsconfig.json upgrades Node.js to
// TypeScript.
func detectProjectType(entries []models.TreeEntry) string {
	present := make(map[string]bool)
	for _, entry := range entries {
		// Only root-level and shallow markers count; a vendored manifest
		// deep in the tree does not define the project.
		if strings.Count(entry.Path, "/") > 1 {
			continue
		}
		present[strings.ToLower(path.Base(entry.Path))] = true
	}

	for _, marker := range projectTypeTable {
		if present[marker.file] {
			if marker.projectType == "Node.js" && present["tsconfig.json"] {
				return "TypeScript"
			}
			return marker.projectType
		}
	}

	if present["index.html"] {
		return "Static Web"
	}
	return "Unknown"
}

// detectFrameworks resolves the framework set from file markers and
// extracted dependency names. The result is deduplicated and order-stable.
func detectFrameworks(entries []models.TreeEntry, dependencies []models.DependencyInfo) []string {
	var frameworks []string
	seen := make(map[string]bool)

	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			frameworks = append(frameworks, name)
		}
	}

	for _, entry := range entries {
		add(frameworkMarkers[strings.ToLower(path.Base(entry.Path))])
	}
	for _, dep := range dependencies {
		add(frameworkDependencies[strings.ToLower(dep.Name)])
	}

	return frameworks
}
