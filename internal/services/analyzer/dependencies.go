// -----------------------------------------------------------------------
// Dependency extraction from ecosystem manifests
// -----------------------------------------------------------------------

package analyzer

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/repodoc/internal/models"
)

// manifestParsers maps manifest file names to their parser. Ecosystems
// without a parser contribute no dependencies rather than fabricated ones.
var manifestParsers = map[string]func(content string) []models.DependencyInfo{
	"package.json":     parsePackageJSON,
	"go.mod":           parseGoMod,
	"requirements.txt": parseRequirementsTxt,
	"cargo.toml":       parseCargoToml,
}

// dependencyPurposes names the role of well-known dependencies.
var dependencyPurposes = map[string]string{
	"react":    "UI framework",
	"vue":      "UI framework",
	"express":  "web server",
	"axios":    "HTTP client",
	"lodash":   "utility library",
	"jest":     "testing",
	"mocha":    "testing",
	"eslint":   "linting",
	"webpack":  "bundling",
	"vite":     "bundling",
	"django":   "web framework",
	"flask":    "web framework",
	"requests": "HTTP client",
	"pytest":   "testing",
	"numpy":    "numerical computing",
	"pandas":   "data analysis",
	"serde":    "serialization",
	"tokio":    "async runtime",
	"github.com/stretchr/testify": "testing",
	"github.com/google/uuid":      "identifiers",
}

func purposeFor(name string) string {
	return dependencyPurposes[strings.ToLower(name)]
}

// parsePackageJSON extracts dependencies and devDependencies.
func parsePackageJSON(content string) []models.DependencyInfo {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		return nil
	}

	var deps []models.DependencyInfo
	for name, version := range manifest.Dependencies {
		deps = append(deps, models.DependencyInfo{
			Name: name, Version: version, Ecosystem: "npm",
			Purpose: purposeFor(name), IsDirect: true,
		})
	}
	for name, version := range manifest.DevDependencies {
		deps = append(deps, models.DependencyInfo{
			Name: name, Version: version, Ecosystem: "npm",
			Purpose: purposeFor(name), IsDirect: false,
		})
	}
	sortDependencies(deps)
	return deps
}

// parseGoMod extracts require directives; "// indirect" marks transitive
// dependencies.
func parseGoMod(content string) []models.DependencyInfo {
	var deps []models.DependencyInfo
	inRequire := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "require ("):
			inRequire = true
			continue
		case inRequire && trimmed == ")":
			inRequire = false
			continue
		}

		var spec string
		if inRequire {
			spec = trimmed
		} else if strings.HasPrefix(trimmed, "require ") {
			spec = strings.TrimPrefix(trimmed, "require ")
		} else {
			continue
		}

		fields := strings.Fields(spec)
		if len(fields) < 2 {
			continue
		}
		deps = append(deps, models.DependencyInfo{
			Name:      fields[0],
			Version:   fields[1],
			Ecosystem: "go",
			Purpose:   purposeFor(fields[0]),
			IsDirect:  !strings.Contains(spec, "// indirect"),
		})
	}
	return deps
}

// parseRequirementsTxt extracts pinned and ranged requirement lines.
func parseRequirementsTxt(content string) []models.DependencyInfo {
	var deps []models.DependencyInfo
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") {
			continue
		}
		name, version := trimmed, ""
		for _, sep := range []string{"==", ">=", "<=", "~=", ">", "<"} {
			if idx := strings.Index(trimmed, sep); idx > 0 {
				name, version = trimmed[:idx], strings.TrimSpace(trimmed[idx+len(sep):])
				break
			}
		}
		name = strings.TrimSpace(strings.SplitN(name, "[", 2)[0])
		if name == "" {
			continue
		}
		deps = append(deps, models.DependencyInfo{
			Name: name, Version: version, Ecosystem: "pypi",
			Purpose: purposeFor(name), IsDirect: true,
		})
	}
	return deps
}

// parseCargoToml extracts [dependencies] and [dev-dependencies] tables.
// Values are either version strings or tables with a version key.
func parseCargoToml(content string) []models.DependencyInfo {
	var manifest struct {
		Dependencies    map[string]interface{} `toml:"dependencies"`
		DevDependencies map[string]interface{} `toml:"dev-dependencies"`
	}
	if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
		return nil
	}

	extract := func(table map[string]interface{}, direct bool) []models.DependencyInfo {
		var deps []models.DependencyInfo
		for name, value := range table {
			version := ""
			switch v := value.(type) {
			case string:
				version = v
			case map[string]interface{}:
				if ver, ok := v["version"].(string); ok {
					version = ver
				}
			}
			deps = append(deps, models.DependencyInfo{
				Name: name, Version: version, Ecosystem: "crates",
				Purpose: purposeFor(name), IsDirect: direct,
			})
		}
		return deps
	}

	deps := append(extract(manifest.Dependencies, true), extract(manifest.DevDependencies, false)...)
	sortDependencies(deps)
	return deps
}

// sortDependencies orders by direct-first then name, for stable output from
// map-backed manifests.
func sortDependencies(deps []models.DependencyInfo) {
	sort.SliceStable(deps, func(i, j int) bool {
		if deps[i].IsDirect != deps[j].IsDirect {
			return deps[i].IsDirect
		}
		return deps[i].Name < deps[j].Name
	})
}
