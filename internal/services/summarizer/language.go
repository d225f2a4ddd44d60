package summarizer

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps file extensions to language names.
var extensionLanguages = map[string]string{
	".go":    "Go",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".mjs":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".py":    "Python",
	".rb":    "Ruby",
	".java":  "Java",
	".kt":    "Kotlin",
	".cs":    "C#",
	".rs":    "Rust",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".hpp":   "C++",
	".php":   "PHP",
	".swift": "Swift",
	".scala": "Scala",
	".sh":    "Shell",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "CSS",
	".sql":   "SQL",
	".md":    "Markdown",
	".yml":   "YAML",
	".yaml":  "YAML",
	".toml":  "TOML",
	".json":  "JSON",
	".xml":   "XML",
}

// LanguageFromPath infers the language of a file from its extension.
// Unknown extensions yield "Unknown".
func LanguageFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return "Unknown"
}

// IsSourceLanguage reports whether the language is program source rather
// than markup, data, or documentation.
func IsSourceLanguage(lang string) bool {
	switch lang {
	case "Markdown", "YAML", "TOML", "JSON", "XML", "HTML", "CSS", "Unknown":
		return false
	default:
		return true
	}
}

// commentPrefixes lists the line-comment markers recognized when skipping
// comment lines during snippet extraction.
var commentPrefixes = []string{"//", "#", "--", ";", "*", "/*", "'''", "\"\"\""}

// isCommentLine reports whether a trimmed line starts with a comment marker.
func isCommentLine(line string) bool {
	for _, prefix := range commentPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
