// -----------------------------------------------------------------------
// Functionality signal tables
//
// Heuristic classification is data-driven: a table of (pattern, label)
// pairs per language family, evaluated against file content. Labels feed
// the functionality sentence; the tables are the extension point for new
// languages or signals.
// -----------------------------------------------------------------------

package summarizer

import "regexp"

// signalPattern tags content matching a pattern with a functionality label.
type signalPattern struct {
	re    *regexp.Regexp
	label string
}

// functionalitySignals holds per-language signal tables. The "*" key
// applies to every language.
var functionalitySignals = map[string][]signalPattern{
	"JavaScript": {
		{regexp.MustCompile(`(?i)getContext\s*\(\s*['"]2d['"]\s*\)|requestAnimationFrame|canvas`), "canvas rendering"},
		{regexp.MustCompile(`(?i)\b(game|player|score|level|sprite|collision|enemy)\b`), "game logic"},
		{regexp.MustCompile(`addEventListener\s*\(`), "browser event handling"},
		{regexp.MustCompile(`(?i)\bfetch\s*\(|axios|XMLHttpRequest`), "HTTP requests"},
		{regexp.MustCompile(`(?i)express\(\)|app\.(get|post|put|delete)\s*\(`), "HTTP routing"},
		{regexp.MustCompile(`(?i)document\.(getElementById|querySelector)`), "DOM manipulation"},
	},
	"TypeScript": {
		{regexp.MustCompile(`(?i)getContext\s*\(\s*['"]2d['"]\s*\)|requestAnimationFrame|canvas`), "canvas rendering"},
		{regexp.MustCompile(`(?i)\b(game|player|score|level|sprite|collision)\b`), "game logic"},
		{regexp.MustCompile(`addEventListener\s*\(`), "browser event handling"},
		{regexp.MustCompile(`(?i)\bfetch\s*\(|axios`), "HTTP requests"},
		{regexp.MustCompile(`@(Component|Injectable|Controller|Module)\b`), "framework components"},
	},
	"Go": {
		{regexp.MustCompile(`http\.(HandleFunc|ListenAndServe)|mux\.|chi\.|gin\.`), "HTTP serving"},
		{regexp.MustCompile(`\bgo\s+func\b|chan\b|sync\.(WaitGroup|Mutex)`), "concurrent processing"},
		{regexp.MustCompile(`sql\.Open|gorm\.|pgx\.`), "database access"},
		{regexp.MustCompile(`json\.(Marshal|Unmarshal)`), "JSON serialization"},
		{regexp.MustCompile(`flag\.(String|Int|Bool|Parse)|cobra\.`), "command-line interface"},
	},
	"Python": {
		{regexp.MustCompile(`(?i)flask|fastapi|django`), "web framework"},
		{regexp.MustCompile(`(?i)requests\.(get|post)|urllib|httpx`), "HTTP requests"},
		{regexp.MustCompile(`(?i)pandas|numpy|sklearn|torch|tensorflow`), "data processing"},
		{regexp.MustCompile(`(?i)pygame|arcade`), "game logic"},
		{regexp.MustCompile(`argparse|click\.|typer`), "command-line interface"},
	},
	"*": {
		{regexp.MustCompile(`(?i)\btest\w*\s*\(|assert`), "test coverage"},
		{regexp.MustCompile(`(?i)\b(websocket|socket\.io)\b`), "realtime communication"},
	},
}

// Per-language declaration patterns. Submatch 1 captures the declared name.
var (
	classPatterns = map[string]*regexp.Regexp{
		"JavaScript": regexp.MustCompile(`(?m)^\s*(?:export\s+)?class\s+(\w+)`),
		"TypeScript": regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:abstract\s+)?class\s+(\w+)`),
		"Python":     regexp.MustCompile(`(?m)^class\s+(\w+)`),
		"Java":       regexp.MustCompile(`(?m)^\s*(?:public\s+|final\s+|abstract\s+)*class\s+(\w+)`),
		"C#":         regexp.MustCompile(`(?m)^\s*(?:public\s+|internal\s+|sealed\s+|abstract\s+|partial\s+)*class\s+(\w+)`),
		"Ruby":       regexp.MustCompile(`(?m)^\s*class\s+(\w+)`),
		"Go":         regexp.MustCompile(`(?m)^type\s+(\w+)\s+struct\b`),
		"Rust":       regexp.MustCompile(`(?m)^\s*(?:pub\s+)?struct\s+(\w+)`),
	}

	functionPatterns = map[string]*regexp.Regexp{
		"JavaScript": regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)|(?m)^\s*(?:const|let)\s+(\w+)\s*=\s*(?:async\s*)?\(`),
		"TypeScript": regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)|(?m)^\s*(?:const|let)\s+(\w+)\s*=\s*(?:async\s*)?\(`),
		"Python":     regexp.MustCompile(`(?m)^\s*def\s+(\w+)`),
		"Go":         regexp.MustCompile(`(?m)^func\s+(?:\([^)]+\)\s+)?(\w+)\s*\(`),
		"Java":       regexp.MustCompile(`(?m)^\s*(?:public|private|protected)[\w\s<>\[\]]*\s+(\w+)\s*\([^;]*\)\s*\{`),
		"C#":         regexp.MustCompile(`(?m)^\s*(?:public|private|protected|internal)[\w\s<>\[\]]*\s+(\w+)\s*\([^;]*\)`),
		"Ruby":       regexp.MustCompile(`(?m)^\s*def\s+(\w+)`),
		"Rust":       regexp.MustCompile(`(?m)^\s*(?:pub\s+)?(?:async\s+)?fn\s+(\w+)`),
	}

	importPatterns = map[string]*regexp.Regexp{
		"JavaScript": regexp.MustCompile(`(?m)^\s*import\s+.*?from\s+['"]([^'"]+)['"]|require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
		"TypeScript": regexp.MustCompile(`(?m)^\s*import\s+.*?from\s+['"]([^'"]+)['"]`),
		"Python":     regexp.MustCompile(`(?m)^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`),
		"Go":         regexp.MustCompile(`(?m)^\s*(?:import\s+)?"([^"]+)"`),
		"Java":       regexp.MustCompile(`(?m)^import\s+([\w.]+);`),
		"C#":         regexp.MustCompile(`(?m)^using\s+([\w.]+);`),
		"Ruby":       regexp.MustCompile(`(?m)^\s*require(?:_relative)?\s+['"]([^'"]+)['"]`),
		"Rust":       regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)`),
	}
)

// firstSubmatch returns the first non-empty capture group of a match.
func firstSubmatch(match []string) string {
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
