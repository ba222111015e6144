package analysis

import (
	"math"
	"path"
	"strings"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

// extensionLanguages maps file extensions to language names.
var extensionLanguages = map[string]string{
	".go":     "Go",
	".py":     "Python",
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".java":   "Java",
	".kt":     "Kotlin",
	".rb":     "Ruby",
	".php":    "PHP",
	".rs":     "Rust",
	".c":      "C",
	".h":      "C",
	".cpp":    "C++",
	".cc":     "C++",
	".hpp":    "C++",
	".cs":     "C#",
	".swift":  "Swift",
	".m":      "Objective-C",
	".scala":  "Scala",
	".dart":   "Dart",
	".ex":     "Elixir",
	".exs":    "Elixir",
	".erl":    "Erlang",
	".hs":     "Haskell",
	".lua":    "Lua",
	".r":      "R",
	".pl":     "Perl",
	".sh":     "Shell",
	".bash":   "Shell",
	".ps1":    "PowerShell",
	".sql":    "SQL",
	".html":   "HTML",
	".css":    "CSS",
	".scss":   "SCSS",
	".sass":   "SCSS",
	".less":   "Less",
	".vue":    "Vue",
	".svelte": "Svelte",
	".json":   "JSON",
	".yml":    "YAML",
	".yaml":   "YAML",
	".toml":   "TOML",
	".xml":    "XML",
	".md":     "Markdown",
	".proto":  "Protocol Buffers",
	".tf":     "HCL",
	".gradle": "Groovy",
	".groovy": "Groovy",
	".vim":    "Vim Script",
	".zig":    "Zig",
	".nim":    "Nim",
	".clj":    "Clojure",
	".fs":     "F#",
	".ml":     "OCaml",
}

// filenameLanguages special-cases well-known files without an extension.
var filenameLanguages = map[string]string{
	"Dockerfile":     "Docker",
	"Makefile":       "Makefile",
	"Jenkinsfile":    "Groovy",
	"CMakeLists.txt": "CMake",
	"Rakefile":       "Ruby",
	"Gemfile":        "Ruby",
	"Vagrantfile":    "Ruby",
}

// AnalyzeBranchLanguages computes per-branch language distribution from file
// extensions. Files whose extension is not in the table are ignored, both in
// the tally and in the percentage base. Zero files yields an empty result.
func AnalyzeBranchLanguages(entries []domain.TreeEntry) domain.LanguageStats {
	counts := make(map[string]int)
	total := 0

	for _, e := range entries {
		if !e.IsFile() {
			continue
		}
		lang, ok := languageForPath(e.Path)
		if !ok {
			continue
		}
		counts[lang]++
		total++
	}

	stats := make(domain.LanguageStats, len(counts))
	if total == 0 {
		return stats
	}

	for lang, count := range counts {
		stats[lang] = domain.LanguageStat{
			Count:      count,
			Percentage: int(math.Round(float64(count) / float64(total) * 100)),
		}
	}
	return stats
}

// languageForPath resolves a path to a language, filename special cases first.
func languageForPath(p string) (string, bool) {
	base := path.Base(p)
	if lang, ok := filenameLanguages[base]; ok {
		return lang, true
	}
	lang, ok := extensionLanguages[strings.ToLower(path.Ext(p))]
	return lang, ok
}
