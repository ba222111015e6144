package analysis

import (
	"log/slog"
	"path"
	"strings"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

// frontendDirSignals are directory names that indicate frontend code.
var frontendDirSignals = map[string]bool{
	"components": true,
	"pages":      true,
	"views":      true,
	"public":     true,
	"static":     true,
	"assets":     true,
	"styles":     true,
	"hooks":      true,
}

// backendDirSignals are directory names that indicate server-side code.
var backendDirSignals = map[string]bool{
	"controllers": true,
	"routes":      true,
	"models":      true,
	"services":    true,
	"handlers":    true,
	"middleware":  true,
	"api":         true,
	"repository":  true,
	"migrations":  true,
}

var frontendExtensions = map[string]bool{
	".jsx": true, ".tsx": true, ".vue": true, ".svelte": true,
	".html": true, ".css": true, ".scss": true, ".sass": true, ".less": true,
}

var backendExtensions = map[string]bool{
	".go": true, ".py": true, ".rb": true, ".php": true, ".java": true,
	".kt": true, ".rs": true, ".cs": true, ".ex": true, ".exs": true,
}

var sourceExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".rb": true, ".php": true, ".java": true, ".kt": true, ".rs": true, ".cs": true,
	".c": true, ".cpp": true, ".h": true, ".swift": true, ".vue": true, ".svelte": true,
	".ex": true, ".exs": true, ".scala": true, ".dart": true,
}

var configExtensions = map[string]bool{
	".json": true, ".yml": true, ".yaml": true, ".toml": true, ".ini": true,
	".env": true, ".xml": true, ".properties": true, ".conf": true,
}

var docExtensions = map[string]bool{
	".md": true, ".rst": true, ".txt": true, ".adoc": true,
}

// spaBuildConfigs are frontend build-tool config files whose presence refines
// a frontend-only project into an SPA.
var spaBuildConfigs = []string{
	"vite.config", "webpack.config", "next.config", "nuxt.config",
	"angular.json", "svelte.config",
}

// AnalyzeProjectStructure summarizes folder/file composition and derives the
// project's architectural shape from frontend/backend signals.
func AnalyzeProjectStructure(entries []domain.TreeEntry) domain.ProjectStructureProfile {
	profile := domain.ProjectStructureProfile{}

	var (
		hasFrontend     bool
		hasBackend      bool
		hasSPAConfig    bool
		hasPackageJSON  bool
		hasRequirements bool
		hasGoMod        bool
		seenTop         = map[string]bool{}
	)

	for _, e := range entries {
		segments := strings.Split(e.Path, "/")

		if len(segments) == 1 && !e.IsFile() {
			if !seenTop[e.Path] {
				seenTop[e.Path] = true
				profile.TopLevelFolders = append(profile.TopLevelFolders, e.Path)
			}
		}

		dirSegments := segments
		if e.IsFile() {
			dirSegments = segments[:len(segments)-1]
		}
		for _, seg := range dirSegments {
			lower := strings.ToLower(seg)
			if frontendDirSignals[lower] {
				hasFrontend = true
			}
			if backendDirSignals[lower] {
				hasBackend = true
			}
		}

		if !e.IsFile() {
			continue
		}

		base := path.Base(e.Path)
		ext := strings.ToLower(path.Ext(e.Path))

		if frontendExtensions[ext] {
			hasFrontend = true
		}
		if backendExtensions[ext] {
			hasBackend = true
		}

		switch base {
		case "package.json":
			hasPackageJSON = true
		case "requirements.txt", "pyproject.toml":
			hasRequirements = true
		case "go.mod":
			hasGoMod = true
		}
		for _, cfg := range spaBuildConfigs {
			if strings.HasPrefix(base, cfg) {
				hasSPAConfig = true
			}
		}

		switch {
		case isTestPath(e.Path):
			profile.FileTypeCounts.Test++
		case sourceExtensions[ext]:
			profile.FileTypeCounts.Source++
		case configExtensions[ext] || base == "Dockerfile" || base == "Makefile":
			profile.FileTypeCounts.Config++
		case docExtensions[ext]:
			profile.FileTypeCounts.Documentation++
		default:
			profile.FileTypeCounts.Other++
		}
	}

	// Decision table, evaluated in order; later rules never override an
	// earlier match.
	switch {
	case hasFrontend && hasBackend:
		profile.ProjectType = domain.ProjectTypeFullStack
	case hasFrontend:
		if hasSPAConfig {
			profile.ProjectType = domain.ProjectTypeFrontendSPA
		} else {
			profile.ProjectType = domain.ProjectTypeFrontend
		}
	case hasBackend:
		switch {
		case hasPackageJSON:
			profile.ProjectType = domain.ProjectTypeNodeAPI
		case hasRequirements:
			profile.ProjectType = domain.ProjectTypePythonAPI
		case hasGoMod:
			profile.ProjectType = domain.ProjectTypeGoAPI
		default:
			profile.ProjectType = domain.ProjectTypeBackendAPI
		}
	default:
		profile.ProjectType = domain.ProjectTypeLibrary
		slog.Info("no frontend or backend signal, classifying as library",
			"files", len(entries))
	}

	return profile
}

// isTestPath reports whether a path looks like test code.
func isTestPath(p string) bool {
	base := strings.ToLower(path.Base(p))
	if strings.HasSuffix(base, "_test.go") ||
		strings.HasPrefix(base, "test_") ||
		strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") {
		return true
	}
	for _, seg := range strings.Split(strings.ToLower(p), "/") {
		if seg == "test" || seg == "tests" || seg == "__tests__" || seg == "spec" {
			return true
		}
	}
	return false
}
