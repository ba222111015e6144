package analysis

import (
	"path"
	"strings"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

// vendorDirs are dependency caches, build output, IDE metadata, and VCS
// internals across the ecosystems we see in practice. A path containing any
// of these as a directory segment is never worth analyzing.
var vendorDirs = map[string]bool{
	// JavaScript/TypeScript
	"node_modules":     true,
	"bower_components": true,
	// Go, PHP
	"vendor": true,
	// Python
	"venv":          true,
	".venv":         true,
	"__pycache__":   true,
	".tox":          true,
	"site-packages": true,
	// build output
	"target": true,
	"build":  true,
	"dist":   true,
	"out":    true,
	"bin":    true,
	"obj":    true,
	// package caches (NuGet, Gradle, Maven, CocoaPods, Carthage, Ruby, Elixir, Dart)
	"packages":   true,
	".gradle":    true,
	".m2":        true,
	"Pods":       true,
	"Carthage":   true,
	".bundle":    true,
	"deps":       true,
	"_build":     true,
	".dart_tool": true,
	// framework build caches
	".next":       true,
	".nuxt":       true,
	".svelte-kit": true,
	"coverage":    true,
	// VCS internals
	".git": true,
	".svn": true,
	".hg":  true,
	// IDE metadata and infra state
	".idea":      true,
	".vscode":    true,
	".vs":        true,
	".terraform": true,
}

// binaryExtensions are media, archive, font, and compiled-object extensions
// whose contents carry no analyzable text.
var binaryExtensions = map[string]bool{
	// images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".svg": true, ".webp": true, ".tiff": true, ".psd": true,
	// audio / video
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true,
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".rar": true, ".7z": true, ".jar": true, ".war": true,
	// fonts
	".ttf": true, ".otf": true, ".woff": true, ".woff2": true, ".eot": true,
	// compiled objects and binaries
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".class": true, ".pyc": true, ".pyo": true, ".wasm": true,
	// documents and data dumps
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".sqlite": true, ".db": true, ".bin": true,
}

// oversizedLockfiles are machine-generated files excluded by exact filename;
// they are huge and their content adds nothing the manifest doesn't.
var oversizedLockfiles = map[string]bool{
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"Cargo.lock":        true,
	"composer.lock":     true,
	"Gemfile.lock":      true,
	"poetry.lock":       true,
	"Pipfile.lock":      true,
	"go.sum":            true,
	"flake.lock":        true,
}

// ShouldAnalyzePath decides whether a repository path is worth analyzing.
// Exclusion order: vendor/build directory segments first, then binary
// extensions, then known lockfiles by exact name. First match short-circuits.
func ShouldAnalyzePath(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if vendorDirs[segment] {
			return false
		}
	}

	if binaryExtensions[strings.ToLower(path.Ext(p))] {
		return false
	}

	if oversizedLockfiles[path.Base(p)] {
		return false
	}

	return true
}

// FilterAnalyzablePaths returns the file paths from entries that pass
// ShouldAnalyzePath, preserving tree order. Directories are skipped.
func FilterAnalyzablePaths(entries []domain.TreeEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsFile() {
			continue
		}
		if ShouldAnalyzePath(e.Path) {
			paths = append(paths, e.Path)
		}
	}
	return paths
}
