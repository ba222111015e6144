package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

func TestShouldAnalyzePath_VendorDirectories(t *testing.T) {
	excluded := []string{
		"node_modules/react/index.js",
		"src/node_modules/lodash/lodash.js",
		"vendor/github.com/lib/pq/conn.go",
		"venv/lib/python3.11/site-packages/flask/app.py",
		"target/classes/Main.class",
		"dist/bundle.js",
		".git/objects/ab/cdef",
		".idea/workspace.xml",
		"app/__pycache__/main.pyc",
		"ios/Pods/Alamofire/Source/Request.swift",
	}
	for _, p := range excluded {
		assert.False(t, ShouldAnalyzePath(p), "expected %q to be excluded", p)
	}
}

func TestShouldAnalyzePath_BinaryExtensions(t *testing.T) {
	excluded := []string{
		"assets/logo.png",
		"docs/demo.MP4",
		"fonts/inter.woff2",
		"releases/app-v1.2.3.zip",
		"lib/native.so",
		"data/dump.sqlite",
	}
	for _, p := range excluded {
		assert.False(t, ShouldAnalyzePath(p), "expected %q to be excluded", p)
	}
}

func TestShouldAnalyzePath_Lockfiles(t *testing.T) {
	assert.False(t, ShouldAnalyzePath("package-lock.json"))
	assert.False(t, ShouldAnalyzePath("frontend/yarn.lock"))
	assert.False(t, ShouldAnalyzePath("go.sum"))

	// The manifest next to the lockfile is fine.
	assert.True(t, ShouldAnalyzePath("package.json"))
	assert.True(t, ShouldAnalyzePath("go.mod"))
}

func TestShouldAnalyzePath_RegularSource(t *testing.T) {
	included := []string{
		"main.go",
		"src/components/Button.tsx",
		"internal/service/summary_service.go",
		"README.md",
		"Dockerfile",
		"scripts/deploy.sh",
	}
	for _, p := range included {
		assert.True(t, ShouldAnalyzePath(p), "expected %q to be included", p)
	}
}

func TestShouldAnalyzePath_VendorSegmentWinsOverExtension(t *testing.T) {
	// Directory exclusion is checked first; a perfectly good .go file inside
	// vendor is still excluded.
	assert.False(t, ShouldAnalyzePath("vendor/example.com/pkg/code.go"))
}

func TestFilterAnalyzablePaths(t *testing.T) {
	entries := []domain.TreeEntry{
		{Path: "src", Kind: domain.TreeEntryDirectory},
		{Path: "src/main.go", Kind: domain.TreeEntryFile, Size: 100},
		{Path: "node_modules/x/index.js", Kind: domain.TreeEntryFile, Size: 10},
		{Path: "logo.png", Kind: domain.TreeEntryFile, Size: 5000},
		{Path: "README.md", Kind: domain.TreeEntryFile, Size: 400},
	}

	paths := FilterAnalyzablePaths(entries)
	assert.Equal(t, []string{"src/main.go", "README.md"}, paths)
}
