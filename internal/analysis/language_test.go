package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

func TestAnalyzeBranchLanguages_Basic(t *testing.T) {
	entries := []domain.TreeEntry{
		file("main.go"),
		file("server.go"),
		file("handler.go"),
		file("web/app.ts"),
	}

	stats := AnalyzeBranchLanguages(entries)

	require.Contains(t, stats, "Go")
	require.Contains(t, stats, "TypeScript")
	assert.Equal(t, 3, stats["Go"].Count)
	assert.Equal(t, 75, stats["Go"].Percentage)
	assert.Equal(t, 25, stats["TypeScript"].Percentage)
}

func TestAnalyzeBranchLanguages_PercentagesWithinBounds(t *testing.T) {
	entries := []domain.TreeEntry{
		file("a.go"), file("b.py"), file("c.rb"),
		file("d.ts"), file("e.rs"), file("f.java"), file("g.kt"),
	}

	stats := AnalyzeBranchLanguages(entries)
	require.NotEmpty(t, stats)
	for lang, stat := range stats {
		assert.GreaterOrEqual(t, stat.Percentage, 0, lang)
		assert.LessOrEqual(t, stat.Percentage, 100, lang)
		assert.Greater(t, stat.Count, 0, lang)
	}
}

func TestAnalyzeBranchLanguages_SpecialFilenames(t *testing.T) {
	entries := []domain.TreeEntry{
		file("Dockerfile"),
		file("Makefile"),
		file("ci/Jenkinsfile"),
	}

	stats := AnalyzeBranchLanguages(entries)
	assert.Contains(t, stats, "Docker")
	assert.Contains(t, stats, "Makefile")
	assert.Contains(t, stats, "Groovy")
}

func TestAnalyzeBranchLanguages_UnknownExtensionsIgnored(t *testing.T) {
	entries := []domain.TreeEntry{
		file("main.go"),
		file("mystery.xyz"),
		file("no-extension"),
	}

	stats := AnalyzeBranchLanguages(entries)
	require.Len(t, stats, 1)
	// Unknown files are excluded from the percentage base as well.
	assert.Equal(t, 100, stats["Go"].Percentage)
}

func TestAnalyzeBranchLanguages_EmptyTree(t *testing.T) {
	assert.Empty(t, AnalyzeBranchLanguages(nil))
	assert.Empty(t, AnalyzeBranchLanguages([]domain.TreeEntry{dir("src")}))
}

func TestAnalyzeBranchLanguages_DirectoriesIgnored(t *testing.T) {
	entries := []domain.TreeEntry{
		dir("src.go"), // a directory that happens to look like a file
		file("main.go"),
	}

	stats := AnalyzeBranchLanguages(entries)
	assert.Equal(t, 1, stats["Go"].Count)
}
