package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) ModelName() string { return "fake-model" }

func (f *fakeCompleter) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func composerInput() ComposerInput {
	return ComposerInput{
		Ref:    domain.RepositoryRef{Owner: "acme", Name: "tracker", Branch: "main"},
		Readme: "A task tracker.",
		Commits: []domain.CommitInfo{
			{Message: "feat: add auth\n\nlong body", Author: "alice"},
			{Message: "fix: race in tracker", Author: "bob"},
		},
		PullRequests: []domain.PullRequestInfo{
			{Number: 12, Title: "Add auth", Body: "Adds session auth.\nMore detail."},
		},
		TechStack: domain.TechStackProfile{
			Frontend: []string{"React"},
			Backend:  []string{"Express", "Node.js"},
			Detected: []string{"Express", "Node.js", "React"},
		},
		Structure: domain.ProjectStructureProfile{
			TopLevelFolders: []string{"client", "server"},
			ProjectType:     domain.ProjectTypeFullStack,
			FileTypeCounts:  domain.FileTypeCounts{Source: 40, Config: 5, Test: 10},
		},
		Languages: domain.LanguageStats{
			"JavaScript": {Count: 30, Percentage: 75},
			"CSS":        {Count: 10, Percentage: 25},
		},
		FileContents: map[string]string{
			"package.json":        `{"dependencies":{"react":"18"}}`,
			"server/package.json": `{"dependencies":{"express":"4"}}`,
		},
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	in := composerInput()
	first := BuildPrompt(in)
	for range 10 {
		assert.Equal(t, first, BuildPrompt(in))
	}
}

func TestBuildPrompt_ContainsContractAndInputs(t *testing.T) {
	prompt := BuildPrompt(composerInput())

	for _, heading := range []string{
		"## 1. Project Introduction",
		"## 2. Tech Stack",
		"## 3. Architecture",
		"## 4. Refactoring History",
		"## 5. Collaboration Flow",
		"## 6. Resume Bullets",
	} {
		assert.Contains(t, prompt, heading)
	}

	assert.Contains(t, prompt, "REPOSITORY: acme/tracker (branch main)")
	assert.Contains(t, prompt, "PROJECT TYPE: Full-Stack Application")
	assert.Contains(t, prompt, "- Backend: Express, Node.js")
	assert.Contains(t, prompt, "- JavaScript: 75% (30 files)")
	assert.Contains(t, prompt, "TOP-LEVEL FOLDERS: client, server")
	// Commit messages are cut at the first line.
	assert.Contains(t, prompt, "- feat: add auth (alice)")
	assert.NotContains(t, prompt, "long body")
	assert.Contains(t, prompt, "- #12 Add auth")
	assert.Contains(t, prompt, "--- package.json ---")
}

func TestBuildPrompt_LanguagesOrderedByCountDesc(t *testing.T) {
	prompt := BuildPrompt(composerInput())
	js := strings.Index(prompt, "- JavaScript:")
	css := strings.Index(prompt, "- CSS:")
	require.Positive(t, js)
	require.Positive(t, css)
	assert.Less(t, js, css)
}

func TestBuildPrompt_CommitsCapped(t *testing.T) {
	in := composerInput()
	in.Commits = nil
	for i := 0; i < 30; i++ {
		in.Commits = append(in.Commits, domain.CommitInfo{Message: "chore: bump", Author: "bot"})
	}
	prompt := BuildPrompt(in)
	assert.Equal(t, MaxCommitsInPrompt, strings.Count(prompt, "- chore: bump (bot)"))
}

func TestCompose_ReturnsResponseAndPromptChars(t *testing.T) {
	completer := &fakeCompleter{response: "## 1. Project Introduction\nhi"}
	composer := NewSummaryComposer(completer, 0)

	comp, err := composer.Compose(context.Background(), composerInput())
	require.NoError(t, err)
	assert.Equal(t, completer.response, comp.Response)
	require.Len(t, completer.prompts, 1)
	assert.Equal(t, len(completer.prompts[0]), comp.PromptChars)
}

func TestCompose_WrapsCompletionFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model unavailable")}
	composer := NewSummaryComposer(completer, 512)

	comp, err := composer.Compose(context.Background(), composerInput())
	assert.Nil(t, comp)
	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrCompletionFailed)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestTruncate_RespectsRuneBoundaries(t *testing.T) {
	s := strings.Repeat("é", 300) // 2 bytes per rune

	out := truncate(s, 5) // limit falls mid-rune
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "éé…", out)

	assert.Equal(t, "éé", truncate("éé", 4))
}
