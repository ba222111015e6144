package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
	"github.com/arturoeanton/gitfolio-ai/internal/port"
)

// Input caps for prompt construction.
const (
	MaxCommitsInPrompt      = 20
	MaxPullRequestsInPrompt = 10
	MaxReadmeChars          = 4000
	MaxFileExcerptChars     = 1500
	DefaultMaxTokens        = 2048
)

// responseContract is the numbered-heading contract the extractor relies on.
const responseContract = `Respond in Markdown using EXACTLY these numbered section headings, in this order:

## 1. Project Introduction
## 2. Tech Stack
## 3. Architecture
## 4. Refactoring History
## 5. Collaboration Flow
## 6. Resume Bullets

Under "6. Resume Bullets", write each bullet as "Achievement N: <title>: <one or two sentences>".
Mention ONLY technologies listed in the DETECTED TECH STACK section below. Do not invent technologies.`

// ComposerInput bundles everything the composer needs for one run.
type ComposerInput struct {
	Ref          domain.RepositoryRef
	Readme       string
	Commits      []domain.CommitInfo
	PullRequests []domain.PullRequestInfo
	TechStack    domain.TechStackProfile
	Structure    domain.ProjectStructureProfile
	Languages    domain.LanguageStats
	FileContents map[string]string
}

// SummaryComposer assembles a deterministic prompt from the analysis profiles
// and submits it to the completion collaborator. It returns the raw freeform
// response; parsing is the extractor's job. No retries: a completion failure
// propagates to the caller as a generation failure.
type SummaryComposer struct {
	completer port.CompletionProvider
	maxTokens int
}

// NewSummaryComposer creates a composer over the given completion provider.
func NewSummaryComposer(completer port.CompletionProvider, maxTokens int) *SummaryComposer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &SummaryComposer{completer: completer, maxTokens: maxTokens}
}

// Composition is the raw outcome of one completion call.
type Composition struct {
	Response    string
	PromptChars int
}

// Compose builds the prompt and invokes the completion service once.
func (c *SummaryComposer) Compose(ctx context.Context, in ComposerInput) (*Composition, error) {
	prompt := BuildPrompt(in)

	slog.Info("requesting summary completion",
		"repo", in.Ref.FullName(), "branch", in.Ref.Branch,
		"model", c.completer.ModelName(), "prompt_chars", len(prompt))

	response, err := c.completer.Complete(ctx, prompt, c.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrCompletionFailed, err)
	}
	return &Composition{Response: response, PromptChars: len(prompt)}, nil
}

// BuildPrompt renders the analysis inputs into a single prompt with fixed
// section ordering. Same inputs always yield the same prompt.
func BuildPrompt(in ComposerInput) string {
	var b strings.Builder

	b.WriteString("You are a senior engineer writing a technical summary of a repository for a developer portfolio.\n\n")
	b.WriteString(responseContract)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "REPOSITORY: %s (branch %s)\n", in.Ref.FullName(), in.Ref.Branch)
	fmt.Fprintf(&b, "PROJECT TYPE: %s\n\n", in.Structure.ProjectType)

	b.WriteString("DETECTED TECH STACK:\n")
	writeCategory(&b, "Frontend", in.TechStack.Frontend)
	writeCategory(&b, "Backend", in.TechStack.Backend)
	writeCategory(&b, "Database", in.TechStack.Database)
	writeCategory(&b, "DevOps", in.TechStack.DevOps)
	writeCategory(&b, "Testing", in.TechStack.Testing)
	b.WriteString("\n")

	b.WriteString("LANGUAGE DISTRIBUTION:\n")
	for _, lang := range sortedLanguages(in.Languages) {
		stat := in.Languages[lang]
		fmt.Fprintf(&b, "- %s: %d%% (%d files)\n", lang, stat.Percentage, stat.Count)
	}
	b.WriteString("\n")

	if len(in.Structure.TopLevelFolders) > 0 {
		fmt.Fprintf(&b, "TOP-LEVEL FOLDERS: %s\n", strings.Join(in.Structure.TopLevelFolders, ", "))
	}
	fmt.Fprintf(&b, "FILE COMPOSITION: %d source, %d config, %d docs, %d tests, %d other\n\n",
		in.Structure.FileTypeCounts.Source, in.Structure.FileTypeCounts.Config,
		in.Structure.FileTypeCounts.Documentation, in.Structure.FileTypeCounts.Test,
		in.Structure.FileTypeCounts.Other)

	if readme := strings.TrimSpace(in.Readme); readme != "" {
		b.WriteString("README EXCERPT:\n")
		b.WriteString(truncate(readme, MaxReadmeChars))
		b.WriteString("\n\n")
	}

	if len(in.Commits) > 0 {
		b.WriteString("RECENT COMMITS (newest first):\n")
		for i, commit := range in.Commits {
			if i >= MaxCommitsInPrompt {
				break
			}
			fmt.Fprintf(&b, "- %s (%s)\n", firstLine(commit.Message), commit.Author)
		}
		b.WriteString("\n")
	}

	if len(in.PullRequests) > 0 {
		b.WriteString("PULL REQUESTS:\n")
		for i, pr := range in.PullRequests {
			if i >= MaxPullRequestsInPrompt {
				break
			}
			fmt.Fprintf(&b, "- #%d %s\n", pr.Number, pr.Title)
			if body := strings.TrimSpace(pr.Body); body != "" {
				fmt.Fprintf(&b, "  %s\n", truncate(firstLine(body), 200))
			}
		}
		b.WriteString("\n")
	}

	if len(in.FileContents) > 0 {
		b.WriteString("KEY CONFIGURATION FILES:\n")
		for _, p := range sortedPaths(in.FileContents) {
			fmt.Fprintf(&b, "--- %s ---\n%s\n", p, truncate(in.FileContents[p], MaxFileExcerptChars))
		}
		b.WriteString("\n")
	}

	b.WriteString("Write the summary now, following the heading contract exactly.\n")
	return b.String()
}

func writeCategory(b *strings.Builder, label string, techs []string) {
	if len(techs) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(techs, ", "))
}

func sortedLanguages(stats domain.LanguageStats) []string {
	langs := make([]string, 0, len(stats))
	for lang := range stats {
		langs = append(langs, lang)
	}
	// Descending by count, name as tiebreaker, for a stable prompt.
	sort.Slice(langs, func(i, j int) bool {
		if stats[langs[i]].Count != stats[langs[j]].Count {
			return stats[langs[i]].Count > stats[langs[j]].Count
		}
		return langs[i] < langs[j]
	})
	return langs
}

func sortedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// truncate cuts s to at most limit bytes without splitting a multi-byte rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
