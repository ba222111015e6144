package summarize

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

// Section identifies one target field of the summary draft.
type Section int

// Parser states: idle plus one active state per target field.
const (
	SectionNone Section = iota
	SectionIntro
	SectionTechStack
	SectionArchitecture
	SectionRefactoring
	SectionCollaboration
	SectionResumeBullets
)

// String returns the section name for logging.
func (s Section) String() string {
	switch s {
	case SectionIntro:
		return "project_intro"
	case SectionTechStack:
		return "tech_stack"
	case SectionArchitecture:
		return "architecture"
	case SectionRefactoring:
		return "refactoring_history"
	case SectionCollaboration:
		return "collaboration_flow"
	case SectionResumeBullets:
		return "resume_bullets"
	default:
		return "idle"
	}
}

// sectionSynonyms maps heading text (lowercased, markers stripped) to its
// section. Matching is prefix-based so "Tech Stack Details" still lands on
// the tech stack section.
var sectionSynonyms = []struct {
	prefix  string
	section Section
}{
	{"project introduction", SectionIntro},
	{"project intro", SectionIntro},
	{"project overview", SectionIntro},
	{"project description", SectionIntro},
	{"introduction", SectionIntro},
	{"overview", SectionIntro},
	{"tech stack", SectionTechStack},
	{"technology stack", SectionTechStack},
	{"technical stack", SectionTechStack},
	{"technologies", SectionTechStack},
	{"architecture", SectionArchitecture},
	{"system design", SectionArchitecture},
	{"project structure", SectionArchitecture},
	{"refactoring history", SectionRefactoring},
	{"refactoring", SectionRefactoring},
	{"code evolution", SectionRefactoring},
	{"collaboration flow", SectionCollaboration},
	{"collaboration", SectionCollaboration},
	{"team workflow", SectionCollaboration},
	{"development workflow", SectionCollaboration},
	{"resume bullets", SectionResumeBullets},
	{"resume points", SectionResumeBullets},
	{"resume-ready bullet", SectionResumeBullets},
	{"key achievements", SectionResumeBullets},
	{"achievements", SectionResumeBullets},
	{"highlights", SectionResumeBullets},
}

var (
	headingMarksRe = regexp.MustCompile(`^\s*#{0,6}\s*`)
	numberingRe    = regexp.MustCompile(`^\d+\s*[.):]?\s*`)
)

// maxHeadingLen guards against prose lines that happen to start with a
// section keyword; real headings are short.
const maxHeadingLen = 80

// MatchHeading reports which section a line's heading denotes, or
// (SectionNone, false) for non-heading lines. It tolerates heading level,
// bold markers, numbering variants, trailing colons, and case.
func MatchHeading(line string) (Section, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeadingLen {
		return SectionNone, false
	}

	marked := strings.HasPrefix(trimmed, "#")

	stripped := headingMarksRe.ReplaceAllString(trimmed, "")
	stripped = strings.Trim(stripped, "*_ ")
	if numberingRe.MatchString(stripped) {
		marked = true
		stripped = numberingRe.ReplaceAllString(stripped, "")
	}
	if strings.HasSuffix(stripped, ":") {
		marked = true
		stripped = strings.TrimSuffix(stripped, ":")
	}
	if trimmed != stripped {
		// Bold markers alone also count as heading syntax.
		if strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") {
			marked = true
		}
	}
	if !marked {
		return SectionNone, false
	}

	stripped = strings.ToLower(strings.TrimSpace(stripped))
	for _, syn := range sectionSynonyms {
		if strings.HasPrefix(stripped, syn.prefix) {
			return syn.section, true
		}
	}
	return SectionNone, false
}

// ParseState is the extractor's state between lines: the active section and
// the text accumulated for it so far.
type ParseState struct {
	Active Section
	lines  []string
}

// Flush is emitted by a transition when a section's accumulation completes.
type Flush struct {
	Section Section
	Text    string
}

// Step consumes one line and returns the next state, plus the completed
// section flush if the line opened a new section. Pure: it never mutates
// the receiver.
func (s ParseState) Step(line string) (ParseState, *Flush) {
	if section, ok := MatchHeading(line); ok {
		flush := s.flush()
		return ParseState{Active: section}, flush
	}
	if s.Active == SectionNone {
		// Preamble before the first heading is dropped.
		return s, nil
	}
	next := ParseState{Active: s.Active, lines: append(s.lines[:len(s.lines):len(s.lines)], line)}
	return next, nil
}

// Finish is the terminal transition: it flushes the last active section.
func (s ParseState) Finish() *Flush {
	return s.flush()
}

func (s ParseState) flush() *Flush {
	if s.Active == SectionNone {
		return nil
	}
	text := strings.TrimSpace(strings.Join(s.lines, "\n"))
	if text == "" {
		return nil
	}
	return &Flush{Section: s.Active, Text: text}
}

// fallbackChars is how much of the raw response seeds a field whose heading
// was never found. The draft is never left with all fields blank.
const fallbackChars = 500

// ExtractSections parses the freeform completion response into a typed
// summary draft in a single left-to-right pass. Headings are recognized
// independent of order; missing or reordered headings degrade gracefully.
// detected is the deterministic tech-stack profile, which always overrides
// whatever the model wrote for that section.
//
// Extraction never fails: worst case it returns a minimally populated draft.
func ExtractSections(raw string, detected domain.TechStackProfile) domain.SummaryDraft {
	sections := make(map[Section]string)

	state := ParseState{}
	var flush *Flush
	for _, line := range strings.Split(raw, "\n") {
		state, flush = state.Step(line)
		if flush != nil {
			accumulateSection(sections, flush)
		}
	}
	if flush = state.Finish(); flush != nil {
		accumulateSection(sections, flush)
	}

	draft := domain.SummaryDraft{
		ProjectIntro:       sections[SectionIntro],
		ArchitectureNotes:  sections[SectionArchitecture],
		RefactoringHistory: sections[SectionRefactoring],
		CollaborationFlow:  sections[SectionCollaboration],
	}

	// The deterministically detected profile wins over model output; model
	// text survives only as a note. This keeps the tech stack grounded in
	// actual configuration files, never hallucinated.
	draft.TechStack = detected
	draft.TechStackNotes = sections[SectionTechStack]

	fallback := defaultFieldText(raw)
	if draft.ProjectIntro == "" {
		slog.Debug("project intro heading not found, using raw fallback")
		draft.ProjectIntro = fallback
	}
	if draft.ArchitectureNotes == "" {
		draft.ArchitectureNotes = fallback
	}
	if draft.RefactoringHistory == "" {
		draft.RefactoringHistory = fallback
	}
	if draft.CollaborationFlow == "" {
		draft.CollaborationFlow = fallback
	}

	bulletText := sections[SectionResumeBullets]
	if bulletText == "" {
		bulletText = fallback
	}
	draft.ResumeBullets = ExtractResumeBullets(bulletText)

	return draft
}

// accumulateSection merges a flush into the collected sections. A repeated
// heading appends rather than overwrites.
func accumulateSection(sections map[Section]string, f *Flush) {
	if existing, ok := sections[f.Section]; ok {
		sections[f.Section] = existing + "\n" + f.Text
		return
	}
	sections[f.Section] = f.Text
}

// defaultFieldText returns up to fallbackChars bytes of the raw response,
// cut at a rune boundary, used for any field whose heading was never found.
func defaultFieldText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) <= fallbackChars {
		return trimmed
	}
	cut := fallbackChars
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut]
}
