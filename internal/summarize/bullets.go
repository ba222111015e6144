package summarize

import (
	"regexp"
	"strings"

	"github.com/arturoeanton/gitfolio-ai/internal/domain"
)

// Tier 4 grouping: sentences per bullet and overall cap.
const (
	sentencesPerBullet = 2
	maxFallbackBullets = 5
)

var (
	achievementRe = regexp.MustCompile(`(?im)^\s*(?:[-*•]\s*)?(?:\*\*)?achievement\s+(\d+)\s*:(?:\*\*)?\s*`)
	bulletGlyphRe = regexp.MustCompile(`(?m)^\s*[•\-*]\s+`)
	sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)
)

// ExtractResumeBullets parses resume bullets from freeform section text
// using a four-tier fallback chain; the first tier producing a non-empty
// result wins:
//
//  1. "Achievement N:" sub-heading markers
//  2. bullet glyphs (•, -, *)
//  3. "title: content" colon-delimited lines
//  4. sentence boundaries grouped into fixed-size chunks
//
// If every tier yields nothing, the whole text becomes one bullet titled
// "Summary". Non-empty input therefore always produces at least one bullet.
func ExtractResumeBullets(text string) []domain.ResumeBullet {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	for _, tier := range []func(string) []domain.ResumeBullet{
		splitByAchievementMarkers,
		splitByBulletGlyphs,
		splitByTitleColon,
		splitBySentences,
	} {
		if bullets := tier(text); len(bullets) > 0 {
			return bullets
		}
	}

	return []domain.ResumeBullet{{Title: "Summary", Content: text}}
}

// splitByAchievementMarkers is tier 1: "Achievement N:" sub-headings.
func splitByAchievementMarkers(text string) []domain.ResumeBullet {
	locs := achievementRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var bullets []domain.ResumeBullet
	for i, loc := range locs {
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(text[start:end])
		if body == "" {
			continue
		}
		title, content := splitTitleContent(body)
		bullets = append(bullets, domain.ResumeBullet{Title: title, Content: content})
	}
	return bullets
}

// splitByBulletGlyphs is tier 2: one bullet per glyph-prefixed line.
func splitByBulletGlyphs(text string) []domain.ResumeBullet {
	var bullets []domain.ResumeBullet
	for _, line := range strings.Split(text, "\n") {
		if !bulletGlyphRe.MatchString(line) {
			continue
		}
		body := strings.TrimSpace(bulletGlyphRe.ReplaceAllString(line, ""))
		if body == "" {
			continue
		}
		title, content := splitTitleContent(body)
		bullets = append(bullets, domain.ResumeBullet{Title: title, Content: content})
	}
	return bullets
}

// splitByTitleColon is tier 3: lines shaped "title: content".
func splitByTitleColon(text string) []domain.ResumeBullet {
	var bullets []domain.ResumeBullet
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ":")
		if idx <= 0 || idx == len(line)-1 {
			continue
		}
		title := strings.TrimSpace(line[:idx])
		content := strings.TrimSpace(line[idx+1:])
		// A plausible title is short; long prefixes are prose with a colon.
		if title == "" || content == "" || len(title) > 60 {
			continue
		}
		bullets = append(bullets, domain.ResumeBullet{Title: title, Content: content})
	}
	return bullets
}

// splitBySentences is tier 4: sentence boundaries grouped into fixed-size
// chunks, capped at maxFallbackBullets.
func splitBySentences(text string) []domain.ResumeBullet {
	flat := strings.Join(strings.Fields(text), " ")
	sentences := splitSentences(flat)
	if len(sentences) == 0 {
		return nil
	}

	var bullets []domain.ResumeBullet
	for start := 0; start < len(sentences) && len(bullets) < maxFallbackBullets; start += sentencesPerBullet {
		end := start + sentencesPerBullet
		if end > len(sentences) {
			end = len(sentences)
		}
		chunk := strings.TrimSpace(strings.Join(sentences[start:end], " "))
		if chunk == "" {
			continue
		}
		bullets = append(bullets, domain.ResumeBullet{
			Title:   "Highlight",
			Content: chunk,
		})
	}
	return bullets
}

// splitSentences cuts text at sentence-ending punctuation followed by space.
func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[last : loc[0]+1])
		if s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// splitTitleContent splits "title: rest" bodies; without a colon the first
// few words become the title.
func splitTitleContent(body string) (string, string) {
	if idx := strings.Index(body, ":"); idx > 0 && idx < 60 && idx < len(body)-1 {
		return strings.TrimSpace(body[:idx]), strings.TrimSpace(body[idx+1:])
	}
	words := strings.Fields(body)
	if len(words) <= 5 {
		return body, body
	}
	return strings.Join(words[:5], " "), body
}
