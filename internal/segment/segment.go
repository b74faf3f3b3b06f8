// Package segment splits raw transcript text into ordered paragraphs
// with stable identifiers.
package segment

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyTranscript is returned for empty or whitespace-only input.
var ErrEmptyTranscript = errors.New("transcript is empty")

// longParagraphThreshold triggers sentence re-splitting when the whole
// transcript collapses into a single oversized paragraph.
const longParagraphThreshold = 500

var (
	sentenceEnd      = regexp.MustCompile(`[.!?]+`)
	sentenceBoundary = regexp.MustCompile(`\.\s+[A-Z]`)
)

// Split segments raw transcript text into paragraphs. Strategies are
// tried in order: blank-line boundaries, then single line breaks, then
// sentence boundaries. A lone paragraph longer than the threshold is
// re-split at sentence boundaries followed by a capitalized word.
// Identical input always yields identical boundaries.
func Split(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyTranscript
	}

	var parts []string
	switch {
	case strings.Contains(raw, "\n\n"):
		parts = clean(strings.Split(raw, "\n\n"))
	case strings.Contains(raw, "\n"):
		parts = clean(strings.Split(raw, "\n"))
	default:
		parts = clean(sentenceEnd.Split(raw, -1))
	}

	if len(parts) == 1 && len(parts[0]) > longParagraphThreshold {
		if resplit := splitSentences(parts[0]); len(resplit) > 1 {
			parts = resplit
		}
	}
	if len(parts) == 0 {
		return nil, ErrEmptyTranscript
	}
	return parts, nil
}

func clean(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitSentences cuts after each period that precedes whitespace and a
// capitalized word, keeping the period with the left piece.
func splitSentences(s string) []string {
	locs := sentenceBoundary.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return []string{s}
	}
	var out []string
	prev := 0
	for _, loc := range locs {
		cut := loc[0] + 1 // keep the period
		out = append(out, strings.TrimSpace(s[prev:cut]))
		prev = cut
	}
	if rest := strings.TrimSpace(s[prev:]); rest != "" {
		out = append(out, rest)
	}
	return clean(out)
}
