// Package report computes aggregate views over a document snapshot:
// word frequency, sentiment and speaker distributions, coding coverage,
// entity counts, and overall text statistics. All functions are pure
// and operate on an immutable snapshot, never the live document.
package report

import (
	"regexp"
	"sort"
	"strings"

	"transcript-analysis-service/internal/document"
)

// WordCount is one entry of a frequency table, ordered most frequent
// first with ties broken alphabetically.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// DistributionEntry pairs a label with its count and share.
type DistributionEntry struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TextStatistics summarizes the transcript as a whole.
type TextStatistics struct {
	TotalParagraphs  int     `json:"totalParagraphs"`
	CodedParagraphs  int     `json:"codedParagraphs"`
	TotalCharacters  int     `json:"totalCharacters"`
	TotalSentences   int     `json:"totalSentences"`
	UniqueWords      int     `json:"uniqueWords"`
	TotalWords       int     `json:"totalWords"`
	AvgWordsPerPara  float64 `json:"avgWordsPerParagraph"`
	EntitiesDetected int     `json:"entitiesDetected"`
	ManualOverrides  int     `json:"manualOverrides"`
}

var (
	// Placeholder tokens like [PERSON] plus masking artifacts left by
	// redaction tools are stripped before tokenizing.
	placeholderRe = regexp.MustCompile(`(?i)\[[a-z_]+\]`)
	maskRunRe     = regexp.MustCompile(`\*+|_{2,}|#{2,}|-{2,}|\.{2,}`)
	maskWordRe    = regexp.MustCompile(`(?i)\b(?:x{2,}|redacted|removed|anonymized|masked|hidden)\b`)

	// Accented Latin letters count as word characters.
	tokenRe = regexp.MustCompile(`[a-zA-ZáéíóúàèìòùâêîôûãõçñüÁÉÍÓÚÀÈÌÒÙÂÊÎÔÛÃÕÇÑÜ]+`)

	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

// MeaningfulWords tokenizes text, dropping stop words across the
// supported languages, two-letter tokens, and redaction artifacts.
func MeaningfulWords(text string) []string {
	text = strings.ToLower(text)
	text = placeholderRe.ReplaceAllString(text, "")
	text = maskRunRe.ReplaceAllString(text, "")
	text = maskWordRe.ReplaceAllString(text, "")

	var words []string
	for _, w := range tokenRe.FindAllString(text, -1) {
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}

// WordFrequency counts meaningful words over the effective text of
// every paragraph and returns the topN most frequent.
func WordFrequency(snap document.Snapshot, topN int) []WordCount {
	counts := make(map[string]int)
	for _, p := range snap.Paragraphs {
		for _, w := range MeaningfulWords(p.EffectiveText) {
			counts[w]++
		}
	}

	table := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		table = append(table, WordCount{Word: w, Count: c})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Word < table[j].Word
	})
	if topN > 0 && len(table) > topN {
		table = table[:topN]
	}
	return table
}

// SentimentDistribution counts paragraphs per effective sentiment
// label. Every known label appears in the result even at zero.
func SentimentDistribution(snap document.Snapshot) []DistributionEntry {
	order := []string{
		string(document.SentimentPositive),
		string(document.SentimentNegative),
		string(document.SentimentNeutral),
		string(document.SentimentMixed),
	}
	counts := make(map[string]int, len(order))
	for _, p := range snap.Paragraphs {
		counts[p.Sentiment.Effective]++
	}
	return distribution(order, counts, len(snap.Paragraphs))
}

// SpeakerDistribution counts paragraphs per effective speaker role.
func SpeakerDistribution(snap document.Snapshot) []DistributionEntry {
	order := []string{
		string(document.SpeakerClient),
		string(document.SpeakerTherapist),
		string(document.SpeakerUnknown),
	}
	counts := make(map[string]int, len(order))
	for _, p := range snap.Paragraphs {
		counts[p.Speaker.Effective]++
	}
	return distribution(order, counts, len(snap.Paragraphs))
}

// CodingDistribution counts tag occurrences per code name across all
// paragraphs, most frequent first. Percentages are relative to the
// total number of tags.
func CodingDistribution(snap document.Snapshot) []DistributionEntry {
	counts := make(map[string]int)
	total := 0
	for _, p := range snap.Paragraphs {
		for _, tag := range p.Codes {
			counts[tag.Code]++
			total++
		}
	}

	order := make([]string, 0, len(counts))
	for code := range counts {
		order = append(order, code)
	}
	sort.Slice(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return order[i] < order[j]
	})
	return distribution(order, counts, total)
}

// EntityCounts tallies detected spans per entity type.
func EntityCounts(snap document.Snapshot) map[document.EntityType]int {
	counts := make(map[document.EntityType]int)
	for _, p := range snap.Paragraphs {
		for _, span := range p.Entities {
			counts[span.Type]++
		}
	}
	return counts
}

// Statistics computes whole-transcript summary numbers.
func Statistics(snap document.Snapshot) TextStatistics {
	stats := TextStatistics{TotalParagraphs: len(snap.Paragraphs)}
	unique := make(map[string]struct{})
	for _, p := range snap.Paragraphs {
		if len(p.Codes) > 0 {
			stats.CodedParagraphs++
		}
		stats.EntitiesDetected += len(p.Entities)
		if p.Speaker.Override {
			stats.ManualOverrides++
		}
		if p.Sentiment.Override {
			stats.ManualOverrides++
		}
		stats.TotalCharacters += len([]rune(p.EffectiveText))
		stats.TotalSentences += countSentences(p.EffectiveText)
		for _, w := range MeaningfulWords(p.EffectiveText) {
			stats.TotalWords++
			unique[w] = struct{}{}
		}
	}
	stats.UniqueWords = len(unique)
	if stats.TotalParagraphs > 0 {
		stats.AvgWordsPerPara = float64(stats.TotalWords) / float64(stats.TotalParagraphs)
	}
	return stats
}

// countSentences counts terminator runs, treating trailing text
// without a terminator as one more sentence.
func countSentences(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	n := len(sentenceRe.FindAllString(trimmed, -1))
	if n == 0 {
		return 1
	}
	if !strings.ContainsRune(".!?", rune(trimmed[len(trimmed)-1])) {
		n++
	}
	return n
}

func distribution(order []string, counts map[string]int, total int) []DistributionEntry {
	entries := make([]DistributionEntry, 0, len(order))
	for _, label := range order {
		entry := DistributionEntry{Label: label, Count: counts[label]}
		if total > 0 {
			entry.Percentage = float64(counts[label]) / float64(total) * 100
		}
		entries = append(entries, entry)
	}
	return entries
}
