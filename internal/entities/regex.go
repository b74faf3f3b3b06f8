package entities

import (
	"context"
	"regexp"
	"strings"

	"transcript-analysis-service/internal/document"
)

// pattern pairs a compiled regex with its entity type and a base
// confidence reflecting how specifically the pattern identifies the
// type: structured formats score high, the person heuristic low.
type pattern struct {
	re         *regexp.Regexp
	entityType document.EntityType
	confidence float64
}

// Pattern order is detection priority: structured formats first so an
// ambiguous stretch of text resolves to the more specific type.
var patterns = []pattern{
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), document.EntityEmail, 0.99},
	{regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`), document.EntityPhone, 0.90},
	{regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}`), document.EntityDate, 0.85},
	{regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AaPp][Mm])?`), document.EntityTime, 0.85},
	{regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?`), document.EntityMoney, 0.95},
	{regexp.MustCompile(`\d+(?:\.\d+)?%`), document.EntityPercent, 0.95},
	// Two or more capitalized words; single capitalized words are too
	// noisy (every sentence opener would match).
	{regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+`), document.EntityPerson, 0.50},
}

// personSkip lists capitalized sequences that are never names.
var personSkip = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "with": true,
	"this": true, "that": true, "they": true, "them": true, "their": true,
}

// RegexDetector is the deterministic fallback tier.
type RegexDetector struct{}

// NewRegexDetector returns the fallback detector.
func NewRegexDetector() *RegexDetector {
	return &RegexDetector{}
}

// Detect implements Detector. Spans are emitted in pattern-priority
// order; the chain resolves overlaps.
func (d *RegexDetector) Detect(_ context.Context, text string) ([]document.EntitySpan, error) {
	var spans []document.EntitySpan
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			if p.entityType == document.EntityPerson && personSkip[firstWordLower(match)] {
				continue
			}
			spans = append(spans, document.EntitySpan{
				Start:      loc[0],
				End:        loc[1],
				Type:       p.entityType,
				Text:       match,
				Source:     document.SourceAuto,
				Confidence: p.confidence,
			})
		}
	}
	return spans, nil
}

func firstWordLower(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
