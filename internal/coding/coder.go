package coding

import (
	"strings"

	"github.com/rs/zerolog"

	"transcript-analysis-service/internal/document"
)

// Coder applies schemes against a document's effective text, so coding
// sees the anonymized view whenever anonymization is active for a
// paragraph.
type Coder struct {
	log zerolog.Logger
}

// NewCoder returns a Coder.
func NewCoder(log zerolog.Logger) *Coder {
	return &Coder{log: log}
}

// Apply recomputes one scheme's automatic tags across the whole
// transcript and returns how many tags were assigned. It fully replaces
// that scheme's AUTO tags and never touches MANUAL tags or other
// schemes, so re-running with unchanged data is idempotent.
func (c *Coder) Apply(scheme Scheme, doc *document.Document) (int, error) {
	if err := Validate(scheme); err != nil {
		return 0, err
	}

	tags := make(map[string][]document.CodeTag)
	total := 0
	for _, id := range doc.ParagraphIDs() {
		text, err := doc.EffectiveText(id)
		if err != nil {
			return 0, err
		}
		matched := matchCodes(scheme, text)
		if len(matched) > 0 {
			if !scheme.MultiCode {
				matched = matched[:1]
			}
			tags[id] = matched
			total += len(matched)
		}
	}

	doc.ReplaceAutoCodes(scheme.ID, tags, scheme.MultiCode)
	c.log.Info().
		Str("schemeId", scheme.ID).
		Int("paragraphsTagged", len(tags)).
		Int("tags", total).
		Msg("Coding scheme applied")
	return total, nil
}

// matchCodes fires a code when any of its keywords appears as a
// substring of the paragraph text, honoring the per-code case rule.
// Codes are checked in scheme order.
func matchCodes(scheme Scheme, text string) []document.CodeTag {
	lower := strings.ToLower(text)
	var tags []document.CodeTag
	for _, code := range scheme.Codes {
		if codeMatches(code, text, lower) {
			tags = append(tags, document.CodeTag{
				SchemeID: scheme.ID,
				Code:     code.Name,
				Source:   document.SourceAuto,
			})
		}
	}
	return tags
}

func codeMatches(code Code, text, lower string) bool {
	for _, kw := range code.Keywords {
		if kw == "" {
			continue
		}
		if code.CaseSensitive {
			if strings.Contains(text, kw) {
				return true
			}
		} else if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
