// Package document defines the annotated transcript model and the merge
// layer that reconciles automatic predictions with manual overrides.
package document

import "errors"

// SpeakerRole identifies who produced a paragraph.
type SpeakerRole string

const (
	SpeakerClient    SpeakerRole = "client"
	SpeakerTherapist SpeakerRole = "therapist"
	SpeakerUnknown   SpeakerRole = "unknown"
)

// SentimentLabel is the sentiment category assigned to a paragraph.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentMixed    SentimentLabel = "mixed"
)

// Source records whether an annotation came from the pipeline or a user edit.
type Source string

const (
	SourceAuto   Source = "auto"
	SourceManual Source = "manual"
)

// Axis names an independently annotated dimension of a paragraph.
type Axis string

const (
	AxisSpeaker   Axis = "speaker"
	AxisSentiment Axis = "sentiment"
)

// EntityType classifies a detected sensitive span.
type EntityType string

const (
	EntityPerson       EntityType = "PERSON"
	EntityDate         EntityType = "DATE"
	EntityTime         EntityType = "TIME"
	EntityPhone        EntityType = "PHONE"
	EntityEmail        EntityType = "EMAIL"
	EntityMoney        EntityType = "MONEY"
	EntityPercent      EntityType = "PERCENT"
	EntityOrganization EntityType = "ORGANIZATION"
	EntityLocation     EntityType = "LOCATION"
)

// EntitySpan is a sensitive region of a paragraph, addressed by byte
// offsets into the paragraph text. Spans within one paragraph never overlap.
type EntitySpan struct {
	Start       int        `json:"start"`
	End         int        `json:"end"`
	Type        EntityType `json:"type"`
	Text        string     `json:"text"`
	Source      Source     `json:"source"`
	Confidence  float64    `json:"confidence,omitempty"` // zero for manual spans
	Anonymized  bool       `json:"anonymized"`
	Replacement string     `json:"replacement,omitempty"` // empty means type placeholder
}

// CodeTag is a thematic code applied to a paragraph by a coding scheme.
type CodeTag struct {
	SchemeID string `json:"schemeId"`
	Code     string `json:"code"`
	Source   Source `json:"source"`
}

// Errors surfaced by edit commands. Structural failures block the
// specific edit only; they never corrupt existing annotation state.
var (
	ErrUnknownParagraph = errors.New("unknown paragraph")
	ErrOverlappingSpan  = errors.New("entity span overlaps an existing span")
	ErrSpanOutOfBounds  = errors.New("entity span offsets outside paragraph text")
)

// Placeholder returns the default anonymization token for an entity type.
func Placeholder(t EntityType) string {
	return "[" + string(t) + "]"
}
