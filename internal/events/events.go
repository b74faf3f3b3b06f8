package events

// Event type identifiers carried in every payload.
const (
	TypeTranscriptLoaded     = "transcript.loaded"
	TypeParagraphAnnotated   = "paragraph.annotated"
	TypeAnnotationOverridden = "annotation.overridden"
	TypeAnnotationReverted   = "annotation.reverted"
	TypeSchemeApplied        = "scheme.applied"
)

// TranscriptLoaded signals a new transcript entering the pipeline. All
// prior annotation state is discarded at this point.
type TranscriptLoaded struct {
	EventType    string `json:"eventType"`
	TranscriptID string `json:"transcriptId"`
	Paragraphs   int    `json:"paragraphs"`
	LanguageHint string `json:"languageHint,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// ParagraphAnnotated signals an automatic annotation landing on a
// paragraph axis.
type ParagraphAnnotated struct {
	EventType    string  `json:"eventType"`
	TranscriptID string  `json:"transcriptId"`
	ParagraphID  string  `json:"paragraphId"`
	Axis         string  `json:"axis"`
	Value        string  `json:"value"`
	Confidence   float64 `json:"confidence"`
	Timestamp    int64   `json:"timestamp"`
}

// AnnotationEdited signals a manual override or a revert on an axis.
type AnnotationEdited struct {
	EventType    string `json:"eventType"`
	TranscriptID string `json:"transcriptId"`
	ParagraphID  string `json:"paragraphId"`
	Axis         string `json:"axis"`
	Value        string `json:"value,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// SchemeApplied signals a coding scheme run over the transcript.
type SchemeApplied struct {
	EventType    string `json:"eventType"`
	TranscriptID string `json:"transcriptId"`
	SchemeID     string `json:"schemeId"`
	TagsAssigned int    `json:"tagsAssigned"`
	Timestamp    int64  `json:"timestamp"`
}
