package document

import "time"

// AnnotationView is the serializable state of one annotation axis.
type AnnotationView struct {
	Auto           string   `json:"auto,omitempty"`
	AutoConfidence *float64 `json:"autoConfidence,omitempty"`
	Manual         string   `json:"manual,omitempty"`
	Override       bool     `json:"override"`
	Effective      string   `json:"effective"`
}

// ParagraphSnapshot is a deep copy of one paragraph's annotation state.
type ParagraphSnapshot struct {
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	EffectiveText string         `json:"effectiveText"`
	Speaker       AnnotationView `json:"speaker"`
	Sentiment     AnnotationView `json:"sentiment"`
	Entities      []EntitySpan   `json:"entities,omitempty"`
	Codes         []CodeTag      `json:"codes,omitempty"`
}

// Snapshot is a read-only, internally consistent copy of the document,
// taken under the document lock so no axis is observed half-updated.
type Snapshot struct {
	TranscriptID string              `json:"transcriptId"`
	CreatedAt    time.Time           `json:"createdAt"`
	Paragraphs   []ParagraphSnapshot `json:"paragraphs"`
}

func annotationView[T ~string](a Annotated[T]) AnnotationView {
	v := AnnotationView{
		Override:  a.Overridden(),
		Effective: string(a.Effective()),
	}
	auto, conf, scored := a.Auto()
	v.Auto = string(auto)
	if scored && !a.Overridden() {
		c := conf
		v.AutoConfidence = &c
	}
	if a.Overridden() {
		v.Manual = string(a.Manual())
	}
	return v
}

// Snapshot returns a deep copy of the current document state for
// reporting and export.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := Snapshot{
		TranscriptID: d.id,
		CreatedAt:    d.createdAt,
		Paragraphs:   make([]ParagraphSnapshot, 0, len(d.paragraphs)),
	}
	for _, p := range d.paragraphs {
		ps := ParagraphSnapshot{
			ID:            p.id,
			Text:          p.text,
			EffectiveText: p.effectiveText(),
			Speaker:       annotationView(p.speaker),
			Sentiment:     annotationView(p.sentiment),
		}
		if len(p.entities) > 0 {
			ps.Entities = make([]EntitySpan, len(p.entities))
			copy(ps.Entities, p.entities)
		}
		if len(p.codes) > 0 {
			ps.Codes = make([]CodeTag, len(p.codes))
			copy(ps.Codes, p.codes)
		}
		snap.Paragraphs = append(snap.Paragraphs, ps)
	}
	return snap
}
