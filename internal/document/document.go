package document

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Paragraph is the atomic annotation target: one segmented unit of
// transcript text plus its per-axis annotation state.
type Paragraph struct {
	id        string
	text      string
	speaker   Annotated[SpeakerRole]
	sentiment Annotated[SentimentLabel]
	entities  []EntitySpan // sorted by Start, non-overlapping
	codes     []CodeTag
}

// Document is the single owned transcript model all pipeline stages and
// edit commands write into. Every mutation goes through its lock, which
// is the single-writer rule: classifier results and user edits for the
// same axis are applied atomically, in arrival order, with the merge
// rules of the Annotated type as the only arbitration.
type Document struct {
	mu         sync.RWMutex
	id         string
	createdAt  time.Time
	paragraphs []*Paragraph
	index      map[string]int
}

// New builds a Document from segmented paragraphs. ids and texts are
// parallel slices in transcript order.
func New(transcriptID string, ids, texts []string) *Document {
	d := &Document{
		id:        transcriptID,
		createdAt: time.Now().UTC(),
		index:     make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		d.paragraphs = append(d.paragraphs, &Paragraph{
			id:        id,
			text:      texts[i],
			speaker:   NewAnnotated(SpeakerUnknown),
			sentiment: NewAnnotated(SentimentNeutral),
		})
		d.index[id] = i
	}
	return d
}

// ID returns the transcript identifier.
func (d *Document) ID() string { return d.id }

// Len returns the paragraph count.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.paragraphs)
}

// ParagraphIDs returns paragraph ids in transcript order.
func (d *Document) ParagraphIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, len(d.paragraphs))
	for i, p := range d.paragraphs {
		ids[i] = p.id
	}
	return ids
}

// Text returns the raw text of a paragraph.
func (d *Document) Text(paragraphID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return "", err
	}
	return p.text, nil
}

func (d *Document) paragraph(id string) (*Paragraph, error) {
	i, ok := d.index[id]
	if !ok {
		return nil, ErrUnknownParagraph
	}
	return d.paragraphs[i], nil
}

// SetAutoSpeaker records a classifier result for the speaker axis. An
// active override keeps the effective value unchanged.
func (d *Document) SetAutoSpeaker(paragraphID string, role SpeakerRole, confidence float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	p.speaker.SetAuto(role, confidence)
	return nil
}

// SetAutoSentiment records a classifier result for the sentiment axis.
func (d *Document) SetAutoSentiment(paragraphID string, label SentimentLabel, confidence float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	p.sentiment.SetAuto(label, confidence)
	return nil
}

// SetManualSpeaker applies a user override on the speaker axis.
func (d *Document) SetManualSpeaker(paragraphID string, role SpeakerRole) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	p.speaker.Override(role)
	return nil
}

// SetManualSentiment applies a user override on the sentiment axis.
func (d *Document) SetManualSentiment(paragraphID string, label SentimentLabel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	p.sentiment.Override(label)
	return nil
}

// RevertAxis clears a manual override, restoring the automatic value
// and confidence recorded before the override. Reverting a
// non-overridden axis is a no-op.
func (d *Document) RevertAxis(paragraphID string, axis Axis) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	switch axis {
	case AxisSpeaker:
		p.speaker.Revert()
	case AxisSentiment:
		p.sentiment.Revert()
	}
	return nil
}

// EffectiveSpeaker returns the effective speaker for a paragraph.
func (d *Document) EffectiveSpeaker(paragraphID string) (SpeakerRole, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return "", err
	}
	return p.speaker.Effective(), nil
}

// EffectiveSentiment returns the effective sentiment for a paragraph.
func (d *Document) EffectiveSentiment(paragraphID string) (SentimentLabel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return "", err
	}
	return p.sentiment.Effective(), nil
}

func overlaps(a, b EntitySpan) bool {
	return a.Start < b.End && b.Start < a.End
}

func sortSpans(spans []EntitySpan) {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
}

// SetAutoEntities replaces the automatic entity spans of a paragraph.
// Manual spans are kept; incoming spans that overlap a manual span, an
// earlier incoming span, or the paragraph bounds are dropped. Incoming
// order is detection priority.
func (d *Document) SetAutoEntities(paragraphID string, spans []EntitySpan) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}

	kept := p.entities[:0:0]
	for _, s := range p.entities {
		if s.Source == SourceManual {
			kept = append(kept, s)
		}
	}

	for _, s := range spans {
		if s.Start < 0 || s.End > len(p.text) || s.Start >= s.End {
			continue
		}
		s.Source = SourceAuto
		if s.Text == "" {
			s.Text = p.text[s.Start:s.End]
		}
		conflict := false
		for _, existing := range kept {
			if overlaps(s, existing) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, s)
		}
	}

	sortSpans(kept)
	p.entities = kept
	return nil
}

// AddManualEntity inserts a user-supplied span. It fails with
// ErrSpanOutOfBounds or ErrOverlappingSpan, leaving prior state unchanged.
func (d *Document) AddManualEntity(paragraphID string, span EntitySpan) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	if span.Start < 0 || span.End > len(p.text) || span.Start >= span.End {
		return ErrSpanOutOfBounds
	}
	for _, existing := range p.entities {
		if overlaps(span, existing) {
			return ErrOverlappingSpan
		}
	}
	span.Source = SourceManual
	span.Confidence = 0
	span.Text = p.text[span.Start:span.End]
	p.entities = append(p.entities, span)
	sortSpans(p.entities)
	return nil
}

// RemoveEntity deletes the span at the given index of a paragraph's
// sorted span list.
func (d *Document) RemoveEntity(paragraphID string, index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(p.entities) {
		return ErrSpanOutOfBounds
	}
	p.entities = append(p.entities[:index], p.entities[index+1:]...)
	return nil
}

// SetEntityAnonymized toggles anonymization for the span at index.
// Toggling never mutates paragraph text; the projection is recomputed
// from spans, so it is idempotent and reversible.
func (d *Document) SetEntityAnonymized(paragraphID string, index int, anonymized bool, replacement string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(p.entities) {
		return ErrSpanOutOfBounds
	}
	p.entities[index].Anonymized = anonymized
	p.entities[index].Replacement = replacement
	return nil
}

// Entities returns a copy of a paragraph's spans.
func (d *Document) Entities(paragraphID string) ([]EntitySpan, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return nil, err
	}
	out := make([]EntitySpan, len(p.entities))
	copy(out, p.entities)
	return out, nil
}

// anonymize projects text with every span marked for anonymization
// replaced. Spans are applied back to front so offsets stay valid.
func anonymize(text string, spans []EntitySpan) string {
	ordered := make([]EntitySpan, len(spans))
	copy(ordered, spans)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	var b strings.Builder
	out := text
	for _, s := range ordered {
		if !s.Anonymized {
			continue
		}
		replacement := s.Replacement
		if replacement == "" {
			replacement = Placeholder(s.Type)
		}
		b.Reset()
		b.WriteString(out[:s.Start])
		b.WriteString(replacement)
		b.WriteString(out[s.End:])
		out = b.String()
	}
	return out
}

// AnonymizedText returns the anonymization projection of a paragraph.
func (d *Document) AnonymizedText(paragraphID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return "", err
	}
	return anonymize(p.text, p.entities), nil
}

func (p *Paragraph) effectiveText() string {
	for _, s := range p.entities {
		if s.Anonymized {
			return anonymize(p.text, p.entities)
		}
	}
	return p.text
}

// EffectiveText returns the anonymized view when any span in the
// paragraph is anonymized, the raw text otherwise.
func (d *Document) EffectiveText(paragraphID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return "", err
	}
	return p.effectiveText(), nil
}

// AddManualCode attaches a user-chosen code tag. When the scheme does
// not allow multi-coding, any existing tag from the same scheme is
// replaced. Duplicate tags are ignored.
func (d *Document) AddManualCode(paragraphID string, tag CodeTag, allowMulti bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	tag.Source = SourceManual
	kept := p.codes[:0:0]
	for _, c := range p.codes {
		if c.SchemeID == tag.SchemeID {
			if c.Code == tag.Code {
				return nil // already tagged
			}
			if !allowMulti {
				continue // replaced by the manual tag
			}
		}
		kept = append(kept, c)
	}
	p.codes = append(kept, tag)
	return nil
}

// RemoveCode detaches a code tag regardless of source.
func (d *Document) RemoveCode(paragraphID, schemeID, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return err
	}
	kept := p.codes[:0:0]
	for _, c := range p.codes {
		if c.SchemeID == schemeID && c.Code == code {
			continue
		}
		kept = append(kept, c)
	}
	p.codes = kept
	return nil
}

// ReplaceAutoCodes swaps out one scheme's automatic tags across the
// whole transcript. Manual tags and other schemes' tags are untouched;
// re-applying a scheme with unchanged data is therefore idempotent.
// When the scheme disallows multi-coding, paragraphs that already carry
// a manual tag for the scheme receive no automatic tag.
func (d *Document) ReplaceAutoCodes(schemeID string, tags map[string][]CodeTag, allowMulti bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.paragraphs {
		kept := p.codes[:0:0]
		hasManual := false
		for _, c := range p.codes {
			if c.SchemeID == schemeID {
				if c.Source == SourceAuto {
					continue
				}
				hasManual = true
			}
			kept = append(kept, c)
		}
		incoming := tags[p.id]
		if !allowMulti {
			if hasManual {
				incoming = nil
			} else if len(incoming) > 1 {
				incoming = incoming[:1]
			}
		}
		for _, t := range incoming {
			t.SchemeID = schemeID
			t.Source = SourceAuto
			kept = append(kept, t)
		}
		p.codes = kept
	}
}

// Codes returns a copy of a paragraph's code tags.
func (d *Document) Codes(paragraphID string) ([]CodeTag, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, err := d.paragraph(paragraphID)
	if err != nil {
		return nil, err
	}
	out := make([]CodeTag, len(p.codes))
	copy(out, p.codes)
	return out, nil
}
