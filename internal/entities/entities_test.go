package entities

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"transcript-analysis-service/internal/document"
)

func detect(t *testing.T, text string) []document.EntitySpan {
	t.Helper()
	spans, err := NewRegexDetector().Detect(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return spans
}

func findType(spans []document.EntitySpan, typ document.EntityType) *document.EntitySpan {
	for i := range spans {
		if spans[i].Type == typ {
			return &spans[i]
		}
	}
	return nil
}

func TestRegexDetector_StructuredFormats(t *testing.T) {
	tests := []struct {
		name string
		text string
		typ  document.EntityType
		want string
	}{
		{"email", "Reach me at jane.doe@example.com please", document.EntityEmail, "jane.doe@example.com"},
		{"phone", "Call 555-123-4567 tomorrow", document.EntityPhone, "555-123-4567"},
		{"phone parens", "Call (416) 123-4567 tomorrow", document.EntityPhone, "(416) 123-4567"},
		{"date slash", "We met on 12/25/2023 downtown", document.EntityDate, "12/25/2023"},
		{"date month name", "It was January 5, 2024 I think", document.EntityDate, "January 5, 2024"},
		{"time", "Session at 3:30 pm as usual", document.EntityTime, "3:30 pm"},
		{"money", "It cost $1,250.50 in total", document.EntityMoney, "$1,250.50"},
		{"percent", "About 75% of the time", document.EntityPercent, "75%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := detect(t, tt.text)
			span := findType(spans, tt.typ)
			if span == nil {
				t.Fatalf("expected a %s span in %q, got %+v", tt.typ, tt.text, spans)
			}
			if span.Text != tt.want {
				t.Errorf("expected match %q, got %q", tt.want, span.Text)
			}
			if tt.text[span.Start:span.End] != span.Text {
				t.Errorf("span offsets do not cover the match: %+v", span)
			}
			if span.Source != document.SourceAuto {
				t.Errorf("expected auto source, got %s", span.Source)
			}
		})
	}
}

func TestRegexDetector_PersonNames(t *testing.T) {
	spans := detect(t, "I met John Smith near the station.")

	person := findType(spans, document.EntityPerson)
	if person == nil {
		t.Fatalf("expected a PERSON span, got %+v", spans)
	}
	if person.Text != "John Smith" {
		t.Errorf("expected 'John Smith', got %q", person.Text)
	}
	if person.Confidence >= 0.9 {
		t.Errorf("expected the name heuristic to carry low confidence, got %f", person.Confidence)
	}
}

func TestRegexDetector_SingleCapitalizedWordIsNotAPerson(t *testing.T) {
	spans := detect(t, "Hello there, how have you been?")
	if p := findType(spans, document.EntityPerson); p != nil {
		t.Errorf("expected no PERSON span for a sentence opener, got %+v", p)
	}
}

func TestRegexDetector_PersonSkipList(t *testing.T) {
	spans := detect(t, "They Said nothing would change.")
	if p := findType(spans, document.EntityPerson); p != nil {
		t.Errorf("expected skip list to drop %q", p.Text)
	}
}

func TestResolveOverlaps_InputOrderIsPriority(t *testing.T) {
	spans := []document.EntitySpan{
		{Start: 10, End: 20, Type: document.EntityEmail},
		{Start: 15, End: 25, Type: document.EntityPerson}, // overlaps, later priority
		{Start: 0, End: 5, Type: document.EntityDate},
	}

	resolved := ResolveOverlaps(spans)
	if len(resolved) != 2 {
		t.Fatalf("expected 2 spans, got %+v", resolved)
	}
	// Sorted by start offset.
	if resolved[0].Type != document.EntityDate || resolved[1].Type != document.EntityEmail {
		t.Errorf("unexpected resolution: %+v", resolved)
	}
}

type stubDetector struct {
	spans []document.EntitySpan
	err   error
	calls int
}

func (s *stubDetector) Detect(_ context.Context, _ string) ([]document.EntitySpan, error) {
	s.calls++
	return s.spans, s.err
}

func TestChain_PrimaryWins(t *testing.T) {
	primary := &stubDetector{spans: []document.EntitySpan{{Start: 0, End: 4, Type: document.EntityPerson}}}
	fallback := &stubDetector{spans: []document.EntitySpan{{Start: 0, End: 4, Type: document.EntityEmail}}}

	chain := NewChain(primary, fallback, zerolog.Nop())
	spans, err := chain.Detect(context.Background(), "Anna called")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 1 || spans[0].Type != document.EntityPerson {
		t.Fatalf("expected primary result, got %+v", spans)
	}
	if fallback.calls != 0 {
		t.Error("expected fallback untouched when primary succeeds")
	}
}

func TestChain_FallbackOnError(t *testing.T) {
	primary := &stubDetector{err: errors.New("model crashed")}
	fallback := &stubDetector{spans: []document.EntitySpan{{Start: 0, End: 4, Type: document.EntityEmail}}}

	chain := NewChain(primary, fallback, zerolog.Nop())
	spans, err := chain.Detect(context.Background(), "a@b.co here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 1 || spans[0].Type != document.EntityEmail {
		t.Fatalf("expected fallback result, got %+v", spans)
	}
}

func TestChain_FallbackOnEmptyPrimary(t *testing.T) {
	primary := &stubDetector{}
	fallback := &stubDetector{spans: []document.EntitySpan{{Start: 0, End: 4, Type: document.EntityDate}}}

	chain := NewChain(primary, fallback, zerolog.Nop())
	spans, err := chain.Detect(context.Background(), "1/2/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 1 || spans[0].Type != document.EntityDate {
		t.Fatalf("expected fallback to run when primary finds nothing, got %+v", spans)
	}
}

func TestChain_NilPrimaryUsesFallback(t *testing.T) {
	fallback := &stubDetector{spans: []document.EntitySpan{{Start: 0, End: 3, Type: document.EntityTime}}}

	chain := NewChain(nil, fallback, zerolog.Nop())
	spans, err := chain.Detect(context.Background(), "3:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("expected fallback spans, got %+v", spans)
	}
}

func TestChain_NoDetectors(t *testing.T) {
	chain := NewChain(nil, nil, zerolog.Nop())
	spans, err := chain.Detect(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spans != nil {
		t.Errorf("expected no spans, got %+v", spans)
	}
}
