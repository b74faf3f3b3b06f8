package coding

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"transcript-analysis-service/internal/document"
)

const validYAML = `
schemes:
  - id: emotions
    name: Emotional themes
    multiCodeAllowed: true
    codes:
      - name: ANGER
        keywords: ["angry", "furious", "rage"]
      - name: GRIEF
        keywords: ["loss", "grief", "mourning"]
`

func TestParse_ValidFile(t *testing.T) {
	schemes, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schemes) != 1 {
		t.Fatalf("expected 1 scheme, got %d", len(schemes))
	}
	s := schemes[0]
	if s.ID != "emotions" || !s.MultiCode || len(s.Codes) != 2 {
		t.Errorf("unexpected scheme: %+v", s)
	}
	if !s.HasCode("ANGER") || s.HasCode("JOY") {
		t.Error("HasCode gave wrong answers")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", ":\t this is not yaml {{"},
		{"no schemes", "schemes: []"},
		{"missing id", "schemes:\n  - name: X\n    codes:\n      - name: A\n        keywords: [a]"},
		{"no codes", "schemes:\n  - id: x\n    name: X\n    codes: []"},
		{"code without keywords", "schemes:\n  - id: x\n    name: X\n    codes:\n      - name: A\n        keywords: []"},
		{"duplicate code names", "schemes:\n  - id: x\n    name: X\n    codes:\n      - name: A\n        keywords: [a]\n      - name: A\n        keywords: [b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, ErrInvalidScheme) {
				t.Errorf("expected ErrInvalidScheme, got %v", err)
			}
		})
	}
}

func newCodingDoc() *document.Document {
	return document.New("t-1",
		[]string{"p-1", "p-2", "p-3"},
		[]string{
			"I was so ANGRY when it happened.",
			"The loss still weighs on me, and I am furious about it.",
			"Today was actually calm.",
		})
}

func TestApply_CaseInsensitiveKeywordMatch(t *testing.T) {
	scheme := Scheme{
		ID:   "emotions",
		Name: "Emotional themes",
		Codes: []Code{
			{Name: "ANGER", Keywords: []string{"angry"}},
		},
	}
	doc := newCodingDoc()

	total, err := NewCoder(zerolog.Nop()).Apply(scheme, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 tag, got %d", total)
	}

	codes, _ := doc.Codes("p-1")
	if len(codes) != 1 || codes[0].Code != "ANGER" {
		t.Fatalf("expected ANGRY text to receive ANGER tag, got %+v", codes)
	}
	if codes[0].Source != document.SourceAuto {
		t.Errorf("expected auto source, got %s", codes[0].Source)
	}
}

func TestApply_CaseSensitiveKeyword(t *testing.T) {
	scheme := Scheme{
		ID:   "emotions",
		Name: "Emotional themes",
		Codes: []Code{
			{Name: "ANGER", Keywords: []string{"ANGRY"}, CaseSensitive: true},
		},
	}
	doc := document.New("t-1", []string{"p-1"}, []string{"I am angry but quietly."})

	total, err := NewCoder(zerolog.Nop()).Apply(scheme, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Errorf("expected case-sensitive keyword not to match lowercase text, got %d tags", total)
	}
}

func TestApply_SingleCodeSchemeTagsFirstMatchOnly(t *testing.T) {
	scheme := Scheme{
		ID:   "emotions",
		Name: "Emotional themes",
		Codes: []Code{
			{Name: "GRIEF", Keywords: []string{"loss"}},
			{Name: "ANGER", Keywords: []string{"furious"}},
		},
	}
	doc := newCodingDoc()

	// p-2 matches both codes but the scheme disallows multi-coding.
	if _, err := NewCoder(zerolog.Nop()).Apply(scheme, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	codes, _ := doc.Codes("p-2")
	if len(codes) != 1 || codes[0].Code != "GRIEF" {
		t.Fatalf("expected only the first matching code, got %+v", codes)
	}
}

func TestApply_MultiCodeScheme(t *testing.T) {
	scheme := Scheme{
		ID:        "emotions",
		Name:      "Emotional themes",
		MultiCode: true,
		Codes: []Code{
			{Name: "GRIEF", Keywords: []string{"loss"}},
			{Name: "ANGER", Keywords: []string{"furious"}},
		},
	}
	doc := newCodingDoc()

	total, err := NewCoder(zerolog.Nop()).Apply(scheme, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 tags, got %d", total)
	}
	codes, _ := doc.Codes("p-2")
	if len(codes) != 2 {
		t.Fatalf("expected both codes on p-2, got %+v", codes)
	}
}

func TestApply_ReapplyIsIdempotent(t *testing.T) {
	scheme := Scheme{
		ID:        "emotions",
		Name:      "Emotional themes",
		MultiCode: true,
		Codes: []Code{
			{Name: "ANGER", Keywords: []string{"angry", "furious"}},
		},
	}
	doc := newCodingDoc()
	coder := NewCoder(zerolog.Nop())

	first, err := coder.Apply(scheme, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := coder.Apply(scheme, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected identical tag counts, got %d then %d", first, second)
	}
	codes, _ := doc.Codes("p-1")
	if len(codes) != 1 {
		t.Fatalf("expected no duplicate tags after re-apply, got %+v", codes)
	}
}

func TestApply_InvalidScheme(t *testing.T) {
	doc := newCodingDoc()
	if _, err := NewCoder(zerolog.Nop()).Apply(Scheme{ID: "x"}, doc); !errors.Is(err, ErrInvalidScheme) {
		t.Errorf("expected ErrInvalidScheme, got %v", err)
	}
}
