// Package classify defines the contract for speaker and sentiment
// classification over paragraph text.
package classify

import (
	"context"
	"errors"

	"golang.org/x/text/language"
)

// Task selects which output head of the model answers.
type Task string

const (
	TaskSpeaker   Task = "speaker"
	TaskSentiment Task = "sentiment"
)

// ErrModelUnavailable signals missing or broken model weights, or an
// inference timeout. Callers degrade to unknown/neutral with no
// confidence instead of blocking the pipeline.
var ErrModelUnavailable = errors.New("classification model unavailable")

// Result is a single classification outcome. Confidence is a calibrated
// probability in [0,1]. LowConfidence flags best-effort results for
// languages outside the supported set.
type Result struct {
	Label         string
	Confidence    float64
	LowConfidence bool
}

// Classifier classifies a paragraph for one task. Implementations must
// be safe for concurrent use; model weights are the only shared state.
type Classifier interface {
	Classify(ctx context.Context, text string, task Task, languageHint string) (Result, error)
}

// supported are the languages the model was trained on.
var supported = language.NewMatcher([]language.Tag{
	language.English,
	language.Spanish,
	language.Portuguese,
	language.French,
})

// SupportedLanguage reports whether a BCP 47 language hint falls inside
// the supported set. An empty hint counts as supported so unhinted
// transcripts are not penalized; an unparsable hint counts as
// unsupported.
func SupportedLanguage(hint string) bool {
	if hint == "" {
		return true
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return false
	}
	_, _, conf := supported.Match(tag)
	return conf >= language.High
}
