// Package keyword implements a deterministic rule-based classifier used
// when the learned model cannot be loaded. Indicator phrases are scored
// by occurrence and the winning label's share becomes the confidence.
package keyword

import (
	"context"
	"strings"

	"transcript-analysis-service/internal/classify"
	"transcript-analysis-service/internal/document"
)

var therapistIndicators = []string{
	"how does that make you feel",
	"how do you feel",
	"what do you think",
	"tell me more about",
	"tell me about",
	"can you describe",
	"i understand",
	"that sounds",
	"from my perspective",
	"our session",
}

var clientIndicators = []string{
	"i feel",
	"i think",
	"i believe",
	"i am",
	"i have",
	"i want",
	"my problem",
	"i'm struggling",
	"i don't know",
	"it's hard",
}

var positiveWords = []string{
	"happy", "joy", "good", "great", "wonderful", "amazing", "love",
	"excellent", "better", "progress", "hope",
}

var negativeWords = []string{
	"sad", "angry", "bad", "terrible", "awful", "hate", "horrible",
	"worst", "worse", "difficult", "fear",
}

// Model is a stateless keyword classifier. The zero value is usable.
type Model struct{}

// New returns a keyword classifier.
func New() *Model {
	return &Model{}
}

// Classify scores indicator phrases against the lowercased text.
func (m *Model) Classify(_ context.Context, text string, task classify.Task, languageHint string) (classify.Result, error) {
	lower := strings.ToLower(text)

	var res classify.Result
	switch task {
	case classify.TaskSpeaker:
		res = classifySpeaker(lower)
	case classify.TaskSentiment:
		res = classifySentiment(lower)
	default:
		res = classify.Result{Label: string(document.SpeakerUnknown)}
	}
	if !classify.SupportedLanguage(languageHint) {
		res.LowConfidence = true
	}
	return res, nil
}

func count(lower string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			n++
		}
	}
	return n
}

func classifySpeaker(lower string) classify.Result {
	therapist := count(lower, therapistIndicators)
	client := count(lower, clientIndicators)

	label := document.SpeakerUnknown
	best := 0
	switch {
	case therapist > client:
		label, best = document.SpeakerTherapist, therapist
	case client > therapist:
		label, best = document.SpeakerClient, client
	}
	return classify.Result{
		Label:      string(label),
		Confidence: confidence(best, therapist+client),
	}
}

func classifySentiment(lower string) classify.Result {
	positive := count(lower, positiveWords)
	negative := count(lower, negativeWords)

	label := document.SentimentNeutral
	best := 0
	switch {
	case positive > negative:
		label, best = document.SentimentPositive, positive
	case negative > positive:
		label, best = document.SentimentNegative, negative
	case positive > 0 && negative > 0:
		label, best = document.SentimentMixed, positive
	}
	return classify.Result{
		Label:      string(label),
		Confidence: confidence(best, positive+negative),
	}
}

// confidence normalizes the winning score against all indicator hits;
// the +1 keeps a keyword match from ever claiming full certainty.
func confidence(best, total int) float64 {
	if best == 0 {
		return 0
	}
	return float64(best) / float64(total+1)
}
