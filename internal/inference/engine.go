// Package inference wraps the multilingual ONNX model behind the
// classifier and entity-detector contracts. One hugot session is loaded
// per process and shared read-only by the speaker head, the sentiment
// head, and the NER pipeline.
package inference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	khugot "github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/rs/zerolog"

	"transcript-analysis-service/internal/classify"
	"transcript-analysis-service/internal/document"
)

// Engine runs the learned model. Safe for concurrent use; the session
// and pipelines are read-only after construction.
type Engine struct {
	session   *khugot.Session
	speaker   *pipelines.TextClassificationPipeline
	sentiment *pipelines.TextClassificationPipeline
	ner       *pipelines.TokenClassificationPipeline
	log       zerolog.Logger
}

// New loads the model from modelPath, which must contain the exported
// speaker, sentiment and ner sub-models. A missing or broken model
// directory yields classify.ErrModelUnavailable; callers construct the
// engine once per session, so a load failure is reported once and never
// retried.
func New(modelPath string, log zerolog.Logger) (*Engine, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("%w: no model path configured", classify.ErrModelUnavailable)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %v", classify.ErrModelUnavailable, err)
	}

	session, err := khugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("%w: creating session: %v", classify.ErrModelUnavailable, err)
	}

	e := &Engine{session: session, log: log}

	e.speaker, err = khugot.NewPipeline(session, khugot.TextClassificationConfig{
		ModelPath: filepath.Join(modelPath, "speaker"),
		Name:      "speaker-head",
	})
	if err != nil {
		return nil, e.loadFailed("speaker head", err)
	}

	e.sentiment, err = khugot.NewPipeline(session, khugot.TextClassificationConfig{
		ModelPath: filepath.Join(modelPath, "sentiment"),
		Name:      "sentiment-head",
	})
	if err != nil {
		return nil, e.loadFailed("sentiment head", err)
	}

	e.ner, err = khugot.NewPipeline(session, khugot.TokenClassificationConfig{
		ModelPath: filepath.Join(modelPath, "ner"),
		Name:      "ner",
	})
	if err != nil {
		return nil, e.loadFailed("ner pipeline", err)
	}
	// Group adjacent tokens into whole entities.
	e.ner.AggregationStrategy = "SIMPLE"

	log.Info().Str("modelPath", modelPath).Msg("Inference engine loaded")
	return e, nil
}

func (e *Engine) loadFailed(what string, err error) error {
	_ = e.session.Destroy()
	return fmt.Errorf("%w: loading %s: %v", classify.ErrModelUnavailable, what, err)
}

// Close releases the model session.
func (e *Engine) Close() error {
	return e.session.Destroy()
}

// Classify implements classify.Classifier.
func (e *Engine) Classify(ctx context.Context, text string, task classify.Task, languageHint string) (classify.Result, error) {
	if err := ctx.Err(); err != nil {
		return classify.Result{}, fmt.Errorf("%w: %v", classify.ErrModelUnavailable, err)
	}

	var pipe *pipelines.TextClassificationPipeline
	switch task {
	case classify.TaskSpeaker:
		pipe = e.speaker
	case classify.TaskSentiment:
		pipe = e.sentiment
	default:
		return classify.Result{}, fmt.Errorf("unknown classification task %q", task)
	}

	output, err := pipe.RunPipeline([]string{text})
	if err != nil {
		return classify.Result{}, fmt.Errorf("%w: %v", classify.ErrModelUnavailable, err)
	}
	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return classify.Result{}, fmt.Errorf("%w: empty classification output", classify.ErrModelUnavailable)
	}

	best := output.ClassificationOutputs[0][0]
	for _, c := range output.ClassificationOutputs[0][1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return classify.Result{
		Label:         strings.ToLower(best.Label),
		Confidence:    float64(best.Score),
		LowConfidence: !classify.SupportedLanguage(languageHint),
	}, nil
}

// nerLabels maps model entity labels onto the document taxonomy.
var nerLabels = map[string]document.EntityType{
	"PER":          document.EntityPerson,
	"PERSON":       document.EntityPerson,
	"ORG":          document.EntityOrganization,
	"ORGANIZATION": document.EntityOrganization,
	"GPE":          document.EntityLocation,
	"LOC":          document.EntityLocation,
	"LOCATION":     document.EntityLocation,
	"DATE":         document.EntityDate,
	"TIME":         document.EntityTime,
	"MONEY":        document.EntityMoney,
	"PERCENT":      document.EntityPercent,
	"PHONE":        document.EntityPhone,
	"EMAIL":        document.EntityEmail,
}

// Detect implements the entity detector contract using the NER
// pipeline. Labels outside the supported taxonomy are dropped.
func (e *Engine) Detect(ctx context.Context, text string) ([]document.EntitySpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := e.ner.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("running ner pipeline: %w", err)
	}
	if len(output.Entities) == 0 {
		return nil, nil
	}

	var spans []document.EntitySpan
	for _, ent := range output.Entities[0] {
		label := strings.TrimPrefix(strings.ToUpper(ent.Entity), "B-")
		label = strings.TrimPrefix(label, "I-")
		entityType, ok := nerLabels[label]
		if !ok {
			continue
		}
		start, end := int(ent.Start), int(ent.End)
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		spans = append(spans, document.EntitySpan{
			Start:      start,
			End:        end,
			Type:       entityType,
			Text:       text[start:end],
			Source:     document.SourceAuto,
			Confidence: float64(ent.Score),
		})
	}
	return spans, nil
}
