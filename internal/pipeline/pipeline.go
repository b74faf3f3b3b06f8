// Package pipeline orchestrates the analysis stages that turn raw
// transcript text into an annotated document: segmentation, speaker and
// sentiment classification, entity detection, and thematic coding.
//
// Paragraphs are processed independently with bounded parallelism. A
// failure on one paragraph never aborts the others; that paragraph is
// left unknown/unscored and the pipeline completes with best-effort
// results.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"transcript-analysis-service/internal/classify"
	"transcript-analysis-service/internal/coding"
	"transcript-analysis-service/internal/document"
	"transcript-analysis-service/internal/entities"
	"transcript-analysis-service/internal/events"
	"transcript-analysis-service/internal/observability/logging"
	"transcript-analysis-service/internal/observability/metrics"
	"transcript-analysis-service/internal/segment"
)

// Options configures an Analyzer. Zero values get sensible defaults.
type Options struct {
	Classifier      classify.Classifier // nil disables classification
	Detector        entities.Detector   // nil disables entity detection
	Publisher       *events.Publisher
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger
	Concurrency     int
	ClassifyTimeout time.Duration
}

// Analyzer runs the analysis pipeline over one transcript at a time.
// The document is the only mutable state; the analyzer itself is safe
// to share.
type Analyzer struct {
	classifier classify.Classifier
	detector   entities.Detector
	publisher  *events.Publisher
	metrics    *metrics.Metrics
	coder      *coding.Coder
	log        zerolog.Logger

	concurrency     int
	classifyTimeout time.Duration
}

// New constructs an Analyzer.
func New(opts Options) *Analyzer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.ClassifyTimeout <= 0 {
		opts.ClassifyTimeout = 10 * time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultMetrics
	}
	return &Analyzer{
		classifier:      opts.Classifier,
		detector:        opts.Detector,
		publisher:       opts.Publisher,
		metrics:         opts.Metrics,
		coder:           coding.NewCoder(opts.Logger),
		log:             opts.Logger,
		concurrency:     opts.Concurrency,
		classifyTimeout: opts.ClassifyTimeout,
	}
}

// Analyze segments raw transcript text and annotates every paragraph.
// It fails only on structural problems (empty transcript); inference
// failures degrade to unknown/unscored paragraphs.
func (a *Analyzer) Analyze(ctx context.Context, raw, languageHint string) (*document.Document, error) {
	texts, err := segment.Split(raw)
	if err != nil {
		return nil, err
	}

	gen := segment.NewGenerator()
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = gen.Next()
	}

	doc := document.New(uuid.NewString(), ids, texts)
	a.metrics.RecordTranscriptLoaded(len(ids))
	a.log.Info().
		Str("transcriptId", doc.ID()).
		Int("paragraphs", len(ids)).
		Msg("Transcript segmented")

	a.annotate(ctx, doc, languageHint)

	if a.publisher != nil {
		_ = a.publisher.PublishLifecycle(ctx, doc.ID(), events.TranscriptLoaded{
			EventType:    events.TypeTranscriptLoaded,
			TranscriptID: doc.ID(),
			Paragraphs:   len(ids),
			LanguageHint: languageHint,
			Timestamp:    time.Now().UnixMilli(),
		})
	}
	return doc, nil
}

// Reclassify re-runs inference over an existing document. Manual
// overrides keep the effective values; automatic values update in the
// background per the merge rules.
func (a *Analyzer) Reclassify(ctx context.Context, doc *document.Document, languageHint string) {
	a.annotate(ctx, doc, languageHint)
}

// ApplyScheme runs a coding scheme over the document's effective text.
func (a *Analyzer) ApplyScheme(ctx context.Context, doc *document.Document, scheme coding.Scheme) error {
	tags, err := a.coder.Apply(scheme, doc)
	if err != nil {
		return err
	}
	a.metrics.SchemeApplications.Inc()
	a.metrics.CodesAssigned.WithLabelValues(string(document.SourceAuto)).Add(float64(tags))

	if a.publisher != nil {
		_ = a.publisher.PublishAnnotation(ctx, doc.ID(), events.SchemeApplied{
			EventType:    events.TypeSchemeApplied,
			TranscriptID: doc.ID(),
			SchemeID:     scheme.ID,
			TagsAssigned: tags,
			Timestamp:    time.Now().UnixMilli(),
		})
	}
	return nil
}

// annotate fans paragraphs out to workers. Worker errors are consumed
// per paragraph, so the group never aborts early.
func (a *Analyzer) annotate(ctx context.Context, doc *document.Document, languageHint string) {
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for _, id := range doc.ParagraphIDs() {
		g.Go(func() error {
			a.annotateParagraph(ctx, doc, id, languageHint)
			return nil
		})
	}
	_ = g.Wait()
}

func (a *Analyzer) annotateParagraph(ctx context.Context, doc *document.Document, paragraphID, languageHint string) {
	text, err := doc.Text(paragraphID)
	if err != nil {
		return
	}
	plog := logging.WithParagraph(doc.ID(), paragraphID)

	if a.classifier != nil {
		a.classifyAxis(ctx, doc, paragraphID, text, languageHint, classify.TaskSpeaker, plog)
		a.classifyAxis(ctx, doc, paragraphID, text, languageHint, classify.TaskSentiment, plog)
	}

	if a.detector != nil {
		spans, err := a.detector.Detect(ctx, text)
		if err != nil {
			plog.Warn().Err(err).Msg("Entity detection failed, paragraph left without auto spans")
			return
		}
		if err := doc.SetAutoEntities(paragraphID, spans); err != nil {
			plog.Error().Err(err).Msg("Storing entity spans failed")
			return
		}
		for _, s := range spans {
			a.metrics.RecordEntity(string(s.Type))
		}
	}
}

func (a *Analyzer) classifyAxis(ctx context.Context, doc *document.Document, paragraphID, text, languageHint string, task classify.Task, plog zerolog.Logger) {
	start := time.Now()
	res, err := a.classifyWithTimeout(ctx, text, task, languageHint)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		outcome := "error"
		if errors.Is(err, classify.ErrModelUnavailable) {
			outcome = "unavailable"
		}
		a.metrics.RecordClassification(string(task), outcome, elapsed)
		plog.Warn().Err(err).Str("task", string(task)).Msg("Classification failed, paragraph left unscored")
		return
	}
	a.metrics.RecordClassification(string(task), "ok", elapsed)

	confidence := res.Confidence
	if res.LowConfidence {
		// Unsupported language: keep the label but mark the score down.
		confidence = confidence / 2
	}

	switch task {
	case classify.TaskSpeaker:
		err = doc.SetAutoSpeaker(paragraphID, document.SpeakerRole(res.Label), confidence)
	case classify.TaskSentiment:
		err = doc.SetAutoSentiment(paragraphID, document.SentimentLabel(res.Label), confidence)
	}
	if err != nil {
		plog.Error().Err(err).Str("task", string(task)).Msg("Storing classification failed")
		return
	}

	if a.publisher != nil {
		_ = a.publisher.PublishAnnotation(ctx, doc.ID(), events.ParagraphAnnotated{
			EventType:    events.TypeParagraphAnnotated,
			TranscriptID: doc.ID(),
			ParagraphID:  paragraphID,
			Axis:         string(task),
			Value:        res.Label,
			Confidence:   confidence,
			Timestamp:    time.Now().UnixMilli(),
		})
	}
}

// classifyWithTimeout bounds one inference call. On expiry the
// paragraph is treated as ErrModelUnavailable for this run only; the
// rest of the batch continues.
func (a *Analyzer) classifyWithTimeout(ctx context.Context, text string, task classify.Task, languageHint string) (classify.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.classifyTimeout)
	defer cancel()

	type outcome struct {
		res classify.Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := a.classifier.Classify(ctx, text, task, languageHint)
		ch <- outcome{res, err}
	}()

	select {
	case o := <-ch:
		return o.res, o.err
	case <-ctx.Done():
		a.metrics.ClassificationTimeouts.Inc()
		return classify.Result{}, classify.ErrModelUnavailable
	}
}
