// Command analyze runs the analysis pipeline over a transcript file and
// prints annotated paragraphs plus summary tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"transcript-analysis-service/internal/classify"
	"transcript-analysis-service/internal/classify/keyword"
	"transcript-analysis-service/internal/coding"
	"transcript-analysis-service/internal/document"
	"transcript-analysis-service/internal/entities"
	"transcript-analysis-service/internal/inference"
	"transcript-analysis-service/internal/pipeline"
	"transcript-analysis-service/internal/report"
)

func main() {
	_ = godotenv.Load()

	var (
		transcriptPath = flag.String("file", "", "transcript text file (required)")
		schemePath     = flag.String("schemes", "", "coding scheme YAML file")
		modelPath      = flag.String("models", os.Getenv("MODEL_PATH"), "model directory; empty uses keyword classifier")
		languageHint   = flag.String("lang", "en", "transcript language hint")
		anonymized     = flag.Bool("anonymized", false, "print the anonymization projection of detected entities")
		topWords       = flag.Int("top-words", 15, "word frequency table size")
	)
	flag.Parse()

	if *transcriptPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	raw, err := os.ReadFile(*transcriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading transcript: %v\n", err)
		os.Exit(1)
	}

	var classifier classify.Classifier
	var primary entities.Detector
	if *modelPath != "" {
		engine, err := inference.New(*modelPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "model load failed, using keyword classifier: %v\n", err)
			classifier = keyword.New()
		} else {
			defer engine.Close()
			classifier = engine
			primary = engine
		}
	} else {
		classifier = keyword.New()
	}

	analyzer := pipeline.New(pipeline.Options{
		Classifier: classifier,
		Detector:   entities.NewChain(primary, entities.NewRegexDetector(), logger),
		Logger:     logger,
	})

	ctx := context.Background()
	doc, err := analyzer.Analyze(ctx, string(raw), *languageHint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *schemePath != "" {
		schemes, err := coding.LoadFile(*schemePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading schemes: %v\n", err)
			os.Exit(1)
		}
		for _, scheme := range schemes {
			if err := analyzer.ApplyScheme(ctx, doc, scheme); err != nil {
				fmt.Fprintf(os.Stderr, "applying scheme %s: %v\n", scheme.ID, err)
				os.Exit(1)
			}
		}
	}

	if *anonymized {
		markAllAnonymized(doc)
	}

	snap := doc.Snapshot()
	printParagraphs(snap, *anonymized)
	printSentiment(snap)
	printWordFrequency(snap, *topWords)
	printEntityCounts(snap)
}

// markAllAnonymized flags every detected span so the projection hides
// all entities.
func markAllAnonymized(doc *document.Document) {
	for _, id := range doc.ParagraphIDs() {
		spans, err := doc.Entities(id)
		if err != nil {
			continue
		}
		for i := range spans {
			_ = doc.SetEntityAnonymized(id, i, true, "")
		}
	}
}

func printParagraphs(snap document.Snapshot, anonymized bool) {
	tw := newTable(table.Row{"#", "Speaker", "Sentiment", "Codes", "Text"})
	for _, p := range snap.Paragraphs {
		codes := ""
		for i, tag := range p.Codes {
			if i > 0 {
				codes += ", "
			}
			codes += tag.Code
		}
		text := p.Text
		if anonymized {
			text = p.EffectiveText
		}
		tw.AppendRow(table.Row{p.ID, p.Speaker.Effective, p.Sentiment.Effective, codes, text})
	}
	fmt.Println(tw.Render())
}

func printSentiment(snap document.Snapshot) {
	tw := newTable(table.Row{"Sentiment", "Paragraphs", "Share"}, 2, 3)
	for _, e := range report.SentimentDistribution(snap) {
		tw.AppendRow(table.Row{e.Label, e.Count, fmt.Sprintf("%.1f%%", e.Percentage)})
	}
	fmt.Println(tw.Render())
}

func printWordFrequency(snap document.Snapshot, topN int) {
	freq := report.WordFrequency(snap, topN)
	if len(freq) == 0 {
		return
	}
	tw := newTable(table.Row{"Word", "Count"}, 2)
	for _, wc := range freq {
		tw.AppendRow(table.Row{wc.Word, wc.Count})
	}
	fmt.Println(tw.Render())
}

func printEntityCounts(snap document.Snapshot) {
	counts := report.EntityCounts(snap)
	if len(counts) == 0 {
		return
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	tw := newTable(table.Row{"Entity type", "Count"}, 2)
	for _, t := range types {
		tw.AppendRow(table.Row{t, counts[document.EntityType(t)]})
	}
	fmt.Println(tw.Render())
}
