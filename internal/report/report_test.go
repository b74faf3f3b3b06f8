package report

import (
	"testing"

	"transcript-analysis-service/internal/document"
)

func TestMeaningfulWords_FiltersStopWordsAndShortTokens(t *testing.T) {
	words := MeaningfulWords("The anxiety is about my mother and it never stops")

	want := map[string]bool{"anxiety": true, "mother": true, "never": true, "stops": true}
	for _, w := range words {
		if !want[w] {
			t.Errorf("unexpected word %q survived filtering", w)
		}
		delete(want, w)
	}
	for w := range want {
		t.Errorf("expected word %q in output", w)
	}
}

func TestMeaningfulWords_MultilingualStopWords(t *testing.T) {
	for _, w := range MeaningfulWords("porque la ansiedad nunca para") {
		if w == "porque" || w == "la" || w == "para" {
			t.Errorf("expected Spanish stop word %q to be filtered", w)
		}
	}
}

func TestMeaningfulWords_StripsPlaceholdersAndMasks(t *testing.T) {
	words := MeaningfulWords("[PERSON] visited *** and xxxx then REDACTED spoke about grief....")

	for _, w := range words {
		if w == "person" || w == "xxxx" || w == "redacted" {
			t.Errorf("expected redaction artifact %q to be filtered", w)
		}
	}
	var foundGrief bool
	for _, w := range words {
		if w == "grief" {
			foundGrief = true
		}
	}
	if !foundGrief {
		t.Errorf("expected real content kept, got %v", words)
	}
}

func TestMeaningfulWords_KeepsAccentedTokens(t *testing.T) {
	words := MeaningfulWords("la tristeza y el corazón roto")

	var found bool
	for _, w := range words {
		if w == "corazón" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected accented token kept, got %v", words)
	}
}

func buildSnapshot() document.Snapshot {
	doc := document.New("t-1",
		[]string{"p-1", "p-2", "p-3", "p-4"},
		[]string{
			"The anxiety about anxiety keeps returning.",
			"Progress feels real this week.",
			"Just scheduling talk.",
			"More anxiety again.",
		})

	_ = doc.SetAutoSpeaker("p-1", document.SpeakerClient, 0.8)
	_ = doc.SetAutoSpeaker("p-2", document.SpeakerClient, 0.8)
	_ = doc.SetAutoSpeaker("p-3", document.SpeakerTherapist, 0.8)
	_ = doc.SetAutoSentiment("p-1", document.SentimentNegative, 0.7)
	_ = doc.SetAutoSentiment("p-2", document.SentimentPositive, 0.7)
	_ = doc.SetManualSentiment("p-4", document.SentimentNegative)
	_ = doc.AddManualCode("p-1", document.CodeTag{SchemeID: "s", Code: "ANXIETY"}, true)
	_ = doc.AddManualCode("p-4", document.CodeTag{SchemeID: "s", Code: "ANXIETY"}, true)
	_ = doc.AddManualEntity("p-2", document.EntitySpan{Start: 0, End: 8, Type: document.EntityPerson})

	return doc.Snapshot()
}

func TestWordFrequency_TopNOrdering(t *testing.T) {
	snap := buildSnapshot()

	freq := WordFrequency(snap, 2)
	if len(freq) != 2 {
		t.Fatalf("expected top 2 entries, got %d", len(freq))
	}
	if freq[0].Word != "anxiety" || freq[0].Count != 3 {
		t.Errorf("expected 'anxiety' x3 first, got %+v", freq[0])
	}
	if freq[1].Count > freq[0].Count {
		t.Error("expected descending order")
	}
}

func TestSentimentDistribution_CountsAndPercentages(t *testing.T) {
	snap := buildSnapshot()

	dist := SentimentDistribution(snap)
	byLabel := make(map[string]DistributionEntry)
	for _, e := range dist {
		byLabel[e.Label] = e
	}

	if byLabel["negative"].Count != 2 {
		t.Errorf("expected 2 negative paragraphs (one by override), got %d", byLabel["negative"].Count)
	}
	if byLabel["positive"].Count != 1 {
		t.Errorf("expected 1 positive paragraph, got %d", byLabel["positive"].Count)
	}
	if byLabel["neutral"].Count != 1 {
		t.Errorf("expected 1 neutral paragraph, got %d", byLabel["neutral"].Count)
	}
	if byLabel["negative"].Percentage != 50 {
		t.Errorf("expected 50%%, got %f", byLabel["negative"].Percentage)
	}
	if byLabel["mixed"].Count != 0 {
		t.Errorf("expected mixed present at zero, got %d", byLabel["mixed"].Count)
	}

	var total float64
	for _, e := range dist {
		total += e.Percentage
	}
	if total < 99.9 || total > 100.1 {
		t.Errorf("expected percentages to sum to 100, got %f", total)
	}
}

func TestSpeakerDistribution(t *testing.T) {
	snap := buildSnapshot()

	dist := SpeakerDistribution(snap)
	byLabel := make(map[string]int)
	for _, e := range dist {
		byLabel[e.Label] = e.Count
	}
	if byLabel["client"] != 2 || byLabel["therapist"] != 1 || byLabel["unknown"] != 1 {
		t.Errorf("unexpected speaker distribution: %v", byLabel)
	}
}

func TestCodingDistribution(t *testing.T) {
	snap := buildSnapshot()

	dist := CodingDistribution(snap)
	if len(dist) != 1 {
		t.Fatalf("expected one code, got %+v", dist)
	}
	if dist[0].Label != "ANXIETY" || dist[0].Count != 2 || dist[0].Percentage != 100 {
		t.Errorf("unexpected entry: %+v", dist[0])
	}
}

func TestEntityCountsAndStatistics(t *testing.T) {
	snap := buildSnapshot()

	counts := EntityCounts(snap)
	if counts[document.EntityPerson] != 1 {
		t.Errorf("expected one PERSON span, got %v", counts)
	}

	stats := Statistics(snap)
	if stats.TotalParagraphs != 4 {
		t.Errorf("expected 4 paragraphs, got %d", stats.TotalParagraphs)
	}
	if stats.CodedParagraphs != 2 {
		t.Errorf("expected 2 coded paragraphs, got %d", stats.CodedParagraphs)
	}
	if stats.EntitiesDetected != 1 {
		t.Errorf("expected 1 entity, got %d", stats.EntitiesDetected)
	}
	if stats.ManualOverrides != 1 {
		t.Errorf("expected 1 override, got %d", stats.ManualOverrides)
	}
	if stats.UniqueWords == 0 || stats.TotalWords < stats.UniqueWords {
		t.Errorf("implausible word stats: %+v", stats)
	}
	if stats.TotalSentences != 4 {
		t.Errorf("expected 4 sentences, got %d", stats.TotalSentences)
	}
	if stats.TotalCharacters == 0 {
		t.Error("expected nonzero character count")
	}
	want := float64(stats.TotalWords) / 4
	if stats.AvgWordsPerPara != want {
		t.Errorf("expected average %v, got %v", want, stats.AvgWordsPerPara)
	}
}

func TestDistributions_EmptySnapshot(t *testing.T) {
	snap := document.New("t-0", nil, nil).Snapshot()

	for _, e := range SentimentDistribution(snap) {
		if e.Count != 0 || e.Percentage != 0 {
			t.Errorf("expected zeros for empty transcript, got %+v", e)
		}
	}
	if len(WordFrequency(snap, 10)) != 0 {
		t.Error("expected empty frequency table")
	}
}
