package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"transcript-analysis-service/internal/classify/keyword"
	"transcript-analysis-service/internal/entities"
	"transcript-analysis-service/internal/pipeline"
)

func newTestServer() *Server {
	analyzer := pipeline.New(pipeline.Options{
		Classifier: keyword.New(),
		Detector:   entities.NewChain(nil, entities.NewRegexDetector(), zerolog.Nop()),
		Logger:     zerolog.Nop(),
	})
	return NewServer(Options{
		Analyzer:        analyzer,
		Logger:          zerolog.Nop(),
		DefaultLanguage: "en",
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   string         `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return envelope.Data
}

func uploadTranscript(t *testing.T, router http.Handler, text string) []string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/transcripts", map[string]string{"text": text})
	if w.Code != http.StatusCreated {
		t.Fatalf("upload returned %d: %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	paragraphs, _ := data["paragraphs"].([]any)

	ids := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		m := p.(map[string]any)
		ids = append(ids, m["id"].(string))
	}
	return ids
}

func TestUploadAndGetTranscript(t *testing.T) {
	router := newTestServer().Router()

	ids := uploadTranscript(t, router, "I feel terrible today.\n\nHow does that make you feel?")
	if len(ids) != 2 {
		t.Fatalf("expected 2 paragraphs, got %v", ids)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/transcripts/current", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get returned %d", w.Code)
	}
}

func TestUpload_EmptyTranscript(t *testing.T) {
	router := newTestServer().Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/transcripts", map[string]string{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty transcript, got %d", w.Code)
	}
}

func TestUpload_ReplacesPriorState(t *testing.T) {
	srv := newTestServer()
	router := srv.Router()

	ids := uploadTranscript(t, router, "First session transcript.")
	w := doJSON(t, router, http.MethodPut, "/api/v1/paragraphs/"+ids[0]+"/speaker",
		map[string]string{"value": "client"})
	if w.Code != http.StatusOK {
		t.Fatalf("override returned %d: %s", w.Code, w.Body.String())
	}

	uploadTranscript(t, router, "Second session transcript.")

	// Prior annotation state is discarded with the old document.
	w = doJSON(t, router, http.MethodGet, "/api/v1/transcripts/current", nil)
	data := decodeData(t, w)
	p := data["paragraphs"].([]any)[0].(map[string]any)
	speaker := p["speaker"].(map[string]any)
	if speaker["override"] != false {
		t.Errorf("expected override discarded with old transcript, got %+v", speaker)
	}
	if text, _ := p["text"].(string); text != "Second session transcript." {
		t.Errorf("expected new transcript text, got %q", text)
	}
}

func TestNoTranscriptLoaded(t *testing.T) {
	router := newTestServer().Router()

	for _, path := range []string{
		"/api/v1/transcripts/current",
		"/api/v1/transcripts/current/anonymized",
		"/api/v1/report",
	} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s expected 404, got %d", path, w.Code)
		}
	}
}

func TestOverrideAndRevert(t *testing.T) {
	router := newTestServer().Router()
	ids := uploadTranscript(t, router, "How does that make you feel?")

	w := doJSON(t, router, http.MethodPut, "/api/v1/paragraphs/"+ids[0]+"/speaker",
		map[string]string{"value": "client"})
	if w.Code != http.StatusOK {
		t.Fatalf("override returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/transcripts/current", nil)
	data := decodeData(t, w)
	p := data["paragraphs"].([]any)[0].(map[string]any)
	speaker := p["speaker"].(map[string]any)
	if speaker["effective"] != "client" || speaker["override"] != true {
		t.Errorf("expected overridden speaker, got %+v", speaker)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/paragraphs/"+ids[0]+"/revert",
		map[string]string{"axis": "speaker"})
	if w.Code != http.StatusOK {
		t.Fatalf("revert returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/transcripts/current", nil)
	data = decodeData(t, w)
	p = data["paragraphs"].([]any)[0].(map[string]any)
	speaker = p["speaker"].(map[string]any)
	if speaker["override"] != false {
		t.Errorf("expected override cleared, got %+v", speaker)
	}
	if speaker["effective"] != "therapist" {
		t.Errorf("expected auto value restored, got %v", speaker["effective"])
	}
}

func TestOverride_InvalidValue(t *testing.T) {
	router := newTestServer().Router()
	ids := uploadTranscript(t, router, "Some text.")

	w := doJSON(t, router, http.MethodPut, "/api/v1/paragraphs/"+ids[0]+"/sentiment",
		map[string]string{"value": "ecstatic"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown label, got %d", w.Code)
	}
}

func TestManualEntityLifecycle(t *testing.T) {
	router := newTestServer().Router()
	ids := uploadTranscript(t, router, "We talked for an hour about nothing in particular.")

	// "We talked" — mark the first 9 bytes as a manual span.
	w := doJSON(t, router, http.MethodPost, "/api/v1/paragraphs/"+ids[0]+"/entities",
		map[string]any{"start": 0, "end": 9, "type": "PERSON"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add entity returned %d: %s", w.Code, w.Body.String())
	}

	// Overlapping span conflicts.
	w = doJSON(t, router, http.MethodPost, "/api/v1/paragraphs/"+ids[0]+"/entities",
		map[string]any{"start": 3, "end": 12, "type": "PERSON"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for overlapping span, got %d", w.Code)
	}

	// Out of bounds.
	w = doJSON(t, router, http.MethodPost, "/api/v1/paragraphs/"+ids[0]+"/entities",
		map[string]any{"start": 900, "end": 903, "type": "PERSON"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-bounds span, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/api/v1/paragraphs/"+ids[0]+"/entities/0/anonymize",
		map[string]any{"anonymized": true})
	if w.Code != http.StatusOK {
		t.Fatalf("anonymize returned %d: %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	text, _ := data["anonymizedText"].(string)
	if text != "[PERSON] for an hour about nothing in particular." {
		t.Errorf("unexpected anonymized text %q", text)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/paragraphs/"+ids[0]+"/entities/0", nil)
	if w.Code != http.StatusOK {
		t.Errorf("remove entity returned %d", w.Code)
	}
}

const schemeYAML = `
schemes:
  - id: emotions
    name: Emotional themes
    codes:
      - name: ANGER
        keywords: ["angry"]
`

func TestSchemeRegisterApplyAndManualCodes(t *testing.T) {
	router := newTestServer().Router()
	ids := uploadTranscript(t, router, "I was so ANGRY about all of it.\n\nNothing else.")

	w := doJSON(t, router, http.MethodPost, "/api/v1/schemes", schemeYAML)
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/schemes/emotions/apply", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("apply returned %d: %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	p := data["paragraphs"].([]any)[0].(map[string]any)
	codes, _ := p["codes"].([]any)
	if len(codes) != 1 {
		t.Fatalf("expected ANGER tag on first paragraph, got %v", p["codes"])
	}

	// Manual tag on the second paragraph.
	w = doJSON(t, router, http.MethodPost, "/api/v1/paragraphs/"+ids[1]+"/codes",
		map[string]string{"schemeId": "emotions", "code": "ANGER"})
	if w.Code != http.StatusCreated {
		t.Fatalf("manual code returned %d: %s", w.Code, w.Body.String())
	}

	// Unknown code in the scheme.
	w = doJSON(t, router, http.MethodPost, "/api/v1/paragraphs/"+ids[1]+"/codes",
		map[string]string{"schemeId": "emotions", "code": "JOY"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for undefined code, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete,
		fmt.Sprintf("/api/v1/paragraphs/%s/codes/emotions/ANGER", ids[1]), nil)
	if w.Code != http.StatusOK {
		t.Errorf("remove code returned %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterScheme_Invalid(t *testing.T) {
	router := newTestServer().Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/schemes", "schemes: []")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid scheme file, got %d", w.Code)
	}
}

func TestReport(t *testing.T) {
	router := newTestServer().Router()
	uploadTranscript(t, router, "I feel terrible about the anxiety.\n\nI made progress and feel happy.")

	w := doJSON(t, router, http.MethodGet, "/api/v1/report", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("report returned %d", w.Code)
	}
	data := decodeData(t, w)
	for _, key := range []string{"statistics", "wordFrequency", "sentimentDistribution", "speakerDistribution"} {
		if _, ok := data[key]; !ok {
			t.Errorf("expected %s in report", key)
		}
	}
}
