package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"transcript-analysis-service/internal/coding"
	"transcript-analysis-service/internal/document"
	"transcript-analysis-service/internal/events"
	"transcript-analysis-service/internal/report"
	"transcript-analysis-service/internal/segment"
)

type uploadRequest struct {
	Text         string `json:"text" binding:"required"`
	LanguageHint string `json:"languageHint"`
}

type overrideRequest struct {
	Value string `json:"value" binding:"required"`
}

type revertRequest struct {
	Axis string `json:"axis" binding:"required,oneof=speaker sentiment"`
}

type entityRequest struct {
	Start int    `json:"start"`
	End   int    `json:"end" binding:"required"`
	Type  string `json:"type" binding:"required"`
}

type anonymizeRequest struct {
	Anonymized  bool   `json:"anonymized"`
	Replacement string `json:"replacement"`
}

type codeRequest struct {
	SchemeID string `json:"schemeId" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// errStatus maps domain errors onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, document.ErrUnknownParagraph):
		return http.StatusNotFound
	case errors.Is(err, document.ErrOverlappingSpan):
		return http.StatusConflict
	case errors.Is(err, document.ErrSpanOutOfBounds),
		errors.Is(err, coding.ErrInvalidScheme),
		errors.Is(err, segment.ErrEmptyTranscript):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) uploadTranscript(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "text is required")
		return
	}
	hint := req.LanguageHint
	if hint == "" {
		hint = s.defaultLanguage
	}

	doc, err := s.analyzer.Analyze(c.Request.Context(), req.Text, hint)
	if err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	s.setCurrent(doc)
	s.log.Info().Str("transcriptId", doc.ID()).Int("paragraphs", doc.Len()).Msg("Transcript uploaded")
	success(c, http.StatusCreated, doc.Snapshot())
}

func (s *Server) getTranscript(c *gin.Context) {
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	snap := doc.Snapshot()
	s.metrics.SnapshotExports.Inc()
	success(c, http.StatusOK, snap)
}

type anonymizedParagraph struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (s *Server) getAnonymized(c *gin.Context) {
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}

	out := make([]anonymizedParagraph, 0, doc.Len())
	for _, id := range doc.ParagraphIDs() {
		text, err := doc.AnonymizedText(id)
		if err != nil {
			fail(c, errStatus(err), err.Error())
			return
		}
		out = append(out, anonymizedParagraph{ID: id, Text: text})
	}
	success(c, http.StatusOK, gin.H{
		"transcriptId": doc.ID(),
		"paragraphs":   out,
	})
}

func (s *Server) reclassify(c *gin.Context) {
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	hint := c.Query("languageHint")
	if hint == "" {
		hint = s.defaultLanguage
	}
	s.analyzer.Reclassify(c.Request.Context(), doc, hint)
	success(c, http.StatusOK, doc.Snapshot())
}

func (s *Server) overrideSpeaker(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "value is required")
		return
	}
	role := document.SpeakerRole(req.Value)
	switch role {
	case document.SpeakerClient, document.SpeakerTherapist, document.SpeakerUnknown:
	default:
		fail(c, http.StatusBadRequest, "unknown speaker role: "+req.Value)
		return
	}
	s.override(c, string(document.AxisSpeaker), req.Value, func(doc *document.Document, id string) error {
		return doc.SetManualSpeaker(id, role)
	})
}

func (s *Server) overrideSentiment(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "value is required")
		return
	}
	label := document.SentimentLabel(req.Value)
	switch label {
	case document.SentimentPositive, document.SentimentNegative,
		document.SentimentNeutral, document.SentimentMixed:
	default:
		fail(c, http.StatusBadRequest, "unknown sentiment label: "+req.Value)
		return
	}
	s.override(c, string(document.AxisSentiment), req.Value, func(doc *document.Document, id string) error {
		return doc.SetManualSentiment(id, label)
	})
}

func (s *Server) override(c *gin.Context, axis, value string, apply func(*document.Document, string) error) {
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	id := c.Param("id")
	if err := apply(doc, id); err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	s.metrics.RecordOverride(axis)
	if s.publisher != nil {
		_ = s.publisher.PublishAnnotation(c.Request.Context(), doc.ID(), events.AnnotationEdited{
			EventType:    events.TypeAnnotationOverridden,
			TranscriptID: doc.ID(),
			ParagraphID:  id,
			Axis:         axis,
			Value:        value,
			Timestamp:    time.Now().UnixMilli(),
		})
	}
	success(c, http.StatusOK, gin.H{"paragraphId": id, "axis": axis, "value": value})
}

func (s *Server) revertAxis(c *gin.Context) {
	var req revertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "axis must be 'speaker' or 'sentiment'")
		return
	}
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	id := c.Param("id")
	if err := doc.RevertAxis(id, document.Axis(req.Axis)); err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	s.metrics.RecordRevert(req.Axis)
	if s.publisher != nil {
		_ = s.publisher.PublishAnnotation(c.Request.Context(), doc.ID(), events.AnnotationEdited{
			EventType:    events.TypeAnnotationReverted,
			TranscriptID: doc.ID(),
			ParagraphID:  id,
			Axis:         req.Axis,
			Timestamp:    time.Now().UnixMilli(),
		})
	}
	success(c, http.StatusOK, gin.H{"paragraphId": id, "axis": req.Axis})
}

func (s *Server) addEntity(c *gin.Context) {
	var req entityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "start, end, and type are required")
		return
	}
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	id := c.Param("id")
	err := doc.AddManualEntity(id, document.EntitySpan{
		Start: req.Start,
		End:   req.End,
		Type:  document.EntityType(req.Type),
	})
	if err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	spans, _ := doc.Entities(id)
	success(c, http.StatusCreated, gin.H{"paragraphId": id, "entities": spans})
}

func (s *Server) removeEntity(c *gin.Context) {
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	id := c.Param("id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, http.StatusBadRequest, "index must be an integer")
		return
	}
	if err := doc.RemoveEntity(id, index); err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	success(c, http.StatusOK, gin.H{"paragraphId": id, "removed": index})
}

func (s *Server) anonymizeEntity(c *gin.Context) {
	var req anonymizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	id := c.Param("id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, http.StatusBadRequest, "index must be an integer")
		return
	}
	if err := doc.SetEntityAnonymized(id, index, req.Anonymized, req.Replacement); err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	if req.Anonymized {
		s.metrics.SpansAnonymized.Inc()
	}
	text, _ := doc.AnonymizedText(id)
	success(c, http.StatusOK, gin.H{"paragraphId": id, "anonymizedText": text})
}

func (s *Server) addCode(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "schemeId and code are required")
		return
	}
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	scheme, ok := s.scheme(req.SchemeID)
	if !ok {
		fail(c, http.StatusNotFound, "unknown scheme: "+req.SchemeID)
		return
	}
	if !scheme.HasCode(req.Code) {
		fail(c, http.StatusBadRequest, "code not defined in scheme: "+req.Code)
		return
	}

	id := c.Param("id")
	tag := document.CodeTag{SchemeID: req.SchemeID, Code: req.Code, Source: document.SourceManual}
	if err := doc.AddManualCode(id, tag, scheme.MultiCode); err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	s.metrics.CodesAssigned.WithLabelValues(string(document.SourceManual)).Inc()
	codes, _ := doc.Codes(id)
	success(c, http.StatusCreated, gin.H{"paragraphId": id, "codes": codes})
}

func (s *Server) removeCode(c *gin.Context) {
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	id := c.Param("id")
	if err := doc.RemoveCode(id, c.Param("scheme"), c.Param("code")); err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	codes, _ := doc.Codes(id)
	success(c, http.StatusOK, gin.H{"paragraphId": id, "codes": codes})
}

// registerScheme accepts a YAML scheme file in the request body. With
// ?apply=true the schemes also run against the current transcript.
func (s *Server) registerScheme(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, "unreadable request body")
		return
	}
	schemes, err := coding.Parse(body)
	if err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	s.registerSchemes(schemes)

	ids := make([]string, 0, len(schemes))
	for _, sc := range schemes {
		ids = append(ids, sc.ID)
	}

	if c.Query("apply") == "true" {
		doc := s.current()
		if doc == nil {
			fail(c, http.StatusNotFound, "no transcript loaded")
			return
		}
		for _, sc := range schemes {
			if err := s.analyzer.ApplyScheme(c.Request.Context(), doc, sc); err != nil {
				fail(c, errStatus(err), err.Error())
				return
			}
		}
	}
	success(c, http.StatusCreated, gin.H{"schemes": ids})
}

func (s *Server) applyScheme(c *gin.Context) {
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	scheme, ok := s.scheme(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "unknown scheme: "+c.Param("id"))
		return
	}
	if err := s.analyzer.ApplyScheme(c.Request.Context(), doc, scheme); err != nil {
		fail(c, errStatus(err), err.Error())
		return
	}
	success(c, http.StatusOK, doc.Snapshot())
}

func (s *Server) getReport(c *gin.Context) {
	doc := s.current()
	if doc == nil {
		fail(c, http.StatusNotFound, "no transcript loaded")
		return
	}
	snap := doc.Snapshot()
	success(c, http.StatusOK, gin.H{
		"transcriptId":          snap.TranscriptID,
		"statistics":            report.Statistics(snap),
		"wordFrequency":         report.WordFrequency(snap, s.topWords),
		"sentimentDistribution": report.SentimentDistribution(snap),
		"speakerDistribution":   report.SpeakerDistribution(snap),
		"codingDistribution":    report.CodingDistribution(snap),
		"entityCounts":          report.EntityCounts(snap),
	})
}
