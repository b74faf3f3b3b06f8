// Package api exposes the analysis pipeline over HTTP. One transcript
// is active at a time; uploading a new one discards all prior
// annotation state.
package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"transcript-analysis-service/internal/coding"
	"transcript-analysis-service/internal/document"
	"transcript-analysis-service/internal/events"
	"transcript-analysis-service/internal/observability/metrics"
	"transcript-analysis-service/internal/pipeline"
)

// Server holds the active document and its registered coding schemes.
// The document has its own lock for paragraph state; the server lock
// only guards swapping the document pointer and the scheme registry.
type Server struct {
	mu      sync.RWMutex
	doc     *document.Document
	schemes map[string]coding.Scheme

	analyzer        *pipeline.Analyzer
	publisher       *events.Publisher
	metrics         *metrics.Metrics
	log             zerolog.Logger
	defaultLanguage string
	topWords        int
}

// Options configures a Server.
type Options struct {
	Analyzer        *pipeline.Analyzer
	Publisher       *events.Publisher
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger
	DefaultLanguage string
	TopWords        int
}

// NewServer constructs a Server with no active transcript.
func NewServer(opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultMetrics
	}
	if opts.TopWords <= 0 {
		opts.TopWords = 15
	}
	return &Server{
		schemes:         make(map[string]coding.Scheme),
		analyzer:        opts.Analyzer,
		publisher:       opts.Publisher,
		metrics:         opts.Metrics,
		log:             opts.Logger,
		defaultLanguage: opts.DefaultLanguage,
		topWords:        opts.TopWords,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		success(c, http.StatusOK, gin.H{
			"status":  "ok",
			"service": "transcript-analysis-service",
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/transcripts", s.uploadTranscript)
		v1.GET("/transcripts/current", s.getTranscript)
		v1.GET("/transcripts/current/anonymized", s.getAnonymized)
		v1.POST("/reclassify", s.reclassify)

		v1.PUT("/paragraphs/:id/speaker", s.overrideSpeaker)
		v1.PUT("/paragraphs/:id/sentiment", s.overrideSentiment)
		v1.POST("/paragraphs/:id/revert", s.revertAxis)

		v1.POST("/paragraphs/:id/entities", s.addEntity)
		v1.DELETE("/paragraphs/:id/entities/:index", s.removeEntity)
		v1.PUT("/paragraphs/:id/entities/:index/anonymize", s.anonymizeEntity)

		v1.POST("/paragraphs/:id/codes", s.addCode)
		v1.DELETE("/paragraphs/:id/codes/:scheme/:code", s.removeCode)

		v1.POST("/schemes", s.registerScheme)
		v1.POST("/schemes/:id/apply", s.applyScheme)

		v1.GET("/report", s.getReport)
	}

	return r
}

// current returns the active document, or nil when no transcript has
// been uploaded yet.
func (s *Server) current() *document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func (s *Server) setCurrent(doc *document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
}

func (s *Server) scheme(id string) (coding.Scheme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.schemes[id]
	return sc, ok
}

func (s *Server) registerSchemes(schemes []coding.Scheme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range schemes {
		s.schemes[sc.ID] = sc
	}
}
