// Package entities finds candidate sensitive spans in paragraph text.
// Detection is a two-tier chain: a learned detector first, with a
// deterministic regex tier taking over when the learned tier is
// unavailable, fails, or finds nothing in a paragraph.
package entities

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"transcript-analysis-service/internal/document"
	"transcript-analysis-service/internal/observability/metrics"
)

// Detector produces typed spans for one paragraph's text. Offsets are
// byte offsets into the input.
type Detector interface {
	Detect(ctx context.Context, text string) ([]document.EntitySpan, error)
}

// Chain runs the primary detector and falls back to the secondary when
// the primary is nil, errors, or yields no spans. Tiers never mix for a
// single paragraph, so a primary span always wins over a fallback span
// that would have overlapped it.
type Chain struct {
	primary  Detector
	fallback Detector
	log      zerolog.Logger
}

// NewChain builds a detector chain. primary may be nil.
func NewChain(primary, fallback Detector, log zerolog.Logger) *Chain {
	return &Chain{primary: primary, fallback: fallback, log: log}
}

// Detect implements Detector.
func (c *Chain) Detect(ctx context.Context, text string) ([]document.EntitySpan, error) {
	if c.primary != nil {
		spans, err := c.primary.Detect(ctx, text)
		if err != nil {
			c.log.Warn().Err(err).Msg("primary entity detector failed, using fallback")
		} else if len(spans) > 0 {
			return ResolveOverlaps(spans), nil
		}
	}
	if c.fallback == nil {
		return nil, nil
	}
	spans, err := c.fallback.Detect(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(spans) > 0 {
		metrics.DefaultMetrics.FallbackActivations.Inc()
	}
	return ResolveOverlaps(spans), nil
}

// ResolveOverlaps drops spans that overlap an earlier span in the input.
// Input order is detection priority; the survivors come back sorted by
// start offset.
func ResolveOverlaps(spans []document.EntitySpan) []document.EntitySpan {
	var kept []document.EntitySpan
	for _, s := range spans {
		conflict := false
		for _, k := range kept {
			if s.Start < k.End && k.Start < s.End {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, s)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}
