package layout

import (
	"context"

	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

// TokenSource supplies positioned tokens for a document, typically an OCR or
// layout-model provider.
type TokenSource interface {
	Tokens(ctx context.Context, doc types.RawDocument) ([]types.Token, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context, doc types.RawDocument) ([]types.Token, error)

// Tokens calls f.
func (f TokenSourceFunc) Tokens(ctx context.Context, doc types.RawDocument) ([]types.Token, error) {
	return f(ctx, doc)
}

// SegmentWithHints segments doc, asking src for spatial tokens when the
// document carries none. Provider errors and empty answers fall back to
// text-only segmentation.
func (s *Segmenter) SegmentWithHints(ctx context.Context, doc types.RawDocument, src TokenSource) []types.Segment {
	if doc.HasTokens() || src == nil {
		return s.Segment(doc)
	}

	tokens, err := src.Tokens(ctx, doc)
	switch {
	case err != nil:
		s.logger.Warn("layout hints unavailable, using text heuristics", zap.Error(err))
		return s.Segment(doc)
	case len(tokens) == 0:
		s.logger.Debug("layout provider returned no tokens")
		return s.Segment(doc)
	}

	withTokens := types.RawDocument{Text: doc.Text, Tokens: tokens}
	return s.Segment(withTokens)
}
