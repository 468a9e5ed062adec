package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

var (
	// ErrHTTPRequestFailed is returned when the posting cannot be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no posting text was found
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// URLOptions configures posting ingestion.
type URLOptions struct {
	// UseBrowser renders script-heavy pages in headless Chrome
	UseBrowser bool
	Fetch      *fetch.Options
	Logger     *zap.Logger
}

// IngestFromURL fetches a job posting, extracts its main text with
// platform-specific selectors and cleans it.
func IngestFromURL(ctx context.Context, urlStr string, opts URLOptions) (*types.RawDocument, *Metadata, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fetchOpts := opts.Fetch
	if fetchOpts == nil {
		fetchOpts = &fetch.Options{Logger: logger}
	}

	text, _, err := fetch.Posting(ctx, urlStr, opts.UseBrowser, fetchOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, nil, fmt.Errorf("%w: %s", ErrContentExtractionFailed, urlStr)
	}

	meta := NewMetadata(cleaned, urlStr)
	meta.Format = FormatHTML
	meta.Platform = string(fetch.DetectPlatform(urlStr))
	logger.Info("ingested posting",
		zap.String("url", urlStr),
		zap.String("platform", meta.Platform),
		zap.Int("chars", len(cleaned)))
	return &types.RawDocument{Text: cleaned}, meta, nil
}
