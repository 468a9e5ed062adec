package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the minimum extracted text length for an HTTP fetch to
// count as successful. Shorter pages are likely script-rendered.
const MinContentLength = 500

// DefaultBrowserTimeout bounds a headless render.
const DefaultBrowserTimeout = 30 * time.Second

// ShouldUseBrowser reports whether the extracted text is too short to be a
// server-rendered posting.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Render loads a page in headless Chrome and returns the rendered HTML.
// Requires Chrome/Chromium to be installed.
func Render(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	logger.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var rendered string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side rendering time to fill the posting body
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(rendered)))
	return rendered, nil
}

// Posting fetches a job posting and returns its main text. When useBrowser is
// set and the HTTP content is too thin, the page is rendered headlessly; a
// failed render keeps the HTTP text.
func Posting(ctx context.Context, urlStr string, useBrowser bool, opts *Options) (string, *Result, error) {
	opts = opts.withDefaults()
	platform := DetectPlatform(urlStr)
	contentSelectors := PlatformContentSelectors(platform)
	noiseSelectors := PlatformNoiseSelectors(platform)

	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return "", result, err
	}
	text, err := ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", result, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}
	opts.Logger.Debug("extracted posting text",
		zap.String("platform", string(platform)),
		zap.Int("chars", len(text)))

	if !useBrowser || !ShouldUseBrowser(text) {
		return text, result, nil
	}

	rendered, err := Render(ctx, urlStr, opts.Timeout, opts.Logger)
	if err != nil {
		opts.Logger.Warn("browser fallback failed, keeping HTTP content", zap.String("url", urlStr), zap.Error(err))
		return text, result, nil
	}
	renderedText, err := ExtractMainText(rendered, contentSelectors, noiseSelectors...)
	if err != nil || len(renderedText) <= len(text) {
		return text, result, nil
	}
	result.HTML = rendered
	return renderedText, result, nil
}
