package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
	pdflib "github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	// wordGapRatio is the horizontal gap, as a share of font size, that
	// separates two glyphs into different words
	wordGapRatio = 0.25
	// fallbackGlyphWidth estimates glyph width when the font has no metrics
	fallbackGlyphWidth = 0.5
)

var errNoTextLayer = errors.New("PDF has no extractable text layer")

// loadPDF reads the text layer with positioned tokens, falling back to the
// pdftotext binary when enabled.
func loadPDF(ctx context.Context, data []byte, opts Options) (*types.RawDocument, error) {
	logger := opts.logger()
	chain := parsing.NewChain(
		parsing.Stage[[]byte, *types.RawDocument]{Name: "text-layer", Run: pdfTextLayer(logger)},
		parsing.Stage[[]byte, *types.RawDocument]{Name: "pdftotext", Run: func(ctx context.Context, data []byte) (*types.RawDocument, error) {
			if !opts.PDFToText {
				return nil, parsing.ErrStageSkipped
			}
			return pdfToText(ctx, data)
		}},
	)

	res, err := chain.Run(ctx, data)
	if err != nil {
		return nil, err
	}
	for _, a := range res.Attempts {
		logger.Info("pdf stage failed", zap.String("stage", a.Stage), zap.Error(a.Err))
	}
	return res.Value, nil
}

func pdfTextLayer(logger *zap.Logger) func(context.Context, []byte) (*types.RawDocument, error) {
	return func(ctx context.Context, data []byte) (*types.RawDocument, error) {
		reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("open pdf: %w", err)
		}

		var tokens []types.Token
		for i := 1; i <= reader.NumPage(); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}
			pageTokens, err := readPageTokens(page, i)
			if err != nil {
				logger.Warn("skipping unreadable pdf page", zap.Int("page", i), zap.Error(err))
				continue
			}
			tokens = append(tokens, pageTokens...)
		}
		if len(tokens) == 0 {
			return nil, errNoTextLayer
		}
		return &types.RawDocument{Text: linesFromTokens(tokens), Tokens: tokens}, nil
	}
}

// readPageTokens groups the page's glyphs into words. The library panics on
// some malformed content streams, so the page is read under recover.
func readPageTokens(page pdflib.Page, num int) (tokens []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens, err = nil, fmt.Errorf("malformed content stream: %v", r)
		}
	}()

	content := page.Content()
	height := pageHeight(page, content.Text)

	var (
		word              strings.Builder
		left, right, base float64
		size              float64
		open              bool
	)
	flush := func() {
		if !open {
			return
		}
		if text := strings.TrimSpace(word.String()); text != "" {
			tokens = append(tokens, types.Token{
				Text:   text,
				Page:   num,
				Left:   left,
				Top:    height - base - size,
				Width:  right - left,
				Height: size,
			})
		}
		word.Reset()
		open = false
	}

	for _, g := range content.Text {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		w := g.W
		if w <= 0 {
			w = fallbackGlyphWidth * g.FontSize
		}
		sameLine := open && math.Abs(g.Y-base) < 0.5*math.Max(size, 1)
		adjacent := g.X-right <= wordGapRatio*math.Max(g.FontSize, 1) && g.X >= left
		if !sameLine || !adjacent {
			flush()
		}
		if !open {
			left, right, base, size = g.X, g.X, g.Y, g.FontSize
			open = true
		}
		word.WriteString(g.S)
		right = math.Max(right, g.X+w)
		size = math.Max(size, g.FontSize)
	}
	flush()
	return tokens, nil
}

// pageHeight reads the MediaBox, walking up to inherited page tree nodes,
// and falls back to the highest glyph.
func pageHeight(page pdflib.Page, glyphs []pdflib.Text) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			return box.Index(3).Float64() - box.Index(1).Float64()
		}
	}
	h := 0.0
	for _, g := range glyphs {
		h = math.Max(h, g.Y+g.FontSize)
	}
	return h
}

// linesFromTokens rebuilds reading-order text, one line per token row.
func linesFromTokens(tokens []types.Token) string {
	sorted := append([]types.Token(nil), tokens...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if math.Abs(a.Top-b.Top) > 0.5*math.Max(math.Min(a.Height, b.Height), 1) {
			return a.Top < b.Top
		}
		return a.Left < b.Left
	})

	var lines []string
	var line []string
	var lineTop, lineHeight float64
	page := 0
	for _, t := range sorted {
		newLine := len(line) == 0 || t.Page != page || math.Abs(t.Top-lineTop) > 0.5*math.Max(lineHeight, 1)
		if newLine && len(line) > 0 {
			lines = append(lines, strings.Join(line, " "))
			line = nil
		}
		if newLine {
			lineTop, lineHeight, page = t.Top, t.Height, t.Page
		}
		line = append(line, t.Text)
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, "\n")
}

// pdfToText shells out to poppler's pdftotext, which handles encodings the
// Go reader cannot. It yields text without positions.
func pdfToText(ctx context.Context, data []byte) (*types.RawDocument, error) {
	tmp, err := os.CreateTemp("", "match-agent-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := exec.CommandContext(ctx, "pdftotext", "-layout", tmpPath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	text := strings.ReplaceAll(string(out), "\f", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, errNoTextLayer
	}
	return &types.RawDocument{Text: text}, nil
}
