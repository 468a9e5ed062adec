// Package ingestion loads résumés and job postings from files and URLs into
// raw documents ready for segmentation.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

// Format identifies a document encoding
type Format string

// Supported formats
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

var extensions = map[string]Format{
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return f, nil
}

// Options configures document loading.
type Options struct {
	// PDFToText enables the external pdftotext fallback when the PDF text
	// layer cannot be read.
	PDFToText bool
	Logger    *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// LoadDocument reads a file and converts it to a RawDocument. PDFs also carry
// positioned tokens for column detection.
func LoadDocument(ctx context.Context, path string, opts Options) (*types.RawDocument, *Metadata, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Message: "cannot detect format", Cause: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Format: format, Message: "failed to read file", Cause: err}
	}

	doc, err := LoadBytes(ctx, data, format, opts)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Format: format, Message: "failed to decode", Cause: err}
	}

	meta := NewMetadata(doc.Text, "")
	meta.Path = path
	meta.Format = format
	meta.Tokens = len(doc.Tokens)
	opts.logger().Debug("loaded document",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("chars", len(doc.Text)),
		zap.Int("tokens", len(doc.Tokens)))
	return doc, meta, nil
}

// LoadBytes decodes an in-memory document of the given format.
func LoadBytes(ctx context.Context, data []byte, format Format, opts Options) (*types.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		doc *types.RawDocument
		err error
	)
	switch format {
	case FormatText:
		doc = &types.RawDocument{Text: string(data)}
	case FormatMarkdown:
		var text string
		text, err = markdownText(data)
		doc = &types.RawDocument{Text: text}
	case FormatHTML:
		var text string
		text, err = fetch.HTMLToText(string(data))
		doc = &types.RawDocument{Text: text}
	case FormatDOCX:
		var text string
		text, err = docxText(data)
		doc = &types.RawDocument{Text: text}
	case FormatPDF:
		doc, err = loadPDF(ctx, data, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	doc.Text = CleanText(doc.Text)
	if doc.Text == "" {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}
