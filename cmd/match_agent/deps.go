package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/profile"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
)

// components are the collaborators shared by the commands.
type components struct {
	client  llm.Client
	matcher *skills.Matcher
	builder *profile.Builder
	engine  *ranking.Engine
}

func (c *components) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

// newComponents wires the builder and engine from the loaded config. A model
// client that cannot be created is logged and the rule-based paths are used.
func newComponents(ctx context.Context) (*components, error) {
	table, err := skills.LoadTable(cfg.SkillOverlay)
	if err != nil {
		return nil, err
	}
	c := &components{matcher: skills.NewMatcher(table)}

	if cfg.LLMEnabled() {
		client, err := llm.NewClient(ctx, cfg.ModelConfig(), cfg.APIKey)
		if err != nil {
			logger.Warn("LLM client unavailable, using rules only", zap.Error(err))
		} else {
			c.client = client
		}
	}

	prefer := cfg.PreferPresentRange
	extractor := parsing.NewExtractor(parsing.Options{
		Matcher:            c.matcher,
		Logger:             logger,
		PreferPresentRange: &prefer,
	})
	c.builder = profile.NewBuilder(profile.Options{
		Matcher:   c.matcher,
		Extractor: extractor,
		LLM:       c.client,
		Logger:    logger,
	})

	var embedder ranking.Embedder
	if e, ok := c.client.(ranking.Embedder); ok {
		embedder = e
	}
	weights := cfg.Weights
	c.engine, err = ranking.NewEngine(ranking.Options{
		Weights:  &weights,
		Matcher:  c.matcher,
		Embedder: embedder,
		Logger:   logger,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// openDB connects and migrates when a database is configured. It returns nil
// without one.
func openDB(ctx context.Context) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func requireDB(ctx context.Context) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set database_url, MATCHER_DATABASE_URL or DATABASE_URL)")
	}
	return openDB(ctx)
}

func loadDocument(ctx context.Context, path string) (*types.RawDocument, *ingestion.Metadata, error) {
	return ingestion.LoadDocument(ctx, path, ingestion.Options{PDFToText: true, Logger: logger})
}

// loadJobText reads a posting from a file or, when url is set, from the web.
func loadJobText(ctx context.Context, path, url string) (string, error) {
	switch {
	case path != "" && url != "":
		return "", fmt.Errorf("cannot use a job file together with --url")
	case url != "":
		doc, _, err := ingestion.IngestFromURL(ctx, url, ingestion.URLOptions{
			UseBrowser: cfg.UseBrowser,
			Logger:     logger,
		})
		if err != nil {
			return "", err
		}
		return doc.Text, nil
	case path != "":
		doc, _, err := loadDocument(ctx, path)
		if err != nil {
			return "", err
		}
		return doc.Text, nil
	default:
		return "", fmt.Errorf("a job posting file or --url is required")
	}
}

// emit writes v as indented JSON or hands the printer to human.
func emit(w io.Writer, format string, v any, human func(p *observability.Printer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatText, "":
		human(observability.NewPrinter(w))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatJSON)
	}
}
