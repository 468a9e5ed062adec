package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/layout"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/types"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <file>",
	Short: "Split a document into labeled sections",
	Long:  "Segment a résumé (or, with --job, a job posting) into sections with column and confidence. Supports txt, md, html, pdf and docx.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSegment(cmd.Context(), cmd.OutOrStdout(), args[0], segmentJob, segmentFormat)
	},
}

var (
	segmentJob    bool
	segmentFormat string
)

func init() {
	segmentCmd.Flags().BoolVar(&segmentJob, "job", false, "Use job posting section headers")
	segmentCmd.Flags().StringVarP(&segmentFormat, "format", "f", formatText, "Output format: text or json")

	rootCmd.AddCommand(segmentCmd)
}

func runSegment(ctx context.Context, w io.Writer, path string, job bool, format string) error {
	doc, _, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}
	rules := layout.ResumeRules()
	if job {
		rules = layout.JobPostingRules()
	}
	segments := layout.New(layout.Options{Rules: rules, Logger: logger}).Segment(*doc)
	if segments == nil {
		segments = []types.Segment{}
	}
	return emit(w, format, segments, func(p *observability.Printer) {
		p.PrintSegments(segments)
	})
}
