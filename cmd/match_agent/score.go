package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume>",
	Short: "Score one résumé against a job posting",
	Long:  "Build profiles for a résumé and a job posting and print the match score with its dimension breakdown.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScore(cmd.Context(), cmd.OutOrStdout(), scoreOptions{
			ResumePath: args[0],
			JobPath:    scoreJob,
			JobURL:     scoreJobURL,
			Format:     scoreFormat,
			Explain:    scoreExplain || cfg.Explain,
		})
	},
}

var (
	scoreJob     string
	scoreJobURL  string
	scoreFormat  string
	scoreExplain bool
)

func init() {
	scoreCmd.Flags().StringVar(&scoreJob, "job", "", "Path to job posting file (mutually exclusive with --job-url)")
	scoreCmd.Flags().StringVar(&scoreJobURL, "job-url", "", "URL to fetch the job posting from")
	scoreCmd.Flags().StringVarP(&scoreFormat, "format", "f", formatText, "Output format: text or json")
	scoreCmd.Flags().BoolVar(&scoreExplain, "explain", false, "Add strengths, weaknesses and recommendations")

	rootCmd.AddCommand(scoreCmd)
}

type scoreOptions struct {
	ResumePath string
	JobPath    string
	JobURL     string
	Format     string
	Explain    bool
}

type scoreOutput struct {
	Score       *types.MatchScore  `json:"score"`
	Explanation *types.Explanation `json:"explanation,omitempty"`
}

func runScore(ctx context.Context, w io.Writer, opts scoreOptions) error {
	text, err := loadJobText(ctx, opts.JobPath, opts.JobURL)
	if err != nil {
		return err
	}
	doc, _, err := loadDocument(ctx, opts.ResumePath)
	if err != nil {
		return err
	}

	c, err := newComponents(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	job, err := c.builder.BuildJob(ctx, text)
	if err != nil {
		return err
	}
	cand := c.builder.BuildCandidate(ctx, *doc)

	score, err := c.engine.Score(ctx, cand, job)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	out := scoreOutput{Score: score}
	if opts.Explain {
		e := ranking.NewExplainer(c.client, logger).ExplainOrFallback(ctx, score, job, cand)
		out.Explanation = &e
	}

	return emit(w, opts.Format, out, func(p *observability.Printer) {
		p.PrintMatchScore(score)
		if out.Explanation != nil {
			p.PrintExplanation(*out.Explanation)
		}
	})
}
