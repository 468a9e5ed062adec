package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/pipeline"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank <resume>...",
	Short: "Rank a batch of résumés against a job posting",
	Long: `Loads the job posting and every résumé concurrently, builds their profiles and ranks the
candidates best first with percentile ranks. When a database is configured, profiles,
scores and the batch run are persisted and cached scores are reused unless --force is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRank(cmd.Context(), cmd.OutOrStdout(), rankOptions{
			ResumePaths: args,
			JobPath:     rankJob,
			JobURL:      rankJobURL,
			Format:      rankFormat,
			Explain:     rankExplain || cfg.Explain,
			ExplainTop:  rankTop,
			Force:       rankForce,
			ExportPath:  rankExport,
		})
	},
}

var (
	rankJob     string
	rankJobURL  string
	rankFormat  string
	rankExplain bool
	rankTop     int
	rankForce   bool
	rankExport  string
)

func init() {
	rankCmd.Flags().StringVar(&rankJob, "job", "", "Path to job posting file (mutually exclusive with --job-url)")
	rankCmd.Flags().StringVar(&rankJobURL, "job-url", "", "URL to fetch the job posting from")
	rankCmd.Flags().StringVarP(&rankFormat, "format", "f", formatText, "Output format: text or json")
	rankCmd.Flags().BoolVar(&rankExplain, "explain", false, "Explain the top candidates")
	rankCmd.Flags().IntVar(&rankTop, "top", 3, "Number of candidates to explain (0 for all)")
	rankCmd.Flags().BoolVar(&rankForce, "force", false, "Recompute cached scores")
	rankCmd.Flags().StringVarP(&rankExport, "export", "o", "", "Write an xlsx ranking report to this path")

	rootCmd.AddCommand(rankCmd)
}

type rankOptions struct {
	ResumePaths []string
	JobPath     string
	JobURL      string
	Format      string
	Explain     bool
	ExplainTop  int
	Force       bool
	ExportPath  string
}

type rankEntry struct {
	Rank        int                `json:"rank"`
	Candidate   string             `json:"candidate"`
	Path        string             `json:"path"`
	Score       *types.MatchScore  `json:"score"`
	Explanation *types.Explanation `json:"explanation,omitempty"`
}

type rankOutput struct {
	RunID   string            `json:"run_id,omitempty"`
	Job     *types.JobProfile `json:"job"`
	Ranking []rankEntry       `json:"ranking"`
	Skipped []string          `json:"skipped,omitempty"`
}

func runRank(ctx context.Context, w io.Writer, opts rankOptions) error {
	if opts.JobPath != "" && opts.JobURL != "" {
		return fmt.Errorf("cannot use --job together with --job-url")
	}

	c, err := newComponents(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	database, err := openDB(ctx)
	if err != nil {
		logger.Warn("database unavailable, continuing without persistence", zap.Error(err))
		database = nil
	}

	runOpts := pipeline.RunOptions{
		JobPath:        opts.JobPath,
		JobURL:         opts.JobURL,
		CandidatePaths: opts.ResumePaths,
		Builder:        c.builder,
		Engine:         c.engine,
		Workers:        cfg.Workers,
		Force:          opts.Force,
		Validate:       true,
		UseBrowser:     cfg.UseBrowser,
		PDFToText:      true,
		ExportPath:     opts.ExportPath,
		Logger:         logger,
		OnProgress: func(ev pipeline.ProgressEvent) {
			logger.Info(ev.Message, zap.String("step", ev.Step), zap.String("category", ev.Category))
		},
	}
	if database != nil {
		defer database.Close()
		runOpts.Store = database
	}
	if opts.Explain {
		runOpts.Explainer = ranking.NewExplainer(c.client, logger)
		runOpts.ExplainTop = opts.ExplainTop
	}

	res, err := pipeline.RunBatch(ctx, runOpts)
	if err != nil {
		return err
	}
	return emit(w, opts.Format, rankResult(res), func(p *observability.Printer) {
		printRank(w, p, res)
	})
}

func rankResult(res *pipeline.Result) rankOutput {
	paths := make(map[uuid.UUID]string, len(res.Candidates))
	for _, c := range res.Candidates {
		paths[c.Profile.ID] = c.Path
	}
	names := res.Names()

	out := rankOutput{Job: res.Job, Ranking: make([]rankEntry, 0, len(res.Scores))}
	if res.RunID != uuid.Nil {
		out.RunID = res.RunID.String()
	}
	for i, s := range res.Scores {
		entry := rankEntry{
			Rank:      i + 1,
			Candidate: names[s.CandidateID],
			Path:      paths[s.CandidateID],
			Score:     s,
		}
		if e, ok := res.Explanations[s.CandidateID]; ok {
			entry.Explanation = &e
		}
		out.Ranking = append(out.Ranking, entry)
	}
	for _, sk := range res.Skipped {
		out.Skipped = append(out.Skipped, sk.Path)
	}
	return out
}

func printRank(w io.Writer, p *observability.Printer, res *pipeline.Result) {
	p.PrintJobProfile(res.Job)
	names := res.Names()
	p.PrintRanking(res.Scores, names)
	for _, s := range res.Scores {
		e, ok := res.Explanations[s.CandidateID]
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s\n", names[s.CandidateID])
		p.PrintExplanation(e)
	}
	for _, sk := range res.Skipped {
		_, _ = fmt.Fprintf(w, "Skipped %s: %v\n", sk.Path, sk.Err)
	}
}
