package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/types"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect stored profiles, scores and batch runs",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := requireDB(cmd.Context())
		if err != nil {
			return err
		}
		database.Close()
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	},
}

var dbRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent batch runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		database, err := requireDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		runs, err := database.ListRuns(ctx, dbRunsLimit)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), dbFormat, runs, func(_ *observability.Printer) {
			printRuns(cmd.OutOrStdout(), runs)
		})
	},
}

var dbRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show a batch run and the stored ranking for its job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run id: %w", err)
		}
		ctx := cmd.Context()
		database, err := requireDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
		return showRun(ctx, cmd.OutOrStdout(), database, runID)
	},
}

var dbProfileCmd = &cobra.Command{
	Use:       "profile <candidate|job> <id>",
	Short:     "Show a stored profile version",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"candidate", "job"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid profile id: %w", err)
		}
		ctx := cmd.Context()
		database, err := requireDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
		return showProfile(ctx, cmd.OutOrStdout(), database, args[0], id, dbVersion)
	},
}

var (
	dbRunsLimit   int
	dbScoresLimit int
	dbVersion     int
	dbFormat      string
)

func init() {
	dbCmd.PersistentFlags().StringVarP(&dbFormat, "format", "f", formatText, "Output format: text or json")
	dbRunsCmd.Flags().IntVar(&dbRunsLimit, "limit", 20, "Number of runs to list")
	dbRunCmd.Flags().IntVar(&dbScoresLimit, "limit", 100, "Number of scores to show")
	dbProfileCmd.Flags().IntVar(&dbVersion, "version", 0, "Profile version (0 for latest)")

	dbCmd.AddCommand(dbMigrateCmd, dbRunsCmd, dbRunCmd, dbProfileCmd)
	rootCmd.AddCommand(dbCmd)
}

func showRun(ctx context.Context, w io.Writer, database *db.DB, runID uuid.UUID) error {
	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}
	scores, err := database.ListScoresForJob(ctx, run.JobID, dbScoresLimit)
	if err != nil {
		return err
	}

	names := map[uuid.UUID]string{}
	for _, s := range scores {
		if p, err := database.LoadCandidateProfile(ctx, s.CandidateID, 0); err == nil && p.Name != "" {
			names[s.CandidateID] = p.Name
		}
	}

	out := struct {
		Run    *db.Run             `json:"run"`
		Scores []*types.MatchScore `json:"scores"`
	}{Run: run, Scores: scores}
	return emit(w, dbFormat, out, func(p *observability.Printer) {
		printRuns(w, []db.Run{*run})
		p.PrintRanking(scores, names)
	})
}

func showProfile(ctx context.Context, w io.Writer, database *db.DB, kind string, id uuid.UUID, version int) error {
	switch kind {
	case "candidate":
		p, err := database.LoadCandidateProfile(ctx, id, version)
		if err != nil {
			return err
		}
		return emit(w, dbFormat, p, func(pr *observability.Printer) { pr.PrintCandidateProfile(p) })
	case "job":
		j, err := database.LoadJobProfile(ctx, id, version)
		if err != nil {
			return err
		}
		return emit(w, dbFormat, j, func(pr *observability.Printer) { pr.PrintJobProfile(j) })
	default:
		return fmt.Errorf("unknown profile kind %q (want candidate or job)", kind)
	}
}

func printRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tJOB\tSTATUS\tSCORED\tCREATED\tDURATION")
	for _, r := range runs {
		duration := "-"
		if r.CompletedAt != nil {
			duration = r.Duration().Round(time.Millisecond).String()
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			r.ID, r.JobID, r.Status, r.Scored, r.Candidates,
			r.CreatedAt.Format(time.RFC3339), duration)
	}
	_ = tw.Flush()
}
