package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job [file]",
	Short: "Parse a job posting into a structured job profile",
	Long:  "Parse a job posting file, or a posting fetched with --url, into a JobProfile that validates against the job_profile schema.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runParseJob(cmd.Context(), cmd.OutOrStdout(), path, parseJobURL, parseJobFormat, parseJobSave, parseJobUpdate)
	},
}

var (
	parseJobURL    string
	parseJobFormat string
	parseJobSave   bool
	parseJobUpdate string
)

func init() {
	parseJobCmd.Flags().StringVar(&parseJobURL, "url", "", "URL to fetch the job posting from (mutually exclusive with a file)")
	parseJobCmd.Flags().StringVarP(&parseJobFormat, "format", "f", formatText, "Output format: text or json")
	parseJobCmd.Flags().BoolVar(&parseJobSave, "save", false, "Store the profile in the database")
	parseJobCmd.Flags().StringVar(&parseJobUpdate, "update", "", "Store the result as the next version of this stored job ID")

	rootCmd.AddCommand(parseJobCmd)
}

func runParseJob(ctx context.Context, w io.Writer, path, url, format string, save bool, update string) error {
	var prevID uuid.UUID
	if update != "" {
		id, err := uuid.Parse(update)
		if err != nil {
			return fmt.Errorf("invalid job id: %w", err)
		}
		prevID, save = id, true
	}

	text, err := loadJobText(ctx, path, url)
	if err != nil {
		return err
	}

	c, err := newComponents(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	var database *db.DB
	if save {
		database, err = requireDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	var job *types.JobProfile
	if prevID != uuid.Nil {
		prev, err := database.LoadJobProfile(ctx, prevID, 0)
		if err != nil {
			return err
		}
		job, err = c.builder.RebuildJob(ctx, prev, text)
		if err != nil {
			return err
		}
	} else {
		job, err = c.builder.BuildJob(ctx, text)
		if err != nil {
			return err
		}
	}
	if err := schemas.ValidateValue(schemas.JobProfile, job); err != nil {
		return fmt.Errorf("job profile does not validate against schema: %w", err)
	}

	if database != nil {
		if err := database.SaveJobProfile(ctx, job); err != nil {
			return fmt.Errorf("failed to save job profile: %w", err)
		}
		logger.Info("saved job profile", zap.String("id", job.ID.String()), zap.Int("version", job.Version))
	}

	return emit(w, format, job, func(p *observability.Printer) {
		p.PrintJobProfile(job)
	})
}
