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
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume <file>",
	Short: "Parse a résumé into a structured candidate profile",
	Long:  "Parse a résumé into a CandidateProfile that validates against the candidate_profile schema. With --save the profile is stored in the database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParseResume(cmd.Context(), cmd.OutOrStdout(), args[0], parseResumeFormat, parseResumeSave, parseResumeUpdate)
	},
}

var (
	parseResumeFormat string
	parseResumeSave   bool
	parseResumeUpdate string
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseResumeFormat, "format", "f", formatText, "Output format: text or json")
	parseResumeCmd.Flags().BoolVar(&parseResumeSave, "save", false, "Store the profile in the database")
	parseResumeCmd.Flags().StringVar(&parseResumeUpdate, "update", "", "Store the result as the next version of this stored candidate ID")

	rootCmd.AddCommand(parseResumeCmd)
}

type resumeOutput struct {
	Profile     *types.CandidateProfile `json:"profile"`
	Ambiguities []parsing.Ambiguity     `json:"ambiguities,omitempty"`
}

func runParseResume(ctx context.Context, w io.Writer, path, format string, save bool, update string) error {
	var prevID uuid.UUID
	if update != "" {
		id, err := uuid.Parse(update)
		if err != nil {
			return fmt.Errorf("invalid candidate id: %w", err)
		}
		prevID, save = id, true
	}

	c, err := newComponents(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	doc, meta, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}

	var database *db.DB
	if save {
		database, err = requireDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	var p *types.CandidateProfile
	var ents parsing.Entities
	if prevID != uuid.Nil {
		prev, err := database.LoadCandidateProfile(ctx, prevID, 0)
		if err != nil {
			return err
		}
		p = c.builder.RebuildCandidate(ctx, prev, *doc)
	} else {
		p, ents = c.builder.BuildCandidateWithEntities(ctx, *doc)
	}
	if err := schemas.ValidateValue(schemas.CandidateProfile, p); err != nil {
		return fmt.Errorf("candidate profile does not validate against schema: %w", err)
	}
	logger.Debug("parsed resume",
		zap.String("path", path),
		zap.String("format", string(meta.Format)),
		zap.Int("tokens", meta.Tokens),
	)

	if database != nil {
		if err := database.SaveCandidateProfile(ctx, p); err != nil {
			return fmt.Errorf("failed to save candidate profile: %w", err)
		}
		logger.Info("saved candidate profile", zap.String("id", p.ID.String()), zap.Int("version", p.Version))
	}

	return emit(w, format, resumeOutput{Profile: p, Ambiguities: ents.Ambiguities}, func(pr *observability.Printer) {
		pr.PrintCandidateProfile(p)
		for _, a := range ents.Ambiguities {
			_, _ = fmt.Fprintf(w, "ambiguous %s %q: %s (%s)\n", a.Family, a.Text, a.Reason, a.Resolution)
		}
	})
}
