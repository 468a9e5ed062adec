package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a JSON file against a schema",
	Long: fmt.Sprintf(`Validate a JSON file against one of the embedded schemas (%s)
or a schema file on disk.`, strings.Join(schemas.Names(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), validateSchema, args[0])
	},
}

var validateSchema string

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Embedded schema name or path to a schema file")
	_ = validateCmd.MarkFlagRequired("schema")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, schema, path string) error {
	var err error
	if slices.Contains(schemas.Names(), schema) {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		err = schemas.ValidateBytes(schema, data)
	} else {
		err = schemas.ValidateJSON(schema, path)
	}

	var validationErr *schemas.ValidationError
	switch {
	case err == nil:
		_, _ = fmt.Fprintf(w, "Validation passed: %s\n", path)
		return nil
	case errors.As(err, &validationErr):
		_, _ = fmt.Fprintf(w, "Validation failed: %s\n", path)
		for _, e := range validationErr.Errors {
			_, _ = fmt.Fprintf(w, "  - %s: %s\n", e.Field, e.Message)
		}
		return fmt.Errorf("validation failed")
	default:
		return err
	}
}
