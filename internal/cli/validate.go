package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	File          string `json:"file"`
	Domain        string `json:"domain"`
	Valid         bool   `json:"valid"`
	Patterns      int    `json:"patterns"`
	Relationships int    `json:"relationships"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check domain files against the schema and integrity rules",
		Long: `Validate domain documents without projecting them.

Each file is checked against the domain schema, which reports every
violation with its line and column, then loaded into a fresh store, which
stops at the first record that breaks an integrity rule (duplicate id,
dangling reference, out-of-range score).

Exit codes:
  0 - All files valid
  1 - Schema or integrity errors
  2 - Command error (file not found, etc.)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)
		fw, err := loadDomain(formatter, opts, file, logger)
		if err != nil {
			return err
		}
		results = append(results, ValidationResult{
			File:          file,
			Domain:        fw.Domain,
			Valid:         true,
			Patterns:      fw.Patterns.Count(),
			Relationships: fw.Relationships.Count(),
		})
	}

	if opts.Format == "json" {
		return formatter.Success(results)
	}
	w := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(w, "✓ %s: domain %q, %d patterns, %d relationships\n",
			r.File, r.Domain, r.Patterns, r.Relationships)
	}
	return nil
}
