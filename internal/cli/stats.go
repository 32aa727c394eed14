package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/patternspace/internal/model"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats <file>",
		Short:         "Summarize a domain file",
		Long:          "Load a domain file and print pattern counts per kind and relationship counts by populated roles.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, args[0], cmd)
		},
	}
}

func runStats(opts *RootOptions, file string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	fw, err := loadDomain(formatter, opts, file, opts.Logger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	stats := fw.Stats()
	if opts.Format == "json" {
		return formatter.Success(stats)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "domain:        %s\n", stats.Domain)
	fmt.Fprintf(w, "patterns:      %d\n", stats.Patterns)
	for _, kind := range model.Kinds() {
		fmt.Fprintf(w, "  %-12s %d\n", kind.Plural()+":", stats.ByKind[string(kind)])
	}
	fmt.Fprintf(w, "relationships: %d\n", stats.Relationships)
	fmt.Fprintf(w, "  complete:    %d\n", stats.Complete)
	fmt.Fprintf(w, "  binary:      %d\n", stats.Binary)
	fmt.Fprintf(w, "  degenerate:  %d\n", stats.Degenerate)
	return nil
}
