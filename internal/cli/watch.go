package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/patternspace/internal/store"
	"github.com/roach88/patternspace/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Output   string
	Target   string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <file> -o <dir>",
		Short: "Re-project a domain file whenever it changes",
		Long: `Watch a domain file and rewrite its projections in the output directory
after every change, until interrupted. A change that fails to load leaves
the previous projections in place.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory (required)")
	cmd.Flags().StringVar(&opts.Target, "projection", string(TargetBoth), "projection to write (cube|graph|both)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", watch.DefaultDebounce, "quiet period before reloading")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runWatch(opts *WatchOptions, file string, cmd *cobra.Command) error {
	target, err := ParseTarget(opts.Target)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --projection", err)
	}
	if _, err := os.Stat(file); err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("domain file not found: %s", file))
	}
	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		return WrapExitError(ExitCommandError, "create output directory", err)
	}

	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())
	base := baseName(file)

	w, err := watch.New(watch.Config{
		Path:     file,
		Debounce: opts.Debounce,
		Load:     opts.loadOptions(logger),
		Logger:   logger,
		OnLoad: func(_ context.Context, fw *store.Framework) error {
			res, err := projectFramework(fw, target, opts.RootOptions)
			if err != nil {
				return err
			}
			_, err = writeProjections(opts.Output, base, res)
			return err
		},
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "start watcher", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(ctx)
	})
	g.Go(func() error {
		for ev := range w.Events() {
			if ev.Err != nil {
				_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("%s: %v", ev.Path, ev.Err), nil)
				continue
			}
			if opts.Format == "json" {
				_ = formatter.Success(ev)
				continue
			}
			fmt.Fprintf(formatter.Writer, "projected %s: %d patterns, %d relationships\n",
				ev.Path, ev.Patterns, ev.Relationships)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return WrapExitError(ExitCommandError, "watch", err)
	}
	return nil
}
