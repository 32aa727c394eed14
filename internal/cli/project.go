package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/patternspace/internal/loader"
	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/projection"
	"github.com/roach88/patternspace/internal/store"
)

// Target selects which projections to build.
type Target string

const (
	TargetCube  Target = "cube"
	TargetGraph Target = "graph"
	TargetBoth  Target = "both"
)

// ParseTarget accepts cube, graph, or both.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetCube, TargetGraph, TargetBoth:
		return t, nil
	}
	return "", fmt.Errorf("unknown projection %q: must be cube, graph, or both", s)
}

func (t Target) cube() bool  { return t == TargetCube || t == TargetBoth }
func (t Target) graph() bool { return t == TargetGraph || t == TargetBoth }

// ProjectOptions holds flags for the project command.
type ProjectOptions struct {
	*RootOptions
	Output string // directory for <base>.cube.json / <base>.graph.json
	Jobs   int    // concurrent files, 0 = unlimited
}

// ProjectResult is the outcome for one domain file.
type ProjectResult struct {
	File    string                 `json:"file"`
	Cube    *model.CubeProjection  `json:"cube,omitempty"`
	Graph   *model.GraphProjection `json:"graph,omitempty"`
	Written []string               `json:"written,omitempty"`
}

// NewProjectCommand creates the project command.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProjectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "project cube|graph|both <file>...",
		Short: "Project domain files into cube and graph JSON",
		Long: `Load each domain file into its own store and build the requested
projections. Files are processed concurrently.

Without --output, a single file and a single projection print the bare
projection JSON; anything else prints one result per file. With --output,
projections are written as <base>.cube.json and <base>.graph.json.

File arguments may be doublestar globs ("domains/**/*.yaml").

Examples:
  patternspace project cube domains/cyber.json
  patternspace project both 'domains/*.yaml' -o out/`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := ParseTarget(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid arguments", err)
			}
			return runProject(opts, target, args[1:], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "maximum files processed at once (0 = unlimited)")

	return cmd
}

func runProject(opts *ProjectOptions, target Target, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	files, err := expandFiles(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}
	if opts.Output != "" {
		if err := checkDistinctBases(files); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		if err := os.MkdirAll(opts.Output, 0755); err != nil {
			return WrapExitError(ExitCommandError, "create output directory", err)
		}
	}

	results := make([]ProjectResult, len(files))
	failures := make([]*fileFailure, len(files))

	// Every file runs to completion so the first failure in argument order
	// is the one reported.
	ctx := cmd.Context()
	var g errgroup.Group
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fw, err := loader.LoadFile(file, opts.loadOptions(logger))
			if err != nil {
				failures[i] = &fileFailure{load: true, err: err}
				return err
			}
			res, err := projectFramework(fw, target, opts.RootOptions)
			if err != nil {
				failures[i] = &fileFailure{code: ErrCodeProjection, exit: ExitFailure, err: err}
				return err
			}
			res.File = file
			if opts.Output != "" {
				res.Written, err = writeProjections(opts.Output, baseName(file), res)
				if err != nil {
					failures[i] = &fileFailure{code: ErrCodeIO, exit: ExitCommandError, err: fmt.Errorf("write projections: %w", err)}
					return err
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for i, failure := range failures {
			if failure != nil {
				return failure.report(formatter, files[i])
			}
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "project", err)
	}

	return outputProjections(formatter, opts, target, results)
}

// fileFailure is the error one file stopped at.
type fileFailure struct {
	load bool
	code string
	exit int
	err  error
}

func (f *fileFailure) report(out *OutputFormatter, file string) error {
	if f.load {
		return reportLoadError(out, file, f.err)
	}
	msg := fmt.Sprintf("%s: %v", file, f.err)
	if outErr := out.Error(f.code, msg, nil); outErr != nil {
		return outErr
	}
	return WrapExitError(f.exit, file, f.err)
}

func outputProjections(f *OutputFormatter, opts *ProjectOptions, target Target, results []ProjectResult) error {
	if opts.Format == "json" {
		return f.Success(results)
	}
	if opts.Output != "" {
		for _, r := range results {
			for _, path := range r.Written {
				fmt.Fprintf(f.Writer, "wrote %s\n", path)
			}
		}
		return nil
	}
	if len(results) == 1 && target != TargetBoth {
		if target.cube() {
			return f.JSON(results[0].Cube)
		}
		return f.JSON(results[0].Graph)
	}
	return f.JSON(results)
}

// projectFramework builds the projections selected by target.
func projectFramework(fw *store.Framework, target Target, opts *RootOptions) (ProjectResult, error) {
	popts := []projection.Option{projection.WithLogger(fw.Logger())}
	if opts.Strict {
		popts = append(popts, projection.WithStrict())
	}

	var res ProjectResult
	if target.cube() {
		cube, err := projection.Cube(fw, popts...)
		if err != nil {
			return res, err
		}
		res.Cube = &cube
	}
	if target.graph() {
		graph, err := projection.Graph(fw, popts...)
		if err != nil {
			return res, err
		}
		res.Graph = &graph
	}
	return res, nil
}

// writeProjections writes each projection in res to dir as
// <base>.<kind>.json. Files are replaced by rename so a renderer never
// reads a partial file.
func writeProjections(dir, base string, res ProjectResult) ([]string, error) {
	var written []string
	write := func(kind string, v any) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(dir, base+"."+kind+".json")
		if err := writeFileAtomic(path, append(data, '\n')); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}
	if res.Cube != nil {
		if err := write("cube", res.Cube); err != nil {
			return written, err
		}
	}
	if res.Graph != nil {
		if err := write("graph", res.Graph); err != nil {
			return written, err
		}
	}
	return written, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// expandFiles resolves glob arguments. Plain paths pass through untouched
// so a missing file is reported by the loader.
func expandFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			files = append(files, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}
	return files, nil
}

func checkDistinctBases(files []string) error {
	seen := make(map[string]string, len(files))
	for _, file := range files {
		base := baseName(file)
		if prev, ok := seen[base]; ok {
			return fmt.Errorf("%s and %s would write the same output files", prev, file)
		}
		seen[base] = file
	}
	return nil
}

func baseName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
