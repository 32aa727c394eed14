package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/roach88/patternspace/internal/loader"
	"github.com/roach88/patternspace/internal/schema"
	"github.com/roach88/patternspace/internal/store"
)

// SchemaIssue is one schema violation in JSON output.
type SchemaIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// RecordIssue locates the record the store rejected.
type RecordIssue struct {
	File    string `json:"file"`
	Section string `json:"section"`
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
}

func (o *RootOptions) loadOptions(logger *slog.Logger) loader.Options {
	return loader.Options{Strict: o.Strict, Logger: logger}
}

// loadDomain loads one domain file. Failures are already reported through
// f; the returned error only carries the exit code.
func loadDomain(f *OutputFormatter, opts *RootOptions, path string, logger *slog.Logger) (*store.Framework, error) {
	fw, err := loader.LoadFile(path, opts.loadOptions(logger))
	if err != nil {
		return nil, reportLoadError(f, path, err)
	}
	return fw, nil
}

// reportLoadError prints a load failure and maps it to an ExitError.
func reportLoadError(f *OutputFormatter, path string, err error) error {
	var se schema.Errors
	var re *loader.RecordError

	switch {
	case errors.Is(err, fs.ErrNotExist):
		msg := fmt.Sprintf("domain file not found: %s", path)
		if outErr := f.Error(ErrCodeIO, msg, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, msg)

	case errors.As(err, &se):
		issues := make([]SchemaIssue, len(se))
		for i, e := range se {
			issues[i] = SchemaIssue{Path: e.Path, Message: e.Message}
			if e.Pos.IsValid() {
				issues[i].Line = e.Pos.Line()
				issues[i].Column = e.Pos.Column()
			}
		}
		msg := fmt.Sprintf("%s: %d schema error(s)", path, len(se))
		if outErr := f.Error(ErrCodeSchema, msg, issues); outErr != nil {
			return outErr
		}
		if f.Format != "json" {
			for _, e := range se {
				fmt.Fprintf(f.Writer, "  %s\n", e)
			}
		}
		return NewExitError(ExitFailure, msg)

	case errors.As(err, &re):
		code := loader.CodeOf(err)
		if code == "" {
			code = ErrCodeRecord
		}
		msg := fmt.Sprintf("%s: %v", path, re)
		details := RecordIssue{File: path, Section: re.Section, Index: re.Index, ID: re.ID}
		if outErr := f.Error(code, msg, details); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "domain rejected", err)
	}

	msg := fmt.Sprintf("%s: %v", path, err)
	if outErr := f.Error(ErrCodeGeneric, msg, nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitFailure, "load failed", err)
}
