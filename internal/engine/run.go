package engine

// run.go - Parallel linting with the result cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/jqlint/internal/state"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/parser"
	"golang.org/x/sync/errgroup"
)

// ParseErrorRule is the rule name of diagnostics for files that do not parse.
const ParseErrorRule = "parse-error"

// FileResult holds the diagnostics of one file.
type FileResult struct {
	Path        string            `json:"path" yaml:"path"`
	Diagnostics []lint.Diagnostic `json:"diagnostics" yaml:"diagnostics"`

	// Cached is set when the diagnostics came from the result cache.
	Cached bool `json:"-" yaml:"-"`
	source []byte
}

// Result is the outcome of a lint run, one entry per file in input order.
type Result struct {
	RunID string
	Files []FileResult
}

// Cached returns the number of files served from the cache.
func (r *Result) Cached() int {
	n := 0
	for _, f := range r.Files {
		if f.Cached {
			n++
		}
	}
	return n
}

// Diagnostics returns the total number of diagnostics.
func (r *Result) Diagnostics() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
	}
	return n
}

// LintSource lints src as the file at path. Syntax errors are returned as a
// single parse-error diagnostic.
func (e *Engine) LintSource(path string, src []byte) []lint.Diagnostic {
	f, err := parser.ParseFile(path, src)
	if err != nil {
		return []lint.Diagnostic{parseErrorDiagnostic(err)}
	}
	diags := e.runner.Run(f, e.rules)
	for i := range diags {
		diags[i].Node = nil
	}
	return diags
}

func parseErrorDiagnostic(err error) lint.Diagnostic {
	d := lint.Diagnostic{
		RuleID:   ParseErrorRule,
		Severity: lint.SeverityError,
		Message:  err.Error(),
	}
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		d.Message = perr.Message
		d.Pos = perr.Pos
		d.EndPos = perr.Pos
	}
	return d
}

// Run lints files in parallel. Unchanged files are answered from the cache
// when it is enabled. A file that cannot be read fails the run.
func (e *Engine) Run(ctx context.Context, files []string) (*Result, error) {
	e.logger.Info("starting lint run", "files", len(files))

	result := &Result{Files: make([]FileResult, len(files))}

	if e.store != nil {
		run, err := e.store.BeginRun(ctx, e.version, e.fingerprint)
		if err != nil {
			return nil, err
		}
		result.RunID = run.ID
		e.logger.Debug("created run", "run_id", run.ID)
	}

	runErr := e.lintFiles(ctx, files, result)

	if e.store != nil {
		stats := state.RunStats{
			Files:       len(files),
			Cached:      result.Cached(),
			Diagnostics: result.Diagnostics(),
			Err:         runErr,
		}
		// The run context may already be cancelled; record the outcome anyway.
		if err := e.store.FinishRun(context.WithoutCancel(ctx), result.RunID, stats); err != nil {
			e.logger.Warn("failed to record run", "run_id", result.RunID, "error", err.Error())
		}
	}
	if runErr != nil {
		e.logger.Info("lint run failed", "run_id", result.RunID, "error", runErr.Error())
		return nil, runErr
	}

	e.logger.Info("lint run completed",
		"run_id", result.RunID,
		"files", len(files),
		"cached", result.Cached(),
		"diagnostics", result.Diagnostics())
	return result, nil
}

func (e *Engine) lintFiles(ctx context.Context, files []string, result *Result) error {
	if len(files) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// Each goroutine owns index i.
			res, err := e.lintFile(gctx, path, result.RunID)
			if err != nil {
				return err
			}
			result.Files[i] = res
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) lintFile(ctx context.Context, path, runID string) (FileResult, error) {
	src, err := os.ReadFile(path) //nolint:gosec // G304: path comes from Discover
	if err != nil {
		return FileResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	res := FileResult{Path: path, source: src}

	var key state.Key
	if e.store != nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		key = state.NewKey(abs, src, e.fingerprint)
		diags, ok, err := e.store.Lookup(ctx, key)
		if err != nil {
			e.logger.Warn("cache lookup failed", "path", path, "error", err.Error())
		}
		if ok {
			e.logger.Debug("using cached result", "path", path)
			res.Diagnostics = diags
			res.Cached = true
			return res, nil
		}
	}

	res.Diagnostics = e.LintSource(path, src)

	if e.store != nil {
		if err := e.store.Save(ctx, key, runID, res.Diagnostics); err != nil {
			e.logger.Warn("cache save failed", "path", path, "error", err.Error())
		}
	}
	return res, nil
}
