package engine

// fix.go - Applying rule fixes to files

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// maxFixPasses bounds how often a file is re-linted while fixes keep
// producing changes.
const maxFixPasses = 10

// FixSource applies the fixes reported for src until no fix changes it.
// It returns the fixed source and the number of problems fixed. Fixes whose
// edits overlap an earlier fix in the same pass wait for the next pass.
func (e *Engine) FixSource(path string, src []byte) ([]byte, int) {
	fixed := 0
	for pass := 0; pass < maxFixPasses; pass++ {
		edits, n := collectEdits(e.LintSource(path, src))
		if n == 0 {
			break
		}
		out := lint.ApplyEdits(src, edits)
		if string(out) == string(src) {
			break
		}
		src = out
		fixed += n
	}
	return src, fixed
}

// collectEdits gathers the edits of every fixable diagnostic that does not
// overlap a diagnostic accepted before it.
func collectEdits(diags []lint.Diagnostic) ([]lint.TextEdit, int) {
	var (
		edits    []lint.TextEdit
		accepted int
		taken    [][2]int
	)
	overlaps := func(e lint.TextEdit) bool {
		for _, r := range taken {
			if e.Pos.Offset < r[1] && r[0] < e.EndPos.Offset {
				return true
			}
			// Two insertions at the same point would interleave.
			if e.Pos.Offset == r[0] && (e.Pos.Offset == e.EndPos.Offset || r[0] == r[1]) {
				return true
			}
		}
		return false
	}

	for _, d := range diags {
		if len(d.Fixes) == 0 {
			continue
		}
		var candidate []lint.TextEdit
		for _, fix := range d.Fixes {
			candidate = append(candidate, fix.TextEdits...)
		}
		if len(candidate) == 0 || slices.ContainsFunc(candidate, overlaps) {
			continue
		}
		for _, e := range candidate {
			taken = append(taken, [2]int{e.Pos.Offset, e.EndPos.Offset})
		}
		edits = append(edits, candidate...)
		accepted++
	}
	return edits, accepted
}

// Fix writes the fixes for every file of res back to disk and returns the
// number of problems fixed. Files served from the cache are re-read.
func (e *Engine) Fix(_ context.Context, res *Result) (int, error) {
	total := 0
	for _, file := range res.Files {
		if !hasFixes(file.Diagnostics) {
			continue
		}
		src := file.source
		if src == nil {
			var err error
			src, err = os.ReadFile(file.Path) //nolint:gosec // G304: path comes from Discover
			if err != nil {
				return total, fmt.Errorf("failed to read %s: %w", file.Path, err)
			}
		}
		out, n := e.FixSource(file.Path, src)
		if n == 0 {
			continue
		}
		info, err := os.Stat(file.Path)
		if err != nil {
			return total, err
		}
		if err := os.WriteFile(file.Path, out, info.Mode().Perm()); err != nil {
			return total, fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
		e.logger.Debug("fixed file", "path", file.Path, "fixes", n)
		total += n
	}
	return total, nil
}

func hasFixes(diags []lint.Diagnostic) bool {
	for _, d := range diags {
		if len(d.Fixes) > 0 {
			return true
		}
	}
	return false
}
