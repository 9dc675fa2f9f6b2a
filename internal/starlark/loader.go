package starlark

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/leapstack-labs/jqlint/pkg/lint"
	"go.starlark.net/starlark"
)

// Loader scans a directory for .star files and collects the rules they declare.
type Loader struct {
	dir    string
	pool   *ThreadPool
	logger *slog.Logger
}

// NewLoader creates a new rule loader for the specified directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		dir:    dir,
		pool:   NewThreadPool(0),
		logger: logger,
	}
}

// Load scans the rules directory and loads all .star files in name order.
// A missing directory yields no rules.
func (l *Loader) Load() ([]lint.Rule, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access rules directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rules path is not a directory: %s", l.dir)
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan rules directory: %w", err)
	}
	sort.Strings(files)

	var rules []lint.Rule
	seen := make(map[string]string)
	for _, file := range files {
		fileRules, err := l.LoadFile(file)
		if err != nil {
			return nil, err
		}
		for _, rule := range fileRules {
			if prev, ok := seen[rule.Name]; ok {
				return nil, &LoadError{
					File:    file,
					Message: fmt.Sprintf("rule %q already declared in %s", rule.Name, filepath.Base(prev)),
				}
			}
			seen[rule.Name] = file
		}
		rules = append(rules, fileRules...)
	}
	return rules, nil
}

// LoadFile executes a single .star file and returns the rules it declares.
func (l *Loader) LoadFile(path string) ([]lint.Rule, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the configured rules directory
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: fmt.Sprintf("failed to read file: %v", err),
		}
	}
	return l.LoadSource(path, content)
}

// LoadSource executes rule definitions held in memory. path is used for
// error reporting.
func (l *Loader) LoadSource(path string, src []byte) ([]lint.Rule, error) {
	c := &collector{}
	thread := &starlark.Thread{
		Name: "load:" + filepath.Base(path),
		Print: func(_ *starlark.Thread, msg string) {
			l.logger.Debug("rule file print", "file", path, "msg", msg)
		},
	}
	thread.SetLocal(collectorKey, c)

	if _, err := starlark.ExecFile(thread, path, src, Predeclared(l.pool, l.logger)); err != nil { //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
		le := &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			le.Message = evalErr.Msg
			for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
				if line := evalErr.CallStack[i].Pos.Line; line > 0 {
					le.Line = int(line)
					break
				}
			}
		}
		return nil, le
	}

	l.logger.Debug("loaded rule file", "file", path, "rules", len(c.rules))
	return c.rules, nil
}

// LoadError represents an error loading a rule file.
type LoadError struct {
	File    string
	Line    int
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("rules/%s:%d: %s", filepath.Base(e.File), e.Line, e.Message)
	}
	return fmt.Sprintf("rules/%s: %s", filepath.Base(e.File), e.Message)
}
