package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/jqlint/internal/engine"
	"github.com/leapstack-labs/jqlint/pkg/parser"
	"github.com/spf13/cobra"
)

// watchDebounce is how long the watcher waits for further changes before
// re-linting.
const watchDebounce = 100 * time.Millisecond

// watchLint lints once and then again whenever a lintable file below the
// given paths changes, until interrupted.
func watchLint(cmd *cobra.Command, cmdCtx *CommandContext, eng *engine.Engine, opts *LintOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	roots := opts.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if err := watchPath(watcher, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	r := cmdCtx.Renderer
	relint := func() {
		if err := lintOnce(cmd, cmdCtx, eng, opts); err != nil && !errors.Is(err, ErrLintIssues) {
			r.Warning(err.Error())
		}
		r.Println(r.Styles().Muted.Render("Watching for changes. Press Ctrl+C to stop."))
	}
	relint()

	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchPath(watcher, event.Name); err != nil {
						cmdCtx.Logger.Debug("failed to watch new directory", "path", event.Name, "error", err.Error())
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !parser.IsSupported(event.Name) {
				continue
			}

			cmdCtx.Logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			// Debounce re-lints
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			relint()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Warning(fmt.Sprintf("watcher error: %v", err))
		}
	}
}

// watchPath adds a directory tree, or the directory of a file, to the
// watcher. Skipped directories are not watched.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && engine.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
