package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/jqlint/internal/state"
	"github.com/spf13/cobra"
)

// CacheOptions holds options for the cache commands.
type CacheOptions struct {
	Format string        // Output format
	Runs   int           // Number of recent runs shown by status
	MaxAge time.Duration // Age after which prune drops entries
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	opts := &CacheOptions{}
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the result cache",
		Long: `Inspect and maintain the lint result cache.

The cache stores the diagnostics of every linted file keyed by its content
and the lint configuration, so unchanged files are not linted again.`,
	}
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show cache size and recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheStatus(cmd, opts)
		},
	}
	status.Flags().IntVar(&opts.Runs, "runs", 5, "Number of recent runs to show")

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Drop stale cache entries",
		Long:  `Drop results and runs older than --max-age, and results of files that no longer exist.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCachePrune(cmd, opts)
		},
	}
	prune.Flags().DurationVar(&opts.MaxAge, "max-age", 30*24*time.Hour, "Maximum age of kept entries")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheClear(cmd, opts)
		},
	}

	cmd.AddCommand(status, prune, clearCmd)
	return cmd
}

// openCache opens the configured cache. It fails when caching is off.
func openCache(cmd *cobra.Command, cmdCtx *CommandContext) (*state.Store, error) {
	if !cmdCtx.Cfg.CacheEnabled() {
		return nil, errors.New("the result cache is disabled")
	}
	return state.Open(cmd.Context(), cmdCtx.Cfg.Cache, cmdCtx.Logger)
}

// CacheStatus is the structured output of cache status.
type CacheStatus struct {
	Path    string       `json:"path" yaml:"path"`
	Entries int          `json:"entries" yaml:"entries"`
	Runs    []*state.Run `json:"runs" yaml:"runs"`
}

func runCacheStatus(cmd *cobra.Command, opts *CacheOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	store, err := openCache(cmd, cmdCtx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	runs, err := store.ListRuns(ctx, opts.Runs)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*state.Run{}
	}

	status := CacheStatus{Path: store.Path(), Entries: n, Runs: runs}
	if ok, err := r.Structured(status); ok {
		return err
	}

	styles := r.Styles()
	r.Printf("%s %s\n", styles.Bold.Render("Cache:"), status.Path)
	r.Printf("%s %d files\n", styles.Bold.Render("Entries:"), status.Entries)
	if len(runs) == 0 {
		r.Println(styles.Muted.Render("No runs recorded"))
		return nil
	}

	r.Println("")
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Started", "Status", "Files", "Cached", "Diagnostics", "Version"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			run.Files,
			run.Cached,
			run.Diagnostics,
			run.Version,
		})
	}
	t.Render()
	return nil
}

func runCachePrune(cmd *cobra.Command, opts *CacheOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	store, err := openCache(cmd, cmdCtx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	removed, err := store.Prune(cmd.Context(), opts.MaxAge)
	if err != nil {
		return err
	}

	if ok, err := r.Structured(map[string]int64{"removed": removed}); ok {
		return err
	}
	r.Println(r.Styles().Success.Render(fmt.Sprintf("Removed %d cache entries", removed)))
	return nil
}

func runCacheClear(cmd *cobra.Command, opts *CacheOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	if !cmdCtx.Cfg.CacheEnabled() {
		return errors.New("the result cache is disabled")
	}
	path := cmdCtx.Cfg.Cache
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}

	if ok, err := r.Structured(map[string]string{"removed": path}); ok {
		return err
	}
	r.Println(r.Styles().Success.Render("Removed " + path))
	return nil
}
