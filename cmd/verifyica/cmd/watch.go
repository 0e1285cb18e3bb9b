package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/verifyica-go/verifyica/internal/config"
)

var (
	watchConfigFlag  string
	watchNoColorFlag bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [selectors...]",
	Short: "Re-run the suite whenever the config or filter file changes",
	Long: `Watch runs the suite once, then watches the configuration file (and the
filter file it references, if any) and re-runs on every write, rate
limited so a burst of saves only triggers one re-run.

Examples:
  verifyica watch --config verifyica.json`,
	RunE: watchCommand,
}

func init() {
	watchCmd.Flags().StringVar(&watchConfigFlag, "config", "", "path to a JSON or YAML configuration document")
	watchCmd.Flags().BoolVar(&watchNoColorFlag, "no-color", false, "disable colored output")
}

// watchDebounceInterval bounds re-runs to at most one per this interval,
// absorbing the burst of Write events a single `save` produces.
const watchDebounceInterval = 300 * time.Millisecond

func watchCommand(cmd *cobra.Command, args []string) error {
	selectors := selectorsFromArgs(args)

	runOnce := func() {
		eng, _, err := buildEngine(watchConfigFlag, watchNoColorFlag, false)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "config error: %v\n", err)
			return
		}
		if _, err := eng.Execute(context.Background(), selectors); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "discovery failed: %v\n", err)
		}
	}

	runOnce()

	if watchConfigFlag == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "no --config given, nothing to watch")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{filepath.Clean(watchConfigFlag): true}
	if cfg, err := config.Load(watchConfigFlag); err == nil && cfg.FiltersFilename() != "" {
		watched[filepath.Clean(cfg.FiltersFilename())] = true
	}
	for name := range watched {
		dir := filepath.Dir(name)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nwatching %s for changes (press Ctrl+C to stop)\n\n", watchConfigFlag)

	limiter := rate.NewLimiter(rate.Every(watchDebounceInterval), 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) || !watched[filepath.Clean(event.Name)] {
				continue
			}
			if !limiter.Allow() {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nchanged: %s\nre-running...\n\n", event.Name)
			runOnce()
			fmt.Fprintln(cmd.OutOrStdout(), "\nwatching for changes (press Ctrl+C to stop)")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStderr(), "watcher error: %v\n", err)
		}
	}
}
