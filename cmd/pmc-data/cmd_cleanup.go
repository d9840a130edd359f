/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-pmc-data/cleanup"
)

var cleanupUsage = strings.TrimSpace(`
Delete what a load test created: the newest comments, pages, blogposts and attachments, in that
order.  Pages are only deleted if their title contains the title token.  Everything but comments is
purged from the trash as well.

  pmc-data cleanup -l 1000 -d 2024-03-01
`)

// CleanupOptions are the flags of the cleanup command.
type CleanupOptions struct {
	Limit      int
	Date       string
	Workers    int
	TitleToken string
	DryRun     bool
}

var cleanupOpts CleanupOptions

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete load test content",
	Long:  cleanupUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCleanup(cmd.Context(), cmd, cfg, cleanupOpts)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().IntVarP(&cleanupOpts.Limit, "limit", "l", 0, "delete at most this many items of each content type")
	cleanupCmd.Flags().StringVarP(&cleanupOpts.Date, "date", "d", "", "only delete content created on or after this date (yyyy-mm-dd)")
	cleanupCmd.Flags().IntVar(&cleanupOpts.Workers, "workers", cleanup.DefaultWorkers, "number of concurrent deletions")
	cleanupCmd.Flags().StringVar(&cleanupOpts.TitleToken, "title-token", cleanup.DefaultTitleToken, "only pages with this token in their title are deleted")
	cleanupCmd.Flags().BoolVar(&cleanupOpts.DryRun, "dry-run", false, "only report what would be deleted")
}

func runCleanup(ctx context.Context, cmd *cobra.Command, c Config, opts CleanupOptions) error {
	out := cmd.OutOrStdout()

	if opts.Limit <= 0 {
		fmt.Fprintln(out, "No limit defined, nothing to do.")
		return nil
	}

	after, err := cleanup.ParseDate(opts.Date)
	if err != nil {
		_ = cmd.Usage()
		return &usageError{err: err}
	}

	if opts.Workers < 1 {
		_ = cmd.Usage()
		return &usageError{err: fmt.Errorf("cleanup: --workers must be at least 1, got %d", opts.Workers)}
	}

	api, stop, err := connect(c)
	if err != nil {
		return err
	}
	defer stop()

	var progress io.Writer
	if !c.Debug {
		// per-item log lines and progress bars don't mix
		progress = os.Stderr
	}

	deleter := &cleanup.Deleter{
		API:        api,
		Workers:    opts.Workers,
		TitleToken: opts.TitleToken,
		DryRun:     opts.DryRun,
		Progress:   progress,
		Logger:     workerLogger(c.Debug),
	}

	debugLog("Deleting up to %d items per content type with %d workers\n", opts.Limit, opts.Workers)
	summaries, err := deleter.Run(ctx, opts.Limit, after)
	printSummaries(out, summaries)

	return err
}

func printSummaries(w io.Writer, summaries []cleanup.Summary) {
	failed := 0
	for _, s := range summaries {
		fmt.Fprintln(w, s)
		failed += len(s.Failures)
	}

	if failed == 0 {
		return
	}

	fmt.Fprintf(w, "\n%d deletions failed:\n", failed)
	for _, s := range summaries {
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  - %s %s\n", s.ContentType, f)
		}
	}
}
