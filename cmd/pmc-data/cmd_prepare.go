/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-pmc-data/pmcdata"
)

var prepareUsage = strings.TrimSpace(`
Check that the Process Management Suite content the load test depends on is in place, create the
per-user task pages and the contact person user, then sample pages for every PMC macro scenario and
write them to the dataset directory.

Creating the contact person user stops the run: import the metadata into its space, then run
prepare again.  Dataset files are only written when every step succeeded.
`)

// PrepareOptions are the flags of the prepare command.
type PrepareOptions struct {
	Users      string
	SampleSize int
}

var prepareOpts PrepareOptions

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Check preconditions and harvest PMC datasets",
	Long:  prepareUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrepare(cmd.Context(), cmd, cfg, prepareOpts)
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)

	prepareCmd.Flags().StringVar(&prepareOpts.Users, "users", "", "users.csv of the load test (default: users.csv in the dataset directory)")
	prepareCmd.Flags().IntVar(&prepareOpts.SampleSize, "sample-size", pmcdata.DefaultSampleSize, "pages sampled per macro")
}

func runPrepare(ctx context.Context, cmd *cobra.Command, c Config, opts PrepareOptions) error {
	datasets, err := c.DatasetsPath()
	if err != nil {
		return err
	}

	if opts.SampleSize < 1 {
		_ = cmd.Usage()
		return &usageError{err: fmt.Errorf("prepare: --sample-size must be at least 1, got %d", opts.SampleSize)}
	}

	usersPath := opts.Users
	if usersPath == "" {
		usersPath = filepath.Join(datasets, "users.csv")
	}
	usersPath, err = homedir.Expand(usersPath)
	if err != nil {
		return fmt.Errorf("prepare: couldn't expand homedir: %w", err)
	}

	users, err := pmcdata.LoadUsers(usersPath)
	if err != nil {
		return err
	}
	debugLog("Loaded %d users from %s\n", len(users), usersPath)

	api, stop, err := connect(c)
	if err != nil {
		return err
	}
	defer stop()

	settings := pmcdata.DefaultSettings()
	settings.SampleSize = opts.SampleSize

	preparer := pmcdata.NewPreparer(api, settings, workerLogger(c.Debug))

	// a failed run, including one stopped for a manual step, leaves the old dataset in place
	dataset, err := preparer.Prepare(ctx, users)
	if err != nil {
		return err
	}

	if err := pmcdata.WriteDataset(datasets, dataset); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range pmcdata.Macros() {
		fmt.Fprintf(out, "%s: %d pages\n", m.DatasetFile(), len(dataset.PagesFor(m)))
	}
	fmt.Fprintf(out, "%s: %d pages\n", pmcdata.CommentAggregationFile, len(dataset.CommentAggregation))
	fmt.Fprintf(out, "Datasets written to %s\n", datasets)

	return nil
}
