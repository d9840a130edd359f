/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Print the config file path",
	Long: `
Print the config file pmc-data reads, and whether it exists.  --config and $PMC_DATA_CONFIG
override the default location.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfigPath(cmd.OutOrStdout(), cfg.ConfigPath)
	},
}

func init() {
	configCmd.AddCommand(whichCmd)
}

func printConfigPath(w io.Writer, path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		fmt.Fprintf(w, "Config path: %s\n", path)
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(w, "Config path: %s (not found, using defaults)\n", path)
	default:
		return fmt.Errorf("config: couldn't stat %s: %w", path, err)
	}
	return nil
}
