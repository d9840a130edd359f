/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved configuration",
	Long: `
Settings come from flags first, then from the YAML config file.  Use these commands to see which
file was read and what each setting resolved to.
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
