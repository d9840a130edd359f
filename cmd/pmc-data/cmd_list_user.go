/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listUserUsage = strings.TrimSpace(`
Print the user the configured credentials authenticate as.  Cleanup and prepare need an
administrator: deleting other users' content and creating the contact person both require it.
`)

var listUserCmd = &cobra.Command{
	Use:   "user",
	Short: "Print the authenticated user",
	Long:  listUserUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, stop, err := connect(cfg)
		if err != nil {
			return err
		}
		defer stop()

		user, err := api.CurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("list: couldn't fetch current user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Username, user.DisplayName)
		return nil
	},
}

func init() {
	listCmd.AddCommand(listUserCmd)
}
