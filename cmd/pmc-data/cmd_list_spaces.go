/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-pmc-data/confluence"
	"github.com/toothbrush/confluence-pmc-data/pmcdata"
)

var listSpacesUsage = strings.TrimSpace(`
If you want to find out what spaces your Confluence instance has, use this command.  Spaces the
load test data depends on are marked.
`)

var IncludePersonal bool

var listSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Print list of spaces",
	Long:  listSpacesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		api, stop, err := connect(cfg)
		if err != nil {
			return err
		}
		defer stop()

		debugLog("Listing Confluence spaces in %s...\n", cfg.ConfluenceURL)
		spaces, err := api.ListAllSpaces(ctx, IncludePersonal)
		if err != nil {
			return fmt.Errorf("list: couldn't list Confluence spaces: %w", err)
		}
		debugLog("Found %d spaces on '%s'.\n", len(spaces), cfg.ConfluenceURL)

		printSpaces(cmd.OutOrStdout(), spaces, pmcdata.DefaultSettings())
		return nil
	},
}

func init() {
	listCmd.AddCommand(listSpacesCmd)

	listSpacesCmd.Flags().BoolVar(&IncludePersonal, "include-personal-spaces", false, "list individuals' personal spaces")
}

func printSpaces(w io.Writer, spaces map[string]confluence.Space, settings pmcdata.Settings) {
	roles := map[string]string{
		settings.BlueprintSpaceKey:          "blueprint tests",
		settings.TaskSpaceKey:               "task pages",
		settings.CommentAggregationSpaceKey: "comment aggregation",
		settings.ContactPersonSpaceKey:      "contact person",
	}

	spaceKeys := []string{}
	for key := range spaces {
		spaceKeys = append(spaceKeys, key)
	}
	sort.Strings(spaceKeys)

	fmt.Fprintf(w, "spaces:\n")
	for _, spaceKey := range spaceKeys {
		s := spaces[spaceKey]
		role := roles[spaceKey]
		if role == "" && strings.Contains(s.Name, settings.MassDataTitleToken) {
			role = "mass data"
		}
		if role != "" {
			fmt.Fprintf(w, "  - %s: %s  [%s]\n", spaceKey, s.Name, role)
			continue
		}
		fmt.Fprintf(w, "  - %s: %s\n", spaceKey, s.Name)
	}
}
