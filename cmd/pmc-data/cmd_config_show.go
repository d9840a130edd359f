/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout(), cfg, cmd.Root().PersistentFlags())
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}

// showConfig dumps the resolved config, then where each persistent flag got its value.  Note,
// command-specific flags aren't visible here.
func showConfig(w io.Writer, c Config, flags *pflag.FlagSet) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: couldn't render config: %w", err)
	}

	fmt.Fprintf(w, "Dump current config state:\n\n")
	fmt.Fprintf(w, "%s\n", out)

	fmt.Fprintf(w, "Flags:\n")
	flags.VisitAll(func(f *pflag.Flag) {
		source := "default"
		if f.Changed {
			source = "set"
		}
		fmt.Fprintf(w, "  --%s = %s (%s)\n", f.Name, f.Value, source)
	})

	return nil
}
