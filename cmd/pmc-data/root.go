/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	configEnv     = "PMC_DATA_CONFIG"
	defaultConfig = "~/.config/pmc-data.yaml"
)

var (
	// Store the result of binding cobra flags
	ConfigPath string
	Debug      bool

	// Command to run to retrieve API Personal Access Token
	AuthTokenCmd []string

	AuthUsername  string
	ConfluenceURL string
	DatasetsDir   string
	WithVCR       bool

	ParsedConfig YamlConfig

	// Resolved once the config file has been applied; passed on by value.
	cfg Config
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "pmc-data",
	Short: "Prepare and clean up Process Management Suite load test data in Confluence",
	Long: `
Before a load test, check that a Confluence Data Center instance holds the Process Management Suite
content the scenarios need and sample the pages they will visit.  After a load test, delete what the
test created.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("pmc-data: failed to initialise config: %w", err)
		}

		cfg = resolveConfig()
		debugLog("Using config file %s\n", cfg.ConfigPath)
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&ConfigPath, "config", "", "config file location (default: "+defaultConfig+", respects "+configEnv+")")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve the Confluence password or personal access token")
	rootCmd.PersistentFlags().StringVar(&AuthUsername, "auth-username", "", "your Confluence username; leave empty to use the token as a bearer token")
	rootCmd.PersistentFlags().StringVar(&ConfluenceURL, "confluence-url", "", "base URL of the Confluence instance, e.g. https://confluence.example.com/confluence")
	rootCmd.PersistentFlags().StringVar(&DatasetsDir, "datasets", "", "directory the dataset files are written to")
	rootCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = cmd.Usage()
		return &usageError{err: err}
	})
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := true
	if ConfigPath == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv(configEnv)
		if envConfig != "" {
			ConfigPath = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			ConfigPath = defaultConfig
			explicit = false
		}
	}
	config, err := homedir.Expand(ConfigPath)
	if err != nil {
		return fmt.Errorf("pmc-data: unable to expand homedir: %w", err)
	}
	ConfigPath = config

	if _, err := os.Stat(ConfigPath); errors.Is(err, os.ErrNotExist) {
		if !explicit {
			// everything can be given as flags, so the default file is optional
			debugLog("No config file at %s, using flags only\n", ConfigPath)
			return nil
		}
		fmt.Fprintf(os.Stderr, "Couldn't read config file %s, does it exist?  Override with --config.\n", ConfigPath)
		return fmt.Errorf("pmc-data: specified config file does not exist: %w", err)
	}

	yamlFile, err := os.ReadFile(ConfigPath)
	if err != nil {
		return fmt.Errorf("pmc-data: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("pmc-data: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("pmc-data: failed to bind flags: %w", err)
	}

	return nil
}

// YamlConfig mirrors the flags.  Keys are flag names; flags given on the command line win.
type YamlConfig struct {
	WithVCR *bool `yaml:"with-vcr"`
	DryRun  *bool `yaml:"dry-run"`

	Workers    *int `yaml:"workers"`
	SampleSize *int `yaml:"sample-size"`

	ConfluenceURL string   `yaml:"confluence-url"`
	AuthUsername  string   `yaml:"auth-username"`
	AuthTokenCmd  []string `yaml:"auth-token-cmd"`
	Datasets      string   `yaml:"datasets"`
	TitleToken    string   `yaml:"title-token"`
	Users         string   `yaml:"users"`
}

// Bind each cobra flag to its associated value from the config file, unless the flag was given
// explicitly.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("pmc-data: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// the flag is unknown.  that happens legitimately when you're running e.g.
			// `list spaces`, which has no `workers` flag, but your YAML file does set it.
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		var err error
		switch field.Kind() {
		case reflect.Ptr:
			switch p := field.Value().(type) {
			case *bool:
				if p != nil {
					err = cmd.Flags().Set(key, fmt.Sprintf("%v", *p))
				}
			case *int:
				if p != nil {
					err = cmd.Flags().Set(key, fmt.Sprintf("%d", *p))
				}
			default:
				return fmt.Errorf("pmc-data: found unrecognised field: %+v", field)
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("pmc-data: found unrecognised field: %+v", field)
			}
			if s != "" {
				err = cmd.Flags().Set(key, s)
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("pmc-data: found unrecognised field: %+v", field)
			}
			for _, s := range ss {
				// yes, repeatedly calling Set() appends to the slice...
				if err = cmd.Flags().Set(key, s); err != nil {
					break
				}
			}

		default:
			return fmt.Errorf("pmc-data: found unrecognised field: %+v", field)
		}

		if err != nil {
			return fmt.Errorf("pmc-data: bad value for '%s' in config file: %w", key, err)
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("pmc-data: execution error: %w", err)
	}

	return nil
}
