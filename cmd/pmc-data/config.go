package main

import (
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/toothbrush/confluence-pmc-data/confluence"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

const cassetteName = "fixtures/pmc-data"

// Config is the resolved persistent configuration.  It's built once per invocation and passed
// around by value.
type Config struct {
	ConfigPath    string   `yaml:"config"`
	Debug         bool     `yaml:"debug"`
	ConfluenceURL string   `yaml:"confluence-url" validate:"required,url"`
	AuthUsername  string   `yaml:"auth-username"`
	AuthTokenCmd  []string `yaml:"auth-token-cmd" validate:"min=1,dive,required"`
	Datasets      string   `yaml:"datasets"`
	WithVCR       bool     `yaml:"with-vcr"`
}

var validate = validator.New()

func resolveConfig() Config {
	return Config{
		ConfigPath:    ConfigPath,
		Debug:         Debug,
		ConfluenceURL: ConfluenceURL,
		AuthUsername:  AuthUsername,
		AuthTokenCmd:  append([]string(nil), AuthTokenCmd...),
		Datasets:      DatasetsDir,
		WithVCR:       WithVCR,
	}
}

// Validate checks what's needed to talk to Confluence.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("config: %s failed validation on '%s' (value: %v); set --%s or add it to %s",
				e.Field(), e.Tag(), e.Value(), flagName(e.StructField()), c.ConfigPath)
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func flagName(field string) string {
	switch field {
	case "ConfluenceURL":
		return "confluence-url"
	case "AuthTokenCmd":
		return "auth-token-cmd"
	default:
		return strings.ToLower(field)
	}
}

// DatasetsPath is the dataset directory with ~ expanded.
func (c Config) DatasetsPath() (string, error) {
	if c.Datasets == "" {
		return "", fmt.Errorf("config: no dataset directory set.  Use --datasets or set it in your config file")
	}
	p, err := homedir.Expand(c.Datasets)
	if err != nil {
		return "", fmt.Errorf("config: couldn't expand homedir: %w", err)
	}
	return p, nil
}

// connect runs the auth token command and builds the API client.  The returned func must be
// called when done; with --with-vcr it flushes the cassette.
func connect(c Config) (*confluence.API, func() error, error) {
	noop := func() error { return nil }

	if err := c.Validate(); err != nil {
		return nil, noop, err
	}

	tokenCmdOutput, err := exec.Command(c.AuthTokenCmd[0], c.AuthTokenCmd[1:]...).Output()
	if err != nil {
		return nil, noop, fmt.Errorf("config: couldn't execute auth-token-cmd '%v': %w", c.AuthTokenCmd, err)
	}

	token := strings.Split(string(tokenCmdOutput), "\n")[0]
	api, err := confluence.NewAPI(c.ConfluenceURL, c.AuthUsername, token)
	if err != nil {
		return nil, noop, fmt.Errorf("config: couldn't instantiate Confluence API: %w", err)
	}

	if !c.WithVCR {
		return api, noop, nil
	}

	// set up VCR recordings.
	opts := &recorder.Options{
		CassetteName:       cassetteName,
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, noop, fmt.Errorf("config: couldn't set up go-vcr recording: %w", err)
	}

	// Add a hook which removes Authorization headers from all requests
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	api.Client = r.GetDefaultClient()
	debugLog("Recording to go-vcr cassette %s\n", cassetteName)

	return api, r.Stop, nil
}
