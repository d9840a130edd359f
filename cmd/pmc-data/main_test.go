package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toothbrush/confluence-pmc-data/confluence"
	"github.com/toothbrush/confluence-pmc-data/internal/confluencetest"
	"github.com/toothbrush/confluence-pmc-data/pmcdata"
)

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(fmt.Errorf("pmc-data: execution error: %w", &usageError{err: errors.New("bad flag")})))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 1, exitCode(pmcdata.ErrManualStepRequired))
}

func TestBindFlags(t *testing.T) {
	var (
		workers    int
		withVCR    bool
		tokenCmd   []string
		url        string
		titleToken string
	)
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&workers, "workers", 5, "")
	cmd.Flags().BoolVar(&withVCR, "with-vcr", false, "")
	cmd.Flags().StringSliceVar(&tokenCmd, "auth-token-cmd", []string{}, "")
	cmd.Flags().StringVar(&url, "confluence-url", "", "")
	cmd.Flags().StringVar(&titleToken, "title-token", "locust", "")
	require.NoError(t, cmd.ParseFlags([]string{"--title-token", "mine"}))

	eight := 8
	yes := true
	err := bindFlags(cmd, YamlConfig{
		Workers:       &eight,
		WithVCR:       &yes,
		AuthTokenCmd:  []string{"pass", "show", "confluence"},
		ConfluenceURL: "https://confluence.example.com",
		TitleToken:    "from-config",
		Users:         "ignored, no such flag",
	})
	require.NoError(t, err)

	assert.Equal(t, 8, workers)
	assert.True(t, withVCR)
	assert.Equal(t, []string{"pass", "show", "confluence"}, tokenCmd)
	assert.Equal(t, "https://confluence.example.com", url)
	// the command line wins
	assert.Equal(t, "mine", titleToken)
}

func TestConfigValidate(t *testing.T) {
	good := Config{ConfluenceURL: "https://confluence.example.com", AuthTokenCmd: []string{"echo", "token"}}
	require.NoError(t, good.Validate())

	missingURL := good
	missingURL.ConfluenceURL = ""
	err := missingURL.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--confluence-url")

	missingToken := good
	missingToken.AuthTokenCmd = nil
	err = missingToken.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--auth-token-cmd")
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	c := Config{ConfluenceURL: "https://confluence.example.com", AuthTokenCmd: []string{"echo", "token"}, Datasets: "~/datasets"}

	require.NoError(t, showConfig(&buf, c, rootCmd.PersistentFlags()))

	out := buf.String()
	assert.Contains(t, out, "confluence-url: https://confluence.example.com")
	assert.Contains(t, out, "datasets: ~/datasets")
	assert.Contains(t, out, "--debug = false (default)")
}

func TestCleanupWithoutLimitDoesNothing(t *testing.T) {
	cmd, buf := testCommand()

	// no config at all: nothing may be contacted
	err := runCleanup(t.Context(), cmd, Config{}, CleanupOptions{Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, "No limit defined, nothing to do.\n", buf.String())
}

func TestCleanupRejectsMalformedDate(t *testing.T) {
	cmd, _ := testCommand()

	err := runCleanup(t.Context(), cmd, Config{}, CleanupOptions{Limit: 10, Date: "01/03/2024", Workers: 5})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestCleanupEndToEnd(t *testing.T) {
	fake := confluencetest.NewServer(t)
	fake.AddContents("comment", 5, "comment")
	fake.AddContents("page", 3, "locust page")
	fake.AddContents("attachment", 2, "file.png")
	broken := fake.AddContent(confluencetest.Item{Type: "attachment", Title: "stuck.png"})
	fake.FailDelete(broken, http.StatusForbidden)

	cmd, buf := testCommand()
	c := Config{
		ConfluenceURL: fake.URL,
		AuthUsername:  confluencetest.Username,
		AuthTokenCmd:  []string{"echo", confluencetest.Token},
		Debug:         true,
	}

	err := runCleanup(t.Context(), cmd, c, CleanupOptions{Limit: 10, Workers: 3, TitleToken: "locust"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "comments: found 5, deleted 5, purged 0, failed 0")
	assert.Contains(t, out, "pages: found 3, deleted 3, purged 3, failed 0")
	assert.Contains(t, out, "blogposts: found 0, deleted 0, purged 0, failed 0")
	assert.Contains(t, out, "attachments: found 3, deleted 2, purged 2, failed 1")
	assert.Contains(t, out, "1 deletions failed:")
	assert.Contains(t, out, "Response code:[403]")

	assert.Len(t, fake.Contents(), 1)
}

func TestPrepareNeedsDatasetDirectory(t *testing.T) {
	cmd, _ := testCommand()

	err := runPrepare(t.Context(), cmd, Config{}, PrepareOptions{SampleSize: 20})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--datasets")
}

func TestPrintSpaces(t *testing.T) {
	var buf bytes.Buffer
	printSpaces(&buf, map[string]confluence.Space{
		"PMCBLUEPRINT": {Key: "PMCBLUEPRINT", Name: "PMCBlueprintDataCenterSpace"},
		"MASS1":        {Key: "MASS1", Name: "PMCMassData 1"},
		"DS":           {Key: "DS", Name: "Demonstration Space"},
	}, pmcdata.DefaultSettings())

	assert.Equal(t, "spaces:\n"+
		"  - DS: Demonstration Space\n"+
		"  - MASS1: PMCMassData 1  [mass data]\n"+
		"  - PMCBLUEPRINT: PMCBlueprintDataCenterSpace  [blueprint tests]\n", buf.String())
}

func TestListUser(t *testing.T) {
	fake := confluencetest.NewServer(t)

	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg = Config{
		ConfluenceURL: fake.URL,
		AuthUsername:  confluencetest.Username,
		AuthTokenCmd:  []string{"echo", confluencetest.Token},
	}

	cmd, buf := testCommand()
	cmd.SetContext(t.Context())

	require.NoError(t, listUserCmd.RunE(cmd, nil))
	assert.Equal(t, "admin (Administrator)\n", buf.String())
}

func TestBuildVersion(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-03-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	v := readBuildVersion(info)
	assert.Equal(t, "rev-abc123-dirty", v.String())
	assert.Equal(t, 2024, v.committed.Year())

	assert.Equal(t, "v1.2.0", readBuildVersion(&debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}}).String())
	assert.Equal(t, "devel", readBuildVersion(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}).String())
}

func TestPrintConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pmc-data.yaml")

	var buf bytes.Buffer
	require.NoError(t, printConfigPath(&buf, path))
	assert.Equal(t, "Config path: "+path+" (not found, using defaults)\n", buf.String())

	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o644))
	buf.Reset()
	require.NoError(t, printConfigPath(&buf, path))
	assert.Equal(t, "Config path: "+path+"\n", buf.String())
}
