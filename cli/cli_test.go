package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/version"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOptions(t *testing.T) {
	cmd := NewStandardCommand("deck", "test")
	require.NoError(t, cmd.ParseFlags([]string{"-v", "--json", "--config-dir", "/tmp/deck"}))

	opts := GetOptions(cmd)
	assert.Equal(t, CommandOptions{ConfigDir: "/tmp/deck", Verbose: true, JSONOutput: true}, opts)
	assert.Equal(t, "/tmp/deck", opts.ResolveConfigDir())
}

func TestOptionsFromFlags(t *testing.T) {
	fs := StandardFlags()
	require.NoError(t, fs.Parse([]string{"-c", "/etc/deck"}))

	opts := OptionsFromFlags(fs)
	assert.Equal(t, "/etc/deck", opts.ConfigDir)
	assert.Equal(t, "/etc/deck", opts.ResolveConfigDir())
	assert.False(t, opts.Verbose)
	assert.False(t, opts.JSONOutput)
}

func TestConfigLogger(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, ConfigLogger(CommandOptions{}).GetLevel())
	assert.Equal(t, logrus.DebugLevel, ConfigLogger(CommandOptions{Verbose: true}).GetLevel())

	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel(logrus.InfoLevel))
	l.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		verbose  bool
		contains []string
	}{
		{
			name:     "entity not found",
			err:      errors.EntityNotFound("project", "Work"),
			contains: []string{"No project named 'Work'"},
		},
		{
			name:     "corrupted state",
			err:      errors.StateCorrupted("app", 3, fmt.Errorf("bad json")),
			contains: []string{"Saved state could not be loaded", "deck state clear"},
		},
		{
			name:     "invalid input",
			err:      errors.InvalidInput("project name cannot be empty"),
			contains: []string{"project name cannot be empty"},
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			contains: []string{"Error: boom"},
		},
		{
			name:     "verbose details",
			err:      errors.MigrationFailed(1, 3, fmt.Errorf("nope")),
			verbose:  true,
			contains: []string{"Error details:", `"code": "MIGRATION_FAILED"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Verbose: tt.verbose, Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}

	assert.NoError(t, NewErrorHandler(false).Handle(nil))
}

func TestVersionCommand(t *testing.T) {
	root := NewStandardCommand("deck", "test")
	root.AddCommand(NewVersionCommand("deck"))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())

	var info version.Info
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, version.GetInfo().Version, info.Version)
}
