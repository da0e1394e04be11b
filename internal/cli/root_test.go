package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand("v1.2.3")
	require.NotNil(t, cmd)
	assert.Equal(t, "daxprobe", cmd.Use)
	assert.Equal(t, "v1.2.3", cmd.Version)
	assert.Contains(t, cmd.Long, "Power BI")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand("test")
	commands := []string{"locate", "query", "measures", "check", "connections", "browse"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand("test")

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "process", "connection-string", "driver", "resolver", "port", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestQueryCommandFlags(t *testing.T) {
	cmd := NewRootCommand("test")
	queryCmd, _, err := cmd.Find([]string{"query"})
	require.NoError(t, err)

	fileFlag := queryCmd.Flags().Lookup("file")
	require.NotNil(t, fileFlag)
	assert.Equal(t, "f", fileFlag.Shorthand)

	scalarFlag := queryCmd.Flags().Lookup("scalar")
	require.NotNil(t, scalarFlag)
	assert.Equal(t, "false", scalarFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	f := newFixture(t, 50484)
	res := execute(t, f.options(), "", "locate", "--config", f.config, "--format", "yaml")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.err.Error(), `invalid format "yaml"`)
}

func TestUnknownResolver(t *testing.T) {
	f := newFixture(t, 0)
	res := execute(t, f.options(), "", "locate", "--config", f.config, "--resolver", "carrier-pigeon")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := WrapExitError(ExitFailure, "query failed", errors.New("boom"))
	assert.Equal(t, "query failed: boom", wrapped.Error())
	assert.Equal(t, "boom", errors.Unwrap(wrapped).Error())
}
