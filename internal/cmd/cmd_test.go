package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ucisession "github.com/wagiedev/uci-session-go"
	"github.com/wagiedev/uci-session-go/internal/testutil"
)

// executeCommand runs the root command with args against a scripted engine.
func executeCommand(t *testing.T, args ...string) (string, *testutil.ScriptedChannel, error) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	ch := testutil.NewScriptedChannel()
	a := &app{
		version:    "test",
		newChannel: func() ucisession.Channel { return ch },
	}

	root := newRootCmd(a)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), ch, err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd(&app{})

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"analyze", "serve", "mcp", "engines", "config"} {
		assert.Contains(t, names, want)
	}
}

func TestConfigPath(t *testing.T) {
	out, _, err := executeCommand(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "ucisession/config.yaml")
}

func TestConfigShow(t *testing.T) {
	out, _, err := executeCommand(t, "config", "show", "--engine", "lc0", "--option", "WeightsFile=/nets/t1.pb")
	require.NoError(t, err)

	assert.Contains(t, out, "# config file: (none - using defaults)")
	assert.Contains(t, out, "name: lc0")
	assert.Contains(t, out, "WeightsFile=/nets/t1.pb")
	assert.Contains(t, out, "127.0.0.1:8080")
}

func TestEngines(t *testing.T) {
	out, _, err := executeCommand(t, "engines")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "stockfish")
	assert.Contains(t, out, "lc0")
	assert.Contains(t, out, "fairy-stockfish")
	assert.Contains(t, out, "WeightsFile")
}

func TestAnalyze(t *testing.T) {
	out, ch, err := executeCommand(t, "analyze", "e2e4", "e7e5")
	require.NoError(t, err)

	assert.Contains(t, out, "bestmove "+testutil.BoundedMove)
	assert.Contains(t, ch.Sent(), "position startpos moves e2e4 e7e5")
	assert.Contains(t, ch.Sent(), "go movetime 1000")
	assert.True(t, ch.Closed())
}

func TestAnalyze_NodesAndFEN(t *testing.T) {
	fen := "8/8/8/8/8/8/4k3/4K2R w K - 0 1"

	out, ch, err := executeCommand(t, "analyze", "--fen", fen, "--nodes", "5000", "--info")
	require.NoError(t, err)

	assert.Contains(t, out, "bestmove "+testutil.BoundedMove)
	assert.Contains(t, out, "info depth 1 score cp 20")
	assert.Contains(t, ch.Sent(), "position fen "+fen)
	assert.Contains(t, ch.Sent(), "go nodes 5000")
}

func TestAnalyze_BadMove(t *testing.T) {
	_, ch, err := executeCommand(t, "analyze", "e2e9")
	require.Error(t, err)
	assert.Empty(t, ch.Sent())
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand(t, "engines", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}
