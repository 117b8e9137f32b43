package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "review.png")
	svgPath := filepath.Join(dir, "review.svg")

	_, err := execute(t, "render", filepath.Join("..", "..", "examples", "review.yaml"),
		"--png", pngPath, "--svg", svgPath, "--log-level", "error")
	require.NoError(t, err)

	assert.FileExists(t, pngPath)
	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(svg), `<path data-key="`)-strings.Count(string(svg), "data-arrow"))
	assert.Contains(t, string(svg), `data-key="seo" data-arrow="down"`)
}

func TestRenderCommandErrors(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"no outputs": {
			args: []string{"render", "scene.yaml"},
			want: "at least one of --png or --svg is required",
		},
		"missing scene": {
			args: []string{"render", "missing.yaml", "--svg", "out.svg"},
			want: "failed to read scene",
		},
		"bad log level": {
			args: []string{"render", "missing.yaml", "--svg", "out.svg", "--log-level", "loud"},
			want: "invalid log level",
		},
		"no args": {
			args: []string{"render"},
			want: "accepts 1 arg(s)",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRenderCommandUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("export:\n  stroke: \"#ff0000\"\nlogging:\n  level: error\n"), 0o600))
	svgPath := filepath.Join(dir, "out.svg")

	_, err := execute(t, "--config", cfgPath, "render", filepath.Join("..", "..", "examples", "review.yaml"), "--svg", svgPath)
	require.NoError(t, err)

	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `stroke="#ff0000"`)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "connectors version dev")
}
