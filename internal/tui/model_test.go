package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanity-io/assist-sub000/internal/config"
	"github.com/sanity-io/assist-sub000/internal/geom"
	"github.com/sanity-io/assist-sub000/internal/scene"
)

const viewerScene = `
viewport: {x: 0, y: 0, w: 40, h: 12}
nodes:
  - id: form
    label: Form
    overflow: auto
    box: {x: 0, y: 0, w: 16, h: 12}
    children:
      - id: a
        label: A
        box: {x: 1, y: 2, w: 8, h: 3}
        from: k
      - id: tail
        box: {x: 1, y: 16, w: 8, h: 3}
  - id: panel
    label: Panel
    overflow: auto
    box: {x: 22, y: 0, w: 18, h: 12}
    children:
      - id: b
        label: B
        box: {x: 24, y: 4, w: 12, h: 3}
        to: k
`

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, opts ...Option) (*Model, config.Config) {
	t.Helper()
	sc, err := scene.Parse([]byte(viewerScene))
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Export.SaveDirectory = t.TempDir()
	m := New(sc, "review.yaml", cfg, opts...)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 13})
	return m, cfg
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestModelInitialState(t *testing.T) {
	m, _ := newModel(t)

	assert.Nil(t, m.Init())
	assert.Equal(t, ModeNormal, m.Mode())
	require.Len(t, m.Frame().Items, 1)
	assert.Equal(t, "k", m.Frame().Items[0].Key)

	view := m.View()
	assert.Contains(t, view, "Focus: form")
	assert.Contains(t, view, "Connectors: 1")
	assert.Contains(t, view, "▶")
	assert.Len(t, strings.Split(view, "\n"), 13)
}

func TestModelScrollsFocusedContainer(t *testing.T) {
	m, _ := newModel(t)
	form, err := m.scene.Node("form")
	require.NoError(t, err)

	press(m, "j")
	assert.Equal(t, geom.Scroll{Y: 1}, form.Scroll())
	press(m, "J")
	assert.Equal(t, geom.Scroll{Y: 3}, form.Scroll())
	press(m, "k")
	assert.Equal(t, geom.Scroll{Y: 2}, form.Scroll())

	// a moved up two rows with the form, so its anchor sits on its last inner row.
	assert.InDelta(t, 2, m.Frame().Items[0].Line.From.Y, 1e-9)
}

func TestModelFocusCycle(t *testing.T) {
	m, _ := newModel(t)

	press(m, "tab")
	assert.Contains(t, m.View(), "Focus: panel")
	press(m, "tab")
	assert.Contains(t, m.View(), "Focus: window")
	press(m, "tab")
	assert.Contains(t, m.View(), "Focus: form")
	press(m, "shift+tab")
	assert.Contains(t, m.View(), "Focus: window")

	press(m, "j")
	assert.Equal(t, geom.Scroll{Y: 1}, m.scene.WindowScroll())
	press(m, "s", "S", "w")
	assert.Equal(t, geom.Scroll{Y: 3}, m.scene.WindowScroll())
}

func TestModelHelp(t *testing.T) {
	m, _ := newModel(t)

	press(m, "?")
	assert.Equal(t, ModeHelp, m.Mode())
	assert.Contains(t, m.View(), "Connector Viewer Help")
	press(m, "j", "j")
	assert.Contains(t, m.View(), "Help (3-")

	press(m, "esc")
	assert.Equal(t, ModeNormal, m.Mode())
}

func TestModelQuit(t *testing.T) {
	m, _ := newModel(t)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelExports(t *testing.T) {
	m, cfg := newModel(t)

	for _, k := range []string{"e", "v", "t"} {
		press(m, k)
		assert.Empty(t, m.errorMessage, k)
	}
	for _, name := range []string{"review.png", "review.svg", "review.txt"} {
		assert.FileExists(t, filepath.Join(cfg.Export.SaveDirectory, name))
	}
	assert.Contains(t, m.View(), "Exported to")

	txt, err := os.ReadFile(filepath.Join(cfg.Export.SaveDirectory, "review.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(txt), "|A")
	assert.NotContains(t, string(txt), "Connectors:")
}

func TestModelCopy(t *testing.T) {
	var copied string
	m, _ := newModel(t, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	press(m, "c")
	assert.True(t, strings.HasPrefix(copied, "k\tM "), copied)
	assert.Contains(t, m.View(), "Copied 1 connector paths")

	m.copy = func(string) error { return errors.New("no clipboard") }
	press(m, "c")
	assert.Contains(t, m.View(), "ERROR: clipboard: no clipboard")
}

func TestModelSceneReload(t *testing.T) {
	m, _ := newModel(t)

	m.Update(SceneLoadedMsg{Err: errors.New("boom")})
	assert.Contains(t, m.View(), "ERROR: reload failed: boom")
	assert.Len(t, m.Frame().Items, 1, "the old scene stays on screen")

	sc, err := scene.Parse([]byte("viewport: {w: 10, h: 5}\n"))
	require.NoError(t, err)
	m.Update(SceneLoadedMsg{Scene: sc})
	assert.Empty(t, m.Frame().Items)
	assert.Contains(t, m.View(), "Focus: window")
	assert.Contains(t, m.View(), "scene reloaded")

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(viewerScene), 0o600))
	m.scenePath = path
	press(m, "r")
	assert.Len(t, m.Frame().Items, 1)
}
