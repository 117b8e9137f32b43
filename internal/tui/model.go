// Package tui is a terminal viewer for a scene and its connectors.
package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sanity-io/assist-sub000/internal/config"
	"github.com/sanity-io/assist-sub000/internal/connector"
	"github.com/sanity-io/assist-sub000/internal/overlay"
	"github.com/sanity-io/assist-sub000/internal/render"
	"github.com/sanity-io/assist-sub000/internal/scene"
)

// Mode is the viewer input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
)

// SceneLoadedMsg carries a reloaded scene, or the error that prevented it.
type SceneLoadedMsg struct {
	Scene *scene.Scene
	Err   error
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copy = write }
}

// WithLogger sets the model logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// Model is the bubbletea model for the viewer.
type Model struct {
	cfg       config.Config
	logger    *zap.Logger
	scenePath string
	copy      func(string) error

	scene   *scene.Scene
	session *overlay.Session[*scene.Node]
	frame   render.Frame

	width      int
	height     int
	mode       Mode
	helpScroll int
	focus      int // index into scene.ScrollContainers, -1 for the window

	successMessage string
	errorMessage   string
}

// New creates a viewer for sc, loaded from scenePath.
func New(sc *scene.Scene, scenePath string, cfg config.Config, opts ...Option) *Model {
	m := &Model{
		cfg:       cfg,
		logger:    zap.NewNop(),
		scenePath: scenePath,
		copy:      clipboard.WriteAll,
		width:     80,
		height:    24,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.setScene(sc)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Close releases the overlay session.
func (m *Model) Close() {
	if m.session != nil {
		m.session.Close()
	}
}

// Frame returns the connectors currently drawn.
func (m *Model) Frame() render.Frame {
	return m.frame
}

// Mode returns the input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// cellOptions is terminal geometry expressed in scene units.
func (m *Model) cellOptions() connector.Options {
	return connector.CellOptions().Scale(m.cfg.Viewer.CellWidth, m.cfg.Viewer.CellHeight)
}

func (m *Model) setScene(sc *scene.Scene) {
	m.Close()
	m.scene = sc
	m.session = overlay.NewSceneSession(sc, m.cellOptions(), m.logger)
	m.focus = -1
	if len(sc.ScrollContainers()) > 0 {
		m.focus = 0
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.frame = m.session.Frame()
}

func (m *Model) focused() *scene.Node {
	containers := m.scene.ScrollContainers()
	if m.focus < 0 || m.focus >= len(containers) {
		return nil
	}
	return containers[m.focus]
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SceneLoadedMsg:
		if msg.Err != nil {
			m.setError("reload failed: %v", msg.Err)
			return m, nil
		}
		m.setScene(msg.Scene)
		m.setSuccess("scene reloaded")
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeHelp {
			return m.handleHelpKey(msg.String())
		}
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) handleHelpKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "q", "?":
		m.mode = ModeNormal
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleKey(key string) (tea.Model, tea.Cmd) {
	m.successMessage = ""
	m.errorMessage = ""

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.mode = ModeHelp
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "h", "left", "H", "shift+left",
		"l", "right", "L", "shift+right",
		"k", "up", "K", "shift+up",
		"j", "down", "J", "shift+down":
		m.handleScroll(key, getMoveSpeed(key))
	case "w", "W":
		m.scrollWindow(-getMoveSpeed(key))
	case "s", "S":
		m.scrollWindow(getMoveSpeed(key))
	case "e":
		m.export("png")
	case "v":
		m.export("svg")
	case "t":
		m.export("txt")
	case "c":
		m.copyPaths()
	case "r":
		m.reload()
	}
	return m, nil
}

func (m *Model) reload() {
	sc, err := scene.Load(m.scenePath)
	if err != nil {
		m.setError("%v", err)
		return
	}
	m.setScene(sc)
	m.setSuccess("scene reloaded")
}
