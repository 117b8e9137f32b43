package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sanity-io/assist-sub000/internal/render"
)

var (
	boxStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	lineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	arrowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	modeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var helpLines = []string{
	"Connector Viewer Help",
	"=====================",
	"",
	"Scrolling:",
	"----------",
	"  h/←/j/↓/k/↑/l/→  Scroll the focused container",
	"  Shift+h/j/k/l    Scroll 2x faster",
	"  w/s              Scroll the window up/down",
	"  Tab/Shift+Tab    Focus the next/previous scroll container",
	"",
	"Export:",
	"-------",
	"  e                Export as PNG image",
	"  v                Export as SVG",
	"  t                Export the terminal view as text",
	"  c                Copy connector path data to the clipboard",
	"",
	"General:",
	"  r                Reload the scene file",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == ModeHelp {
		return m.helpView()
	}

	canvas := render.Grid(m.scene, m.frame, render.GridOptions{
		Width:      max(m.width, 1),
		Height:     max(m.height-1, 1),
		CellWidth:  m.cfg.Viewer.CellWidth,
		CellHeight: m.cfg.Viewer.CellHeight,
		Focus:      m.focused(),
	})

	var result strings.Builder
	for y, row := range canvas.Rows() {
		if y > 0 {
			result.WriteString("\n")
		}
		writeRow(&result, row)
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

// writeRow styles runs of cells that share a kind.
func writeRow(b *strings.Builder, row []render.Cell) {
	for i := 0; i < len(row); {
		j := i
		var run strings.Builder
		for j < len(row) && row[j].Kind == row[i].Kind {
			run.WriteRune(row[j].Rune)
			j++
		}
		b.WriteString(styleFor(row[i].Kind).Render(run.String()))
		i = j
	}
}

func styleFor(kind render.CellKind) lipgloss.Style {
	switch kind {
	case render.CellBox:
		return boxStyle
	case render.CellFocus:
		return focusStyle
	case render.CellLine:
		return lineStyle
	case render.CellArrow:
		return arrowStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m *Model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}

func (m *Model) statusLine() string {
	focus := "window"
	if c := m.focused(); c != nil {
		focus = c.ID
	}
	status := fmt.Sprintf("%s Focus: %s | Connectors: %d", modeStyle.Render(m.modeString()), focus, len(m.frame.Items))
	switch {
	case m.errorMessage != "":
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " | " + successStyle.Render(m.successMessage)
	default:
		status += dimStyle.Render(" | ? for help | q to quit")
	}
	return status
}

func (m *Model) helpView() string {
	visibleHeight := max(m.height-1, 1)
	start := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	end := min(start+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[start:end], "\n")
	result += "\n" + dimStyle.Render(fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		start+1, end, len(helpLines)))
	return result
}

func (m *Model) setSuccess(format string, args ...any) {
	m.successMessage = fmt.Sprintf(format, args...)
	m.errorMessage = ""
}

func (m *Model) setError(format string, args ...any) {
	m.errorMessage = fmt.Sprintf(format, args...)
	m.successMessage = ""
	m.logger.Warn("viewer error", zap.String("error", m.errorMessage))
}
