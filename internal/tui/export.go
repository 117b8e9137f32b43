package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sanity-io/assist-sub000/internal/overlay"
	"github.com/sanity-io/assist-sub000/internal/render"
)

// pixelFrame recomputes connectors with the export geometry. The viewer's
// own frame uses cell geometry, which looks cramped in an image.
func (m *Model) pixelFrame() render.Frame {
	s := overlay.NewSceneSession(m.scene, m.cfg.Options(), m.logger)
	defer s.Close()
	return s.Frame()
}

func (m *Model) exportName(ext string) string {
	base := strings.TrimSuffix(filepath.Base(m.scenePath), filepath.Ext(m.scenePath))
	if base == "" || base == "." {
		base = "connectors"
	}
	return base + "." + ext
}

func (m *Model) export(format string) {
	path, err := m.cfg.SavePath(m.exportName(format))
	if err != nil {
		m.setError("%v", err)
		return
	}

	theme := render.NewTheme(m.cfg)
	switch format {
	case "png":
		err = render.SavePNG(path, m.scene, m.pixelFrame(), theme)
	case "svg":
		err = render.SaveSVG(path, m.scene, m.pixelFrame(), theme)
	case "txt":
		err = m.exportVisualTXT(path)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		m.setError("%v", err)
		return
	}
	m.logger.Info("exported", zap.String("format", format), zap.String("path", path))
	m.setSuccess("Exported to %s", path)
}

// exportVisualTXT writes the canvas exactly as the viewer shows it, without
// styling or the status line.
func (m *Model) exportVisualTXT(path string) error {
	canvas := render.Grid(m.scene, m.frame, render.GridOptions{
		Width:      max(m.width, 1),
		Height:     max(m.height-1, 1),
		CellWidth:  m.cfg.Viewer.CellWidth,
		CellHeight: m.cfg.Viewer.CellHeight,
	})
	content := strings.Join(canvas.Lines(), "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// copyPaths puts the SVG path data of every connector on the clipboard, one
// connector per line.
func (m *Model) copyPaths() {
	frame := m.pixelFrame()
	if len(frame.Items) == 0 {
		m.setError("no connectors to copy")
		return
	}
	lines := make([]string, 0, len(frame.Items))
	for _, it := range frame.Items {
		lines = append(lines, it.Key+"\t"+it.Path.D())
	}
	if err := m.copy(strings.Join(lines, "\n")); err != nil {
		m.setError("clipboard: %v", err)
		return
	}
	m.setSuccess("Copied %d connector paths", len(lines))
}
