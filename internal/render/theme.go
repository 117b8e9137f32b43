// Package render draws a scene and its connector frame as PNG, SVG or a
// terminal character grid.
package render

import (
	"github.com/sanity-io/assist-sub000/internal/config"
	"github.com/sanity-io/assist-sub000/internal/overlay"
	"github.com/sanity-io/assist-sub000/internal/scene"
)

// Frame is a connector frame over scene nodes.
type Frame = overlay.Frame[*scene.Node]

// Theme controls image output. Colors are hex strings such as "#2276fc".
type Theme struct {
	// Scale is output pixels per scene unit.
	Scale float64
	// Padding surrounds the viewport, in scene units.
	Padding     float64
	FontSize    float64
	StrokeWidth float64
	Background  string
	Stroke      string
	Box         string
	Text        string
}

// DefaultTheme returns the theme for the default configuration.
func DefaultTheme() Theme {
	return NewTheme(config.Default())
}

// NewTheme builds a theme from the export section and the path stroke width.
func NewTheme(cfg config.Config) Theme {
	return Theme{
		Scale:       cfg.Export.Scale,
		Padding:     cfg.Export.Padding,
		FontSize:    cfg.Export.FontSize,
		StrokeWidth: cfg.Path.StrokeWidth,
		Background:  cfg.Export.Background,
		Stroke:      cfg.Export.Stroke,
		Box:         cfg.Export.Box,
		Text:        cfg.Export.Text,
	}
}

// imageSize returns the output size in pixels for the scene viewport.
func (t Theme) imageSize(sc *scene.Scene) (int, int) {
	vp := sc.Viewport()
	return int((vp.W + 2*t.Padding) * t.Scale), int((vp.H + 2*t.Padding) * t.Scale)
}

// project maps a scene point into output pixels.
func (t Theme) project(sc *scene.Scene, x, y float64) (float64, float64) {
	vp := sc.Viewport()
	return (x - vp.X + t.Padding) * t.Scale, (y - vp.Y + t.Padding) * t.Scale
}
