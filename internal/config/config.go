// Package config loads settings for the connectors command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sanity-io/assist-sub000/internal/connector"
	"github.com/sanity-io/assist-sub000/internal/logging"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete configuration. The arrow, divider and path
// sections are pixel geometry for PNG and SVG export; the terminal viewer
// uses cell geometry.
type Config struct {
	Arrow   connector.ArrowOptions   `koanf:"arrow"`
	Divider connector.DividerOptions `koanf:"divider"`
	Path    connector.PathOptions    `koanf:"path"`
	Logging logging.Config           `koanf:"logging"`
	Export  ExportConfig             `koanf:"export"`
	Viewer  ViewerConfig             `koanf:"viewer"`
}

// ExportConfig controls PNG and SVG output.
type ExportConfig struct {
	// SaveDirectory is where the viewer writes exports. Empty means the
	// working directory. A leading ~ expands to the home directory.
	SaveDirectory string  `koanf:"save_directory"`
	Scale         float64 `koanf:"scale"`
	Padding       float64 `koanf:"padding"`
	FontSize      float64 `koanf:"font_size"`
	Background    string  `koanf:"background"`
	Stroke        string  `koanf:"stroke"`
	Box           string  `koanf:"box"`
	Text          string  `koanf:"text"`
}

// ViewerConfig controls the terminal viewer.
type ViewerConfig struct {
	// ScrollStep is how many cells one key press scrolls. Shifted keys
	// scroll twice as far.
	ScrollStep float64 `koanf:"scroll_step"`
	// CellWidth and CellHeight map scene units to terminal cells.
	CellWidth  float64 `koanf:"cell_width"`
	CellHeight float64 `koanf:"cell_height"`
}

// Default returns the built-in configuration.
func Default() Config {
	opts := connector.DefaultOptions()
	return Config{
		Arrow:   opts.Arrow,
		Divider: opts.Divider,
		Path:    opts.Path,
		Logging: logging.NewDefaultConfig(),
		Export: ExportConfig{
			Scale:      2,
			Padding:    16,
			FontSize:   12,
			Background: "#ffffff",
			Stroke:     "#2276fc",
			Box:        "#c3c9d5",
			Text:       "#1b1d27",
		},
		Viewer: ViewerConfig{
			ScrollStep: 1,
			CellWidth:  1,
			CellHeight: 1,
		},
	}
}

// Options returns the connector geometry.
func (c Config) Options() connector.Options {
	return connector.Options{Arrow: c.Arrow, Divider: c.Divider, Path: c.Path}
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	nonNegative := map[string]float64{
		"arrow.margin_x":     c.Arrow.MarginX,
		"arrow.margin_y":     c.Arrow.MarginY,
		"arrow.size":         c.Arrow.Size,
		"arrow.threshold":    c.Arrow.Threshold,
		"path.corner_radius": c.Path.CornerRadius,
		"path.margin_y":      c.Path.MarginY,
		"export.padding":     c.Export.Padding,
	}
	for _, key := range sortedKeys(nonNegative) {
		if nonNegative[key] < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", key))
		}
	}
	positive := map[string]float64{
		"path.stroke_width":  c.Path.StrokeWidth,
		"export.scale":       c.Export.Scale,
		"export.font_size":   c.Export.FontSize,
		"viewer.scroll_step": c.Viewer.ScrollStep,
		"viewer.cell_width":  c.Viewer.CellWidth,
		"viewer.cell_height": c.Viewer.CellHeight,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", key))
		}
	}
	colors := map[string]string{
		"export.background": c.Export.Background,
		"export.stroke":     c.Export.Stroke,
		"export.box":        c.Export.Box,
		"export.text":       c.Export.Text,
	}
	for _, key := range sortedKeys(colors) {
		if !isHexColor(colors[key]) {
			errs = append(errs, fmt.Errorf("%s: %q is not a hex color", key, colors[key]))
		}
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// SavePath returns where an export named filename should be written,
// creating the save directory if needed.
func (c Config) SavePath(filename string) (string, error) {
	if c.Export.SaveDirectory == "" {
		return filename, nil
	}
	if err := os.MkdirAll(c.Export.SaveDirectory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}
	return filepath.Join(c.Export.SaveDirectory, filename), nil
}

// expandPath resolves a leading ~ and makes the path absolute.
func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}

func isHexColor(s string) bool {
	s, ok := strings.CutPrefix(s, "#")
	if !ok {
		return false
	}
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
