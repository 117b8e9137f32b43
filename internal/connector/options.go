package connector

// Options holds the layout constants for one overlay session.
type Options struct {
	Arrow   ArrowOptions   `koanf:"arrow" yaml:"arrow"`
	Divider DividerOptions `koanf:"divider" yaml:"divider"`
	Path    PathOptions    `koanf:"path" yaml:"path"`
}

// ArrowOptions controls the out-of-bounds stubs and their chevrons.
type ArrowOptions struct {
	// MarginX is the horizontal distance from the anchor to the stub.
	MarginX float64 `koanf:"margin_x" yaml:"margin_x"`
	// MarginY is how far inside the bounds edge the chevron sits. It is also
	// the tolerance used to classify an element as above or below its bounds.
	MarginY float64 `koanf:"margin_y" yaml:"margin_y"`
	// Size is the chevron half-width and half-height.
	Size float64 `koanf:"size" yaml:"size"`
	// Threshold insets the bounds top and bottom to form the anchor bounds.
	Threshold float64 `koanf:"threshold" yaml:"threshold"`
}

// DividerOptions positions the vertical crossing line.
type DividerOptions struct {
	// OffsetX is added to the target bounds X.
	OffsetX float64 `koanf:"offset_x" yaml:"offset_x"`
}

// PathOptions controls the connector line itself.
type PathOptions struct {
	CornerRadius float64 `koanf:"corner_radius" yaml:"corner_radius"`
	// MarginY insets the element top and bottom when choosing an anchor Y.
	MarginY     float64 `koanf:"margin_y" yaml:"margin_y"`
	StrokeWidth float64 `koanf:"stroke_width" yaml:"stroke_width"`
}

// DefaultOptions returns the pixel constants used by the studio overlay.
func DefaultOptions() Options {
	return Options{
		Arrow: ArrowOptions{
			MarginX:   10.5,
			MarginY:   5,
			Size:      4,
			Threshold: 12,
		},
		Divider: DividerOptions{
			OffsetX: -8,
		},
		Path: PathOptions{
			CornerRadius: 8,
			MarginY:      10,
			StrokeWidth:  1,
		},
	}
}

// CellOptions returns constants scaled for a terminal grid where one unit is
// one character cell. Threshold exceeds MarginY so out-of-bounds stubs keep
// at least one cell of length inside the bounds.
func CellOptions() Options {
	return Options{
		Arrow: ArrowOptions{
			MarginX:   2,
			MarginY:   1,
			Size:      1,
			Threshold: 2,
		},
		Divider: DividerOptions{
			OffsetX: -2,
		},
		Path: PathOptions{
			CornerRadius: 0,
			MarginY:      1,
			StrokeWidth:  1,
		},
	}
}

// Scale converts options between unit systems: horizontal lengths are
// multiplied by sx and vertical lengths by sy. Stroke width is unchanged.
func (o Options) Scale(sx, sy float64) Options {
	return Options{
		Arrow: ArrowOptions{
			MarginX:   o.Arrow.MarginX * sx,
			MarginY:   o.Arrow.MarginY * sy,
			Size:      o.Arrow.Size * sy,
			Threshold: o.Arrow.Threshold * sy,
		},
		Divider: DividerOptions{OffsetX: o.Divider.OffsetX * sx},
		Path: PathOptions{
			CornerRadius: o.Path.CornerRadius * min(sx, sy),
			MarginY:      o.Path.MarginY * sy,
			StrokeWidth:  o.Path.StrokeWidth,
		},
	}
}
