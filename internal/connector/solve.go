package connector

import "github.com/sanity-io/assist-sub000/internal/geom"

// LinePoint is the solved anchor for one side of a connector.
type LinePoint struct {
	// Bounds is the anchor bounds: the region bounds inset vertically by the
	// arrow threshold. Y always lies inside it.
	Bounds geom.Rect
	X      float64
	Y      float64

	StartY  float64
	CenterY float64
	EndY    float64

	IsAbove     bool
	IsBelow     bool
	OutOfBounds bool
}

// Line is the solved pair of anchors.
type Line struct {
	From LinePoint
	To   LinePoint
}

// Solve computes where a connector touches each of its regions.
//
// Both anchors prefer the same Y: the lower of the two element tops (inset by
// the path margin), capped by each element's own inset bottom. An anchor that
// would fall outside the opposite side's anchor bounds is pulled to that
// edge, and finally every anchor is clamped into its own anchor bounds.
func Solve(opts Options, from, to Region) Line {
	f := newLinePoint(opts, from)
	t := newLinePoint(opts, to)

	f.X = from.Element.Right()
	t.X = to.Element.X

	target := max(f.StartY, t.StartY)
	fy := min(target, f.EndY)
	ty := min(target, t.EndY)

	fy = geom.Clamp(geom.Clamp(fy, t.Bounds.Y, t.Bounds.Bottom()), f.StartY, f.EndY)
	ty = geom.Clamp(geom.Clamp(ty, f.Bounds.Y, f.Bounds.Bottom()), t.StartY, t.EndY)

	f.Y = geom.Clamp(fy, f.Bounds.Y, f.Bounds.Bottom())
	t.Y = geom.Clamp(ty, t.Bounds.Y, t.Bounds.Bottom())

	return Line{From: f, To: t}
}

func newLinePoint(opts Options, r Region) LinePoint {
	el := r.Element
	p := LinePoint{
		Bounds:  r.Bounds.InsetY(opts.Arrow.Threshold),
		StartY:  el.Y + opts.Path.MarginY,
		CenterY: el.CenterY(),
		EndY:    el.Bottom() - opts.Path.MarginY,
		IsAbove: el.Bottom() < r.Bounds.Y+opts.Arrow.MarginY,
		IsBelow: el.Y > r.Bounds.Bottom()-opts.Arrow.MarginY,
	}
	// Elements shorter than twice the margin anchor at their center.
	if p.StartY > p.EndY {
		p.StartY = p.CenterY
		p.EndY = p.CenterY
	}
	p.OutOfBounds = p.IsAbove || p.IsBelow
	return p
}
