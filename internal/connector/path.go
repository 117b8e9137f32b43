package connector

import (
	"math"
	"strconv"
	"strings"

	"github.com/sanity-io/assist-sub000/internal/geom"
)

// Op is a path command.
type Op byte

const (
	MoveTo Op = 'M'
	LineTo Op = 'L'
	// QuadTo is a quadratic curve: Points[0] is the control point,
	// Points[1] the end point.
	QuadTo Op = 'Q'
)

// Command is a single vector path command.
type Command struct {
	Op     Op
	Points []geom.Point
}

// End returns the point the pen rests at after the command.
func (c Command) End() geom.Point {
	return c.Points[len(c.Points)-1]
}

// Direction is where an arrow glyph points.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Arrow is a chevron drawn where an out-of-bounds stub crosses its bounds edge.
type Arrow struct {
	At        geom.Point
	Direction Direction
	Commands  []Command
}

// D returns the arrow glyph as SVG path data.
func (a Arrow) D() string {
	return pathData(a.Commands)
}

// Route names the shape chosen for the target side.
type Route int

const (
	// RouteDown reaches a visible target below the from anchor.
	RouteDown Route = iota
	// RouteUp reaches a visible target at or above the from anchor.
	RouteUp
	// RouteAbove ends in an upward stub because the target is scrolled above its bounds.
	RouteAbove
	// RouteAboveCurl is RouteAbove entered from above: the line descends past
	// the stub and curls back up into it.
	RouteAboveCurl
	// RouteBelow ends in a downward stub because the target is scrolled below its bounds.
	RouteBelow
	// RouteBelowCurl is RouteBelow entered from below.
	RouteBelowCurl
)

var routeNames = map[Route]string{
	RouteDown:      "down",
	RouteUp:        "up",
	RouteAbove:     "above",
	RouteAboveCurl: "above-curl",
	RouteBelow:     "below",
	RouteBelowCurl: "below-curl",
}

func (r Route) String() string {
	if name, ok := routeNames[r]; ok {
		return name
	}
	return "unknown"
}

// Path is the rendered connector: the line itself plus any arrow glyphs.
type Path struct {
	Route    Route
	Commands []Command
	Arrows   []Arrow
}

// D returns the connector line as SVG path data.
func (p Path) D() string {
	return pathData(p.Commands)
}

// Render converts solved anchors into a connector path.
func Render(opts Options, line Line) Path {
	from, to := line.From, line.To
	arrow := opts.Arrow
	dividerX := to.Bounds.X + opts.Divider.OffsetX
	// Shift by one unit so the line does not overlap the target's border.
	toX := to.X + 1

	var (
		pts    []geom.Point
		arrows []Arrow
	)

	switch {
	case from.IsAbove:
		stubX := from.X + arrow.MarginX
		edgeY := from.Bounds.Y - arrow.Threshold + arrow.MarginY
		pts = append(pts, geom.Point{X: stubX, Y: edgeY}, geom.Point{X: stubX, Y: from.Y})
		arrows = append(arrows, newArrow(arrow.Size, geom.Point{X: stubX, Y: edgeY}, Up))
	case from.IsBelow:
		stubX := from.X + arrow.MarginX
		edgeY := from.Bounds.Bottom() + arrow.Threshold - arrow.MarginY
		pts = append(pts, geom.Point{X: stubX, Y: edgeY}, geom.Point{X: stubX, Y: from.Y})
		arrows = append(arrows, newArrow(arrow.Size, geom.Point{X: stubX, Y: edgeY}, Down))
	default:
		pts = append(pts, geom.Point{X: from.X, Y: from.Y})
	}

	var route Route
	switch {
	case to.IsAbove:
		route = RouteAbove
		if from.Y < to.Y {
			route = RouteAboveCurl
		}
		stubX := toX + arrow.MarginX
		edgeY := to.Bounds.Y - arrow.Threshold + arrow.MarginY
		pts = append(pts,
			geom.Point{X: dividerX, Y: from.Y},
			geom.Point{X: dividerX, Y: to.Y},
			geom.Point{X: stubX, Y: to.Y},
			geom.Point{X: stubX, Y: edgeY},
		)
		arrows = append(arrows, newArrow(arrow.Size, geom.Point{X: stubX, Y: edgeY}, Up))
	case to.IsBelow:
		route = RouteBelow
		if from.Y > to.Y {
			route = RouteBelowCurl
		}
		stubX := toX + arrow.MarginX
		edgeY := to.Bounds.Bottom() + arrow.Threshold - arrow.MarginY
		pts = append(pts,
			geom.Point{X: dividerX, Y: from.Y},
			geom.Point{X: dividerX, Y: to.Y},
			geom.Point{X: stubX, Y: to.Y},
			geom.Point{X: stubX, Y: edgeY},
		)
		arrows = append(arrows, newArrow(arrow.Size, geom.Point{X: stubX, Y: edgeY}, Down))
	case from.Y < to.Y:
		route = RouteDown
		pts = append(pts,
			geom.Point{X: dividerX, Y: from.Y},
			geom.Point{X: dividerX, Y: to.Y},
			geom.Point{X: toX, Y: to.Y},
		)
	default:
		route = RouteUp
		pts = append(pts,
			geom.Point{X: dividerX, Y: from.Y},
			geom.Point{X: dividerX, Y: to.Y},
			geom.Point{X: toX, Y: to.Y},
		)
	}

	return Path{
		Route:    route,
		Commands: roundedPath(pts, opts.Path.CornerRadius),
		Arrows:   arrows,
	}
}

// roundedPath joins pts with straight legs and rounds every turn with a
// quadratic curve. Each corner's radius is capped at half of both adjacent
// legs so neighbouring curves never overlap.
func roundedPath(pts []geom.Point, radius float64) []Command {
	pts = simplify(pts)
	if len(pts) == 0 {
		return nil
	}

	cmds := []Command{{Op: MoveTo, Points: []geom.Point{pts[0]}}}
	for i := 1; i < len(pts)-1; i++ {
		prev, corner, next := pts[i-1], pts[i], pts[i+1]
		r := min(radius, distance(prev, corner)/2, distance(corner, next)/2)
		if r <= 0 {
			cmds = append(cmds, Command{Op: LineTo, Points: []geom.Point{corner}})
			continue
		}
		cmds = append(cmds,
			Command{Op: LineTo, Points: []geom.Point{toward(corner, prev, r)}},
			Command{Op: QuadTo, Points: []geom.Point{corner, toward(corner, next, r)}},
		)
	}
	if len(pts) > 1 {
		cmds = append(cmds, Command{Op: LineTo, Points: []geom.Point{pts[len(pts)-1]}})
	}
	return cmds
}

const epsilon = 1e-9

// simplify drops repeated points and points lying on a straight run.
func simplify(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && distance(out[n-1], p) < epsilon {
			continue
		}
		if n := len(out); n > 1 && continues(out[n-2], out[n-1], p) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// continues reports whether b lies on the straight run from a to c.
func continues(a, b, c geom.Point) bool {
	abx, aby := b.X-a.X, b.Y-a.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y
	cross := abx*bcy - aby*bcx
	dot := abx*bcx + aby*bcy
	return math.Abs(cross) < epsilon && dot > 0
}

func distance(a, b geom.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// toward returns the point d units from p in the direction of q.
func toward(p, q geom.Point, d float64) geom.Point {
	l := distance(p, q)
	if l < epsilon {
		return p
	}
	return geom.Point{X: p.X + (q.X-p.X)/l*d, Y: p.Y + (q.Y-p.Y)/l*d}
}

func newArrow(size float64, at geom.Point, dir Direction) Arrow {
	// Tip and wings sit one size either side of the center.
	tip, wing := -size, size
	if dir == Down {
		tip, wing = size, -size
	}
	return Arrow{
		At:        at,
		Direction: dir,
		Commands: []Command{
			{Op: MoveTo, Points: []geom.Point{{X: at.X - size, Y: at.Y + wing}}},
			{Op: LineTo, Points: []geom.Point{{X: at.X, Y: at.Y + tip}}},
			{Op: LineTo, Points: []geom.Point{{X: at.X + size, Y: at.Y + wing}}},
		},
	}
}

func pathData(cmds []Command) string {
	var b strings.Builder
	for i, c := range cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(c.Op))
		for _, p := range c.Points {
			b.WriteByte(' ')
			b.WriteString(formatFloat(p.X))
			b.WriteByte(' ')
			b.WriteString(formatFloat(p.Y))
		}
	}
	return b.String()
}

func formatFloat(v float64) string {
	v = math.Round(v*1000) / 1000
	// Avoid "-0" in output.
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
