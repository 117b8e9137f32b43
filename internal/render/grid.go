package render

import (
	"math"
	"strings"

	"github.com/sanity-io/assist-sub000/internal/connector"
	"github.com/sanity-io/assist-sub000/internal/geom"
	"github.com/sanity-io/assist-sub000/internal/scene"
)

// CellKind tells a terminal front end how to style a cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellBox
	CellFocus
	CellLabel
	CellLine
	CellArrow
)

// Cell is one character of a Canvas.
type Cell struct {
	Rune rune
	Kind CellKind
}

// Canvas is a rasterized frame for the terminal.
type Canvas struct {
	Width  int
	Height int
	cells  [][]Cell
}

// GridOptions sizes a terminal rasterization.
type GridOptions struct {
	Width  int
	Height int
	// CellWidth and CellHeight are scene units per character cell.
	// Zero means one unit per cell.
	CellWidth  float64
	CellHeight float64
	// Focus is drawn with a highlighted border.
	Focus *scene.Node
}

// At returns the cell at (x, y), or an empty cell outside the canvas.
func (c *Canvas) At(x, y int) Cell {
	if !c.inside(x, y) {
		return Cell{Rune: ' '}
	}
	return c.cells[y][x]
}

// Rows returns the cells row by row. The slices must not be modified.
func (c *Canvas) Rows() [][]Cell {
	return c.cells
}

// Lines returns the canvas as plain text, one string per row.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.Height)
	for y, row := range c.cells {
		var b strings.Builder
		for _, cell := range row {
			b.WriteRune(cell.Rune)
		}
		lines[y] = b.String()
	}
	return lines
}

func (c *Canvas) inside(x, y int) bool {
	return y >= 0 && y < c.Height && x >= 0 && x < c.Width
}

func (c *Canvas) set(x, y int, r rune, kind CellKind) {
	if c.inside(x, y) {
		c.cells[y][x] = Cell{Rune: r, Kind: kind}
	}
}

type cellPoint struct{ x, y int }

type cellRect struct{ x0, y0, x1, y1 int } // inclusive

func (r cellRect) interior(p cellPoint) bool {
	return p.x > r.x0 && p.x < r.x1 && p.y > r.y0 && p.y < r.y1
}

// Grid rasterizes the visible part of a scene and its connectors. Boxes sit on
// top of connector lines, and connectors never draw inside a leaf node. Arrow
// glyphs and target markers are drawn over everything.
func Grid(sc *scene.Scene, frame Frame, opts GridOptions) *Canvas {
	width, height := max(opts.Width, 1), max(opts.Height, 1)
	g := gridder{
		sc:     sc,
		vp:     sc.Viewport(),
		cw:     opts.CellWidth,
		ch:     opts.CellHeight,
		canvas: &Canvas{Width: width, Height: height, cells: make([][]Cell, height)},
	}
	if g.cw <= 0 {
		g.cw = 1
	}
	if g.ch <= 0 {
		g.ch = 1
	}
	for y := range g.canvas.cells {
		row := make([]Cell, width)
		for x := range row {
			row[x] = Cell{Rune: ' '}
		}
		g.canvas.cells[y] = row
	}

	for _, n := range sc.Nodes() {
		if len(n.Children()) == 0 {
			g.leaves = append(g.leaves, g.rect(sc.VisibleBox(n)))
		}
	}
	for _, it := range frame.Items {
		g.drawConnector(it.Path)
	}
	for _, n := range sc.Nodes() {
		g.drawBox(n, n == opts.Focus)
	}
	for _, it := range frame.Items {
		g.drawMarkers(it.Path, it.Line)
	}
	return g.canvas
}

type gridder struct {
	sc     *scene.Scene
	vp     geom.Rect
	cw, ch float64
	canvas *Canvas
	leaves []cellRect
}

func (g *gridder) cell(x, y float64) cellPoint {
	return cellPoint{
		x: int(math.Floor((x - g.vp.X) / g.cw)),
		y: int(math.Floor((y - g.vp.Y) / g.ch)),
	}
}

func (g *gridder) rect(r geom.Rect) cellRect {
	tl := g.cell(r.X, r.Y)
	w := max(int(math.Round(r.W/g.cw)), 1)
	h := max(int(math.Round(r.H/g.ch)), 1)
	return cellRect{x0: tl.x, y0: tl.y, x1: tl.x + w - 1, y1: tl.y + h - 1}
}

func (g *gridder) blocked(p cellPoint) bool {
	for _, r := range g.leaves {
		if r.interior(p) {
			return true
		}
	}
	return false
}

func (g *gridder) drawBox(n *scene.Node, focused bool) {
	r := g.rect(g.sc.VisibleBox(n))
	clip := g.rect(g.sc.ClipRect(n))
	visible := func(x, y int) bool {
		return x >= clip.x0 && x <= clip.x1 && y >= clip.y0 && y <= clip.y1
	}

	corner, horizontal, vertical, kind := '+', '-', '|', CellBox
	if focused {
		corner, horizontal, vertical, kind = '#', '#', '#', CellFocus
	}

	for y := r.y0; y <= r.y1; y++ {
		for x := r.x0; x <= r.x1; x++ {
			if !visible(x, y) {
				continue
			}
			switch {
			case (y == r.y0 || y == r.y1) && (x == r.x0 || x == r.x1):
				g.canvas.set(x, y, corner, kind)
			case y == r.y0 || y == r.y1:
				g.canvas.set(x, y, horizontal, kind)
			case x == r.x0 || x == r.x1:
				g.canvas.set(x, y, vertical, kind)
			}
		}
	}

	// Label on the first inner row, truncated to the box.
	ty := r.y0 + 1
	if n.Label == "" || ty >= r.y1 {
		return
	}
	x := r.x0 + 1
	for _, ch := range n.Label {
		if x >= r.x1 {
			break
		}
		if visible(x, ty) {
			g.canvas.set(x, ty, ch, CellLabel)
		}
		x++
	}
}

func (g *gridder) drawConnector(p connector.Path) {
	pts := g.vertices(p.Commands)
	for i := 1; i < len(pts); i++ {
		g.drawSegment(pts[i-1], pts[i])
	}
	for i := 1; i+1 < len(pts); i++ {
		g.drawCorner(pts[i-1], pts[i], pts[i+1])
	}
}

// drawMarkers places the stub arrows and the target marker.
func (g *gridder) drawMarkers(p connector.Path, line connector.Line) {
	for _, a := range p.Arrows {
		glyph := '▲'
		if a.Direction == connector.Down {
			glyph = '▼'
		}
		at := g.cell(a.At.X, a.At.Y)
		g.canvas.set(at.x, at.y, glyph, CellArrow)
	}
	if !line.To.OutOfBounds && (geom.Point{X: line.To.X, Y: line.To.Y}).In(g.vp) {
		end := g.cell(line.To.X, line.To.Y)
		g.canvas.set(end.x-1, end.y, '▶', CellArrow)
	}
}

// vertices flattens path commands into a polyline. A quadratic corner is
// replaced by its control point, which is the unrounded corner.
func (g *gridder) vertices(cmds []connector.Command) []cellPoint {
	var pts []cellPoint
	add := func(x, y float64) {
		p := g.cell(x, y)
		if len(pts) > 0 && pts[len(pts)-1] == p {
			return
		}
		pts = append(pts, p)
	}
	for _, c := range cmds {
		for _, p := range c.Points {
			add(p.X, p.Y)
		}
	}
	return pts
}

func (g *gridder) drawSegment(a, b cellPoint) {
	dx, dy := b.x-a.x, b.y-a.y
	glyph := '─'
	switch {
	case dx == 0:
		glyph = '│'
	case dy != 0:
		glyph = '·'
	}
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		g.plot(a, glyph)
		return
	}
	for i := 0; i <= steps; i++ {
		g.plot(cellPoint{
			x: a.x + int(math.Round(float64(dx*i)/float64(steps))),
			y: a.y + int(math.Round(float64(dy*i)/float64(steps))),
		}, glyph)
	}
}

func (g *gridder) plot(p cellPoint, glyph rune) {
	if !g.canvas.inside(p.x, p.y) || g.blocked(p) {
		return
	}
	cur := g.canvas.cells[p.y][p.x]
	if cur.Kind == CellLine && cur.Rune != glyph && (cur.Rune == '─' || cur.Rune == '│') && (glyph == '─' || glyph == '│') {
		glyph = '┼'
	}
	g.canvas.set(p.x, p.y, glyph, CellLine)
}

func (g *gridder) drawCorner(prev, at, next cellPoint) {
	if !g.canvas.inside(at.x, at.y) || g.blocked(at) {
		return
	}
	var glyph rune
	switch {
	case prev.x != at.x && next.y != at.y:
		switch {
		case prev.x < at.x && at.y < next.y:
			glyph = '┐'
		case prev.x < at.x:
			glyph = '┘'
		case at.y < next.y:
			glyph = '┌'
		default:
			glyph = '└'
		}
	case prev.y != at.y && next.x != at.x:
		switch {
		case prev.y < at.y && at.x < next.x:
			glyph = '└'
		case prev.y < at.y:
			glyph = '┘'
		case at.x < next.x:
			glyph = '┌'
		default:
			glyph = '┐'
		}
	default:
		return
	}
	g.canvas.set(at.x, at.y, glyph, CellLine)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
