package scene

import (
	"slices"

	"github.com/sanity-io/assist-sub000/internal/geom"
	"github.com/sanity-io/assist-sub000/internal/region"
)

// OnScroll registers fn for scrolls of target, or of the window when target
// is nil.
func (s *Scene) OnScroll(target region.Node, fn func()) func() {
	s.nextID++
	id := s.nextID
	s.scrolls = append(s.scrolls, scrollListener{id: id, target: target, fn: fn})
	return func() {
		s.scrolls = slices.DeleteFunc(s.scrolls, func(l scrollListener) bool { return l.id == id })
	}
}

// ObserveResize registers fn for size changes of any of nodes.
func (s *Scene) ObserveResize(nodes []region.Node, fn func()) func() {
	s.nextID++
	id := s.nextID
	s.resizes = append(s.resizes, resizeObserver{id: id, nodes: slices.Clone(nodes), fn: fn})
	return func() {
		s.resizes = slices.DeleteFunc(s.resizes, func(o resizeObserver) bool { return o.id == id })
	}
}

// Listeners returns the number of registered scroll listeners and resize
// observers.
func (s *Scene) Listeners() int {
	return len(s.scrolls) + len(s.resizes)
}

// ScrollBy scrolls a container by (dx, dy), clamped to its content extent,
// and reports whether the offset changed.
func (s *Scene) ScrollBy(n *Node, dx, dy float64) bool {
	content := n.content()
	maxX := max(content.Right()-n.box.Right(), 0)
	maxY := max(content.Bottom()-n.box.Bottom(), 0)
	next := geom.Scroll{
		X: geom.Clamp(n.scroll.X+dx, 0, maxX),
		Y: geom.Clamp(n.scroll.Y+dy, 0, maxY),
	}
	if next == n.scroll {
		return false
	}
	n.scroll = next
	s.fireScroll(n)
	return true
}

// ScrollWindowBy scrolls the window. The window scroll never goes negative.
func (s *Scene) ScrollWindowBy(dx, dy float64) bool {
	next := geom.Scroll{X: max(s.window.X+dx, 0), Y: max(s.window.Y+dy, 0)}
	if next == s.window {
		return false
	}
	s.window = next
	s.fireScroll(nil)
	return true
}

// Resize changes a node's box size and notifies resize observers watching it.
func (s *Scene) Resize(n *Node, w, h float64) {
	r := geom.NewRect(n.box.X, n.box.Y, w, h)
	if r == n.box {
		return
	}
	n.box = r
	for _, o := range slices.Clone(s.resizes) {
		if slices.ContainsFunc(o.nodes, func(x region.Node) bool { return x == region.Node(n) }) {
			o.fn()
		}
	}
}

// SetViewport changes the visible window area. Every resize observer fires,
// since trackers without a container derive their bounds from the viewport.
func (s *Scene) SetViewport(r geom.Rect) {
	if r == s.viewport {
		return
	}
	s.viewport = r
	for _, o := range slices.Clone(s.resizes) {
		o.fn()
	}
}

func (s *Scene) fireScroll(target region.Node) {
	// Listeners may detach while we iterate.
	for _, l := range slices.Clone(s.scrolls) {
		if target == nil && l.target == nil {
			l.fn()
			continue
		}
		if target != nil && l.target == target {
			l.fn()
		}
	}
}
