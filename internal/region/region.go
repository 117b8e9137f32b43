// Package region measures a tracked node and the visible area it is clipped
// to, in a coordinate space that follows ancestor scrolling.
//
// The package is written against a small layout-tree abstraction ([Node] and
// [Host]) rather than a concrete UI toolkit. Hosts deliver scroll and resize
// notifications through callbacks; anything else that changes layout can
// call [Tracker.NotifyLayoutChanged].
package region

import (
	"strings"

	"github.com/sanity-io/assist-sub000/internal/geom"
)

// Node is one element of the host's layout tree.
//
// Implementations must return an untyped nil from Parent at the top of the
// tree, not a typed nil pointer.
type Node interface {
	Parent() Node
	// Overflow is the node's overflow mode, e.g. "visible", "auto" or
	// "hidden scroll" for per-axis modes.
	Overflow() string
	// Box is the node's layout box in unscrolled page coordinates. It
	// reports false until the node has been laid out.
	Box() (geom.Rect, bool)
	// Scroll is how far the node's own content is scrolled.
	Scroll() geom.Scroll
}

// Host owns the layout tree and its event sources.
type Host interface {
	// Root is the top container. Ancestor walks stop there.
	Root() Node
	// Viewport is the visible window area in overlay coordinates.
	Viewport() geom.Rect
	WindowScroll() geom.Scroll
	// OnScroll calls fn when target scrolls; a nil target means the window.
	OnScroll(target Node, fn func()) (remove func())
	// ObserveResize calls fn when any of nodes changes size.
	ObserveResize(nodes []Node, fn func()) (disconnect func())
}

// Rects is the tracker output. Each rect is nil until measured and the two
// can resolve independently.
type Rects struct {
	Bounds  *geom.Rect
	Element *geom.Rect
}

// Scrollable reports whether an overflow mode clips or scrolls content.
func Scrollable(overflow string) bool {
	for _, mode := range []string{"auto", "hidden", "scroll"} {
		if strings.Contains(overflow, mode) {
			return true
		}
	}
	return false
}

// ScrollParents returns the ancestors of n that can scroll, nearest first.
// The walk stops at root, which is never included.
func ScrollParents(n, root Node) []Node {
	var parents []Node
	if n == nil {
		return nil
	}
	for p := n.Parent(); p != nil && p != root; p = p.Parent() {
		if Scrollable(p.Overflow()) {
			parents = append(parents, p)
		}
	}
	return parents
}
