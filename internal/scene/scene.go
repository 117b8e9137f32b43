// Package scene loads a layout tree from YAML and serves it as a region
// host. Scenes drive the command line renderer and the terminal viewer, and
// double as fixtures for overlay tests.
//
// A scene file looks like:
//
//	viewport: {w: 120, h: 40}
//	nodes:
//	  - id: form
//	    label: Document
//	    overflow: auto
//	    box: {x: 0, y: 0, w: 60, h: 40}
//	    children:
//	      - id: title-field
//	        label: Title
//	        box: {x: 2, y: 4, w: 40, h: 3}
//	        from: title
//
// Boxes are absolute, unscrolled page coordinates. A node with "from" or
// "to" is one side of the connector with that key.
package scene

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/sanity-io/assist-sub000/internal/geom"
	"github.com/sanity-io/assist-sub000/internal/region"
)

var (
	// ErrUnknownNode is returned when a node id is not in the scene.
	ErrUnknownNode = errors.New("unknown node")
	// ErrInvalid is returned for scene files that fail validation.
	ErrInvalid = errors.New("invalid scene")
)

type file struct {
	Viewport     geom.Rect   `yaml:"viewport"`
	WindowScroll geom.Scroll `yaml:"window_scroll"`
	Nodes        []fileNode  `yaml:"nodes"`
}

type fileNode struct {
	ID       string      `yaml:"id"`
	Label    string      `yaml:"label"`
	Box      geom.Rect   `yaml:"box"`
	Overflow string      `yaml:"overflow"`
	Scroll   geom.Scroll `yaml:"scroll"`
	From     string      `yaml:"from"`
	To       string      `yaml:"to"`
	Children []fileNode  `yaml:"children"`
}

// Node is one element of a scene.
type Node struct {
	ID    string
	Label string
	// From and To are connector keys; empty when the node is not an endpoint.
	From string
	To   string

	box      geom.Rect
	overflow string
	scroll   geom.Scroll
	parent   *Node
	children []*Node
}

// Parent returns the parent node, nil at the scene root.
func (n *Node) Parent() region.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Overflow returns the overflow mode.
func (n *Node) Overflow() string { return n.overflow }

// Box returns the layout box. Scene nodes are always laid out.
func (n *Node) Box() (geom.Rect, bool) { return n.box, true }

// Scroll returns the node's own scroll offset.
func (n *Node) Scroll() geom.Scroll { return n.scroll }

// Children returns the child nodes.
func (n *Node) Children() []*Node { return n.children }

// Scrollable reports whether the node clips its content.
func (n *Node) Scrollable() bool { return region.Scrollable(n.overflow) }

// content returns the union of every descendant box.
func (n *Node) content() geom.Rect {
	var r geom.Rect
	for _, c := range n.children {
		r = r.Union(c.box).Union(c.content())
	}
	return r
}

// Binding is a connector endpoint declared in the scene.
type Binding struct {
	Key  string
	From bool
	Node *Node
}

// Scene is an in-memory layout tree. It is not safe for concurrent use;
// the overlay session serializes access.
type Scene struct {
	viewport geom.Rect
	window   geom.Scroll
	root     *Node
	nodes    map[string]*Node
	order    []*Node

	nextID  int
	scrolls []scrollListener
	resizes []resizeObserver
}

type scrollListener struct {
	id     int
	target region.Node
	fn     func()
}

type resizeObserver struct {
	id    int
	nodes []region.Node
	fn    func()
}

var _ region.Host = (*Scene)(nil)

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a scene from YAML.
func Parse(data []byte) (*Scene, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if f.Viewport.IsEmpty() {
		return nil, fmt.Errorf("%w: viewport must have a positive size", ErrInvalid)
	}

	s := &Scene{
		viewport: f.Viewport,
		window:   f.WindowScroll,
		root:     &Node{ID: "", overflow: "visible"},
		nodes:    make(map[string]*Node),
	}
	for _, fn := range f.Nodes {
		if err := s.add(s.root, fn); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scene) add(parent *Node, fn fileNode) error {
	if fn.ID == "" {
		return fmt.Errorf("%w: node without id under %q", ErrInvalid, parent.ID)
	}
	if _, dup := s.nodes[fn.ID]; dup {
		return fmt.Errorf("%w: duplicate node id %q", ErrInvalid, fn.ID)
	}
	if fn.Box.W < 0 || fn.Box.H < 0 {
		return fmt.Errorf("%w: node %q has a negative size", ErrInvalid, fn.ID)
	}
	n := &Node{
		ID:       fn.ID,
		Label:    fn.Label,
		From:     fn.From,
		To:       fn.To,
		box:      fn.Box,
		overflow: fn.Overflow,
		scroll:   fn.Scroll,
		parent:   parent,
	}
	if n.overflow == "" {
		n.overflow = "visible"
	}
	parent.children = append(parent.children, n)
	s.nodes[n.ID] = n
	s.order = append(s.order, n)
	for _, c := range fn.Children {
		if err := s.add(n, c); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the synthetic scene root.
func (s *Scene) Root() region.Node { return s.root }

// Viewport returns the visible window area.
func (s *Scene) Viewport() geom.Rect { return s.viewport }

// WindowScroll returns the window scroll offset.
func (s *Scene) WindowScroll() geom.Scroll { return s.window }

// Node looks up a node by id.
func (s *Scene) Node(id string) (*Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return n, nil
}

// Nodes returns every node in document order.
func (s *Scene) Nodes() []*Node {
	return slices.Clone(s.order)
}

// Bindings returns every connector endpoint in document order.
func (s *Scene) Bindings() []Binding {
	var out []Binding
	for _, n := range s.order {
		if n.From != "" {
			out = append(out, Binding{Key: n.From, From: true, Node: n})
		}
		if n.To != "" {
			out = append(out, Binding{Key: n.To, Node: n})
		}
	}
	return out
}

// ScrollContainers returns nodes that clip their content, in document order.
func (s *Scene) ScrollContainers() []*Node {
	var out []*Node
	for _, n := range s.order {
		if n.Scrollable() {
			out = append(out, n)
		}
	}
	return out
}

// VisibleBox returns where a node currently appears: its box offset by the
// scroll of every ancestor and the window.
func (s *Scene) VisibleBox(n *Node) geom.Rect {
	total := s.window
	for p := n.parent; p != nil; p = p.parent {
		total = total.Add(p.scroll)
	}
	return n.box.Offset(total)
}

// ClipRect returns the area a node is clipped to on screen: the
// intersection of its scrollable ancestors' visible boxes and the viewport.
func (s *Scene) ClipRect(n *Node) geom.Rect {
	clip := s.viewport
	for p := n.parent; p != nil && p != s.root; p = p.parent {
		if p.Scrollable() {
			clip = intersect(clip, s.VisibleBox(p))
		}
	}
	return clip
}

func intersect(a, b geom.Rect) geom.Rect {
	x := max(a.X, b.X)
	y := max(a.Y, b.Y)
	right := min(a.Right(), b.Right())
	bottom := min(a.Bottom(), b.Bottom())
	if right <= x || bottom <= y {
		return geom.Rect{X: x, Y: y}
	}
	return geom.Rect{X: x, Y: y, W: right - x, H: bottom - y}
}
