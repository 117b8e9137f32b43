package region

import (
	"go.uber.org/zap"

	"github.com/sanity-io/assist-sub000/internal/geom"
)

// Tracker follows one node. Element rects are offset by the scroll of every
// scroll parent plus the window; bounds rects by the same total minus the
// nearest container's own scroll, so bounds only move when something above
// the container scrolls.
//
// A Tracker is not safe for concurrent use. Hosts deliver events on the
// goroutine that owns the layout tree.
type Tracker struct {
	host     Host
	logger   *zap.Logger
	onChange func(Rects)

	node     Node
	parents  []Node
	teardown []func()
	rects    Rects
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the tracker logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTracker creates a detached tracker. onChange receives the rects after
// every measurement and may be nil.
func NewTracker(host Host, onChange func(Rects), opts ...Option) *Tracker {
	if host == nil {
		panic("region: nil host in NewTracker")
	}
	t := &Tracker{host: host, onChange: onChange, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Attach starts tracking n, detaching from any previous node first. It
// subscribes to window scroll, every scroll parent, and resizes of n and its
// scroll parents, then measures once.
func (t *Tracker) Attach(n Node) {
	t.Detach()
	if n == nil {
		return
	}

	t.node = n
	t.parents = ScrollParents(n, t.host.Root())

	t.teardown = append(t.teardown, t.host.OnScroll(nil, t.update))
	for _, p := range t.parents {
		t.teardown = append(t.teardown, t.host.OnScroll(p, t.update))
	}
	observed := make([]Node, 0, len(t.parents)+1)
	observed = append(observed, n)
	observed = append(observed, t.parents...)
	t.teardown = append(t.teardown, t.host.ObserveResize(observed, t.update))

	t.logger.Debug("region attached", zap.Int("scroll_parents", len(t.parents)))
	t.update()
}

// Detach removes every listener and clears the measured rects. It is a
// no-op when nothing is attached.
func (t *Tracker) Detach() {
	if t.node == nil {
		return
	}
	// Listeners go first so none can fire against cleared state.
	for _, remove := range t.teardown {
		remove()
	}
	t.teardown = nil
	t.node = nil
	t.parents = nil
	t.rects = Rects{}
	t.logger.Debug("region detached")
}

// Attached reports whether a node is being tracked.
func (t *Tracker) Attached() bool {
	return t.node != nil
}

// Rects returns the last measurement.
func (t *Tracker) Rects() Rects {
	return t.rects
}

// Container returns the nearest scroll parent, or nil when bounds fall back
// to the viewport.
func (t *Tracker) Container() Node {
	if len(t.parents) == 0 {
		return nil
	}
	return t.parents[0]
}

// NotifyLayoutChanged re-measures. Hosts call it for layout changes that are
// neither a scroll nor an observed resize.
func (t *Tracker) NotifyLayoutChanged() {
	t.update()
}

func (t *Tracker) update() {
	if t.node == nil {
		return
	}

	elementScroll := t.host.WindowScroll()
	for _, p := range t.parents {
		elementScroll = elementScroll.Add(p.Scroll())
	}

	var next Rects
	if container := t.Container(); container != nil {
		boundsScroll := elementScroll.Sub(container.Scroll())
		if box, ok := container.Box(); ok {
			b := box.Offset(boundsScroll)
			next.Bounds = &b
		}
	} else {
		vp := t.host.Viewport()
		next.Bounds = &vp
	}
	if box, ok := t.node.Box(); ok {
		e := box.Offset(elementScroll)
		next.Element = &e
	}

	t.rects = next
	if t.onChange != nil {
		t.onChange(next)
	}
}

// Equal reports whether two measurements hold the same rects.
func (r Rects) Equal(other Rects) bool {
	return rectEqual(r.Bounds, other.Bounds) && rectEqual(r.Element, other.Element)
}

func rectEqual(a, b *geom.Rect) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
