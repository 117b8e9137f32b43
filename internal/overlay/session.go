// Package overlay ties region trackers to a connector registry and turns
// every registry emission into a renderable frame.
package overlay

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanity-io/assist-sub000/internal/connector"
	"github.com/sanity-io/assist-sub000/internal/region"
)

// Item is one connector ready to draw.
type Item[P any] struct {
	Key  string
	From P
	To   P
	Line connector.Line
	Path connector.Path
}

// Frame is the full set of connectors after a registry recomputation.
type Frame[P any] struct {
	Items []Item[P]
}

// Session is one overlay: a registry plus the trackers feeding it.
//
// Bind, Close and host mutations must happen on a single goroutine. Hosts
// fed from several goroutines can serialize through a [Loop].
type Session[P any] struct {
	id       string
	host     region.Host
	opts     connector.Options
	logger   *zap.Logger
	registry *connector.Registry[P]

	// bindings holds the live release funcs by bind order.
	bindings    map[uint64]func()
	nextBinding uint64
}

// NewSession creates a session over host. It panics when host is nil.
func NewSession[P any](host region.Host, opts connector.Options, logger *zap.Logger) *Session[P] {
	if host == nil {
		panic("overlay: nil host in NewSession")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("session", id))
	s := &Session[P]{
		id:       id,
		host:     host,
		opts:     opts,
		logger:   logger,
		registry: connector.NewRegistry[P](connector.WithLogger(logger)),
		bindings: make(map[uint64]func()),
	}
	logger.Debug("overlay session created")
	return s
}

// ID returns the session id used in log fields.
func (s *Session[P]) ID() string { return s.id }

// Options returns the geometry options frames are computed with.
func (s *Session[P]) Options() connector.Options { return s.opts }

// Bind registers node as one side of the connector key and starts tracking
// it. The returned release detaches the tracker and unregisters the side; it
// is safe to call more than once.
func (s *Session[P]) Bind(side connector.Side, key string, node region.Node, payload P) func() {
	unregister := s.registry.Register(side, key, payload)
	tracker := region.NewTracker(s.host, func(r region.Rects) {
		s.registry.UpdateRects(side, key, connector.RegionRects(r))
	}, region.WithLogger(s.logger.With(zap.Stringer("side", side), zap.String("key", key))))
	tracker.Attach(node)

	s.nextBinding++
	id := s.nextBinding

	var once sync.Once
	release := func() {
		once.Do(func() {
			delete(s.bindings, id)
			tracker.Detach()
			unregister()
		})
	}
	s.bindings[id] = release
	return release
}

// Bindings returns the number of live bindings.
func (s *Session[P]) Bindings() int { return len(s.bindings) }

// Subscribe calls fn with the current frame and again after every change.
func (s *Session[P]) Subscribe(fn func(Frame[P])) connector.Unsubscribe {
	return s.registry.Subscribe(func(list []connector.Connector[P]) {
		fn(s.frame(list))
	})
}

// Frame computes the frame for the current connector list.
func (s *Session[P]) Frame() Frame[P] {
	return s.frame(s.registry.Connectors())
}

func (s *Session[P]) frame(list []connector.Connector[P]) Frame[P] {
	f := Frame[P]{Items: make([]Item[P], 0, len(list))}
	for _, c := range list {
		line := connector.Solve(s.opts, c.From.Region, c.To.Region)
		f.Items = append(f.Items, Item[P]{
			Key:  c.Key,
			From: c.From.Payload,
			To:   c.To.Payload,
			Line: line,
			Path: connector.Render(s.opts, line),
		})
	}
	return f
}

// Close releases every binding in reverse bind order.
func (s *Session[P]) Close() {
	ids := slices.Sorted(maps.Keys(s.bindings))
	for _, id := range slices.Backward(ids) {
		s.bindings[id]()
	}
}
