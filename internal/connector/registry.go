package connector

import (
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Unregister removes a registration. Calling it more than once is a no-op.
type Unregister func()

// Unsubscribe removes an observer. Calling it more than once is a no-op.
type Unsubscribe func()

// Registry matches "from" registrations to "to" registrations by key and
// emits the list of connectors whose both sides are measured.
//
// A Registry belongs to one overlay session. Its methods may be called from
// any goroutine. Lists reach observers in the order they were computed, one
// delivery at a time, and without the registry lock held, so an observer may
// call back into the registry. A call made while another goroutine is
// delivering returns at once and leaves its list to that goroutine; a call
// made from inside an observer is delivered after the observer returns.
type Registry[P any] struct {
	mu     sync.Mutex
	logger *zap.Logger

	// active holds registered keys per side in registration order. A key
	// appears once per live registration.
	active   [2][]string
	rects    [2]map[string]RegionRects
	payloads [2]map[string]P

	observers []*observer[P]
	current   []Connector[P]

	pending    []delivery[P]
	delivering bool
}

// delivery is one computed list and the observers due to receive it.
type delivery[P any] struct {
	list      []Connector[P]
	observers []*observer[P]
}

type observer[P any] struct {
	fn     func([]Connector[P])
	active atomic.Bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	logger *zap.Logger
}

// WithLogger sets the registry logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(c *registryConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry[P any](opts ...RegistryOption) *Registry[P] {
	cfg := registryConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Registry[P]{logger: cfg.logger}
	for _, side := range []Side{From, To} {
		r.rects[side] = make(map[string]RegionRects)
		r.payloads[side] = make(map[string]P)
	}
	return r
}

// RegisterFrom registers the source side of key.
func (r *Registry[P]) RegisterFrom(key string, payload P) Unregister {
	return r.Register(From, key, payload)
}

// RegisterTo registers the target side of key.
func (r *Registry[P]) RegisterTo(key string, payload P) Unregister {
	return r.Register(To, key, payload)
}

// Register adds a registration for one side of key and stores its payload.
// No connector is emitted until rects arrive for both sides.
func (r *Registry[P]) Register(side Side, key string, payload P) Unregister {
	r.mu.Lock()
	r.active[side] = append(r.active[side], key)
	r.payloads[side][key] = payload
	r.mu.Unlock()

	r.logger.Debug("connector registered", zap.Stringer("side", side), zap.String("key", key))

	var once sync.Once
	return func() {
		once.Do(func() { r.unregister(side, key) })
	}
}

func (r *Registry[P]) unregister(side Side, key string) {
	r.mu.Lock()
	keys := r.active[side]
	if i := slices.Index(keys, key); i >= 0 {
		r.active[side] = slices.Delete(keys, i, i+1)
	}
	// Another registration of the same key on this side keeps its state.
	if !slices.Contains(r.active[side], key) {
		delete(r.rects[side], key)
		delete(r.payloads[side], key)
	}
	r.recomputeLocked()
	r.mu.Unlock()

	r.logger.Debug("connector unregistered", zap.Stringer("side", side), zap.String("key", key))
	r.deliver()
}

// UpdateFromRects stores the source rects for key.
func (r *Registry[P]) UpdateFromRects(key string, rects RegionRects) {
	r.UpdateRects(From, key, rects)
}

// UpdateToRects stores the target rects for key.
func (r *Registry[P]) UpdateToRects(key string, rects RegionRects) {
	r.UpdateRects(To, key, rects)
}

// UpdateRects stores the rects for one side of key. The connector list is
// recomputed only when the opposite side holds an active registration.
func (r *Registry[P]) UpdateRects(side Side, key string, rects RegionRects) {
	r.mu.Lock()
	r.rects[side][key] = rects
	if !slices.Contains(r.active[side.Opposite()], key) {
		r.mu.Unlock()
		return
	}
	r.recomputeLocked()
	r.mu.Unlock()

	r.deliver()
}

// Subscribe registers fn to receive the connector list. fn is called once
// immediately with the current list and again after every recomputation.
// The slice passed to fn must not be modified.
func (r *Registry[P]) Subscribe(fn func([]Connector[P])) Unsubscribe {
	o := &observer[P]{fn: fn}
	o.active.Store(true)

	r.mu.Lock()
	r.observers = append(r.observers, o)
	list := r.current
	if list == nil {
		list = []Connector[P]{}
	}
	r.pending = append(r.pending, delivery[P]{list: list, observers: []*observer[P]{o}})
	r.mu.Unlock()

	r.deliver()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.active.Store(false)
			r.mu.Lock()
			r.observers = slices.DeleteFunc(r.observers, func(x *observer[P]) bool { return x == o })
			r.mu.Unlock()
		})
	}
}

// Connectors returns the most recently computed list.
func (r *Registry[P]) Connectors() []Connector[P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.current)
}

// recomputeLocked rebuilds the connector list and queues it for the current
// observers. Must be called with r.mu held.
func (r *Registry[P]) recomputeLocked() {
	list := make([]Connector[P], 0, len(r.active[From]))
	seen := make(map[string]struct{}, len(r.active[From]))
	for _, key := range r.active[From] {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if !slices.Contains(r.active[To], key) {
			continue
		}
		from, ok := r.rects[From][key].Measured()
		if !ok {
			continue
		}
		to, ok := r.rects[To][key].Measured()
		if !ok {
			continue
		}
		list = append(list, Connector[P]{
			Key:  key,
			From: Endpoint[P]{Region: from, Payload: r.payloads[From][key]},
			To:   Endpoint[P]{Region: to, Payload: r.payloads[To][key]},
		})
	}
	r.current = list
	r.pending = append(r.pending, delivery[P]{list: list, observers: slices.Clone(r.observers)})
}

// deliver drains the pending queue. Must be called without r.mu held.
func (r *Registry[P]) deliver() {
	r.mu.Lock()
	if r.delivering {
		r.mu.Unlock()
		return
	}
	r.delivering = true
	for len(r.pending) > 0 {
		d := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		for _, o := range d.observers {
			// Skip observers removed by an earlier callback.
			if o.active.Load() {
				o.fn(d.list)
			}
		}
		r.mu.Lock()
	}
	r.pending = nil
	r.delivering = false
	r.mu.Unlock()
}
