package connector

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/sanity-io/assist-sub000/internal/geom"
	"github.com/sanity-io/assist-sub000/internal/logging"
)

func rects(bounds, element geom.Rect) RegionRects {
	return RegionRects{Bounds: &bounds, Element: &element}
}

var (
	fromRects = rects(geom.NewRect(0, 0, 100, 300), geom.NewRect(0, 100, 50, 20))
	toRects   = rects(geom.NewRect(200, 0, 100, 300), geom.NewRect(200, 100, 50, 20))
)

// recorder collects every emission of a registry.
type recorder[P any] struct {
	calls [][]Connector[P]
}

func (r *recorder[P]) observe(list []Connector[P]) {
	r.calls = append(r.calls, list)
}

func (r *recorder[P]) last() []Connector[P] {
	return r.calls[len(r.calls)-1]
}

func keys[P any](list []Connector[P]) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Key)
	}
	return out
}

func TestRegistry_MatchesPairs(t *testing.T) {
	reg := NewRegistry[string]()
	rec := &recorder[string]{}
	reg.Subscribe(rec.observe)

	unFrom := reg.RegisterFrom("a", "field")
	reg.RegisterTo("a", "panel")
	reg.UpdateFromRects("a", fromRects)
	reg.UpdateToRects("a", toRects)

	list := rec.last()
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Key)
	assert.Equal(t, *fromRects.Element, list[0].From.Element)
	assert.Equal(t, *toRects.Bounds, list[0].To.Bounds)

	unFrom()
	assert.Empty(t, rec.last())
	assert.Empty(t, reg.Connectors())
}

func TestRegistry_OneSidedRegistrationNeverEmits(t *testing.T) {
	reg := NewRegistry[struct{}]()
	reg.RegisterFrom("x", struct{}{})
	reg.UpdateFromRects("x", fromRects)

	rec := &recorder[struct{}]{}
	reg.Subscribe(rec.observe)

	require.Len(t, rec.calls, 1)
	assert.NotNil(t, rec.calls[0])
	assert.Empty(t, rec.calls[0])
}

func TestRegistry_RecomputesOnlyWhenOppositeSideActive(t *testing.T) {
	reg := NewRegistry[int]()
	rec := &recorder[int]{}
	reg.Subscribe(rec.observe)

	reg.RegisterFrom("a", 0)
	reg.UpdateFromRects("a", fromRects)
	reg.UpdateFromRects("a", fromRects)
	assert.Len(t, rec.calls, 1, "updates without a counterpart must not emit")

	reg.RegisterTo("a", 0)
	reg.UpdateToRects("a", toRects)
	assert.Len(t, rec.calls, 2)
	assert.Len(t, rec.last(), 1)

	reg.UpdateFromRects("a", fromRects)
	assert.Len(t, rec.calls, 3)
}

func TestRegistry_NilRectsExcludeConnector(t *testing.T) {
	type tc struct {
		from RegionRects
		to   RegionRects
		want int
	}

	bounds := geom.NewRect(0, 0, 10, 10)
	tests := map[string]tc{
		"both measured":       {from: fromRects, to: toRects, want: 1},
		"from bounds missing": {from: RegionRects{Element: fromRects.Element}, to: toRects},
		"to element missing":  {from: fromRects, to: RegionRects{Bounds: &bounds}},
		"nothing measured":    {},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry[int]()
			reg.RegisterFrom("k", 1)
			reg.RegisterTo("k", 2)
			reg.UpdateFromRects("k", tt.from)
			reg.UpdateToRects("k", tt.to)
			assert.Len(t, reg.Connectors(), tt.want)
		})
	}
}

func TestRegistry_EachSideKeepsItsOwnPayload(t *testing.T) {
	reg := NewRegistry[string]()
	reg.RegisterFrom("title", "form field")
	reg.RegisterTo("title", "inspector")
	reg.UpdateFromRects("title", fromRects)
	reg.UpdateToRects("title", toRects)

	list := reg.Connectors()
	require.Len(t, list, 1)
	assert.Equal(t, "form field", list[0].From.Payload)
	assert.Equal(t, "inspector", list[0].To.Payload)
}

func TestRegistry_OrderFollowsFromRegistration(t *testing.T) {
	reg := NewRegistry[int]()
	for _, k := range []string{"c", "a", "b"} {
		reg.RegisterFrom(k, 0)
	}
	for _, k := range []string{"a", "b", "c"} {
		reg.RegisterTo(k, 0)
		reg.UpdateToRects(k, toRects)
	}
	for _, k := range []string{"b", "a", "c"} {
		reg.UpdateFromRects(k, fromRects)
	}

	assert.Equal(t, []string{"c", "a", "b"}, keys(reg.Connectors()))
}

func TestRegistry_DuplicateRegistrations(t *testing.T) {
	reg := NewRegistry[int]()
	first := reg.RegisterFrom("a", 1)
	second := reg.RegisterFrom("a", 2)
	reg.RegisterTo("a", 0)
	reg.UpdateFromRects("a", fromRects)
	reg.UpdateToRects("a", toRects)

	require.Equal(t, []string{"a"}, keys(reg.Connectors()), "duplicate key emitted once")

	first()
	first()
	assert.Equal(t, []string{"a"}, keys(reg.Connectors()), "remaining registration keeps the connector")

	second()
	assert.Empty(t, reg.Connectors())

	// Re-registering starts from scratch: no rects survive the last removal.
	reg.RegisterFrom("a", 3)
	reg.UpdateToRects("a", toRects)
	assert.Empty(t, reg.Connectors())
}

func TestRegistry_UnregisterToRemovesConnector(t *testing.T) {
	reg := NewRegistry[int]()
	rec := &recorder[int]{}
	reg.Subscribe(rec.observe)

	reg.RegisterFrom("a", 0)
	unTo := reg.RegisterTo("a", 0)
	reg.UpdateFromRects("a", fromRects)
	reg.UpdateToRects("a", toRects)
	require.Len(t, rec.last(), 1)

	unTo()
	assert.Empty(t, rec.last())
}

func TestRegistry_UnsubscribeDuringNotification(t *testing.T) {
	reg := NewRegistry[int]()

	var secondCalls int
	var unsubscribeSecond Unsubscribe
	var firstCalls int
	var unsubscribeFirst Unsubscribe
	unsubscribeFirst = reg.Subscribe(func([]Connector[int]) {
		firstCalls++
		if firstCalls == 2 {
			unsubscribeFirst()
			unsubscribeSecond()
		}
	})
	unsubscribeSecond = reg.Subscribe(func([]Connector[int]) {
		secondCalls++
	})
	thirdCalls := 0
	reg.Subscribe(func([]Connector[int]) {
		thirdCalls++
	})

	reg.RegisterFrom("a", 0)
	reg.RegisterTo("a", 0)
	reg.UpdateFromRects("a", fromRects)
	reg.UpdateToRects("a", toRects)

	assert.Equal(t, 2, firstCalls)
	assert.Equal(t, 1, secondCalls, "removed during the pass, so skipped")
	assert.Equal(t, 3, thirdCalls)
}

func TestRegistry_ObserverMayCallBack(t *testing.T) {
	reg := NewRegistry[int]()
	var seen int
	reg.Subscribe(func(list []Connector[int]) {
		seen = len(reg.Connectors())
	})

	reg.RegisterFrom("a", 0)
	reg.RegisterTo("a", 0)
	reg.UpdateFromRects("a", fromRects)
	reg.UpdateToRects("a", toRects)

	assert.Equal(t, 1, seen)
}

func TestRegistry_CallBackIsDeliveredAfterObserverReturns(t *testing.T) {
	reg := NewRegistry[int]()
	reg.RegisterFrom("a", 0)
	reg.RegisterTo("a", 0)
	reg.UpdateFromRects("a", fromRects)

	var (
		depth, maxDepth int
		lens            []int
	)
	reg.Subscribe(func(list []Connector[int]) {
		depth++
		maxDepth = max(maxDepth, depth)
		lens = append(lens, len(list))
		if len(list) == 1 && len(lens) == 2 {
			reg.RegisterFrom("b", 0)
			reg.RegisterTo("b", 0)
			reg.UpdateFromRects("b", fromRects)
			reg.UpdateToRects("b", toRects)
		}
		depth--
	})
	reg.UpdateToRects("a", toRects)

	assert.Equal(t, 1, maxDepth)
	assert.Equal(t, []int{0, 1, 1, 2}, lens)
	assert.Len(t, reg.Connectors(), 2)
}

func TestRegistry_ConcurrentUpdatesDeliverInOrder(t *testing.T) {
	reg := NewRegistry[int]()

	var lens []int
	reg.Subscribe(func(list []Connector[int]) {
		lens = append(lens, len(list))
	})

	const workers = 16
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			reg.RegisterFrom(key, i)
			reg.RegisterTo(key, i)
			reg.UpdateFromRects(key, fromRects)
			reg.UpdateToRects(key, toRects)
		}()
	}
	wg.Wait()

	require.NotEmpty(t, lens)
	assert.IsNonDecreasing(t, lens)
	assert.Equal(t, workers, lens[len(lens)-1])
	assert.Len(t, reg.Connectors(), workers)
}

func TestRegistry_Logs(t *testing.T) {
	tl := logging.NewTestLogger()
	reg := NewRegistry[int](WithLogger(tl.Logger))

	un := reg.RegisterTo("title", 0)
	un()

	tl.AssertLogged(t, zapcore.DebugLevel, "connector registered")
	tl.AssertField(t, "connector unregistered", "key", "title")
}
