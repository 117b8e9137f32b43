package connector

import "github.com/sanity-io/assist-sub000/internal/geom"

// Side identifies one end of a connector.
type Side int

const (
	// From is the source region (the form field).
	From Side = iota
	// To is the target region (the inspector panel).
	To
)

func (s Side) String() string {
	switch s {
	case From:
		return "from"
	case To:
		return "to"
	default:
		return "unknown"
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == From {
		return To
	}
	return From
}

// RegionRects is what a region tracker reports for one side. Either rect is
// nil until the tracker has measured it.
type RegionRects struct {
	Bounds  *geom.Rect
	Element *geom.Rect
}

// Measured returns the rects as a Region, or false while either is missing.
func (r RegionRects) Measured() (Region, bool) {
	if r.Bounds == nil || r.Element == nil {
		return Region{}, false
	}
	return Region{Bounds: *r.Bounds, Element: *r.Element}, true
}

// Region is a fully measured side: the visible clipping area and the
// tracked element's own box.
type Region struct {
	Bounds  geom.Rect
	Element geom.Rect
}

// Endpoint is one measured side of a connector plus its payload.
type Endpoint[P any] struct {
	Region
	Payload P
}

// Connector is a matched from/to pair sharing a key.
type Connector[P any] struct {
	Key  string
	From Endpoint[P]
	To   Endpoint[P]
}
