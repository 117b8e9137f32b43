package overlay

import (
	"go.uber.org/zap"

	"github.com/sanity-io/assist-sub000/internal/connector"
	"github.com/sanity-io/assist-sub000/internal/scene"
)

// BindScene binds every connector endpoint declared in sc, using the scene
// node as payload.
func BindScene(s *Session[*scene.Node], sc *scene.Scene) {
	for _, b := range sc.Bindings() {
		side := connector.To
		if b.From {
			side = connector.From
		}
		s.Bind(side, b.Key, b.Node, b.Node)
	}
}

// NewSceneSession creates a session over sc with all its bindings in place.
func NewSceneSession(sc *scene.Scene, opts connector.Options, logger *zap.Logger) *Session[*scene.Node] {
	s := NewSession[*scene.Node](sc, opts, logger)
	BindScene(s, sc)
	return s
}
