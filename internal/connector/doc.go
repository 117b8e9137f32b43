// Package connector pairs "from" and "to" regions by key and turns each pair
// into drawable connector geometry.
//
// The pipeline has three stages:
//
//   - [Registry] matches registrations from both sides and emits the live
//     list of [Connector] values whenever rects change.
//   - [Solve] computes one anchor point per side, aligning the two anchors
//     where possible and clamping each into its own visible bounds.
//   - [Render] converts the anchors into a rounded [Path] plus arrow glyphs
//     for anchors whose element is scrolled out of view.
//
// Solve and Render are pure functions of their inputs and safe to call from
// any goroutine. Registry serializes its own state.
package connector
