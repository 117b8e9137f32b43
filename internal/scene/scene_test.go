package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanity-io/assist-sub000/internal/geom"
	"github.com/sanity-io/assist-sub000/internal/region"
)

func loadReview(t *testing.T) *Scene {
	t.Helper()
	s, err := Load(filepath.Join("testdata", "review.yaml"))
	require.NoError(t, err)
	return s
}

func mustNode(t *testing.T, s *Scene, id string) *Node {
	t.Helper()
	n, err := s.Node(id)
	require.NoError(t, err)
	return n
}

func TestLoad(t *testing.T) {
	s := loadReview(t)

	assert.Equal(t, geom.NewRect(0, 0, 120, 40), s.Viewport())
	assert.Len(t, s.Nodes(), 6)

	var keys []string
	for _, b := range s.Bindings() {
		side := "to"
		if b.From {
			side = "from"
		}
		keys = append(keys, side+":"+b.Key+"@"+b.Node.ID)
	}
	assert.Equal(t, []string{
		"from:title@title",
		"from:body@body",
		"to:title@title-note",
		"to:body@body-note",
	}, keys)

	var containers []string
	for _, n := range s.ScrollContainers() {
		containers = append(containers, n.ID)
	}
	assert.Equal(t, []string{"form", "panel"}, containers)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		yaml string
		want error
	}{
		"empty viewport": {
			yaml: "nodes: []",
			want: ErrInvalid,
		},
		"missing id": {
			yaml: "viewport: {w: 10, h: 10}\nnodes:\n  - label: x",
			want: ErrInvalid,
		},
		"duplicate id": {
			yaml: "viewport: {w: 10, h: 10}\nnodes:\n  - id: a\n  - id: a",
			want: ErrInvalid,
		},
		"negative size": {
			yaml: "viewport: {w: 10, h: 10}\nnodes:\n  - id: a\n    box: {w: -1, h: 1}",
			want: ErrInvalid,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("viewport: ["))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse scene")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestNodeLookup(t *testing.T) {
	s := loadReview(t)

	_, err := s.Node("missing")
	assert.ErrorIs(t, err, ErrUnknownNode)

	title := mustNode(t, s, "title")
	assert.Equal(t, "Title", title.Label)
	form := mustNode(t, s, "form")
	assert.Equal(t, region.Node(form), title.Parent())
	assert.Equal(t, s.Root(), form.Parent())
	assert.Nil(t, s.Root().Parent())
	assert.Equal(t, "visible", title.Overflow())
}

func TestScrollBy(t *testing.T) {
	s := loadReview(t)
	form := mustNode(t, s, "form")

	fired := 0
	remove := s.OnScroll(form, func() { fired++ })
	window := 0
	s.OnScroll(nil, func() { window++ })

	assert.True(t, s.ScrollBy(form, 0, 10))
	assert.Equal(t, geom.Scroll{Y: 10}, form.Scroll())
	assert.Equal(t, 1, fired)

	// Content ends at y=63, the container at y=40.
	assert.True(t, s.ScrollBy(form, 0, 100))
	assert.Equal(t, geom.Scroll{Y: 23}, form.Scroll())
	assert.False(t, s.ScrollBy(form, 0, 1))
	assert.False(t, s.ScrollBy(form, 5, 0), "content is narrower than the container")
	assert.Equal(t, 2, fired)

	assert.True(t, s.ScrollBy(form, 0, -100))
	assert.Equal(t, geom.Scroll{}, form.Scroll())
	assert.Equal(t, 0, window)

	remove()
	s.ScrollBy(form, 0, 5)
	assert.Equal(t, 3, fired)
}

func TestScrollWindowBy(t *testing.T) {
	s := loadReview(t)
	fired := 0
	s.OnScroll(nil, func() { fired++ })

	assert.True(t, s.ScrollWindowBy(0, 4))
	assert.Equal(t, geom.Scroll{Y: 4}, s.WindowScroll())
	assert.False(t, s.ScrollWindowBy(0, 0))
	assert.True(t, s.ScrollWindowBy(0, -10))
	assert.Equal(t, geom.Scroll{}, s.WindowScroll())
	assert.False(t, s.ScrollWindowBy(0, -1))
	assert.Equal(t, 2, fired)
}

func TestResize(t *testing.T) {
	s := loadReview(t)
	title := mustNode(t, s, "title")
	body := mustNode(t, s, "body")

	fired := 0
	disconnect := s.ObserveResize([]region.Node{title}, func() { fired++ })

	s.Resize(body, 10, 10)
	assert.Equal(t, 0, fired)
	s.Resize(title, 40, 6)
	assert.Equal(t, 1, fired)
	s.Resize(title, 40, 6)
	assert.Equal(t, 1, fired, "unchanged size does not notify")

	s.SetViewport(geom.NewRect(0, 0, 100, 30))
	assert.Equal(t, 2, fired)

	disconnect()
	assert.Equal(t, 0, s.Listeners())
}

func TestTrackerOverScene(t *testing.T) {
	s := loadReview(t)
	form := mustNode(t, s, "form")

	var got region.Rects
	tr := region.NewTracker(s, func(r region.Rects) { got = r })
	tr.Attach(mustNode(t, s, "title"))
	require.NotNil(t, got.Element)
	require.NotNil(t, got.Bounds)
	assert.Equal(t, geom.NewRect(2, 4, 40, 3), *got.Element)
	assert.Equal(t, geom.NewRect(0, 0, 60, 40), *got.Bounds)

	s.ScrollBy(form, 0, 10)
	assert.Equal(t, geom.NewRect(2, -6, 40, 3), *got.Element)
	assert.Equal(t, geom.NewRect(0, 0, 60, 40), *got.Bounds, "bounds ignore the container's own scroll")

	s.ScrollWindowBy(0, 5)
	assert.Equal(t, geom.NewRect(2, -11, 40, 3), *got.Element)
	assert.Equal(t, geom.NewRect(0, -5, 60, 40), *got.Bounds)

	tr.Detach()
	assert.Equal(t, 0, s.Listeners())
}

func TestVisibleBoxAndClip(t *testing.T) {
	s := loadReview(t)
	form := mustNode(t, s, "form")
	body := mustNode(t, s, "body")

	assert.Equal(t, geom.NewRect(2, 60, 40, 3), s.VisibleBox(body))
	s.ScrollBy(form, 0, 23)
	assert.Equal(t, geom.NewRect(2, 37, 40, 3), s.VisibleBox(body))
	assert.Equal(t, geom.NewRect(0, 0, 60, 40), s.ClipRect(body))
	assert.Equal(t, s.Viewport(), s.ClipRect(form))
}
