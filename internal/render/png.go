package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/sanity-io/assist-sub000/internal/connector"
	"github.com/sanity-io/assist-sub000/internal/scene"
)

var parseMono = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomono.TTF)
})

// PNG encodes the scene and frame as a PNG image.
func PNG(w io.Writer, sc *scene.Scene, frame Frame, theme Theme) error {
	dc, err := drawImage(sc, frame, theme)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes the scene and frame to a PNG file.
func SavePNG(path string, sc *scene.Scene, frame Frame, theme Theme) error {
	dc, err := drawImage(sc, frame, theme)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save png %s: %w", path, err)
	}
	return nil
}

func drawImage(sc *scene.Scene, frame Frame, theme Theme) (*gg.Context, error) {
	width, height := theme.imageSize(sc)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size %dx%d is empty", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetHexColor(theme.Background)
	dc.Clear()

	ttf, err := parseMono()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    theme.FontSize * theme.Scale,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, n := range sc.Nodes() {
		drawNodePNG(dc, sc, n, theme)
	}
	dc.SetHexColor(theme.Stroke)
	dc.SetLineWidth(theme.StrokeWidth * theme.Scale)
	for _, it := range frame.Items {
		drawCommandsPNG(dc, sc, theme, it.Path.Commands)
		for _, a := range it.Path.Arrows {
			drawCommandsPNG(dc, sc, theme, a.Commands)
		}
	}
	return dc, nil
}

func drawNodePNG(dc *gg.Context, sc *scene.Scene, n *scene.Node, theme Theme) {
	clip := sc.ClipRect(n)
	cx, cy := theme.project(sc, clip.X, clip.Y)
	dc.DrawRectangle(cx, cy, clip.W*theme.Scale, clip.H*theme.Scale)
	dc.Clip()
	defer dc.ResetClip()

	box := sc.VisibleBox(n)
	x, y := theme.project(sc, box.X, box.Y)
	dc.SetHexColor(theme.Box)
	dc.SetLineWidth(theme.Scale)
	dc.DrawRectangle(x, y, box.W*theme.Scale, box.H*theme.Scale)
	dc.Stroke()

	if n.Label == "" {
		return
	}
	dc.SetHexColor(theme.Text)
	pad := theme.FontSize * theme.Scale / 2
	dc.DrawString(n.Label, x+pad, y+pad+theme.FontSize*theme.Scale)
}

func drawCommandsPNG(dc *gg.Context, sc *scene.Scene, theme Theme, cmds []connector.Command) {
	if len(cmds) == 0 {
		return
	}
	for _, c := range cmds {
		switch c.Op {
		case connector.MoveTo:
			x, y := theme.project(sc, c.Points[0].X, c.Points[0].Y)
			dc.MoveTo(x, y)
		case connector.LineTo:
			x, y := theme.project(sc, c.Points[0].X, c.Points[0].Y)
			dc.LineTo(x, y)
		case connector.QuadTo:
			x1, y1 := theme.project(sc, c.Points[0].X, c.Points[0].Y)
			x2, y2 := theme.project(sc, c.Points[1].X, c.Points[1].Y)
			dc.QuadraticTo(x1, y1, x2, y2)
		}
	}
	dc.Stroke()
}
