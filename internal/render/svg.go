package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sanity-io/assist-sub000/internal/geom"
	"github.com/sanity-io/assist-sub000/internal/scene"
)

// SVG writes the scene and frame as an SVG document. Connector paths keep
// scene coordinates; the viewBox maps them to output pixels.
func SVG(w io.Writer, sc *scene.Scene, frame Frame, theme Theme) error {
	bw := bufio.NewWriter(w)
	vp := sc.Viewport()
	width, height := theme.imageSize(sc)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%s %s %s %s">`+"\n",
		width, height,
		num(vp.X-theme.Padding), num(vp.Y-theme.Padding),
		num(vp.W+2*theme.Padding), num(vp.H+2*theme.Padding))
	fmt.Fprintf(bw, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(vp.X-theme.Padding), num(vp.Y-theme.Padding),
		num(vp.W+2*theme.Padding), num(vp.H+2*theme.Padding), theme.Background)

	for i, n := range sc.Nodes() {
		writeNodeSVG(bw, sc, n, i, theme)
	}

	fmt.Fprintf(bw, `<g fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round">`+"\n",
		theme.Stroke, num(theme.StrokeWidth))
	for _, it := range frame.Items {
		fmt.Fprintf(bw, `<path data-key="%s" d="%s"/>`+"\n", escape(it.Key), it.Path.D())
		for _, a := range it.Path.Arrows {
			fmt.Fprintf(bw, `<path data-key="%s" data-arrow="%s" d="%s"/>`+"\n", escape(it.Key), a.Direction, a.D())
		}
	}
	fmt.Fprint(bw, "</g>\n</svg>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

// SaveSVG writes the scene and frame to an SVG file.
func SaveSVG(path string, sc *scene.Scene, frame Frame, theme Theme) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create svg %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close svg %s: %w", path, cerr)
		}
	}()
	return SVG(f, sc, frame, theme)
}

func writeNodeSVG(w io.Writer, sc *scene.Scene, n *scene.Node, i int, theme Theme) {
	box := sc.VisibleBox(n)
	clip := sc.ClipRect(n)
	clipped := clip != sc.Viewport()
	if clipped {
		fmt.Fprintf(w, `<clipPath id="clip-%d">%s</clipPath>`+"\n", i, rectSVG(clip, ""))
		fmt.Fprintf(w, `<g clip-path="url(#clip-%d)">`+"\n", i)
	}
	fmt.Fprintln(w, rectSVG(box, fmt.Sprintf(` fill="none" stroke="%s" data-id="%s"`, theme.Box, escape(n.ID))))
	if n.Label != "" {
		fmt.Fprintf(w, `<text x="%s" y="%s" font-family="monospace" font-size="%s" fill="%s">%s</text>`+"\n",
			num(box.X+theme.FontSize/2), num(box.Y+theme.FontSize*1.5), num(theme.FontSize), theme.Text, escape(n.Label))
	}
	if clipped {
		fmt.Fprintln(w, "</g>")
	}
}

func rectSVG(r geom.Rect, attrs string) string {
	return fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"%s/>`, num(r.X), num(r.Y), num(r.W), num(r.H), attrs)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
