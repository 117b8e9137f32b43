package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanity-io/assist-sub000/internal/config"
	"github.com/sanity-io/assist-sub000/internal/overlay"
	"github.com/sanity-io/assist-sub000/internal/render"
	"github.com/sanity-io/assist-sub000/internal/scene"
)

type renderOptions struct {
	png   string
	svg   string
	watch bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render SCENE",
		Short: "Render a scene and its connectors to PNG and/or SVG",
		Long: `Render a scene and its connectors to image files.

Examples:
  # Write both formats
  connectors render review.yaml --png review.png --svg review.svg

  # Re-render whenever the scene file changes
  connectors render review.yaml --svg review.svg --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.png == "" && opts.svg == "" {
				return errors.New("at least one of --png or --svg is required")
			}
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runRender(cmd.Context(), args[0], cfg, opts, logger)
		},
	}
	cmd.Flags().StringVar(&opts.png, "png", "", "write a PNG image to this path")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "write an SVG document to this path")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-render when the scene file changes")
	return cmd
}

func runRender(ctx context.Context, path string, cfg config.Config, opts *renderOptions, logger *zap.Logger) error {
	sc, err := scene.Load(path)
	if err != nil {
		return err
	}
	if err := renderScene(ctx, sc, cfg, opts, logger); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	loop := overlay.NewLoop(8)
	w, err := scene.NewWatcher(path, func(sc *scene.Scene, err error) {
		loop.QueueUpdate(func() {
			if err != nil {
				logger.Warn("keeping previous render", zap.Error(err))
				return
			}
			if err := renderScene(ctx, sc, cfg, opts, logger); err != nil {
				logger.Error("render failed", zap.Error(err))
			}
		})
	}, scene.WithWatchLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()
	if err := w.Start(ctx); err != nil {
		return err
	}
	logger.Info("watching scene", zap.String("path", path))

	if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// renderScene writes every requested output concurrently. Renderers only
// read the scene and frame.
func renderScene(ctx context.Context, sc *scene.Scene, cfg config.Config, opts *renderOptions, logger *zap.Logger) error {
	s := overlay.NewSceneSession(sc, cfg.Options(), logger)
	frame := s.Frame()
	s.Close()

	theme := render.NewTheme(cfg)
	g, _ := errgroup.WithContext(ctx)
	if opts.png != "" {
		g.Go(func() error { return render.SavePNG(opts.png, sc, frame, theme) })
	}
	if opts.svg != "" {
		g.Go(func() error { return render.SaveSVG(opts.svg, sc, frame, theme) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	logger.Info("rendered scene",
		zap.Int("connectors", len(frame.Items)),
		zap.String("png", opts.png),
		zap.String("svg", opts.svg))
	return nil
}
