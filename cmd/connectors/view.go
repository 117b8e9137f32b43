package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanity-io/assist-sub000/internal/scene"
	"github.com/sanity-io/assist-sub000/internal/tui"
)

func newViewCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view SCENE",
		Short: "Browse a scene and its connectors in the terminal",
		Long: `Open an interactive terminal view of a scene. Scroll containers with
h/j/k/l, export with e (PNG), v (SVG) or t (text). The scene reloads when
the file changes. Press ? for help.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			// The viewer owns the terminal, so logs go to a file or nowhere.
			if cfg.Logging.File == "" {
				logger = zap.NewNop()
			}
			defer func() { _ = logger.Sync() }()

			sc, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			m := tui.New(sc, args[0], cfg, tui.WithLogger(logger))
			defer m.Close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			w, err := scene.NewWatcher(args[0], func(sc *scene.Scene, err error) {
				p.Send(tui.SceneLoadedMsg{Scene: sc, Err: err})
			}, scene.WithWatchLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()
			if err := w.Start(cmd.Context()); err != nil {
				logger.Warn("scene reload disabled", zap.Error(err))
			}

			_, err = p.Run()
			return err
		},
	}
}
