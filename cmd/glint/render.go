package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/glint/pkg/log"
)

var logger = log.New("glint")

func newRenderCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render one frame to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.loadScene(cmd, cfg.Width, cfg.Height)
			if err != nil {
				return err
			}

			r := cfg.renderer(nil)
			fb, err := r.Render(s, nil)
			if err != nil {
				return err
			}
			if err := fb.SavePNG(cfg.Out); err != nil {
				return fmt.Errorf("save %s: %w", cfg.Out, err)
			}

			stats := r.LastStats()
			logger.Infof("wrote %s", cfg.Out)
			fmt.Fprintf(cmd.OutOrStdout(), "rendered %dx%d in %v (%d workers)\n",
				s.Width, s.Height, stats.Duration, stats.Workers)
			return nil
		},
	}
}
