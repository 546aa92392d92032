package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/glint/pkg/anim"
	"github.com/taigrr/glint/pkg/math3d"
	"github.com/taigrr/glint/pkg/output"
	"github.com/taigrr/glint/pkg/render"
)

func newAnimateCmd(cfg *config) *cobra.Command {
	var (
		frames int
		dir    string
		step   float64
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Render a sequence of frames while the camera drifts",
		Long: `animate renders --frames passes, moving the camera by --step along Z
between passes. Frames are written as result<n>.png into --dir and, when
GLINT_S3_BUCKET is set, uploaded to S3.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1, got %d", frames)
			}

			s, err := cfg.loadScene(cmd, cfg.Width, cfg.Height)
			if err != nil {
				return err
			}

			sink, err := frameSink(cfg, dir, upload)
			if err != nil {
				return err
			}

			animator := anim.NewAnimator(&anim.Dolly{Delta: math3d.V3(0, 0, step)})
			r := cfg.renderer(nil)
			ctx := cmd.Context()
			start := time.Now()

			var fb *render.Framebuffer
			for n := range frames {
				if err := ctx.Err(); err != nil {
					return err
				}
				if fb, err = r.Render(s, fb); err != nil {
					return fmt.Errorf("frame %d: %w", n, err)
				}
				if err := sink.WriteFrame(ctx, n, fb.ToImage()); err != nil {
					return err
				}
				logger.Debugf("frame %d in %v", n, r.LastStats().Duration)
				animator.Step(s)
			}

			elapsed := time.Since(start)
			fmt.Fprintf(cmd.OutOrStdout(), "rendered %d frames in %v (%v/frame)\n",
				frames, elapsed, elapsed/time.Duration(frames))
			return nil
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", 10, "number of frames")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory for frame PNGs")
	cmd.Flags().Float64Var(&step, "step", anim.DollyStep.Z, "camera z movement per frame")
	cmd.Flags().BoolVar(&upload, "upload", true, "upload frames to S3 when GLINT_S3_BUCKET is set")
	return cmd
}

// frameSink writes to dir and, if configured, to S3 as well.
func frameSink(cfg *config, dir string, upload bool) (output.Sink, error) {
	local, err := output.NewDirSink(dir)
	if err != nil {
		return nil, err
	}
	if !upload || !cfg.S3.Enabled() {
		return local, nil
	}

	client, err := output.NewS3Client(cfg.S3)
	if err != nil {
		return nil, err
	}
	logger.Infof("uploading frames to s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
	return output.MultiSink{local, output.NewS3Sink(client, cfg.S3)}, nil
}
