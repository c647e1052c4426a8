package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Garsondee/portfolio-fx/internal/snapshot"
)

type snapshotOpts struct {
	config string
	frames int
	every  int
	out    string
	fps    int
	seed   int64
	orbit  int
}

func (c *CLI) snapshotCommand() *cobra.Command {
	var opts snapshotOpts
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the effects to PNG frames",
		Long:  `Simulate the effects without a window and write composited PNG frames. With --orbit the pointer circles the heading so the hover states show up in the frames.`,
		Example: `  fx snapshot --frames 120 --every 30 --out frames
  fx snapshot -c fx.toml --frames 240 --orbit 120 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, opts)
		},
	}
	addConfigFlag(cmd, &opts.config)
	cmd.Flags().IntVar(&opts.frames, "frames", 120, "frames to simulate")
	cmd.Flags().IntVar(&opts.every, "every", 0, "write every Nth frame (0 writes only the last)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "frames", "output directory")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "simulated refresh rate (0 uses window.tps)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed for every effect (0 uses the config seeds)")
	cmd.Flags().IntVar(&opts.orbit, "orbit", 0, "orbit the pointer once every N frames (0 leaves it absent)")
	return cmd
}

func runSnapshot(cmd *cobra.Command, opts snapshotOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg, err := loadConfig(logger, opts.config)
	if err != nil {
		return err
	}

	var path snapshot.Path
	if opts.orbit > 0 {
		path = snapshot.Orbit(cfg.Window.Width, cfg.Window.Height, opts.orbit)
	}

	prog := newProgress(logger)
	res, err := snapshot.Render(ctx, snapshot.Options{
		Config: cfg,
		Frames: opts.frames,
		Every:  opts.every,
		OutDir: opts.out,
		FPS:    opts.fps,
		Seed:   opts.seed,
		Path:   path,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s frames", humanize.Comma(int64(res.Frames))))

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, styleTitle.Render("Snapshot"))
	fmt.Fprintln(w, field("files", 9, styleNumber.Render(fmt.Sprint(len(res.Files)))+styleDim.Render(" in "+opts.out)))
	fmt.Fprintln(w, field("size", 9, styleValue.Render(humanize.Bytes(uint64(res.Bytes)))))
	fmt.Fprintln(w, field("caption", 9, captionStatus(res.Caption, res.Revealed)))
	return nil
}

func captionStatus(caption string, revealed bool) string {
	if revealed {
		return styleSuccess.Render(iconSuccess+" ") + styleValue.Render(caption)
	}
	return styleWarning.Render("… ") + styleValue.Render(caption)
}
