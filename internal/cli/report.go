package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Garsondee/portfolio-fx/internal/headless"
)

// errInvariants is returned when a report run broke an effect invariant.
var errInvariants = errors.New("invariants violated")

type reportOpts struct {
	config   string
	runs     int
	frames   int
	seedBase int64
	seedStep int64
}

func (c *CLI) reportCommand() *cobra.Command {
	var opts reportOpts
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the effects headlessly and check their invariants",
		Long:  `Run the landing scenario once per seed with a pointer orbiting the heading. Each run checks that particles stay in bounds and keep their population, that the reveal never regresses and completes, and that every glyph is drawn. Exits non-zero when any run breaks an invariant.`,
		Example: `  fx report --runs 20 --frames 600
  fx report -c fx.toml --seed-base 1 --seed-step 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}
	addConfigFlag(cmd, &opts.config)
	cmd.Flags().IntVar(&opts.runs, "runs", 5, "number of seeded runs")
	cmd.Flags().IntVar(&opts.frames, "frames", 600, "frames per run")
	cmd.Flags().Int64Var(&opts.seedBase, "seed-base", 42, "seed of the first run")
	cmd.Flags().Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	return cmd
}

func runReport(cmd *cobra.Command, opts reportOpts) error {
	if opts.runs <= 0 {
		return fmt.Errorf("--runs must be > 0, got %d", opts.runs)
	}
	if opts.frames <= 0 {
		return fmt.Errorf("--frames must be > 0, got %d", opts.frames)
	}
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg, err := loadConfig(logger, opts.config)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	runs, err := headless.RunSeeds(ctx, headless.Landing(cfg), opts.runs, opts.frames, opts.seedBase, opts.seedStep)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Ran %d seeds of %s frames", len(runs), humanize.Comma(int64(opts.frames))))

	agg := headless.Summarize(runs)
	printReport(cmd.OutOrStdout(), opts, runs, agg)
	if !agg.Clean() {
		return errInvariants
	}
	return nil
}

func printReport(w io.Writer, opts reportOpts, runs []headless.Stats, agg headless.Aggregate) {
	fmt.Fprintln(w, styleTitle.Render("Headless Effects Report"))
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("runs=%d frames=%d seed_base=%d seed_step=%d", opts.runs, opts.frames, opts.seedBase, opts.seedStep)))
	fmt.Fprintln(w)
	for i, r := range runs {
		fmt.Fprintln(w, runLine(i+1, r))
	}
	fmt.Fprintln(w)

	const width = 14
	complete := styleWarning.Render("never")
	if agg.Runs > agg.Incomplete {
		complete = styleNumber.Render(fmt.Sprintf("%d", agg.CompleteMin)) +
			styleDim.Render(" / ") + styleNumber.Render(humanize.FtoaWithDigits(agg.CompleteMean, 1)) +
			styleDim.Render(" / ") + styleNumber.Render(fmt.Sprintf("%d", agg.CompleteMax))
	}
	fmt.Fprintln(w, field("complete", width, complete+styleDim.Render(" min/mean/max frame")))
	fmt.Fprintln(w, field("incomplete", width, countValue(agg.Incomplete)))
	fmt.Fprintln(w, field("out of bounds", width, countValue(agg.OutOfBounds)))
	fmt.Fprintln(w, field("population", width, countValue(agg.PopulationChanges)))
	fmt.Fprintln(w, field("regressions", width, countValue(agg.Regressions)))
	fmt.Fprintln(w, field("glyph errors", width, countValue(agg.GlyphErrors)))
	fmt.Fprintln(w, field("links/frame", width, styleValue.Render(humanize.FtoaWithDigits(agg.MeanLinks, 1))))
	fmt.Fprintln(w, field("hover changes", width, styleValue.Render(humanize.FtoaWithDigits(agg.MeanHoverChanges, 1))))
	fmt.Fprintln(w)
	if agg.Clean() {
		fmt.Fprintln(w, styleSuccess.Render(iconSuccess+" all invariants held"))
	} else {
		fmt.Fprintln(w, styleError.Render(iconError+" invariants violated"))
	}
}

func runLine(n int, r headless.Stats) string {
	icon := styleSuccess.Render(iconSuccess)
	if r.OutOfBounds+r.PopulationChanges+r.Regressions+r.GlyphErrors > 0 {
		icon = styleError.Render(iconError)
	}
	done := styleWarning.Render("incomplete")
	if r.CompleteTick >= 0 {
		done = fmt.Sprintf("complete@%d", r.CompleteTick)
	}
	return fmt.Sprintf("%s run %02d seed=%d particles=%d links=%s %s hover=%d",
		icon, n, r.Seed, r.Particles, humanize.FtoaWithDigits(r.MeanLinks(), 1), done, r.HoverChanges)
}

func countValue(n int) string {
	if n == 0 {
		return styleSuccess.Render("0")
	}
	return styleError.Render(humanize.Comma(int64(n)))
}
