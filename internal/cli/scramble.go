package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Garsondee/portfolio-fx/internal/loop"
	"github.com/Garsondee/portfolio-fx/internal/scramble"
)

type scrambleOpts struct {
	config     string
	sequential bool
	direction  string
	speed      time.Duration
	iterations int
	chars      string
	original   bool
	seed       int64
	fps        int
}

func (c *CLI) scrambleCommand() *cobra.Command {
	var opts scrambleOpts
	cmd := &cobra.Command{
		Use:   "scramble [TEXT]",
		Short: "Preview the scramble reveal in the terminal",
		Long:  `Play the scramble reveal of TEXT in the terminal. Without TEXT the caption from the config is used. Press r to restart and q to quit.`,
		Example: `  fx scramble "ACCESS PORTFOLIO" --sequential --direction center
  fx scramble HELLO --speed 120ms --iterations 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScramble(cmd, args, opts)
		},
	}
	bindScrambleFlags(cmd, &opts)
	return cmd
}

func bindScrambleFlags(cmd *cobra.Command, opts *scrambleOpts) {
	addConfigFlag(cmd, &opts.config)
	cmd.Flags().BoolVar(&opts.sequential, "sequential", false, "resolve one position per tick")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "sequential order: forward, reverse or center")
	cmd.Flags().DurationVar(&opts.speed, "speed", 0, "interval between ticks")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "per-position tick cap in simultaneous mode")
	cmd.Flags().StringVar(&opts.chars, "chars", "", "scramble character pool")
	cmd.Flags().BoolVar(&opts.original, "original", false, "scramble with the text's own characters")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 uses the config seed)")
	cmd.Flags().IntVar(&opts.fps, "fps", 60, "terminal refresh rate")
}

// scrambleConfig overlays the flags the user set on the configured reveal.
func scrambleConfig(cmd *cobra.Command, base scramble.Config, opts scrambleOpts) (scramble.Config, error) {
	cfg := base
	cfg.Trigger = scramble.OnMount
	f := cmd.Flags()
	if f.Changed("sequential") {
		cfg.Sequential = opts.sequential
	}
	if f.Changed("direction") {
		d, err := scramble.ParseDirection(opts.direction)
		if err != nil {
			return cfg, err
		}
		cfg.Direction = d
	}
	if f.Changed("speed") {
		cfg.Speed = opts.speed
	}
	if f.Changed("iterations") {
		cfg.MaxIterations = opts.iterations
	}
	if f.Changed("chars") {
		cfg.Characters = opts.chars
	}
	if f.Changed("original") {
		cfg.UseOriginalCharsOnly = opts.original
	}
	return cfg, cfg.Validate()
}

func runScramble(cmd *cobra.Command, args []string, opts scrambleOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	fc, err := loadConfig(logger, opts.config)
	if err != nil {
		return err
	}
	text := fc.Scramble.Text
	if len(args) == 1 {
		text = args[0]
	}
	cfg, err := scrambleConfig(cmd, fc.Scramble.Config, opts)
	if err != nil {
		return err
	}
	seed := fc.Scramble.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}
	if opts.fps <= 0 {
		return fmt.Errorf("fps must be > 0, got %d", opts.fps)
	}

	m, err := newScrambleModel(logger, text, cfg, scramble.NewSource(seed), time.Second/time.Duration(opts.fps))
	if err != nil {
		return err
	}
	defer m.loop.StopAll()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	logger.Debug("scramble preview closed", "restarts", m.restarts, "state", m.reveal.Sequence().State())
	return nil
}

type frameMsg time.Time

// scrambleModel drives a reveal from bubbletea ticks.
type scrambleModel struct {
	loop     *loop.Loop
	reveal   *scramble.Reveal
	frame    time.Duration
	restarts int
	quitting bool
}

func newScrambleModel(logger *log.Logger, text string, cfg scramble.Config, src scramble.Source, frame time.Duration) (*scrambleModel, error) {
	l := loop.New(logger)
	r, err := scramble.Mount(l, scramble.ContainerFunc(func(string) {}), text, cfg, src)
	if err != nil {
		return nil, err
	}
	return &scrambleModel{loop: l, reveal: r, frame: frame}, nil
}

func (m *scrambleModel) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *scrambleModel) Init() tea.Cmd {
	return m.tick()
}

func (m *scrambleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if err := m.reveal.Restart(); err == nil {
				m.restarts++
			}
		}
	case frameMsg:
		m.loop.Advance(m.frame)
		return m, m.tick()
	}
	return m, nil
}

func (m *scrambleModel) View() string {
	seq := m.reveal.Sequence()
	var b strings.Builder
	b.WriteString("\n  ")
	for i, r := range []rune(seq.Display()) {
		switch {
		case r == ' ':
			b.WriteRune(' ')
		case seq.Resolved(i):
			b.WriteString(styleResolved.Render(string(r)))
		default:
			b.WriteString(styleNoise.Render(string(r)))
		}
	}
	b.WriteString("\n\n  ")
	status := fmt.Sprintf("step %d  %d/%d resolved", seq.Step(), seq.ResolvedCount(), seq.Len())
	if seq.State() == scramble.Complete {
		b.WriteString(styleSuccess.Render(iconSuccess + " " + status))
	} else {
		b.WriteString(styleDim.Render(status))
	}
	b.WriteString("\n  ")
	b.WriteString(styleDim.Render("r restart  q quit"))
	b.WriteString("\n")
	if m.quitting {
		b.WriteString("\n")
	}
	return b.String()
}
