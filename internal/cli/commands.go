package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/riordanpawley/retrodesk/internal/app"
	"github.com/riordanpawley/retrodesk/internal/config"
	"github.com/riordanpawley/retrodesk/internal/core/overlay"
	"github.com/riordanpawley/retrodesk/internal/domain"
)

// DefaultHeadlessLimit bounds a headless run that was given no duration
const DefaultHeadlessLimit = 5 * time.Minute

// Dependencies holds everything the CLI commands need
type Dependencies struct {
	Config  *config.Config
	Runtime *app.Runtime
	Logger  *slog.Logger
	Out     io.Writer
}

// NewDependencies wires a runtime for cfg. Output goes to out, or stdout
// when out is nil.
func NewDependencies(cfg *config.Config, logger *slog.Logger, out io.Writer) (*Dependencies, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stdout
	}

	rt, err := app.NewRuntime(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build desktop: %w", err)
	}

	return &Dependencies{
		Config:  cfg,
		Runtime: rt,
		Logger:  logger,
		Out:     out,
	}, nil
}

// HeadlessCommand runs the cascade and typing relay on the virtual clock,
// logging every lifecycle event, then prints the final window table.
// A zero duration runs until the tour finishes and nothing is pending.
func HeadlessCommand(ctx context.Context, deps *Dependencies, duration time.Duration) error {
	rt := deps.Runtime
	limit := duration
	if limit <= 0 {
		limit = DefaultHeadlessLimit
	}

	rt.Manager.Subscribe(func(ev overlay.Event) {
		attrs := []any{
			"at", rt.Timeline.Now(),
			"section", ev.ID,
			"event", ev.Kind.String(),
			"transition", ev.Window.Transition.String(),
		}
		switch ev.Kind {
		case overlay.EventMoved, overlay.EventResized, overlay.EventTransition, overlay.EventShown:
			deps.Logger.Debug("window event", attrs...)
		default:
			deps.Logger.Info("window event", attrs...)
		}
	})
	rt.OnTourComplete(func(id domain.SectionID) {
		deps.Logger.Info("tour complete", "at", rt.Timeline.Now(), "section", id)
	})

	deps.Logger.Info("headless run", "limit", limit, "seed", rt.Seed)
	rt.Sequencer.Start()

	step := deps.Config.FrameInterval()
	for rt.Timeline.Now() < limit {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("headless run interrupted: %w", err)
		}
		rt.Timeline.Advance(min(step, limit-rt.Timeline.Now()))

		if duration <= 0 && rt.Sequencer.Status().TourComplete && rt.Timeline.Len() == 0 {
			break
		}
	}

	if err := rt.Manager.CheckInvariants(); err != nil {
		return fmt.Errorf("window table inconsistent: %w", err)
	}
	return StatusTable(deps.Out, rt)
}

// StatusTable prints one row per section with its window state
func StatusTable(out io.Writer, rt *app.Runtime) error {
	st := rt.Sequencer.Status()
	fmt.Fprintf(out, "Elapsed: %s  Seed: %d  Tour complete: %s\n\n",
		rt.Timeline.Now(), rt.Seed, yesNo(st.TourComplete))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tSTATE\tTRANSITION\tPOSITION\tSIZE\tTYPED")
	fmt.Fprintln(w, "-------\t-----\t----------\t--------\t----\t-----")

	for _, id := range rt.Content.IDs() {
		win, ok := rt.Manager.Window(id)
		if !ok {
			fmt.Fprintf(w, "%s\t%s\t-\t-\t-\t-\n", id, "unopened")
			continue
		}
		typed, total := rt.Sequencer.Progress(id)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d,%d\t%dx%d\t%d/%d\n",
			id, windowState(win), win.Transition,
			win.Position.X, win.Position.Y,
			win.Size.Width, win.Size.Height,
			typed, total,
		)
	}
	return w.Flush()
}

func windowState(w domain.WindowState) string {
	switch {
	case !w.IsOpen:
		return "closed"
	case w.IsMinimized:
		return "minimized"
	case w.IsMaximized && w.IsActive:
		return "maximized*"
	case w.IsMaximized:
		return "maximized"
	case w.IsActive:
		return "active"
	default:
		return "open"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// SectionsCommand lists the loaded sections
func SectionsCommand(deps *Dependencies) error {
	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tICON\tREGION\tMODE\tSIZE\tCHARS")
	fmt.Fprintln(w, "--\t-----\t----\t------\t----\t----\t-----")

	for _, sec := range deps.Runtime.Content.Sections() {
		mode := deps.Runtime.Sequencer.Mode(sec.ID)
		_, total := deps.Runtime.Sequencer.Progress(sec.ID)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%dx%d\t%d\n",
			sec.ID, sec.Label, sec.Icon, sec.Region, mode,
			sec.Size.Width, sec.Size.Height, total,
		)
	}
	return w.Flush()
}

// ErrConfigExists is returned when init-config would overwrite a file
var ErrConfigExists = errors.New("config file already exists")

// InitConfigCommand writes the default configuration to path
func InitConfigCommand(out io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Wrote default config to %s\n", path)
	return nil
}

// PrintUsage prints CLI usage information
func PrintUsage(out io.Writer) {
	usage := `Usage: retrodesk [options] [command]

Commands:
  (no command)         Start the desktop TUI
  headless             Replay the choreography on a virtual clock
  sections             List the loaded sections
  init-config [path]   Write the default config (default .retrodesk.yaml)
  help                 Show this help message

Options:
  --config <path>      Config file (default .retrodesk.{yaml,json} in the working dir)
  --headless           Same as the headless command
  --duration <d>       Virtual time to replay in headless mode (default: until the tour ends)
  --debug              Log at debug level
  --version            Print version information

Environment:
  RETRODESK_*          Override any config key, e.g. RETRODESK_DESKTOP_SEED=42

Examples:
  retrodesk                          # Start the desktop
  retrodesk --headless --duration 5s # Log the first five seconds
  retrodesk sections                 # Show the section table
`
	fmt.Fprint(out, usage)
}
