package app

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/riordanpawley/retrodesk/internal/config"
	"github.com/riordanpawley/retrodesk/internal/content"
	"github.com/riordanpawley/retrodesk/internal/core/layout"
	"github.com/riordanpawley/retrodesk/internal/core/overlay"
	"github.com/riordanpawley/retrodesk/internal/core/scheduler"
	"github.com/riordanpawley/retrodesk/internal/core/sequencer"
	"github.com/riordanpawley/retrodesk/internal/domain"
)

// Runtime is the wired desktop core shared by the TUI and headless replay
type Runtime struct {
	Config    *config.Config
	Content   *content.Registry
	Timeline  *scheduler.Timeline
	Manager   *overlay.Manager
	Sequencer *sequencer.Sequencer
	Seed      uint64

	logger        *slog.Logger
	tourListeners []func(domain.SectionID)
}

// NewRuntime loads content and wires the manager and sequencer on a fresh
// virtual clock. Nothing is scheduled until the sequencer is started.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	reg, err := content.Load(cfg.ContentPath)
	if err != nil {
		return nil, err
	}
	cascade, err := cfg.Cascade()
	if err != nil {
		return nil, err
	}
	sequence, err := cfg.Sequence()
	if err != nil {
		return nil, err
	}

	seed := cfg.Desktop.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	rt := &Runtime{
		Config:   cfg,
		Content:  reg,
		Timeline: scheduler.NewTimeline(),
		Seed:     seed,
		logger:   logger,
	}

	rt.Manager = overlay.NewManager(overlay.Options{
		Viewport: cfg.Viewport(),
		Sections: sequencer.SectionMeta(reg),
		Logger:   logger.With("component", "overlay"),
	})

	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))
	rt.Sequencer, err = sequencer.New(rt.Manager, rt.Timeline, reg, sequencer.Options{
		CascadeOrder:   cascade,
		TypingSequence: sequence,
		Timings:        cfg.SequencerTimings(),
		Placer:         layout.NewPlacer(cfg.Desktop.Padding, cfg.Desktop.Jitter, rng),
		Logger:         logger.With("component", "sequencer"),
		OnTourComplete: rt.tourComplete,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("runtime ready",
		"sections", len(reg.IDs()),
		"cascade", len(cascade),
		"sequence", len(sequence),
		"seed", seed,
	)
	return rt, nil
}

// OnTourComplete registers a callback for the end of the typing relay
func (r *Runtime) OnTourComplete(fn func(domain.SectionID)) {
	r.tourListeners = append(r.tourListeners, fn)
}

func (r *Runtime) tourComplete(id domain.SectionID) {
	for _, fn := range r.tourListeners {
		fn(id)
	}
}

// Label returns the display label of a section
func (r *Runtime) Label(id domain.SectionID) string {
	if sec, ok := r.Content.Get(id); ok {
		return sec.Label
	}
	return string(id)
}

// Icon returns the desktop icon glyph of a section, empty when unknown
func (r *Runtime) Icon(id domain.SectionID) string {
	if sec, ok := r.Content.Get(id); ok {
		return sec.Icon
	}
	return ""
}
