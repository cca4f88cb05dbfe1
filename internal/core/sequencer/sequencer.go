// Package sequencer choreographs the desktop: the one-time cascade that opens
// windows on load, the typing relay that walks the visitor through the
// sections, and the manual icon/taskbar/title-bar actions that interrupt it.
//
// The sequencer never touches window fields directly. It asks the overlay
// manager for transitions and keeps each window's typewriter in step with
// the manager's events: a typewriter runs only while its window is open,
// active, restored and in the typing (or minimizing) state.
package sequencer

import (
	"io"
	"log/slog"
	"time"

	"github.com/riordanpawley/retrodesk/internal/content"
	"github.com/riordanpawley/retrodesk/internal/core/layout"
	"github.com/riordanpawley/retrodesk/internal/core/overlay"
	"github.com/riordanpawley/retrodesk/internal/core/typewriter"
	"github.com/riordanpawley/retrodesk/internal/domain"
)

// Scheduler is the keyed timer queue every sequencing step runs on
type Scheduler interface {
	Schedule(key string, d time.Duration, fn func())
	Cancel(key string) bool
	CancelPrefix(prefix string) int
}

// Timings holds every delay of the choreography
type Timings struct {
	AppearDelay     time.Duration
	SettleDelay     time.Duration
	MinimizeDelay   time.Duration
	ActivateDelay   time.Duration
	TypeInterval    time.Duration
	LineInterval    time.Duration
	LinePause       time.Duration
	CompletionDelay time.Duration
}

// DefaultTimings returns the stock choreography
func DefaultTimings() Timings {
	return Timings{
		AppearDelay:     150 * time.Millisecond,
		SettleDelay:     500 * time.Millisecond,
		MinimizeDelay:   200 * time.Millisecond,
		ActivateDelay:   100 * time.Millisecond,
		TypeInterval:    typewriter.DefaultBlockInterval,
		LineInterval:    typewriter.DefaultLineInterval,
		LinePause:       typewriter.DefaultLinePause,
		CompletionDelay: typewriter.DefaultCompletionDelay,
	}
}

// Options configure a Sequencer
type Options struct {
	CascadeOrder   []domain.SectionID
	TypingSequence []domain.SectionID
	Timings        Timings
	Placer         *layout.Placer
	Logger         *slog.Logger

	// OnTourComplete fires once when the terminal window finishes typing
	OnTourComplete func(domain.SectionID)
}

// Status is a snapshot of the choreography
type Status struct {
	Initialized  bool
	RelayIndex   int
	RelayID      domain.SectionID
	TourComplete bool
}

// Sequencer drives the cascade and the relay
type Sequencer struct {
	mgr     *overlay.Manager
	sched   Scheduler
	content *content.Registry
	engines map[domain.SectionID]*typewriter.Engine

	cascade  []domain.SectionID
	sequence []domain.SectionID
	timings  Timings
	placer   *layout.Placer
	logger   *slog.Logger

	onTourComplete func(domain.SectionID)

	// handled are windows the user acted on; their cascade slot is skipped
	handled map[domain.SectionID]bool

	initialized  bool
	relay        int
	tourComplete bool
}

// New wires a sequencer to its manager, scheduler and content. It fails if
// either ordering names a section without content.
func New(mgr *overlay.Manager, sched Scheduler, reg *content.Registry, opts Options) (*Sequencer, error) {
	if err := reg.Require("cascade", opts.CascadeOrder); err != nil {
		return nil, err
	}
	if err := reg.Require("sequence", opts.TypingSequence); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	placer := opts.Placer
	if placer == nil {
		placer = layout.NewPlacer(layout.DefaultPadding, 0, nil)
	}
	timings := opts.Timings
	if timings == (Timings{}) {
		timings = DefaultTimings()
	}

	s := &Sequencer{
		mgr:            mgr,
		sched:          sched,
		content:        reg,
		engines:        make(map[domain.SectionID]*typewriter.Engine),
		handled:        make(map[domain.SectionID]bool),
		cascade:        append([]domain.SectionID(nil), opts.CascadeOrder...),
		sequence:       append([]domain.SectionID(nil), opts.TypingSequence...),
		timings:        timings,
		placer:         placer,
		logger:         logger,
		onTourComplete: opts.OnTourComplete,
		relay:          -1,
	}

	for _, sec := range reg.Sections() {
		s.engines[sec.ID] = s.newEngine(sec)
	}
	mgr.Subscribe(s.observe)
	return s, nil
}

func (s *Sequencer) newEngine(sec content.Section) *typewriter.Engine {
	id := sec.ID
	opts := typewriter.Options{
		LinePause:       s.timings.LinePause,
		CompletionDelay: s.timings.CompletionDelay,
		OnComplete:      func() { s.typed(id) },
	}
	if sec.Multiline() {
		opts.Interval = s.timings.LineInterval
		return typewriter.NewLines(s.sched, typeKey(id), sec.Lines(), opts)
	}
	opts.Interval = s.timings.TypeInterval
	return typewriter.NewBlock(s.sched, typeKey(id), sec.Content, opts)
}

// Start runs the cascade. It only ever runs once per session.
func (s *Sequencer) Start() bool {
	if s.initialized {
		return false
	}
	s.initialized = true
	s.logger.Info("cascade started", "windows", len(s.cascade), "relay", len(s.sequence))

	if len(s.cascade) == 0 {
		s.sched.Schedule(cascadeSettleKey, s.timings.SettleDelay, s.beginRelay)
		return true
	}

	for i, id := range s.cascade {
		last := i == len(s.cascade)-1
		s.sched.Schedule(cascadeKey(id), time.Duration(i)*s.timings.AppearDelay, func() {
			s.appear(id, last)
		})
	}
	return true
}

func (s *Sequencer) appear(id domain.SectionID, last bool) {
	if s.handled[id] || s.mgr.IsOpen(id) {
		s.logger.Debug("cascade slot skipped", "section", id)
		if last {
			s.sched.Schedule(cascadeSettleKey, s.timings.SettleDelay, s.beginRelay)
		}
		return
	}

	sec, _ := s.content.Get(id)
	pos := s.placer.Place(sec.Region, s.sizeOf(id), s.mgr.Viewport())

	s.mgr.UpdatePosition(id, pos)
	s.mgr.Open(id)
	s.mgr.Show(id)
	s.logger.Debug("window appeared", "section", id, "x", pos.X, "y", pos.Y)

	if !last {
		s.mgr.SetTransition(id, domain.TransitionIdle)
		return
	}

	s.mgr.SetTransition(id, domain.TransitionOpening)
	s.mgr.Focus(id)
	s.sched.Schedule(cascadeSettleKey, s.timings.SettleDelay, s.beginRelay)
}

func (s *Sequencer) beginRelay() {
	if len(s.sequence) == 0 {
		return
	}
	s.relay = 0
	s.logger.Debug("relay started", "section", s.sequence[0])
	s.activate(s.sequence[0])
}

// typed handles a typewriter completion
func (s *Sequencer) typed(id domain.SectionID) {
	if s.relay < 0 || s.relay >= len(s.sequence) || s.sequence[s.relay] != id {
		s.logger.Debug("typing finished", "section", id)
		return
	}

	if s.relay == len(s.sequence)-1 {
		if !s.tourComplete {
			s.tourComplete = true
			s.logger.Info("tour complete", "section", id)
			if s.onTourComplete != nil {
				s.onTourComplete(id)
			}
		}
		return
	}

	s.mgr.SetTransition(id, domain.TransitionMinimizing)
	s.sched.Schedule(relayKey(id, "minimize"), s.timings.MinimizeDelay, func() {
		sec, _ := s.content.Get(id)
		s.mgr.Minimize(id, sec.Label, sec.Icon)
		s.mgr.SetTransition(id, domain.TransitionIdle)

		s.sched.Schedule(relayKey(id, "next"), s.timings.ActivateDelay, func() {
			s.relay++
			next := s.sequence[s.relay]
			s.logger.Debug("relay advanced", "from", id, "to", next)
			s.activate(next)
		})
	})
}

// activate opens id if needed, makes it the active front window and types it
func (s *Sequencer) activate(id domain.SectionID) {
	s.mgr.Open(id)
	s.mgr.Show(id)
	s.mgr.Focus(id)
	s.mgr.SetTransition(id, domain.TransitionTyping)
}

// observe keeps typewriters in step with the window table
func (s *Sequencer) observe(ev overlay.Event) {
	if ev.Kind == overlay.EventDeactivated {
		switch ev.Window.Transition {
		case domain.TransitionTyping, domain.TransitionOpening:
			s.mgr.SetTransition(ev.ID, domain.TransitionIdle)
			return
		}
	}
	s.sync(ev.ID)
}

func (s *Sequencer) sync(id domain.SectionID) {
	e, ok := s.engines[id]
	if !ok {
		return
	}
	w, _ := s.mgr.Window(id)
	typing := w.Transition == domain.TransitionTyping || w.Transition == domain.TransitionMinimizing
	e.SetActive(w.IsOpen && w.IsActive && !w.IsMinimized && typing)
}

// ClickIcon resolves a desktop icon click: a minimized window is restored
// and retyped, an open window is closed, anything else is opened and typed.
func (s *Sequencer) ClickIcon(id domain.SectionID) bool {
	if _, ok := s.content.Get(id); !ok {
		return false
	}
	s.handled[id] = true
	w, ok := s.mgr.Window(id)
	switch {
	case ok && w.IsOpen && w.IsMinimized:
		return s.Restore(id)
	case ok && w.IsOpen && w.IsVisible:
		return s.Close(id)
	default:
		s.activate(id)
		return true
	}
}

// ClickTaskbar restores a minimized window and retypes it
func (s *Sequencer) ClickTaskbar(id domain.SectionID) bool {
	return s.Restore(id)
}

// Restore brings a minimized window back and types it from the start
func (s *Sequencer) Restore(id domain.SectionID) bool {
	s.handled[id] = true
	if !s.mgr.Restore(id) {
		return false
	}
	s.mgr.SetTransition(id, domain.TransitionTyping)
	return true
}

// Close closes id and cancels every timer it owns
func (s *Sequencer) Close(id domain.SectionID) bool {
	if _, ok := s.content.Get(id); ok {
		s.handled[id] = true
	}
	s.sched.CancelPrefix(relayPrefix(id))
	if !s.mgr.Close(id) {
		return false
	}
	s.logger.Debug("window closed", "section", id)
	return true
}

// Minimize sends id to the taskbar from its title bar
func (s *Sequencer) Minimize(id domain.SectionID) bool {
	sec, ok := s.content.Get(id)
	if !ok {
		return false
	}
	return s.mgr.Minimize(id, sec.Label, sec.Icon)
}

// ToggleMaximize maximizes or unmaximizes id from its title bar
func (s *Sequencer) ToggleMaximize(id domain.SectionID) bool {
	w, ok := s.mgr.Window(id)
	if !ok || !w.IsOpen {
		return false
	}
	if w.IsMaximized {
		return s.mgr.Unmaximize(id)
	}
	if !s.mgr.Maximize(id) {
		return false
	}
	if !w.IsActive {
		s.activate(id)
	}
	return true
}

// Focus activates a painted window. An inactive window starts typing.
func (s *Sequencer) Focus(id domain.SectionID) bool {
	w, ok := s.mgr.Window(id)
	if !ok || !w.Painted() {
		return false
	}
	if w.IsActive {
		return s.mgr.BringToFront(id)
	}
	s.activate(id)
	return true
}

// Move drags id to pos
func (s *Sequencer) Move(id domain.SectionID, pos domain.Position) bool {
	return s.mgr.UpdatePosition(id, pos)
}

// Resize changes the size of id
func (s *Sequencer) Resize(id domain.SectionID, size domain.Size) bool {
	return s.mgr.UpdateSize(id, size)
}

// SetViewport records a new desktop size
func (s *Sequencer) SetViewport(size domain.Size) {
	s.mgr.SetViewport(size)
}

// Displayed returns the typed text of id
func (s *Sequencer) Displayed(id domain.SectionID) string {
	if e, ok := s.engines[id]; ok {
		return e.Displayed()
	}
	return ""
}

// Lines returns the typed lines of id
func (s *Sequencer) Lines(id domain.SectionID) []typewriter.Line {
	if e, ok := s.engines[id]; ok {
		return e.Lines()
	}
	return nil
}

// Mode returns how id types: whole block or line by line
func (s *Sequencer) Mode(id domain.SectionID) typewriter.Mode {
	if e, ok := s.engines[id]; ok {
		return e.Mode()
	}
	return typewriter.ModeBlock
}

// Progress returns typed and total characters of id
func (s *Sequencer) Progress(id domain.SectionID) (typed, total int) {
	if e, ok := s.engines[id]; ok {
		return e.Progress()
	}
	return 0, 0
}

// Typing returns the windows whose typewriter is ticking
func (s *Sequencer) Typing() []domain.SectionID {
	var out []domain.SectionID
	for _, id := range s.content.IDs() {
		if e := s.engines[id]; e != nil && e.Running() {
			out = append(out, id)
		}
	}
	return out
}

// Status returns a snapshot of the choreography
func (s *Sequencer) Status() Status {
	st := Status{
		Initialized:  s.initialized,
		RelayIndex:   s.relay,
		TourComplete: s.tourComplete,
	}
	if s.relay >= 0 && s.relay < len(s.sequence) {
		st.RelayID = s.sequence[s.relay]
	}
	return st
}

// Manager returns the window table the sequencer drives
func (s *Sequencer) Manager() *overlay.Manager {
	return s.mgr
}

// Content returns the section registry
func (s *Sequencer) Content() *content.Registry {
	return s.content
}

func (s *Sequencer) sizeOf(id domain.SectionID) domain.Size {
	if w, ok := s.mgr.Window(id); ok && !w.Size.IsZero() {
		return w.Size
	}
	if sec, ok := s.content.Get(id); ok && !sec.Size.IsZero() {
		return sec.Size
	}
	return overlay.DefaultSize
}

const cascadeSettleKey = "cascade/settle"

func cascadeKey(id domain.SectionID) string {
	return "cascade/" + string(id)
}

func typeKey(id domain.SectionID) string {
	return "type/" + string(id)
}

func relayPrefix(id domain.SectionID) string {
	return "relay/" + string(id) + "/"
}

func relayKey(id domain.SectionID, step string) string {
	return relayPrefix(id) + step
}

// SectionMeta derives the manager's per-section metadata from the registry
func SectionMeta(reg *content.Registry) map[domain.SectionID]overlay.Meta {
	meta := make(map[domain.SectionID]overlay.Meta)
	for _, sec := range reg.Sections() {
		meta[sec.ID] = overlay.Meta{Label: sec.Label, Icon: sec.Icon, Size: sec.Size}
	}
	return meta
}
