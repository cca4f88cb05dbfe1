// Package app contains the main application model and TEA implementation.
package app

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/retrodesk/internal/core/overlay"
	"github.com/riordanpawley/retrodesk/internal/domain"
	"github.com/riordanpawley/retrodesk/internal/types"
	"github.com/riordanpawley/retrodesk/internal/ui/desktop"
	"github.com/riordanpawley/retrodesk/internal/ui/styles"
	"github.com/riordanpawley/retrodesk/internal/ui/taskbar"
	"github.com/riordanpawley/retrodesk/internal/ui/toast"
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast

const (
	// maxFrameStep caps how far one frame advances the timeline, so a
	// suspended terminal does not replay seconds of choreography at once
	maxFrameStep = 250 * time.Millisecond
	toastTTL     = 3 * time.Second

	moveStepX = 2
	moveStepY = 1
)

type frameMsg time.Time

type startMsg struct{}

type drag struct {
	id     domain.SectionID
	dx, dy int
}

// inbox collects notices raised by observers between frames. It is held by
// pointer so every copy of the model shares it.
type inbox struct {
	now    func() time.Time
	toasts []Toast
}

func (b *inbox) push(t Toast) {
	b.toasts = append(b.toasts, t)
}

func (b *inbox) drain() []Toast {
	out := b.toasts
	b.toasts = nil
	return out
}

// Model is the main application state
type Model struct {
	rt     *Runtime
	keys   KeyMap
	help   help.Model
	styles *styles.Styles
	logger *slog.Logger

	// Navigation
	mode     types.Mode
	icon     int
	window   int
	chip     int
	showHelp bool
	drag     *drag

	// Toasts
	toasts []Toast
	inbox  *inbox

	// Terminal size
	width  int
	height int

	lastFrame time.Time
}

// New creates a model driving rt. Nothing moves until Init runs.
func New(rt *Runtime, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	box := &inbox{now: time.Now}
	rt.Manager.Subscribe(func(ev overlay.Event) {
		if ev.Kind == overlay.EventClosed {
			box.push(types.NewWindowToast(types.ToastInfo, ev.ID, rt.Icon(ev.ID), "Closed "+rt.Label(ev.ID), box.now(), toastTTL))
		}
	})
	rt.OnTourComplete(func(domain.SectionID) {
		box.push(types.NewToast(types.ToastSuccess, "Tour finished. Pick any icon to reopen a window.", box.now(), toastTTL))
	})

	return Model{
		rt:     rt,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: styles.New(),
		logger: logger.With("component", "app"),
		mode:   types.ModeIcons,
		inbox:  box,
	}
}

// Init starts the cascade and the frame clock
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		m.frameTick(),
	)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rt.Sequencer.SetViewport(m.desktopSize())
		return m, nil

	case startMsg:
		if m.rt.Sequencer.Start() {
			m.logger.Info("cascade started", "viewport", m.rt.Manager.Viewport())
		}
		return m, nil

	case frameMsg:
		m.advance(time.Time(msg))
		return m, m.frameTick()

	case tea.KeyMsg:
		m = m.handleKey(msg)
		m.clampSelection()
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case tea.MouseMsg:
		m = m.handleMouse(msg)
		m.clampSelection()
		return m, nil
	}

	return m, nil
}

// advance moves the timeline by the wall time since the previous frame
func (m *Model) advance(now time.Time) {
	if !m.lastFrame.IsZero() {
		step := now.Sub(m.lastFrame)
		if step > maxFrameStep {
			step = maxFrameStep
		}
		if step > 0 {
			m.rt.Timeline.Advance(step)
		}
	}
	m.lastFrame = now

	m.toasts = append(m.toasts, m.inbox.drain()...)
	m.expireToasts(now)
	m.clampSelection()
}

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(m.rt.Config.FrameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// expireToasts removes expired toasts from the list
func (m *Model) expireToasts(now time.Time) {
	filtered := make([]Toast, 0, len(m.toasts))
	for _, t := range m.toasts {
		if !t.Expired(now) {
			filtered = append(filtered, t)
		}
	}
	m.toasts = filtered
}

func (m Model) handleKey(msg tea.KeyMsg) Model {
	seq := m.rt.Sequencer

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m
	case key.Matches(msg, m.keys.NextZone):
		m.mode = m.mode.Next()
		return m
	case key.Matches(msg, m.keys.PrevZone):
		m.mode = m.mode.Prev()
		return m
	case key.Matches(msg, m.keys.Jump):
		n := int(msg.String()[0] - '1')
		if icons := m.icons(); n >= 0 && n < len(icons) {
			m.icon = n
			m.click(icons[n].ID)
		}
		return m
	}

	if id, ok := m.target(); ok {
		switch {
		case key.Matches(msg, m.keys.Minimize):
			m.logger.Debug("minimize", "section", id)
			seq.Minimize(id)
			return m
		case key.Matches(msg, m.keys.Maximize):
			m.logger.Debug("toggle maximize", "section", id)
			seq.ToggleMaximize(id)
			return m
		case key.Matches(msg, m.keys.Close):
			m.logger.Debug("close", "section", id)
			seq.Close(id)
			return m
		case key.Matches(msg, m.keys.MoveUp):
			m.nudge(id, 0, -moveStepY)
			return m
		case key.Matches(msg, m.keys.MoveDown):
			m.nudge(id, 0, moveStepY)
			return m
		case key.Matches(msg, m.keys.MoveLeft):
			m.nudge(id, -moveStepX, 0)
			return m
		case key.Matches(msg, m.keys.MoveRight):
			m.nudge(id, moveStepX, 0)
			return m
		}
	}

	switch m.mode {
	case types.ModeIcons:
		return m.handleIconsKey(msg)
	case types.ModeWindows:
		return m.handleWindowsKey(msg)
	case types.ModeTaskbar:
		return m.handleTaskbarKey(msg)
	}
	return m
}

func (m Model) handleIconsKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.icon--
	case key.Matches(msg, m.keys.Down):
		m.icon++
	case key.Matches(msg, m.keys.Select):
		if icons := m.icons(); m.icon >= 0 && m.icon < len(icons) {
			m.click(icons[m.icon].ID)
		}
	}
	return m
}

func (m Model) handleWindowsKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.window--
	case key.Matches(msg, m.keys.Down):
		m.window++
	case key.Matches(msg, m.keys.Select):
		if id, ok := m.selectedWindow(); ok {
			m.rt.Sequencer.Focus(id)
			m.window = 0
		}
	}
	return m
}

func (m Model) handleTaskbarKey(msg tea.KeyMsg) Model {
	entries := m.rt.Manager.Minimized()
	switch {
	case key.Matches(msg, m.keys.Left):
		m.chip--
	case key.Matches(msg, m.keys.Right):
		m.chip++
	case key.Matches(msg, m.keys.Select):
		if m.chip >= 0 && m.chip < len(entries) {
			m.logger.Debug("taskbar restore", "section", entries[m.chip].ID)
			m.rt.Sequencer.ClickTaskbar(entries[m.chip].ID)
		}
	}
	return m
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch msg.Action {
	case tea.MouseActionRelease:
		m.drag = nil
		return m
	case tea.MouseActionMotion:
		if m.drag != nil {
			m.rt.Sequencer.Move(m.drag.id, domain.Position{
				X: max(msg.X-m.drag.dx, 0),
				Y: max(msg.Y-m.drag.dy, 0),
			})
		}
		return m
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
	default:
		return m
	}

	seq := m.rt.Sequencer
	if msg.Y == m.height-1 {
		if id, ok := m.taskbar().ChipAt(msg.X); ok {
			m.mode = types.ModeTaskbar
			seq.ClickTaskbar(id)
		}
		return m
	}

	v := m.desktopView()
	if id, part, ok := desktop.WindowAt(v, msg.X, msg.Y); ok {
		m.mode = types.ModeWindows
		m.window = 0
		switch part {
		case desktop.PartClose:
			seq.Close(id)
		case desktop.PartMinimize:
			seq.Minimize(id)
		case desktop.PartMaximize:
			seq.ToggleMaximize(id)
		case desktop.PartTitle:
			seq.Focus(id)
			if w, ok := m.rt.Manager.Window(id); ok && !w.IsMaximized {
				m.drag = &drag{id: id, dx: msg.X - w.Position.X, dy: msg.Y - w.Position.Y}
			}
		default:
			seq.Focus(id)
		}
		return m
	}

	if i, ok := desktop.IconAt(v, msg.X, msg.Y); ok {
		m.mode = types.ModeIcons
		m.icon = i
		m.click(v.Icons[i].ID)
	}
	return m
}

func (m Model) click(id domain.SectionID) {
	m.logger.Debug("icon click", "section", id)
	m.rt.Sequencer.ClickIcon(id)
}

func (m Model) nudge(id domain.SectionID, dx, dy int) {
	w, ok := m.rt.Manager.Window(id)
	if !ok || w.IsMaximized {
		return
	}
	m.rt.Sequencer.Move(id, domain.Position{
		X: max(w.Position.X+dx, 0),
		Y: max(w.Position.Y+dy, 0),
	})
}

// target is the window the window actions apply to: the selection in the
// windows zone, otherwise the active window or the topmost one
func (m Model) target() (domain.SectionID, bool) {
	if m.mode == types.ModeWindows {
		return m.selectedWindow()
	}
	if id, ok := m.rt.Manager.Active(); ok {
		return id, true
	}
	ids := m.paintedIDs()
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

func (m Model) selectedWindow() (domain.SectionID, bool) {
	ids := m.paintedIDs()
	if m.window < 0 || m.window >= len(ids) {
		return "", false
	}
	return ids[m.window], true
}

// paintedIDs returns the drawn windows, topmost first
func (m Model) paintedIDs() []domain.SectionID {
	wins := m.rt.Manager.Windows()
	ids := make([]domain.SectionID, 0, len(wins))
	for i := len(wins) - 1; i >= 0; i-- {
		if wins[i].Painted() {
			ids = append(ids, wins[i].ID)
		}
	}
	return ids
}

func (m *Model) clampSelection() {
	m.icon = clampIndex(m.icon, len(m.rt.Content.IDs()))
	m.window = clampIndex(m.window, len(m.paintedIDs()))
	m.chip = clampIndex(m.chip, len(m.rt.Manager.Minimized()))
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m Model) desktopSize() domain.Size {
	return domain.Size{Width: m.width, Height: max(m.height-1, 1)}
}

func (m Model) icons() []desktop.Icon {
	secs := m.rt.Content.Sections()
	icons := make([]desktop.Icon, 0, len(secs))
	for _, sec := range secs {
		icon := desktop.Icon{ID: sec.ID, Label: sec.Label, Glyph: sec.Icon}
		if w, ok := m.rt.Manager.Window(sec.ID); ok {
			icon.Open = w.IsOpen
			icon.Minimized = w.IsMinimized
		}
		icons = append(icons, icon)
	}
	return icons
}

func (m Model) frames() []desktop.Frame {
	selected, hasSelection := m.selectedWindow()
	hasSelection = hasSelection && m.mode == types.ModeWindows

	var out []desktop.Frame
	for _, w := range m.rt.Manager.Windows() {
		if !w.Painted() {
			continue
		}
		typed, total := m.rt.Sequencer.Progress(w.ID)
		var body []string
		if text := m.rt.Sequencer.Displayed(w.ID); text != "" {
			body = strings.Split(text, "\n")
		}
		out = append(out, desktop.Frame{
			State:    w,
			Body:     body,
			Typing:   w.IsActive && w.Transition == domain.TransitionTyping && typed < total,
			Selected: hasSelection && w.ID == selected,
		})
	}
	return out
}

func (m Model) desktopView() desktop.View {
	size := m.desktopSize()
	return desktop.View{
		Width:        size.Width,
		Height:       size.Height,
		Icons:        m.icons(),
		SelectedIcon: m.selectedIcon(),
		Windows:      m.frames(),
	}
}

func (m Model) selectedIcon() int {
	if m.mode != types.ModeIcons {
		return -1
	}
	return m.icon
}

func (m Model) taskbar() taskbar.Taskbar {
	chip := -1
	if m.mode == types.ModeTaskbar {
		chip = m.chip
	}
	hints := m.help.ShortHelpView(m.keys.ShortHelp(m.mode))
	return taskbar.New(m.mode, m.rt.Manager.Minimized(), chip, m.width, m.styles).WithHints(hints)
}

// View renders the desktop, the help panel and toasts above the taskbar
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	v := m.desktopView()
	c := desktop.Compose(v, m.styles)

	if m.showHelp {
		panel := m.styles.Window.Render(m.help.View(zoneHelp{keys: m.keys, mode: m.mode}))
		c.Place((v.Width-lipgloss.Width(panel))/2, (v.Height-lipgloss.Height(panel))/2, panel)
	}

	// Render toasts in bottom-right corner
	if len(m.toasts) > 0 {
		toastView := toast.New(m.styles).Render(m.toasts, m.width)
		if toastView != "" {
			c.Place(v.Width-lipgloss.Width(toastView)-1, v.Height-lipgloss.Height(toastView), toastView)
		}
	}

	return c.String() + "\n" + m.taskbar().Render()
}
