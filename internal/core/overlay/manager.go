// Package overlay owns the desktop's window table: the z-ordered stack of
// open windows, the taskbar's minimized list and the single active window.
//
// Every mutation goes through a named Manager operation so the invariants
// (stack membership, one active window, minimized/maximized exclusivity)
// are enforced in one place. Invalid requests are no-ops that return false;
// UI click races are expected and never fault.
package overlay

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/riordanpawley/retrodesk/internal/domain"
)

const (
	// DefaultCascadeStep offsets each newly stacked window from the one below
	DefaultCascadeStep = 2
)

var (
	// DefaultOrigin is where the first default-placed window opens
	DefaultOrigin = domain.Position{X: 4, Y: 2}
	// DefaultSize is used for sections without a configured size
	DefaultSize = domain.Size{Width: 60, Height: 14}
)

// Meta is the presentation metadata for one section
type Meta struct {
	Label string
	Icon  string
	Size  domain.Size
}

// Options configure a Manager
type Options struct {
	Viewport    domain.Size
	Origin      domain.Position
	CascadeStep int
	Sections    map[domain.SectionID]Meta
	Logger      *slog.Logger
}

type entry struct {
	state  domain.WindowState
	placed bool
}

// Manager is the single owner of all window state
type Manager struct {
	entries   map[domain.SectionID]*entry
	stack     *Stack
	minimized []domain.TaskbarEntry
	active    domain.SectionID

	viewport    domain.Size
	origin      domain.Position
	cascadeStep int
	sections    map[domain.SectionID]Meta

	observers []Observer
	logger    *slog.Logger
}

// NewManager creates an empty manager
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	origin := opts.Origin
	if origin == (domain.Position{}) {
		origin = DefaultOrigin
	}
	step := opts.CascadeStep
	if step <= 0 {
		step = DefaultCascadeStep
	}
	sections := opts.Sections
	if sections == nil {
		sections = make(map[domain.SectionID]Meta)
	}

	return &Manager{
		entries:     make(map[domain.SectionID]*entry),
		stack:       NewStack(),
		minimized:   make([]domain.TaskbarEntry, 0),
		viewport:    opts.Viewport,
		origin:      origin,
		cascadeStep: step,
		sections:    sections,
		logger:      logger,
	}
}

// Subscribe registers an observer for lifecycle events
func (m *Manager) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

// Open pushes id onto the stack and makes it visible. A window already in
// the stack is left where it is. Reopened windows keep their last frame.
func (m *Manager) Open(id domain.SectionID) bool {
	if !m.accepts(id) || m.stack.Contains(id) {
		return false
	}

	e := m.ensure(id)
	if !e.placed {
		depth := m.stack.Depth()
		e.state.Position = domain.Position{
			X: m.origin.X + depth*m.cascadeStep*2,
			Y: m.origin.Y + depth*m.cascadeStep,
		}
		e.placed = true
	}
	m.stack.Push(id)
	e.state.IsOpen = true
	e.state.IsVisible = true
	e.state.IsMinimized = false
	m.dropMinimized(id)

	m.logger.Debug("window opened", "section", id, "depth", m.stack.Depth())
	m.emit(EventOpened, id)
	return true
}

// Close removes id from the stack and the taskbar. The record is kept so a
// later Open restores its frame. Activity is not handed to another window.
func (m *Manager) Close(id domain.SectionID) bool {
	e, ok := m.entries[id]
	if !ok || !m.stack.Remove(id) {
		return false
	}

	m.deactivate(id)
	e.state.IsOpen = false
	e.state.IsVisible = false
	e.state.IsMinimized = false
	e.state.Transition = domain.TransitionIdle
	m.dropMinimized(id)

	m.logger.Debug("window closed", "section", id)
	m.emit(EventClosed, id)
	return true
}

// BringToFront raises id to the top of the stack
func (m *Manager) BringToFront(id domain.SectionID) bool {
	if !m.stack.Raise(id) {
		return false
	}
	m.emit(EventFocused, id)
	return true
}

// Minimize hides id in the taskbar. It stays in the stack and stays
// mounted (visible) so restore is instant. Empty label or icon fall back to
// the section metadata.
func (m *Manager) Minimize(id domain.SectionID, label, icon string) bool {
	e, ok := m.openEntry(id)
	if !ok || e.state.IsMinimized {
		return false
	}

	if e.state.IsMaximized {
		m.unmaximize(e)
	}
	m.deactivate(id)
	e.state.IsMinimized = true
	if label != "" {
		e.state.Label = label
	}
	if icon != "" {
		e.state.Icon = icon
	}
	m.minimized = append(m.minimized, domain.TaskbarEntry{
		ID:    id,
		Label: e.state.Label,
		Icon:  e.state.Icon,
	})

	m.logger.Debug("window minimized", "section", id)
	m.emit(EventMinimized, id)
	return true
}

// Maximize fills the viewport with id, recording its normal frame. A
// minimized window leaves the taskbar.
func (m *Manager) Maximize(id domain.SectionID) bool {
	e, ok := m.openEntry(id)
	if !ok || e.state.IsMaximized {
		return false
	}

	if e.state.IsMinimized {
		e.state.IsMinimized = false
		m.dropMinimized(id)
	}
	e.state.NormalPosition = e.state.Position
	e.state.NormalSize = e.state.Size
	e.state.Position = domain.Position{}
	e.state.Size = m.viewport
	e.state.IsMaximized = true

	m.emit(EventMaximized, id)
	return true
}

// Unmaximize returns id to the frame it had before Maximize
func (m *Manager) Unmaximize(id domain.SectionID) bool {
	e, ok := m.entries[id]
	if !ok || !e.state.IsMaximized {
		return false
	}
	m.unmaximize(e)
	m.emit(EventUnmaximized, id)
	return true
}

// Restore brings a minimized window back, activates it and raises it
func (m *Manager) Restore(id domain.SectionID) bool {
	e, ok := m.openEntry(id)
	if !ok || !e.state.IsMinimized {
		return false
	}

	e.state.IsMinimized = false
	e.state.IsVisible = true
	m.dropMinimized(id)
	m.emit(EventRestored, id)

	m.Activate(id)
	m.BringToFront(id)
	return true
}

// Activate makes id the single active window. The previously active window
// is deactivated first. A minimized window is taken out of the taskbar.
func (m *Manager) Activate(id domain.SectionID) bool {
	e, ok := m.openEntry(id)
	if !ok || m.active == id {
		return false
	}

	if m.active != "" {
		m.deactivate(m.active)
	}
	if e.state.IsMinimized {
		e.state.IsMinimized = false
		m.dropMinimized(id)
	}
	e.state.IsVisible = true
	e.state.IsActive = true
	m.active = id

	m.emit(EventActivated, id)
	return true
}

// Deactivate clears the active flag of id
func (m *Manager) Deactivate(id domain.SectionID) bool {
	return m.deactivate(id)
}

// Focus activates id and raises it
func (m *Manager) Focus(id domain.SectionID) bool {
	activated := m.Activate(id)
	raised := m.BringToFront(id)
	return activated || raised
}

// Show marks an open window as visible
func (m *Manager) Show(id domain.SectionID) bool {
	e, ok := m.openEntry(id)
	if !ok || e.state.IsVisible {
		return false
	}
	e.state.IsVisible = true
	m.emit(EventShown, id)
	return true
}

// SetTransition records the sequencing state of id
func (m *Manager) SetTransition(id domain.SectionID, t domain.TransitionState) bool {
	e, ok := m.entries[id]
	if !ok || e.state.Transition == t {
		return false
	}
	e.state.Transition = t
	m.emit(EventTransition, id)
	return true
}

// UpdatePosition moves id. The record is created if id was never opened.
func (m *Manager) UpdatePosition(id domain.SectionID, pos domain.Position) bool {
	if !m.accepts(id) {
		return false
	}
	e := m.ensure(id)
	e.placed = true
	if e.state.Position == pos {
		return false
	}
	e.state.Position = pos
	m.emit(EventMoved, id)
	return true
}

// UpdateSize resizes id. The record is created if id was never opened.
func (m *Manager) UpdateSize(id domain.SectionID, size domain.Size) bool {
	if !m.accepts(id) || size.Width <= 0 || size.Height <= 0 {
		return false
	}
	e := m.ensure(id)
	if e.state.Size == size {
		return false
	}
	e.state.Size = size
	m.emit(EventResized, id)
	return true
}

// SetViewport records the desktop size. Maximized windows follow it.
func (m *Manager) SetViewport(size domain.Size) {
	m.viewport = size
	for _, id := range m.stack.IDs() {
		e := m.entries[id]
		if e.state.IsMaximized && e.state.Size != size {
			e.state.Size = size
			m.emit(EventResized, id)
		}
	}
}

// Viewport returns the desktop size
func (m *Manager) Viewport() domain.Size {
	return m.viewport
}

// Window returns a snapshot of the record for id
func (m *Manager) Window(id domain.SectionID) (domain.WindowState, bool) {
	e, ok := m.entries[id]
	if !ok {
		return domain.WindowState{}, false
	}
	return e.state, true
}

// IsOpen reports whether id is in the stack
func (m *Manager) IsOpen(id domain.SectionID) bool {
	return m.stack.Contains(id)
}

// Stack returns the open ids, bottom first
func (m *Manager) Stack() []domain.SectionID {
	return m.stack.IDs()
}

// Windows returns snapshots of the open windows, bottom first
func (m *Manager) Windows() []domain.WindowState {
	ids := m.stack.IDs()
	out := make([]domain.WindowState, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.entries[id].state)
	}
	return out
}

// Minimized returns the taskbar entries in minimize order
func (m *Manager) Minimized() []domain.TaskbarEntry {
	out := make([]domain.TaskbarEntry, len(m.minimized))
	copy(out, m.minimized)
	return out
}

// Active returns the active window, if any
func (m *Manager) Active() (domain.SectionID, bool) {
	return m.active, m.active != ""
}

// Top returns the topmost open window
func (m *Manager) Top() (domain.SectionID, bool) {
	return m.stack.Top()
}

// CheckInvariants verifies the window table is consistent
func (m *Manager) CheckInvariants() error {
	seen := make(map[domain.SectionID]bool)
	for _, id := range m.stack.ids {
		if seen[id] {
			return fmt.Errorf("%s appears twice in the stack", id)
		}
		seen[id] = true
		e, ok := m.entries[id]
		if !ok || !e.state.IsOpen {
			return fmt.Errorf("%s is stacked but not open", id)
		}
	}

	activeCount := 0
	for id, e := range m.entries {
		st := e.state
		if st.IsOpen && !seen[id] {
			return fmt.Errorf("%s is open but not stacked", id)
		}
		if st.IsMinimized && !m.inMinimized(id) {
			return fmt.Errorf("%s is minimized but missing from the taskbar", id)
		}
		if st.IsMinimized && st.IsMaximized {
			return fmt.Errorf("%s is both minimized and maximized", id)
		}
		if st.IsActive {
			activeCount++
			if id != m.active {
				return fmt.Errorf("%s is flagged active but %q is the active window", id, m.active)
			}
			if !st.IsOpen || st.IsMinimized {
				return fmt.Errorf("%s is active but not open and restored", id)
			}
		}
	}
	if activeCount > 1 {
		return fmt.Errorf("%d windows are active", activeCount)
	}
	if m.active != "" && activeCount == 0 {
		return fmt.Errorf("active window %s is not flagged", m.active)
	}

	listed := make(map[domain.SectionID]bool)
	for _, t := range m.minimized {
		if listed[t.ID] {
			return fmt.Errorf("%s appears twice in the taskbar", t.ID)
		}
		listed[t.ID] = true
		e, ok := m.entries[t.ID]
		if !ok || !e.state.IsMinimized || !seen[t.ID] {
			return fmt.Errorf("%s is in the taskbar but not a minimized open window", t.ID)
		}
	}
	return nil
}

func (m *Manager) accepts(id domain.SectionID) bool {
	if !id.Valid() {
		return false
	}
	if len(m.sections) == 0 {
		return true
	}
	_, ok := m.sections[id]
	return ok
}

func (m *Manager) ensure(id domain.SectionID) *entry {
	if e, ok := m.entries[id]; ok {
		return e
	}
	meta := m.sections[id]
	size := meta.Size
	if size.IsZero() {
		size = DefaultSize
	}
	label := meta.Label
	if label == "" {
		label = string(id)
	}
	e := &entry{
		state: domain.WindowState{
			ID:         id,
			Size:       size,
			Transition: domain.TransitionIdle,
			Label:      label,
			Icon:       meta.Icon,
		},
	}
	m.entries[id] = e
	return e
}

func (m *Manager) openEntry(id domain.SectionID) (*entry, bool) {
	e, ok := m.entries[id]
	if !ok || !e.state.IsOpen {
		return nil, false
	}
	return e, true
}

func (m *Manager) deactivate(id domain.SectionID) bool {
	e, ok := m.entries[id]
	if !ok || !e.state.IsActive {
		return false
	}
	e.state.IsActive = false
	if m.active == id {
		m.active = ""
	}
	m.emit(EventDeactivated, id)
	return true
}

func (m *Manager) unmaximize(e *entry) {
	e.state.Position = e.state.NormalPosition
	e.state.Size = e.state.NormalSize
	e.state.IsMaximized = false
}

func (m *Manager) dropMinimized(id domain.SectionID) {
	for i, t := range m.minimized {
		if t.ID == id {
			m.minimized = append(m.minimized[:i], m.minimized[i+1:]...)
			return
		}
	}
}

func (m *Manager) inMinimized(id domain.SectionID) bool {
	for _, t := range m.minimized {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (m *Manager) emit(kind EventKind, id domain.SectionID) {
	if len(m.observers) == 0 {
		return
	}
	ev := Event{Kind: kind, ID: id}
	if e, ok := m.entries[id]; ok {
		ev.Window = e.state
	}
	for _, o := range m.observers {
		o(ev)
	}
}
