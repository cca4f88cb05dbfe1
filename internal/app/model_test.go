package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/retrodesk/internal/config"
	"github.com/riordanpawley/retrodesk/internal/domain"
	"github.com/riordanpawley/retrodesk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a sized test model on the default content
func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Desktop.Seed = 7

	rt, err := NewRuntime(cfg, nil)
	require.NoError(t, err)

	m := New(rt, nil)
	return update(m, tea.WindowSizeMsg{Width: 120, Height: 37})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestNewRuntime(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Desktop.Seed = 3

	rt, err := NewRuntime(cfg, nil)
	require.NoError(t, err)

	assert.Len(t, rt.Content.IDs(), 8)
	assert.Equal(t, uint64(3), rt.Seed)
	assert.False(t, rt.Sequencer.Status().Initialized)
	assert.Zero(t, rt.Timeline.Len())
	assert.Equal(t, "Welcome", rt.Label(domain.SectionHero))
}

func TestNewRuntime_TimeSeed(t *testing.T) {
	cfg := config.DefaultConfig()
	rt, err := NewRuntime(cfg, nil)
	require.NoError(t, err)
	assert.NotZero(t, rt.Seed)
}

func TestNewRuntime_MissingContentFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ContentPath = t.TempDir() + "/missing.yaml"

	_, err := NewRuntime(cfg, nil)
	assert.Error(t, err)
}

func TestModel_WindowSizeSetsViewport(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, domain.Size{Width: 120, Height: 36}, m.rt.Manager.Viewport())
}

func TestModel_CascadeAndRelay(t *testing.T) {
	m := newTestModel(t)
	m = update(m, startMsg{})
	require.True(t, m.rt.Sequencer.Status().Initialized)

	// eight windows 150ms apart, then the settle delay
	m.rt.Timeline.Advance(1600 * time.Millisecond)

	assert.Len(t, m.rt.Manager.Stack(), 8)
	active, ok := m.rt.Manager.Active()
	require.True(t, ok)
	assert.Equal(t, domain.SectionHero, active)

	w, _ := m.rt.Manager.Window(domain.SectionHero)
	assert.Equal(t, domain.TransitionTyping, w.Transition)
	assert.NoError(t, m.rt.Manager.CheckInvariants())

	// a second start is ignored
	m = update(m, startMsg{})
	assert.Len(t, m.rt.Manager.Stack(), 8)
}

func TestModel_FrameAdvanceIsClamped(t *testing.T) {
	m := newTestModel(t)
	t0 := time.Now()

	m = update(m, frameMsg(t0))
	assert.Equal(t, time.Duration(0), m.rt.Timeline.Now())

	m = update(m, frameMsg(t0.Add(16*time.Millisecond)))
	assert.Equal(t, 16*time.Millisecond, m.rt.Timeline.Now())

	m = update(m, frameMsg(t0.Add(10*time.Second)))
	assert.Equal(t, 16*time.Millisecond+maxFrameStep, m.rt.Timeline.Now())

	// clocks going backwards never rewind the timeline
	m = update(m, frameMsg(t0))
	assert.Equal(t, 16*time.Millisecond+maxFrameStep, m.rt.Timeline.Now())
}

func TestModel_ZoneCycling(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, types.ModeIcons, m.mode)

	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, types.ModeWindows, m.mode)
	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, types.ModeTaskbar, m.mode)
	m = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, types.ModeWindows, m.mode)
}

func TestModel_IconKeys(t *testing.T) {
	t.Run("jump opens and types", func(t *testing.T) {
		m := newTestModel(t)
		m = update(m, runes("3"))

		assert.Equal(t, 2, m.icon)
		assert.True(t, m.rt.Manager.IsOpen(domain.SectionCategory))
		active, _ := m.rt.Manager.Active()
		assert.Equal(t, domain.SectionCategory, active)

		m.rt.Timeline.Advance(200 * time.Millisecond)
		assert.NotEmpty(t, m.rt.Sequencer.Displayed(domain.SectionCategory))
	})

	t.Run("navigate and select", func(t *testing.T) {
		m := newTestModel(t)
		m = update(m, runes("j"))
		m = update(m, runes("j"))
		m = update(m, runes("k"))
		assert.Equal(t, 1, m.icon)

		m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, m.rt.Manager.IsOpen(domain.SectionProblem))

		// selecting an open window's icon closes it
		m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, m.rt.Manager.IsOpen(domain.SectionProblem))
	})

	t.Run("selection is clamped", func(t *testing.T) {
		m := newTestModel(t)
		m = update(m, runes("k"))
		assert.Equal(t, 0, m.icon)
		for range 20 {
			m = update(m, runes("j"))
		}
		assert.Equal(t, 7, m.icon)
	})

	t.Run("jump past the icons is ignored", func(t *testing.T) {
		m := newTestModel(t)
		m = update(m, runes("9"))
		assert.Empty(t, m.rt.Manager.Stack())
	})
}

func TestModel_WindowActions(t *testing.T) {
	m := newTestModel(t)
	m = update(m, runes("2"))
	require.True(t, m.rt.Manager.IsOpen(domain.SectionProblem))

	m = update(m, runes("z"))
	w, _ := m.rt.Manager.Window(domain.SectionProblem)
	assert.True(t, w.IsMaximized)
	m = update(m, runes("z"))
	w, _ = m.rt.Manager.Window(domain.SectionProblem)
	assert.False(t, w.IsMaximized)

	before := w.Position
	m = update(m, runes("L"))
	m = update(m, runes("J"))
	w, _ = m.rt.Manager.Window(domain.SectionProblem)
	assert.Equal(t, domain.Position{X: before.X + moveStepX, Y: before.Y + moveStepY}, w.Position)

	m = update(m, runes("m"))
	entries := m.rt.Manager.Minimized()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.SectionProblem, entries[0].ID)

	// restore from the taskbar zone
	m = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, types.ModeTaskbar, m.mode)
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.rt.Manager.Minimized())
	w, _ = m.rt.Manager.Window(domain.SectionProblem)
	assert.True(t, w.Painted())
	assert.Equal(t, domain.TransitionTyping, w.Transition)
}

func TestModel_WindowZoneSelection(t *testing.T) {
	m := newTestModel(t)
	m = update(m, runes("2"))
	m = update(m, runes("3"))

	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, types.ModeWindows, m.mode)

	id, ok := m.selectedWindow()
	require.True(t, ok)
	assert.Equal(t, domain.SectionCategory, id)

	m = update(m, runes("j"))
	id, _ = m.selectedWindow()
	assert.Equal(t, domain.SectionProblem, id)

	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	top, _ := m.rt.Manager.Top()
	assert.Equal(t, domain.SectionProblem, top)
	assert.Equal(t, 0, m.window)

	// x closes the selection, not the active window
	m = update(m, runes("j"))
	m = update(m, runes("x"))
	assert.False(t, m.rt.Manager.IsOpen(domain.SectionCategory))
	assert.True(t, m.rt.Manager.IsOpen(domain.SectionProblem))
}

func TestModel_CloseRaisesToast(t *testing.T) {
	m := newTestModel(t)
	m = update(m, runes("2"))
	m = update(m, runes("x"))

	now := time.Now()
	m = update(m, frameMsg(now))
	require.Len(t, m.toasts, 1)
	assert.Equal(t, "Closed The Problem", m.toasts[0].Message)
	assert.Equal(t, types.ToastInfo, m.toasts[0].Level)
	assert.Equal(t, domain.SectionProblem, m.toasts[0].Section)
	assert.Equal(t, "⚠", m.toasts[0].Icon)
	assert.Contains(t, m.View(), "⚠ Closed The Problem")

	m = update(m, frameMsg(now.Add(toastTTL+time.Second)))
	assert.Empty(t, m.toasts)
}

func TestModel_RepeatedCloseShowsOneNotice(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 3; i++ {
		m = update(m, runes("2"))
		m = update(m, runes("x"))
	}
	m = update(m, frameMsg(time.Now()))

	require.Len(t, m.toasts, 3)
	assert.Equal(t, 1, strings.Count(m.View(), "Closed The Problem"))
}

func TestModel_TourCompleteToast(t *testing.T) {
	m := newTestModel(t)
	m = update(m, startMsg{})
	m.rt.Timeline.RunUntilIdle(100000)

	require.True(t, m.rt.Sequencer.Status().TourComplete)
	m = update(m, frameMsg(time.Now()))

	var found bool
	for _, toast := range m.toasts {
		if toast.Level == types.ToastSuccess {
			found = true
			assert.Empty(t, toast.Section, "tour notice belongs to the desktop")
		}
	}
	assert.True(t, found, "expected a tour finished toast")
}

func TestModel_Mouse(t *testing.T) {
	t.Run("icon click opens", func(t *testing.T) {
		m := newTestModel(t)
		// second icon row
		m = update(m, click(2, 3))
		assert.True(t, m.rt.Manager.IsOpen(domain.SectionProblem))
		assert.Equal(t, 1, m.icon)
	})

	t.Run("close button", func(t *testing.T) {
		m := newTestModel(t)
		m = update(m, runes("2"))
		w, _ := m.rt.Manager.Window(domain.SectionProblem)

		m = update(m, click(w.Position.X+w.Size.Width-3, w.Position.Y+1))
		assert.False(t, m.rt.Manager.IsOpen(domain.SectionProblem))
	})

	t.Run("minimize button and taskbar chip", func(t *testing.T) {
		m := newTestModel(t)
		m = update(m, runes("2"))
		w, _ := m.rt.Manager.Window(domain.SectionProblem)

		m = update(m, click(w.Position.X+w.Size.Width-7, w.Position.Y+1))
		require.Len(t, m.rt.Manager.Minimized(), 1)

		// first chip follows the start and mode badges
		tb := m.taskbar()
		var x int
		for x = 0; x < m.width; x++ {
			if _, ok := tb.ChipAt(x); ok {
				break
			}
		}
		m = update(m, click(x, m.height-1))
		assert.Empty(t, m.rt.Manager.Minimized())
		assert.Equal(t, types.ModeTaskbar, m.mode)
	})

	t.Run("title drag moves", func(t *testing.T) {
		m := newTestModel(t)
		m = update(m, runes("2"))
		w, _ := m.rt.Manager.Window(domain.SectionProblem)
		start := w.Position

		m = update(m, click(start.X+3, start.Y))
		require.NotNil(t, m.drag)
		m = update(m, tea.MouseMsg{X: start.X + 13, Y: start.Y + 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
		m = update(m, tea.MouseMsg{X: start.X + 13, Y: start.Y + 4, Action: tea.MouseActionRelease})
		assert.Nil(t, m.drag)

		w, _ = m.rt.Manager.Window(domain.SectionProblem)
		assert.Equal(t, domain.Position{X: start.X + 10, Y: start.Y + 4}, w.Position)
	})
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewHeight(t *testing.T) {
	m := newTestModel(t)
	m = update(m, startMsg{})
	m.rt.Timeline.Advance(2 * time.Second)

	check := func(t *testing.T, m Model) {
		t.Helper()
		lines := strings.Split(m.View(), "\n")
		if len(lines) != m.height {
			t.Errorf("View has %d lines, want %d", len(lines), m.height)
		}
	}

	t.Run("normal view", func(t *testing.T) {
		check(t, m)
	})

	t.Run("with help", func(t *testing.T) {
		check(t, update(m, runes("?")))
	})

	t.Run("with toasts", func(t *testing.T) {
		m := m
		m.toasts = append(m.toasts, types.NewToast(types.ToastInfo, "test toast", time.Now(), time.Hour))
		view := m.View()
		assert.Contains(t, view, "test toast")
		check(t, m)
	})

	t.Run("before the first size", func(t *testing.T) {
		rt, err := NewRuntime(config.DefaultConfig(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Loading...", New(rt, nil).View())
	})
}

func TestView_ShowsTaskbar(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	lines := strings.Split(view, "\n")
	assert.Contains(t, lines[len(lines)-1], "retrodesk")
	assert.Contains(t, lines[len(lines)-1], "ICONS")
}
