package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/riordanpawley/retrodesk/internal/types"
)

// KeyMap defines all desktop key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit     key.Binding
	Help     key.Binding
	NextZone key.Binding
	PrevZone key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Jump   key.Binding

	// Window actions
	Minimize  key.Binding
	Maximize  key.Binding
	Close     key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextZone: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next zone"),
		),
		PrevZone: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev zone"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open/focus/restore"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("1-8", "click icon"),
		),

		Minimize: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "minimize"),
		),
		Maximize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "maximize"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move down"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "move left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "move right"),
		),
	}
}

// ShortHelp returns the bindings worth showing in the given zone
func (k KeyMap) ShortHelp(mode types.Mode) []key.Binding {
	switch mode {
	case types.ModeWindows:
		return []key.Binding{k.Up, k.Down, k.Select, k.Minimize, k.Maximize, k.Close, k.NextZone, k.Help}
	case types.ModeTaskbar:
		return []key.Binding{k.Left, k.Right, k.Select, k.NextZone, k.Help}
	default:
		return []key.Binding{k.Up, k.Down, k.Select, k.Jump, k.NextZone, k.Help, k.Quit}
	}
}

// FullHelp returns every binding grouped into help columns
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Jump},
		{k.Minimize, k.Maximize, k.Close},
		{k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight},
		{k.NextZone, k.PrevZone, k.Help, k.Quit},
	}
}

// zoneHelp adapts a KeyMap to help.KeyMap for one zone
type zoneHelp struct {
	keys KeyMap
	mode types.Mode
}

func (z zoneHelp) ShortHelp() []key.Binding  { return z.keys.ShortHelp(z.mode) }
func (z zoneHelp) FullHelp() [][]key.Binding { return z.keys.FullHelp() }
