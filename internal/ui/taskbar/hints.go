package taskbar

import "github.com/riordanpawley/retrodesk/internal/types"

// GetHints returns the fallback keybinding hints for the given mode
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeIcons:
		return "j/k: icons  enter: open  tab: windows  ?: help  q: quit"
	case types.ModeWindows:
		return "j/k: windows  enter: focus  m: min  z: max  x: close  tab: taskbar"
	case types.ModeTaskbar:
		return "h/l: chips  enter: restore  tab: icons"
	default:
		return ""
	}
}
