package domain

// TransitionState drives the sequencing side effects of a window
type TransitionState string

const (
	TransitionIdle       TransitionState = "idle"
	TransitionOpening    TransitionState = "opening"
	TransitionTyping     TransitionState = "typing"
	TransitionMinimizing TransitionState = "minimizing"
)

// Glyph returns a unicode marker for the title bar
func (t TransitionState) Glyph() string {
	switch t {
	case TransitionIdle:
		return "○"
	case TransitionOpening:
		return "◌"
	case TransitionTyping:
		return "●"
	case TransitionMinimizing:
		return "◐"
	default:
		return "?"
	}
}

// String returns the display string
func (t TransitionState) String() string {
	if t == "" {
		return string(TransitionIdle)
	}
	return string(t)
}
