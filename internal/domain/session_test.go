package domain

import "testing"

func TestTransitionState_Glyph(t *testing.T) {
	tests := []struct {
		state TransitionState
		want  string
	}{
		{TransitionIdle, "○"},
		{TransitionOpening, "◌"},
		{TransitionTyping, "●"},
		{TransitionMinimizing, "◐"},
		{TransitionState("unknown"), "?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.Glyph(); got != tt.want {
				t.Errorf("TransitionState.Glyph() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransitionState_String(t *testing.T) {
	if got := TransitionState("").String(); got != "idle" {
		t.Errorf("zero TransitionState.String() = %q, want %q", got, "idle")
	}
	if got := TransitionTyping.String(); got != "typing" {
		t.Errorf("TransitionTyping.String() = %q, want %q", got, "typing")
	}
}
