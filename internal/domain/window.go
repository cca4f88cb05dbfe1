package domain

// WindowState is the record for one section window. It is created on first
// open and retained for the life of the session so reopening keeps the last
// known frame.
type WindowState struct {
	ID       SectionID
	Position Position
	Size     Size

	// Frame recorded when the window was maximized, restored by unmaximize
	NormalPosition Position
	NormalSize     Size

	IsVisible   bool
	IsOpen      bool
	IsMinimized bool
	IsMaximized bool
	IsActive    bool
	Transition  TransitionState

	Label string
	Icon  string
}

// Painted reports whether the window is drawn in the normal desktop layer
func (w WindowState) Painted() bool {
	return w.IsOpen && w.IsVisible && !w.IsMinimized
}

// TaskbarEntry is one chip in the taskbar's minimized list
type TaskbarEntry struct {
	ID    SectionID
	Label string
	Icon  string
}
