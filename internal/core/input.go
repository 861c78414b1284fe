package core

// Action is a key press translated to intent, so games never see raw keys.
type Action uint8

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionConfirm
	ActionBack
	ActionRestart
	ActionQuit
	ActionPause

	actionCount
)

var actionNames = [actionCount]string{
	"None", "Up", "Down", "Left", "Right",
	"Confirm", "Back", "Restart", "Quit", "Pause",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "Unknown"
}

// InputFrame is the set of actions pressed during one tick. The zero value
// is an empty frame and copies are independent.
type InputFrame struct {
	bits uint16
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame { return InputFrame{} }

// Set adds a to the frame. ActionNone and unknown actions are ignored.
func (f *InputFrame) Set(a Action) {
	if a > ActionNone && a < actionCount {
		f.bits |= 1 << a
	}
}

// Has reports whether a was pressed this tick.
func (f InputFrame) Has(a Action) bool {
	return a < actionCount && f.bits&(1<<a) != 0
}

// Empty reports whether no action was pressed.
func (f InputFrame) Empty() bool { return f.bits == 0 }

// Clear empties the frame for the next tick.
func (f *InputFrame) Clear() { f.bits = 0 }
