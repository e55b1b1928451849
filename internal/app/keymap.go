package app

// Key binding constants used in handleKey.
const (
	KeyQuit         = "q"
	KeyCtrlC        = "ctrl+c"
	KeyEsc          = "esc"
	KeyTab          = "tab"
	KeyShiftTab     = "shift+tab"
	KeyUp           = "up"
	KeyDown         = "down"
	KeyJ            = "j"
	KeyK            = "k"
	KeyEnter        = "enter"
	KeyDelete       = "d"
	KeyNew          = "n"
	KeySubmit       = "ctrl+s"
	KeyCycleProgram = "ctrl+p"
	KeyCycleTone    = "ctrl+t"
)

// Landing-screen shortcuts, one per destination.
const (
	KeyGoUpload   = "u"
	KeyGoHistory  = "h"
	KeyGoRewrite  = "r"
	KeyGoExamples = "e"
)
