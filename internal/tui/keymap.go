package tui

// Key binding constants used in handleKey.
const (
	KeyQuit    = "q"
	KeyCtrlC   = "ctrl+c"
	KeyReset   = "r"
	KeyRestart = "R"
	KeyNext    = "tab"
	KeyNextAlt = "n"
	KeyToggle  = " "
	KeyPause   = "p"
)
