// Package tray provides the system tray menu for headtype.
package tray

import (
	"sync"
	"unicode/utf8"

	"github.com/getlantern/systray"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/gesture"
)

// maxTitleRunes bounds the committed text shown in the menu.
const maxTitleRunes = 16

// Tray is the system tray menu. It implements app.Renderer so the last
// committed text and the spelling in progress show up in the menu.
type Tray struct {
	onToggle   func(enabled bool)
	onRestart  func()
	onSettings func()
	onQuit     func()
	enabled    bool
	lastText   string
	spelling   string
	mu         sync.RWMutex

	menuToggle   *systray.MenuItem
	menuStatus   *systray.MenuItem
	menuLastText *systray.MenuItem
	menuSpelling *systray.MenuItem
}

var _ app.Renderer = (*Tray)(nil)

// New creates a new Tray with typing enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback for the enable/disable item.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRestart sets the callback for the restart item.
func (t *Tray) OnRestart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRestart = fn
}

// OnSettings sets the callback for the settings item.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback for the quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("headtype")
	systray.SetTooltip("Type with head movements")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle head typing")
	t.menuStatus = systray.AddMenuItem(statusTitle(app.Status{State: app.StateStopped}), "Pipeline status")
	t.menuStatus.Disable()
	systray.AddSeparator()

	t.menuLastText = systray.AddMenuItem(lastTextTitle(t.lastText), "Last committed text")
	t.menuLastText.Disable()
	t.menuSpelling = systray.AddMenuItem(spellingTitle(t.spelling), "Spelling in progress")
	t.menuSpelling.Disable()
	systray.AddSeparator()
	menuToggle := t.menuToggle
	t.mu.Unlock()

	menuRestart := systray.AddMenuItem("Restart Camera", "Restart the detection pipeline")
	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit headtype")

	go func() {
		for {
			select {
			case <-menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuRestart.ClickedCh:
				t.handleRestart()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleRestart() {
	t.mu.RLock()
	callback := t.onRestart
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus shows the pipeline state, including the failure reason.
func (t *Tray) SetStatus(status app.Status) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(status))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// LastText returns the last committed text shown in the menu.
func (t *Tray) LastText() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastText
}

func (t *Tray) OnTextCommitted(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastText = text
	if t.menuLastText != nil {
		t.menuLastText.SetTitle(lastTextTitle(text))
	}
}

func (t *Tray) OnSpellingChanged(spelling string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spelling = spelling
	if t.menuSpelling != nil {
		t.menuSpelling.SetTitle(spellingTitle(spelling))
	}
}

func (t *Tray) OnActiveCellChanged(gesture.Cell) {}
func (t *Tray) OnCandidatesChanged([]string, int) {}
func (t *Tray) OnMouthDebugSignal(float64, bool) {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func statusTitle(status app.Status) string {
	if status.State == app.StateFailed && status.Reason != "" {
		return "Status: failed (" + status.Reason + ")"
	}
	return "Status: " + string(status.State)
}

// lastTextTitle shows the tail of the committed text.
func lastTextTitle(text string) string {
	if text == "" {
		return "Last: none"
	}
	if n := utf8.RuneCountInString(text); n > maxTitleRunes {
		runes := []rune(text)
		text = "…" + string(runes[n-maxTitleRunes:])
	}
	return "Last: " + text
}

func spellingTitle(spelling string) string {
	if spelling == "" {
		return "Spelling: -"
	}
	return "Spelling: " + spelling
}
