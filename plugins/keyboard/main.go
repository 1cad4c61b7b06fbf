// Package main is an output plugin that types committed text into the
// focused application. It uses AppleScript on macOS and xdotool on Linux.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request is the event sent by the plugin dispatcher.
type Request struct {
	Event     string `json:"event"`
	Text      string `json:"text"`
	Committed string `json:"committed"`
}

// Response is written back on stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

var errEmptyText = errors.New("text is required")

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("decode request: %w", err))
		return
	}

	if req.Event != "commit" {
		writeResponse(fmt.Errorf("unsupported event: %s", req.Event))
		return
	}

	writeResponse(typeText(req.Text))
}

// typeText sends text to the focused window as keystrokes.
func typeText(text string) error {
	if text == "" {
		return errEmptyText
	}

	switch runtime.GOOS {
	case "darwin":
		return run("osascript", "-e", buildTypeScript(text))
	case "linux":
		return run("xdotool", "type", "--clearmodifiers", "--", text)
	default:
		return fmt.Errorf("typing is not supported on %s", runtime.GOOS)
	}
}

// buildTypeScript returns an AppleScript that types text. Non-ASCII text
// goes through the clipboard because System Events keystroke cannot
// produce CJK characters directly.
func buildTypeScript(text string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(text)
	if isASCII(text) {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, quoted)
	}
	return fmt.Sprintf(`set the clipboard to "%s"
tell application "System Events" to keystroke "v" using {command down}`, quoted)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
