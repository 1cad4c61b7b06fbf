// Package main is an output plugin that keeps the whole committed text on
// the system clipboard, so it can be pasted anywhere.
package main

import (
	"encoding/json"
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
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// copyCommands lists clipboard writers per platform, tried in order.
var copyCommands = map[string][][]string{
	"darwin":  {{"pbcopy"}},
	"linux":   {{"wl-copy"}, {"xclip", "-selection", "clipboard"}, {"xsel", "--clipboard", "--input"}},
	"windows": {{"clip"}},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("decode request: %w", err))
		return
	}

	writeResponse(copyText(req.Committed))
}

func copyText(text string) error {
	commands, ok := copyCommands[runtime.GOOS]
	if !ok {
		return fmt.Errorf("clipboard is not supported on %s", runtime.GOOS)
	}

	var lastErr error
	for _, argv := range commands {
		if _, err := exec.LookPath(argv[0]); err != nil {
			lastErr = err
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if output, err := cmd.CombinedOutput(); err != nil {
			lastErr = fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(output)))
			continue
		}
		return nil
	}
	return fmt.Errorf("no clipboard tool worked: %w", lastErr)
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
