// Package plugin runs external output plugins that receive typed text.
package plugin

import (
	"encoding/json"
	"slices"
)

// Events a plugin can subscribe to.
const (
	// EventCommit fires with the newly committed text.
	EventCommit = "commit"
	// EventSpelling fires when the spelling buffer changes.
	EventSpelling = "spelling"
)

// Manifest describes a plugin's metadata and the events it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Handles reports whether the plugin subscribed to event.
func (m Manifest) Handles(event string) bool {
	return slices.Contains(m.Events, event)
}

// Request is sent to a plugin on stdin.
type Request struct {
	Event string `json:"event"`
	// Text is the new text for this event: the committed piece for
	// EventCommit, the whole buffer for EventSpelling.
	Text string `json:"text"`
	// Committed is the full committed text so far.
	Committed string          `json:"committed"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
