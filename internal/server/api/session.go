package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/headtype/internal/app"
)

// SessionController is the part of app.App the session endpoints drive.
type SessionController interface {
	Status() app.Status
	Snapshot() app.Snapshot
	Reset() app.RenderCommands
	NextCandidate() app.RenderCommands
	SelectCandidate(i int) app.RenderCommands
	SetEnabled(enabled bool)
	Pause()
	Resume() error
	Restart() error
}

// SessionHandler serves the typing session and pipeline controls.
type SessionHandler struct {
	app SessionController
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(a SessionController) *SessionHandler {
	return &SessionHandler{app: a}
}

type sessionResponse struct {
	Status  app.Status   `json:"status"`
	Session app.Snapshot `json:"session"`
}

type selectRequest struct {
	Index *int `json:"index"`
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/session and /api/session/{command}
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	command := strings.TrimPrefix(r.URL.Path, "/api/session")
	command = strings.TrimPrefix(command, "/")

	if command == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.respond(w, http.StatusOK)
		return
	}

	if command == "enabled" {
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.setEnabled(w, r)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch command {
	case "reset":
		h.app.Reset()
	case "next-candidate":
		h.app.NextCandidate()
	case "select":
		var req selectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Index == nil || *req.Index < 0 {
			writeError(w, http.StatusBadRequest, "index is required")
			return
		}
		snap := h.app.Snapshot()
		if *req.Index >= len(snap.Candidates.Items) {
			writeError(w, http.StatusConflict, "No such candidate")
			return
		}
		h.app.SelectCandidate(*req.Index)
	case "pause":
		h.app.Pause()
	case "resume":
		if err := h.app.Resume(); err != nil {
			h.pipelineError(w, err)
			return
		}
	case "restart":
		if err := h.app.Restart(); err != nil {
			h.pipelineError(w, err)
			return
		}
	default:
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	h.respond(w, http.StatusOK)
}

func (h *SessionHandler) setEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}
	h.app.SetEnabled(*req.Enabled)
	h.respond(w, http.StatusOK)
}

// pipelineError reports a failed start along with the current status.
func (h *SessionHandler) pipelineError(w http.ResponseWriter, err error) {
	status := http.StatusServiceUnavailable
	if errors.Is(err, app.ErrPipelineFailed) {
		status = http.StatusConflict
	}
	writeJSON(w, status, struct {
		Error  string     `json:"error"`
		Status app.Status `json:"status"`
	}{Error: err.Error(), Status: h.app.Status()})
}

func (h *SessionHandler) respond(w http.ResponseWriter, status int) {
	writeJSON(w, status, sessionResponse{
		Status:  h.app.Status(),
		Session: h.app.Snapshot(),
	})
}
