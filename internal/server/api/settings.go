package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/headtype/internal/gesture"
)

// SettingsController reads and applies the gesture thresholds.
type SettingsController interface {
	Settings() gesture.Config
	ApplySettings(cfg gesture.Config) error
}

// SettingsHandler serves /api/settings.
type SettingsHandler struct {
	app SettingsController
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(a SettingsController) *SettingsHandler {
	return &SettingsHandler{app: a}
}

type settingsResponse struct {
	DeadZone       float64 `json:"dead_zone"`
	OpenThreshold  float64 `json:"open_threshold"`
	CloseThreshold float64 `json:"close_threshold"`
	CooldownMs     int64   `json:"cooldown_ms"`
}

// updateSettingsRequest leaves fields that are not sent unchanged.
type updateSettingsRequest struct {
	DeadZone       *float64 `json:"dead_zone"`
	OpenThreshold  *float64 `json:"open_threshold"`
	CloseThreshold *float64 `json:"close_threshold"`
	CooldownMs     *int64   `json:"cooldown_ms"`
}

func toSettingsResponse(cfg gesture.Config) settingsResponse {
	return settingsResponse{
		DeadZone:       cfg.DeadZone,
		OpenThreshold:  cfg.OpenThreshold,
		CloseThreshold: cfg.CloseThreshold,
		CooldownMs:     cfg.Cooldown.Milliseconds(),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toSettingsResponse(h.app.Settings()))
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cfg := h.app.Settings()
	if req.DeadZone != nil {
		cfg.DeadZone = *req.DeadZone
	}
	if req.OpenThreshold != nil {
		cfg.OpenThreshold = *req.OpenThreshold
	}
	if req.CloseThreshold != nil {
		cfg.CloseThreshold = *req.CloseThreshold
	}
	if req.CooldownMs != nil {
		if ms := *req.CooldownMs; ms < 0 || ms > gesture.MaxCooldown.Milliseconds() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("cooldown_ms must be between 0 and %d", gesture.MaxCooldown.Milliseconds()))
			return
		}
		cfg.Cooldown = time.Duration(*req.CooldownMs) * time.Millisecond
	}

	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.app.ApplySettings(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to apply settings")
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(h.app.Settings()))
}
