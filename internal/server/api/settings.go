package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/store"
)

// SettingsHandler handles HTTP requests for viewer settings.
type SettingsHandler struct {
	store *store.Store

	// onChange is called with the new settings after a successful PUT so the
	// running pipeline can apply them without a restart. May be nil.
	onChange func(store.Settings)
}

// NewSettingsHandler creates a new SettingsHandler with the given store.
// onChange may be nil if nothing needs to react to settings changes.
func NewSettingsHandler(s *store.Store, onChange func(store.Settings)) *SettingsHandler {
	return &SettingsHandler{store: s, onChange: onChange}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type settingsPayload struct {
	CameraID       int     `json:"camera_id"`
	MaxHands       int     `json:"max_hands"`
	MinConfidence  float64 `json:"min_confidence"`
	PinchThreshold float64 `json:"pinch_threshold"`
	SmoothWindow   int     `json:"smooth_window"`
}

func toSettingsPayload(s store.Settings) settingsPayload {
	return settingsPayload{
		CameraID:       s.CameraID,
		MaxHands:       s.MaxHands,
		MinConfidence:  s.MinConfidence,
		PinchThreshold: s.PinchThreshold,
		SmoothWindow:   s.SmoothWindow,
	}
}

// validateSettings checks that all settings values are in range, returning a
// human-readable problem description or "" when valid.
func validateSettings(p settingsPayload) string {
	switch {
	case p.CameraID < 0:
		return "camera_id must not be negative"
	case p.MaxHands < 1 || p.MaxHands > 4:
		return "max_hands must be between 1 and 4"
	case p.MinConfidence < 0 || p.MinConfidence > 1:
		return "min_confidence must be between 0 and 1"
	case p.PinchThreshold <= 0 || p.PinchThreshold > 1:
		return "pinch_threshold must be between 0 and 1"
	case p.SmoothWindow < 1:
		return "smooth_window must be at least 1"
	}
	return ""
}

// get handles GET /api/settings and returns the persisted settings.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings().Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}

// put handles PUT /api/settings: validate, persist, then notify the pipeline.
func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	// Start from the current values so a partial body keeps the rest
	current, err := h.store.Settings().Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	payload := toSettingsPayload(current)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if problem := validateSettings(payload); problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	settings := store.Settings{
		CameraID:       payload.CameraID,
		MaxHands:       payload.MaxHands,
		MinConfidence:  payload.MinConfidence,
		PinchThreshold: payload.PinchThreshold,
		SmoothWindow:   payload.SmoothWindow,
	}

	if err := h.store.Settings().Save(settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	if h.onChange != nil {
		h.onChange(settings)
	}

	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}
