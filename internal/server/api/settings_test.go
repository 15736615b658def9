package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

func TestSettingsHandler_GetDefaults(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var payload settingsPayload
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	defaults := store.DefaultSettings()
	if payload.MaxHands != defaults.MaxHands {
		t.Errorf("expected max_hands %d, got %d", defaults.MaxHands, payload.MaxHands)
	}
	if payload.PinchThreshold != defaults.PinchThreshold {
		t.Errorf("expected pinch_threshold %v, got %v", defaults.PinchThreshold, payload.PinchThreshold)
	}
}

func TestSettingsHandler_Put(t *testing.T) {
	s := newTestStore(t)

	var notified *store.Settings
	handler := NewSettingsHandler(s, func(settings store.Settings) {
		notified = &settings
	})

	body, _ := json.Marshal(settingsPayload{
		CameraID:       1,
		MaxHands:       1,
		MinConfidence:  0.8,
		PinchThreshold: 0.05,
		SmoothWindow:   3,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// Settings were persisted
	saved, err := s.Settings().Load()
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if saved.CameraID != 1 || saved.PinchThreshold != 0.05 {
		t.Errorf("settings not persisted: %+v", saved)
	}

	// Pipeline was notified
	if notified == nil {
		t.Fatal("onChange callback was not called")
	}
	if notified.SmoothWindow != 3 {
		t.Errorf("expected notified smooth_window 3, got %d", notified.SmoothWindow)
	}
}

func TestSettingsHandler_PutPartialBody(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, nil)

	// Only pinch_threshold in the body; everything else keeps its value
	req := httptest.NewRequest(http.MethodPut, "/api/settings",
		strings.NewReader(`{"pinch_threshold": 0.12}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	saved, err := s.Settings().Load()
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if saved.PinchThreshold != 0.12 {
		t.Errorf("expected pinch_threshold 0.12, got %v", saved.PinchThreshold)
	}
	if saved.MaxHands != store.DefaultSettings().MaxHands {
		t.Errorf("expected max_hands unchanged, got %d", saved.MaxHands)
	}
}

func TestSettingsHandler_PutInvalidValues(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, nil)

	tests := []struct {
		name string
		body string
	}{
		{"negative camera", `{"camera_id": -1}`},
		{"zero max hands", `{"max_hands": 0}`},
		{"too many hands", `{"max_hands": 9}`},
		{"confidence above one", `{"min_confidence": 1.5}`},
		{"zero pinch threshold", `{"pinch_threshold": 0}`},
		{"zero smooth window", `{"smooth_window": 0}`},
		{"bad json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestSettingsHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/settings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
