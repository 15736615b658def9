package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	settings := store.DefaultSettings()
	settings.SmoothWindow = 1

	application := app.New(app.Config{
		Store:        s,
		PluginDir:    filepath.Join(tmpDir, "plugins"),
		Settings:     settings,
		MotionThresh: 0.05,
	})

	mockDetector := detector.NewMockDetector()
	application.SetDetector(mockDetector)
	defer mockDetector.Close()

	srv := server.New(server.Config{
		Store:            s,
		OnSettingsChange: application.ApplySettings,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("UpdateSettings", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/settings",
			strings.NewReader(`{"pinch_threshold": 0.05, "smooth_window": 1}`))
		if err != nil {
			t.Fatalf("new request error = %v", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("update settings error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		// The pipeline picked up the new threshold through the callback
		if got := application.Classifier().PinchThreshold(); got != 0.05 {
			t.Errorf("PinchThreshold() = %v, want 0.05", got)
		}
	})

	t.Run("CreateBinding", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/bindings",
			"application/json",
			strings.NewReader(`{"label": "Thumbs Up", "plugin_name": "media-keys", "action_name": "playpause"}`),
		)
		if err != nil {
			t.Fatalf("create binding error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	t.Run("RejectsUnknownLabelBinding", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/bindings",
			"application/json",
			strings.NewReader(`{"label": "Wave", "plugin_name": "media-keys", "action_name": "next"}`),
		)
		if err != nil {
			t.Fatalf("create binding error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("ClassifyDetectedHands", func(t *testing.T) {
		mockDetector.SetHands([]detector.HandLandmarks{detector.ThumbsUpLandmarks()})

		hands, err := mockDetector.Detect(nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}

		application.ProcessHands(hands)

		events, err := s.Events().ListRecent(10)
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		if events[0].Label != "Thumbs Up" {
			t.Errorf("event label = %q, want %q", events[0].Label, "Thumbs Up")
		}
	})

	t.Run("EventsVisibleOverAPI", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/events")
		if err != nil {
			t.Fatalf("list events error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var body struct {
			Events []struct {
				Label      string `json:"label"`
				Handedness string `json:"handedness"`
			} `json:"events"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if len(body.Events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(body.Events))
		}
		if body.Events[0].Label != "Thumbs Up" || body.Events[0].Handedness != "Right" {
			t.Errorf("unexpected event: %+v", body.Events[0])
		}
	})

	t.Run("ClearEvents", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/events", nil)
		if err != nil {
			t.Fatalf("new request error = %v", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("clear events error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
		}

		events, err := s.Events().ListRecent(10)
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("expected 0 events after clear, got %d", len(events))
		}
	})
}
