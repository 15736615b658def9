package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func createTestBinding(t *testing.T, handler *BindingHandler, label string) bindingResponse {
	t.Helper()

	body, err := json.Marshal(createBindingRequest{
		Label:      label,
		PluginName: "media-keys",
		ActionName: "playpause",
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created bindingResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return created
}

func TestBindingHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	created := createTestBinding(t, handler, "Thumbs Up")

	if created.ID == "" {
		t.Error("expected generated binding ID")
	}
	if created.Label != "Thumbs Up" {
		t.Errorf("expected label 'Thumbs Up', got %q", created.Label)
	}
	if !created.Enabled {
		t.Error("new binding should be enabled")
	}
	if string(created.Config) != "{}" {
		t.Errorf("expected default config '{}', got %q", created.Config)
	}
}

func TestBindingHandler_CreateInvalidLabel(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	for _, label := range []string{"Wave", "Unknown", "fist"} {
		body, _ := json.Marshal(createBindingRequest{
			Label:      label,
			PluginName: "media-keys",
			ActionName: "playpause",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("label %q: expected status %d, got %d", label, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestBindingHandler_CreateMissingFields(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	tests := []struct {
		name string
		req  createBindingRequest
	}{
		{"missing label", createBindingRequest{PluginName: "media-keys", ActionName: "playpause"}},
		{"missing plugin", createBindingRequest{Label: "Fist", ActionName: "playpause"}},
		{"missing action", createBindingRequest{Label: "Fist", PluginName: "media-keys"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestBindingHandler_CreateDuplicateLabel(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	createTestBinding(t, handler, "Fist")

	body, _ := json.Marshal(createBindingRequest{
		Label:      "Fist",
		PluginName: "media-keys",
		ActionName: "mute",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestBindingHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	createTestBinding(t, handler, "Fist")
	createTestBinding(t, handler, "Peace")

	req := httptest.NewRequest(http.MethodGet, "/api/bindings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listBindingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Bindings) != 2 {
		t.Errorf("expected 2 bindings, got %d", len(response.Bindings))
	}
}

func TestBindingHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	created := createTestBinding(t, handler, "OK")

	req := httptest.NewRequest(http.MethodGet, "/api/bindings/"+created.ID, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got bindingResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Label != "OK" {
		t.Errorf("expected label 'OK', got %q", got.Label)
	}
}

func TestBindingHandler_GetNotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/bindings/nonexistent", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestBindingHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	created := createTestBinding(t, handler, "Open Palm")

	enabled := false
	body, _ := json.Marshal(updateBindingRequest{
		ActionName: "next",
		Enabled:    &enabled,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/bindings/"+created.ID, bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var updated bindingResponse
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.ActionName != "next" {
		t.Errorf("expected action 'next', got %q", updated.ActionName)
	}
	if updated.Enabled {
		t.Error("expected binding to be disabled")
	}
	// Unspecified fields keep their values
	if updated.Label != "Open Palm" {
		t.Errorf("expected label 'Open Palm', got %q", updated.Label)
	}
}

func TestBindingHandler_UpdateLabelConflict(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	createTestBinding(t, handler, "Fist")
	other := createTestBinding(t, handler, "Peace")

	body, _ := json.Marshal(updateBindingRequest{Label: "Fist"})
	req := httptest.NewRequest(http.MethodPut, "/api/bindings/"+other.ID, bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestBindingHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	created := createTestBinding(t, handler, "Peace")

	req := httptest.NewRequest(http.MethodDelete, "/api/bindings/"+created.ID, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	// Verify it's gone
	req = httptest.NewRequest(http.MethodGet, "/api/bindings/"+created.ID, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestBindingHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	req := httptest.NewRequest(http.MethodPatch, "/api/bindings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
