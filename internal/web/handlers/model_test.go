package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-tagger/internal/engine"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name        string
		engine      func(t *testing.T) *engine.Engine
		modelLoaded bool
	}{
		{"untrained", newTestEngine, false},
		{"trained", newTrainedEngine, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			recorder := httptest.NewRecorder()
			Health(tt.engine(t))(recorder, req)

			assertStatusCode(t, recorder, http.StatusOK)

			var resp map[string]any
			parseJSONResponse(t, recorder, &resp)
			if resp["status"] != "ok" {
				t.Errorf("expected status ok, got %v", resp["status"])
			}
			if resp["model_loaded"] != tt.modelLoaded {
				t.Errorf("expected model_loaded %v, got %v", tt.modelLoaded, resp["model_loaded"])
			}
		})
	}
}

func TestModelGet_Untrained(t *testing.T) {
	handler := NewModelHandler(newTestEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/api/model", nil)
	recorder := httptest.NewRecorder()
	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var info engine.Info
	parseJSONResponse(t, recorder, &info)
	if info.Trained {
		t.Error("expected trained to be false")
	}
	if info.Encoder != "stub" {
		t.Errorf("expected encoder stub, got %q", info.Encoder)
	}
	if info.Samples != 0 || len(info.People) != 0 {
		t.Errorf("expected empty model info, got %+v", info)
	}
}

func TestModelGet_Trained(t *testing.T) {
	handler := NewModelHandler(newTrainedEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/api/model", nil)
	recorder := httptest.NewRecorder()
	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var info engine.Info
	parseJSONResponse(t, recorder, &info)
	if !info.Trained {
		t.Fatal("expected trained to be true")
	}
	if info.Samples != 6 {
		t.Errorf("expected 6 samples, got %d", info.Samples)
	}
	if info.Dim != 2 {
		t.Errorf("expected dim 2, got %d", info.Dim)
	}
	if info.K != 5 {
		t.Errorf("expected k 5, got %d", info.K)
	}
	if len(info.People) != 2 || info.People[0] != "alice" || info.People[1] != "bob" {
		t.Errorf("expected people [alice bob], got %v", info.People)
	}
	if info.Counts["alice"] != 3 || info.Counts["bob"] != 3 {
		t.Errorf("unexpected counts: %v", info.Counts)
	}
	if info.CreatedAt == nil {
		t.Error("expected a created_at timestamp")
	}
}
