package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFlockCreateDefaultsCurrentCount(t *testing.T) {
	withTestDatabase(t, "flock-default-count")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/flocks", strings.NewReader(`{"strain":"ISA Brown","entry_date":"2026-03-02","initial_count":500}`))
	FlockResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[flockResponse](t, w)
	if created.CurrentCount != 500 {
		t.Fatalf("expected current count to default to initial count, got %d", created.CurrentCount)
	}
	if created.EntryDate != "2026-03-02" {
		t.Fatalf("unexpected entry date: %s", created.EntryDate)
	}
}

func TestFlockCreateHonorsExplicitCurrentCount(t *testing.T) {
	withTestDatabase(t, "flock-explicit-count")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/flocks", strings.NewReader(`{"strain":"Leghorn","entry_date":"2026-01-15","initial_count":300,"current_count":0}`))
	FlockResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[flockResponse](t, w)
	if created.CurrentCount != 0 {
		t.Fatalf("expected explicit zero current count to stick, got %d", created.CurrentCount)
	}
}

func TestFlockUpdateAndDelete(t *testing.T) {
	withTestDatabase(t, "flock-update-delete")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/flocks", strings.NewReader(`{"strain":"ISA Brown","entry_date":"2026-03-02","initial_count":500}`))
	FlockResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("PUT", "/api/flocks/1", strings.NewReader(`{"strain":"ISA Brown","entry_date":"2026-03-02","initial_count":500,"current_count":493}`))
	FlockResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody[flockResponse](t, w)
	if updated.CurrentCount != 493 {
		t.Fatalf("expected current count 493, got %d", updated.CurrentCount)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/api/flocks/1", nil)
	FlockResource(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/api/flocks/1", nil)
	FlockResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeated delete, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Fatalf("expected not found message, got %s", w.Body.String())
	}
}

func TestFlockValidation(t *testing.T) {
	withTestDatabase(t, "flock-validation")

	tests := []struct {
		name    string
		payload string
	}{
		{"missing strain", `{"entry_date":"2026-03-02","initial_count":10}`},
		{"bad date", `{"strain":"ISA Brown","entry_date":"02/03/2026","initial_count":10}`},
		{"negative initial count", `{"strain":"ISA Brown","entry_date":"2026-03-02","initial_count":-1}`},
		{"negative current count", `{"strain":"ISA Brown","entry_date":"2026-03-02","initial_count":10,"current_count":-5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/flocks", strings.NewReader(tt.payload))
			FlockResource(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
