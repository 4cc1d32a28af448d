package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coopledger/models"
)

func TestEggProductionLifecycle(t *testing.T) {
	db := withTestDatabase(t, "egg-production-lifecycle")

	flock := models.ChickenFlock{Strain: "ISA Brown", InitialCount: 500, CurrentCount: 500}
	if err := db.Create(&flock).Error; err != nil {
		t.Fatalf("failed to seed flock: %v", err)
	}

	w := httptest.NewRecorder()
	body := fmt.Sprintf(`{"flock_id":%d,"date":"2026-06-01","quality":"A","quantity":430}`, flock.ID)
	req := httptest.NewRequest("POST", "/api/egg-production", strings.NewReader(body))
	EggProductionResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[eggProductionResponse](t, w)
	if created.Quantity != 430 || created.FlockStrain != "ISA Brown" {
		t.Fatalf("unexpected create response: %+v", created)
	}

	w = httptest.NewRecorder()
	body = fmt.Sprintf(`{"flock_id":%d,"date":"2026-06-01","quality":"B","quantity":12}`, flock.ID)
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/egg-production/%d", created.ID), strings.NewReader(body))
	EggProductionResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody[eggProductionResponse](t, w)
	if updated.Quality != "B" || updated.Quantity != 12 {
		t.Fatalf("unexpected update response: %+v", updated)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", fmt.Sprintf("/api/egg-production/%d", created.ID), nil)
	EggProductionResource(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestEggProductionRequiresExistingFlock(t *testing.T) {
	withTestDatabase(t, "egg-production-missing-flock")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/egg-production", strings.NewReader(`{"flock_id":42,"date":"2026-06-01","quality":"A","quantity":10}`))
	EggProductionResource(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "referenced flock not found") {
		t.Fatalf("expected flock error, got %s", w.Body.String())
	}
}

func TestEggProductionNotFound(t *testing.T) {
	withTestDatabase(t, "egg-production-not-found")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/egg-production/9", nil)
	EggProductionResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Fatalf("expected not found message, got %s", w.Body.String())
	}
}
