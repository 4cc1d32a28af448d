package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coopledger/models"
)

func TestFinishedFeedLifecycle(t *testing.T) {
	withTestDatabase(t, "finished-feed-lifecycle")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/finished-feeds", strings.NewReader(`{"name":"Layer Mash"}`))
	FinishedFeedResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[finishedFeedResponse](t, w)
	if created.Name != "Layer Mash" || created.CostPerKg != 0 {
		t.Fatalf("unexpected create response: %+v", created)
	}
	if created.Compositions == nil || len(created.Compositions) != 0 {
		t.Fatalf("expected empty compositions slice, got %+v", created.Compositions)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("PUT", "/api/finished-feeds/1", strings.NewReader(`{"name":"Layer Mash v2"}`))
	FinishedFeedResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody[finishedFeedResponse](t, w)
	if updated.Name != "Layer Mash v2" {
		t.Fatalf("expected renamed feed, got %+v", updated)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/api/finished-feeds/1", nil)
	FinishedFeedResource(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/finished-feeds/1", nil)
	FinishedFeedResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Fatalf("expected not found message, got %s", w.Body.String())
	}
}

func TestFinishedFeedShowIncludesCompositions(t *testing.T) {
	db := withTestDatabase(t, "finished-feed-compositions")

	material := models.RawMaterial{Name: "Maize", PricePerKg: 2.50}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("failed to seed material: %v", err)
	}
	feed := models.FinishedFeed{Name: "Layer Mash", CostPerKg: 1.50}
	if err := db.Create(&feed).Error; err != nil {
		t.Fatalf("failed to seed feed: %v", err)
	}
	composition := models.FeedComposition{FinishedFeedID: feed.ID, RawMaterialID: material.ID, Percentage: 60}
	if err := db.Create(&composition).Error; err != nil {
		t.Fatalf("failed to seed composition: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/finished-feeds/1", nil)
	FinishedFeedResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	shown := decodeBody[finishedFeedResponse](t, w)
	if len(shown.Compositions) != 1 {
		t.Fatalf("expected one composition, got %+v", shown.Compositions)
	}
	line := shown.Compositions[0]
	if line.RawMaterialName != "Maize" || line.Percentage != 60 {
		t.Fatalf("unexpected composition line: %+v", line)
	}
}

func TestFinishedFeedRequiresName(t *testing.T) {
	withTestDatabase(t, "finished-feed-validation")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/finished-feeds", strings.NewReader(`{"name":"  "}`))
	FinishedFeedResource(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "name is required") {
		t.Fatalf("expected name error, got %s", w.Body.String())
	}
}
