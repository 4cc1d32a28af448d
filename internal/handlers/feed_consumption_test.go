package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coopledger/models"
)

func TestFeedConsumptionSnapshotsCost(t *testing.T) {
	db := withTestDatabase(t, "consumption-cost-snapshot")

	flock := models.ChickenFlock{Strain: "ISA Brown", InitialCount: 500, CurrentCount: 500}
	if err := db.Create(&flock).Error; err != nil {
		t.Fatalf("failed to seed flock: %v", err)
	}
	feed := models.FinishedFeed{Name: "Layer Mash", CostPerKg: 2.78}
	if err := db.Create(&feed).Error; err != nil {
		t.Fatalf("failed to seed feed: %v", err)
	}

	w := httptest.NewRecorder()
	body := fmt.Sprintf(`{"flock_id":%d,"finished_feed_id":%d,"date":"2026-06-01","quantity_kg":58}`, flock.ID, feed.ID)
	req := httptest.NewRequest("POST", "/api/feed-consumption", strings.NewReader(body))
	FeedConsumptionResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[feedConsumptionResponse](t, w)
	if !almostEqual(created.Cost, 161.24) {
		t.Fatalf("expected cost 161.24, got %v", created.Cost)
	}

	// A later recipe change must not rewrite the recorded cost.
	if err := db.Model(&models.FinishedFeed{}).Where("id = ?", feed.ID).Update("cost_per_kg", 9.99).Error; err != nil {
		t.Fatalf("failed to change feed cost: %v", err)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", fmt.Sprintf("/api/feed-consumption/%d", created.ID), nil)
	FeedConsumptionResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	reloaded := decodeBody[feedConsumptionResponse](t, w)
	if !almostEqual(reloaded.Cost, 161.24) {
		t.Fatalf("expected cost to stay 161.24, got %v", reloaded.Cost)
	}
}

func TestFeedConsumptionForeignKeys(t *testing.T) {
	db := withTestDatabase(t, "consumption-foreign-keys")

	flock := models.ChickenFlock{Strain: "ISA Brown", InitialCount: 10, CurrentCount: 10}
	if err := db.Create(&flock).Error; err != nil {
		t.Fatalf("failed to seed flock: %v", err)
	}
	feed := models.FinishedFeed{Name: "Starter"}
	if err := db.Create(&feed).Error; err != nil {
		t.Fatalf("failed to seed feed: %v", err)
	}

	tests := []struct {
		name    string
		payload string
		message string
	}{
		{
			"missing flock",
			fmt.Sprintf(`{"flock_id":99,"finished_feed_id":%d,"date":"2026-06-01","quantity_kg":5}`, feed.ID),
			"referenced flock not found",
		},
		{
			"missing feed",
			fmt.Sprintf(`{"flock_id":%d,"finished_feed_id":99,"date":"2026-06-01","quantity_kg":5}`, flock.ID),
			"referenced finished feed not found",
		},
		{
			"zero quantity",
			fmt.Sprintf(`{"flock_id":%d,"finished_feed_id":%d,"date":"2026-06-01","quantity_kg":0}`, flock.ID, feed.ID),
			"quantity_kg must be greater than zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/feed-consumption", strings.NewReader(tt.payload))
			FeedConsumptionResource(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.message) {
				t.Fatalf("expected %q in body, got %s", tt.message, w.Body.String())
			}
		})
	}
}

func TestFeedConsumptionFlockFilter(t *testing.T) {
	db := withTestDatabase(t, "consumption-flock-filter")

	feed := models.FinishedFeed{Name: "Layer Mash", CostPerKg: 1}
	if err := db.Create(&feed).Error; err != nil {
		t.Fatalf("failed to seed feed: %v", err)
	}
	first := models.ChickenFlock{Strain: "ISA Brown", InitialCount: 10, CurrentCount: 10}
	second := models.ChickenFlock{Strain: "Leghorn", InitialCount: 10, CurrentCount: 10}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("failed to seed first flock: %v", err)
	}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("failed to seed second flock: %v", err)
	}

	date, err := parseDate("2026-06-01")
	if err != nil {
		t.Fatalf("failed to parse date: %v", err)
	}
	for _, flockID := range []uint{first.ID, first.ID, second.ID} {
		entry := models.FeedConsumption{FlockID: flockID, FinishedFeedID: feed.ID, Date: date, QuantityKg: 5, Cost: 5}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("failed to seed consumption: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", fmt.Sprintf("/api/feed-consumption?flock_id=%d", first.ID), nil)
	FeedConsumptionResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	listed := decodeBody[[]feedConsumptionResponse](t, w)
	if len(listed) != 2 {
		t.Fatalf("expected 2 entries for first flock, got %d", len(listed))
	}
}

func TestFeedConsumptionNotFound(t *testing.T) {
	withTestDatabase(t, "consumption-not-found")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/feed-consumption/12", nil)
	FeedConsumptionResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Fatalf("expected not found message, got %s", w.Body.String())
	}
}
