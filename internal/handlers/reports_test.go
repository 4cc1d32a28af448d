package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coopledger/models"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := parseDate(value)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", value, err)
	}
	return date
}

func TestProfitReportAggregatesWithinRange(t *testing.T) {
	db := withTestDatabase(t, "profit-report-range")

	sales := []models.EggSale{
		{Date: mustDate(t, "2026-06-01"), Quality: "A", Quantity: 100, PricePerEgg: 0.10, TotalPrice: 10.00},
		{Date: mustDate(t, "2026-06-15"), Quality: "A", Quantity: 200, PricePerEgg: 0.10, TotalPrice: 20.00},
		{Date: mustDate(t, "2026-07-01"), Quality: "A", Quantity: 300, PricePerEgg: 0.10, TotalPrice: 30.00},
	}
	for i := range sales {
		if err := db.Create(&sales[i]).Error; err != nil {
			t.Fatalf("failed to seed sale: %v", err)
		}
	}

	flock := models.ChickenFlock{Strain: "ISA Brown", InitialCount: 10, CurrentCount: 10}
	if err := db.Create(&flock).Error; err != nil {
		t.Fatalf("failed to seed flock: %v", err)
	}
	feed := models.FinishedFeed{Name: "Layer Mash", CostPerKg: 1}
	if err := db.Create(&feed).Error; err != nil {
		t.Fatalf("failed to seed feed: %v", err)
	}
	consumption := []models.FeedConsumption{
		{FlockID: flock.ID, FinishedFeedID: feed.ID, Date: mustDate(t, "2026-06-10"), QuantityKg: 5, Cost: 5.00},
		{FlockID: flock.ID, FinishedFeedID: feed.ID, Date: mustDate(t, "2026-07-10"), QuantityKg: 9, Cost: 9.00},
	}
	for i := range consumption {
		if err := db.Create(&consumption[i]).Error; err != nil {
			t.Fatalf("failed to seed consumption: %v", err)
		}
	}

	expenses := []models.OtherExpense{
		{Date: mustDate(t, "2026-06-30"), Type: "veterinary", Amount: 7.00},
		{Date: mustDate(t, "2026-07-02"), Type: "labor", Amount: 99.00},
	}
	for i := range expenses {
		if err := db.Create(&expenses[i]).Error; err != nil {
			t.Fatalf("failed to seed expense: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/reports/profit?start=2026-06-01&end=2026-06-30", nil)
	ProfitReport(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	report := decodeBody[profitReportResponse](t, w)
	if report.SaleCount != 2 || !almostEqual(report.EggRevenue, 30.00) {
		t.Fatalf("unexpected revenue figures: %+v", report)
	}
	if report.ConsumptionCount != 1 || !almostEqual(report.FeedCost, 5.00) {
		t.Fatalf("unexpected feed cost figures: %+v", report)
	}
	if report.ExpenseCount != 1 || !almostEqual(report.OtherExpenses, 7.00) {
		t.Fatalf("unexpected expense figures: %+v", report)
	}
	// 30 - 5 - 7
	if !almostEqual(report.Profit, 18.00) {
		t.Fatalf("expected profit 18.00, got %v", report.Profit)
	}
}

func TestProfitReportEmptyRangeReportsZeros(t *testing.T) {
	withTestDatabase(t, "profit-report-empty")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/reports/profit?start=2030-01-01&end=2030-01-31", nil)
	ProfitReport(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	report := decodeBody[profitReportResponse](t, w)
	if report.EggRevenue != 0 || report.FeedCost != 0 || report.OtherExpenses != 0 || report.Profit != 0 {
		t.Fatalf("expected zero report, got %+v", report)
	}
}

func TestProfitReportRejectsBadDates(t *testing.T) {
	withTestDatabase(t, "profit-report-bad-dates")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/reports/profit?start=June", nil)
	ProfitReport(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProfitReportRejectsNonGet(t *testing.T) {
	withTestDatabase(t, "profit-report-method")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/reports/profit", nil)
	ProfitReport(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
