package handlers

import (
	"context"
	"net/http"
	"strings"

	applog "coopledger/internal/log"
	"coopledger/internal/pricing"
	"coopledger/models"
)

type profitReportResponse struct {
	Start            string  `json:"start,omitempty"`
	End              string  `json:"end,omitempty"`
	EggRevenue       float64 `json:"egg_revenue"`
	SaleCount        int     `json:"sale_count"`
	FeedCost         float64 `json:"feed_cost"`
	ConsumptionCount int     `json:"consumption_count"`
	OtherExpenses    float64 `json:"other_expenses"`
	ExpenseCount     int     `json:"expense_count"`
	Profit           float64 `json:"profit"`
}

// ProfitReport aggregates revenue, feed cost, and miscellaneous expenses
// over an inclusive date range and returns the resulting margin. Empty
// ranges report zeros.
func ProfitReport(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "profit report request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	report, err := buildProfitReport(r.Context(), r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func buildProfitReport(ctx context.Context, r *http.Request) (profitReportResponse, error) {
	report := profitReportResponse{
		Start: strings.TrimSpace(r.URL.Query().Get("start")),
		End:   strings.TrimSpace(r.URL.Query().Get("end")),
	}

	saleQuery := database.WithContext(ctx).Model(&models.EggSale{})
	saleQuery, err := applyDateRange(saleQuery, r)
	if err != nil {
		return profitReportResponse{}, err
	}
	var sales []models.EggSale
	if err := saleQuery.Find(&sales).Error; err != nil {
		return profitReportResponse{}, err
	}

	consumptionQuery := database.WithContext(ctx).Model(&models.FeedConsumption{})
	consumptionQuery, err = applyDateRange(consumptionQuery, r)
	if err != nil {
		return profitReportResponse{}, err
	}
	var consumption []models.FeedConsumption
	if err := consumptionQuery.Find(&consumption).Error; err != nil {
		return profitReportResponse{}, err
	}

	expenseQuery := database.WithContext(ctx).Model(&models.OtherExpense{})
	expenseQuery, err = applyDateRange(expenseQuery, r)
	if err != nil {
		return profitReportResponse{}, err
	}
	var expenses []models.OtherExpense
	if err := expenseQuery.Find(&expenses).Error; err != nil {
		return profitReportResponse{}, err
	}

	saleTotals := make([]float64, 0, len(sales))
	for _, sale := range sales {
		saleTotals = append(saleTotals, sale.TotalPrice)
	}
	consumptionCosts := make([]float64, 0, len(consumption))
	for _, entry := range consumption {
		consumptionCosts = append(consumptionCosts, entry.Cost)
	}
	expenseAmounts := make([]float64, 0, len(expenses))
	for _, expense := range expenses {
		expenseAmounts = append(expenseAmounts, expense.Amount)
	}

	report.EggRevenue = pricing.Sum(saleTotals)
	report.SaleCount = len(sales)
	report.FeedCost = pricing.Sum(consumptionCosts)
	report.ConsumptionCount = len(consumption)
	report.OtherExpenses = pricing.Sum(expenseAmounts)
	report.ExpenseCount = len(expenses)
	report.Profit = pricing.Sum([]float64{report.EggRevenue, -report.FeedCost, -report.OtherExpenses})

	applog.Debug(ctx, "profit report built",
		"start", report.Start,
		"end", report.End,
		"revenue", report.EggRevenue,
		"profit", report.Profit,
	)

	return report, nil
}
