package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "coopledger/internal/log"
	"coopledger/models"
)

type expenseRequest struct {
	Date        string     `json:"date"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Amount      floatField `json:"amount"`
}

type expenseResponse struct {
	ID          uint      `json:"id"`
	Date        string    `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExpenseResource handles CRUD interactions for miscellaneous expenses.
func ExpenseResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "expense request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	expenseID, hasID, ok := resourceID(r, "/api/expenses")
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listExpenses(w, r)
		case http.MethodPost:
			createExpense(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showExpense(w, r, expenseID)
	case http.MethodPut:
		updateExpense(w, r, expenseID)
	case http.MethodDelete:
		deleteExpense(w, r, expenseID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.OtherExpense

	query := database.WithContext(ctx).Order("date asc, id asc")

	if typeParam := strings.TrimSpace(r.URL.Query().Get("type")); typeParam != "" {
		query = query.Where("type = ?", typeParam)
	}

	query, err := applyDateRange(query, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list expenses", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load expenses")
		return
	}

	responses := make([]expenseResponse, 0, len(results))
	for _, expense := range results {
		responses = append(responses, projectExpense(expense))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showExpense(w http.ResponseWriter, r *http.Request, expenseID uint) {
	ctx := r.Context()
	var expense models.OtherExpense
	if err := database.WithContext(ctx).First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "expense not found")
			return
		}
		applog.Error(ctx, "failed to load expense", "error", err, "id", expenseID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load expense")
		return
	}
	writeJSON(w, http.StatusOK, projectExpense(expense))
}

func createExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid expense create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	expense, err := expenseFromPayload(payload)
	if err != nil {
		applog.Debug(ctx, "expense validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.WithContext(ctx).Create(&expense).Error; err != nil {
		applog.Error(ctx, "failed to create expense", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create expense")
		return
	}

	writeJSON(w, http.StatusCreated, projectExpense(expense))
}

func updateExpense(w http.ResponseWriter, r *http.Request, expenseID uint) {
	ctx := r.Context()
	var expense models.OtherExpense
	if err := database.WithContext(ctx).First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "expense not found")
			return
		}
		applog.Error(ctx, "failed to load expense for update", "error", err, "id", expenseID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load expense")
		return
	}

	var payload expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid expense update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	parsed, err := expenseFromPayload(payload)
	if err != nil {
		applog.Debug(ctx, "expense update validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]any{
		"date":        parsed.Date,
		"type":        parsed.Type,
		"description": parsed.Description,
		"amount":      parsed.Amount,
	}

	if err := database.WithContext(ctx).Model(&expense).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update expense", "error", err, "id", expenseID)
		writeJSONError(w, http.StatusBadRequest, "unable to update expense")
		return
	}

	if err := database.WithContext(ctx).First(&expense, expenseID).Error; err != nil {
		applog.Error(ctx, "failed to reload updated expense", "error", err, "id", expenseID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load updated record")
		return
	}

	writeJSON(w, http.StatusOK, projectExpense(expense))
}

func deleteExpense(w http.ResponseWriter, r *http.Request, expenseID uint) {
	ctx := r.Context()
	var expense models.OtherExpense
	if err := database.WithContext(ctx).First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "expense not found")
			return
		}
		applog.Error(ctx, "failed to load expense for delete", "error", err, "id", expenseID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load expense")
		return
	}

	if err := database.WithContext(ctx).Delete(&expense).Error; err != nil {
		applog.Error(ctx, "failed to delete expense", "error", err, "id", expenseID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func expenseFromPayload(payload expenseRequest) (models.OtherExpense, error) {
	expenseType := strings.TrimSpace(payload.Type)
	if expenseType == "" {
		return models.OtherExpense{}, errors.New("type is required")
	}
	if payload.Amount < 0 {
		return models.OtherExpense{}, errors.New("amount must not be negative")
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		return models.OtherExpense{}, err
	}

	return models.OtherExpense{
		Date:        date,
		Type:        expenseType,
		Description: strings.TrimSpace(payload.Description),
		Amount:      float64(payload.Amount),
	}, nil
}

func projectExpense(expense models.OtherExpense) expenseResponse {
	return expenseResponse{
		ID:          expense.ID,
		Date:        expense.Date.Format(dateLayout),
		Type:        expense.Type,
		Description: expense.Description,
		Amount:      expense.Amount,
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}
