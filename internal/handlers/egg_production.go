package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "coopledger/internal/log"
	"coopledger/models"
)

type eggProductionRequest struct {
	FlockID  uint     `json:"flock_id"`
	Date     string   `json:"date"`
	Quality  string   `json:"quality"`
	Quantity intField `json:"quantity"`
}

type eggProductionResponse struct {
	ID          uint      `json:"id"`
	FlockID     uint      `json:"flock_id"`
	Date        string    `json:"date"`
	Quality     string    `json:"quality"`
	Quantity    int       `json:"quantity"`
	FlockStrain string    `json:"flock_strain,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EggProductionResource handles CRUD interactions for egg collection events.
func EggProductionResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "egg production request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	productionID, hasID, ok := resourceID(r, "/api/egg-production")
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listEggProduction(w, r)
		case http.MethodPost:
			createEggProduction(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showEggProduction(w, r, productionID)
	case http.MethodPut:
		updateEggProduction(w, r, productionID)
	case http.MethodDelete:
		deleteEggProduction(w, r, productionID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listEggProduction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.EggProduction

	query := database.WithContext(ctx).
		Preload("Flock").
		Order("date asc, id asc")

	if flockParam := strings.TrimSpace(r.URL.Query().Get("flock_id")); flockParam != "" {
		if idValue, err := strconv.ParseUint(flockParam, 10, 64); err == nil {
			query = query.Where("flock_id = ?", uint(idValue))
		}
	}

	query, err := applyDateRange(query, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list egg production", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg production")
		return
	}

	responses := make([]eggProductionResponse, 0, len(results))
	for _, production := range results {
		responses = append(responses, projectEggProduction(production))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showEggProduction(w http.ResponseWriter, r *http.Request, productionID uint) {
	ctx := r.Context()
	var production models.EggProduction
	if err := database.WithContext(ctx).Preload("Flock").First(&production, productionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "egg production not found")
			return
		}
		applog.Error(ctx, "failed to load egg production", "error", err, "id", productionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg production")
		return
	}
	writeJSON(w, http.StatusOK, projectEggProduction(production))
}

func createEggProduction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload eggProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid egg production create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	production, err := eggProductionFromPayload(ctx, payload)
	if err != nil {
		applog.Debug(ctx, "egg production validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.WithContext(ctx).Create(&production).Error; err != nil {
		applog.Error(ctx, "failed to create egg production", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create egg production")
		return
	}

	if err := database.WithContext(ctx).Preload("Flock").First(&production, production.ID).Error; err != nil {
		applog.Error(ctx, "failed to reload created egg production", "error", err, "id", production.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg production")
		return
	}

	writeJSON(w, http.StatusCreated, projectEggProduction(production))
}

func updateEggProduction(w http.ResponseWriter, r *http.Request, productionID uint) {
	ctx := r.Context()
	var existing models.EggProduction
	if err := database.WithContext(ctx).First(&existing, productionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "egg production not found")
			return
		}
		applog.Error(ctx, "failed to load egg production for update", "error", err, "id", productionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg production")
		return
	}

	var payload eggProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid egg production update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	parsed, err := eggProductionFromPayload(ctx, payload)
	if err != nil {
		applog.Debug(ctx, "egg production update validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]any{
		"flock_id": parsed.FlockID,
		"date":     parsed.Date,
		"quality":  parsed.Quality,
		"quantity": parsed.Quantity,
	}

	if err := database.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update egg production", "error", err, "id", productionID)
		writeJSONError(w, http.StatusBadRequest, "unable to update egg production")
		return
	}

	if err := database.WithContext(ctx).Preload("Flock").First(&existing, productionID).Error; err != nil {
		applog.Error(ctx, "failed to reload updated egg production", "error", err, "id", productionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg production")
		return
	}

	writeJSON(w, http.StatusOK, projectEggProduction(existing))
}

func deleteEggProduction(w http.ResponseWriter, r *http.Request, productionID uint) {
	ctx := r.Context()
	var production models.EggProduction
	if err := database.WithContext(ctx).First(&production, productionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "egg production not found")
			return
		}
		applog.Error(ctx, "failed to load egg production for delete", "error", err, "id", productionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg production")
		return
	}

	if err := database.WithContext(ctx).Delete(&production).Error; err != nil {
		applog.Error(ctx, "failed to delete egg production", "error", err, "id", productionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete egg production")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func eggProductionFromPayload(ctx context.Context, payload eggProductionRequest) (models.EggProduction, error) {
	if payload.FlockID == 0 {
		return models.EggProduction{}, errors.New("flock_id is required")
	}
	quality := strings.TrimSpace(payload.Quality)
	if quality == "" {
		return models.EggProduction{}, errors.New("quality is required")
	}
	if payload.Quantity < 0 {
		return models.EggProduction{}, errors.New("quantity must not be negative")
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		return models.EggProduction{}, err
	}

	var flockCount int64
	if err := database.WithContext(ctx).Model(&models.ChickenFlock{}).Where("id = ?", payload.FlockID).Count(&flockCount).Error; err != nil {
		return models.EggProduction{}, err
	}
	if flockCount == 0 {
		return models.EggProduction{}, errors.New("referenced flock not found")
	}

	return models.EggProduction{
		FlockID:  payload.FlockID,
		Date:     date,
		Quality:  quality,
		Quantity: int(payload.Quantity),
	}, nil
}

func projectEggProduction(production models.EggProduction) eggProductionResponse {
	response := eggProductionResponse{
		ID:        production.ID,
		FlockID:   production.FlockID,
		Date:      production.Date.Format(dateLayout),
		Quality:   production.Quality,
		Quantity:  production.Quantity,
		CreatedAt: production.CreatedAt,
		UpdatedAt: production.UpdatedAt,
	}

	if production.Flock != nil {
		response.FlockStrain = production.Flock.Strain
	}

	return response
}
