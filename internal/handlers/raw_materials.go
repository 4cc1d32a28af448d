package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"coopledger/internal/feedcost"
	applog "coopledger/internal/log"
	"coopledger/models"
)

type rawMaterialRequest struct {
	Name       string     `json:"name"`
	PricePerKg floatField `json:"price_per_kg"`
}

type rawMaterialResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	PricePerKg float64   `json:"price_per_kg"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RawMaterialResource handles CRUD interactions for raw feed materials.
func RawMaterialResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "raw material request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	materialID, hasID, ok := resourceID(r, "/api/raw-materials")
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listRawMaterials(w, r)
		case http.MethodPost:
			createRawMaterial(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRawMaterial(w, r, materialID)
	case http.MethodPut:
		updateRawMaterial(w, r, materialID)
	case http.MethodDelete:
		deleteRawMaterial(w, r, materialID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listRawMaterials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.RawMaterial
	if err := database.WithContext(ctx).Order("name asc").Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list raw materials", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load raw materials")
		return
	}

	responses := make([]rawMaterialResponse, 0, len(results))
	for _, material := range results {
		responses = append(responses, projectRawMaterial(material))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showRawMaterial(w http.ResponseWriter, r *http.Request, materialID uint) {
	ctx := r.Context()
	var material models.RawMaterial
	if err := database.WithContext(ctx).First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "raw material not found")
			return
		}
		applog.Error(ctx, "failed to load raw material", "error", err, "id", materialID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load raw material")
		return
	}
	writeJSON(w, http.StatusOK, projectRawMaterial(material))
}

func createRawMaterial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload rawMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid raw material create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	if payload.PricePerKg < 0 {
		writeJSONError(w, http.StatusBadRequest, "price_per_kg must not be negative")
		return
	}

	material := models.RawMaterial{
		Name:       name,
		PricePerKg: float64(payload.PricePerKg),
	}

	if err := database.WithContext(ctx).Create(&material).Error; err != nil {
		applog.Error(ctx, "failed to create raw material", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create raw material")
		return
	}

	writeJSON(w, http.StatusCreated, projectRawMaterial(material))
}

func updateRawMaterial(w http.ResponseWriter, r *http.Request, materialID uint) {
	ctx := r.Context()
	var material models.RawMaterial
	if err := database.WithContext(ctx).First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "raw material not found")
			return
		}
		applog.Error(ctx, "failed to load raw material for update", "error", err, "id", materialID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load raw material")
		return
	}

	var payload rawMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid raw material update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	if payload.PricePerKg < 0 {
		writeJSONError(w, http.StatusBadRequest, "price_per_kg must not be negative")
		return
	}

	updates := map[string]any{
		"name":         name,
		"price_per_kg": float64(payload.PricePerKg),
	}

	if err := database.WithContext(ctx).Model(&material).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update raw material", "error", err, "id", materialID)
		writeJSONError(w, http.StatusBadRequest, "unable to update raw material")
		return
	}

	// A price change flows into every blend using this material.
	if err := feedcost.RecomputeForMaterial(ctx, database, materialID); err != nil {
		applog.Error(ctx, "failed to refresh feed costs after price change", "error", err, "id", materialID)
		writeJSONError(w, http.StatusInternalServerError, "unable to refresh feed costs")
		return
	}

	if err := database.WithContext(ctx).First(&material, materialID).Error; err != nil {
		applog.Error(ctx, "failed to reload updated raw material", "error", err, "id", materialID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load updated record")
		return
	}

	writeJSON(w, http.StatusOK, projectRawMaterial(material))
}

func deleteRawMaterial(w http.ResponseWriter, r *http.Request, materialID uint) {
	ctx := r.Context()
	var material models.RawMaterial
	if err := database.WithContext(ctx).First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "raw material not found")
			return
		}
		applog.Error(ctx, "failed to load raw material for delete", "error", err, "id", materialID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load raw material")
		return
	}

	if err := database.WithContext(ctx).Delete(&material).Error; err != nil {
		applog.Error(ctx, "failed to delete raw material", "error", err, "id", materialID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete raw material")
		return
	}

	if err := feedcost.RecomputeForMaterial(ctx, database, materialID); err != nil {
		applog.Error(ctx, "failed to refresh feed costs after material delete", "error", err, "id", materialID)
		writeJSONError(w, http.StatusInternalServerError, "unable to refresh feed costs")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func projectRawMaterial(material models.RawMaterial) rawMaterialResponse {
	return rawMaterialResponse{
		ID:         material.ID,
		Name:       material.Name,
		PricePerKg: material.PricePerKg,
		CreatedAt:  material.CreatedAt,
		UpdatedAt:  material.UpdatedAt,
	}
}
