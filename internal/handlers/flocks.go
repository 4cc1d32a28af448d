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

type flockRequest struct {
	Strain       string    `json:"strain"`
	EntryDate    string    `json:"entry_date"`
	InitialCount intField  `json:"initial_count"`
	CurrentCount *intField `json:"current_count"`
}

type flockResponse struct {
	ID           uint      `json:"id"`
	Strain       string    `json:"strain"`
	EntryDate    string    `json:"entry_date"`
	InitialCount int       `json:"initial_count"`
	CurrentCount int       `json:"current_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FlockResource handles CRUD interactions for chicken flocks.
func FlockResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "flock request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	flockID, hasID, ok := resourceID(r, "/api/flocks")
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listFlocks(w, r)
		case http.MethodPost:
			createFlock(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showFlock(w, r, flockID)
	case http.MethodPut:
		updateFlock(w, r, flockID)
	case http.MethodDelete:
		deleteFlock(w, r, flockID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listFlocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.ChickenFlock
	if err := database.WithContext(ctx).Order("entry_date asc, id asc").Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list flocks", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load flocks")
		return
	}

	responses := make([]flockResponse, 0, len(results))
	for _, flock := range results {
		responses = append(responses, projectFlock(flock))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showFlock(w http.ResponseWriter, r *http.Request, flockID uint) {
	ctx := r.Context()
	var flock models.ChickenFlock
	if err := database.WithContext(ctx).First(&flock, flockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "flock not found")
			return
		}
		applog.Error(ctx, "failed to load flock", "error", err, "id", flockID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load flock")
		return
	}
	writeJSON(w, http.StatusOK, projectFlock(flock))
}

func createFlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload flockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid flock create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	flock, err := flockFromPayload(payload)
	if err != nil {
		applog.Debug(ctx, "flock validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.WithContext(ctx).Create(&flock).Error; err != nil {
		applog.Error(ctx, "failed to create flock", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create flock")
		return
	}

	writeJSON(w, http.StatusCreated, projectFlock(flock))
}

func updateFlock(w http.ResponseWriter, r *http.Request, flockID uint) {
	ctx := r.Context()
	var flock models.ChickenFlock
	if err := database.WithContext(ctx).First(&flock, flockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "flock not found")
			return
		}
		applog.Error(ctx, "failed to load flock for update", "error", err, "id", flockID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load flock")
		return
	}

	var payload flockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid flock update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	parsed, err := flockFromPayload(payload)
	if err != nil {
		applog.Debug(ctx, "flock update validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]any{
		"strain":        parsed.Strain,
		"entry_date":    parsed.EntryDate,
		"initial_count": parsed.InitialCount,
		"current_count": parsed.CurrentCount,
	}

	if err := database.WithContext(ctx).Model(&flock).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update flock", "error", err, "id", flockID)
		writeJSONError(w, http.StatusBadRequest, "unable to update flock")
		return
	}

	if err := database.WithContext(ctx).First(&flock, flockID).Error; err != nil {
		applog.Error(ctx, "failed to reload updated flock", "error", err, "id", flockID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load updated record")
		return
	}

	writeJSON(w, http.StatusOK, projectFlock(flock))
}

func deleteFlock(w http.ResponseWriter, r *http.Request, flockID uint) {
	ctx := r.Context()
	var flock models.ChickenFlock
	if err := database.WithContext(ctx).First(&flock, flockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "flock not found")
			return
		}
		applog.Error(ctx, "failed to load flock for delete", "error", err, "id", flockID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load flock")
		return
	}

	if err := database.WithContext(ctx).Delete(&flock).Error; err != nil {
		applog.Error(ctx, "failed to delete flock", "error", err, "id", flockID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete flock")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func flockFromPayload(payload flockRequest) (models.ChickenFlock, error) {
	strain := strings.TrimSpace(payload.Strain)
	if strain == "" {
		return models.ChickenFlock{}, errors.New("strain is required")
	}

	entryDate, err := parseDate(payload.EntryDate)
	if err != nil {
		return models.ChickenFlock{}, err
	}

	if payload.InitialCount < 0 {
		return models.ChickenFlock{}, errors.New("initial_count must not be negative")
	}

	// New flocks start at full strength unless a current count is given.
	currentCount := int(payload.InitialCount)
	if payload.CurrentCount != nil {
		if *payload.CurrentCount < 0 {
			return models.ChickenFlock{}, errors.New("current_count must not be negative")
		}
		currentCount = int(*payload.CurrentCount)
	}

	return models.ChickenFlock{
		Strain:       strain,
		EntryDate:    entryDate,
		InitialCount: int(payload.InitialCount),
		CurrentCount: currentCount,
	}, nil
}

func projectFlock(flock models.ChickenFlock) flockResponse {
	return flockResponse{
		ID:           flock.ID,
		Strain:       flock.Strain,
		EntryDate:    flock.EntryDate.Format(dateLayout),
		InitialCount: flock.InitialCount,
		CurrentCount: flock.CurrentCount,
		CreatedAt:    flock.CreatedAt,
		UpdatedAt:    flock.UpdatedAt,
	}
}
