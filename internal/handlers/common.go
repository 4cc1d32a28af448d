package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "coopledger/internal/log"
)

// dateLayout is the calendar-date format used across the API boundary.
const dateLayout = "2006-01-02"

var database *gorm.DB

// Configure installs the shared database handle used by the HTTP handlers.
func Configure(db *gorm.DB) {
	database = db
}

// resourceID extracts the trailing numeric identifier from a resource path,
// e.g. /api/flocks/12 with prefix /api/flocks yields 12. The second result
// reports whether an identifier segment was present at all; the third is
// false when the segment is present but not numeric.
func resourceID(r *http.Request, prefix string) (uint, bool, bool) {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")
	if path == "" {
		return 0, false, true
	}
	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid resource identifier", "identifier", path, "error", err)
		return 0, true, false
	}
	return uint(idValue), true, true
}

func parseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected %s", value, dateLayout)
	}
	return parsed, nil
}

// applyDateRange narrows a query to start <= date <= end using the optional
// start/end query parameters. Both bounds are inclusive; a missing parameter
// leaves that side open.
func applyDateRange(query *gorm.DB, r *http.Request) (*gorm.DB, error) {
	if startParam := strings.TrimSpace(r.URL.Query().Get("start")); startParam != "" {
		start, err := parseDate(startParam)
		if err != nil {
			return nil, err
		}
		query = query.Where("date >= ?", start)
	}
	if endParam := strings.TrimSpace(r.URL.Query().Get("end")); endParam != "" {
		end, err := parseDate(endParam)
		if err != nil {
			return nil, err
		}
		query = query.Where("date <= ?", end)
	}
	return query, nil
}

// floatField accepts a JSON number or a numeric string. Form-driven clients
// historically sent "12.5", so both spellings are honored at the boundary.
type floatField float64

func (f *floatField) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", text)
	}
	*f = floatField(value)
	return nil
}

// intField accepts a JSON integer or a numeric string.
type intField int

func (f *intField) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("invalid integer value %q", text)
	}
	*f = intField(value)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
