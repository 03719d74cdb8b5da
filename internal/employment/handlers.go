package employment

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/CivicMetrics/CD-Employment/internal/allocation"
	"github.com/CivicMetrics/CD-Employment/internal/crosswalk"
	"github.com/CivicMetrics/CD-Employment/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

// ListRuns returns all aggregation runs, newest first.
func ListRuns(w http.ResponseWriter, r *http.Request) {
	var runs []AggregationRun
	if err := db.DB.Order("finished_at DESC").Find(&runs).Error; err != nil {
		http.Error(w, "Failed to fetch runs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// ListDistricts returns district employment rows with optional filtering by
// run, session, year, category, and a comma-separated state list.
func ListDistricts(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Model(&DistrictEmployment{})

	if runID := r.URL.Query().Get("run_id"); runID != "" {
		query = query.Where("run_id = ?", runID)
	} else {
		// Default to the latest run so results come from one geography pass.
		var latest AggregationRun
		if err := db.DB.Order("finished_at DESC").First(&latest).Error; err != nil {
			http.Error(w, "No aggregation runs found", http.StatusNotFound)
			return
		}
		query = query.Where("run_id = ?", latest.ID)
	}

	if sessionStr := r.URL.Query().Get("session"); sessionStr != "" {
		session, err := strconv.Atoi(sessionStr)
		if err != nil {
			http.Error(w, "Invalid session", http.StatusBadRequest)
			return
		}
		query = query.Where("session = ?", session)
	}

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return
		}
		query = query.Where("year = ?", year)
	}

	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if statesParam := r.URL.Query().Get("states"); statesParam != "" {
		var states []string
		for _, s := range strings.Split(statesParam, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				states = append(states, s)
			}
		}
		query = query.Where("state = ANY(?)", pq.Array(states))
	}

	var rows []DistrictEmployment
	if err := query.Order("state, district, year, category").Find(&rows).Error; err != nil {
		http.Error(w, "Failed to fetch district employment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// GetDistrictWide returns one district's employment pivoted wide: one row
// per year with one value per category.
func GetDistrictWide(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(chi.URLParam(r, "state"))
	number, err := strconv.Atoi(chi.URLParam(r, "district"))
	if err != nil || number < 0 {
		http.Error(w, "Invalid district number", http.StatusBadRequest)
		return
	}

	var latest AggregationRun
	if err := db.DB.Order("finished_at DESC").First(&latest).Error; err != nil {
		http.Error(w, "No aggregation runs found", http.StatusNotFound)
		return
	}

	var rows []DistrictEmployment
	if err := db.DB.
		Where("run_id = ? AND state = ? AND district = ?", latest.ID, state, number).
		Find(&rows).Error; err != nil {
		http.Error(w, "Failed to fetch district employment: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(rows) == 0 {
		http.Error(w, "District not found", http.StatusNotFound)
		return
	}

	long := make([]allocation.Employment, len(rows))
	for i, row := range rows {
		long[i] = allocation.Employment{
			District: crosswalk.DistrictID{State: row.State, Number: row.District},
			Category: row.Category,
			Year:     row.Year,
			Session:  row.Session,
			Level:    row.Level,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toWideOut(allocation.Pivot(long)))
}

// ListCategories returns the distinct category codes in the latest run.
func ListCategories(w http.ResponseWriter, r *http.Request) {
	var latest AggregationRun
	if err := db.DB.Order("finished_at DESC").First(&latest).Error; err != nil {
		http.Error(w, "No aggregation runs found", http.StatusNotFound)
		return
	}

	var categories []string
	if err := db.DB.Model(&DistrictEmployment{}).
		Where("run_id = ?", latest.ID).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		http.Error(w, "Failed to fetch categories: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

// wideOut is the JSON shape of a pivoted row.
type wideOut struct {
	State    string             `json:"state"`
	District int                `json:"district"`
	Year     int                `json:"year"`
	Session  int                `json:"session"`
	Levels   map[string]float64 `json:"levels"`
}

func toWideOut(rows []allocation.WideRow) []wideOut {
	out := make([]wideOut, len(rows))
	for i, row := range rows {
		out[i] = wideOut{
			State:    row.District.State,
			District: row.District.Number,
			Year:     row.Year,
			Session:  row.Session,
			Levels:   row.Levels,
		}
	}
	return out
}
