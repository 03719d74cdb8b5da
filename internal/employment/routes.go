package employment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Read-only access to aggregated employment data
	r.Get("/runs", ListRuns)
	r.Get("/districts", ListDistricts)
	r.Get("/districts/{state}/{district}/wide", GetDistrictWide)
	r.Get("/categories", ListCategories)

	return r
}
