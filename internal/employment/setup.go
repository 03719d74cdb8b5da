package employment

import (
	"log"

	"github.com/CivicMetrics/CD-Employment/internal/db"
)

func Init() {
	// Ensure the employment schema exists
	if err := db.EnsureSchema(db.DB, "employment"); err != nil {
		log.Fatal("Failed to ensure schema employment: ", err)
	}

	// Auto-migrate all employment models
	if err := db.DB.AutoMigrate(
		&AggregationRun{},
		&DistrictEmployment{},
	); err != nil {
		log.Fatal("Failed to auto-migrate employment tables: ", err)
	}

	// Index for district lookups across a run
	if err := db.DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_district_employment_lookup
		ON employment.district_employment (run_id, state, district, year);
	`).Error; err != nil {
		log.Fatal("Failed to create idx_district_employment_lookup: ", err)
	}

	log.Println("Employment module initialized")
}
