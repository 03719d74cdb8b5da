package employment

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AggregationRun records provenance for one batch pipeline run.
type AggregationRun struct {
	ID         uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Source     string        `json:"source"` // e.g. extract path or "api"
	Years      pq.Int64Array `json:"years" gorm:"type:integer[]"`
	RowCount   int           `json:"row_count"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

func (AggregationRun) TableName() string { return "employment.aggregation_runs" }

// DistrictEmployment is one stored (district, category, year) employment
// estimate under the session's actual district geography.
type DistrictEmployment struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RunID    uuid.UUID `json:"run_id" gorm:"type:uuid;index"`
	State    string    `json:"state"`
	District int       `json:"district"`
	Category string    `json:"category"`
	Year     int       `json:"year"`
	Session  int       `json:"session"`
	Level    float64   `json:"level"`
}

func (DistrictEmployment) TableName() string { return "employment.district_employment" }
