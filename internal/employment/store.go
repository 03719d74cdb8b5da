package employment

import (
	"fmt"
	"sort"
	"time"

	"github.com/CivicMetrics/CD-Employment/internal/allocation"
	"github.com/CivicMetrics/CD-Employment/internal/db"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// insertBatchSize keeps each insert statement under Postgres parameter
// limits for full 16-period runs.
const insertBatchSize = 500

// SaveRun persists a run record and its reallocated district rows in one
// transaction. Row IDs are deterministic within the run, so a retried save
// of the same run conflicts instead of duplicating.
func SaveRun(source string, rows []allocation.Employment, startedAt time.Time) (uuid.UUID, error) {
	runID := uuid.New()

	yearSet := make(map[int]bool)
	for _, row := range rows {
		yearSet[row.Year] = true
	}
	years := make(pq.Int64Array, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, int64(y))
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })

	run := AggregationRun{
		ID:         runID,
		Source:     source,
		Years:      years,
		RowCount:   len(rows),
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}

	batch := make([]DistrictEmployment, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, DistrictEmployment{
			ID:       RowID(runID, row.District.State, row.District.Number, row.Category, row.Year),
			RunID:    runID,
			State:    row.District.State,
			District: row.District.Number,
			Category: row.Category,
			Year:     row.Year,
			Session:  row.Session,
			Level:    row.Level,
		})
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if len(batch) > 0 {
			if err := tx.CreateInBatches(&batch, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert district rows: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return runID, nil
}
