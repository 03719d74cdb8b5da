package allocation

import "github.com/CivicMetrics/CD-Employment/internal/crosswalk"

// RawRecord is one row of an upstream employment extract before filtering.
type RawRecord struct {
	AreaFIPS string // county or state FIPS code
	AggLevel string // free-text aggregation-level label from the source
	Category string // ownership/industry category code
	Year     int
	Level    float64 // annual average employment
}

// Observation is a normalized county-level observation. Filled marks records
// synthesized for cells the sparse upstream extract omits.
type Observation struct {
	CountyFIPS string
	Category   string
	Year       int
	Level      float64
	Filled     bool
}

// Employment is total employment attributed to one district for one category
// and year. Session is 0 until the period tagger runs.
type Employment struct {
	District crosswalk.DistrictID
	Category string
	Year     int
	Session  int
	Level    float64
}

// WideRow is one district-year with one employment value per category code.
type WideRow struct {
	District crosswalk.DistrictID
	Year     int
	Session  int
	Levels   map[string]float64
}

// AuditKey identifies one (period, category) cell of the completeness audit.
type AuditKey struct {
	Year     int
	Category string
}

// AuditCounts records how many raw rows survived filtering per period and
// category. A zero count is a completeness signal for the caller, not an
// error.
type AuditCounts map[AuditKey]int
