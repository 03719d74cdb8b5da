package qcew

import "github.com/CivicMetrics/CD-Employment/internal/allocation"

// Observation is one row of a county/state employment extract: an annual
// average employment level for one area, category, and year, tagged with the
// source's aggregation-level label.
type Observation struct {
	AreaFIPS      string
	AreaTitle     string
	AggLevel      string
	Category      string
	CategoryTitle string
	Year          int
	Level         float64
}

// ToRawRecords converts extract rows into the pipeline's input shape.
func ToRawRecords(obs []Observation) []allocation.RawRecord {
	out := make([]allocation.RawRecord, len(obs))
	for i, o := range obs {
		out[i] = allocation.RawRecord{
			AreaFIPS: o.AreaFIPS,
			AggLevel: o.AggLevel,
			Category: o.Category,
			Year:     o.Year,
			Level:    o.Level,
		}
	}
	return out
}
