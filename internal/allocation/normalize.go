package allocation

import (
	"log"
	"strings"
)

// CountyAggLevels enumerates the aggregation-level labels kept for the
// district pipeline: county totals and county-by-industry breakdowns. The
// upstream label text is matched exactly, never inferred.
var CountyAggLevels = map[string]struct{}{
	"County, Total Covered":                       {},
	"County, Total -- by ownership sector":        {},
	"County, NAICS Sector -- by ownership sector": {},
}

// StateAggLevels is the equivalent allow-list for the state-level variant of
// the aggregation, which skips the redistricting step entirely.
var StateAggLevels = map[string]struct{}{
	"State, Total Covered":                       {},
	"State, Total -- by ownership sector":        {},
	"State, NAICS Sector -- by ownership sector": {},
}

// unknownGeoSuffix marks "unknown or undefined" sub-geography rows per the
// upstream agency's FIPS convention.
const unknownGeoSuffix = "999"

// Normalize filters raw extract rows to the requested aggregation levels,
// drops unknown-geography codes, and completes the sparse matrix: any
// (unit, category, period) cell implied by the kept rows but absent from the
// input becomes a zero-valued record. The upstream source omits zero cells,
// so absence is expected, logged, and never fatal.
//
// The returned AuditCounts holds surviving raw-row counts per (period,
// category); the caller audits completeness from it. Filled records do not
// count.
func Normalize(raw []RawRecord, allowed map[string]struct{}) ([]Observation, AuditCounts) {
	counts := make(AuditCounts)

	type cell struct {
		unit     string
		category string
		year     int
	}

	var kept []Observation
	seen := make(map[cell]bool)
	units := make(map[string]bool)
	categories := make(map[string]bool)
	years := make(map[int]bool)

	for _, r := range raw {
		if _, ok := allowed[r.AggLevel]; !ok {
			continue
		}
		if strings.HasSuffix(r.AreaFIPS, unknownGeoSuffix) {
			continue
		}

		kept = append(kept, Observation{
			CountyFIPS: r.AreaFIPS,
			Category:   r.Category,
			Year:       r.Year,
			Level:      r.Level,
		})
		counts[AuditKey{Year: r.Year, Category: r.Category}]++
		seen[cell{r.AreaFIPS, r.Category, r.Year}] = true
		units[r.AreaFIPS] = true
		categories[r.Category] = true
		years[r.Year] = true
	}

	// Complete the cross product of units × categories × periods.
	filled := 0
	for unit := range units {
		for category := range categories {
			for year := range years {
				if seen[cell{unit, category, year}] {
					continue
				}
				kept = append(kept, Observation{
					CountyFIPS: unit,
					Category:   category,
					Year:       year,
					Filled:     true,
				})
				filled++
			}
		}
	}

	if filled > 0 {
		log.Printf("normalize: filled %d absent cells with zero employment", filled)
	}

	return kept, counts
}
