package allocation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CivicMetrics/CD-Employment/internal/crosswalk"
)

// Allocate joins county observations to the reference district geography
// using population-share factors. Every observation is retained: counties
// absent from the crosswalk are resolved through the override table as wholly
// contained in one district (share 1). A county missing from both is fatal —
// dropping it would silently lose employment.
//
// Output is one row per (reference district, category, year) with summed
// employment contributions, ordered deterministically.
func Allocate(obs []Observation, factors []crosswalk.CountyFactor, overrides crosswalk.OverrideTable) ([]Employment, error) {
	byCounty := make(map[string][]crosswalk.CountyFactor)
	for _, f := range factors {
		byCounty[f.CountyFIPS] = append(byCounty[f.CountyFIPS], f)
	}

	type groupKey struct {
		district crosswalk.DistrictID
		category string
		year     int
	}
	totals := make(map[groupKey]float64)

	unmappedSeen := make(map[string]bool)
	for _, o := range obs {
		fs := byCounty[o.CountyFIPS]
		if len(fs) == 0 {
			d, ok := overrides[o.CountyFIPS]
			if !ok {
				unmappedSeen[o.CountyFIPS] = true
				continue
			}
			fs = []crosswalk.CountyFactor{{CountyFIPS: o.CountyFIPS, District: d, Share: 1}}
		}

		for _, f := range fs {
			key := groupKey{district: f.District, category: o.Category, year: o.Year}
			totals[key] += f.Share * o.Level
		}
	}

	// Hard invariant: no undefined-allocation rows may remain.
	if len(unmappedSeen) > 0 {
		unmapped := make([]string, 0, len(unmappedSeen))
		for fips := range unmappedSeen {
			unmapped = append(unmapped, fips)
		}
		sort.Strings(unmapped)
		return nil, fmt.Errorf("%w: %s", ErrUnmappedCounty, strings.Join(unmapped, ", "))
	}

	out := make([]Employment, 0, len(totals))
	for key, level := range totals {
		out = append(out, Employment{
			District: key.district,
			Category: key.category,
			Year:     key.year,
			Level:    level,
		})
	}
	sortEmployment(out)

	return out, nil
}

// sortEmployment orders rows by state, district number, category, year.
func sortEmployment(rows []Employment) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.District.State != b.District.State {
			return a.District.State < b.District.State
		}
		if a.District.Number != b.District.Number {
			return a.District.Number < b.District.Number
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Year < b.Year
	})
}
