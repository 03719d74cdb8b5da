package allocation

import (
	"log"
	"math"

	"github.com/CivicMetrics/CD-Employment/internal/crosswalk"
)

// ConservationTolerance is the relative tolerance for the per-cell
// conservation check after reallocation.
const ConservationTolerance = 1e-6

// Reallocate restates reference-geography employment in terms of the
// district lines actually in force during each row's session.
//
// For sessions with a registered crosswalk, each session district's
// employment is the sum over its reference-district sources of
// (source employment × population share). Employment is extensive, so
// fractional contributions into the same destination are summed, never
// averaged. District identities the session's crosswalk does not mention on
// either side pass through unchanged: their boundaries were not redrawn.
//
// The conservation law — per (category, year), reference totals equal
// reallocated totals — is checked before returning and a violation aborts
// the run.
func Reallocate(ref []Employment, reg *crosswalk.Registry) ([]Employment, error) {
	type cellKey struct {
		district crosswalk.DistrictID
		category string
		year     int
	}
	type cyKey struct {
		category string
		year     int
	}

	// Index reference employment for the weighted-redistribution join. This
	// join targets already-aggregated district totals, not county data.
	refLevel := make(map[cellKey]float64)
	cellsBySession := make(map[int]map[cyKey]bool)
	sessions := make(map[int]int) // year → session, from tagged rows
	for _, row := range ref {
		refLevel[cellKey{row.District, row.Category, row.Year}] += row.Level
		if cellsBySession[row.Session] == nil {
			cellsBySession[row.Session] = make(map[cyKey]bool)
		}
		cellsBySession[row.Session][cyKey{row.Category, row.Year}] = true
		sessions[row.Year] = row.Session
	}

	totals := make(map[cellKey]float64)

	for session, cells := range cellsBySession {
		factors := reg.FactorsFor(session)
		if factors == nil {
			continue
		}
		for cell := range cells {
			for _, f := range factors {
				src := cellKey{f.Reference, cell.category, cell.year}
				level, ok := refLevel[src]
				if !ok {
					continue
				}
				dst := cellKey{f.District, cell.category, cell.year}
				totals[dst] += level * f.Share
			}
		}
	}

	// Pass-through for identities untouched by the session's crosswalk.
	// An identity mentioned only as a source has been redistributed above
	// and must not be carried forward too.
	passThrough := make(map[int]map[crosswalk.DistrictID]bool)
	for _, row := range ref {
		if reg.Mentions(row.Session, row.District) {
			continue
		}
		totals[cellKey{row.District, row.Category, row.Year}] += row.Level
		if passThrough[row.Session] == nil {
			passThrough[row.Session] = make(map[crosswalk.DistrictID]bool)
		}
		passThrough[row.Session][row.District] = true
	}
	for session, districts := range passThrough {
		if reg.FactorsFor(session) != nil {
			// Districts carried forward despite a crosswalk covering the
			// session. Surfaced for audit: an identity genuinely left
			// untouched and one missing from the crosswalk look the same.
			log.Printf("reallocate: session %d: %d district identities passed through unchanged", session, len(districts))
		}
	}

	// Conservation law: per (category, year), totals must survive the
	// reallocation up to floating-point rounding.
	before := make(map[cyKey]float64)
	after := make(map[cyKey]float64)
	for _, row := range ref {
		before[cyKey{row.Category, row.Year}] += row.Level
	}
	for key, level := range totals {
		after[cyKey{key.category, key.year}] += level
	}
	for cy, b := range before {
		a := after[cy]
		if math.Abs(a-b) > ConservationTolerance*math.Max(1, math.Abs(b)) {
			return nil, &ConservationError{Category: cy.category, Year: cy.year, Before: b, After: a}
		}
	}

	out := make([]Employment, 0, len(totals))
	for key, level := range totals {
		out = append(out, Employment{
			District: key.district,
			Category: key.category,
			Year:     key.year,
			Session:  sessions[key.year],
			Level:    level,
		})
	}
	sortEmployment(out)

	return out, nil
}
