package allocation

import (
	"sort"

	"github.com/CivicMetrics/CD-Employment/internal/crosswalk"
)

// Categories returns the sorted distinct category codes across rows.
func Categories(rows []Employment) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row.Category] = true
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Pivot projects long employment rows into one row per (district, year) with
// one value per category code. Every category column is present on every
// row; cells with no long row are 0, never absent.
func Pivot(rows []Employment) []WideRow {
	categories := Categories(rows)

	type unitKey struct {
		district crosswalk.DistrictID
		year     int
		session  int
	}

	byUnit := make(map[unitKey]map[string]float64)
	for _, row := range rows {
		key := unitKey{row.District, row.Year, row.Session}
		if byUnit[key] == nil {
			levels := make(map[string]float64, len(categories))
			for _, c := range categories {
				levels[c] = 0
			}
			byUnit[key] = levels
		}
		byUnit[key][row.Category] += row.Level
	}

	out := make([]WideRow, 0, len(byUnit))
	for key, levels := range byUnit {
		out = append(out, WideRow{
			District: key.district,
			Year:     key.year,
			Session:  key.session,
			Levels:   levels,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.District.State != b.District.State {
			return a.District.State < b.District.State
		}
		if a.District.Number != b.District.Number {
			return a.District.Number < b.District.Number
		}
		return a.Year < b.Year
	})

	return out
}
