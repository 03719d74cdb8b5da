package allocation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/CivicMetrics/CD-Employment/internal/crosswalk"
)

func findEmployment(t *testing.T, rows []Employment, d crosswalk.DistrictID, category string, year int) Employment {
	t.Helper()
	for _, row := range rows {
		if row.District == d && row.Category == category && row.Year == year {
			return row
		}
	}
	t.Fatalf("no employment row for %s %s %d", d, category, year)
	return Employment{}
}

// TestAllocate_SplitCounty covers the documented scenario: county A wholly
// in D1, county B split 0.6/0.4 across D1/D2, both reporting 100 units.
// D1 must total 160 and D2 40.
func TestAllocate_SplitCounty(t *testing.T) {
	d1 := crosswalk.DistrictID{State: "TX", Number: 1}
	d2 := crosswalk.DistrictID{State: "TX", Number: 2}

	obs := []Observation{
		{CountyFIPS: "48001", Category: "10", Year: 2003, Level: 100},
		{CountyFIPS: "48003", Category: "10", Year: 2003, Level: 100},
	}
	factors := []crosswalk.CountyFactor{
		{CountyFIPS: "48001", District: d1, Share: 1.0},
		{CountyFIPS: "48003", District: d1, Share: 0.6},
		{CountyFIPS: "48003", District: d2, Share: 0.4},
	}

	rows, err := Allocate(obs, factors, nil)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if got := findEmployment(t, rows, d1, "10", 2003).Level; math.Abs(got-160) > 1e-9 {
		t.Errorf("D1 = %v, want 160", got)
	}
	if got := findEmployment(t, rows, d2, "10", 2003).Level; math.Abs(got-40) > 1e-9 {
		t.Errorf("D2 = %v, want 40", got)
	}
}

// TestAllocate_Conservation verifies county totals equal district totals for
// a fixed (category, period) after allocation.
func TestAllocate_Conservation(t *testing.T) {
	obs := []Observation{
		{CountyFIPS: "48001", Category: "10", Year: 2003, Level: 123.5},
		{CountyFIPS: "48003", Category: "10", Year: 2003, Level: 77.25},
		{CountyFIPS: "48005", Category: "10", Year: 2003, Level: 900},
	}
	factors := []crosswalk.CountyFactor{
		{CountyFIPS: "48001", District: crosswalk.DistrictID{State: "TX", Number: 1}, Share: 1.0},
		{CountyFIPS: "48003", District: crosswalk.DistrictID{State: "TX", Number: 1}, Share: 0.25},
		{CountyFIPS: "48003", District: crosswalk.DistrictID{State: "TX", Number: 2}, Share: 0.75},
		{CountyFIPS: "48005", District: crosswalk.DistrictID{State: "TX", Number: 2}, Share: 0.5},
		{CountyFIPS: "48005", District: crosswalk.DistrictID{State: "TX", Number: 3}, Share: 0.5},
	}

	rows, err := Allocate(obs, factors, nil)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	var countyTotal, districtTotal float64
	for _, o := range obs {
		countyTotal += o.Level
	}
	for _, row := range rows {
		districtTotal += row.Level
	}
	if math.Abs(countyTotal-districtTotal) > 1e-9 {
		t.Errorf("allocation not conserved: counties %v, districts %v", countyTotal, districtTotal)
	}
}

// TestAllocate_OverrideResolvesMissingCounty verifies a county absent from
// the crosswalk is attributed wholly to its override district.
func TestAllocate_OverrideResolvesMissingCounty(t *testing.T) {
	co2 := crosswalk.DistrictID{State: "CO", Number: 2}

	obs := []Observation{
		{CountyFIPS: "08014", Category: "10", Year: 2003, Level: 42},
	}
	overrides := crosswalk.OverrideTable{"08014": co2}

	rows, err := Allocate(obs, nil, overrides)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if got := findEmployment(t, rows, co2, "10", 2003).Level; got != 42 {
		t.Errorf("override district = %v, want 42", got)
	}
}

// TestAllocate_UnmappedCountyFatal verifies a county missing from crosswalk
// and overrides aborts the run, naming the offending FIPS code.
func TestAllocate_UnmappedCountyFatal(t *testing.T) {
	obs := []Observation{
		{CountyFIPS: "99123", Category: "10", Year: 2003, Level: 10},
	}

	_, err := Allocate(obs, nil, crosswalk.OverrideTable{})
	if !errors.Is(err, ErrUnmappedCounty) {
		t.Fatalf("expected ErrUnmappedCounty, got %v", err)
	}
	if !strings.Contains(err.Error(), "99123") {
		t.Errorf("error should name the offending county: %v", err)
	}
}
