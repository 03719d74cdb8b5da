package allocation

import "testing"

// TestNormalize_AllowListFiltering verifies that only rows whose
// aggregation-level label is on the enumerated allow-list survive.
func TestNormalize_AllowListFiltering(t *testing.T) {
	raw := []RawRecord{
		{AreaFIPS: "48001", AggLevel: "County, Total Covered", Category: "10", Year: 2003, Level: 100},
		{AreaFIPS: "48000", AggLevel: "State, Total Covered", Category: "10", Year: 2003, Level: 5000},
		{AreaFIPS: "48001", AggLevel: "County, Establishment Size Class", Category: "10", Year: 2003, Level: 7},
	}

	obs, _ := Normalize(raw, CountyAggLevels)

	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].CountyFIPS != "48001" || obs[0].Level != 100 {
		t.Errorf("unexpected observation %+v", obs[0])
	}
}

// TestNormalize_StateAllowList verifies the state-level variant keeps state
// totals and drops county rows.
func TestNormalize_StateAllowList(t *testing.T) {
	raw := []RawRecord{
		{AreaFIPS: "48001", AggLevel: "County, Total Covered", Category: "10", Year: 2003, Level: 100},
		{AreaFIPS: "48000", AggLevel: "State, Total Covered", Category: "10", Year: 2003, Level: 5000},
	}

	obs, _ := Normalize(raw, StateAggLevels)

	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].CountyFIPS != "48000" {
		t.Errorf("expected state row 48000, got %s", obs[0].CountyFIPS)
	}
}

// TestNormalize_DropsUnknownGeography verifies that codes ending in the
// upstream "999" unknown-county suffix are dropped.
func TestNormalize_DropsUnknownGeography(t *testing.T) {
	raw := []RawRecord{
		{AreaFIPS: "48001", AggLevel: "County, Total Covered", Category: "10", Year: 2003, Level: 100},
		{AreaFIPS: "48999", AggLevel: "County, Total Covered", Category: "10", Year: 2003, Level: 55},
	}

	obs, _ := Normalize(raw, CountyAggLevels)

	for _, o := range obs {
		if o.CountyFIPS == "48999" {
			t.Errorf("unknown-geography row 48999 was not dropped")
		}
	}
}

// TestNormalize_Densification verifies that absent (unit, category, period)
// cells implied by the kept rows are synthesized as zero-valued records.
func TestNormalize_Densification(t *testing.T) {
	raw := []RawRecord{
		{AreaFIPS: "48001", AggLevel: "County, Total Covered", Category: "10", Year: 2003, Level: 100},
		{AreaFIPS: "48001", AggLevel: "County, Total Covered", Category: "20", Year: 2004, Level: 40},
		{AreaFIPS: "48003", AggLevel: "County, Total Covered", Category: "10", Year: 2004, Level: 60},
	}

	obs, _ := Normalize(raw, CountyAggLevels)

	// 2 units × 2 categories × 2 years = 8 dense cells
	if len(obs) != 8 {
		t.Fatalf("expected 8 dense observations, got %d", len(obs))
	}

	type cell struct {
		unit, category string
		year           int
	}
	byCell := make(map[cell]Observation)
	for _, o := range obs {
		byCell[cell{o.CountyFIPS, o.Category, o.Year}] = o
	}

	filled, ok := byCell[cell{"48003", "20", 2003}]
	if !ok {
		t.Fatal("expected filled cell for 48003/20/2003")
	}
	if !filled.Filled || filled.Level != 0 {
		t.Errorf("filled cell should be zero-valued and flagged, got %+v", filled)
	}

	real, ok := byCell[cell{"48001", "10", 2003}]
	if !ok || real.Filled || real.Level != 100 {
		t.Errorf("original cell mangled: %+v", real)
	}
}

// TestNormalize_AuditCounts verifies surviving-row counts per period and
// category, and that a combination matching zero rows is a signal rather
// than an error.
func TestNormalize_AuditCounts(t *testing.T) {
	raw := []RawRecord{
		{AreaFIPS: "48001", AggLevel: "County, Total Covered", Category: "10", Year: 2003, Level: 100},
		{AreaFIPS: "48003", AggLevel: "County, Total Covered", Category: "10", Year: 2003, Level: 50},
		{AreaFIPS: "48999", AggLevel: "County, Total Covered", Category: "10", Year: 2004, Level: 5},
	}

	_, audit := Normalize(raw, CountyAggLevels)

	if got := audit[AuditKey{Year: 2003, Category: "10"}]; got != 2 {
		t.Errorf("expected 2 surviving rows for 2003/10, got %d", got)
	}
	// The 2004 row was dropped for unknown geography: zero count, no crash.
	if got := audit[AuditKey{Year: 2004, Category: "10"}]; got != 0 {
		t.Errorf("expected 0 surviving rows for 2004/10, got %d", got)
	}
}
