package crosswalk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// TestParseCountyFactors reads a small allocation extract and checks typed
// keys come through.
func TestParseCountyFactors(t *testing.T) {
	path := writeFixture(t, "alloc.csv", `county_fips,county_name,state,district,share
48001,Anderson County,TX,1,1.0
48003,Andrews County,TX,1,0.6
48003,Andrews County,TX,2,0.4
`)

	factors, err := ParseCountyFactors(path)
	if err != nil {
		t.Fatalf("ParseCountyFactors: %v", err)
	}

	if len(factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(factors))
	}
	if factors[0].District != (DistrictID{State: "TX", Number: 1}) {
		t.Errorf("unexpected district %+v", factors[0].District)
	}
	if factors[2].Share != 0.4 {
		t.Errorf("unexpected share %v", factors[2].Share)
	}
}

// TestParseCountyFactors_MissingColumn verifies required-column checking.
func TestParseCountyFactors_MissingColumn(t *testing.T) {
	path := writeFixture(t, "alloc.csv", `county_fips,state,district
48001,TX,1
`)

	_, err := ParseCountyFactors(path)
	if err == nil {
		t.Fatal("expected missing-column error")
	}
}

// TestParseCountyFactors_BadShare verifies shares outside [0,1] are rejected
// with the offending row number.
func TestParseCountyFactors_BadShare(t *testing.T) {
	path := writeFixture(t, "alloc.csv", `county_fips,county_name,state,district,share
48001,Anderson County,TX,1,1.5
`)

	_, err := ParseCountyFactors(path)
	if err == nil {
		t.Fatal("expected share range error")
	}
}

// TestParseFactors reads a redistricting crosswalk extract.
func TestParseFactors(t *testing.T) {
	path := writeFixture(t, "cd.csv", `state,district,ref_state,ref_district,share
TX,1,TX,1,0.7
TX,2,TX,1,0.3
ga,13,GA,11,1.0
`)

	factors, err := ParseFactors(path)
	if err != nil {
		t.Fatalf("ParseFactors: %v", err)
	}

	if len(factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(factors))
	}
	if factors[1].Reference != (DistrictID{State: "TX", Number: 1}) {
		t.Errorf("unexpected reference %+v", factors[1].Reference)
	}
	// State codes are upper-cased on parse
	if factors[2].District.State != "GA" {
		t.Errorf("state not normalized: %+v", factors[2].District)
	}
}

// TestValidateCountyShares accepts sums of 1 within tolerance and names
// counties that drift.
func TestValidateCountyShares(t *testing.T) {
	good := []CountyFactor{
		{CountyFIPS: "48001", Share: 1.0},
		{CountyFIPS: "48003", Share: 0.6},
		{CountyFIPS: "48003", Share: 0.4},
	}
	if err := ValidateCountyShares(good); err != nil {
		t.Fatalf("ValidateCountyShares: %v", err)
	}

	bad := []CountyFactor{
		{CountyFIPS: "48005", Share: 0.6},
		{CountyFIPS: "48005", Share: 0.3},
	}
	err := ValidateCountyShares(bad)
	if err == nil {
		t.Fatal("expected share-sum error")
	}
	if !strings.Contains(err.Error(), "48005") {
		t.Errorf("error should name the offending county: %v", err)
	}
}

// TestDistrictIDString covers the at-large rendering.
func TestDistrictIDString(t *testing.T) {
	if got := (DistrictID{State: "TX", Number: 3}).String(); got != "TX-03" {
		t.Errorf("String() = %q, want TX-03", got)
	}
	if got := (DistrictID{State: "AK", Number: 0}).String(); got != "AK-AL" {
		t.Errorf("String() = %q, want AK-AL", got)
	}
}
