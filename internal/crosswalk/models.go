package crosswalk

import "fmt"

// DistrictID identifies a congressional district by state postal abbreviation
// and district number. Number 0 is the at-large district for single-district
// states (AK, DE, MT, ND, SD, VT, WY).
type DistrictID struct {
	State  string
	Number int
}

func (d DistrictID) String() string {
	if d.Number == 0 {
		return d.State + "-AL"
	}
	return fmt.Sprintf("%s-%02d", d.State, d.Number)
}

// CountyFactor allocates a share of a county to a district of the reference
// geography (the 108th-Congress map). Shares for one county sum to 1.
type CountyFactor struct {
	CountyFIPS string
	CountyName string
	District   DistrictID
	Share      float64
}

// Factor relates a reference-geography district to a district of a later
// session's geography. Share is the fraction of the session district's
// population that resides in census units forming the reference district.
type Factor struct {
	Reference DistrictID // district under the 108th-Congress map
	District  DistrictID // district under the session geography
	Share     float64
}
