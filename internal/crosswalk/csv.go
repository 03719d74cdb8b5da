package crosswalk

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ShareSumTolerance bounds how far a county's allocation shares may drift
// from 1 before the crosswalk is rejected.
const ShareSumTolerance = 1e-9

// ParseCountyFactors reads a county→reference-district allocation extract.
// Expected columns: county_fips, county_name, state, district, share.
func ParseCountyFactors(path string) ([]CountyFactor, error) {
	records, col, err := readTable(path, []string{
		"county_fips", "county_name", "state", "district", "share",
	})
	if err != nil {
		return nil, err
	}

	var out []CountyFactor
	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		fips := get("county_fips")
		if len(fips) != 5 {
			return nil, fmt.Errorf("row %d: county_fips must be 5 digits (got %q)", rowIdx+1, fips)
		}

		district, err := parseDistrict(get("state"), get("district"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+1, err)
		}

		share, err := parseShare(get("share"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+1, err)
		}

		out = append(out, CountyFactor{
			CountyFIPS: fips,
			CountyName: get("county_name"),
			District:   district,
			Share:      share,
		})
	}

	return out, nil
}

// ParseFactors reads a reference-district→session-district crosswalk extract.
// Expected columns: state, district, ref_state, ref_district, share.
func ParseFactors(path string) ([]Factor, error) {
	records, col, err := readTable(path, []string{
		"state", "district", "ref_state", "ref_district", "share",
	})
	if err != nil {
		return nil, err
	}

	var out []Factor
	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		district, err := parseDistrict(get("state"), get("district"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+1, err)
		}
		reference, err := parseDistrict(get("ref_state"), get("ref_district"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+1, err)
		}
		share, err := parseShare(get("share"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+1, err)
		}

		out = append(out, Factor{
			Reference: reference,
			District:  district,
			Share:     share,
		})
	}

	return out, nil
}

// ValidateCountyShares checks that every county's allocation shares sum to 1.
// A county split across districts must account for all of its population.
func ValidateCountyShares(factors []CountyFactor) error {
	sums := make(map[string]float64)
	for _, f := range factors {
		sums[f.CountyFIPS] += f.Share
	}

	var bad []string
	for fips, sum := range sums {
		if math.Abs(sum-1) > ShareSumTolerance {
			bad = append(bad, fmt.Sprintf("%s (sum=%.12f)", fips, sum))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("county shares do not sum to 1: %s", strings.Join(bad, ", "))
	}
	return nil
}

// readTable loads a CSV file, maps its header, and checks required columns.
func readTable(path string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, errors.New("csv has no data rows")
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	for _, k := range required {
		if _, ok := col[k]; !ok {
			return nil, nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	return records, col, nil
}

func parseDistrict(state, number string) (DistrictID, error) {
	if len(state) != 2 {
		return DistrictID{}, fmt.Errorf("state must be a 2-letter postal code (got %q)", state)
	}
	n, err := strconv.Atoi(number)
	if err != nil || n < 0 {
		return DistrictID{}, fmt.Errorf("invalid district number %q", number)
	}
	return DistrictID{State: strings.ToUpper(state), Number: n}, nil
}

func parseShare(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid share %q", s)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("share %v outside [0,1]", v)
	}
	return v, nil
}
