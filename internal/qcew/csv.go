package qcew

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser normalizes the all-caps area and category titles the upstream
// files ship with ("AUTAUGA COUNTY, ALABAMA").
var titleCaser = cases.Title(language.AmericanEnglish)

// ParseCSV reads an annual employment extract. Expected columns: area_fips,
// area_title, agglvl_title, category_code, category_title, year,
// annual_avg_emplvl.
func ParseCSV(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	obs, err := Parse(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obs, nil
}

// Parse reads an extract from a reader; ParseCSV and the API client share it.
func Parse(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("csv has no data rows")
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.Trim(strings.TrimSpace(h), `"`)] = i
	}

	req := []string{
		"area_fips", "area_title", "agglvl_title",
		"category_code", "category_title", "year", "annual_avg_emplvl",
	}
	for _, k := range req {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []Observation
	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.Trim(strings.TrimSpace(rec[i]), `"`)
		}

		fips := get("area_fips")
		if fips == "" {
			return nil, fmt.Errorf("row %d: area_fips is required", rowIdx+1)
		}

		year, err := strconv.Atoi(get("year"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid year %q", rowIdx+1, get("year"))
		}

		level, err := strconv.ParseFloat(get("annual_avg_emplvl"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid annual_avg_emplvl %q", rowIdx+1, get("annual_avg_emplvl"))
		}
		if level < 0 {
			return nil, fmt.Errorf("row %d: negative employment level %v", rowIdx+1, level)
		}

		out = append(out, Observation{
			AreaFIPS:      fips,
			AreaTitle:     titleCaser.String(get("area_title")),
			AggLevel:      get("agglvl_title"),
			Category:      get("category_code"),
			CategoryTitle: titleCaser.String(get("category_title")),
			Year:          year,
			Level:         level,
		})
	}

	return out, nil
}
