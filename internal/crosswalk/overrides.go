package crosswalk

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// OverrideTable maps county FIPS codes absent from the historical crosswalk
// to the single reference district that wholly contains them (share 1).
type OverrideTable map[string]DistrictID

// DefaultOverrides covers the known post-2000 jurisdiction changes: counties
// created after the crosswalk vintage, FIPS recodes, and small independent
// cities the source tabulates separately.
func DefaultOverrides() OverrideTable {
	return OverrideTable{
		"08014": {State: "CO", Number: 2}, // Broomfield County, created 2001
		"12086": {State: "FL", Number: 0}, // Miami-Dade, recoded from 12025
		"51560": {State: "VA", Number: 6}, // Clifton Forge city, reverted to town 2001
		"51515": {State: "VA", Number: 5}, // Bedford city
		"51780": {State: "VA", Number: 9}, // South Boston city
		"02230": {State: "AK", Number: 0}, // Skagway, split from Skagway-Hoonah-Angoon
		"02105": {State: "AK", Number: 0}, // Hoonah-Angoon Census Area
		"02195": {State: "AK", Number: 0}, // Petersburg Borough
		"02198": {State: "AK", Number: 0}, // Prince of Wales-Hyder Census Area
		"02275": {State: "AK", Number: 0}, // Wrangell Borough
		"15005": {State: "HI", Number: 2}, // Kalawao County
		"46102": {State: "SD", Number: 0}, // Oglala Lakota, recoded from 46113
	}
}

// overrideConfig is the YAML shape of an override extension file.
type overrideConfig struct {
	Overrides []struct {
		CountyFIPS string `yaml:"county_fips"`
		CountyName string `yaml:"county_name"`
		State      string `yaml:"state"`
		District   int    `yaml:"district"`
	} `yaml:"overrides"`
}

// LoadOverrides returns the default override table extended with entries from
// the given YAML file. An empty path returns just the defaults.
func LoadOverrides(path string) (OverrideTable, error) {
	table := DefaultOverrides()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg overrideConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}

	for i, o := range cfg.Overrides {
		if len(o.CountyFIPS) != 5 {
			return nil, fmt.Errorf("override %d: county_fips must be 5 digits (got %q)", i+1, o.CountyFIPS)
		}
		if len(o.State) != 2 {
			return nil, fmt.Errorf("override %d: state must be a 2-letter postal code (got %q)", i+1, o.State)
		}
		if o.District < 0 {
			return nil, fmt.Errorf("override %d: invalid district number %d", i+1, o.District)
		}
		table[o.CountyFIPS] = DistrictID{State: strings.ToUpper(o.State), Number: o.District}
	}

	return table, nil
}
