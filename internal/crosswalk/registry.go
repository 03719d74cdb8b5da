package crosswalk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Table holds one reference→session crosswalk and the contiguous run of
// sessions it applies to.
type Table struct {
	FromSession int
	ToSession   int
	Factors     []Factor

	byDistrict map[DistrictID][]Factor
	mentioned  map[DistrictID]bool
}

// NewTable indexes a factor list for lookup.
func NewTable(fromSession, toSession int, factors []Factor) (*Table, error) {
	if fromSession > toSession {
		return nil, fmt.Errorf("invalid session span %d-%d", fromSession, toSession)
	}

	t := &Table{
		FromSession: fromSession,
		ToSession:   toSession,
		Factors:     factors,
		byDistrict:  make(map[DistrictID][]Factor),
		mentioned:   make(map[DistrictID]bool),
	}
	for _, f := range factors {
		t.byDistrict[f.District] = append(t.byDistrict[f.District], f)
		t.mentioned[f.District] = true
		t.mentioned[f.Reference] = true
	}
	return t, nil
}

// Registry resolves redistricting factors across all loaded crosswalk tables.
// Adding a session's crosswalk is a data addition: register another table,
// no lookup code changes.
type Registry struct {
	tables []*Table
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a crosswalk table. Session spans may not overlap: each
// session has at most one geography.
func (r *Registry) Add(t *Table) error {
	for _, existing := range r.tables {
		if t.FromSession <= existing.ToSession && existing.FromSession <= t.ToSession {
			return fmt.Errorf("session span %d-%d overlaps registered span %d-%d",
				t.FromSession, t.ToSession, existing.FromSession, existing.ToSession)
		}
	}
	r.tables = append(r.tables, t)
	return nil
}

// Lookup returns the factor rows whose session-district endpoint is the given
// district identity under the given session. An empty result means the
// identity's boundaries were not redrawn for that session (self-mapping).
func (r *Registry) Lookup(session int, d DistrictID) []Factor {
	t := r.tableFor(session)
	if t == nil {
		return nil
	}
	return t.byDistrict[d]
}

// Mentions reports whether the district identity appears on either side of
// the crosswalk covering the session. Identities mentioned only as a
// reference source have their employment redistributed elsewhere and must
// not also pass through.
func (r *Registry) Mentions(session int, d DistrictID) bool {
	t := r.tableFor(session)
	if t == nil {
		return false
	}
	return t.mentioned[d]
}

// FactorsFor returns every factor row of the crosswalk covering the session,
// or nil when no crosswalk covers it (the reference geography still applies).
func (r *Registry) FactorsFor(session int) []Factor {
	t := r.tableFor(session)
	if t == nil {
		return nil
	}
	return t.Factors
}

func (r *Registry) tableFor(session int) *Table {
	for _, t := range r.tables {
		if session >= t.FromSession && session <= t.ToSession {
			return t
		}
	}
	return nil
}

// registryConfig is the YAML shape of a crosswalk registry file.
type registryConfig struct {
	Crosswalks []struct {
		File        string `yaml:"file"`
		FromSession int    `yaml:"from_session"`
		ToSession   int    `yaml:"to_session"`
	} `yaml:"crosswalks"`
}

// LoadRegistry builds a registry from a YAML config file. Crosswalk CSV
// paths are resolved relative to the config file's directory.
func LoadRegistry(configPath string) (*Registry, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg registryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse registry config %s: %w", configPath, err)
	}

	dir := filepath.Dir(configPath)
	reg := NewRegistry()

	for _, c := range cfg.Crosswalks {
		path := c.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		factors, err := ParseFactors(path)
		if err != nil {
			return nil, fmt.Errorf("load crosswalk %s: %w", c.File, err)
		}

		t, err := NewTable(c.FromSession, c.ToSession, factors)
		if err != nil {
			return nil, fmt.Errorf("crosswalk %s: %w", c.File, err)
		}
		if err := reg.Add(t); err != nil {
			return nil, fmt.Errorf("crosswalk %s: %w", c.File, err)
		}
	}

	return reg, nil
}
