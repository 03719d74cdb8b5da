package allocation

import (
	"fmt"
	"log"

	"github.com/CivicMetrics/CD-Employment/internal/crosswalk"
)

// Input carries the fully materialized tables one aggregation run consumes.
type Input struct {
	Raw       []RawRecord
	AllowList map[string]struct{} // defaults to CountyAggLevels
	Factors   []crosswalk.CountyFactor
	Overrides crosswalk.OverrideTable
	Registry  *crosswalk.Registry
}

// Result is everything a run produces: district employment under the
// reference map, the same restated under each session's actual map, its wide
// projection, and the completeness audit.
type Result struct {
	Reference   []Employment
	Reallocated []Employment
	Wide        []WideRow
	Audit       AuditCounts
}

// Run executes the whole pipeline: normalize → allocate → tag → reallocate →
// pivot. Each stage consumes the immutable output of the previous one; any
// stage failure aborts the run, since downstream aggregation assumes full,
// validated inputs.
func Run(in Input) (*Result, error) {
	if err := crosswalk.ValidateCountyShares(in.Factors); err != nil {
		return nil, fmt.Errorf("allocation crosswalk: %w", err)
	}

	allowed := in.AllowList
	if allowed == nil {
		allowed = CountyAggLevels
	}
	overrides := in.Overrides
	if overrides == nil {
		overrides = crosswalk.DefaultOverrides()
	}
	registry := in.Registry
	if registry == nil {
		registry = crosswalk.NewRegistry()
	}

	obs, audit := Normalize(in.Raw, allowed)
	log.Printf("pipeline: %d observations after normalization (%d raw rows)", len(obs), len(in.Raw))

	reference, err := Allocate(obs, in.Factors, overrides)
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline: %d reference-district rows after allocation", len(reference))

	reference, err = Tag(reference)
	if err != nil {
		return nil, err
	}

	reallocated, err := Reallocate(reference, registry)
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline: %d session-district rows after reallocation", len(reallocated))

	return &Result{
		Reference:   reference,
		Reallocated: reallocated,
		Wide:        Pivot(reallocated),
		Audit:       audit,
	}, nil
}
