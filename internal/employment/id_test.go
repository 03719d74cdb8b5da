package employment

import (
	"testing"

	"github.com/google/uuid"
)

// TestRowID_Deterministic verifies stable IDs within a run and distinct IDs
// across runs and keys.
func TestRowID_Deterministic(t *testing.T) {
	runA := uuid.New()
	runB := uuid.New()

	a1 := RowID(runA, "TX", 1, "10", 2003)
	a2 := RowID(runA, "TX", 1, "10", 2003)
	if a1 != a2 {
		t.Error("same run and keys must yield the same ID")
	}

	if a1 == RowID(runB, "TX", 1, "10", 2003) {
		t.Error("different runs must yield different IDs")
	}
	if a1 == RowID(runA, "TX", 1, "10", 2004) {
		t.Error("different keys must yield different IDs")
	}
}
