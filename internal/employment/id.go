package employment

import (
	"fmt"

	"github.com/google/uuid"
)

func v5(ns uuid.UUID, name string) uuid.UUID {
	return uuid.NewSHA1(ns, []byte(name))
}

// RowID derives a deterministic ID for a stored employment row, namespaced
// by its run. Re-saving the same run keys yields the same IDs.
func RowID(runID uuid.UUID, state string, district int, category string, year int) uuid.UUID {
	return v5(runID, fmt.Sprintf("row:%s:%d:%s:%d", state, district, category, year))
}
