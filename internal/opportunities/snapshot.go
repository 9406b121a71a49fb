package opportunities

import "opps-backend/internal/pkg/fieldmap"

// SnapshotFields is the fixed, ordered field list captured in the revision
// ledger. Keys are written into the snapshot exactly as listed here and are
// resolved against record columns case/separator-insensitively, so the mixed
// naming from the source sheets keeps working. Widening audit history means
// extending this list, nothing else special-cases it.
var SnapshotFields = []string{"rev", "final_amt", "Margin", "Client Deadline", "Submitted Date", "forecast_date"}

// buildSnapshot projects exactly the snapshot fields out of a record row,
// nil for anything the row doesn't carry. Used identically for the previous
// and the updated snapshot so the two are structurally comparable.
func buildSnapshot(row map[string]interface{}) map[string]interface{} {
	snap := make(map[string]interface{}, len(SnapshotFields))
	for _, f := range SnapshotFields {
		snap[f] = fieldmap.Value(row, f)
	}
	return snap
}
