package persistence

// OwnerSetRecord is the persisted form of the owner registry.
// Addresses are stored as hex strings for JSON serialization.
type OwnerSetRecord struct {
	// Owners is the roster in its original setup order.
	Owners []string `json:"owners"`

	// Threshold is the number of distinct owner signatures required
	// to authorize an execution.
	Threshold uint64 `json:"threshold"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (r *OwnerSetRecord) Clone() *OwnerSetRecord {
	if r == nil {
		return nil
	}
	owners := make([]string, len(r.Owners))
	copy(owners, r.Owners)
	return &OwnerSetRecord{
		Owners:    owners,
		Threshold: r.Threshold,
	}
}
