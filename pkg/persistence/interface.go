package persistence

// IWalletPersistence defines the interface for persisting wallet state
// across restarts. All implementations must be thread-safe as wallet
// operations may be concurrent.
//
// The interface supports:
// - Owner roster storage (one-time setup survives restarts)
// - Replay nonce storage (monotonic counter)
// - Lifecycle management (close, health check)
type IWalletPersistence interface {
	// SaveOwnerSet persists the owner roster and threshold.
	// Called exactly once on successful setup; the wallet enforces the
	// one-shot guard, the store just records what it is given.
	SaveOwnerSet(record *OwnerSetRecord) error

	// LoadOwnerSet retrieves the persisted owner roster.
	// Returns nil if setup has never run, error only on storage failure.
	LoadOwnerSet() (*OwnerSetRecord, error)

	// SaveNonce persists the replay counter. Overwrites any previous value.
	SaveNonce(nonce uint64) error

	// LoadNonce retrieves the replay counter.
	// Returns 0 if none has been saved (fresh wallet), error only on
	// storage failure.
	LoadNonce() (uint64, error)

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations should return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	// Returns nil if healthy, error describing the problem if not.
	// Should be called during startup to fail fast.
	HealthCheck() error
}
