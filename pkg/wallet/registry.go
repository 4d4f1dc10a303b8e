package wallet

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/phimine/multisig-wallet/pkg/persistence"
)

// Setup initializes the owner roster and approval threshold. It succeeds
// exactly once; every later call fails with ErrAlreadyInitialized. Re-running
// setup would let an attacker silently replace the owner set, so the guard
// also holds across restarts when a persistence backend is configured.
//
// The roster, membership index and threshold are populated atomically:
// any validation or storage failure leaves the registry untouched.
func (w *Wallet) Setup(owners []common.Address, threshold uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.initialized {
		return ErrAlreadyInitialized
	}
	if len(owners) == 0 {
		return ErrEmptyOwnerSet
	}
	if threshold < 1 || threshold > uint64(len(owners)) {
		return errors.Wrapf(ErrInvalidThreshold, "threshold %d with %d owners", threshold, len(owners))
	}

	isOwner := make(map[common.Address]bool, len(owners))
	for _, owner := range owners {
		if owner == (common.Address{}) {
			return errors.Wrap(ErrInvalidOwner, "zero address")
		}
		if owner == w.selfAddress {
			return errors.Wrapf(ErrInvalidOwner, "wallet cannot own itself: %s", owner.Hex())
		}
		if isOwner[owner] {
			return errors.Wrapf(ErrDuplicateOwner, "%s", owner.Hex())
		}
		isOwner[owner] = true
	}

	if w.store != nil {
		record := &persistence.OwnerSetRecord{
			Owners:    make([]string, len(owners)),
			Threshold: threshold,
		}
		for i, owner := range owners {
			record.Owners[i] = owner.Hex()
		}
		if err := w.store.SaveOwnerSet(record); err != nil {
			return errors.Wrap(err, "failed to persist owner set")
		}
	}

	w.owners = append([]common.Address(nil), owners...)
	w.isOwner = isOwner
	w.threshold = threshold
	w.initialized = true

	w.logger.Sugar().Infow("Owner registry initialized",
		"owners", len(owners), "threshold", threshold, "wallet", w.selfAddress.Hex())

	return nil
}
