package wallet

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/phimine/multisig-wallet/pkg/caller"
	"github.com/phimine/multisig-wallet/pkg/persistence"
)

// ExecutionListener receives exactly one notification per authorized
// execution, after the nonce increment.
type ExecutionListener func(result *ExecutionResult)

// Wallet gates privileged calls behind multi-party approval: an ordered,
// deduplicated set of owner signatures over a canonical digest, counted
// against a fixed threshold and bound to a monotonically increasing nonce
// and a chain id.
//
// All state transitions are serialized behind a single mutex so two
// concurrent Execute calls can never read the same nonce and produce
// colliding digests.
type Wallet struct {
	logger   *zap.Logger
	store    persistence.IWalletPersistence
	caller   caller.ICaller
	listener ExecutionListener

	selfAddress common.Address
	chainID     *big.Int

	mu          sync.Mutex
	owners      []common.Address
	isOwner     map[common.Address]bool
	threshold   uint64
	nonce       uint64
	initialized bool
}

// NewWallet creates a wallet bound to its own address and a chain id.
// If the store already holds an owner set and nonce from a previous run,
// the wallet resumes from them; the one-shot setup guard then holds across
// restarts.
func NewWallet(
	selfAddress common.Address,
	chainID *big.Int,
	store persistence.IWalletPersistence,
	c caller.ICaller,
	logger *zap.Logger,
) (*Wallet, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, errors.New("chain id must be positive")
	}
	if chainID.BitLen() > 256 {
		return nil, errors.Wrap(ErrValueOutOfRange, "chain id")
	}
	if c == nil {
		return nil, errors.New("caller cannot be nil")
	}

	w := &Wallet{
		logger:      logger,
		store:       store,
		caller:      c,
		selfAddress: selfAddress,
		chainID:     new(big.Int).Set(chainID),
		isOwner:     make(map[common.Address]bool),
	}

	if store != nil {
		if err := w.restore(); err != nil {
			return nil, errors.Wrap(err, "failed to restore wallet state")
		}
	}

	return w, nil
}

// restore loads the persisted owner roster and nonce, if any.
func (w *Wallet) restore() error {
	record, err := w.store.LoadOwnerSet()
	if err != nil {
		return err
	}
	if record != nil {
		// The store is not trusted to uphold the registry invariants on its
		// own: a corrupted or co-tenant-writable backend could hand back a
		// threshold no Setup call would ever have accepted. Re-validate
		// before committing anything to memory.
		if len(record.Owners) == 0 {
			return errors.New("persisted owner set is empty")
		}
		if record.Threshold < 1 || record.Threshold > uint64(len(record.Owners)) {
			return errors.Errorf("persisted threshold %d out of range for %d owners",
				record.Threshold, len(record.Owners))
		}
		owners := make([]common.Address, 0, len(record.Owners))
		isOwner := make(map[common.Address]bool, len(record.Owners))
		for _, hexAddr := range record.Owners {
			if !common.IsHexAddress(hexAddr) {
				return errors.Errorf("persisted owner %q is not a valid address", hexAddr)
			}
			addr := common.HexToAddress(hexAddr)
			if isOwner[addr] {
				return errors.Errorf("persisted owner %s is duplicated", addr.Hex())
			}
			owners = append(owners, addr)
			isOwner[addr] = true
		}
		w.owners = owners
		w.isOwner = isOwner
		w.threshold = record.Threshold
		w.initialized = true
	}

	nonce, err := w.store.LoadNonce()
	if err != nil {
		return err
	}
	w.nonce = nonce

	if w.initialized {
		w.logger.Sugar().Infow("Restored wallet state",
			"owners", len(w.owners), "threshold", w.threshold, "nonce", w.nonce)
	}
	return nil
}

// SetListener installs the execution notification callback.
func (w *Wallet) SetListener(listener ExecutionListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listener = listener
}

// Address returns the wallet's own address.
func (w *Wallet) Address() common.Address {
	return w.selfAddress
}

// ChainID returns the chain id bound into every digest.
func (w *Wallet) ChainID() *big.Int {
	return new(big.Int).Set(w.chainID)
}

// Nonce returns the current replay counter.
func (w *Wallet) Nonce() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nonce
}

// Threshold returns the approval threshold, 0 if setup has not run.
func (w *Wallet) Threshold() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.threshold
}

// OwnerCount returns the size of the owner roster.
func (w *Wallet) OwnerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.owners)
}

// Owners returns a copy of the owner roster in setup order.
func (w *Wallet) Owners() []common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]common.Address, len(w.owners))
	copy(out, w.owners)
	return out
}

// IsOwner reports owner-set membership.
func (w *Wallet) IsOwner(addr common.Address) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isOwner[addr]
}

// CurrentDigest computes the digest signers must sign for the given action
// at the wallet's current nonce. Exposed so clients can compute what to
// sign before collecting signatures.
func (w *Wallet) CurrentDigest(target common.Address, value *big.Int, payload []byte) (common.Hash, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	digest, err := EncodeDigest(target, value, payload, w.nonce, w.chainID)
	if err != nil {
		return common.Hash{}, 0, err
	}
	return digest, w.nonce, nil
}
