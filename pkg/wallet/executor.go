package wallet

import (
	"context"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/phimine/multisig-wallet/pkg/types"
)

// ExecutionResult reports one authorized execution. Outcome reflects the
// downstream call only; authorization failures never produce a result.
type ExecutionResult struct {
	Digest  common.Hash
	Nonce   uint64 // Nonce consumed by this execution
	Outcome types.Outcome
	CallErr error // Set when Outcome is OutcomeFailure
}

// Execute authorizes and performs one external call.
//
//  1. The canonical digest binds the action to the current nonce and the
//     wallet's chain id.
//  2. Verification failure aborts before any state change.
//  3. The nonce advances by exactly 1 and is persisted *before* the external
//     call, so a failing downstream call cannot be replayed with the same
//     signatures.
//  4. The call's own failure is reported in the outcome, not propagated as
//     an authorization error, and does not roll back the nonce. Authorization
//     was properly consumed even if the authorized action failed.
//
// The listener runs after the wallet lock is released, so it may call back
// into wallet accessors.
func (w *Wallet) Execute(ctx context.Context, target common.Address, value *big.Int, payload []byte, packed []byte) (*ExecutionResult, error) {
	result, listener, err := w.execute(ctx, target, value, payload, packed)
	if err != nil {
		return nil, err
	}
	if listener != nil {
		listener(result)
	}
	return result, nil
}

// execute holds the wallet lock for the whole authorization and call, and
// hands back the listener to notify once the lock is dropped.
func (w *Wallet) execute(ctx context.Context, target common.Address, value *big.Int, payload []byte, packed []byte) (*ExecutionResult, ExecutionListener, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	digest, err := EncodeDigest(target, value, payload, w.nonce, w.chainID)
	if err != nil {
		return nil, nil, err
	}

	if err := w.verifyLocked(digest, packed); err != nil {
		return nil, nil, errors.Wrap(err, "authorization failed")
	}

	if w.nonce == math.MaxUint64 {
		return nil, nil, ErrNonceExhausted
	}

	consumed := w.nonce
	w.nonce++

	if w.store != nil {
		if err := w.store.SaveNonce(w.nonce); err != nil {
			// Storage failure before the call: fully abort, no partial state.
			w.nonce = consumed
			return nil, nil, errors.Wrap(err, "failed to persist nonce")
		}
	}

	result := &ExecutionResult{
		Digest: digest,
		Nonce:  consumed,
	}

	if err := w.caller.Call(ctx, target, value, payload); err != nil {
		result.Outcome = types.OutcomeFailure
		result.CallErr = err
		w.logger.Sugar().Warnw("ExecutionFailure",
			"digest", digest.Hex(), "nonce", consumed, "target", target.Hex(), "error", err)
	} else {
		result.Outcome = types.OutcomeSuccess
		w.logger.Sugar().Infow("ExecutionSuccess",
			"digest", digest.Hex(), "nonce", consumed, "target", target.Hex())
	}

	return result, w.listener, nil
}
