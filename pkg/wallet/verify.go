package wallet

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/phimine/multisig-wallet/pkg/types"
)

// Verify checks that packed carries at least threshold valid owner
// signatures over the digest, in strictly ascending recovered-address order.
func (w *Wallet) Verify(digest common.Hash, packed []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.verifyLocked(digest, packed)
}

// verifyLocked is the threshold verification algorithm. Caller must hold w.mu.
//
// Strict ascending order over recovered addresses is what guarantees
// distinctness without an auxiliary set: a repeated signer can never be
// strictly greater than itself, so the same owner cannot be counted twice.
func (w *Wallet) verifyLocked(digest common.Hash, packed []byte) error {
	if w.threshold == 0 {
		return ErrThresholdUninitialized
	}

	// Compare in record counts rather than bytes so an adversarial
	// threshold can never overflow the int multiplication and skip
	// the length check.
	if uint64(len(packed))/types.SignatureLength < w.threshold {
		return errors.Wrapf(ErrInsufficientSignatureData,
			"have %d signature records, need %d", len(packed)/types.SignatureLength, w.threshold)
	}

	prefixed := PersonalDigest(digest)

	// Sentinel below any real address.
	var lastSeen common.Address

	for i := uint64(0); i < w.threshold; i++ {
		r, s, v := SplitSignature(packed, int(i))

		// Off-chain signers emit the Ethereum convention v in {27, 28};
		// recovery wants {0, 1}.
		if v >= 27 {
			v -= 27
		}

		sig := make([]byte, types.SignatureLength)
		copy(sig[:32], r[:])
		copy(sig[32:64], s[:])
		sig[64] = v

		pub, err := crypto.SigToPub(prefixed, sig)
		if err != nil {
			return errors.Wrapf(ErrInvalidSignature, "record %d: recovery failed: %v", i, err)
		}
		candidate := crypto.PubkeyToAddress(*pub)

		if bytes.Compare(candidate.Bytes(), lastSeen.Bytes()) <= 0 {
			return errors.Wrapf(ErrInvalidSignature, "record %d: signer %s violates ascending order", i, candidate.Hex())
		}
		if !w.isOwner[candidate] {
			return errors.Wrapf(ErrInvalidSignature, "record %d: signer %s is not an owner", i, candidate.Hex())
		}

		lastSeen = candidate
	}

	return nil
}
