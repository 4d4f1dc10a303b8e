package signer

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/phimine/multisig-wallet/pkg/types"
	"github.com/phimine/multisig-wallet/pkg/wallet"
)

// SignDigest produces one 65-byte signature record over the digest, using
// the personal-message prefix the verifier recovers against. The recovery
// byte is emitted in the Ethereum convention (27/28).
func SignDigest(privateKey *ecdsa.PrivateKey, digest common.Hash) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is nil")
	}

	sig, err := crypto.Sign(wallet.PersonalDigest(digest), privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}

	// crypto.Sign yields v in {0, 1}
	sig[64] += 27
	return sig, nil
}

// RecoverSigner returns the address a signature record recovers to for the
// given digest. Useful for debugging and for ordering collected signatures.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != types.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: expected %d bytes, got %d", types.SignatureLength, len(sig))
	}

	normalized := make([]byte, types.SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	pub, err := crypto.SigToPub(wallet.PersonalDigest(digest), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// PackSignatures concatenates signature records in ascending recovered-address
// order, the wire layout the verifier requires. The ordering is a protocol
// requirement, not a convention: non-ascending sequences are rejected.
func PackSignatures(digest common.Hash, sigs [][]byte) ([]byte, error) {
	if len(sigs) == 0 {
		return nil, fmt.Errorf("no signatures to pack")
	}

	type record struct {
		signer common.Address
		sig    []byte
	}

	records := make([]record, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := RecoverSigner(digest, sig)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		records = append(records, record{signer: signer, sig: sig})
	}

	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].signer.Bytes(), records[j].signer.Bytes()) < 0
	})

	packed := make([]byte, 0, len(records)*types.SignatureLength)
	for _, rec := range records {
		packed = append(packed, rec.sig...)
	}
	return packed, nil
}
