package wallet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// digestArguments is the fixed ABI layout of the canonical digest preimage:
// (target, value, keccak256(payload), nonce, chainID).
var digestArguments abi.Arguments

func init() {
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)
	bytes32Type, _ := abi.NewType("bytes32", "", nil)

	digestArguments = abi.Arguments{
		{Type: addressType},
		{Type: uint256Type},
		{Type: bytes32Type},
		{Type: uint256Type},
		{Type: uint256Type},
	}
}

// EncodeDigest deterministically hashes a proposed action bound to a nonce
// and a chain id. The payload is hashed independently first so its length
// cannot shift the contribution of later fields. Identical inputs always
// yield the identical digest.
//
// Value and chain id must fit in a uint256: the ABI packer reduces larger
// integers mod 2^256, so without the check a signature over value v would
// also cover v+2^256.
func EncodeDigest(target common.Address, value *big.Int, payload []byte, nonce uint64, chainID *big.Int) (common.Hash, error) {
	if value == nil {
		value = new(big.Int)
	}
	if chainID == nil {
		chainID = new(big.Int)
	}
	if err := checkUint256("value", value); err != nil {
		return common.Hash{}, err
	}
	if err := checkUint256("chain id", chainID); err != nil {
		return common.Hash{}, err
	}

	payloadHash := crypto.Keccak256Hash(payload)

	// The argument set is fixed, so packing cannot fail for well-typed inputs.
	packed, err := digestArguments.Pack(
		target,
		value,
		payloadHash,
		new(big.Int).SetUint64(nonce),
		chainID,
	)
	if err != nil {
		panic(fmt.Sprintf("digest packing failed: %v", err))
	}

	return crypto.Keccak256Hash(packed), nil
}

// checkUint256 rejects integers the ABI packer would silently truncate.
func checkUint256(name string, x *big.Int) error {
	if x.Sign() < 0 || x.BitLen() > 256 {
		return errors.Wrapf(ErrValueOutOfRange, "%s %s", name, x)
	}
	return nil
}

// PersonalDigest wraps a digest in the standard personal-message prefix
// before recovery. Off-chain signers sign exactly this hash, so the
// verifier must recover against it rather than the bare digest.
func PersonalDigest(digest common.Hash) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(digest))
	return crypto.Keccak256(append([]byte(prefix), digest[:]...))
}
