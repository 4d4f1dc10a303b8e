package wallet_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/phimine/multisig-wallet/pkg/types"
	"github.com/phimine/multisig-wallet/pkg/wallet"
)

func testDigest(t *testing.T, nonce uint64) common.Hash {
	t.Helper()
	target := common.HexToAddress("0x00000000000000000000000000000000000000Cc")
	digest, err := wallet.EncodeDigest(target, big.NewInt(1), nil, nonce, testChainID)
	require.NoError(t, err)
	return digest
}

func TestVerify(t *testing.T) {
	t.Run("Threshold uninitialized", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		err := w.Verify(testDigest(t, 0), make([]byte, types.SignatureLength))
		require.ErrorIs(t, err, wallet.ErrThresholdUninitialized)
	})

	t.Run("Insufficient signature data", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		keys, owners := generateOwners(t, 2)
		require.NoError(t, w.Setup(owners, 2))

		digest := testDigest(t, 0)
		// One valid record where two are required: rejected on length,
		// before any recovery is attempted
		short := packedFor(t, digest, keys[0])
		err := w.Verify(digest, short)
		require.ErrorIs(t, err, wallet.ErrInsufficientSignatureData)

		err = w.Verify(digest, nil)
		require.ErrorIs(t, err, wallet.ErrInsufficientSignatureData)
	})

	t.Run("Ascending order verifies", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		keys, owners := generateOwners(t, 2)
		require.NoError(t, w.Setup(owners, 2))

		digest := testDigest(t, 0)
		require.NoError(t, w.Verify(digest, packedFor(t, digest, keys[0], keys[1])))
	})

	t.Run("Descending order rejected", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		keys, owners := generateOwners(t, 2)
		require.NoError(t, w.Setup(owners, 2))

		digest := testDigest(t, 0)
		err := w.Verify(digest, packedFor(t, digest, keys[1], keys[0]))
		require.ErrorIs(t, err, wallet.ErrInvalidSignature)
	})

	t.Run("Repeated signer rejected", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		keys, owners := generateOwners(t, 2)
		require.NoError(t, w.Setup(owners, 2))

		digest := testDigest(t, 0)
		err := w.Verify(digest, packedFor(t, digest, keys[1], keys[1]))
		require.ErrorIs(t, err, wallet.ErrInvalidSignature)
	})

	t.Run("Non-owner signer rejected", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		keys, owners := generateOwners(t, 2)
		require.NoError(t, w.Setup(owners[:1], 1))

		// keys[1] signs validly but is not in the roster
		digest := testDigest(t, 0)
		err := w.Verify(digest, packedFor(t, digest, keys[1]))
		require.ErrorIs(t, err, wallet.ErrInvalidSignature)
	})

	t.Run("Garbage record fails recovery", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		_, owners := generateOwners(t, 1)
		require.NoError(t, w.Setup(owners, 1))

		garbage := make([]byte, types.SignatureLength)
		for i := range garbage {
			garbage[i] = 0xff
		}
		err := w.Verify(testDigest(t, 0), garbage)
		require.ErrorIs(t, err, wallet.ErrInvalidSignature)
	})

	t.Run("Signature over a different digest rejected", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		keys, owners := generateOwners(t, 1)
		require.NoError(t, w.Setup(owners, 1))

		// Signed for nonce 1, verified against nonce 0: recovery yields
		// some address, but not the owner's
		stale := packedFor(t, testDigest(t, 1), keys[0])
		err := w.Verify(testDigest(t, 0), stale)
		require.ErrorIs(t, err, wallet.ErrInvalidSignature)
	})

	t.Run("Extra trailing bytes beyond threshold are ignored", func(t *testing.T) {
		w, _, _ := newTestWallet(t, 0)
		keys, owners := generateOwners(t, 3)
		require.NoError(t, w.Setup(owners, 2))

		digest := testDigest(t, 0)
		packed := packedFor(t, digest, keys[0], keys[1], keys[2])
		require.NoError(t, w.Verify(digest, packed))
	})
}

func TestVerifyRecoveredAddressMatchesSigner(t *testing.T) {
	// Sanity-check the personal-prefix recovery round trip the verifier
	// relies on.
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	digest := testDigest(t, 0)
	sig := signDigest(t, key, digest)
	require.Len(t, sig, types.SignatureLength)
	require.GreaterOrEqual(t, sig[64], byte(27))

	normalized := append([]byte{}, sig...)
	normalized[64] -= 27
	pub, err := crypto.SigToPub(wallet.PersonalDigest(digest), normalized)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(*pub))
}
