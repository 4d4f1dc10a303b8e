package wallet_test

import (
	"bytes"
	"crypto/ecdsa"
	"math/big"
	"sort"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phimine/multisig-wallet/pkg/caller"
	"github.com/phimine/multisig-wallet/pkg/persistence/memory"
	"github.com/phimine/multisig-wallet/pkg/signer"
	"github.com/phimine/multisig-wallet/pkg/wallet"
)

var (
	testWalletAddress = common.HexToAddress("0x00000000000000000000000000000000000000Ff")
	testChainID       = big.NewInt(31337)
)

// newTestWallet builds a wallet over an in-memory store and a ledger caller
// funded with the given balance.
func newTestWallet(t *testing.T, balance int64) (*wallet.Wallet, *caller.LedgerCaller, *memory.MemoryPersistence) {
	t.Helper()

	logger, _ := zap.NewDevelopment()
	store := memory.NewMemoryPersistence()
	ledger := caller.NewLedgerCaller(testWalletAddress, big.NewInt(balance), logger)

	w, err := wallet.NewWallet(testWalletAddress, testChainID, store, ledger, logger)
	require.NoError(t, err)
	return w, ledger, store
}

// generateOwners returns n fresh keys sorted ascending by derived address,
// matching the order the verifier requires.
func generateOwners(t *testing.T, n int) ([]*ecdsa.PrivateKey, []common.Address) {
	t.Helper()

	keys := make([]*ecdsa.PrivateKey, n)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = key
	}

	sort.Slice(keys, func(i, j int) bool {
		a := crypto.PubkeyToAddress(keys[i].PublicKey)
		b := crypto.PubkeyToAddress(keys[j].PublicKey)
		return bytes.Compare(a.Bytes(), b.Bytes()) < 0
	})

	addrs := make([]common.Address, n)
	for i, key := range keys {
		addrs[i] = crypto.PubkeyToAddress(key.PublicKey)
	}
	return keys, addrs
}

// currentDigest quotes the wallet's digest for an action, failing the test
// on encoder errors.
func currentDigest(t *testing.T, w *wallet.Wallet, target common.Address, value *big.Int, payload []byte) (common.Hash, uint64) {
	t.Helper()
	digest, nonce, err := w.CurrentDigest(target, value, payload)
	require.NoError(t, err)
	return digest, nonce
}

// signDigest produces one 65-byte record for the digest.
func signDigest(t *testing.T, key *ecdsa.PrivateKey, digest common.Hash) []byte {
	t.Helper()
	sig, err := signer.SignDigest(key, digest)
	require.NoError(t, err)
	return sig
}

// bigFromDec parses a decimal string, failing the test on junk input.
func bigFromDec(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "invalid decimal %q", s)
	return v
}

// packedFor signs the digest with each key in order and concatenates the
// records without reordering.
func packedFor(t *testing.T, digest common.Hash, keys ...*ecdsa.PrivateKey) []byte {
	t.Helper()
	var packed []byte
	for _, key := range keys {
		packed = append(packed, signDigest(t, key, digest)...)
	}
	return packed
}
