package wallet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phimine/multisig-wallet/pkg/types"
	"github.com/phimine/multisig-wallet/pkg/wallet"
)

func TestSplitSignature(t *testing.T) {
	// Two synthetic records with recognizable bytes
	packed := make([]byte, 2*types.SignatureLength)
	for i := 0; i < 32; i++ {
		packed[i] = 0x11
		packed[32+i] = 0x22
		packed[65+i] = 0x33
		packed[65+32+i] = 0x44
	}
	packed[64] = 27
	packed[129] = 28

	r0, s0, v0 := wallet.SplitSignature(packed, 0)
	require.Equal(t, byte(0x11), r0[0])
	require.Equal(t, byte(0x11), r0[31])
	require.Equal(t, byte(0x22), s0[0])
	require.Equal(t, byte(27), v0)

	r1, s1, v1 := wallet.SplitSignature(packed, 1)
	require.Equal(t, byte(0x33), r1[0])
	require.Equal(t, byte(0x44), s1[31])
	require.Equal(t, byte(28), v1)
}
