package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phimine/multisig-wallet/pkg/persistence"
)

func TestMemoryPersistence_OwnerSet(t *testing.T) {
	m := NewMemoryPersistence()

	loaded, err := m.LoadOwnerSet()
	require.NoError(t, err)
	require.Nil(t, loaded)

	record := &persistence.OwnerSetRecord{
		Owners:    []string{"0x00000000000000000000000000000000000000aA", "0x00000000000000000000000000000000000000Bb"},
		Threshold: 2,
	}
	require.NoError(t, m.SaveOwnerSet(record))

	loaded, err = m.LoadOwnerSet()
	require.NoError(t, err)
	require.Equal(t, record, loaded)

	// Mutating the loaded copy must not affect stored state
	loaded.Owners[0] = "mutated"
	again, err := m.LoadOwnerSet()
	require.NoError(t, err)
	require.Equal(t, record.Owners[0], again.Owners[0])

	require.Error(t, m.SaveOwnerSet(nil))
}

func TestMemoryPersistence_Nonce(t *testing.T) {
	m := NewMemoryPersistence()

	nonce, err := m.LoadNonce()
	require.NoError(t, err)
	require.Equal(t, uint64(0), nonce)

	require.NoError(t, m.SaveNonce(42))
	nonce, err = m.LoadNonce()
	require.NoError(t, err)
	require.Equal(t, uint64(42), nonce)
}

func TestMemoryPersistence_Close(t *testing.T) {
	m := NewMemoryPersistence()
	require.NoError(t, m.HealthCheck())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close()) // Idempotent

	require.Error(t, m.HealthCheck())
	require.Error(t, m.SaveNonce(1))
	_, err := m.LoadNonce()
	require.Error(t, err)
	_, err = m.LoadOwnerSet()
	require.Error(t, err)
}
