package badger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phimine/multisig-wallet/pkg/persistence"
)

func newTestBadger(t *testing.T) *BadgerPersistence {
	t.Helper()

	logger, _ := zap.NewDevelopment()
	bp, err := NewBadgerPersistence(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bp.Close() })
	return bp
}

func TestBadgerPersistence_OwnerSetRoundTrip(t *testing.T) {
	bp := newTestBadger(t)

	loaded, err := bp.LoadOwnerSet()
	require.NoError(t, err)
	require.Nil(t, loaded)

	record := &persistence.OwnerSetRecord{
		Owners:    []string{"0x00000000000000000000000000000000000000aA"},
		Threshold: 1,
	}
	require.NoError(t, bp.SaveOwnerSet(record))

	loaded, err = bp.LoadOwnerSet()
	require.NoError(t, err)
	require.Equal(t, record, loaded)
}

func TestBadgerPersistence_NonceRoundTrip(t *testing.T) {
	bp := newTestBadger(t)

	nonce, err := bp.LoadNonce()
	require.NoError(t, err)
	require.Equal(t, uint64(0), nonce)

	require.NoError(t, bp.SaveNonce(7))
	nonce, err = bp.LoadNonce()
	require.NoError(t, err)
	require.Equal(t, uint64(7), nonce)
}

func TestBadgerPersistence_SurvivesReopen(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	dir := t.TempDir()

	bp, err := NewBadgerPersistence(dir, logger)
	require.NoError(t, err)
	require.NoError(t, bp.SaveNonce(99))
	require.NoError(t, bp.SaveOwnerSet(&persistence.OwnerSetRecord{
		Owners:    []string{"0x00000000000000000000000000000000000000Bb"},
		Threshold: 1,
	}))
	require.NoError(t, bp.Close())

	reopened, err := NewBadgerPersistence(dir, logger)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	nonce, err := reopened.LoadNonce()
	require.NoError(t, err)
	require.Equal(t, uint64(99), nonce)

	record, err := reopened.LoadOwnerSet()
	require.NoError(t, err)
	require.Equal(t, uint64(1), record.Threshold)
}

func TestBadgerPersistence_CloseAndHealth(t *testing.T) {
	bp := newTestBadger(t)
	require.NoError(t, bp.HealthCheck())

	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close()) // Idempotent

	require.Error(t, bp.HealthCheck())
	require.Error(t, bp.SaveNonce(1))
}
