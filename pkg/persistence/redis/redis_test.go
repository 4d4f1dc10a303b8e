package redis

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phimine/multisig-wallet/pkg/persistence"
)

// getTestRedisAddress returns the Redis address for testing.
// Uses REDIS_TEST_ADDRESS env var if set, otherwise defaults to localhost:6379.
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireRedis skips the test if Redis is not available
func requireRedis(t *testing.T) *RedisPersistence {
	t.Helper()

	logger, _ := zap.NewDevelopment()
	cfg := &RedisConfig{
		Address:   getTestRedisAddress(),
		DB:        15, // Use DB 15 for tests to avoid conflicts
		KeyPrefix: "test:" + t.Name() + ":",
	}

	rp, err := NewRedisPersistence(cfg, logger)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", cfg.Address, err)
		return nil
	}
	t.Cleanup(func() { _ = rp.Close() })

	return rp
}

func TestRedisPersistence_OwnerSetRoundTrip(t *testing.T) {
	rp := requireRedis(t)

	record := &persistence.OwnerSetRecord{
		Owners:    []string{"0x00000000000000000000000000000000000000aA", "0x00000000000000000000000000000000000000Bb"},
		Threshold: 2,
	}
	require.NoError(t, rp.SaveOwnerSet(record))

	loaded, err := rp.LoadOwnerSet()
	require.NoError(t, err)
	require.Equal(t, record, loaded)
}

func TestRedisPersistence_NonceRoundTrip(t *testing.T) {
	rp := requireRedis(t)

	require.NoError(t, rp.SaveNonce(123))
	nonce, err := rp.LoadNonce()
	require.NoError(t, err)
	require.Equal(t, uint64(123), nonce)
}

func TestRedisPersistence_CloseAndHealth(t *testing.T) {
	rp := requireRedis(t)
	require.NoError(t, rp.HealthCheck())

	require.NoError(t, rp.Close())
	require.NoError(t, rp.Close()) // Idempotent

	require.Error(t, rp.HealthCheck())
	require.Error(t, rp.SaveNonce(1))
}

func TestRedisPersistence_ConfigValidation(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	_, err := NewRedisPersistence(nil, logger)
	require.Error(t, err)

	_, err = NewRedisPersistence(&RedisConfig{}, logger)
	require.Error(t, err)
}
