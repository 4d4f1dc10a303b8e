package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *WalletServerConfig {
	return &WalletServerConfig{
		WalletAddress: "0x00000000000000000000000000000000000000Ff",
		Port:          8000,
		ChainID:       ChainId_EthereumAnvil,
		Persistence:   PersistenceConfig{Type: PersistenceTypeMemory},
	}
}

func TestWalletServerConfigValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())
		require.Equal(t, ChainName_EthereumAnvil, cfg.ChainName)
	})

	t.Run("Missing wallet address", func(t *testing.T) {
		cfg := validConfig()
		cfg.WalletAddress = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("Malformed wallet address", func(t *testing.T) {
		cfg := validConfig()
		cfg.WalletAddress = "not-an-address"
		require.Error(t, cfg.Validate())
	})

	t.Run("Bad port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = 0
		require.Error(t, cfg.Validate())
		cfg.Port = 70000
		require.Error(t, cfg.Validate())
	})

	t.Run("Unsupported chain", func(t *testing.T) {
		cfg := validConfig()
		cfg.ChainID = ChainId(999)
		require.Error(t, cfg.Validate())
	})

	t.Run("Initial roster requires a sane threshold", func(t *testing.T) {
		cfg := validConfig()
		cfg.Owners = []string{"0x00000000000000000000000000000000000000aA"}
		cfg.Threshold = 0
		require.Error(t, cfg.Validate())
		cfg.Threshold = 2
		require.Error(t, cfg.Validate())
		cfg.Threshold = 1
		require.NoError(t, cfg.Validate())
	})

	t.Run("Bad owner address", func(t *testing.T) {
		cfg := validConfig()
		cfg.Owners = []string{"garbage"}
		cfg.Threshold = 1
		require.Error(t, cfg.Validate())
	})
}

func TestPersistenceConfigValidate(t *testing.T) {
	t.Run("Memory needs nothing", func(t *testing.T) {
		pc := &PersistenceConfig{Type: PersistenceTypeMemory}
		require.NoError(t, pc.Validate())
	})

	t.Run("Badger needs a data dir", func(t *testing.T) {
		pc := &PersistenceConfig{Type: PersistenceTypeBadger}
		require.Error(t, pc.Validate())
		pc.DataDir = "/tmp/wallet"
		require.NoError(t, pc.Validate())
	})

	t.Run("Redis needs an address and a valid DB", func(t *testing.T) {
		pc := &PersistenceConfig{Type: PersistenceTypeRedis}
		require.Error(t, pc.Validate())
		pc.RedisAddress = "localhost:6379"
		require.NoError(t, pc.Validate())
		pc.RedisDB = 16
		require.Error(t, pc.Validate())
	})

	t.Run("Unknown backend", func(t *testing.T) {
		pc := &PersistenceConfig{Type: "etcd"}
		require.Error(t, pc.Validate())
	})
}
