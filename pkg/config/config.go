package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the wallet server configuration
const (
	EnvWalletAddress   = "MSIG_WALLET_ADDRESS"
	EnvPort            = "MSIG_PORT"
	EnvChainID         = "MSIG_CHAIN_ID"
	EnvOwners          = "MSIG_OWNERS"
	EnvThreshold       = "MSIG_THRESHOLD"
	EnvPersistenceType = "MSIG_PERSISTENCE_TYPE"
	EnvDataDir         = "MSIG_DATA_DIR"
	EnvRedisAddress    = "MSIG_REDIS_ADDRESS"
	EnvRedisPassword   = "MSIG_REDIS_PASSWORD"
	EnvVerbose         = "MSIG_VERBOSE"
)

type ChainId uint64

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_EthereumMainnet: ChainId_EthereumMainnet,
	ChainName_EthereumSepolia: ChainId_EthereumSepolia,
	ChainName_EthereumAnvil:   ChainId_EthereumAnvil,
}

// PersistenceType selects the wallet-state storage backend.
type PersistenceType string

const (
	PersistenceTypeMemory PersistenceType = "memory"
	PersistenceTypeBadger PersistenceType = "badger"
	PersistenceTypeRedis  PersistenceType = "redis"
)

// PersistenceConfig configures the wallet-state storage backend.
type PersistenceConfig struct {
	Type PersistenceType `json:"type"`

	// DataDir is the on-disk database directory (badger only)
	DataDir string `json:"data_dir,omitempty"`

	// Redis connection parameters (redis only)
	RedisAddress  string `json:"redis_address,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`
	RedisPrefix   string `json:"redis_prefix,omitempty"`
}

// Validate checks backend-specific requirements.
func (pc *PersistenceConfig) Validate() error {
	var allErrors field.ErrorList
	switch pc.Type {
	case PersistenceTypeMemory:
		// Nothing to configure
	case PersistenceTypeBadger:
		if pc.DataDir == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("dataDir"), "dataDir is required for badger persistence"))
		}
	case PersistenceTypeRedis:
		if pc.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("redisAddress"), "redisAddress is required for redis persistence"))
		}
		if pc.RedisDB < 0 || pc.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("redisDB"), pc.RedisDB, "must be between 0 and 15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("type"), string(pc.Type),
			[]string{string(PersistenceTypeMemory), string(PersistenceTypeBadger), string(PersistenceTypeRedis)}))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// WalletServerConfig represents the complete configuration for a wallet server
type WalletServerConfig struct {
	// Wallet identity
	WalletAddress string `json:"wallet_address"` // The wallet's own address
	Port          int    `json:"port"`

	// Chain configuration (the digest context identifier)
	ChainID   ChainId   `json:"chain_id"`
	ChainName ChainName `json:"chain_name"`

	// Optional initial roster; applied once if the wallet has never been set up
	Owners    []string `json:"owners,omitempty"`
	Threshold uint64   `json:"threshold,omitempty"`

	// Storage
	Persistence PersistenceConfig `json:"persistence"`

	// Operational settings
	Debug   bool `json:"debug"`
	Verbose bool `json:"verbose"`
}

// Validate validates the wallet server configuration
func (c *WalletServerConfig) Validate() error {
	if c.WalletAddress == "" {
		return fmt.Errorf("wallet address cannot be empty")
	}
	if !common.IsHexAddress(c.WalletAddress) {
		return fmt.Errorf("invalid wallet address format: %s", c.WalletAddress)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1-65535, got %d", c.Port)
	}

	chainName, exists := ChainIdToName[c.ChainID]
	if !exists {
		return fmt.Errorf("unsupported chain ID %d. Supported: %d (mainnet), %d (sepolia), %d (anvil)",
			c.ChainID, ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
	}
	c.ChainName = chainName

	for _, owner := range c.Owners {
		if !common.IsHexAddress(owner) {
			return fmt.Errorf("invalid owner address format: %s", owner)
		}
	}
	if len(c.Owners) > 0 {
		if c.Threshold < 1 || c.Threshold > uint64(len(c.Owners)) {
			return fmt.Errorf("threshold must be between 1 and %d, got %d", len(c.Owners), c.Threshold)
		}
	}

	if err := c.Persistence.Validate(); err != nil {
		return fmt.Errorf("invalid persistence config: %w", err)
	}

	return nil
}

// GetSupportedChainIDs returns all supported chain IDs
func GetSupportedChainIDs() []ChainId {
	return []ChainId{
		ChainId_EthereumMainnet,
		ChainId_EthereumSepolia,
		ChainId_EthereumAnvil,
	}
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}
