package main

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/phimine/multisig-wallet/pkg/caller"
	"github.com/phimine/multisig-wallet/pkg/config"
	"github.com/phimine/multisig-wallet/pkg/logger"
	"github.com/phimine/multisig-wallet/pkg/persistence"
	badgerstore "github.com/phimine/multisig-wallet/pkg/persistence/badger"
	"github.com/phimine/multisig-wallet/pkg/persistence/memory"
	redisstore "github.com/phimine/multisig-wallet/pkg/persistence/redis"
	"github.com/phimine/multisig-wallet/pkg/wallet"
)

func main() {
	app := &cli.App{
		Name:  "multisig-server",
		Usage: "Threshold-signature transaction-authorization server",
		Description: `A multi-party wallet that gates privileged calls behind threshold approval.

The server implements:
- One-shot owner registry setup with an approval threshold
- Canonical digest quoting for off-chain signature collection
- Threshold verification of packed 65-byte signature records
- Replay-protected execution with a persisted monotonic nonce`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "wallet-address",
				Aliases:  []string{"a"},
				Usage:    "The wallet's own hex address",
				EnvVars:  []string{config.EnvWalletAddress},
				Required: true,
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8000,
				Usage:   "HTTP server port",
				EnvVars: []string{config.EnvPort},
			},
			&cli.Uint64Flag{
				Name:     "chain-id",
				Aliases:  []string{"chain"},
				Usage:    "Chain ID bound into every digest: " + config.GetSupportedChainIDsString(),
				EnvVars:  []string{config.EnvChainID},
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "owner",
				Usage:   "Initial owner address (repeatable); applied once if the wallet has never been set up",
				EnvVars: []string{config.EnvOwners},
			},
			&cli.Uint64Flag{
				Name:    "threshold",
				Aliases: []string{"t"},
				Usage:   "Approval threshold for the initial owner set",
				EnvVars: []string{config.EnvThreshold},
			},
			&cli.StringFlag{
				Name:    "persistence",
				Value:   "memory",
				Usage:   "Wallet-state backend: memory, badger, or redis",
				EnvVars: []string{config.EnvPersistenceType},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Value:   "./data",
				Usage:   "Badger database directory",
				EnvVars: []string{config.EnvDataDir},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Redis server address (host:port)",
				EnvVars: []string{config.EnvRedisAddress},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				EnvVars: []string{config.EnvRedisPassword},
			},
			&cli.IntFlag{
				Name:  "redis-db",
				Usage: "Redis database number (0-15)",
			},
			&cli.StringFlag{
				Name:  "initial-balance",
				Value: "0",
				Usage: "Initial ledger balance of the wallet account (decimal)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvVerbose},
			},
		},
		Action: runWalletServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func runWalletServer(c *cli.Context) error {
	cfg := &config.WalletServerConfig{
		WalletAddress: c.String("wallet-address"),
		Port:          c.Int("port"),
		ChainID:       config.ChainId(c.Uint64("chain-id")),
		Owners:        c.StringSlice("owner"),
		Threshold:     c.Uint64("threshold"),
		Persistence: config.PersistenceConfig{
			Type:          config.PersistenceType(c.String("persistence")),
			DataDir:       c.String("data-dir"),
			RedisAddress:  c.String("redis-address"),
			RedisPassword: c.String("redis-password"),
			RedisDB:       c.Int("redis-db"),
		},
		Verbose: c.Bool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Verbose})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	store, err := openPersistence(cfg, l)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.HealthCheck(); err != nil {
		return fmt.Errorf("persistence health check failed: %w", err)
	}

	initialBalance, ok := new(big.Int).SetString(c.String("initial-balance"), 10)
	if !ok || initialBalance.Sign() < 0 {
		return fmt.Errorf("invalid initial balance: %s", c.String("initial-balance"))
	}

	walletAddress := common.HexToAddress(cfg.WalletAddress)
	ledger := caller.NewLedgerCaller(walletAddress, initialBalance, l)

	w, err := wallet.NewWallet(walletAddress, new(big.Int).SetUint64(uint64(cfg.ChainID)), store, ledger, l)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	// Apply the configured roster only on first run; the registry is one-shot.
	if len(cfg.Owners) > 0 {
		owners := make([]common.Address, len(cfg.Owners))
		for i, hexAddr := range cfg.Owners {
			owners[i] = common.HexToAddress(hexAddr)
		}
		if err := w.Setup(owners, cfg.Threshold); err != nil {
			if errors.Is(err, wallet.ErrAlreadyInitialized) {
				l.Sugar().Infow("Owner registry already initialized, ignoring configured roster")
			} else {
				return fmt.Errorf("initial setup failed: %w", err)
			}
		}
	}

	server := wallet.NewServer(w, cfg.Port)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	l.Sugar().Infow("Wallet server running",
		"wallet", walletAddress.Hex(), "chain", cfg.ChainName, "port", cfg.Port, "nonce", w.Nonce())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	l.Sugar().Infow("Shutting down")
	return server.Stop()
}

func openPersistence(cfg *config.WalletServerConfig, l *zap.Logger) (persistence.IWalletPersistence, error) {
	switch cfg.Persistence.Type {
	case config.PersistenceTypeMemory:
		l.Sugar().Warnw("Using in-memory persistence - wallet state will not survive a restart")
		return memory.NewMemoryPersistence(), nil
	case config.PersistenceTypeBadger:
		return badgerstore.NewBadgerPersistence(cfg.Persistence.DataDir, l)
	case config.PersistenceTypeRedis:
		return redisstore.NewRedisPersistence(&redisstore.RedisConfig{
			Address:   cfg.Persistence.RedisAddress,
			Password:  cfg.Persistence.RedisPassword,
			DB:        cfg.Persistence.RedisDB,
			KeyPrefix: cfg.Persistence.RedisPrefix,
		}, l)
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s", cfg.Persistence.Type)
	}
}
