package caller

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// PayloadHandler consumes the opaque payload delivered to a target account.
// Returning an error fails the call after any value transfer is rolled back.
type PayloadHandler func(payload []byte) error

// LedgerCaller is an in-process ICaller backed by a simple balance ledger.
// It gives the wallet a concrete substrate to spend against without a chain:
// value moves from the wallet's account to the target, and targets may
// register a handler to consume payloads.
type LedgerCaller struct {
	logger *zap.Logger

	// walletAddress is the account debited on every call.
	walletAddress common.Address

	mu       sync.Mutex
	balances map[common.Address]*big.Int
	handlers map[common.Address]PayloadHandler
}

var _ ICaller = (*LedgerCaller)(nil)

// NewLedgerCaller creates a ledger substrate. The wallet's account starts
// with the given balance.
func NewLedgerCaller(walletAddress common.Address, initialBalance *big.Int, logger *zap.Logger) *LedgerCaller {
	if initialBalance == nil {
		initialBalance = new(big.Int)
	}

	lc := &LedgerCaller{
		logger:        logger,
		walletAddress: walletAddress,
		balances:      make(map[common.Address]*big.Int),
		handlers:      make(map[common.Address]PayloadHandler),
	}
	lc.balances[walletAddress] = new(big.Int).Set(initialBalance)
	return lc
}

// RegisterHandler installs a payload handler for a target account.
func (lc *LedgerCaller) RegisterHandler(target common.Address, handler PayloadHandler) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.handlers[target] = handler
}

// Credit adds funds to an account.
func (lc *LedgerCaller) Credit(account common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("credit amount must be non-negative")
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.balanceOf(account).Add(lc.balanceOf(account), amount)
	return nil
}

// Balance returns the current balance of an account.
func (lc *LedgerCaller) Balance(account common.Address) *big.Int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return new(big.Int).Set(lc.balanceOf(account))
}

// Call moves value from the wallet account to target and runs the target's
// payload handler, if any. The transfer and the handler succeed or fail as
// a unit: a handler error undoes the transfer.
func (lc *LedgerCaller) Call(ctx context.Context, target common.Address, value *big.Int, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return fmt.Errorf("negative value %s", value)
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	from := lc.balanceOf(lc.walletAddress)
	if from.Cmp(value) < 0 {
		return fmt.Errorf("insufficient balance: have %s, need %s", from, value)
	}

	to := lc.balanceOf(target)
	from.Sub(from, value)
	to.Add(to, value)

	if handler, ok := lc.handlers[target]; ok && len(payload) > 0 {
		if err := handler(payload); err != nil {
			// Undo the transfer so a failed call leaves no ledger change.
			from.Add(from, value)
			to.Sub(to, value)
			return fmt.Errorf("payload handler for %s failed: %w", target.Hex(), err)
		}
	}

	lc.logger.Sugar().Debugw("Ledger call completed",
		"target", target.Hex(), "value", value.String(), "payload_bytes", len(payload))

	return nil
}

// balanceOf returns the mutable balance entry, creating it at zero.
// Caller must hold lc.mu.
func (lc *LedgerCaller) balanceOf(account common.Address) *big.Int {
	bal, ok := lc.balances[account]
	if !ok {
		bal = new(big.Int)
		lc.balances[account] = bal
	}
	return bal
}
