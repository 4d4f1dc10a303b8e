package caller

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ICaller is the host substrate the wallet dispatches authorized calls into.
// A failure returned here is a downstream outcome, not an authorization
// error: the wallet has already consumed a nonce by the time Call runs.
type ICaller interface {
	// Call transfers value from the wallet's account to target and hands
	// target the opaque payload. The call is awaited synchronously; its
	// side effects are entirely the substrate's concern.
	Call(ctx context.Context, target common.Address, value *big.Int, payload []byte) error
}
