package wallet

import "github.com/pkg/errors"

// Setup errors. All are terminal for the call that triggered them and
// leave the registry untouched.
var (
	ErrEmptyOwnerSet      = errors.New("owner set is empty")
	ErrInvalidThreshold   = errors.New("threshold out of range")
	ErrInvalidOwner       = errors.New("invalid owner address")
	ErrDuplicateOwner     = errors.New("duplicate owner address")
	ErrAlreadyInitialized = errors.New("owner registry already initialized")
)

// Verification errors. Execute wraps these as authorization failures;
// no state changes and the external call is never made.
var (
	ErrThresholdUninitialized    = errors.New("threshold not initialized")
	ErrInsufficientSignatureData = errors.New("insufficient signature data")
	ErrInvalidSignature          = errors.New("invalid signature")
)

// ErrNonceExhausted fires if the replay counter would overflow. In practice
// unreachable, but the increment is checked rather than wrapping.
var ErrNonceExhausted = errors.New("nonce exhausted")

// ErrValueOutOfRange rejects numeric digest fields outside uint256. The ABI
// packer reduces larger integers mod 2^256, which would let two distinct
// values share a digest.
var ErrValueOutOfRange = errors.New("numeric field exceeds uint256 range")
