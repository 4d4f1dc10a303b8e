package types

// SignatureLength is the width of one packed signature record:
// 32-byte r, 32-byte s, 1-byte recovery id.
const SignatureLength = 65

// Outcome reports the result of the authorized external call.
// Authorization failures never produce an Outcome; they abort the
// whole operation before any state change.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// SetupRequestV1 initializes the owner roster and approval threshold.
type SetupRequestV1 struct {
	Owners    []string `json:"owners"`    // Hex addresses
	Threshold uint64   `json:"threshold"` // 1 <= threshold <= len(owners)
}

// DigestRequestV1 asks the wallet for the digest off-chain signers must sign.
// The wallet binds the current nonce and its chain id itself.
type DigestRequestV1 struct {
	Target  string `json:"target"`            // Hex address
	Value   string `json:"value"`             // Decimal amount
	Payload string `json:"payload,omitempty"` // Hex-encoded call payload
}

// DigestResponseV1 carries the digest together with the nonce it binds,
// so signers can detect a stale quote after a concurrent execution.
type DigestResponseV1 struct {
	Digest string `json:"digest"`
	Nonce  uint64 `json:"nonce"`
}

// ExecuteRequestV1 submits an action with its collected signatures.
type ExecuteRequestV1 struct {
	Target     string `json:"target"`
	Value      string `json:"value"`
	Payload    string `json:"payload,omitempty"`
	Signatures string `json:"signatures"` // Hex concatenation of 65-byte records, ascending signer order
}

// ExecuteResponseV1 reports the outcome of an authorized execution.
type ExecuteResponseV1 struct {
	Success bool   `json:"success"` // Outcome of the downstream call, not of authorization
	Digest  string `json:"digest"`
	Nonce   uint64 `json:"nonce"` // Nonce consumed by this execution
}

// StatusResponseV1 exposes read-only wallet introspection.
type StatusResponseV1 struct {
	Address    string   `json:"address"`
	ChainID    string   `json:"chain_id"`
	Owners     []string `json:"owners"`
	OwnerCount int      `json:"owner_count"`
	Threshold  uint64   `json:"threshold"`
	Nonce      uint64   `json:"nonce"`
	OwnersRoot string   `json:"owners_root,omitempty"` // Merkle commitment over the owner set
}
