package wallet

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/phimine/multisig-wallet/pkg/merkle"
	"github.com/phimine/multisig-wallet/pkg/types"
)

// handleSetup handles the one-shot /setup endpoint
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	reqID := uuid.NewString()

	var req types.SetupRequestV1
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return
	}

	owners := make([]common.Address, 0, len(req.Owners))
	for _, hexAddr := range req.Owners {
		if !common.IsHexAddress(hexAddr) {
			http.Error(w, fmt.Sprintf("Invalid owner address: %s", hexAddr), http.StatusBadRequest)
			return
		}
		owners = append(owners, common.HexToAddress(hexAddr))
	}

	if err := s.wallet.Setup(owners, req.Threshold); err != nil {
		s.wallet.logger.Sugar().Warnw("Setup rejected", "request_id", reqID, "error", err)
		status := http.StatusBadRequest
		if errors.Is(err, ErrAlreadyInitialized) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	s.wallet.logger.Sugar().Infow("Setup completed",
		"request_id", reqID, "owners", len(owners), "threshold", req.Threshold)
	s.writeStatus(w)
}

// handleDigest handles the /digest endpoint, a read-only quote of what
// off-chain signers must sign for the given action at the current nonce.
func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req types.DigestRequestV1
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return
	}

	target, value, payload, err := parseAction(req.Target, req.Value, req.Payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	digest, nonce, err := s.wallet.CurrentDigest(target, value, payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, &types.DigestResponseV1{
		Digest: digest.Hex(),
		Nonce:  nonce,
	})
}

// handleExecute handles the /execute endpoint
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.limiter.Allow() {
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}
	reqID := uuid.NewString()

	var req types.ExecuteRequestV1
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return
	}

	target, value, payload, err := parseAction(req.Target, req.Value, req.Payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	packed, err := parseHexBytes(req.Signatures)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid signatures: %v", err), http.StatusBadRequest)
		return
	}

	result, err := s.wallet.Execute(r.Context(), target, value, payload, packed)
	if err != nil {
		s.wallet.logger.Sugar().Warnw("Execution rejected",
			"request_id", reqID, "target", target.Hex(), "error", err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	writeJSON(w, &types.ExecuteResponseV1{
		Success: result.Outcome == types.OutcomeSuccess,
		Digest:  result.Digest.Hex(),
		Nonce:   result.Nonce,
	})
}

// handleStatus handles the read-only /status endpoint
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeStatus(w)
}

func (s *Server) writeStatus(w http.ResponseWriter) {
	owners := s.wallet.Owners()
	ownerHexes := make([]string, len(owners))
	for i, owner := range owners {
		ownerHexes[i] = owner.Hex()
	}

	resp := &types.StatusResponseV1{
		Address:    s.wallet.Address().Hex(),
		ChainID:    s.wallet.ChainID().String(),
		Owners:     ownerHexes,
		OwnerCount: len(owners),
		Threshold:  s.wallet.Threshold(),
		Nonce:      s.wallet.Nonce(),
	}

	if len(owners) > 0 {
		if root, err := merkle.OwnerSetRoot(owners); err == nil {
			resp.OwnersRoot = hexutil.Encode(root[:])
		}
	}

	writeJSON(w, resp)
}

// parseAction decodes the shared (target, value, payload) request fields.
func parseAction(targetHex, valueDec, payloadHex string) (common.Address, *big.Int, []byte, error) {
	if !common.IsHexAddress(targetHex) {
		return common.Address{}, nil, nil, fmt.Errorf("invalid target address: %s", targetHex)
	}
	target := common.HexToAddress(targetHex)

	value := new(big.Int)
	if valueDec != "" {
		if _, ok := value.SetString(valueDec, 10); !ok {
			return common.Address{}, nil, nil, fmt.Errorf("invalid value: %s", valueDec)
		}
		if value.Sign() < 0 {
			return common.Address{}, nil, nil, fmt.Errorf("value must be non-negative: %s", valueDec)
		}
		// The digest encoder packs value as a uint256; anything wider
		// would alias a smaller value's digest.
		if value.BitLen() > 256 {
			return common.Address{}, nil, nil, fmt.Errorf("value exceeds uint256 range: %s", valueDec)
		}
	}

	payload, err := parseHexBytes(payloadHex)
	if err != nil {
		return common.Address{}, nil, nil, fmt.Errorf("invalid payload: %w", err)
	}

	return target, value, payload, nil
}

// parseHexBytes decodes an optional 0x-prefixed hex string.
func parseHexBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hexutil.Decode(s)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
