package wallet

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

/*
Server handles HTTP requests for the wallet.

Request Flow:
  POST /setup:
    - Request: { owners, threshold }
    - One-shot initialization of the owner registry
    - 409 once the registry is initialized (also across restarts when a
      durable persistence backend is configured)

  POST /digest:
    - Request: { target, value, payload }
    - Returns the digest bound to the wallet's current nonce and chain id,
      so off-chain signers can compute what to sign before collecting
      signatures

  POST /execute:
    - Request: { target, value, payload, signatures }
    - signatures is the packed buffer of 65-byte records in ascending
      recovered-signer order
    - 403 on authorization failure (nothing consumed)
    - 200 with success=false when the authorized call itself failed
      (the nonce is consumed either way)

  GET /status:
    - Read-only introspection: owners, threshold, nonce, owner-set
      merkle commitment

Rate limiting:
  - /execute is throttled; signature recovery is the expensive step and
    each attempt is an authorization decision worth bounding.
*/

// Server handles HTTP requests for the wallet
type Server struct {
	wallet     *Wallet
	httpServer *http.Server
	limiter    *rate.Limiter
}

// NewServer creates a new server instance
func NewServer(w *Wallet, port int) *Server {
	s := &Server{
		wallet: w,
		// Burst of 10, refill 20/s; plenty for legitimate callers
		limiter: rate.NewLimiter(rate.Limit(20), 10),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/setup", s.handleSetup)
	mux.HandleFunc("/digest", s.handleDigest)
	mux.HandleFunc("/execute", s.handleExecute)
	mux.HandleFunc("/status", s.handleStatus)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go func() {
		s.wallet.logger.Sugar().Infow("Starting HTTP server",
			"wallet", s.wallet.Address().Hex(), "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.wallet.logger.Sugar().Errorw("HTTP server error",
				"wallet", s.wallet.Address().Hex(), "error", err)
		}
	}()
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	return s.httpServer.Close()
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}
