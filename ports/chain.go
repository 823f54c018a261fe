package ports

import (
	"context"

	"github.com/kamalbuilds/zkPassport/core"
)

// ChainVerifier is a target chain's bridge verification endpoint.
type ChainVerifier interface {
	// Endpoint identifies the verifier contract or endpoint being queried.
	// The bridge protocol compares it against the endpoint a proof was
	// generated for, so a proof cannot be replayed against another chain.
	Endpoint() string

	// Verify checks the proof against the target chain's on-chain
	// verification state. A false result is a rejection; an error is a
	// transport failure.
	Verify(ctx context.Context, proof *core.BridgeProof) (bool, error)
}

// TxSubmitter submits a transaction carrying a verified bridge proof and
// returns an opaque transaction reference.
type TxSubmitter interface {
	Submit(ctx context.Context, proof *core.BridgeProof, targetAddress string, callData []byte) (string, error)
}
