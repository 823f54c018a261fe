// Package chain provides stand-in verifier and submitter adapters. A real
// deployment replaces them with clients for the target chains' bridge
// contracts; the contracts they must satisfy live in the ports package.
package chain

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

// SimulatedVerifier accepts every proof whose verifier endpoint it serves.
// The chain-pair and credential-binding checks still happen in the bridge
// protocol before this adapter is consulted.
type SimulatedVerifier struct {
	endpoint string
}

// NewSimulatedVerifier creates a verifier for the given endpoint identity.
func NewSimulatedVerifier(cfg core.ChainConfig) *SimulatedVerifier {
	return &SimulatedVerifier{endpoint: cfg.VerifierEndpoint()}
}

var _ ports.ChainVerifier = (*SimulatedVerifier)(nil)

// Endpoint returns the verifier's endpoint identity.
func (v *SimulatedVerifier) Endpoint() string {
	return v.endpoint
}

// Verify accepts the proof.
func (v *SimulatedVerifier) Verify(ctx context.Context, proof *core.BridgeProof) (bool, error) {
	return true, nil
}

// SimulatedSubmitter fabricates transaction references instead of submitting
// to a chain.
type SimulatedSubmitter struct{}

// NewSimulatedSubmitter creates a submitter.
func NewSimulatedSubmitter() *SimulatedSubmitter {
	return &SimulatedSubmitter{}
}

var _ ports.TxSubmitter = (*SimulatedSubmitter)(nil)

// Submit returns a fabricated transaction hash.
func (s *SimulatedSubmitter) Submit(ctx context.Context, proof *core.BridgeProof, targetAddress string, callData []byte) (string, error) {
	var hash [32]byte
	if _, err := rand.Read(hash[:]); err != nil {
		return "", fmt.Errorf("failed to generate transaction reference: %w", err)
	}
	return hexutil.Encode(hash[:]), nil
}

// Verifiers builds a simulated verifier per configured chain.
func Verifiers(chains map[core.Chain]core.ChainConfig) map[core.Chain]ports.ChainVerifier {
	out := make(map[core.Chain]ports.ChainVerifier, len(chains))
	for chain, cfg := range chains {
		out[chain] = NewSimulatedVerifier(cfg)
	}
	return out
}
