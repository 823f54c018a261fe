package core

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain identifies a supported blockchain.
type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainPolygon  Chain = "polygon"
	ChainSui      Chain = "sui"
	ChainAptos    Chain = "aptos"
	ChainArbitrum Chain = "arbitrum"
	ChainOptimism Chain = "optimism"
)

// ChainConfig describes one chain in the configured chain set.
type ChainConfig struct {
	ID             uint64         `json:"id"`
	Name           string         `json:"name"`
	RPCURL         string         `json:"rpcUrl"`
	BridgeContract common.Address `json:"bridgeContract"`
	ExplorerURL    string         `json:"explorerUrl"`
	EVM            bool           `json:"isEVM"`
}

// VerifierEndpoint returns the identity of the chain's bridge verifier: the
// bridge contract address on EVM chains, the RPC endpoint elsewhere.
func (c ChainConfig) VerifierEndpoint() string {
	if c.EVM {
		return c.BridgeContract.Hex()
	}
	return c.RPCURL
}

// BridgeProofState is the state of one cross-chain verification attempt.
type BridgeProofState int

const (
	BridgeProofInitiated BridgeProofState = iota
	BridgeProofGenerated
	BridgeProofVerified
	BridgeProofRejected
	BridgeProofSubmitted
)

func (s BridgeProofState) String() string {
	switch s {
	case BridgeProofInitiated:
		return "initiated"
	case BridgeProofGenerated:
		return "proof_generated"
	case BridgeProofVerified:
		return "verified"
	case BridgeProofRejected:
		return "rejected"
	case BridgeProofSubmitted:
		return "submitted"
	}
	return "unknown"
}

// BridgeProof asserts that a credential verified on a source chain may be
// trusted on a target chain. It is a transient, one-shot artifact: it lives
// for a single generate/verify/submit flow and is never persisted.
type BridgeProof struct {
	ID          string           `json:"id"`
	ProofData   string           `json:"proofData"`
	SourceChain Chain            `json:"sourceChain"`
	TargetChain Chain            `json:"targetChain"`
	Credential  Credential       `json:"credential"`
	GeneratedAt time.Time        `json:"timestamp"`
	Verifier    string           `json:"verifier"`
	Binding     string           `json:"binding"`
	State       BridgeProofState `json:"state"`
}

// BridgeVerification is the structured outcome of verifying a bridge proof.
type BridgeVerification struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}
