package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

// ProverClient talks to the zero-knowledge proving service over HTTP.
type ProverClient struct {
	url    string
	client *http.Client
}

// NewProverClient creates a proving oracle client. httpClient may be nil.
func NewProverClient(url string, httpClient *http.Client) *ProverClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ProverClient{url: url, client: httpClient}
}

var _ ports.ProofOracle = (*ProverClient)(nil)

// Prove submits a proof request and returns the generated proof.
func (c *ProverClient) Prove(ctx context.Context, proofReq core.ProofRequest) (*core.ZeroKnowledgeProof, error) {
	body, err := json.Marshal(proofReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode proof request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build proof request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prover returned status %d", resp.StatusCode)
	}

	var proof core.ZeroKnowledgeProof
	if err := json.NewDecoder(resp.Body).Decode(&proof); err != nil {
		return nil, fmt.Errorf("failed to decode proof response: %w", err)
	}
	return &proof, nil
}
