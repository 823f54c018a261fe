package ports

import (
	"context"

	"github.com/kamalbuilds/zkPassport/core"
)

// SaltOracle is the trusted service that maps a validated identity token to
// the subject's secret salt. Calls cross a trust boundary and may be slow;
// callers own timeouts and retries.
type SaltOracle interface {
	FetchSalt(ctx context.Context, token string) (string, error)
}

// ProofOracle is the opaque proving backend. It either returns a proof bound
// to the request tuple or fails; it never partially succeeds.
type ProofOracle interface {
	Prove(ctx context.Context, req core.ProofRequest) (*core.ZeroKnowledgeProof, error)
}
