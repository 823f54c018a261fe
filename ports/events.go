package ports

import (
	"context"

	"github.com/kamalbuilds/zkPassport/core"
)

// EventPublisher publishes protocol events to notify other instances.
// Publishing is best effort: failures are logged by callers, never fatal.
type EventPublisher interface {
	PublishLogin(ctx context.Context, clientID, address string) error
	PublishLogout(ctx context.Context, clientID, address string) error
	PublishCredentialIssued(ctx context.Context, credential *core.Credential) error
	PublishCredentialRevoked(ctx context.Context, credentialID string) error
	PublishBridgeSubmitted(ctx context.Context, proofID string, targetChain core.Chain, txRef string) error
}
