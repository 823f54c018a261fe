package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

const (
	TopicLogin             = "zkpassport.login"
	TopicLogout            = "zkpassport.logout"
	TopicCredentialIssued  = "zkpassport.credential.issued"
	TopicCredentialRevoked = "zkpassport.credential.revoked"
	TopicBridgeSubmitted   = "zkpassport.bridge.submitted"
)

// LoginEvent notifies other instances about a completed or ended login.
type LoginEvent struct {
	ClientID string `json:"client_id"`
	Address  string `json:"address"`
}

// CredentialEvent notifies about credential lifecycle changes.
type CredentialEvent struct {
	CredentialID string              `json:"credential_id"`
	Type         core.CredentialType `json:"type,omitempty"`
	Issuer       string              `json:"issuer,omitempty"`
	Subject      string              `json:"subject,omitempty"`
}

// BridgeSubmittedEvent notifies about a submitted cross-chain transaction.
type BridgeSubmittedEvent struct {
	ProofID     string     `json:"proof_id"`
	TargetChain core.Chain `json:"target_chain"`
	TxRef       string     `json:"tx_ref"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, clientID, address string) error {
	return p.publish(TopicLogin, LoginEvent{ClientID: clientID, Address: address})
}

// PublishLogout publishes a logout event.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, clientID, address string) error {
	return p.publish(TopicLogout, LoginEvent{ClientID: clientID, Address: address})
}

// PublishCredentialIssued publishes a credential issued event.
func (p *WatermillPublisher) PublishCredentialIssued(ctx context.Context, credential *core.Credential) error {
	return p.publish(TopicCredentialIssued, CredentialEvent{
		CredentialID: credential.ID,
		Type:         credential.Type,
		Issuer:       credential.Issuer,
		Subject:      credential.Subject,
	})
}

// PublishCredentialRevoked publishes a credential revoked event.
func (p *WatermillPublisher) PublishCredentialRevoked(ctx context.Context, credentialID string) error {
	return p.publish(TopicCredentialRevoked, CredentialEvent{CredentialID: credentialID})
}

// PublishBridgeSubmitted publishes a bridge submission event.
func (p *WatermillPublisher) PublishBridgeSubmitted(ctx context.Context, proofID string, targetChain core.Chain, txRef string) error {
	return p.publish(TopicBridgeSubmitted, BridgeSubmittedEvent{
		ProofID:     proofID,
		TargetChain: targetChain,
		TxRef:       txRef,
	})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
