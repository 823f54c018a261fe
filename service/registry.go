package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

// DefaultValidityDays is the credential validity applied when the caller
// does not specify one.
const DefaultValidityDays = 365

// SignatureVerifier checks an issuer's signature over a credential payload.
// It is the extension point for making Verify cryptographically binding; the
// issuer's public key is available on the catalog entry.
type SignatureVerifier func(credential *core.Credential, issuer core.Issuer) error

// Registry owns the credential data model: issuance, lookup, validity
// checks and revocation. The issuer catalog is injected at construction and
// read-only afterwards.
type Registry struct {
	mu          sync.RWMutex
	issuers     map[string]core.Issuer
	credentials map[string]*core.Credential

	sigVerifier SignatureVerifier
	events      ports.EventPublisher
	now         func() time.Time
	log         *logrus.Entry
}

// NewRegistry creates a registry over the given issuer catalog. events may be
// nil; sigVerifier may be nil, in which case Verify only attests existence
// and temporal validity and flags itself as such.
func NewRegistry(issuers []core.Issuer, events ports.EventPublisher, sigVerifier SignatureVerifier) *Registry {
	catalog := make(map[string]core.Issuer, len(issuers))
	for _, issuer := range issuers {
		catalog[issuer.ID] = issuer
	}
	return &Registry{
		issuers:     catalog,
		credentials: make(map[string]*core.Credential),
		sigVerifier: sigVerifier,
		events:      events,
		now:         time.Now,
		log:         logrus.StandardLogger().WithField("module", "registry"),
	}
}

// Issue creates and stores a new credential. The issuing issuer must exist
// and be authorized for the requested type. validityDays <= 0 selects
// DefaultValidityDays.
func (r *Registry) Issue(ctx context.Context, credType core.CredentialType, issuerID, subjectID string, attributes map[string]core.AttributeValue, validityDays int) (*core.Credential, error) {
	if !credType.Known() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownCredentialType, credType)
	}
	if validityDays <= 0 {
		validityDays = DefaultValidityDays
	}

	r.mu.Lock()
	issuer, ok := r.issuers[issuerID]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", core.ErrIssuerUnknown, issuerID)
	}
	if !issuer.AuthorizedFor(credType) {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: issuer %q, type %q", core.ErrIssuerNotAuthorized, issuerID, credType)
	}

	now := r.now()
	credential := &core.Credential{
		ID:             "cred-" + uuid.NewString(),
		Type:           credType,
		Issuer:         issuerID,
		Subject:        subjectID,
		IssuanceDate:   now,
		ExpirationDate: now.Add(time.Duration(validityDays) * 24 * time.Hour),
		Attributes:     make(map[string]core.AttributeValue, len(attributes)),
	}
	for k, v := range attributes {
		credential.Attributes[k] = v
	}

	r.credentials[credential.ID] = credential
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"credential": credential.ID,
		"type":       credType,
		"issuer":     issuerID,
	}).Info("credential issued")

	if r.events != nil {
		if err := r.events.PublishCredentialIssued(ctx, credential.Clone()); err != nil {
			r.log.WithError(err).Warn("failed to publish credential issued event")
		}
	}

	return credential.Clone(), nil
}

// Get returns the credential with the given id, or core.ErrCredentialNotFound.
func (r *Registry) Get(id string) (*core.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	credential, ok := r.credentials[id]
	if !ok {
		return nil, core.ErrCredentialNotFound
	}
	return credential.Clone(), nil
}

// ListForSubject returns all credentials whose subject equals subjectID.
// Order is not significant.
func (r *Registry) ListForSubject(subjectID string) []*core.Credential {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*core.Credential
	for _, credential := range r.credentials {
		if credential.Subject == subjectID {
			out = append(out, credential.Clone())
		}
	}
	return out
}

// Verify reports whether the credential exists and is temporally valid. When
// a signature verifier is configured it additionally checks the issuer
// signature; otherwise the result carries SignatureUnchecked so callers
// cannot mistake the check for a cryptographic one.
func (r *Registry) Verify(id string) core.VerificationResult {
	unchecked := r.sigVerifier == nil

	r.mu.RLock()
	credential, ok := r.credentials[id]
	var issuer core.Issuer
	if ok {
		issuer = r.issuers[credential.Issuer]
		credential = credential.Clone()
	}
	r.mu.RUnlock()

	if !ok {
		return core.VerificationResult{Status: core.CredentialStatusNotFound, SignatureUnchecked: unchecked}
	}
	if credential.Expired(r.now()) {
		return core.VerificationResult{Status: core.CredentialStatusExpired, SignatureUnchecked: unchecked}
	}
	if !unchecked {
		if err := r.sigVerifier(credential, issuer); err != nil {
			return core.VerificationResult{Status: core.CredentialStatusSignatureInvalid}
		}
	}
	return core.VerificationResult{Status: core.CredentialStatusValid, Valid: true, SignatureUnchecked: unchecked}
}

// Revoke permanently removes the credential and reports whether it existed.
// This is a hard delete: afterwards Get and Verify behave exactly as for a
// credential that never existed.
func (r *Registry) Revoke(ctx context.Context, id string) bool {
	r.mu.Lock()
	_, existed := r.credentials[id]
	delete(r.credentials, id)
	r.mu.Unlock()

	if !existed {
		return false
	}

	r.log.WithField("credential", id).Info("credential revoked")
	if r.events != nil {
		if err := r.events.PublishCredentialRevoked(ctx, id); err != nil {
			r.log.WithError(err).Warn("failed to publish credential revoked event")
		}
	}
	return true
}

// Issuers returns the issuer catalog.
func (r *Registry) Issuers() []core.Issuer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Issuer, 0, len(r.issuers))
	for _, issuer := range r.issuers {
		out = append(out, issuer)
	}
	return out
}

// Issuer returns the issuer with the given id.
func (r *Registry) Issuer(id string) (core.Issuer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issuer, ok := r.issuers[id]
	if !ok {
		return core.Issuer{}, fmt.Errorf("%w: %q", core.ErrIssuerUnknown, id)
	}
	return issuer, nil
}

// IssuersForType returns the issuers authorized to issue credentials of the
// given type.
func (r *Registry) IssuersForType(credType core.CredentialType) []core.Issuer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Issuer
	for _, issuer := range r.issuers {
		if issuer.AuthorizedFor(credType) {
			out = append(out, issuer)
		}
	}
	return out
}
