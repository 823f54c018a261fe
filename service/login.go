package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

const (
	pendingKeyPrefix = "pending:"

	// DefaultPendingTTL bounds how long a begun login attempt may wait for
	// the identity provider to redirect back.
	DefaultPendingTTL = 10 * time.Minute
)

// LoginFlow composes the key manager, resolver and session manager into the
// begin/complete login orchestration. Every persisted mutation is a single
// atomic write, so an abandoned attempt never leaves half-applied state.
type LoginFlow struct {
	keys     *KeyManager
	resolver *Resolver
	sessions *SessionManager
	store    ports.Store
	events   ports.EventPublisher
	now      func() time.Time
	log      *logrus.Entry
}

// NewLoginFlow creates the login orchestrator. events may be nil.
func NewLoginFlow(keys *KeyManager, resolver *Resolver, sessions *SessionManager, store ports.Store, events ports.EventPublisher) *LoginFlow {
	return &LoginFlow{
		keys:     keys,
		resolver: resolver,
		sessions: sessions,
		store:    store,
		events:   events,
		now:      time.Now,
		log:      logrus.StandardLogger().WithField("module", "login"),
	}
}

// Begin starts a login attempt: it generates the ephemeral key pair, the
// randomness and the nonce bound to the maximum validity epoch, and stashes
// them under the client's pending slot until the token comes back.
func (f *LoginFlow) Begin(ctx context.Context, clientID string) (*core.PendingLogin, error) {
	keyPair, err := f.keys.GenerateEphemeralKeyPair()
	if err != nil {
		return nil, err
	}

	randomness, err := GenerateRandomness()
	if err != nil {
		return nil, err
	}

	maxEpoch := f.keys.MaxEpoch(f.now())
	pending := &core.PendingLogin{
		KeyPair:    keyPair.Serialize(),
		Nonce:      GenerateNonce(keyPair.PublicKey, maxEpoch, randomness),
		Randomness: randomness,
		MaxEpoch:   maxEpoch,
		CreatedAt:  f.now(),
	}

	payload, err := json.Marshal(pending)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize pending login: %w", err)
	}
	if err := f.store.Set(ctx, pendingKeyPrefix+clientID, string(payload), DefaultPendingTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStoreOperation, err)
	}

	return pending, nil
}

// Complete consumes the pending login attempt with the identity-provider
// token: it validates the token against the attempt's nonce, fetches the
// salt, derives the address and persists the session in one write. The
// zero-knowledge proof is not generated here; it stays nil on the session
// until GenerateProof succeeds, which keeps the oracle round trip retryable
// without redoing authentication.
func (f *LoginFlow) Complete(ctx context.Context, clientID, rawToken string) (*core.SessionState, error) {
	pending, err := f.loadPending(ctx, clientID)
	if err != nil {
		return nil, err
	}

	token, err := f.resolver.ValidateToken(rawToken, pending.Nonce)
	if err != nil {
		return nil, err
	}

	salt, err := f.resolver.FetchSalt(ctx, token)
	if err != nil {
		return nil, err
	}

	state := &core.SessionState{
		Token:     token.Raw,
		KeyPair:   pending.KeyPair,
		Salt:      salt,
		Address:   f.resolver.DeriveAddress(token, salt),
		MaxEpoch:  pending.MaxEpoch,
		ExpiresAt: token.Claims.ExpiresAt.Time,
	}

	if err := f.sessions.Save(ctx, clientID, state); err != nil {
		return nil, err
	}
	// Best effort: the session is saved; a stale pending slot only ages out.
	if err := f.store.Delete(ctx, pendingKeyPrefix+clientID); err != nil {
		f.log.WithError(err).Warn("failed to clear pending login")
	}

	f.log.WithFields(logrus.Fields{
		"client":  clientID,
		"address": state.Address,
	}).Info("login completed")

	if f.events != nil {
		if err := f.events.PublishLogin(ctx, clientID, state.Address); err != nil {
			f.log.WithError(err).Warn("failed to publish login event")
		}
	}
	return state, nil
}

// GenerateProof requests the zero-knowledge proof for the client's session
// from the proving oracle and persists it. Safe to retry: each attempt
// re-reads the session and rewrites it whole.
func (f *LoginFlow) GenerateProof(ctx context.Context, clientID string) (*core.SessionState, error) {
	state, err := f.sessions.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !IsActive(state, f.now()) {
		return nil, core.ErrSessionExpired
	}

	// The token was fully validated when the session was created; only its
	// structure is needed to build the proof request.
	token, err := f.resolver.ParseToken(state.Token)
	if err != nil {
		return nil, err
	}

	keyPair, err := core.ParseEphemeralKeyPair(state.KeyPair)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session key pair: %w", err)
	}

	jwtRandomness, err := GenerateRandomness()
	if err != nil {
		return nil, err
	}

	proof, err := f.resolver.RequestProof(ctx, token, keyPair.PublicKey, state.MaxEpoch, state.Salt, jwtRandomness)
	if err != nil {
		return nil, err
	}

	state.Proof = proof
	if err := f.sessions.Save(ctx, clientID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Logout clears the client's session slot. Logging out without a session is
// not an error.
func (f *LoginFlow) Logout(ctx context.Context, clientID string) error {
	address := ""
	if state, err := f.sessions.Load(ctx, clientID); err == nil {
		address = state.Address
	}

	if err := f.sessions.Clear(ctx, clientID); err != nil {
		return err
	}

	if f.events != nil {
		if err := f.events.PublishLogout(ctx, clientID, address); err != nil {
			f.log.WithError(err).Warn("failed to publish logout event")
		}
	}
	return nil
}

func (f *LoginFlow) loadPending(ctx context.Context, clientID string) (*core.PendingLogin, error) {
	payload, err := f.store.Get(ctx, pendingKeyPrefix+clientID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrPendingLoginNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStoreOperation, err)
	}

	var pending core.PendingLogin
	if err := json.Unmarshal([]byte(payload), &pending); err != nil {
		return nil, fmt.Errorf("failed to deserialize pending login: %w", err)
	}
	return &pending, nil
}
