package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

const sessionKeyPrefix = "session:"

// SessionManager persists the single session slot per client. Writes are
// atomic whole-record overwrites: concurrent logins from the same client
// overwrite each other, last write wins.
type SessionManager struct {
	store ports.Store
}

// NewSessionManager creates a session manager on top of a store.
func NewSessionManager(store ports.Store) *SessionManager {
	return &SessionManager{store: store}
}

// Save overwrites the client's session slot. The record expires from the
// store together with the session itself.
func (m *SessionManager) Save(ctx context.Context, clientID string, state *core.SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	ttl := time.Until(state.ExpiresAt)
	if err := m.store.Set(ctx, sessionKeyPrefix+clientID, string(payload), ttl); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperation, err)
	}
	return nil
}

// Load returns the client's persisted session, or core.ErrSessionNotFound.
// No freshness check is performed here; callers gate on IsActive.
func (m *SessionManager) Load(ctx context.Context, clientID string) (*core.SessionState, error) {
	payload, err := m.store.Get(ctx, sessionKeyPrefix+clientID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStoreOperation, err)
	}

	var state core.SessionState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}
	return &state, nil
}

// Clear removes the client's session slot. Clearing an absent slot succeeds.
func (m *SessionManager) Clear(ctx context.Context, clientID string) error {
	if err := m.store.Delete(ctx, sessionKeyPrefix+clientID); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperation, err)
	}
	return nil
}

// IsActive reports whether the session is still valid at now. An inactive
// session is logically absent even if still physically persisted and must
// never authorize credential or bridge operations.
func IsActive(state *core.SessionState, now time.Time) bool {
	return state != nil && state.ExpiresAt.After(now)
}
