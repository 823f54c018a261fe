package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamalbuilds/zkPassport/adapters/store"
	"github.com/kamalbuilds/zkPassport/core"
)

func testSessionState(expiresAt time.Time) *core.SessionState {
	return &core.SessionState{
		Token:     "header.payload.signature",
		KeyPair:   "0x00",
		Salt:      "42",
		Address:   "0xabc",
		MaxEpoch:  7,
		ExpiresAt: expiresAt,
	}
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	m := NewSessionManager(store.NewMemoryStore())
	ctx := context.Background()

	state := testSessionState(time.Now().Add(time.Hour))
	require.NoError(t, m.Save(ctx, "client-1", state))

	loaded, err := m.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, state.Token, loaded.Token)
	assert.Equal(t, state.Address, loaded.Address)
	assert.Equal(t, state.MaxEpoch, loaded.MaxEpoch)
	assert.WithinDuration(t, state.ExpiresAt, loaded.ExpiresAt, time.Second)
}

func TestSessionLoadNone(t *testing.T) {
	m := NewSessionManager(store.NewMemoryStore())

	_, err := m.Load(context.Background(), "client-1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSessionSaveLastWriteWins(t *testing.T) {
	m := NewSessionManager(store.NewMemoryStore())
	ctx := context.Background()

	first := testSessionState(time.Now().Add(time.Hour))
	first.Address = "0xfirst"
	require.NoError(t, m.Save(ctx, "client-1", first))

	second := testSessionState(time.Now().Add(time.Hour))
	second.Address = "0xsecond"
	require.NoError(t, m.Save(ctx, "client-1", second))

	loaded, err := m.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "0xsecond", loaded.Address)
}

func TestSessionClear(t *testing.T) {
	m := NewSessionManager(store.NewMemoryStore())
	ctx := context.Background()

	// Clearing an absent slot succeeds.
	require.NoError(t, m.Clear(ctx, "client-1"))

	require.NoError(t, m.Save(ctx, "client-1", testSessionState(time.Now().Add(time.Hour))))
	require.NoError(t, m.Clear(ctx, "client-1"))

	_, err := m.Load(ctx, "client-1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSessionSlotsAreIndependent(t *testing.T) {
	m := NewSessionManager(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "client-1", testSessionState(time.Now().Add(time.Hour))))

	_, err := m.Load(ctx, "client-2")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestIsActive(t *testing.T) {
	now := time.Now()

	assert.True(t, IsActive(testSessionState(now.Add(time.Minute)), now))
	assert.False(t, IsActive(testSessionState(now.Add(-time.Minute)), now))
	assert.False(t, IsActive(testSessionState(now), now))
	assert.False(t, IsActive(nil, now))
}
