package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamalbuilds/zkPassport/core"
)

func TestGenerateEphemeralKeyPair(t *testing.T) {
	m := NewKeyManager(0)

	kp1, err := m.GenerateEphemeralKeyPair()
	require.NoError(t, err)
	kp2, err := m.GenerateEphemeralKeyPair()
	require.NoError(t, err)

	assert.NotEqual(t, kp1.PublicKey, kp2.PublicKey, "key pairs must be fresh per login attempt")
}

func TestEphemeralKeyPairSerializeRoundTrip(t *testing.T) {
	m := NewKeyManager(0)

	kp, err := m.GenerateEphemeralKeyPair()
	require.NoError(t, err)

	parsed, err := core.ParseEphemeralKeyPair(kp.Serialize())
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, parsed.PublicKey)
	assert.Equal(t, kp.PrivateKey, parsed.PrivateKey)
}

func TestParseEphemeralKeyPairRejectsGarbage(t *testing.T) {
	_, err := core.ParseEphemeralKeyPair("not hex")
	assert.Error(t, err)

	_, err = core.ParseEphemeralKeyPair("0x0102")
	assert.Error(t, err)
}

func TestComputeMaxEpoch(t *testing.T) {
	epochDuration := 24 * time.Hour
	now := time.UnixMilli(epochDuration.Milliseconds()*10 + 1)

	// One epoch ahead of the epoch containing now.
	assert.Equal(t, uint64(11), ComputeMaxEpoch(now, epochDuration))

	// Stable within the same epoch.
	later := now.Add(epochDuration - 2*time.Millisecond)
	assert.Equal(t, ComputeMaxEpoch(now, epochDuration), ComputeMaxEpoch(later, epochDuration))

	// Advances with the next epoch.
	next := now.Add(epochDuration)
	assert.Equal(t, uint64(12), ComputeMaxEpoch(next, epochDuration))
}

func TestGenerateNonceDeterministic(t *testing.T) {
	m := NewKeyManager(0)
	kp, err := m.GenerateEphemeralKeyPair()
	require.NoError(t, err)

	randomness, err := GenerateRandomness()
	require.NoError(t, err)

	n1 := GenerateNonce(kp.PublicKey, 42, randomness)
	n2 := GenerateNonce(kp.PublicKey, 42, randomness)
	assert.Equal(t, n1, n2, "same inputs must yield the same nonce")
}

func TestGenerateNonceVariesWithInputs(t *testing.T) {
	m := NewKeyManager(0)
	kp, err := m.GenerateEphemeralKeyPair()
	require.NoError(t, err)

	r1, err := GenerateRandomness()
	require.NoError(t, err)
	r2, err := GenerateRandomness()
	require.NoError(t, err)
	require.NotEqual(t, r1, r2)

	assert.NotEqual(t, GenerateNonce(kp.PublicKey, 42, r1), GenerateNonce(kp.PublicKey, 42, r2))
	assert.NotEqual(t, GenerateNonce(kp.PublicKey, 42, r1), GenerateNonce(kp.PublicKey, 43, r1))

	other, err := m.GenerateEphemeralKeyPair()
	require.NoError(t, err)
	assert.NotEqual(t, GenerateNonce(kp.PublicKey, 42, r1), GenerateNonce(other.PublicKey, 42, r1))
}
