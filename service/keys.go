package service

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math/big"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/kamalbuilds/zkPassport/core"
)

const (
	// DefaultEpochDuration is the length of one validity epoch.
	DefaultEpochDuration = 24 * time.Hour

	// nonceLength is the number of digest bytes kept in a nonce.
	nonceLength = 20

	// randomnessBytes is the entropy drawn for a randomness value.
	randomnessBytes = 16
)

// KeyManager generates ephemeral key material and nonces bound to a maximum
// validity epoch.
type KeyManager struct {
	epochDuration time.Duration
}

// NewKeyManager creates a key manager. A non-positive epochDuration falls
// back to DefaultEpochDuration.
func NewKeyManager(epochDuration time.Duration) *KeyManager {
	if epochDuration <= 0 {
		epochDuration = DefaultEpochDuration
	}
	return &KeyManager{epochDuration: epochDuration}
}

// GenerateEphemeralKeyPair returns a fresh ed25519 key pair from a
// cryptographically secure source. The caller owns disposal.
func (m *KeyManager) GenerateEphemeralKeyPair() (*core.EphemeralKeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key pair: %w", err)
	}
	return &core.EphemeralKeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// MaxEpoch returns the epoch index one unit ahead of the epoch containing
// now, using the manager's configured epoch duration.
func (m *KeyManager) MaxEpoch(now time.Time) uint64 {
	return ComputeMaxEpoch(now, m.epochDuration)
}

// ComputeMaxEpoch returns the epoch index one unit ahead of the epoch
// containing now. It defines the upper bound on how long a derived proof
// remains valid.
func ComputeMaxEpoch(now time.Time, epochDuration time.Duration) uint64 {
	epoch := uint64(now.UnixMilli() / epochDuration.Milliseconds())
	return epoch + 1
}

// GenerateRandomness returns a fresh randomness value as a decimal string.
func GenerateRandomness() (string, error) {
	buf := make([]byte, randomnessBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate randomness: %w", err)
	}
	return new(big.Int).SetBytes(buf).String(), nil
}

// GenerateNonce derives the login nonce from the ephemeral public key, the
// maximum epoch and a randomness value. The same inputs always yield the
// same nonce; unpredictability comes from the randomness input.
func GenerateNonce(publicKey ed25519.PublicKey, maxEpoch uint64, randomness string) string {
	var epoch [8]byte
	binary.BigEndian.PutUint64(epoch[:], maxEpoch)

	digest := ethcrypto.Keccak256(publicKey, epoch[:], []byte(randomness))
	return base64.RawURLEncoding.EncodeToString(digest[:nonceLength])
}
