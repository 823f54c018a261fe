package core

import (
	"crypto/ed25519"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/golang-jwt/jwt/v5"
)

// EphemeralKeyPair is a single-session ed25519 key pair. It is generated
// fresh per login attempt and never reused across sessions.
type EphemeralKeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// Serialize encodes the key pair as a hex string. The ed25519 private key
// embeds the public key, so the private key alone round-trips the pair.
func (kp *EphemeralKeyPair) Serialize() string {
	return hexutil.Encode(kp.PrivateKey)
}

// ParseEphemeralKeyPair decodes a key pair serialized by Serialize.
func ParseEphemeralKeyPair(s string) (*EphemeralKeyPair, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, ErrTokenMalformed
	}
	priv := ed25519.PrivateKey(raw)
	return &EphemeralKeyPair{
		PublicKey:  priv.Public().(ed25519.PublicKey),
		PrivateKey: priv,
	}, nil
}

// IdentityClaims are the claims carried by a federated-login token. The token
// is untrusted input until validated by the resolver.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Nonce string `json:"nonce"`
}

// IdentityToken is a parsed federated-login token together with its raw form.
type IdentityToken struct {
	Raw    string
	Claims IdentityClaims
}

// Subject returns the subject claim of the token.
func (t *IdentityToken) Subject() string {
	return t.Claims.Subject
}

// ProofPoints are the Groth16-shaped points of a zero-knowledge proof.
type ProofPoints struct {
	A [2]string    `json:"a"`
	B [2][2]string `json:"b"`
	C [2]string    `json:"c"`
}

// IssClaimDetails locates the issuer claim inside the token payload so the
// verifier can check it without seeing the rest of the token.
type IssClaimDetails struct {
	Value     string `json:"value"`
	IndexMod4 int    `json:"indexMod4"`
}

// ZeroKnowledgeProof is the structure returned by the proving oracle. It
// binds a proof to a specific (token, epoch, ephemeral public key) tuple.
type ZeroKnowledgeProof struct {
	ProofPoints      ProofPoints     `json:"proofPoints"`
	IssBase64Details IssClaimDetails `json:"issBase64Details"`
	HeaderBase64     string          `json:"headerBase64"`
}

// ProofRequest is the payload sent to the proving oracle.
type ProofRequest struct {
	Token                      string `json:"jwt"`
	ExtendedEphemeralPublicKey string `json:"extendedEphemeralPublicKey"`
	MaxEpoch                   uint64 `json:"maxEpoch"`
	JWTRandomness              string `json:"jwtRandomness"`
	Salt                       string `json:"salt"`
}

// PendingLogin holds the material generated when a login attempt begins and
// consumed when the identity-provider token comes back. It is discarded if
// the attempt is abandoned.
type PendingLogin struct {
	KeyPair    string    `json:"ephemeral_key_pair"`
	Nonce      string    `json:"nonce"`
	Randomness string    `json:"randomness"`
	MaxEpoch   uint64    `json:"max_epoch"`
	CreatedAt  time.Time `json:"created_at"`
}

// SessionState is the single persisted session record for a client.
type SessionState struct {
	Token     string              `json:"token"`
	KeyPair   string              `json:"ephemeral_key_pair"`
	Salt      string              `json:"salt"`
	Proof     *ZeroKnowledgeProof `json:"zk_proof,omitempty"`
	Address   string              `json:"address"`
	MaxEpoch  uint64              `json:"max_epoch"`
	ExpiresAt time.Time           `json:"expires_at"`
}
