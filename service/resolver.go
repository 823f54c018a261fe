package service

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

// InsecureFallbackSalt is the fixed salt substituted when the salt oracle is
// unavailable and the resolver was explicitly configured to allow it. It is
// not secret and must never be enabled in production: every subject falls
// back to the same salt, so addresses derived with it carry no privacy.
const InsecureFallbackSalt = "129390038577185583942388216820280642146"

// ResolverConfig carries the resolver's trust-boundary collaborators.
type ResolverConfig struct {
	SaltOracle  ports.SaltOracle
	ProofOracle ports.ProofOracle

	// AllowInsecureFallbackSalt substitutes InsecureFallbackSalt when the
	// salt oracle fails instead of surfacing the error. Degraded mode for
	// non-production use only; never enabled silently.
	AllowInsecureFallbackSalt bool
}

// Resolver validates identity-provider tokens and derives the stable on-chain
// address from a token plus the subject's secret salt.
type Resolver struct {
	saltOracle    ports.SaltOracle
	proofOracle   ports.ProofOracle
	allowFallback bool
	now           func() time.Time
	log           *logrus.Entry
}

// NewResolver creates a resolver from its configuration.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		saltOracle:    cfg.SaltOracle,
		proofOracle:   cfg.ProofOracle,
		allowFallback: cfg.AllowInsecureFallbackSalt,
		now:           time.Now,
		log:           logrus.StandardLogger().WithField("module", "resolver"),
	}
}

// ParseToken parses a raw identity token into its claims without any
// trust decision. Fails only on structural problems.
func (r *Resolver) ParseToken(raw string) (*core.IdentityToken, error) {
	if strings.Count(raw, ".") != 2 {
		return nil, core.ErrTokenMalformed
	}

	var claims core.IdentityClaims
	// The identity provider's signature is not checked here: the token is
	// consumed, never minted, and signature verification over provider JWKs
	// is the transport's concern. Structural and nonce validation are what
	// bind it to this session.
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTokenMalformed, err)
	}

	return &core.IdentityToken{Raw: raw, Claims: claims}, nil
}

// ValidateToken parses a raw identity token and checks it against the
// session's expected nonce and the current time. The nonce check is the
// binding that proves the token was issued in response to this session's
// request; without it a token minted for another session could be
// substituted.
func (r *Resolver) ValidateToken(raw string, expectedNonce string) (*core.IdentityToken, error) {
	token, err := r.ParseToken(raw)
	if err != nil {
		return nil, err
	}

	if token.Claims.Nonce != expectedNonce {
		return nil, core.ErrNonceMismatch
	}

	if token.Claims.ExpiresAt == nil || token.Claims.ExpiresAt.Before(r.now()) {
		return nil, core.ErrTokenExpired
	}

	return token, nil
}

// FetchSalt requests the subject's salt from the trusted salt oracle. When
// the oracle fails and the insecure fallback is enabled, the fallback salt is
// returned instead of an error; the degradation is logged loudly.
func (r *Resolver) FetchSalt(ctx context.Context, token *core.IdentityToken) (string, error) {
	salt, err := r.saltOracle.FetchSalt(ctx, token.Raw)
	if err != nil {
		if r.allowFallback {
			r.log.WithError(err).Warn("salt oracle unavailable, using insecure fallback salt")
			return InsecureFallbackSalt, nil
		}
		return "", fmt.Errorf("%w: %v", core.ErrSaltOracle, err)
	}
	return salt, nil
}

// DeriveAddress derives the stable on-chain address from the token's subject
// claim and the salt. The same (subject, salt) pair always yields the same
// address; the inner hashes keep distinct pairs from colliding through
// concatenation.
func (r *Resolver) DeriveAddress(token *core.IdentityToken, salt string) string {
	digest := ethcrypto.Keccak256(
		ethcrypto.Keccak256([]byte(token.Subject())),
		ethcrypto.Keccak256([]byte(salt)),
	)
	return hexutil.Encode(digest)
}

// RequestProof delegates proof generation to the proving oracle. The call
// suspends for the oracle round trip; the resolver does not retry, the
// caller may.
func (r *Resolver) RequestProof(ctx context.Context, token *core.IdentityToken, ephemeralPublicKey ed25519.PublicKey, maxEpoch uint64, randomness, jwtRandomness string) (*core.ZeroKnowledgeProof, error) {
	req := core.ProofRequest{
		Token:                      token.Raw,
		ExtendedEphemeralPublicKey: hexutil.Encode(ephemeralPublicKey),
		MaxEpoch:                   maxEpoch,
		JWTRandomness:              jwtRandomness,
		Salt:                       randomness,
	}

	proof, err := r.proofOracle.Prove(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrProofGeneration, err)
	}
	return proof, nil
}
