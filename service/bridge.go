package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

// BridgeConfig carries the bridge protocol's chain set and collaborators.
type BridgeConfig struct {
	Chains    map[core.Chain]core.ChainConfig
	Verifiers map[core.Chain]ports.ChainVerifier
	Submitter ports.TxSubmitter
	Registry  *Registry
	Events    ports.EventPublisher
}

// Bridge generates and verifies cross-chain bridge proofs and gates
// transaction submission on successful verification. Each proof is a
// one-shot artifact walking Initiated -> ProofGenerated -> Verified|Rejected
// -> Submitted; concurrent attempts for different credentials or chain pairs
// share no state beyond the registry's read lock.
type Bridge struct {
	chains    map[core.Chain]core.ChainConfig
	verifiers map[core.Chain]ports.ChainVerifier
	submitter ports.TxSubmitter
	registry  *Registry
	events    ports.EventPublisher
	now       func() time.Time
	log       *logrus.Entry
}

// NewBridge creates a bridge protocol instance.
func NewBridge(cfg BridgeConfig) *Bridge {
	return &Bridge{
		chains:    cfg.Chains,
		verifiers: cfg.Verifiers,
		submitter: cfg.Submitter,
		registry:  cfg.Registry,
		events:    cfg.Events,
		now:       time.Now,
		log:       logrus.StandardLogger().WithField("module", "bridge"),
	}
}

// GenerateBridgeProof produces a bridge proof binding the credential's exact
// identity and attribute snapshot to the ordered (source, target) chain pair
// and the target chain's verifier endpoint. Both chains must be configured
// and distinct.
func (b *Bridge) GenerateBridgeProof(ctx context.Context, credential *core.Credential, sourceChain, targetChain core.Chain, sourceProof *core.ZeroKnowledgeProof) (*core.BridgeProof, error) {
	if _, ok := b.chains[sourceChain]; !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedChain, sourceChain)
	}
	target, ok := b.chains[targetChain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedChain, targetChain)
	}
	if sourceChain == targetChain {
		return nil, core.ErrSameChain
	}

	proof := &core.BridgeProof{
		ID:          uuid.NewString(),
		SourceChain: sourceChain,
		TargetChain: targetChain,
		Credential:  *credential.Clone(),
		GeneratedAt: b.now(),
		Verifier:    target.VerifierEndpoint(),
		State:       core.BridgeProofInitiated,
	}
	proof.Binding = bindingDigest(&proof.Credential, sourceChain, targetChain)
	proof.ProofData = proofPayload(proof, sourceProof)
	proof.State = core.BridgeProofGenerated

	b.log.WithFields(logrus.Fields{
		"proof":      proof.ID,
		"credential": credential.ID,
		"source":     sourceChain,
		"target":     targetChain,
	}).Info("bridge proof generated")

	return proof, nil
}

// VerifyBridgeProof checks a generated proof against the target chain and
// settles it as Verified or Rejected. The credential's validity is re-checked
// at verification time: a proof generated against a since-revoked or expired
// credential is rejected even though it was valid when generated. A verifier
// transport failure leaves the proof in ProofGenerated and returns an error
// so the caller may retry.
func (b *Bridge) VerifyBridgeProof(ctx context.Context, proof *core.BridgeProof) (core.BridgeVerification, error) {
	if proof.State != core.BridgeProofGenerated {
		return core.BridgeVerification{}, fmt.Errorf("%w: %s", core.ErrInvalidProofState, proof.State)
	}

	if result := b.registry.Verify(proof.Credential.ID); !result.Valid {
		return b.reject(proof, fmt.Sprintf("credential %s", result.Status)), nil
	}

	// The stored credential may have been re-issued under the same id by a
	// hostile registry replica, and the proof itself may have been altered
	// in flight. Recomputing the binding digest catches both.
	if bindingDigest(&proof.Credential, proof.SourceChain, proof.TargetChain) != proof.Binding {
		return b.reject(proof, "credential binding mismatch"), nil
	}

	verifier, ok := b.verifiers[proof.TargetChain]
	if !ok {
		return core.BridgeVerification{}, fmt.Errorf("%w: no verifier for %q", core.ErrUnsupportedChain, proof.TargetChain)
	}

	// Anti-replay across chains: the proof names the verifier endpoint it was
	// generated for. A proof for (A,B) presented to the verifier of (A,C)
	// fails here regardless of what that verifier would answer.
	if verifier.Endpoint() != proof.Verifier {
		return b.reject(proof, "verifier endpoint does not match proof chain pair"), nil
	}

	ok, err := verifier.Verify(ctx, proof)
	if err != nil {
		return core.BridgeVerification{}, fmt.Errorf("bridge verification against %s failed: %w", proof.TargetChain, err)
	}
	if !ok {
		return b.reject(proof, "rejected by target chain verifier"), nil
	}

	proof.State = core.BridgeProofVerified
	b.log.WithField("proof", proof.ID).Info("bridge proof verified")
	return core.BridgeVerification{Verified: true}, nil
}

// SubmitVerifiedTransaction submits a transaction carrying the proof to the
// target chain. It refuses any proof that has not reached Verified; calling
// it on a ProofGenerated or Rejected proof is a contract violation, not a
// soft failure.
func (b *Bridge) SubmitVerifiedTransaction(ctx context.Context, proof *core.BridgeProof, targetAddress string, callData []byte) (string, error) {
	if proof.State != core.BridgeProofVerified {
		return "", fmt.Errorf("%w: proof is %s", core.ErrNotVerified, proof.State)
	}

	txRef, err := b.submitter.Submit(ctx, proof, targetAddress, callData)
	if err != nil {
		return "", fmt.Errorf("transaction submission to %s failed: %w", proof.TargetChain, err)
	}
	proof.State = core.BridgeProofSubmitted

	b.log.WithFields(logrus.Fields{
		"proof": proof.ID,
		"chain": proof.TargetChain,
		"tx":    txRef,
	}).Info("verified transaction submitted")

	if b.events != nil {
		if err := b.events.PublishBridgeSubmitted(ctx, proof.ID, proof.TargetChain, txRef); err != nil {
			b.log.WithError(err).Warn("failed to publish bridge submitted event")
		}
	}
	return txRef, nil
}

// SupportedChains returns the configured chain set.
func (b *Bridge) SupportedChains() []core.ChainConfig {
	out := make([]core.ChainConfig, 0, len(b.chains))
	for _, cfg := range b.chains {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ChainConfig returns the configuration for a chain.
func (b *Bridge) ChainConfig(chain core.Chain) (core.ChainConfig, error) {
	cfg, ok := b.chains[chain]
	if !ok {
		return core.ChainConfig{}, fmt.Errorf("%w: %q", core.ErrUnsupportedChain, chain)
	}
	return cfg, nil
}

func (b *Bridge) reject(proof *core.BridgeProof, reason string) core.BridgeVerification {
	proof.State = core.BridgeProofRejected
	b.log.WithFields(logrus.Fields{
		"proof":  proof.ID,
		"reason": reason,
	}).Info("bridge proof rejected")
	return core.BridgeVerification{Verified: false, Reason: reason}
}

// bindingDigest commits to the credential snapshot and the ordered chain
// pair. Attribute keys are hashed in sorted order so the digest is a pure
// function of the credential's contents.
func bindingDigest(credential *core.Credential, sourceChain, targetChain core.Chain) string {
	keys := make([]string, 0, len(credential.Attributes))
	for k := range credential.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := ethcrypto.NewKeccakState()
	writeField := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}

	writeField(string(sourceChain))
	writeField(string(targetChain))
	writeField(credential.ID)
	writeField(string(credential.Type))
	writeField(credential.Issuer)
	writeField(credential.Subject)
	writeField(credential.IssuanceDate.UTC().Format(time.RFC3339Nano))
	writeField(credential.ExpirationDate.UTC().Format(time.RFC3339Nano))
	for _, k := range keys {
		writeField(k)
		raw, _ := credential.Attributes[k].MarshalJSON()
		writeField(string(raw))
	}

	var digest [32]byte
	h.Read(digest[:])
	return hexutil.Encode(digest[:])
}

// proofPayload derives the opaque proof payload. A real deployment replaces
// this with the bridge prover's output; the payload still commits to the
// binding digest and the source-chain proof so tampering is detectable.
func proofPayload(proof *core.BridgeProof, sourceProof *core.ZeroKnowledgeProof) string {
	h := ethcrypto.NewKeccakState()
	h.Write([]byte(proof.Binding))
	h.Write([]byte(proof.ID))
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(proof.GeneratedAt.UnixMilli()))
	h.Write(ts[:])
	if sourceProof != nil {
		h.Write([]byte(sourceProof.HeaderBase64))
		h.Write([]byte(sourceProof.IssBase64Details.Value))
		for _, p := range sourceProof.ProofPoints.A {
			h.Write([]byte(p))
		}
		for _, row := range sourceProof.ProofPoints.B {
			for _, p := range row {
				h.Write([]byte(p))
			}
		}
		for _, p := range sourceProof.ProofPoints.C {
			h.Write([]byte(p))
		}
	}

	payload := make([]byte, 64)
	h.Read(payload)
	return hexutil.Encode(payload)
}
