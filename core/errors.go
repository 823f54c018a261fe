package core

import "errors"

// Malformed input. Always surfaced to the caller, never defaulted.
var (
	// ErrTokenMalformed is returned when an identity token cannot be parsed
	// into its three structural parts.
	ErrTokenMalformed = errors.New("identity token is malformed")

	// ErrNonceMismatch is returned when the nonce embedded in an identity
	// token does not match the nonce the session generated.
	ErrNonceMismatch = errors.New("token nonce does not match session nonce")

	// ErrUnknownCredentialType is returned for a credential type outside the
	// enumerated set.
	ErrUnknownCredentialType = errors.New("unknown credential type")

	// ErrIssuerUnknown is returned when an issuer id does not resolve to a
	// known issuer.
	ErrIssuerUnknown = errors.New("unknown issuer")

	// ErrUnsupportedChain is returned when a chain is not in the configured
	// chain set.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrUnsupportedProvider is returned for an OAuth provider outside the
	// configured catalog.
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
)

// Trust-boundary failures. Distinct from malformed input so callers can
// decide to retry only in this category.
var (
	// ErrSaltOracle is returned when the salt oracle is unreachable or
	// rejects the request.
	ErrSaltOracle = errors.New("salt oracle request failed")

	// ErrProofGeneration is returned when the proving oracle is unreachable
	// or rejects the request.
	ErrProofGeneration = errors.New("proof generation failed")

	// ErrStoreOperation is returned when a store operation fails.
	ErrStoreOperation = errors.New("store operation failed")
)

// Policy violations. Always fatal to the current operation, never
// auto-corrected.
var (
	// ErrIssuerNotAuthorized is returned when an issuer's authorized-type set
	// excludes the requested credential type.
	ErrIssuerNotAuthorized = errors.New("issuer not authorized for credential type")

	// ErrSameChain is returned when a bridge proof is requested with the
	// source chain equal to the target chain.
	ErrSameChain = errors.New("source and target chain must differ")

	// ErrInvalidProofState is returned when a bridge proof is used in a state
	// its state machine does not allow.
	ErrInvalidProofState = errors.New("bridge proof is in the wrong state for this operation")

	// ErrNotVerified is returned when submission is attempted against a
	// bridge proof that has not reached the Verified state.
	ErrNotVerified = errors.New("bridge proof has not been verified")
)

// Temporal invalidity. Normal negative results, not exceptional failures.
var (
	// ErrTokenExpired is returned when an identity token's expiry has passed.
	ErrTokenExpired = errors.New("identity token has expired")

	// ErrSessionNotFound is returned when no session is persisted for the
	// client.
	ErrSessionNotFound = errors.New("no session found")

	// ErrSessionExpired is returned when the persisted session's expiry has
	// passed.
	ErrSessionExpired = errors.New("session has expired")

	// ErrCredentialNotFound is returned when a credential id does not resolve
	// to a stored credential. Revoked credentials behave exactly as not found.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrPendingLoginNotFound is returned when completing a login for a
	// client that never began one, or whose attempt expired.
	ErrPendingLoginNotFound = errors.New("no pending login found")

	// ErrNotFound is returned by stores when a key has no value.
	ErrNotFound = errors.New("not found")
)
