package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kamalbuilds/zkPassport/config"
	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/service"
)

// Handlers contains the HTTP handlers for the identity, credential and
// bridge endpoints.
type Handlers struct {
	login     *service.LoginFlow
	sessions  *service.SessionManager
	registry  *service.Registry
	bridge    *service.Bridge
	providers map[string]config.OAuthProvider
}

// NewHandlers creates the handler set.
func NewHandlers(login *service.LoginFlow, sessions *service.SessionManager, registry *service.Registry, bridge *service.Bridge, providers map[string]config.OAuthProvider) *Handlers {
	return &Handlers{
		login:     login,
		sessions:  sessions,
		registry:  registry,
		bridge:    bridge,
		providers: providers,
	}
}

// BeginLogin starts a login attempt and returns the provider authorization
// URL carrying the session's nonce.
func (h *Handlers) BeginLogin(c *gin.Context) {
	clientID := c.GetHeader(ClientIDHeader)
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing client id header"})
		return
	}

	var req struct {
		Provider string `json:"provider" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	provider, err := config.Provider(h.providers, req.Provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pending, err := h.login.Begin(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to begin login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":             pending.Nonce,
		"max_epoch":         pending.MaxEpoch,
		"authorization_url": provider.AuthorizationURL(pending.Nonce),
	})
}

// CompleteLogin consumes the identity-provider token and establishes the
// session.
func (h *Handlers) CompleteLogin(c *gin.Context) {
	clientID := c.GetHeader(ClientIDHeader)
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing client id header"})
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	state, err := h.login.Complete(c.Request.Context(), clientID, req.Token)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, core.ErrTokenMalformed), errors.Is(err, core.ErrNonceMismatch):
			status = http.StatusBadRequest
		case errors.Is(err, core.ErrTokenExpired), errors.Is(err, core.ErrPendingLoginNotFound):
			status = http.StatusUnauthorized
		case errors.Is(err, core.ErrSaltOracle):
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":    state.Address,
		"max_epoch":  state.MaxEpoch,
		"expires_at": state.ExpiresAt,
	})
}

// GenerateProof requests the session's zero-knowledge proof from the proving
// oracle. Retryable: proof generation failures leave the session intact.
func (h *Handlers) GenerateProof(c *gin.Context) {
	clientID := c.GetString(ctxClientID)

	state, err := h.login.GenerateProof(c.Request.Context(), clientID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, core.ErrSessionNotFound), errors.Is(err, core.ErrSessionExpired):
			status = http.StatusUnauthorized
		case errors.Is(err, core.ErrProofGeneration):
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": state.Address,
		"proof":   state.Proof,
	})
}

// Logout clears the client's session.
func (h *Handlers) Logout(c *gin.Context) {
	clientID := c.GetHeader(ClientIDHeader)
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing client id header"})
		return
	}

	if err := h.login.Logout(c.Request.Context(), clientID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Session returns the authenticated session summary.
func (h *Handlers) Session(c *gin.Context) {
	state := c.MustGet(ctxSession).(*core.SessionState)
	c.JSON(http.StatusOK, gin.H{
		"address":    state.Address,
		"max_epoch":  state.MaxEpoch,
		"expires_at": state.ExpiresAt,
		"has_proof":  state.Proof != nil,
	})
}

// IssueCredential issues a new credential.
func (h *Handlers) IssueCredential(c *gin.Context) {
	var req struct {
		Type         core.CredentialType            `json:"type" binding:"required"`
		Issuer       string                         `json:"issuer" binding:"required"`
		Subject      string                         `json:"subject"`
		Attributes   map[string]core.AttributeValue `json:"attributes"`
		ValidityDays int                            `json:"validity_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = c.GetString(ctxAddress)
	}

	credential, err := h.registry.Issue(c.Request.Context(), req.Type, req.Issuer, subject, req.Attributes, req.ValidityDays)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, core.ErrUnknownCredentialType), errors.Is(err, core.ErrIssuerUnknown):
			status = http.StatusBadRequest
		case errors.Is(err, core.ErrIssuerNotAuthorized):
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, credential)
}

// ListCredentials returns the credentials of a subject, by default the
// session's derived address.
func (h *Handlers) ListCredentials(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		subject = c.GetString(ctxAddress)
	}
	c.JSON(http.StatusOK, gin.H{"credentials": h.registry.ListForSubject(subject)})
}

// GetCredential returns a credential by id.
func (h *Handlers) GetCredential(c *gin.Context) {
	credential, err := h.registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, credential)
}

// VerifyCredential reports a credential's validity.
func (h *Handlers) VerifyCredential(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Verify(c.Param("id")))
}

// RevokeCredential permanently removes a credential.
func (h *Handlers) RevokeCredential(c *gin.Context) {
	if !h.registry.Revoke(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": core.ErrCredentialNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

// ListIssuers returns the issuer catalog.
func (h *Handlers) ListIssuers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"issuers": h.registry.Issuers()})
}

// ListChains returns the supported chain set.
func (h *Handlers) ListChains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": h.bridge.SupportedChains()})
}

// VerifyBridge runs one cross-chain verification attempt: generate the
// bridge proof, verify it against the target chain, and when requested and
// verified, submit the transaction. The proof lives only for this request.
func (h *Handlers) VerifyBridge(c *gin.Context) {
	var req struct {
		CredentialID  string     `json:"credential_id" binding:"required"`
		SourceChain   core.Chain `json:"source_chain" binding:"required"`
		TargetChain   core.Chain `json:"target_chain" binding:"required"`
		Submit        bool       `json:"submit"`
		TargetAddress string     `json:"target_address"`
		CallData      string     `json:"call_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	credential, err := h.registry.Get(req.CredentialID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	state := c.MustGet(ctxSession).(*core.SessionState)
	proof, err := h.bridge.GenerateBridgeProof(c.Request.Context(), credential, req.SourceChain, req.TargetChain, state.Proof)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, core.ErrUnsupportedChain):
			status = http.StatusBadRequest
		case errors.Is(err, core.ErrSameChain):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	verification, err := h.bridge.VerifyBridgeProof(c.Request.Context(), proof)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"proof_id": proof.ID,
		"state":    proof.State.String(),
		"verified": verification.Verified,
	}
	if verification.Reason != "" {
		resp["reason"] = verification.Reason
	}

	if verification.Verified && req.Submit {
		txRef, err := h.bridge.SubmitVerifiedTransaction(c.Request.Context(), proof, req.TargetAddress, []byte(req.CallData))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		resp["state"] = proof.State.String()
		resp["tx_ref"] = txRef
	}

	c.JSON(http.StatusOK, resp)
}
