package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamalbuilds/zkPassport/adapters/chain"
	"github.com/kamalbuilds/zkPassport/adapters/store"
	"github.com/kamalbuilds/zkPassport/config"
	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/service"
)

type stubSaltOracle struct{}

func (stubSaltOracle) FetchSalt(ctx context.Context, token string) (string, error) {
	return "12345", nil
}

type stubProofOracle struct{}

func (stubProofOracle) Prove(ctx context.Context, req core.ProofRequest) (*core.ZeroKnowledgeProof, error) {
	return &core.ZeroKnowledgeProof{HeaderBase64: "header"}, nil
}

func signToken(t *testing.T, subject, nonce string) string {
	t.Helper()

	claims := core.IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Nonce: nonce,
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func setupTestRouter(t *testing.T) (*gin.Engine, *service.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := store.NewMemoryStore()
	resolver := service.NewResolver(service.ResolverConfig{
		SaltOracle:  stubSaltOracle{},
		ProofOracle: stubProofOracle{},
	})
	sessions := service.NewSessionManager(kv)
	login := service.NewLoginFlow(service.NewKeyManager(0), resolver, sessions, kv, nil)
	registry := service.NewRegistry(config.DefaultIssuers(), nil, nil)

	chains := config.DefaultChains()
	bridge := service.NewBridge(service.BridgeConfig{
		Chains:    chains,
		Verifiers: chain.Verifiers(chains),
		Submitter: chain.NewSimulatedSubmitter(),
		Registry:  registry,
	})

	providers := config.Providers(config.OAuthConfig{
		GoogleClientID: "google-client",
		RedirectURI:    "https://app.example/auth/callback",
	})

	return SetupRouter(login, sessions, registry, bridge, providers), registry
}

func doJSON(t *testing.T, router *gin.Engine, method, path, clientID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set(ClientIDHeader, clientID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginClient(t *testing.T, router *gin.Engine, clientID, subject string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/begin", clientID, gin.H{"provider": "google"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var begin struct {
		Nonce            string `json:"nonce"`
		AuthorizationURL string `json:"authorization_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &begin))
	require.NotEmpty(t, begin.Nonce)
	require.Contains(t, begin.AuthorizationURL, "accounts.google.com")

	rec = doJSON(t, router, http.MethodPost, "/auth/callback", clientID, gin.H{
		"token": signToken(t, subject, begin.Nonce),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var callback struct {
		Address string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &callback))
	require.NotEmpty(t, callback.Address)
	return callback.Address
}

func TestLoginFlowEndToEnd(t *testing.T) {
	router, _ := setupTestRouter(t)

	address := loginClient(t, router, "client-1", "user-123")

	rec := doJSON(t, router, http.MethodGet, "/api/session", "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session struct {
		Address  string `json:"address"`
		HasProof bool   `json:"has_proof"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, address, session.Address)
	assert.False(t, session.HasProof)

	rec = doJSON(t, router, http.MethodPost, "/api/session/proof", "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/auth/logout", "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/session", "client-1", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallbackRejectsForeignToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/begin", "client-1", gin.H{"provider": "google"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Token minted with a different nonce than the session expects.
	rec = doJSON(t, router, http.MethodPost, "/auth/callback", "client-1", gin.H{
		"token": signToken(t, "user-123", "some-other-nonce"),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBeginLoginUnknownProvider(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/begin", "client-1", gin.H{"provider": "myspace"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/credentials", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/credentials", "stranger", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCredentialLifecycleOverHTTP(t *testing.T) {
	router, _ := setupTestRouter(t)
	loginClient(t, router, "client-1", "user-123")

	rec := doJSON(t, router, http.MethodPost, "/api/credentials", "client-1", gin.H{
		"type":    core.CredentialTypeKYC,
		"issuer":  "kyc-provider-1",
		"subject": "user-123",
		"attributes": gin.H{
			"kycLevel": "advanced",
			"country":  "US",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var cred core.Credential
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cred))
	require.NotEmpty(t, cred.ID)

	rec = doJSON(t, router, http.MethodGet, "/api/credentials/"+cred.ID, "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/credentials/"+cred.ID+"/verify", "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result core.VerificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)

	rec = doJSON(t, router, http.MethodGet, "/api/credentials?subject=user-123", "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/credentials/"+cred.ID, "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/credentials/"+cred.ID, "client-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIssueCredentialUnauthorizedIssuer(t *testing.T) {
	router, _ := setupTestRouter(t)
	loginClient(t, router, "client-1", "user-123")

	rec := doJSON(t, router, http.MethodPost, "/api/credentials", "client-1", gin.H{
		"type":   core.CredentialTypeDAOMembership,
		"issuer": "kyc-provider-1",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBridgeVerifyOverHTTP(t *testing.T) {
	router, registry := setupTestRouter(t)
	loginClient(t, router, "client-1", "user-123")

	cred, err := registry.Issue(context.Background(), core.CredentialTypeKYC, "kyc-provider-1", "user-123", nil, 0)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/bridge/verify", "client-1", gin.H{
		"credential_id": cred.ID,
		"source_chain":  core.ChainSui,
		"target_chain":  core.ChainEthereum,
		"submit":        true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Verified bool   `json:"verified"`
		State    string `json:"state"`
		TxRef    string `json:"tx_ref"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Verified)
	assert.Equal(t, "submitted", resp.State)
	assert.NotEmpty(t, resp.TxRef)
}

func TestBridgeVerifySameChain(t *testing.T) {
	router, registry := setupTestRouter(t)
	loginClient(t, router, "client-1", "user-123")

	cred, err := registry.Issue(context.Background(), core.CredentialTypeKYC, "kyc-provider-1", "user-123", nil, 0)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/bridge/verify", "client-1", gin.H{
		"credential_id": cred.ID,
		"source_chain":  core.ChainEthereum,
		"target_chain":  core.ChainEthereum,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBridgeVerifyRevokedCredential(t *testing.T) {
	router, registry := setupTestRouter(t)
	loginClient(t, router, "client-1", "user-123")

	cred, err := registry.Issue(context.Background(), core.CredentialTypeKYC, "kyc-provider-1", "user-123", nil, 0)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/credentials/"+cred.ID, "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/bridge/verify", "client-1", gin.H{
		"credential_id": cred.ID,
		"source_chain":  core.ChainSui,
		"target_chain":  core.ChainEthereum,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListIssuersAndChains(t *testing.T) {
	router, _ := setupTestRouter(t)
	loginClient(t, router, "client-1", "user-123")

	rec := doJSON(t, router, http.MethodGet, "/api/issuers", "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Global KYC Solutions")

	rec = doJSON(t, router, http.MethodGet, "/api/chains", "client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ethereum")
}
