package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamalbuilds/zkPassport/core"
)

func TestSaltClientFetchSalt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "the-token", req["token"])

		json.NewEncoder(w).Encode(map[string]string{"salt": "12345"})
	}))
	defer srv.Close()

	c := NewSaltClient(srv.URL, nil)
	salt, err := c.FetchSalt(context.Background(), "the-token")
	require.NoError(t, err)
	assert.Equal(t, "12345", salt)
}

func TestSaltClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSaltClient(srv.URL, nil)
	_, err := c.FetchSalt(context.Background(), "the-token")
	assert.Error(t, err)
}

func TestSaltClientEmptySalt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewSaltClient(srv.URL, nil)
	_, err := c.FetchSalt(context.Background(), "the-token")
	assert.Error(t, err)
}

func TestProverClientProve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req core.ProofRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "the-token", req.Token)
		assert.Equal(t, uint64(42), req.MaxEpoch)

		json.NewEncoder(w).Encode(core.ZeroKnowledgeProof{
			HeaderBase64: "header",
			IssBase64Details: core.IssClaimDetails{
				Value:     "iss",
				IndexMod4: 2,
			},
		})
	}))
	defer srv.Close()

	c := NewProverClient(srv.URL, nil)
	proof, err := c.Prove(context.Background(), core.ProofRequest{Token: "the-token", MaxEpoch: 42})
	require.NoError(t, err)
	assert.Equal(t, "header", proof.HeaderBase64)
	assert.Equal(t, 2, proof.IssBase64Details.IndexMod4)
}

func TestProverClientRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewProverClient(srv.URL, nil)
	_, err := c.Prove(context.Background(), core.ProofRequest{})
	assert.Error(t, err)
}

func TestProverClientCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewProverClient(srv.URL, nil)
	_, err := c.Prove(ctx, core.ProofRequest{})
	assert.Error(t, err)
}
