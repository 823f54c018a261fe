package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kamalbuilds/zkPassport/ports"
)

// SaltClient talks to the salt service over HTTP. The service maps an
// identity token to the subject's secret salt.
type SaltClient struct {
	url    string
	client *http.Client
}

// NewSaltClient creates a salt oracle client. httpClient may be nil, in
// which case http.DefaultClient is used; timeouts are the caller's concern
// either way, via the request context.
func NewSaltClient(url string, httpClient *http.Client) *SaltClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SaltClient{url: url, client: httpClient}
}

var _ ports.SaltOracle = (*SaltClient)(nil)

// FetchSalt requests the salt for the given token.
func (c *SaltClient) FetchSalt(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return "", fmt.Errorf("failed to encode salt request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build salt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("salt service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("salt service returned status %d", resp.StatusCode)
	}

	var out struct {
		Salt string `json:"salt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode salt response: %w", err)
	}
	if out.Salt == "" {
		return "", fmt.Errorf("salt service returned an empty salt")
	}
	return out.Salt, nil
}
