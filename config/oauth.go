package config

import (
	"fmt"
	"net/url"

	"github.com/kamalbuilds/zkPassport/core"
)

// OAuthProvider describes one federated login provider.
type OAuthProvider struct {
	Name         string
	ClientID     string
	RedirectURI  string
	AuthEndpoint string
	Scope        string
}

// OAuthConfig carries the deployment-specific provider settings.
type OAuthConfig struct {
	GoogleClientID   string
	FacebookClientID string
	RedirectURI      string
}

// Providers builds the provider catalog from deployment settings.
func Providers(cfg OAuthConfig) map[string]OAuthProvider {
	return map[string]OAuthProvider{
		"google": {
			Name:         "Google",
			ClientID:     cfg.GoogleClientID,
			RedirectURI:  cfg.RedirectURI,
			AuthEndpoint: "https://accounts.google.com/o/oauth2/v2/auth",
			Scope:        "openid email profile",
		},
		"facebook": {
			Name:         "Facebook",
			ClientID:     cfg.FacebookClientID,
			RedirectURI:  cfg.RedirectURI,
			AuthEndpoint: "https://www.facebook.com/v16.0/dialog/oauth",
			Scope:        "email public_profile",
		},
	}
}

// AuthorizationURL builds the provider's authorization request URL with the
// session's nonce embedded, so the returned token is bound to the session.
func (p OAuthProvider) AuthorizationURL(nonce string) string {
	params := url.Values{}
	params.Set("client_id", p.ClientID)
	params.Set("redirect_uri", p.RedirectURI)
	params.Set("response_type", "id_token")
	params.Set("scope", p.Scope)
	params.Set("nonce", nonce)
	params.Set("prompt", "select_account")

	return p.AuthEndpoint + "?" + params.Encode()
}

// Provider resolves a provider by name.
func Provider(providers map[string]OAuthProvider, name string) (OAuthProvider, error) {
	p, ok := providers[name]
	if !ok {
		return OAuthProvider{}, fmt.Errorf("%w: %q", core.ErrUnsupportedProvider, name)
	}
	return p, nil
}
