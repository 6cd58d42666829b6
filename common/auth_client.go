package common

import (
	"net/http"

	"golang.org/x/oauth2"
)

// NewAuthorizedClient returns base with a transport that attaches the given
// bearer token to every request. Upstreams that need no credentials pass an
// empty token and get base back untouched.
func NewAuthorizedClient(token string, base *http.Client) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	if token == "" {
		return base
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	base.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   transport,
	}
	return base
}
