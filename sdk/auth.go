package sdk

import (
	"encoding/base64"
	"net/http"
)

// Authenticator applies credentials to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth sends requests anonymously.
type NoAuth struct{}

// Apply implements Authenticator
func (NoAuth) Apply(*http.Request) {}

// BasicAuth authenticates with a username and password. On Confluence Cloud
// the username is the account email and the password an API token.
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements Authenticator
func (a BasicAuth) Apply(req *http.Request) {
	if a.Username == "" && a.Password == "" {
		return
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	req.Header.Set("Authorization", "Basic "+credentials)
}

// BearerToken authenticates with a personal access token (Data Center).
type BearerToken struct {
	Token string
}

// Apply implements Authenticator
func (a BearerToken) Apply(req *http.Request) {
	if a.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
}
