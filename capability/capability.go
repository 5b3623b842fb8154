// Package capability generates Twilio Client capability tokens: short-lived
// JWTs, signed with the account's auth token, that grant a browser or mobile
// client scoped access (receive incoming connections, place outgoing ones).
package capability

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = time.Hour

// Token accumulates capability scopes for one client identity.
type Token struct {
	accountSID string
	authToken  string
	ttl        time.Duration
	clientName string
	scopes     []string
}

// New creates a token builder for the given account credentials.
func New(accountSID, authToken string) *Token {
	return &Token{
		accountSID: accountSID,
		authToken:  authToken,
		ttl:        defaultTTL,
	}
}

// SetTTL overrides the default one-hour token lifetime.
func (t *Token) SetTTL(ttl time.Duration) *Token {
	t.ttl = ttl
	return t
}

// AllowClientIncoming grants the named client the right to receive incoming
// connections.
func (t *Token) AllowClientIncoming(clientName string) *Token {
	t.clientName = clientName
	t.scopes = append(t.scopes, scopeURI("client", "incoming", url.Values{
		"clientName": {clientName},
	}))
	return t
}

// AllowClientOutgoing grants the right to place outgoing connections handled
// by the given application. params are passed through to the application's
// TwiML URL.
func (t *Token) AllowClientOutgoing(applicationSID string, params url.Values) *Token {
	values := url.Values{"appSid": {applicationSID}}
	if t.clientName != "" {
		values.Set("clientName", t.clientName)
	}
	if len(params) > 0 {
		values.Set("appParams", params.Encode())
	}
	t.scopes = append(t.scopes, scopeURI("client", "outgoing", values))
	return t
}

// Generate signs and serializes the token.
func (t *Token) Generate() (string, error) {
	if t.accountSID == "" || t.authToken == "" {
		return "", errors.New("capability: account SID and auth token are required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   t.accountSID,
		"exp":   now.Add(t.ttl).Unix(),
		"scope": strings.Join(t.scopes, " "),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.authToken))
}

// scopeURI renders one scope in Twilio's scope:<service>:<privilege>?params
// form.
func scopeURI(service, privilege string, params url.Values) string {
	uri := "scope:" + service + ":" + privilege
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	return uri
}
