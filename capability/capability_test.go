package capability

import (
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccountSID = "AC00000000000000000000000000000000"
	testAuthToken  = "secret-auth-token"
)

func parseToken(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()

	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return []byte(testAuthToken), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestGenerateIncoming(t *testing.T) {
	token := New(testAccountSID, testAuthToken)
	token.AllowClientIncoming("joey")

	raw, err := token.Generate()
	require.NoError(t, err)

	claims := parseToken(t, raw)
	assert.Equal(t, testAccountSID, claims["iss"])
	assert.Equal(t, "scope:client:incoming?clientName=joey", claims["scope"])
}

func TestGenerateOutgoingIncludesClientName(t *testing.T) {
	token := New(testAccountSID, testAuthToken)
	token.AllowClientIncoming("joey")
	token.AllowClientOutgoing("AP123", url.Values{"greeting": {"ahoy"}})

	raw, err := token.Generate()
	require.NoError(t, err)

	claims := parseToken(t, raw)
	scope, ok := claims["scope"].(string)
	require.True(t, ok)

	assert.Contains(t, scope, "scope:client:incoming?clientName=joey")
	assert.Contains(t, scope, "appSid=AP123")
	assert.Contains(t, scope, "clientName=joey")
	assert.Contains(t, scope, "appParams=greeting%3Dahoy")
}

func TestGenerateTTL(t *testing.T) {
	token := New(testAccountSID, testAuthToken).SetTTL(10 * time.Minute)
	token.AllowClientIncoming("joey")

	raw, err := token.Generate()
	require.NoError(t, err)

	claims := parseToken(t, raw)
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)

	remaining := time.Until(exp.Time)
	assert.Greater(t, remaining, 9*time.Minute)
	assert.LessOrEqual(t, remaining, 10*time.Minute)
}

func TestGenerateRequiresCredentials(t *testing.T) {
	_, err := New("", "").Generate()
	assert.Error(t, err)
}
