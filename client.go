// Package twilio is a client for Twilio's REST API plus a webhook receiver
// that verifies the X-Twilio-Signature header on inbound requests and
// produces TwiML responses.
package twilio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"twilio-go/internal/logging"
)

const (
	defaultBaseURL   = "https://api.twilio.com"
	defaultLookupURL = "https://lookups.twilio.com"
	apiVersion       = "2010-04-01"
)

// Client issues authenticated requests against the Twilio REST API and
// verifies inbound webhook requests. A Client is safe for concurrent use;
// the only shared state is the credential pair and the pooled HTTP client.
type Client struct {
	accountSID string // credential SID, used for basic auth
	urlSID     string // SID used in URL paths; overridable for sub-accounts
	authToken  string
	baseURL    string
	lookupURL  string
	httpClient *http.Client
	logger     logging.Logger
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API base URL. Intended for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLookupBaseURL overrides the Lookup service base URL. Intended for tests.
func WithLookupBaseURL(u string) Option {
	return func(c *Client) {
		c.lookupURL = strings.TrimRight(u, "/")
	}
}

// WithLogger attaches a zap logger. The default client logs nothing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logging.FromZap(l)
	}
}

// NewClient creates a client for the given account SID and auth token.
func NewClient(accountSID, authToken string, opts ...Option) *Client {
	c := &Client{
		accountSID: accountSID,
		urlSID:     accountSID,
		authToken:  authToken,
		baseURL:    defaultBaseURL,
		lookupURL:  defaultLookupURL,
		httpClient: newPooledHTTPClient(),
		logger:     logging.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetAccountSID overrides the SID used in request URLs without changing the
// basic-auth credentials. Accounts that act on behalf of a sub-account
// provide the sub-account SID in their URLs but authenticate with their own.
// Call this before sharing the client between goroutines.
func (c *Client) SetAccountSID(sid string) {
	c.urlSID = sid
}

// newPooledHTTPClient builds the default HTTP client with connection pooling.
func newPooledHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// resourceURL builds an API URL for a resource under the account, e.g.
// "Messages" or "Calls.json" path segments.
func (c *Client) resourceURL(resource string) string {
	return fmt.Sprintf("%s/%s/Accounts/%s/%s.json", c.baseURL, apiVersion, c.urlSID, resource)
}

func acceptCreatedOrOK(status int) bool {
	return status == http.StatusOK || status == http.StatusCreated
}

func acceptOK(status int) bool {
	return status == http.StatusOK
}

func acceptSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// sendRequest issues one authenticated request and decodes the JSON response
// into out. params, when non-nil, are sent as an url-encoded form body.
// Statuses outside accepted map to HTTPError; transport failures map to
// NetworkError; undecodable bodies map to ParsingError.
func (c *Client) sendRequest(ctx context.Context, method, rawURL string, params url.Values, accepted func(int) bool, out interface{}) error {
	var body io.Reader
	if params != nil {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return BadRequestError("invalid request: " + err.Error())
	}

	req.SetBasicAuth(c.accountSID, c.authToken)
	if params != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.Debug("sending API request",
		logging.String("method", method),
		logging.String("url", rawURL),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NetworkError(err)
	}
	defer resp.Body.Close()

	if !accepted(resp.StatusCode) {
		// Drain so the pooled connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return HTTPError(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NetworkError(err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return ParsingError("decoding API response: " + err.Error())
	}

	return nil
}
