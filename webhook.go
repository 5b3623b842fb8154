package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"twilio-go/internal/logging"
	"twilio-go/twiml"
)

// SignatureHeader is the header Twilio signs each webhook request with. The
// value is the base64-encoded HMAC-SHA1 of the canonical request URI, keyed
// with the account's auth token.
const SignatureHeader = "X-Twilio-Signature"

// webhookErrorBody is the fixed body returned for any request that fails
// verification or decoding.
const webhookErrorBody = "Error."

// Fields is the flat key/value view of a webhook request's query string or
// form body. The wire format does not guarantee unique keys; duplicates keep
// the last value.
type Fields map[string]string

// ParseWebhook verifies the request signature and decodes the query string
// (GET) or form body (POST) into Fields. It returns AuthError for a missing
// header or a signature mismatch, and BadRequestError for malformed input
// shape: undecodable base64, a missing host, a wildcard path, an unsupported
// method, or an unparseable form body.
func (c *Client) ParseWebhook(r *http.Request) (Fields, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return nil, NetworkError(err)
		}
	}
	return c.verifyAndDecode(r, body)
}

// ParseMessage verifies the request and decodes it into a Message.
func (c *Client) ParseMessage(r *http.Request) (*Message, error) {
	fields, err := c.ParseWebhook(r)
	if err != nil {
		return nil, err
	}
	return messageFromFields(fields)
}

// ParseCall verifies the request and decodes it into a Call.
func (c *Client) ParseCall(r *http.Request) (*Call, error) {
	fields, err := c.ParseWebhook(r)
	if err != nil {
		return nil, err
	}
	return callFromFields(fields)
}

// verifyAndDecode checks the signature over the canonical request URI and
// returns the decoded fields. Pure function of the request parts, the body,
// and the auth token.
func (c *Client) verifyAndDecode(r *http.Request, body []byte) (Fields, error) {
	header := r.Header.Get(SignatureHeader)
	if header == "" {
		return nil, AuthError()
	}

	expected, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, BadRequestError("malformed signature header")
	}

	host := requestHost(r)
	if host == "" {
		return nil, BadRequestError("missing Host header")
	}
	if r.URL.Path == "*" {
		return nil, BadRequestError("wildcard request path")
	}

	var fields Fields
	var canonical string
	switch r.Method {
	case http.MethodGet:
		// The query string is part of the signed text as-is; decoding it
		// only feeds the field mapping.
		target := r.URL.RequestURI()
		fields = queryFields(target)
		canonical = "https://" + host + target
	case http.MethodPost:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, BadRequestError("malformed form body")
		}
		fields = lastValues(values)
		// The provider signs the path as it appeared on the wire, so any
		// percent-encoding must survive into the canonical string.
		canonical = "https://" + host + r.URL.EscapedPath() + sortedConcat(fields)
	default:
		return nil, BadRequestError("unsupported method " + r.Method)
	}

	mac := hmac.New(sha1.New, []byte(c.authToken))
	mac.Write([]byte(canonical))
	if !hmac.Equal(mac.Sum(nil), expected) {
		c.logger.Debug("webhook signature mismatch",
			logging.String("host", host),
			logging.String("path", r.URL.Path),
		)
		return nil, AuthError()
	}

	return fields, nil
}

// requestHost returns the hostname the request was addressed to, without any
// port. The provider signs the URL it dialed, which never carries a port for
// the standard HTTPS endpoint.
func requestHost(r *http.Request) string {
	host := r.Host
	if host == "" {
		host = r.Header.Get("Host")
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// queryFields decodes the query-string portion of a request target. A target
// without exactly one '?' yields an empty mapping, not an error.
func queryFields(target string) Fields {
	segments := strings.Split(target, "?")
	if len(segments) != 2 {
		return Fields{}
	}
	values, err := url.ParseQuery(segments[1])
	if err != nil {
		return Fields{}
	}
	return lastValues(values)
}

// lastValues flattens url.Values keeping the last value per key.
func lastValues(values url.Values) Fields {
	fields := make(Fields, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[len(v)-1]
		} else {
			fields[k] = ""
		}
	}
	return fields
}

// sortedConcat builds the POST signing suffix: every key concatenated with
// its value, no separators, in sorted key order.
func sortedConcat(fields Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(fields[k])
	}
	return b.String()
}

// RespondToMessageWebhook wraps caller logic for an inbound message webhook
// into an http.HandlerFunc. The handler is infallible: verification or
// decoding failures answer a fixed 400 without invoking logic, success
// answers 200 with the serialized TwiML.
func (c *Client) RespondToMessageWebhook(logic func(*Message) *twiml.Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := c.ParseMessage(r)
		if err != nil {
			writeWebhookError(w)
			return
		}
		writeTwiml(w, logic(msg))
	}
}

// RespondToCallWebhook wraps caller logic for an inbound call webhook into an
// http.HandlerFunc with the same contract as RespondToMessageWebhook.
func (c *Client) RespondToCallWebhook(logic func(*Call) *twiml.Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		call, err := c.ParseCall(r)
		if err != nil {
			writeWebhookError(w)
			return
		}
		writeTwiml(w, logic(call))
	}
}

func writeWebhookError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = io.WriteString(w, webhookErrorBody)
}

func writeTwiml(w http.ResponseWriter, resp *twiml.Response) {
	body := resp.String()
	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}
