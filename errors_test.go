package twilio

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "http error carries status",
			err:  HTTPError(503),
			want: "http: invalid HTTP status code 503: status=503",
		},
		{
			name: "network error carries cause",
			err:  NetworkError(errors.New("connection refused")),
			want: "network: request failed: cause=connection refused",
		},
		{
			name: "auth error has a fixed message",
			err:  AuthError(),
			want: "authentication: unauthorized",
		},
		{
			name: "bad request",
			err:  BadRequestError("malformed signature header"),
			want: "bad_request: malformed signature header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", NetworkError(errors.New("timeout")), true},
		{"http 503", HTTPError(503), true},
		{"http 500", HTTPError(500), true},
		{"http 404", HTTPError(404), false},
		{"http 429", HTTPError(429), false},
		{"parsing", ParsingError("bad json"), false},
		{"auth", AuthError(), false},
		{"bad request", BadRequestError("nope"), false},
		{"foreign error", errors.New("something"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NetworkError(cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	wrapped := fmt.Errorf("sending: %w", err)
	if !IsType(wrapped, ErrTypeNetwork) {
		t.Error("expected IsType to see through %w wrapping")
	}
	if GetType(wrapped) != ErrTypeNetwork {
		t.Errorf("GetType() = %v, want %v", GetType(wrapped), ErrTypeNetwork)
	}
}

func TestGetTypeForeignError(t *testing.T) {
	// Errors from other packages classify as unknown, never as a transport
	// failure.
	if got := GetType(errors.New("boom")); got != ErrTypeUnknown {
		t.Errorf("GetType() = %v, want %v", got, ErrTypeUnknown)
	}
	if got := GetType(nil); got != "" {
		t.Errorf("GetType(nil) = %v, want empty", got)
	}
}
