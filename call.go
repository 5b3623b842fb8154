package twilio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// CallStatus is the lifecycle state of a voice call.
type CallStatus string

const (
	CallQueued     CallStatus = "queued"
	CallRinging    CallStatus = "ringing"
	CallInProgress CallStatus = "in-progress"
	CallCompleted  CallStatus = "completed"
	CallBusy       CallStatus = "busy"
	CallFailed     CallStatus = "failed"
	CallNoAnswer   CallStatus = "no-answer"
	CallCanceled   CallStatus = "canceled"
)

var callStatuses = map[CallStatus]bool{
	CallQueued:     true,
	CallRinging:    true,
	CallInProgress: true,
	CallCompleted:  true,
	CallBusy:       true,
	CallFailed:     true,
	CallNoAnswer:   true,
	CallCanceled:   true,
}

// ParseCallStatus converts a wire value into a CallStatus.
func ParseCallStatus(s string) (CallStatus, error) {
	status := CallStatus(s)
	if !callStatuses[status] {
		return "", ParsingError("invalid call status '" + s + "'")
	}
	return status, nil
}

func (s CallStatus) String() string {
	return string(s)
}

// UnmarshalJSON validates the wire value against the known statuses.
func (s *CallStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseCallStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Call is a voice call resource, decoded either from an API JSON response or
// from a webhook's form fields.
type Call struct {
	Sid    string     `json:"sid"`
	From   string     `json:"from"`
	To     string     `json:"to"`
	Status CallStatus `json:"status"`
}

// OutboundCall describes a call to originate. URL points at the TwiML
// document Twilio fetches once the call connects.
type OutboundCall struct {
	From string
	To   string
	URL  string
}

// NewOutboundCall creates an OutboundCall with the required fields.
func NewOutboundCall(from, to, callbackURL string) OutboundCall {
	return OutboundCall{From: from, To: to, URL: callbackURL}
}

// MakeCall originates a voice call.
func (c *Client) MakeCall(ctx context.Context, call OutboundCall) (*Call, error) {
	params := url.Values{}
	params.Set("From", call.From)
	params.Set("To", call.To)
	params.Set("Url", call.URL)

	var out Call
	if err := c.sendRequest(ctx, http.MethodPost, c.resourceURL("Calls"), params, acceptCreatedOrOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// callFromFields builds a Call from decoded webhook fields. Unlike message
// webhooks, call webhooks always carry the full set, so every field is
// required.
func callFromFields(f Fields) (*Call, error) {
	sid, ok := f["CallSid"]
	if !ok {
		return nil, ParsingError("missing CallSid field")
	}
	from, ok := f["From"]
	if !ok {
		return nil, ParsingError("missing From field")
	}
	to, ok := f["To"]
	if !ok {
		return nil, ParsingError("missing To field")
	}
	raw, ok := f["CallStatus"]
	if !ok {
		return nil, ParsingError("missing CallStatus field")
	}
	status, err := ParseCallStatus(raw)
	if err != nil {
		return nil, err
	}

	return &Call{
		Sid:    sid,
		From:   from,
		To:     to,
		Status: status,
	}, nil
}
