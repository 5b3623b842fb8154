package twilio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// MessageStatus is the delivery lifecycle state of a message, as reported by
// the API and by status-callback webhooks.
type MessageStatus string

const (
	MessageQueued             MessageStatus = "queued"
	MessageSending            MessageStatus = "sending"
	MessageSent               MessageStatus = "sent"
	MessageFailed             MessageStatus = "failed"
	MessageDelivered          MessageStatus = "delivered"
	MessageUndelivered        MessageStatus = "undelivered"
	MessageReceiving          MessageStatus = "receiving"
	MessageReceived           MessageStatus = "received"
	MessageAccepted           MessageStatus = "accepted"
	MessageScheduled          MessageStatus = "scheduled"
	MessageRead               MessageStatus = "read"
	MessagePartiallyDelivered MessageStatus = "partially_delivered"
	MessageCanceled           MessageStatus = "canceled"
)

var messageStatuses = map[MessageStatus]bool{
	MessageQueued:             true,
	MessageSending:            true,
	MessageSent:               true,
	MessageFailed:             true,
	MessageDelivered:          true,
	MessageUndelivered:        true,
	MessageReceiving:          true,
	MessageReceived:           true,
	MessageAccepted:           true,
	MessageScheduled:          true,
	MessageRead:               true,
	MessagePartiallyDelivered: true,
	MessageCanceled:           true,
}

// ParseMessageStatus converts a wire value into a MessageStatus.
func ParseMessageStatus(s string) (MessageStatus, error) {
	status := MessageStatus(s)
	if !messageStatuses[status] {
		return "", ParsingError("invalid message status '" + s + "'")
	}
	return status, nil
}

func (s MessageStatus) String() string {
	return string(s)
}

// Terminal reports whether the status is final, i.e. no further
// status-callback updates will follow for the message.
func (s MessageStatus) Terminal() bool {
	switch s {
	case MessageDelivered, MessageUndelivered, MessageFailed,
		MessageReceived, MessageRead, MessageCanceled:
		return true
	}
	return false
}

// UnmarshalJSON validates the wire value against the known statuses.
func (s *MessageStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMessageStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Message is a message resource, decoded either from an API JSON response or
// from a webhook's form fields. Webhook fields are all optional: an inbound
// message notification may carry only a subset.
type Message struct {
	Sid    string         `json:"sid"`
	From   string         `json:"from"`
	To     string         `json:"to"`
	Body   string         `json:"body"`
	Status *MessageStatus `json:"status"`
}

// OutboundMessage describes a message to send.
type OutboundMessage struct {
	From string
	To   string
	Body string
	// StatusCallback, when set, is the URL Twilio posts delivery-status
	// updates to.
	StatusCallback string
}

// NewOutboundMessage creates an OutboundMessage with the required fields.
func NewOutboundMessage(from, to, body string) OutboundMessage {
	return OutboundMessage{From: from, To: to, Body: body}
}

// SendMessage creates a message resource. The API answers 200 or 201 on
// success.
func (c *Client) SendMessage(ctx context.Context, msg OutboundMessage) (*Message, error) {
	params := url.Values{}
	params.Set("From", msg.From)
	params.Set("To", msg.To)
	params.Set("Body", msg.Body)
	if msg.StatusCallback != "" {
		params.Set("StatusCallback", msg.StatusCallback)
	}

	var out Message
	if err := c.sendRequest(ctx, http.MethodPost, c.resourceURL("Messages"), params, acceptCreatedOrOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMessage fetches a message resource by SID, typically to poll its
// delivery status.
func (c *Client) GetMessage(ctx context.Context, messageSid string) (*Message, error) {
	var out Message
	if err := c.sendRequest(ctx, http.MethodGet, c.resourceURL("Messages/"+messageSid), nil, acceptOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// messageFromFields builds a Message from decoded webhook fields. All fields
// are optional, but a present MessageStatus must parse.
func messageFromFields(f Fields) (*Message, error) {
	msg := &Message{
		Sid:  f["MessageSid"],
		From: f["From"],
		To:   f["To"],
		Body: f["Body"],
	}

	if raw, ok := f["MessageStatus"]; ok {
		status, err := ParseMessageStatus(raw)
		if err != nil {
			return nil, err
		}
		msg.Status = &status
	}

	return msg, nil
}
