// Package twiml builds TwiML documents, the XML vocabulary Twilio expects in
// webhook responses.
package twiml

import "strings"

const header = `<?xml version="1.0" encoding="UTF-8"?>`

// Voice selects the text-to-speech voice for a Say verb.
type Voice string

const (
	Man   Voice = "man"
	Woman Voice = "woman"
	Alice Voice = "alice"
)

// Verb is one node of a TwiML response.
type Verb interface {
	writeXML(b *strings.Builder)
}

// Say speaks Text to the caller using the given Voice and language tag.
type Say struct {
	Text     string
	Voice    Voice
	Language string
}

func (s *Say) writeXML(b *strings.Builder) {
	attrs := make([]attr, 0, 2)
	if s.Voice != "" {
		attrs = append(attrs, attr{"voice", string(s.Voice)})
	}
	if s.Language != "" {
		attrs = append(attrs, attr{"language", s.Language})
	}
	writeElement(b, "Say", attrs, s.Text)
}

// Message replies to the sender with Text.
type Message struct {
	Text string
}

func (m *Message) writeXML(b *strings.Builder) {
	writeElement(b, "Message", nil, m.Text)
}

// Play plays the audio file at URL to the caller.
type Play struct {
	URL string
}

func (p *Play) writeXML(b *strings.Builder) {
	writeElement(b, "Play", nil, p.URL)
}

// Response is an ordered, append-only list of verbs. The zero value is an
// empty response.
type Response struct {
	verbs []Verb
}

// New creates an empty Response.
func New() *Response {
	return &Response{}
}

// Add appends a verb. Returns the response for chaining.
func (r *Response) Add(v Verb) *Response {
	r.verbs = append(r.verbs, v)
	return r
}

// String serializes the response into a complete TwiML document wrapped in a
// single Response root element.
func (r *Response) String() string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("<Response>")
	for _, v := range r.verbs {
		v.writeXML(&b)
	}
	b.WriteString("</Response>")
	return b.String()
}

type attr struct {
	name  string
	value string
}

func writeElement(b *strings.Builder, name string, attrs []attr, text string) {
	b.WriteString("<")
	b.WriteString(name)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(escapeText(text))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

// escapeText escapes the characters XML forbids in character data.
// Apostrophes and quotes are legal in text content and stay as-is.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
