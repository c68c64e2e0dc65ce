// Package domain contains the wire types exchanged with the voice platform.
package domain

// Request types delivered by the voice platform.
const (
	LaunchRequest       = "LaunchRequest"
	IntentRequest       = "IntentRequest"
	SessionEndedRequest = "SessionEndedRequest"
)

// ResponseVersion is the envelope version sent back to the platform.
const ResponseVersion = "1.0"

// RequestEnvelope is the inbound event for a single skill invocation.
type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Context *Context `json:"context,omitempty"`
	Request Request  `json:"request"`
}

// Session describes the conversation the request belongs to.
type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// Context carries device and system state. Only the application is used.
type Context struct {
	System struct {
		Application Application `json:"application"`
	} `json:"System"`
}

// Application identifies the skill the request was routed to.
type Application struct {
	ApplicationID string `json:"applicationId"`
}

// Request is a tagged union on Type. Intent is only set for IntentRequest,
// Reason only for SessionEndedRequest.
type Request struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Timestamp string  `json:"timestamp"`
	Locale    string  `json:"locale"`
	Intent    *Intent `json:"intent,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// Intent is a recognized user command with its slot values.
type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// Slot is a named parameter extracted from the utterance.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// ApplicationID returns the skill ID from the session, or from the system
// context for out-of-session requests.
func (e *RequestEnvelope) ApplicationID() string {
	if e.Session != nil && e.Session.Application.ApplicationID != "" {
		return e.Session.Application.ApplicationID
	}
	if e.Context != nil {
		return e.Context.System.Application.ApplicationID
	}
	return ""
}

// SessionAttributes returns the attributes to echo back, or nil.
func (e *RequestEnvelope) SessionAttributes() map[string]any {
	if e.Session == nil {
		return nil
	}
	return e.Session.Attributes
}

// IntentName returns the intent name, or "" for non-intent requests.
func (r Request) IntentName() string {
	if r.Type != IntentRequest || r.Intent == nil {
		return ""
	}
	return r.Intent.Name
}

// SlotValue returns the value of the named slot. ok is false when the slot
// is missing or was not filled.
func (r Request) SlotValue(name string) (value string, ok bool) {
	if r.Intent == nil {
		return "", false
	}
	slot, found := r.Intent.Slots[name]
	if !found || slot.Value == "" {
		return "", false
	}
	return slot.Value, true
}

// ResponseEnvelope is the outbound reply for a single skill invocation.
type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	Response          ResponseBody   `json:"response"`
}

// ResponseBody holds the spoken output.
type ResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

// OutputSpeech is plain-text speech.
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reprompt is spoken when the user does not answer while the session is open.
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// PlainText builds a plain-text OutputSpeech.
func PlainText(text string) *OutputSpeech {
	return &OutputSpeech{Type: "PlainText", Text: text}
}
