package skill

import "github.com/pricofy/unit-converter-skill/internal/domain"

// Response is the spoken reply for one request.
type Response struct {
	SpeechText       string `json:"speechText,omitempty"`
	RepromptText     string `json:"repromptText,omitempty"`
	ShouldEndSession bool   `json:"shouldEndSession"`
}

// ResponseBuilder assembles a Response. Unless EndSession is called, the
// session stays open exactly when a reprompt is set.
type ResponseBuilder struct {
	speech     string
	reprompt   string
	endSession *bool
}

// NewResponse starts an empty response.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{}
}

// Speak sets the output speech.
func (b *ResponseBuilder) Speak(text string) *ResponseBuilder {
	b.speech = text
	return b
}

// Reprompt sets the text spoken if the user stays silent.
func (b *ResponseBuilder) Reprompt(text string) *ResponseBuilder {
	b.reprompt = text
	return b
}

// EndSession overrides the session policy.
func (b *ResponseBuilder) EndSession(end bool) *ResponseBuilder {
	b.endSession = &end
	return b
}

// Build returns the response.
func (b *ResponseBuilder) Build() *Response {
	end := b.reprompt == ""
	if b.endSession != nil {
		end = *b.endSession
	}
	return &Response{
		SpeechText:       b.speech,
		RepromptText:     b.reprompt,
		ShouldEndSession: end,
	}
}

// Envelope converts the response to the platform's wire format.
func (r *Response) Envelope(sessionAttributes map[string]any) *domain.ResponseEnvelope {
	env := &domain.ResponseEnvelope{
		Version:           domain.ResponseVersion,
		SessionAttributes: sessionAttributes,
		Response: domain.ResponseBody{
			ShouldEndSession: r.ShouldEndSession,
		},
	}
	if r.SpeechText != "" {
		env.Response.OutputSpeech = domain.PlainText(r.SpeechText)
	}
	if r.RepromptText != "" {
		env.Response.Reprompt = &domain.Reprompt{OutputSpeech: *domain.PlainText(r.RepromptText)}
	}
	return env
}
