// Package skill dispatches voice requests to handlers.
//
// A Skill runs its request interceptors, picks the first registered Handler
// whose predicate matches, and converts any failure into the error handler's
// response, so every request produces exactly one Response.
package skill

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/domain"
	"github.com/pricofy/unit-converter-skill/internal/locale"
)

// Handler handles one kind of request.
type Handler interface {
	Name() string
	CanHandle(in *Input) bool
	Handle(in *Input) (*Response, error)
}

// ErrorHandler turns a dispatch failure into a response. It must not fail.
type ErrorHandler interface {
	HandleError(in *Input, err error) *Response
}

// Predicate reports whether a handler applies to the input.
type Predicate func(in *Input) bool

// Action produces the response for a matched input.
type Action func(in *Input) (*Response, error)

type funcHandler struct {
	name      string
	predicate Predicate
	action    Action
}

// NewHandler builds a Handler from a predicate and an action.
func NewHandler(name string, predicate Predicate, action Action) Handler {
	return &funcHandler{name: name, predicate: predicate, action: action}
}

func (h *funcHandler) Name() string                        { return h.name }
func (h *funcHandler) CanHandle(in *Input) bool            { return h.predicate(in) }
func (h *funcHandler) Handle(in *Input) (*Response, error) { return h.action(in) }

// IsRequestType matches requests of the given type.
func IsRequestType(requestType string) Predicate {
	return func(in *Input) bool {
		return in.RequestType() == requestType
	}
}

// IsIntent matches intent requests for any of the given intent names.
func IsIntent(names ...string) Predicate {
	return func(in *Input) bool {
		if in.RequestType() != domain.IntentRequest {
			return false
		}
		name := in.IntentName()
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

// Input is the per-request state handed to interceptors and handlers. It is
// created for one invocation and discarded afterwards.
type Input struct {
	Context  context.Context
	Envelope *domain.RequestEnvelope
	// Translator is set by the localization interceptor.
	Translator *locale.Translator
	// Attributes are request-scoped and never persisted.
	Attributes map[string]any
	Logger     *zap.Logger
}

// NewInput builds the per-request input. The logger gets the request's
// identifying fields.
func NewInput(ctx context.Context, env *domain.RequestEnvelope, logger *zap.Logger) *Input {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Input{
		Context:    ctx,
		Envelope:   env,
		Attributes: map[string]any{},
		Logger: logger.With(
			zap.String("request_id", env.Request.RequestID),
			zap.String("request_type", env.Request.Type),
			zap.String("locale", env.Request.Locale),
		),
	}
}

// RequestType returns the request's type.
func (in *Input) RequestType() string { return in.Envelope.Request.Type }

// IntentName returns the intent name, or "" for non-intent requests.
func (in *Input) IntentName() string { return in.Envelope.Request.IntentName() }

// Locale returns the request's locale string.
func (in *Input) Locale() string { return in.Envelope.Request.Locale }

// Slot returns the value of a filled slot.
func (in *Input) Slot(name string) (string, bool) {
	return in.Envelope.Request.SlotValue(name)
}

// T renders a localized message with the request's translator.
func (in *Input) T(key string, args ...any) (string, error) {
	if in.Translator == nil {
		return "", fmt.Errorf("%w: %s (no translator)", domain.ErrUnknownMessage, key)
	}
	return in.Translator.T(key, args...)
}
