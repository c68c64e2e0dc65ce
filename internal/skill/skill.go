package skill

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/domain"
)

// RequestInterceptor runs before dispatch. An error aborts dispatch and is
// passed to the error handler.
type RequestInterceptor interface {
	Process(in *Input) error
}

// ResponseInterceptor runs after dispatch on the final response. Errors are
// logged and never change the response.
type ResponseInterceptor interface {
	Process(in *Input, resp *Response) error
}

// Registry is an ordered list of handlers. The first handler whose
// predicate matches wins, so specific handlers must be registered before
// generic ones: a handler added after a catch-all is never reached for the
// requests the catch-all accepts.
type Registry struct {
	handlers []Handler
}

// Register appends handlers in order.
func (r *Registry) Register(handlers ...Handler) {
	r.handlers = append(r.handlers, handlers...)
}

// Handlers returns the handlers in registration order.
func (r *Registry) Handlers() []Handler {
	return append([]Handler(nil), r.handlers...)
}

// Match returns the first handler that can handle in.
func (r *Registry) Match(in *Input) (Handler, bool) {
	for _, h := range r.handlers {
		if h.CanHandle(in) {
			return h, true
		}
	}
	return nil, false
}

// Builder configures a Skill.
type Builder struct {
	registry             Registry
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	unmatched            Handler
	errorHandler         ErrorHandler
	logger               *zap.Logger
}

// NewBuilder starts a skill configuration.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddRequestHandlers registers handlers in match order.
func (b *Builder) AddRequestHandlers(handlers ...Handler) *Builder {
	b.registry.Register(handlers...)
	return b
}

// AddRequestInterceptors appends request interceptors.
func (b *Builder) AddRequestInterceptors(interceptors ...RequestInterceptor) *Builder {
	b.requestInterceptors = append(b.requestInterceptors, interceptors...)
	return b
}

// AddResponseInterceptors appends response interceptors.
func (b *Builder) AddResponseInterceptors(interceptors ...ResponseInterceptor) *Builder {
	b.responseInterceptors = append(b.responseInterceptors, interceptors...)
	return b
}

// WithUnmatchedHandler sets the handler used when no registered handler
// matches.
func (b *Builder) WithUnmatchedHandler(h Handler) *Builder {
	b.unmatched = h
	return b
}

// WithErrorHandler sets the error handler.
func (b *Builder) WithErrorHandler(h ErrorHandler) *Builder {
	b.errorHandler = h
	return b
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// Build returns the configured skill.
func (b *Builder) Build() (*Skill, error) {
	if len(b.registry.handlers) == 0 {
		return nil, errors.New("at least one request handler is required")
	}
	if b.errorHandler == nil {
		return nil, errors.New("an error handler is required")
	}
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Skill{
		registry:             Registry{handlers: b.registry.Handlers()},
		requestInterceptors:  append([]RequestInterceptor(nil), b.requestInterceptors...),
		responseInterceptors: append([]ResponseInterceptor(nil), b.responseInterceptors...),
		unmatched:            b.unmatched,
		errorHandler:         b.errorHandler,
		logger:               logger,
	}, nil
}

// Skill dispatches requests. It holds no per-request state and is safe for
// concurrent use when its handlers and interceptors are.
type Skill struct {
	registry             Registry
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	unmatched            Handler
	errorHandler         ErrorHandler
	logger               *zap.Logger
}

// Invoke handles one request. It always returns a response.
func (s *Skill) Invoke(ctx context.Context, env *domain.RequestEnvelope) *Response {
	in := NewInput(ctx, env, s.logger)

	resp, err := s.dispatch(in)
	if err != nil {
		in.Logger.Error("request failed", zap.Error(err))
		resp = s.handleError(in, err)
	}

	for _, ri := range s.responseInterceptors {
		if err := processResponse(ri, in, resp); err != nil {
			in.Logger.Warn("response interceptor failed", zap.Error(err))
		}
	}

	return resp
}

// dispatch runs the request interceptors and the matching handler. Panics
// are converted to errors wrapping domain.ErrHandlerPanic.
func (s *Skill) dispatch(in *Input) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("%w: %v", domain.ErrHandlerPanic, r)
		}
	}()

	for _, ri := range s.requestInterceptors {
		if err := ri.Process(in); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	h, ok := s.registry.Match(in)
	if !ok {
		if s.unmatched == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnmatchedRequest, in.RequestType())
		}
		in.Logger.Info("no handler matched, using unmatched handler",
			zap.String("handler", s.unmatched.Name()))
		h = s.unmatched
	}

	resp, err = h.Handle(in)
	if err != nil {
		return nil, fmt.Errorf("handler %s: %w", h.Name(), err)
	}
	if resp == nil {
		resp = NewResponse().Build()
	}
	return resp, nil
}

func (s *Skill) handleError(in *Input, err error) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			in.Logger.Error("error handler panicked", zap.Any("panic", r))
			resp = NewResponse().Speak(GenericErrorSpeech).Reprompt(GenericErrorSpeech).Build()
		}
	}()
	resp = s.errorHandler.HandleError(in, err)
	if resp == nil {
		resp = NewResponse().Speak(GenericErrorSpeech).Reprompt(GenericErrorSpeech).Build()
	}
	return resp
}

func processResponse(ri ResponseInterceptor, in *Input, resp *Response) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrHandlerPanic, r)
		}
	}()
	return ri.Process(in, resp)
}

// GenericErrorSpeech is spoken when no localized error message is available.
const GenericErrorSpeech = "Sorry, I had trouble doing what you asked. Please try again."
