package skill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pricofy/unit-converter-skill/internal/domain"
	"github.com/pricofy/unit-converter-skill/internal/locale"
)

func intentEnvelope(name, loc string) *domain.RequestEnvelope {
	return &domain.RequestEnvelope{
		Request: domain.Request{
			Type:   domain.IntentRequest,
			Locale: loc,
			Intent: &domain.Intent{Name: name},
		},
	}
}

func literal(name, speech string, predicate Predicate) Handler {
	return NewHandler(name, predicate, func(*Input) (*Response, error) {
		return NewResponse().Speak(speech).Build(), nil
	})
}

type recordingErrorHandler struct {
	err error
}

func (r *recordingErrorHandler) HandleError(_ *Input, err error) *Response {
	r.err = err
	return NewResponse().Speak("error").Reprompt("error").Build()
}

type failingInterceptor struct{}

func (failingInterceptor) Process(*Input) error { return errors.New("boom") }

type countingResponseInterceptor struct {
	calls []*Response
}

func (c *countingResponseInterceptor) Process(_ *Input, resp *Response) error {
	c.calls = append(c.calls, resp)
	return nil
}

type panickingResponseInterceptor struct{}

func (panickingResponseInterceptor) Process(*Input, *Response) error { panic("late") }

func build(t *testing.T, b *Builder) *Skill {
	t.Helper()
	s, err := b.Build()
	require.NoError(t, err)
	return s
}

func TestBuilder_Requirements(t *testing.T) {
	_, err := NewBuilder().WithErrorHandler(&recordingErrorHandler{}).Build()
	assert.Error(t, err)

	_, err = NewBuilder().AddRequestHandlers(literal("a", "a", IsIntent("A"))).Build()
	assert.Error(t, err)
}

func TestInvoke_FirstMatchWins(t *testing.T) {
	s := build(t, NewBuilder().
		AddRequestHandlers(
			literal("specific", "specific", IsIntent("ConvertUnitsIntent")),
			literal("reflector", "reflector", IsRequestType(domain.IntentRequest)),
		).
		WithErrorHandler(&recordingErrorHandler{}))

	resp := s.Invoke(context.Background(), intentEnvelope("ConvertUnitsIntent", "en-US"))
	assert.Equal(t, "specific", resp.SpeechText)

	resp = s.Invoke(context.Background(), intentEnvelope("OtherIntent", "en-US"))
	assert.Equal(t, "reflector", resp.SpeechText)
}

func TestInvoke_RegistrationOrderMatters(t *testing.T) {
	s := build(t, NewBuilder().
		AddRequestHandlers(
			literal("reflector", "reflector", IsRequestType(domain.IntentRequest)),
			literal("specific", "specific", IsIntent("ConvertUnitsIntent")),
		).
		WithErrorHandler(&recordingErrorHandler{}))

	resp := s.Invoke(context.Background(), intentEnvelope("ConvertUnitsIntent", "en-US"))
	assert.Equal(t, "reflector", resp.SpeechText, "handler registered after a catch-all must be unreachable")
}

func TestInvoke_Unmatched(t *testing.T) {
	errHandler := &recordingErrorHandler{}
	env := &domain.RequestEnvelope{Request: domain.Request{Type: "CanFulfillIntentRequest"}}

	s := build(t, NewBuilder().
		AddRequestHandlers(literal("launch", "launch", IsRequestType(domain.LaunchRequest))).
		WithErrorHandler(errHandler))
	resp := s.Invoke(context.Background(), env)
	assert.Equal(t, "error", resp.SpeechText)
	assert.ErrorIs(t, errHandler.err, domain.ErrUnmatchedRequest)

	s = build(t, NewBuilder().
		AddRequestHandlers(literal("launch", "launch", IsRequestType(domain.LaunchRequest))).
		WithUnmatchedHandler(literal("unmatched", "not understood", func(*Input) bool { return true })).
		WithErrorHandler(&recordingErrorHandler{}))
	resp = s.Invoke(context.Background(), env)
	assert.Equal(t, "not understood", resp.SpeechText)
}

func TestInvoke_ErrorBoundary(t *testing.T) {
	handlerErr := errors.New("handler failed")

	tests := []struct {
		name         string
		handler      Handler
		interceptors []RequestInterceptor
		expectedErr  error
	}{
		{
			name: "action error",
			handler: NewHandler("failing", IsIntent("X"), func(*Input) (*Response, error) {
				return nil, handlerErr
			}),
			expectedErr: handlerErr,
		},
		{
			name: "action panic",
			handler: NewHandler("panicking", IsIntent("X"), func(*Input) (*Response, error) {
				panic("nil map")
			}),
			expectedErr: domain.ErrHandlerPanic,
		},
		{
			name:        "predicate panic",
			handler:     literal("bad predicate", "never", func(*Input) bool { panic("bad") }),
			expectedErr: domain.ErrHandlerPanic,
		},
		{
			name:         "interceptor error",
			handler:      literal("ok", "ok", IsIntent("X")),
			interceptors: []RequestInterceptor{failingInterceptor{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errHandler := &recordingErrorHandler{}
			responses := &countingResponseInterceptor{}
			s := build(t, NewBuilder().
				AddRequestHandlers(tt.handler).
				AddRequestInterceptors(tt.interceptors...).
				AddResponseInterceptors(responses).
				WithErrorHandler(errHandler))

			resp := s.Invoke(context.Background(), intentEnvelope("X", "en-US"))

			require.Error(t, errHandler.err)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, errHandler.err, tt.expectedErr)
			}
			assert.Equal(t, "error", resp.SpeechText)
			assert.False(t, resp.ShouldEndSession)
			require.Len(t, responses.calls, 1, "response interceptors run on error responses too")
			assert.Same(t, resp, responses.calls[0])
		})
	}
}

func TestInvoke_NilResponse(t *testing.T) {
	s := build(t, NewBuilder().
		AddRequestHandlers(NewHandler("silent", IsIntent("X"), func(*Input) (*Response, error) { return nil, nil })).
		WithErrorHandler(&recordingErrorHandler{}))

	resp := s.Invoke(context.Background(), intentEnvelope("X", "en-US"))
	require.NotNil(t, resp)
	assert.Empty(t, resp.SpeechText)
	assert.True(t, resp.ShouldEndSession)
}

type panickingErrorHandler struct{}

func (panickingErrorHandler) HandleError(*Input, error) *Response { panic("worse") }

func TestInvoke_ErrorHandlerPanics(t *testing.T) {
	s := build(t, NewBuilder().
		AddRequestHandlers(NewHandler("failing", IsIntent("X"), func(*Input) (*Response, error) {
			return nil, errors.New("fail")
		})).
		WithErrorHandler(panickingErrorHandler{}))

	resp := s.Invoke(context.Background(), intentEnvelope("X", "en-US"))
	assert.Equal(t, GenericErrorSpeech, resp.SpeechText)
	assert.Equal(t, GenericErrorSpeech, resp.RepromptText)
	assert.False(t, resp.ShouldEndSession)
}

func TestInvoke_ResponseInterceptorPanicIsIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := build(t, NewBuilder().
		AddRequestHandlers(literal("ok", "ok", IsIntent("X"))).
		AddResponseInterceptors(panickingResponseInterceptor{}).
		WithErrorHandler(&recordingErrorHandler{}).
		WithLogger(zap.New(core)))

	resp := s.Invoke(context.Background(), intentEnvelope("X", "en-US"))
	assert.Equal(t, "ok", resp.SpeechText)
	assert.Equal(t, 1, logs.FilterMessage("response interceptor failed").Len())
}

func TestLocalizationInterceptor(t *testing.T) {
	bundle, err := locale.NewBundle(locale.DefaultLanguage)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	greet := NewHandler("goodbye", IsIntent("X"), func(in *Input) (*Response, error) {
		speech, err := in.T("GOODBYE_MESSAGE")
		if err != nil {
			return nil, err
		}
		return NewResponse().Speak(speech).Build(), nil
	})
	s := build(t, NewBuilder().
		AddRequestHandlers(greet).
		AddRequestInterceptors(NewLocalizationInterceptor(bundle), RequestLogger{}).
		AddResponseInterceptors(ResponseLogger{}).
		WithErrorHandler(&recordingErrorHandler{}).
		WithLogger(zap.New(core)))

	tests := []struct {
		locale   string
		expected string
		fallback bool
	}{
		{"en-US", "Goodbye from the Unit Converter!", false},
		{"es-MX", "¡Adiós desde el Convertidor de Unidades!", false},
		{"fr-FR", "Goodbye from the Unit Converter!", true},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			before := logs.FilterMessage("locale not supported, falling back").Len()

			resp := s.Invoke(context.Background(), intentEnvelope("X", tt.locale))
			assert.Equal(t, tt.expected, resp.SpeechText)

			after := logs.FilterMessage("locale not supported, falling back").Len()
			if tt.fallback {
				assert.Equal(t, before+1, after)
			} else {
				assert.Equal(t, before, after)
			}
		})
	}

	assert.Equal(t, len(tests), logs.FilterMessage("incoming request").Len())
	assert.Equal(t, len(tests), logs.FilterMessage("outgoing response").Len())
}

func TestInput_WithoutTranslator(t *testing.T) {
	in := NewInput(context.Background(), intentEnvelope("X", "en-US"), nil)

	_, err := in.T("GOODBYE_MESSAGE")
	assert.ErrorIs(t, err, domain.ErrUnknownMessage)
}

func TestInput_Accessors(t *testing.T) {
	env := intentEnvelope("ConvertUnitsIntent", "es-ES")
	env.Request.Intent.Slots = map[string]domain.Slot{
		"cantidad":     {Name: "cantidad", Value: "3"},
		"unidadOrigen": {Name: "unidadOrigen"},
	}
	in := NewInput(context.Background(), env, zap.NewNop())

	assert.Equal(t, domain.IntentRequest, in.RequestType())
	assert.Equal(t, "ConvertUnitsIntent", in.IntentName())
	assert.Equal(t, "es-ES", in.Locale())

	v, ok := in.Slot("cantidad")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = in.Slot("unidadOrigen")
	assert.False(t, ok, "empty slot value counts as missing")

	_, ok = in.Slot("unidadDestino")
	assert.False(t, ok)
}

func TestIsIntent(t *testing.T) {
	p := IsIntent("AMAZON.CancelIntent", "AMAZON.StopIntent")

	assert.True(t, p(NewInput(context.Background(), intentEnvelope("AMAZON.StopIntent", "en-US"), nil)))
	assert.False(t, p(NewInput(context.Background(), intentEnvelope("AMAZON.HelpIntent", "en-US"), nil)))

	launch := &domain.RequestEnvelope{Request: domain.Request{Type: domain.LaunchRequest}}
	assert.False(t, p(NewInput(context.Background(), launch, nil)))
}
