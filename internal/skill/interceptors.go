package skill

import (
	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/locale"
)

// AttributeLanguage is the request attribute holding the resolved language.
const AttributeLanguage = "language"

// LocalizationInterceptor attaches a translator for the request locale.
type LocalizationInterceptor struct {
	bundle *locale.Bundle
}

// NewLocalizationInterceptor returns an interceptor backed by bundle.
func NewLocalizationInterceptor(bundle *locale.Bundle) *LocalizationInterceptor {
	return &LocalizationInterceptor{bundle: bundle}
}

// Process resolves the locale. Unsupported languages fall back to the
// bundle's default language and the transition is logged.
func (i *LocalizationInterceptor) Process(in *Input) error {
	res := i.bundle.Resolve(in.Locale())
	if res.FallbackUsed {
		in.Logger.Warn("locale not supported, falling back",
			zap.String("language", res.Language),
			zap.String("fallback", res.Resolved),
		)
	}
	in.Translator = i.bundle.Translator(res)
	in.Attributes[AttributeLanguage] = res.Resolved
	return nil
}

// RequestLogger logs every incoming request.
type RequestLogger struct{}

func (RequestLogger) Process(in *Input) error {
	req := in.Envelope.Request
	fields := []zap.Field{zap.String("intent", req.IntentName())}
	if req.Intent != nil && len(req.Intent.Slots) > 0 {
		slots := make(map[string]string, len(req.Intent.Slots))
		for name, slot := range req.Intent.Slots {
			slots[name] = slot.Value
		}
		fields = append(fields, zap.Any("slots", slots))
	}
	in.Logger.Info("incoming request", fields...)
	return nil
}

// ResponseLogger logs every outgoing response.
type ResponseLogger struct{}

func (ResponseLogger) Process(in *Input, resp *Response) error {
	in.Logger.Info("outgoing response",
		zap.String("speech", resp.SpeechText),
		zap.String("reprompt", resp.RepromptText),
		zap.Bool("should_end_session", resp.ShouldEndSession),
	)
	return nil
}
