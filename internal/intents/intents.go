// Package intents implements the unit converter's request handlers.
package intents

import (
	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/conversion"
	"github.com/pricofy/unit-converter-skill/internal/domain"
	"github.com/pricofy/unit-converter-skill/internal/skill"
)

// Intent names.
const (
	ConvertUnitsIntent = "ConvertUnitsIntent"
	HelloWorldIntent   = "HelloWorldIntent"
	HelpIntent         = "AMAZON.HelpIntent"
	CancelIntent       = "AMAZON.CancelIntent"
	StopIntent         = "AMAZON.StopIntent"
	FallbackIntent     = "AMAZON.FallbackIntent"
)

// Message keys.
const (
	MsgWelcome   = "WELCOME_MESSAGE"
	MsgHelp      = "HELP_MESSAGE"
	MsgGoodbye   = "GOODBYE_MESSAGE"
	MsgReflector = "REFLECTOR_MESSAGE"
	MsgFallback  = "FALLBACK_MESSAGE"
	MsgError     = "ERROR_MESSAGE"
	MsgConvert   = "CONVERT_MESSAGE"
)

// Handlers returns the request handlers in match order. The reflector
// accepts every intent request and must stay last.
func Handlers(table *conversion.Table) []skill.Handler {
	return []skill.Handler{
		Launch(),
		ConvertUnits(table),
		HelloWorld(),
		Help(),
		CancelAndStop(),
		Fallback(),
		SessionEnded(),
		IntentReflector(),
	}
}

// Launch greets the user and keeps the session open.
func Launch() skill.Handler {
	return skill.NewHandler("Launch", skill.IsRequestType(domain.LaunchRequest), speakAndListen(MsgWelcome))
}

// HelloWorld answers the sample intent.
func HelloWorld() skill.Handler {
	return skill.NewHandler("HelloWorld", skill.IsIntent(HelloWorldIntent),
		func(in *skill.Input) (*skill.Response, error) {
			return skill.NewResponse().Speak("Hello World!").Build(), nil
		})
}

// Help explains what the skill can do.
func Help() skill.Handler {
	return skill.NewHandler("Help", skill.IsIntent(HelpIntent), speakAndListen(MsgHelp))
}

// CancelAndStop says goodbye and ends the session.
func CancelAndStop() skill.Handler {
	return skill.NewHandler("CancelAndStop", skill.IsIntent(CancelIntent, StopIntent), speak(MsgGoodbye))
}

// Fallback handles utterances the platform could not map to an intent.
func Fallback() skill.Handler {
	return skill.NewHandler("Fallback", skill.IsIntent(FallbackIntent), speakAndListen(MsgFallback))
}

// NotUnderstood handles requests no registered handler matched.
func NotUnderstood() skill.Handler {
	return skill.NewHandler("NotUnderstood", func(*skill.Input) bool { return true }, speakAndListen(MsgFallback))
}

// SessionEnded logs why the session closed. The platform ignores any
// speech in the reply.
func SessionEnded() skill.Handler {
	return skill.NewHandler("SessionEnded", skill.IsRequestType(domain.SessionEndedRequest),
		func(in *skill.Input) (*skill.Response, error) {
			in.Logger.Info("session ended", zap.String("reason", in.Envelope.Request.Reason))
			return skill.NewResponse().Build(), nil
		})
}

// IntentReflector echoes the name of any intent request. It is a catch-all
// and must be registered after every specific intent handler.
func IntentReflector() skill.Handler {
	return skill.NewHandler("IntentReflector", skill.IsRequestType(domain.IntentRequest),
		func(in *skill.Input) (*skill.Response, error) {
			speech, err := in.T(MsgReflector, in.IntentName())
			if err != nil {
				return nil, err
			}
			return skill.NewResponse().Speak(speech).Build(), nil
		})
}

func speak(key string) skill.Action {
	return func(in *skill.Input) (*skill.Response, error) {
		speech, err := in.T(key)
		if err != nil {
			return nil, err
		}
		return skill.NewResponse().Speak(speech).Build(), nil
	}
}

func speakAndListen(key string) skill.Action {
	return func(in *skill.Input) (*skill.Response, error) {
		speech, err := in.T(key)
		if err != nil {
			return nil, err
		}
		return skill.NewResponse().Speak(speech).Reprompt(speech).Build(), nil
	}
}
