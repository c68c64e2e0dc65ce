package intents

import (
	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/skill"
)

// ErrorHandler apologizes in the request's language and keeps the session
// open so the user can retry.
type ErrorHandler struct{}

// HandleError implements skill.ErrorHandler. The error itself is logged by
// the skill before this is called.
func (ErrorHandler) HandleError(in *skill.Input, _ error) *skill.Response {
	speech, tErr := in.T(MsgError)
	if tErr != nil {
		in.Logger.Warn("error message unavailable", zap.Error(tErr))
		speech = skill.GenericErrorSpeech
	}
	return skill.NewResponse().Speak(speech).Reprompt(speech).EndSession(false).Build()
}
