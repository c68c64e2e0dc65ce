package intents

import (
	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/conversion"
	"github.com/pricofy/unit-converter-skill/internal/locale"
	"github.com/pricofy/unit-converter-skill/internal/skill"
)

// Slot names of ConvertUnitsIntent.
const (
	SlotAmount = "cantidad"
	SlotSource = "unidadOrigen"
	SlotTarget = "unidadDestino"
)

type convertHandler struct {
	table *conversion.Table
}

// ConvertUnits converts an amount between two units of the request's
// language. Bad input is answered with the localized error message rather
// than failing the request.
func ConvertUnits(table *conversion.Table) skill.Handler {
	h := &convertHandler{table: table}
	return skill.NewHandler("ConvertUnits", skill.IsIntent(ConvertUnitsIntent), h.handle)
}

func (h *convertHandler) handle(in *skill.Input) (*skill.Response, error) {
	amountText, okAmount := in.Slot(SlotAmount)
	sourceText, okSource := in.Slot(SlotSource)
	targetText, okTarget := in.Slot(SlotTarget)
	if !okAmount || !okSource || !okTarget {
		in.Logger.Info("conversion slots missing",
			zap.Bool("amount", okAmount), zap.Bool("source", okSource), zap.Bool("target", okTarget))
		return h.reject(in)
	}

	amount, err := conversion.ParseAmount(amountText)
	if err != nil {
		in.Logger.Info("conversion amount rejected", zap.Error(err))
		return h.reject(in)
	}

	source := conversion.NormalizeUnit(sourceText)
	target := conversion.NormalizeUnit(targetText)

	// Rates are looked up in the language the user spoke, not the message
	// fallback language.
	converted, err := h.table.Convert(locale.Language(in.Locale()), source, target, amount)
	if err != nil {
		in.Logger.Info("conversion rejected", zap.Error(err))
		return h.reject(in)
	}

	speech, err := in.T(MsgConvert, amountText, source, target, conversion.FormatAmount(converted), target)
	if err != nil {
		return nil, err
	}
	return skill.NewResponse().Speak(speech).Build(), nil
}

func (h *convertHandler) reject(in *skill.Input) (*skill.Response, error) {
	speech, err := in.T(MsgError)
	if err != nil {
		return nil, err
	}
	return skill.NewResponse().Speak(speech).Build(), nil
}
