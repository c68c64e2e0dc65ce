// Package handler provides the Lambda handler for the unit converter skill.
package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/config"
	"github.com/pricofy/unit-converter-skill/internal/conversion"
	"github.com/pricofy/unit-converter-skill/internal/domain"
	"github.com/pricofy/unit-converter-skill/internal/intents"
	"github.com/pricofy/unit-converter-skill/internal/locale"
	"github.com/pricofy/unit-converter-skill/internal/skill"
)

// Handler turns platform requests into skill responses. It is built once
// per Lambda instance and reused across invocations.
type Handler struct {
	skill   *skill.Skill
	skillID string
	logger  *zap.Logger
}

// New loads the message bundle and rate table and wires the skill.
func New(cfg *config.Config, logger *zap.Logger) (*Handler, error) {
	bundle, err := locale.NewBundle(cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	table, err := conversion.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load conversion rates: %w", err)
	}

	s, err := NewSkill(bundle, table, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build skill: %w", err)
	}

	return &Handler{
		skill:   s,
		skillID: cfg.SkillID,
		logger:  logger,
	}, nil
}

// NewSkill registers the unit converter's interceptors and handlers.
func NewSkill(bundle *locale.Bundle, table *conversion.Table, logger *zap.Logger) (*skill.Skill, error) {
	return skill.NewBuilder().
		AddRequestHandlers(intents.Handlers(table)...).
		WithUnmatchedHandler(intents.NotUnderstood()).
		WithErrorHandler(intents.ErrorHandler{}).
		AddRequestInterceptors(
			skill.NewLocalizationInterceptor(bundle),
			skill.RequestLogger{},
		).
		AddResponseInterceptors(skill.ResponseLogger{}).
		WithLogger(logger).
		Build()
}

// Handle processes one skill request. Envelopes that are not valid skill
// requests are rejected with an error; everything else gets a spoken
// response.
func (h *Handler) Handle(ctx context.Context, env domain.RequestEnvelope) (*domain.ResponseEnvelope, error) {
	if err := validateRequest(env, h.skillID); err != nil {
		h.logger.Warn("request rejected", zap.Error(err))
		return nil, err
	}

	resp := h.skill.Invoke(ctx, &env)
	return resp.Envelope(env.SessionAttributes()), nil
}

// validateRequest checks the envelope is a request for this skill.
func validateRequest(env domain.RequestEnvelope, skillID string) error {
	if env.Request.Type == "" {
		return domain.ErrMissingRequestType
	}
	if skillID != "" && env.ApplicationID() != skillID {
		return fmt.Errorf("%w: got %q", domain.ErrSkillIDMismatch, env.ApplicationID())
	}
	return nil
}
