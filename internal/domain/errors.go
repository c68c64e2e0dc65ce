package domain

import "errors"

// Skill errors.
var (
	ErrUnmatchedRequest   = errors.New("no handler matched the request")
	ErrHandlerPanic       = errors.New("handler panicked")
	ErrUnknownMessage     = errors.New("unknown message")
	ErrArgumentMismatch   = errors.New("template argument count mismatch")
	ErrUnknownConversion  = errors.New("unknown conversion")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingRequestType = errors.New("request.type is required")
	ErrSkillIDMismatch    = errors.New("application ID does not match the configured skill")
)
