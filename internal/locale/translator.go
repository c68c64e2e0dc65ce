package locale

import (
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/pricofy/unit-converter-skill/internal/domain"
)

// Placeholder marks a positional argument in a message template.
const Placeholder = "%s"

// Translator renders messages for one language.
type Translator struct {
	localizer *i18n.Localizer
	language  string
}

// Language returns the language the translator renders.
func (t *Translator) Language() string {
	return t.language
}

// T renders the message identified by key, substituting args into its
// placeholders in order.
func (t *Translator) T(key string, args ...any) (string, error) {
	template, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		return "", fmt.Errorf("%w: %s (%s): %v", domain.ErrUnknownMessage, key, t.language, err)
	}

	msg, err := Fill(template, args...)
	if err != nil {
		return "", fmt.Errorf("message %s (%s): %w", key, t.language, err)
	}
	return msg, nil
}

// Fill substitutes args into the placeholders of template in order.
// The number of args must equal the number of placeholders.
func Fill(template string, args ...any) (string, error) {
	parts := strings.Split(template, Placeholder)
	if want := len(parts) - 1; want != len(args) {
		return "", fmt.Errorf("%w: want %d, got %d", domain.ErrArgumentMismatch, want, len(args))
	}

	var sb strings.Builder
	sb.WriteString(parts[0])
	for i, arg := range args {
		sb.WriteString(fmt.Sprint(arg))
		sb.WriteString(parts[i+1])
	}
	return sb.String(), nil
}
