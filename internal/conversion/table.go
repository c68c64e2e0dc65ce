// Package conversion provides the per-language unit conversion rates.
package conversion

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/pricofy/unit-converter-skill/internal/domain"
)

//go:embed rates.toml
var defaultRates []byte

// Table maps (language, source unit, target unit) to a rate such that
// target = source * rate. A rate for A→B says nothing about B→A.
type Table struct {
	rates map[string]map[string]map[string]float64
}

// Default returns the embedded rate table.
func Default() (*Table, error) {
	return Parse(defaultRates)
}

// Parse decodes a TOML rate table. Unit names are normalized and every rate
// must be positive and finite.
func Parse(data []byte) (*Table, error) {
	var raw map[string]map[string]map[string]float64
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rate table: %w", err)
	}

	rates := make(map[string]map[string]map[string]float64, len(raw))
	for lang, sources := range raw {
		lang = strings.ToLower(lang)
		if rates[lang] == nil {
			rates[lang] = map[string]map[string]float64{}
		}
		for source, targets := range sources {
			source = NormalizeUnit(source)
			if rates[lang][source] == nil {
				rates[lang][source] = map[string]float64{}
			}
			for target, rate := range targets {
				if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
					return nil, fmt.Errorf("invalid rate %s.%s.%s = %v", lang, source, target, rate)
				}
				rates[lang][source][NormalizeUnit(target)] = rate
			}
		}
	}

	return &Table{rates: rates}, nil
}

// Rate returns the rate from source to target in lang.
func (t *Table) Rate(lang, source, target string) (float64, bool) {
	rate, ok := t.rates[lang][NormalizeUnit(source)][NormalizeUnit(target)]
	return rate, ok
}

// Convert converts amount from source to target units, rounded to two
// decimal places.
func (t *Table) Convert(lang, source, target string, amount float64) (float64, error) {
	rate, ok := t.Rate(lang, source, target)
	if !ok {
		return 0, fmt.Errorf("%w: %s %s→%s", domain.ErrUnknownConversion, lang, source, target)
	}
	return Round(amount * rate), nil
}

// Languages returns the languages that have rates, sorted.
func (t *Table) Languages() []string {
	langs := make([]string, 0, len(t.rates))
	for lang := range t.rates {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Units returns every unit known in lang as a source or a target, sorted.
func (t *Table) Units(lang string) []string {
	seen := map[string]bool{}
	for source, targets := range t.rates[lang] {
		seen[source] = true
		for target := range targets {
			seen[target] = true
		}
	}
	units := make([]string, 0, len(seen))
	for unit := range seen {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

// NormalizeUnit trims, lower-cases and NFC-normalizes a spoken unit name so
// that "Centímetros" with a decomposed accent matches the table.
func NormalizeUnit(unit string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(unit)))
}

// ParseAmount parses a spoken amount. NaN and infinities are rejected.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	return v, nil
}

// Round rounds v to two decimal places, half away from zero.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders v rounded to exactly two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(Round(v), 'f', 2, 64)
}
