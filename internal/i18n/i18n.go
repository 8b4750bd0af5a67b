// Package i18n provides phrase lookup with a per-language catalog loaded
// from YAML and an in-code fallback dictionary.
package i18n

import (
	"fmt"
	"os"

	"github.com/mkruglov/bookbot/core/logger"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Language holds the phrase catalog for a single language code.
type Language struct {
	Code    string            `yaml:"code"`
	Phrases map[string]string `yaml:"phrases"`
}

type catalog struct {
	Langs []Language `yaml:"langs"`
}

// Translator resolves phrase keys to formatted strings. Lookup order:
// loaded language, registered fallback, then the key itself.
type Translator struct {
	code     string
	phrases  map[string]string
	fallback map[string]string
}

// Load reads a YAML catalog and selects the language with the given code.
func Load(code, path string) (*Translator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read catalog: %w", err)
	}

	var cat catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("i18n: parse catalog: %w", err)
	}

	for _, lang := range cat.Langs {
		if lang.Code == code {
			logger.I18N.Info("i18n.load",
				slog.String("event", "loaded"),
				slog.String("lang", code),
				slog.Int("phrases", len(lang.Phrases)),
			)
			return &Translator{
				code:     code,
				phrases:  lang.Phrases,
				fallback: make(map[string]string),
			}, nil
		}
	}
	return nil, fmt.Errorf("i18n: language %q not found in %s", code, path)
}

// New builds a translator over an in-memory phrase map. Used in tests and
// as a last-resort catalog when no file is available.
func New(code string, phrases map[string]string) *Translator {
	if phrases == nil {
		phrases = make(map[string]string)
	}
	return &Translator{
		code:     code,
		phrases:  phrases,
		fallback: make(map[string]string),
	}
}

// Code returns the selected language code.
func (t *Translator) Code() string { return t.code }

// RegisterFallback merges phrases into the fallback dictionary. Existing
// keys are overwritten.
func (t *Translator) RegisterFallback(phrases map[string]string) {
	for k, v := range phrases {
		t.fallback[k] = v
	}
}

// T resolves key and formats it with args. A key missing from both the
// language and the fallback dictionary is returned verbatim.
func (t *Translator) T(key string, args ...any) string {
	phrase, ok := t.phrases[key]
	if !ok || phrase == "" {
		logger.I18N.Warn("i18n.lookup",
			slog.String("event", "miss"),
			slog.String("phrase_key", key),
			slog.String("lang", t.code),
		)
		phrase, ok = t.fallback[key]
		if !ok || phrase == "" {
			logger.I18N.Error("i18n.lookup",
				slog.String("event", "fallback_miss"),
				slog.String("phrase_key", key),
			)
			return key
		}
	}
	if len(args) == 0 {
		return phrase
	}
	return fmt.Sprintf(phrase, args...)
}
