// Package i18n provides the translated strings shown on course pages.
package i18n

import (
	"fmt"
	"strconv"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/nl"
	ut "github.com/go-playground/universal-translator"
)

// Supported lists the language codes with a catalog.
var Supported = []string{"en", "nl"}

type Translator struct {
	lang  string
	trans ut.Translator
}

// New returns a translator for lang. Unknown languages fall back to English.
func New(lang string) (*Translator, error) {
	_en := en.New()
	uni := ut.New(_en, _en, nl.New())

	for _, code := range Supported {
		trans, _ := uni.GetTranslator(code)
		for key, text := range messages[code] {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("adding %s/%s: %w", code, key, err)
			}
		}
		for key, p := range plurals[code] {
			for _, r := range pluralRules {
				if err := trans.AddCardinal(key, r.pick(p), r.rule, false); err != nil {
					return nil, fmt.Errorf("adding plural %s/%s: %w", code, key, err)
				}
			}
		}
	}
	if err := uni.VerifyTranslations(); err != nil {
		return nil, fmt.Errorf("verifying translations: %w", err)
	}

	trans, found := uni.GetTranslator(lang)
	if !found {
		lang = "en"
	}
	return &Translator{lang: lang, trans: trans}, nil
}

// MustNew is New for the built-in catalog, which is known to verify.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Translator) Lang() string { return t.lang }

// T translates key, substituting {0}, {1}... with params. Missing keys are
// returned unchanged.
func (t *Translator) T(key string, params ...string) string {
	s, err := t.trans.T(key, params...)
	if err != nil {
		return key
	}
	return s
}

// Plural renders the counted form of key, e.g. "3 pages". Keys without a
// plural entry render as "<n> <key>".
func (t *Translator) Plural(key string, n int) string {
	count := strconv.Itoa(n)
	s, err := t.trans.C(key, float64(n), 0, count)
	if err != nil {
		return count + " " + key
	}
	return s
}

// Has reports whether key has a plural entry.
func (t *Translator) Has(key string) bool {
	_, err := t.trans.C(key, 1, 0, "1")
	return err == nil
}
