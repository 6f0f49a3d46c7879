package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-webdialog/pkg/dialog"
)

// Translator resolves message ids per locale. Message ids are the English
// source strings, gettext style.
type Translator = dialog.Translator

// ErrMissingTranslator is reported to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// MissingTranslationHandler decides what to emit when key has no translation.
// err is the translator error, or ErrMissingTranslator.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// missingTranslationDefault returns the message id, which is also the English
// source text.
func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

// Translate resolves key through t, falling back to onMissing (or the key
// itself) when the translator is absent, fails, or returns an empty message.
func Translate(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	msg, err := t.Translate(locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(locale, key, args, err)
	}
	return msg
}
