package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestBundle() *Bundle {
	b := NewBundle(LocaleEn)
	for locale, msgs := range DefaultMessages() {
		b.LoadMessages(locale, msgs)
	}
	return b
}

func TestT_KnownLocale(t *testing.T) {
	b := newTestBundle()

	en := b.T(LocaleEn, "message.addComment.success.title")
	de := b.T(LocaleDe, "message.addComment.success.title")

	assert.NotEmpty(t, en)
	assert.NotEmpty(t, de)
	assert.NotEqual(t, en, de)
}

func TestT_FallsBackToDefaultLocale(t *testing.T) {
	b := NewBundle(LocaleEn)
	b.LoadMessages(LocaleEn, map[string]string{"greeting": "hello"})
	b.LoadMessages(LocaleDe, map[string]string{})

	assert.Equal(t, "hello", b.T(LocaleDe, "greeting"))
}

func TestT_UnknownKeyReturnsKey(t *testing.T) {
	b := newTestBundle()

	assert.Equal(t, "no.such.key", b.T(LocaleEn, "no.such.key"))
}

func TestParseAcceptLanguage(t *testing.T) {
	assert.Equal(t, LocaleDe, ParseAcceptLanguage("de-DE,de;q=0.9,en;q=0.8"))
	assert.Equal(t, LocaleFr, ParseAcceptLanguage("fr"))
	assert.Equal(t, LocaleEn, ParseAcceptLanguage(""))
	assert.Equal(t, LocaleEn, ParseAcceptLanguage("ko-KR"))
}

func TestDefaultMessages_AllLocalesCoverCommentKeys(t *testing.T) {
	keys := []string{
		"message.addComment.error.title",
		"message.addComment.error.text",
		"message.addComment.moderation.title",
		"message.addComment.moderation.text",
		"message.addComment.success.title",
		"message.addComment.success.text",
	}
	for locale, msgs := range DefaultMessages() {
		for _, key := range keys {
			assert.Contains(t, msgs, key, "locale %s missing %s", locale)
		}
	}
}
