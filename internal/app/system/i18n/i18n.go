// Package i18n turns reason keys (e.g. "room.not_admin") into human text.
//
// The key is the stable, machine-readable part of every error response;
// the text is a courtesy for clients and depends on the caller's language,
// taken from the "lang" cookie first and Accept-Language second.
package i18n

import (
	"fmt"
	"net/http"

	"golang.org/x/text/language"
)

// CookieName is the cookie that pins a caller's language.
const CookieName = "lang"

// Catalog holds translations for the supported languages.
type Catalog struct {
	tags     []language.Tag
	matcher  language.Matcher
	messages map[language.Tag]map[string]string
}

// New builds a catalog with the built-in translations. defaultLang is
// preferred when nothing in the request matches; unknown values fall back
// to English.
func New(defaultLang string) *Catalog {
	def := language.English
	if t, err := language.Parse(defaultLang); err == nil {
		if _, ok := builtin[base(t)]; ok {
			def = base(t)
		}
	}

	// The matcher treats the first tag as the fallback.
	tags := []language.Tag{def}
	for t := range builtin {
		if t != def {
			tags = append(tags, t)
		}
	}

	return &Catalog{
		tags:     tags,
		matcher:  language.NewMatcher(tags),
		messages: builtin,
	}
}

// Supported returns the catalog language for lang, if there is one.
func (c *Catalog) Supported(lang string) (language.Tag, bool) {
	t, err := language.Parse(lang)
	if err != nil {
		return language.Und, false
	}
	if _, ok := c.messages[base(t)]; !ok {
		return language.Und, false
	}
	return base(t), true
}

// Resolve picks the language for a request.
func (c *Catalog) Resolve(r *http.Request) language.Tag {
	if ck, err := r.Cookie(CookieName); err == nil {
		if t, ok := c.Supported(ck.Value); ok {
			return t
		}
	}
	prefs, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(prefs) == 0 {
		return c.tags[0]
	}
	_, idx, _ := c.matcher.Match(prefs...)
	return c.tags[idx]
}

// Text returns the translation of key in lang, falling back to English and
// finally to the key itself. args are applied with fmt.Sprintf.
func (c *Catalog) Text(lang language.Tag, key string, args ...any) string {
	msg, ok := c.messages[base(lang)][key]
	if !ok {
		msg, ok = c.messages[language.English][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// T is shorthand for Text in the request's language.
func (c *Catalog) T(r *http.Request, key string, args ...any) string {
	return c.Text(c.Resolve(r), key, args...)
}

func base(t language.Tag) language.Tag {
	b, _ := t.Base()
	tag, err := language.Compose(b)
	if err != nil {
		return t
	}
	return tag
}
