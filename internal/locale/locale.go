// Package locale holds the closed set of storefront languages and the lookup
// helpers every localized surface goes through.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the storefront languages.
type Locale string

const (
	AZ Locale = "az"
	RU Locale = "ru"
	EN Locale = "en"
)

// Base is the catalog's authoring language. Localized records always carry it.
const Base = AZ

// Supported lists the storefront languages in routing order.
var Supported = []Locale{AZ, RU, EN}

// Parse normalizes a locale code or BCP 47 tag ("ru-RU", "AZ", "en_US") to a
// supported Locale. ok is false when the code names no supported language;
// related languages such as "be" or "uk" are not folded into ru.
func Parse(code string) (Locale, bool) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	for _, l := range Supported {
		if base.String() == string(l) {
			return l, true
		}
	}
	return "", false
}

// Tag returns the x/text language tag for l.
func (l Locale) Tag() language.Tag {
	switch l {
	case AZ:
		return language.Azerbaijani
	case RU:
		return language.Russian
	default:
		return language.English
	}
}

func (l Locale) String() string {
	return string(l)
}

// Table maps supported locales to values with an explicit default used for
// any code that is missing from the table or not supported at all.
type Table[T any] struct {
	entries  map[Locale]T
	fallback T
}

// NewTable builds a table. Adding a language is adding an entry.
func NewTable[T any](fallback T, entries map[Locale]T) Table[T] {
	return Table[T]{entries: entries, fallback: fallback}
}

// Lookup never fails: unknown codes resolve to the default entry.
func (t Table[T]) Lookup(code string) T {
	if l, ok := Parse(code); ok {
		if v, found := t.entries[l]; found {
			return v
		}
	}
	return t.fallback
}

// Text is a value authored once per language, as stored on catalog rows.
type Text struct {
	AZ string `json:"az"`
	RU string `json:"ru"`
	EN string `json:"en"`
}

func (t Text) get(l Locale) string {
	switch l {
	case AZ:
		return t.AZ
	case RU:
		return t.RU
	case EN:
		return t.EN
	}
	return ""
}

// Chain is the ordered list of languages tried when resolving a Text for code.
func Chain(code string) []Locale {
	l, ok := Parse(code)
	if !ok || l == Base {
		return []Locale{Base}
	}
	return []Locale{l, Base}
}

// Resolve returns the first non-empty value along Chain(code).
func (t Text) Resolve(code string) string {
	for _, l := range Chain(code) {
		if v := strings.TrimSpace(t.get(l)); v != "" {
			return v
		}
	}
	return ""
}
