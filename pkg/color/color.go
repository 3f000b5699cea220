// Package color maps free-text color names from product attributes to hex
// swatches.
package color

import (
	"encoding/json"
	"strings"
)

// Fallback is shown when a name matches nothing.
const Fallback = "#e5e7eb"

type entry struct {
	name string
	hex  string
}

// palette is searched in declaration order, so the substring pass is
// deterministic. English, Azerbaijani, Russian.
var palette = []entry{
	{"red", "#ef4444"},
	{"blue", "#3b82f6"},
	{"green", "#22c55e"},
	{"yellow", "#eab308"},
	{"orange", "#f97316"},
	{"purple", "#a855f7"},
	{"pink", "#ec4899"},
	{"black", "#000000"},
	{"white", "#ffffff"},
	{"gray", "#6b7280"},
	{"grey", "#6b7280"},
	{"brown", "#92400e"},
	{"navy", "#1e3a8a"},
	{"teal", "#14b8a6"},
	{"cyan", "#06b6d4"},
	{"indigo", "#6366f1"},
	{"violet", "#8b5cf6"},
	{"lime", "#84cc16"},
	{"emerald", "#10b981"},
	{"rose", "#f43f5e"},
	{"slate", "#64748b"},
	{"neutral", "#737373"},
	{"zinc", "#71717a"},
	{"beige", "#f5f5dc"},
	{"gold", "#ffd700"},
	{"silver", "#c0c0c0"},

	{"qırmızı", "#ef4444"},
	{"mavi", "#3b82f6"},
	{"göy", "#1e40af"},
	{"yaşıl", "#22c55e"},
	{"sarı", "#eab308"},
	{"narıncı", "#f97316"},
	{"bənövşəyi", "#a855f7"},
	{"çəhrayı", "#ec4899"},
	{"qara", "#000000"},
	{"ağ", "#ffffff"},
	{"boz", "#6b7280"},
	{"qəhvəyi", "#92400e"},
	{"gümüşü", "#c0c0c0"},
	{"qızılı", "#ffd700"},
	{"bej", "#f5f5dc"},

	{"красный", "#ef4444"},
	{"синий", "#3b82f6"},
	{"голубой", "#38bdf8"},
	{"зеленый", "#22c55e"},
	{"зелёный", "#22c55e"},
	{"желтый", "#eab308"},
	{"жёлтый", "#eab308"},
	{"оранжевый", "#f97316"},
	{"фиолетовый", "#a855f7"},
	{"розовый", "#ec4899"},
	{"черный", "#000000"},
	{"чёрный", "#000000"},
	{"белый", "#ffffff"},
	{"серый", "#6b7280"},
	{"коричневый", "#92400e"},
	{"серебряный", "#c0c0c0"},
	{"золотой", "#ffd700"},
	{"бежевый", "#f5f5dc"},
}

var exact = func() map[string]string {
	m := make(map[string]string, len(palette))
	for _, e := range palette {
		m[e.name] = e.hex
	}
	return m
}()

// Swatch is a single color or, for "A/B" names, a two-tone pair.
type Swatch struct {
	Hex  string
	Pair [2]string
	Dual bool
}

// MarshalJSON renders a single swatch as "#rrggbb" and a pair as ["#..", "#.."].
func (s Swatch) MarshalJSON() ([]byte, error) {
	if s.Dual {
		return json.Marshal(s.Pair[:])
	}
	return json.Marshal(s.Hex)
}

// Resolve never fails; unknown names get Fallback.
func Resolve(name string) Swatch {
	if parts := strings.Split(name, "/"); len(parts) == 2 {
		a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if a != "" && b != "" {
			return Swatch{Pair: [2]string{Hex(a), Hex(b)}, Dual: true}
		}
	}
	return Swatch{Hex: Hex(name)}
}

// Hex resolves one color name: exact match, then substring in either
// direction (first palette entry wins), then Fallback. Short inputs such as
// "ro" can hit unrelated entries through the substring pass.
func Hex(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Fallback
	}
	if hex, ok := exact[n]; ok {
		return hex
	}
	for _, e := range palette {
		if strings.Contains(n, e.name) || strings.Contains(e.name, n) {
			return e.hex
		}
	}
	return Fallback
}
