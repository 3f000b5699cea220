package color

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"english exact", "Black", "#000000"},
		{"azerbaijani exact", "Qəhvəyi", "#92400e"},
		{"russian exact", "Чёрный", "#000000"},
		{"russian ye variant", "черный", "#000000"},
		{"padded", "  beige ", "#f5f5dc"},
		{"first substring hit wins", "dark navy blue", "#3b82f6"},
		{"substring of key", "whit", "#ffffff"},
		{"unknown", "ultramarine", Fallback},
		{"empty", "", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hex(tt.in))
		})
	}
}

func TestResolve_DualTone(t *testing.T) {
	s := Resolve("Qara/Ağ")
	assert.True(t, s.Dual)
	assert.Equal(t, [2]string{"#000000", "#ffffff"}, s.Pair)
}

func TestResolve_SingleAndMalformedPair(t *testing.T) {
	assert.Equal(t, Swatch{Hex: "#3b82f6"}, Resolve("blue"))
	// A dangling separator is treated as a single name.
	assert.False(t, Resolve("blue/").Dual)
}

func TestSwatch_MarshalJSON(t *testing.T) {
	single, err := json.Marshal(Resolve("red"))
	require.NoError(t, err)
	assert.JSONEq(t, `"#ef4444"`, string(single))

	pair, err := json.Marshal(Resolve("red/blue"))
	require.NoError(t, err)
	assert.JSONEq(t, `["#ef4444","#3b82f6"]`, string(pair))
}
