package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emojikbd/internal/glyph"
)

func TestUnitRoundTrip(t *testing.T) {
	tr := New(nil)
	for _, l := range tr.Table().Letters() {
		unit := tr.Unit(l)
		assert.NotEqual(t, string(l), unit, "letter %q not translated", l)
		assert.Equal(t, string(l), tr.Source(unit), "round trip of %q", l)
	}
}

func TestPassThrough(t *testing.T) {
	tr := Default
	for _, c := range []rune{' ', '1', '.', '!', 'A', 'é', '\t'} {
		assert.Equal(t, string(c), tr.Unit(c), "Unit(%q)", c)
		assert.Equal(t, string(c), tr.Source(string(c)), "Source(%q)", c)
	}
}

func TestSource(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    string
	}{
		{"empty", "", ""},
		{"two glyphs", "😀😂", "az"},
		{"glyphs with space", "😀 😂", "a z"},
		{"mixed literal", "hi 😀!", "hi a!"},
		{"presentation selector", "😀️😂", "az"},
		{"skin tone stays whole", "👍🏽😀", "👍🏽a"},
		{"zwj family stays whole", "👨‍👩‍👧😎", "👨‍👩‍👧t"},
		{"flag stays whole", "🇫🇷😴", "🇫🇷o"},
		{"keycap stays whole", "1️⃣🤖", "1️⃣n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Default.Source(tt.display))
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", ""},
		{"az", "😀😂"},
		{"AZ", "😀😂"},
		{"a z", "😀 😂"},
		{"hello, 42", "😌😍💕💕😴, 42"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, Default.Display(tt.source))
		})
	}
}

func TestDisplaySourceRoundTripLowercase(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	assert.Equal(t, text, Default.Source(Default.Display(text)))
}

func TestUnits(t *testing.T) {
	assert.Nil(t, Units(""))
	assert.Equal(t, []string{"😀", " ", "a"}, Units("😀 a"))
	assert.Equal(t, []string{"👨‍👩‍👧", "🇫🇷"}, Units("👨‍👩‍👧🇫🇷"))
	assert.Equal(t, 2, UnitCount("👨‍👩‍👧🇫🇷"))
}

func TestCustomTable(t *testing.T) {
	table, err := glyph.NewTable([]glyph.Entry{{Letter: 'x', Glyph: "❌"}})
	require.NoError(t, err)

	tr := New(table)
	assert.Equal(t, "❌", tr.Unit('x'))
	assert.Equal(t, "a", tr.Unit('a'))
	assert.Equal(t, "x😀", tr.Source("❌😀"))
}
