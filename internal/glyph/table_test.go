package glyph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableCoversAlphabet(t *testing.T) {
	require.Equal(t, 26, Default.Len())

	for l := 'a'; l <= 'z'; l++ {
		g, ok := Default.Glyph(l)
		assert.True(t, ok, "letter %q has no glyph", l)
		assert.NotEmpty(t, g)
	}
}

func TestDefaultTableKnownGlyphs(t *testing.T) {
	tests := []struct {
		letter rune
		glyph  string
	}{
		{'a', "😀"},
		{'z', "😂"},
		{'l', "💕"},
		{'m', "🌟"},
		{'w', "🤓"},
		{'n', "🤖"},
	}

	for _, tt := range tests {
		t.Run(string(tt.letter), func(t *testing.T) {
			g, ok := Default.Glyph(tt.letter)
			require.True(t, ok)
			assert.Equal(t, tt.glyph, g)

			l, ok := Default.Letter(tt.glyph)
			require.True(t, ok)
			assert.Equal(t, tt.letter, l)
		})
	}
}

func TestDefaultTableIsInjective(t *testing.T) {
	seen := make(map[string]rune)
	for _, e := range Default.Entries() {
		if prev, dup := seen[e.Glyph]; dup {
			t.Fatalf("glyph %s shared by %q and %q", e.Glyph, prev, e.Letter)
		}
		seen[e.Glyph] = e.Letter
	}
}

func TestTableAbsentLookups(t *testing.T) {
	for _, r := range []rune{'A', '1', ' ', '.', 'é'} {
		_, ok := Default.Glyph(r)
		assert.False(t, ok, "unexpected glyph for %q", r)
		assert.False(t, Default.Has(r))
	}

	_, ok := Default.Letter("x")
	assert.False(t, ok)
	_, ok = Default.Letter("👍")
	assert.False(t, ok)
}

func TestNewTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    error
	}{
		{"duplicate glyph", []Entry{{'a', "😀"}, {'b', "😀"}}, ErrDuplicateGlyph},
		{"duplicate letter", []Entry{{'a', "😀"}, {'a', "😂"}}, ErrDuplicateLetter},
		{"uppercase letter", []Entry{{'A', "😀"}}, ErrInvalidLetter},
		{"digit", []Entry{{'1', "😀"}}, ErrInvalidLetter},
		{"empty glyph", []Entry{{'a', ""}}, ErrEmptyGlyph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.entries)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestMustTablePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustTable([]Entry{{'a', "😀"}, {'b', "😀"}})
	})
}

func TestLettersSortedAndCopied(t *testing.T) {
	letters := Default.Letters()
	for i := 1; i < len(letters); i++ {
		assert.Less(t, letters[i-1], letters[i])
	}

	letters[0] = 'Z'
	assert.Equal(t, 'a', Default.Letters()[0])
}

func TestLayoutsContainEachLetterOnce(t *testing.T) {
	for _, name := range Layouts() {
		t.Run(name, func(t *testing.T) {
			rows, ok := Layout(name)
			require.True(t, ok)

			counts := make(map[rune]int)
			for _, row := range rows {
				for _, l := range row {
					counts[l]++
				}
			}
			for _, l := range Default.Letters() {
				assert.Equal(t, 1, counts[l], "letter %q", l)
			}
			assert.Len(t, counts, Default.Len())
		})
	}
}

func TestLayoutAZERTYRows(t *testing.T) {
	rows, ok := Layout(DefaultLayout)
	require.True(t, ok)
	require.Len(t, rows, 3)
	assert.Equal(t, "azertyuiop", string(rows[0]))
	assert.Equal(t, "qsdfghjklm", string(rows[1]))
	assert.Equal(t, "wxcvbn", string(rows[2]))
}

func TestLayoutUnknown(t *testing.T) {
	_, ok := Layout("dvorak")
	assert.False(t, ok)
}
