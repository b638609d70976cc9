// Package translate converts between source text (letters) and display
// text (emoji glyphs) using a glyph table.
//
// Display text is handled in display units, i.e. grapheme clusters, never
// bytes or code points. A glyph such as a ZWJ family or a flag spans several
// code points and must be looked up, or passed through, as one piece.
package translate

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"go.mau.fi/util/variationselector"

	"emojikbd/internal/glyph"
)

// Translator converts text using a glyph table. It holds no mutable state
// and is safe for concurrent use.
type Translator struct {
	table *glyph.Table
}

// New returns a Translator over table. A nil table selects glyph.Default.
func New(table *glyph.Table) *Translator {
	if table == nil {
		table = glyph.Default
	}
	return &Translator{table: table}
}

// Default translates with glyph.Default.
var Default = New(glyph.Default)

// Table returns the underlying glyph table.
func (t *Translator) Table() *glyph.Table {
	return t.table
}

// Glyph returns the glyph for letter, if any.
func (t *Translator) Glyph(letter rune) (string, bool) {
	return t.table.Glyph(letter)
}

// Unit returns the display unit for a single character: its glyph when the
// table has one, the character itself otherwise.
func (t *Translator) Unit(letter rune) string {
	if g, ok := t.table.Glyph(letter); ok {
		return g
	}
	return string(letter)
}

// Letter returns the letter for one display unit. The emoji presentation
// selector (U+FE0F) is ignored, so "😀" and "😀️" both map to 'a'.
func (t *Translator) Letter(unit string) (rune, bool) {
	if l, ok := t.table.Letter(unit); ok {
		return l, true
	}
	if bare := variationselector.Remove(unit); bare != unit {
		return t.table.Letter(bare)
	}
	return 0, false
}

// Source reconstructs source text from display text. Each display unit is
// replaced by its letter; units with no letter are copied verbatim.
func (t *Translator) Source(display string) string {
	if display == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(display))

	g := uniseg.NewGraphemes(display)
	for g.Next() {
		unit := g.Str()
		if l, ok := t.Letter(unit); ok {
			sb.WriteRune(l)
			continue
		}
		sb.WriteString(unit)
	}
	return sb.String()
}

// Display renders source text as display text. Uppercase letters are folded
// before lookup; characters with no glyph are copied verbatim.
func (t *Translator) Display(source string) string {
	if source == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(source) * 4)
	for _, r := range source {
		if g, ok := t.table.Glyph(unicode.ToLower(r)); ok {
			sb.WriteString(g)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Units splits text into display units.
func Units(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// UnitCount returns the number of display units in text.
func UnitCount(text string) int {
	return uniseg.GraphemeClusterCount(text)
}
