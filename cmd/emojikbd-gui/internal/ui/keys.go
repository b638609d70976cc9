package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gioui.org/io/event"
	"gioui.org/io/key"

	"emojikbd/internal/glyph"
	"emojikbd/internal/ime"
)

// mappedRows keeps the letters of rows that table has a glyph for and
// drops rows left empty.
func mappedRows(table *glyph.Table, rows [][]rune) [][]rune {
	out := make([][]rune, 0, len(rows))
	for _, row := range rows {
		var kept []rune
		for _, l := range row {
			if table.Has(l) {
				kept = append(kept, l)
			}
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// keyFilters returns the filters for the keys the engine may capture on
// tag: A to Z and space, with or without Shift. Keys held with other
// modifiers do not match and stay with the editor.
func keyFilters(tag event.Tag, letters []rune) []event.Filter {
	filters := make([]event.Filter, 0, len(letters)+1)
	for _, l := range letters {
		filters = append(filters, key.Filter{
			Focus:    tag,
			Name:     key.Name(strings.ToUpper(string(l))),
			Optional: key.ModShift,
		})
	}
	filters = append(filters, key.Filter{
		Focus:    tag,
		Name:     key.NameSpace,
		Optional: key.ModShift,
	})
	return filters
}

// keyFromEvent converts a Gio key event to an engine key. Letters carry
// their case from Shift; key names that are not letters or space map to
// a zero Char.
func keyFromEvent(e key.Event) ime.Key {
	var char rune
	switch name := string(e.Name); {
	case e.Name == key.NameSpace:
		char = ' '
	case len([]rune(name)) == 1 && unicode.IsLetter([]rune(name)[0]):
		char = unicode.ToLower([]rune(name)[0])
		if e.Modifiers.Contain(key.ModShift) {
			char = unicode.ToUpper(char)
		}
	}
	return ime.NewKeyWithModifiers(char, modifiersFromGio(e.Modifiers))
}

func modifiersFromGio(m key.Modifiers) ime.Modifiers {
	var mods ime.Modifiers
	if m.Contain(key.ModShift) {
		mods |= ime.ModShift
	}
	if m.Contain(key.ModCtrl) {
		mods |= ime.ModControl
	}
	if m.Contain(key.ModAlt) {
		mods |= ime.ModAlt
	}
	if m.Contain(key.ModSuper) || m.Contain(key.ModCommand) {
		mods |= ime.ModMeta
	}
	return mods
}

// echo tracks keys the engine captured that some platforms also deliver
// to the editor as text input. Such insertions are dropped.
type echo struct {
	pending string
	age     int
}

func (e *echo) add(s string) {
	e.pending += s
	e.age = 0
}

// tick ages the pending text once per frame; it expires after one frame
// without captures.
func (e *echo) tick() {
	e.age++
	if e.age > 1 {
		e.pending = ""
	}
}

// consume reports whether text is base followed by the start of the
// pending keys, and drops those keys if so. Letter case is ignored: with
// Caps Lock on the platform inserts "A" for a key recorded as 'a'.
func (e *echo) consume(text, base string) bool {
	if e.pending == "" {
		return false
	}
	rest, ok := strings.CutPrefix(text, base)
	if !ok || rest == "" {
		return false
	}
	n, ok := foldPrefix(e.pending, rest)
	if !ok {
		return false
	}
	e.pending = e.pending[n:]
	return true
}

// foldPrefix reports whether prefix matches the start of s under simple
// case folding and returns the byte length of the matched part of s.
func foldPrefix(s, prefix string) (int, bool) {
	n := 0
	for _, p := range prefix {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || unicode.ToLower(r) != unicode.ToLower(p) {
			return 0, false
		}
		n += size
	}
	return n, true
}

func (e *echo) reset() {
	e.pending = ""
	e.age = 0
}
