// Package glyph holds the letter to emoji glyph table and the on-screen
// keyboard layouts built over it.
//
// The table is injective: every glyph belongs to exactly one letter. Text
// that arrives as emoji (paste, direct edits) is turned back into letters by
// reverse lookup, so a glyph shared by two letters would silently corrupt
// the reconstructed text for one of them. NewTable refuses such tables.
package glyph

import (
	"errors"
	"fmt"
	"sort"
	"unicode"
)

// Table construction errors.
var (
	// ErrDuplicateGlyph indicates two letters map to the same glyph.
	ErrDuplicateGlyph = errors.New("glyph: glyph assigned to more than one letter")

	// ErrDuplicateLetter indicates a letter appears more than once.
	ErrDuplicateLetter = errors.New("glyph: letter assigned more than once")

	// ErrInvalidLetter indicates a key that is not a single lowercase letter.
	ErrInvalidLetter = errors.New("glyph: letter must be lowercase")

	// ErrEmptyGlyph indicates an entry with no glyph.
	ErrEmptyGlyph = errors.New("glyph: empty glyph")
)

// Entry pairs a letter with its glyph.
type Entry struct {
	Letter rune
	Glyph  string
}

// Table is an immutable, injective mapping between letters and glyphs.
type Table struct {
	forward map[rune]string
	reverse map[string]rune
	letters []rune
}

// NewTable builds a table from entries. The reverse index is built here,
// once, so lookups in either direction are constant time.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		forward: make(map[rune]string, len(entries)),
		reverse: make(map[string]rune, len(entries)),
		letters: make([]rune, 0, len(entries)),
	}

	for _, e := range entries {
		if !unicode.IsLower(e.Letter) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLetter, e.Letter)
		}
		if e.Glyph == "" {
			return nil, fmt.Errorf("%w: letter %q", ErrEmptyGlyph, e.Letter)
		}
		if _, dup := t.forward[e.Letter]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLetter, e.Letter)
		}
		if prev, dup := t.reverse[e.Glyph]; dup {
			return nil, fmt.Errorf("%w: %s used by %q and %q", ErrDuplicateGlyph, e.Glyph, prev, e.Letter)
		}
		t.forward[e.Letter] = e.Glyph
		t.reverse[e.Glyph] = e.Letter
		t.letters = append(t.letters, e.Letter)
	}

	sort.Slice(t.letters, func(i, j int) bool { return t.letters[i] < t.letters[j] })
	return t, nil
}

// MustTable is like NewTable but panics on error. Intended for package-level
// tables whose contents are fixed at compile time.
func MustTable(entries []Entry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Glyph returns the glyph for letter.
func (t *Table) Glyph(letter rune) (string, bool) {
	g, ok := t.forward[letter]
	return g, ok
}

// Letter returns the letter whose glyph is g.
func (t *Table) Letter(g string) (rune, bool) {
	l, ok := t.reverse[g]
	return l, ok
}

// Has reports whether letter has a glyph.
func (t *Table) Has(letter rune) bool {
	_, ok := t.forward[letter]
	return ok
}

// Letters returns the table's letters in ascending order.
func (t *Table) Letters() []rune {
	out := make([]rune, len(t.letters))
	copy(out, t.letters)
	return out
}

// Entries returns the table contents ordered by letter.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.letters))
	for _, l := range t.letters {
		out = append(out, Entry{Letter: l, Glyph: t.forward[l]})
	}
	return out
}

// Len returns the number of letters in the table.
func (t *Table) Len() int {
	return len(t.letters)
}

// Default is the emoji keyboard table.
var Default = MustTable([]Entry{
	{'a', "😀"},
	{'z', "😂"},
	{'e', "😍"},
	{'r', "🤔"},
	{'t', "😎"},
	{'y', "🤯"},
	{'u', "😱"},
	{'i', "🤩"},
	{'o', "😴"},
	{'p', "🥳"},
	{'q', "😇"},
	{'s', "🤪"},
	{'d', "😏"},
	{'f', "😳"},
	{'g', "🤭"},
	{'h', "😌"},
	{'j', "🤬"},
	{'k', "🥺"},
	{'l', "💕"},
	{'m', "🌟"},
	{'w', "🤓"},
	{'x', "😈"},
	{'c', "🤡"},
	{'v', "💩"},
	{'b', "👻"},
	{'n', "🤖"},
})
