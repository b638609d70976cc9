package ime

import (
	"unicode"

	"emojikbd/internal/translate"
)

// Phase is the coarse state of a State.
type Phase int

const (
	// PhaseEmpty is the initial phase: both texts empty.
	PhaseEmpty Phase = iota
	// PhaseNonEmpty holds at least one display unit.
	PhaseNonEmpty
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseNonEmpty:
		return "non-empty"
	default:
		return "unknown"
	}
}

// State is an immutable display/source text pair. Transitions return a new
// State and leave the receiver untouched. The zero value is the empty pair.
type State struct {
	display string
	source  string
}

// Display returns the display text.
func (s State) Display() string { return s.display }

// Source returns the source text.
func (s State) Source() string { return s.source }

// Phase returns PhaseEmpty or PhaseNonEmpty.
func (s State) Phase() Phase {
	if s.display == "" {
		return PhaseEmpty
	}
	return PhaseNonEmpty
}

// Len returns the number of display units.
func (s State) Len() int {
	return translate.UnitCount(s.display)
}

// AppendLetter appends the glyph for letter to the display text and the
// letter to the source text. Letters are folded to lowercase first. A
// letter with no glyph leaves the state unchanged and reports false.
func (s State) AppendLetter(tr *translate.Translator, letter rune) (State, bool) {
	letter = unicode.ToLower(letter)
	g, ok := tr.Glyph(letter)
	if !ok {
		return s, false
	}
	return State{
		display: s.display + g,
		source:  s.source + string(letter),
	}, true
}

// AppendPassthrough appends c unchanged to both texts.
func (s State) AppendPassthrough(c rune) State {
	return State{
		display: s.display + string(c),
		source:  s.source + string(c),
	}
}

// SetDisplay replaces the display text verbatim and rebuilds the source
// text from it.
func (s State) SetDisplay(tr *translate.Translator, text string) State {
	return State{
		display: text,
		source:  tr.Source(text),
	}
}
