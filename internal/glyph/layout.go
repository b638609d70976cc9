package glyph

import "sort"

// Layout names.
const (
	LayoutAZERTY       = "azerty"
	LayoutQWERTY       = "qwerty"
	LayoutAlphabetical = "alphabetical"
)

// DefaultLayout is the on-screen keyboard arrangement used when none is
// configured.
const DefaultLayout = LayoutAZERTY

// Layout rows only order the on-screen keys. They never change a mapping.
var layouts = map[string][]string{
	LayoutAZERTY: {
		"azertyuiop",
		"qsdfghjklm",
		"wxcvbn",
	},
	LayoutQWERTY: {
		"qwertyuiop",
		"asdfghjkl",
		"zxcvbnm",
	},
	LayoutAlphabetical: {
		"abcdefghi",
		"jklmnopqr",
		"stuvwxyz",
	},
}

// Layout returns the keyboard rows for name.
func Layout(name string) ([][]rune, bool) {
	rows, ok := layouts[name]
	if !ok {
		return nil, false
	}
	out := make([][]rune, len(rows))
	for i, r := range rows {
		out[i] = []rune(r)
	}
	return out, true
}

// Layouts returns the available layout names, sorted.
func Layouts() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
