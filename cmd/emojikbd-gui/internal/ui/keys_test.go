package ui

import (
	"testing"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"github.com/stretchr/testify/assert"

	"emojikbd/internal/glyph"
	"emojikbd/internal/ime"
)

func TestKeyFromEvent(t *testing.T) {
	tests := []struct {
		name  string
		event key.Event
		want  ime.Key
	}{
		{"letter", key.Event{Name: "A"}, ime.NewKey('a')},
		{"shifted letter", key.Event{Name: "Z", Modifiers: key.ModShift}, ime.NewKeyWithModifiers('Z', ime.ModShift)},
		{"space", key.Event{Name: key.NameSpace}, ime.NewKey(' ')},
		{"ctrl letter", key.Event{Name: "C", Modifiers: key.ModCtrl}, ime.NewKeyWithModifiers('c', ime.ModControl)},
		{"super letter", key.Event{Name: "V", Modifiers: key.ModSuper}, ime.NewKeyWithModifiers('v', ime.ModMeta)},
		{"alt shift", key.Event{Name: "X", Modifiers: key.ModAlt | key.ModShift}, ime.NewKeyWithModifiers('X', ime.ModAlt|ime.ModShift)},
		{"digit", key.Event{Name: "1"}, ime.NewKey(0)},
		{"named key", key.Event{Name: key.NameDeleteBackward}, ime.NewKey(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyFromEvent(tt.event))
		})
	}
}

func TestKeyFromEventDrivesEngine(t *testing.T) {
	engine := ime.NewEngine(nil)
	engine.Focus()

	commit, handled := engine.OnKeyDown(keyFromEvent(key.Event{Name: "Q", Modifiers: key.ModShift}))
	assert.True(t, handled)
	assert.Equal(t, "😇", commit)

	_, handled = engine.OnKeyDown(keyFromEvent(key.Event{Name: "A", Modifiers: key.ModCtrl}))
	assert.False(t, handled)

	assert.Equal(t, "q", engine.State().Source())
}

func TestKeyFilters(t *testing.T) {
	var tag int
	filters := keyFilters(&tag, []rune{'a', 'b'})
	assert.Equal(t, []event.Filter{
		key.Filter{Focus: &tag, Name: "A", Optional: key.ModShift},
		key.Filter{Focus: &tag, Name: "B", Optional: key.ModShift},
		key.Filter{Focus: &tag, Name: key.NameSpace, Optional: key.ModShift},
	}, filters)
}

func TestEchoConsume(t *testing.T) {
	var e echo
	assert.False(t, e.consume("a", ""))

	e.add("a")
	e.add("b")
	assert.False(t, e.consume("😀x", "😀"))
	assert.True(t, e.consume("😀a", "😀"))
	assert.False(t, e.consume("😀a", "😀"))
	assert.True(t, e.consume("😀b", "😀"))
	assert.Equal(t, "", e.pending)
}

func TestEchoConsumesBatch(t *testing.T) {
	var e echo
	e.add("a")
	e.add(" ")
	assert.True(t, e.consume("a ", ""))
}

func TestEchoConsumeIgnoresCase(t *testing.T) {
	// Caps Lock: the key is recorded as 'a', the editor receives "A".
	k := keyFromEvent(key.Event{Name: "A"})
	assert.Equal(t, 'a', k.Char)

	var e echo
	e.add(string(k.Char))
	e.add("Z")
	assert.True(t, e.consume("😀A", "😀"))
	assert.True(t, e.consume("😀z", "😀"))
	assert.Equal(t, "", e.pending)

	e.add("a")
	assert.False(t, e.consume("😀B", "😀"))
	assert.False(t, e.consume("😀ab", "😀"))
	assert.Equal(t, "a", e.pending)
}

func TestEchoExpires(t *testing.T) {
	var e echo
	e.tick()
	e.add("a")
	e.tick()
	assert.Equal(t, "a", e.pending)
	e.tick()
	assert.Equal(t, "", e.pending)
	assert.False(t, e.consume("a", ""))
}

func TestMappedRows(t *testing.T) {
	table := glyph.MustTable([]glyph.Entry{
		{Letter: 'a', Glyph: "😀"},
		{Letter: 'b', Glyph: "👻"},
	})

	rows := mappedRows(table, [][]rune{[]rune("azb"), []rune("xyz"), []rune("ba")})
	assert.Equal(t, [][]rune{[]rune("ab"), []rune("ba")}, rows)

	azerty, ok := glyph.Layout(glyph.LayoutAZERTY)
	assert.True(t, ok)
	assert.Equal(t, azerty, mappedRows(glyph.Default, azerty))
}
