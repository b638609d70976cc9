package ime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emojikbd/internal/metrics"
)

func TestEnginePressLetters(t *testing.T) {
	engine := NewEngine(nil)

	assert.True(t, engine.Press('a'))
	assert.True(t, engine.Press('z'))

	s := engine.State()
	assert.Equal(t, "az", s.Source())
	assert.Equal(t, "😀😂", s.Display())
}

func TestEnginePressUnknownIsNoop(t *testing.T) {
	engine := NewEngine(nil)

	assert.False(t, engine.Press('1'))
	assert.Equal(t, State{}, engine.State())
}

func TestEnginePressIgnoresFocus(t *testing.T) {
	engine := NewEngine(nil)
	require.False(t, engine.Focused())

	assert.True(t, engine.Press('e'))
	assert.Equal(t, "e", engine.State().Source())
}

func TestEngineKeyDownRequiresFocus(t *testing.T) {
	engine := NewEngine(nil)

	commit, handled := engine.OnKeyDown(NewKey('a'))
	assert.False(t, handled)
	assert.Empty(t, commit)
	assert.Equal(t, PhaseEmpty, engine.State().Phase())

	engine.Focus()
	commit, handled = engine.OnKeyDown(NewKey('a'))
	assert.True(t, handled)
	assert.Equal(t, "😀", commit)

	engine.Blur()
	_, handled = engine.OnKeyDown(NewKey('z'))
	assert.False(t, handled)
	assert.Equal(t, "a", engine.State().Source())
}

func TestEngineKeyDownUppercase(t *testing.T) {
	engine := NewEngine(nil)
	engine.Focus()

	commit, handled := engine.OnKeyDown(NewKeyWithModifiers('A', ModShift))
	require.True(t, handled)
	assert.Equal(t, "😀", commit)
	assert.Equal(t, "a", engine.State().Source())
	assert.Equal(t, "😀", engine.State().Display())
}

func TestEngineKeyDownSpace(t *testing.T) {
	engine := NewEngine(nil)
	engine.Focus()

	engine.OnKeyDown(NewKey('a'))
	engine.OnKeyDown(NewKey('z'))
	commit, handled := engine.OnKeyDown(NewKey(' '))

	require.True(t, handled)
	assert.Equal(t, " ", commit)
	assert.Equal(t, "😀😂 ", engine.State().Display())
	assert.Equal(t, "az ", engine.State().Source())
}

func TestEngineKeyDownFallsThrough(t *testing.T) {
	engine := NewEngine(nil)
	engine.Focus()

	tests := []struct {
		name string
		key  Key
	}{
		{"digit", NewKey('1')},
		{"punctuation", NewKey('!')},
		{"accented", NewKey('é')},
		{"non-character", NewKeyWithCode(22, 0)},
		{"ctrl+a", NewKeyWithModifiers('a', ModControl)},
		{"alt+z", NewKeyWithModifiers('z', ModAlt)},
		{"meta+space", NewKeyWithModifiers(' ', ModMeta)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, handled := engine.OnKeyDown(tt.key)
			assert.False(t, handled)
		})
	}
	assert.Equal(t, PhaseEmpty, engine.State().Phase())
}

func TestEngineTextChange(t *testing.T) {
	engine := NewEngine(nil)

	assert.True(t, engine.OnTextChange("😀 😂"))
	assert.Equal(t, "a z", engine.State().Source())

	// Same text again: nothing to do.
	assert.False(t, engine.OnTextChange("😀 😂"))

	// Deleting a glyph in the field drops its letter.
	assert.True(t, engine.OnTextChange("😀 "))
	assert.Equal(t, "a ", engine.State().Source())
}

func TestEngineEditAfterAppend(t *testing.T) {
	engine := NewEngine(nil)
	engine.Focus()

	engine.OnKeyDown(NewKey('h'))
	engine.OnKeyDown(NewKey('i'))
	// An unmapped key reaches the field, which reports its new text.
	engine.OnTextChange(engine.State().Display() + "!")

	assert.Equal(t, "hi!", engine.State().Source())
	assert.Equal(t, "😌🤩!", engine.State().Display())
}

func TestEngineReset(t *testing.T) {
	engine := NewEngine(nil)
	assert.False(t, engine.Reset())

	engine.Press('a')
	assert.True(t, engine.Reset())
	assert.Equal(t, State{}, engine.State())
}

func TestEngineOnChange(t *testing.T) {
	engine := NewEngine(nil)

	var got []string
	cancel := engine.OnChange(func(s State) {
		got = append(got, s.Source())
	})

	engine.Press('a')
	engine.Press('1') // ignored, no notification
	engine.Press('z')
	engine.OnTextChange("😀😂") // unchanged, no notification

	cancel()
	engine.Press('e')

	assert.Equal(t, []string{"a", "az"}, got)
}

func TestEngineOnChangeOrder(t *testing.T) {
	engine := NewEngine(nil)

	var order []int
	engine.OnChange(func(State) { order = append(order, 1) })
	engine.OnChange(func(State) { order = append(order, 2) })
	engine.OnChange(func(State) { order = append(order, 3) })

	engine.Press('a')
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestEngineListenerMayReadState(t *testing.T) {
	engine := NewEngine(nil)

	var seen State
	engine.OnChange(func(State) {
		// Listeners run outside the lock.
		seen = engine.State()
	})

	engine.Press('q')
	assert.Equal(t, "q", seen.Source())
}

func TestEngineClose(t *testing.T) {
	engine := NewEngine(nil)
	engine.Focus()

	calls := 0
	engine.OnChange(func(State) { calls++ })

	engine.Close()
	assert.False(t, engine.Focused())

	engine.Press('a')
	assert.Equal(t, 0, calls)

	_, handled := engine.OnKeyDown(NewKey('a'))
	assert.False(t, handled)
}

func TestEngineConcurrentAccess(t *testing.T) {
	engine := NewEngine(nil)
	engine.Focus()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				engine.Press('a')
				engine.OnKeyDown(NewKey('z'))
				_ = engine.State()
			}
		}()
	}
	wg.Wait()

	s := engine.State()
	assert.Equal(t, 800, len([]rune(s.Source())))
	assertAligned(t, engine.Translator(), s)
}

func TestModifiersString(t *testing.T) {
	assert.Equal(t, "", Modifiers(0).String())
	assert.Equal(t, "shift", ModShift.String())
	assert.Equal(t, "shift+ctrl", (ModShift | ModControl).String())
	assert.Equal(t, "alt+meta", (ModAlt | ModMeta).String())
	assert.False(t, ModShift.Shortcut())
	assert.True(t, (ModShift | ModControl).Shortcut())
}

func TestEngineRecordsMetrics(t *testing.T) {
	r := metrics.NewRegistry("test")
	m := metrics.NewIME(r)

	engine := NewEngine(nil)
	engine.SetMetrics(m)
	engine.Focus()

	engine.OnKeyDown(NewKey('a'))
	engine.OnKeyDown(NewKey('1'))
	engine.Press('z')
	engine.Press('!')
	engine.OnTextChange("😀")
	engine.Reset()

	assert.Equal(t, uint64(1), r.Counter("keys_total", "", metrics.Labels{"result": "captured"}).Value())
	assert.Equal(t, uint64(1), r.Counter("keys_total", "", metrics.Labels{"result": "passed"}).Value())
	assert.Equal(t, uint64(1), r.Counter("presses_total", "", nil).Value())
	assert.Equal(t, uint64(1), r.Counter("edits_total", "", nil).Value())
	assert.Equal(t, uint64(1), r.Counter("resets_total", "", nil).Value())
}
