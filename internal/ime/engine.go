package ime

import (
	"log/slog"
	"sync"
	"time"
	"unicode"

	"emojikbd/internal/logging"
	"emojikbd/internal/metrics"
	"emojikbd/internal/translate"
)

// Engine owns one display/source pair and the focus flag of the field it
// serves. Hosts feed it clicks, key-downs and field edits.
type Engine struct {
	mu        sync.RWMutex
	tr        *translate.Translator
	state     State
	focused   bool
	listeners []listener
	nextID    uint64
	log       *slog.Logger
	metrics   *metrics.IME
}

type listener struct {
	id uint64
	fn func(State)
}

// NewEngine creates an engine over tr. A nil tr selects translate.Default.
func NewEngine(tr *translate.Translator) *Engine {
	if tr == nil {
		tr = translate.Default
	}
	return &Engine{
		tr:  tr,
		log: logging.Default().WithComponent("ime").Logger,
	}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l != nil {
		e.log = l
	}
}

// SetMetrics makes the engine record into m. A nil m records nothing.
func (e *Engine) SetMetrics(m *metrics.IME) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics = m
}

func (e *Engine) stats() *metrics.IME {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.metrics
}

// Translator returns the engine's translator.
func (e *Engine) Translator() *translate.Translator {
	return e.tr
}

// State returns the current pair.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Focus marks the field as focused. Physical keys are captured from now on.
func (e *Engine) Focus() {
	e.setFocus(true)
}

// Blur marks the field as unfocused and stops physical key capture.
func (e *Engine) Blur() {
	e.setFocus(false)
}

func (e *Engine) setFocus(focused bool) {
	e.mu.Lock()
	changed := e.focused != focused
	e.focused = focused
	log := e.log
	e.mu.Unlock()

	if changed {
		log.Debug("focus changed", "focused", focused)
	}
}

// Focused reports whether physical keys are being captured.
func (e *Engine) Focused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.focused
}

// Press appends letter from the on-screen keyboard. Unknown letters are
// ignored. Press works regardless of focus.
func (e *Engine) Press(letter rune) bool {
	changed := e.update("press", func(s State) (State, bool) {
		return s.AppendLetter(e.tr, letter)
	})
	if changed {
		e.stats().Press()
	}
	return changed
}

// OnKeyDown handles a physical key-down. It returns the text appended to
// the display and true when the key was captured; the host must then
// suppress the field's default insertion. Keys are captured only while
// focused, and only mapped letters (either case) and space are captured.
func (e *Engine) OnKeyDown(key Key) (string, bool) {
	start := time.Now()
	commit, handled := e.keyDown(key)
	e.stats().Key(handled, start)
	return commit, handled
}

func (e *Engine) keyDown(key Key) (string, bool) {
	if key.Modifiers.Shortcut() || key.Char == 0 {
		return "", false
	}

	var commit string
	handled := e.update("keydown", func(s State) (State, bool) {
		if !e.focused {
			return s, false
		}
		letter := unicode.ToLower(key.Char)
		if g, ok := e.tr.Glyph(letter); ok {
			commit = g
			return s.AppendLetter(e.tr, letter)
		}
		if key.Char == ' ' {
			commit = " "
			return s.AppendPassthrough(' '), true
		}
		return s, false
	})
	if !handled {
		return "", false
	}
	return commit, true
}

// OnTextChange takes the field's text after an edit the engine did not
// perform itself (deletion, paste, typing of unmapped keys) and rebuilds
// the source text from it.
func (e *Engine) OnTextChange(text string) bool {
	changed := e.update("edit", func(s State) (State, bool) {
		if text == s.display {
			return s, false
		}
		return s.SetDisplay(e.tr, text), true
	})
	if changed {
		e.stats().Edit()
	}
	return changed
}

// Reset discards both texts, as when the widget is remounted.
func (e *Engine) Reset() bool {
	changed := e.update("reset", func(s State) (State, bool) {
		return State{}, s.Phase() != PhaseEmpty
	})
	if changed {
		e.stats().Reset()
	}
	return changed
}

// OnChange registers fn to be called after every change, in registration
// order, outside the engine lock. The returned func unregisters it.
func (e *Engine) OnChange(fn func(State)) (cancel func()) {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close stops key capture and drops all listeners.
func (e *Engine) Close() {
	e.mu.Lock()
	e.focused = false
	e.listeners = nil
	e.mu.Unlock()
}

// update applies fn under the lock and notifies listeners when it reports
// a change.
func (e *Engine) update(event string, fn func(State) (State, bool)) bool {
	e.mu.Lock()
	next, changed := fn(e.state)
	if !changed {
		e.mu.Unlock()
		return false
	}
	e.state = next
	fns := make([]func(State), len(e.listeners))
	for i, l := range e.listeners {
		fns[i] = l.fn
	}
	log := e.log
	e.mu.Unlock()

	log.Debug("state changed",
		"event", event,
		"phase", next.Phase().String(),
		"units", next.Len(),
	)

	for _, f := range fns {
		f(next)
	}
	return true
}
