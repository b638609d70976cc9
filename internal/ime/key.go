package ime

// Key represents a key-down event from a host.
type Key struct {
	// Code is the platform-specific key code, if known.
	// On Linux/IBus: X11 keycode (evdev + 8).
	// The engine does not interpret it; it is carried for logging.
	Code uint16

	// Char is the character the key produces, before case folding.
	// Zero for non-character keys.
	Char rune

	// Modifiers indicates which modifier keys are held.
	Modifiers Modifiers
}

// NewKey creates a Key for a character with no modifiers.
func NewKey(char rune) Key {
	return Key{Char: char}
}

// NewKeyWithCode creates a Key with explicit keycode and character.
func NewKeyWithCode(code uint16, char rune) Key {
	return Key{Code: code, Char: char}
}

// NewKeyWithModifiers creates a Key with modifier state.
func NewKeyWithModifiers(char rune, mods Modifiers) Key {
	return Key{Char: char, Modifiers: mods}
}

// Modifiers represents modifier key state.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModMeta // Command on macOS, Windows key on Windows
)

// Shortcut reports whether a modifier other than Shift is held. Such keys
// belong to the text field (select all, copy, paste) and are never captured.
func (m Modifiers) Shortcut() bool {
	return m&(ModControl|ModAlt|ModMeta) != 0
}

// String returns a compact form such as "shift+ctrl".
func (m Modifiers) String() string {
	if m == 0 {
		return ""
	}
	names := []struct {
		mod  Modifiers
		name string
	}{
		{ModShift, "shift"},
		{ModControl, "ctrl"},
		{ModAlt, "alt"},
		{ModMeta, "meta"},
	}
	s := ""
	for _, n := range names {
		if m&n.mod == 0 {
			continue
		}
		if s != "" {
			s += "+"
		}
		s += n.name
	}
	return s
}
