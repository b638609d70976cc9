// Package ime keeps the emoji keyboard's two parallel texts in step.
//
// The display text is what the user sees: glyphs and pass-through
// characters. The source text is the letters those glyphs stand for. For
// every display unit i, display[i] is either the glyph of source[i] or
// source[i] itself when that character has no glyph.
//
// # Input channels
//
// Three kinds of input change the texts:
//
//	┌──────────────────────┬────────────────────┬──────────────────────────┐
//	│ Channel              │ Engine call        │ State transition         │
//	├──────────────────────┼────────────────────┼──────────────────────────┤
//	│ On-screen key click  │ Press              │ AppendLetter             │
//	│ Physical key down    │ OnKeyDown          │ AppendLetter / Passthru  │
//	│ Field edit / paste   │ OnTextChange       │ SetDisplay               │
//	└──────────────────────┴────────────────────┴──────────────────────────┘
//
// Physical keys are captured only while the field has focus (Focus/Blur).
// A captured key is reported as handled so the host suppresses the field's
// own insertion; keys that are not captured reach the field, whose change
// notification comes back through OnTextChange.
//
// Field edits carry no hint of which letters were typed, so SetDisplay
// rebuilds the whole source text from the display text by reverse lookup.
// That is linear in the text length per edit, which is fine for
// interactively typed text.
//
// # Hosts
//
// The desktop widget (cmd/emojikbd-gui) and the Linux IBus engine
// (IBusEngine, cmd/emojikbd-ibus) both drive an Engine. IBus calls arrive on
// D-Bus goroutines, which is why the Engine is mutex guarded even though
// each host delivers events one at a time.
package ime
