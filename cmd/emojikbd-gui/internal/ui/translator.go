// Package ui holds the emoji translator widget.
package ui

import (
	"image"
	"image/color"
	"log/slog"
	"sync/atomic"

	"gioui.org/font"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"emojikbd/cmd/emojikbd-gui/internal/theme"
	"emojikbd/internal/ime"
)

const (
	title       = "Emoji Translator"
	sourceLabel = "Actual Text:"
	editorHint  = "Type letters..."
	placeholder = "Emoji translation will appear here"
	tip         = "💡 Tip: You can also use your physical keyboard to type and generate emojis!"
)

// Keyboard is the on-screen key arrangement.
type Keyboard struct {
	Rows        [][]rune
	ShowLetters bool
}

// Translator is the emoji keyboard widget: a text field whose letters
// are replaced with glyphs, the source text it stands for, and an
// on-screen keyboard.
type Translator struct {
	engine *ime.Engine
	log    *slog.Logger

	theme    atomic.Pointer[theme.Theme]
	keyboard atomic.Pointer[Keyboard]

	editor  widget.Editor
	keys    map[rune]*widget.Clickable
	letters []rune
	list    widget.List

	mounted bool
	focused bool
	echo    echo
}

// NewTranslator creates the widget over engine.
func NewTranslator(th *theme.Theme, engine *ime.Engine, kb Keyboard, log *slog.Logger) *Translator {
	if log == nil {
		log = slog.Default()
	}
	t := &Translator{
		engine:  engine,
		log:     log,
		keys:    make(map[rune]*widget.Clickable),
		letters: engine.Translator().Table().Letters(),
	}
	t.editor.SingleLine = true
	t.list.Axis = layout.Vertical
	for _, l := range t.letters {
		t.keys[l] = new(widget.Clickable)
	}
	t.theme.Store(th)
	t.SetKeyboard(kb)
	return t
}

// SetKeyboard replaces the key arrangement. Letters without a glyph are
// not drawn. Safe to call from any goroutine.
func (t *Translator) SetKeyboard(kb Keyboard) {
	kb.Rows = mappedRows(t.engine.Translator().Table(), kb.Rows)
	t.keyboard.Store(&kb)
}

// SetTheme replaces the theme. Safe to call from any goroutine.
func (t *Translator) SetTheme(th *theme.Theme) {
	t.theme.Store(th)
}

// Update processes focus, key, click and edit events for one frame.
func (t *Translator) Update(gtx layout.Context) {
	if !t.mounted {
		t.mounted = true
		gtx.Execute(key.FocusCmd{Tag: &t.editor})
	}
	t.echo.tick()

	if focused := gtx.Focused(&t.editor); focused != t.focused {
		t.focused = focused
		if focused {
			t.engine.Focus()
		} else {
			t.engine.Blur()
			t.echo.reset()
		}
	}

	base := t.editor.Text()

	for {
		ev, ok := gtx.Event(keyFilters(&t.editor, t.letters)...)
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		k := keyFromEvent(e)
		if _, handled := t.engine.OnKeyDown(k); handled {
			t.echo.add(string(k.Char))
		}
	}

	for _, l := range t.letters {
		if t.keys[l].Clicked(gtx) {
			t.engine.Press(l)
			gtx.Execute(key.FocusCmd{Tag: &t.editor})
		}
	}

	for {
		ev, ok := t.editor.Update(gtx)
		if !ok {
			break
		}
		if _, ok := ev.(widget.ChangeEvent); !ok {
			continue
		}
		text := t.editor.Text()
		if t.echo.consume(text, base) || t.echo.consume(text, t.engine.State().Display()) {
			t.editor.SetText(base)
			continue
		}
		t.engine.OnTextChange(text)
		base = text
	}

	if display := t.engine.State().Display(); t.editor.Text() != display {
		t.editor.SetText(display)
		n := t.editor.Len()
		t.editor.SetCaret(n, n)
	}
}

// Layout renders the widget.
func (t *Translator) Layout(gtx layout.Context) layout.Dimensions {
	t.Update(gtx)

	th := t.theme.Load()
	kb := t.keyboard.Load()
	state := t.engine.State()

	paint.Fill(gtx.Ops, th.Palette.Background)

	sections := []layout.Widget{
		func(gtx layout.Context) layout.Dimensions {
			h := material.H5(th.Theme, title)
			h.Color = th.Palette.Text
			h.TextSize = th.Config.FontTitle
			h.Font.Weight = font.Bold
			return h.Layout(gtx)
		},
		func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Baseline}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					l := material.Body1(th.Theme, sourceLabel)
					l.Color = th.Palette.TextMuted
					return l.Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Width: th.Config.Spacing}.Layout),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					l := material.Body1(th.Theme, state.Source())
					l.Color = th.Palette.Text
					return l.Layout(gtx)
				}),
			)
		},
		func(gtx layout.Context) layout.Dimensions {
			return t.layoutEditor(gtx, th)
		},
		func(gtx layout.Context) layout.Dimensions {
			return t.layoutDisplay(gtx, th, state.Display())
		},
		func(gtx layout.Context) layout.Dimensions {
			return t.layoutKeyboard(gtx, th, kb)
		},
		func(gtx layout.Context) layout.Dimensions {
			l := material.Caption(th.Theme, tip)
			l.Color = th.Palette.TextMuted
			l.TextSize = th.Config.FontCaption
			l.Alignment = text.Middle
			return l.Layout(gtx)
		},
	}

	return layout.UniformInset(th.Config.Padding).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return material.List(th.Theme, &t.list).Layout(gtx, len(sections), func(gtx layout.Context, i int) layout.Dimensions {
			return layout.Inset{Bottom: th.Config.Padding}.Layout(gtx, sections[i])
		})
	})
}

func (t *Translator) layoutEditor(gtx layout.Context, th *theme.Theme) layout.Dimensions {
	borderColor := th.Palette.Border
	if t.focused {
		borderColor = th.Palette.Primary
	}
	border := widget.Border{
		Color:        borderColor,
		CornerRadius: th.Config.CornerRadius,
		Width:        unit.Dp(1),
	}
	return border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return surface(gtx, th.Palette.Surface, th.Config.CornerRadius, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(th.Config.Spacing).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				ed := material.Editor(th.Theme, &t.editor, editorHint)
				ed.Color = th.Palette.Text
				ed.HintColor = th.Palette.TextMuted
				ed.TextSize = th.Config.FontGlyph
				gtx.Constraints.Min.X = gtx.Constraints.Max.X
				return ed.Layout(gtx)
			})
		})
	})
}

func (t *Translator) layoutDisplay(gtx layout.Context, th *theme.Theme, display string) layout.Dimensions {
	return surface(gtx, th.Palette.Panel, th.Config.CornerRadius, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(th.Config.Padding).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			if display == "" {
				l := material.Body1(th.Theme, placeholder)
				l.Color = th.Palette.TextMuted
				l.Alignment = text.Middle
				return l.Layout(gtx)
			}
			l := material.Body1(th.Theme, display)
			l.Color = th.Palette.Text
			l.TextSize = th.Config.FontGlyph
			l.Alignment = text.Middle
			return l.Layout(gtx)
		})
	})
}

func (t *Translator) layoutKeyboard(gtx layout.Context, th *theme.Theme, kb *Keyboard) layout.Dimensions {
	rows := make([]layout.FlexChild, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		row := row
		rows = append(rows, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			keys := make([]layout.FlexChild, 0, len(row))
			for _, l := range row {
				l := l
				keys = append(keys, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(3)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return t.layoutKey(gtx, th, l, kb.ShowLetters)
					})
				}))
			}
			return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceSides}.Layout(gtx, keys...)
		}))
	}
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx, rows...)
}

func (t *Translator) layoutKey(gtx layout.Context, th *theme.Theme, letter rune, showLetter bool) layout.Dimensions {
	clk, ok := t.keys[letter]
	if !ok {
		return layout.Dimensions{}
	}
	glyph := t.engine.Translator().Unit(letter)

	btn := material.ButtonLayout(th.Theme, clk)
	btn.Background = th.Palette.Surface
	btn.CornerRadius = th.Config.CornerRadius
	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		size := gtx.Dp(th.Config.KeySize)
		gtx.Constraints = layout.Exact(image.Pt(size, size))
		return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					l := material.Body1(th.Theme, glyph)
					l.TextSize = th.Config.FontGlyph
					return l.Layout(gtx)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if !showLetter {
						return layout.Dimensions{}
					}
					l := material.Caption(th.Theme, string(letter))
					l.Color = th.Palette.TextMuted
					l.TextSize = th.Config.FontCaption
					return l.Layout(gtx)
				}),
			)
		})
	})
}

// surface draws w over a rounded rectangle of color bg.
func surface(gtx layout.Context, bg color.NRGBA, radius unit.Dp, w layout.Widget) layout.Dimensions {
	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			size := gtx.Constraints.Min
			rect := clip.UniformRRect(image.Rectangle{Max: size}, gtx.Dp(radius))
			paint.FillShape(gtx.Ops, bg, rect.Op(gtx.Ops))
			return layout.Dimensions{Size: size}
		},
		w,
	)
}
