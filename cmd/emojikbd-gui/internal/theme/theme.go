package theme

import (
	"image/color"
	"runtime"
	"strings"

	"gioui.org/unit"
	"gioui.org/widget/material"
)

// Mode selects the palette.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// ParseMode maps a config value to a Mode. Unknown values select ModeLight.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(s)) {
	case ModeDark:
		return ModeDark
	case ModeSystem:
		return ModeSystem
	default:
		return ModeLight
	}
}

// Palette defines the widget colors.
type Palette struct {
	Background color.NRGBA
	Surface    color.NRGBA
	Panel      color.NRGBA
	Primary    color.NRGBA
	Text       color.NRGBA
	TextMuted  color.NRGBA
	Border     color.NRGBA
}

// Config defines the widget metrics.
type Config struct {
	CornerRadius unit.Dp
	Spacing      unit.Dp
	Padding      unit.Dp
	KeySize      unit.Dp
	FontTitle    unit.Sp
	FontBody     unit.Sp
	FontGlyph    unit.Sp
	FontCaption  unit.Sp
}

// Theme wraps the material theme with widget-specific styling.
type Theme struct {
	*material.Theme
	Mode    Mode
	Dark    bool
	Palette Palette
	Config  Config
}

// NewTheme creates a theme for mode with metrics for the current OS.
// ModeSystem follows the desktop's dark mode setting where it can be read.
func NewTheme(mtheme *material.Theme, mode Mode) *Theme {
	t := &Theme{
		Theme: mtheme,
		Mode:  mode,
	}

	switch mode {
	case ModeDark:
		t.Dark = true
	case ModeSystem:
		t.Dark = systemPrefersDark()
	}

	if t.Dark {
		t.Palette = darkPalette
	} else {
		t.Palette = lightPalette
	}

	switch runtime.GOOS {
	case "darwin":
		t.Config = macOSMetrics
	default:
		t.Config = defaultMetrics
	}

	t.Theme.Palette = material.Palette{
		Bg:         t.Palette.Background,
		Fg:         t.Palette.Text,
		ContrastBg: t.Palette.Primary,
		ContrastFg: color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	}
	t.Theme.TextSize = t.Config.FontBody

	return t
}

var lightPalette = Palette{
	Background: color.NRGBA{R: 0xF4, G: 0xF5, B: 0xF7, A: 0xFF},
	Surface:    color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Panel:      color.NRGBA{R: 0xE9, G: 0xEB, B: 0xF0, A: 0xFF},
	Primary:    color.NRGBA{R: 0x00, G: 0x78, B: 0xD4, A: 0xFF},
	Text:       color.NRGBA{R: 0x1F, G: 0x23, B: 0x28, A: 0xFF},
	TextMuted:  color.NRGBA{R: 0x6E, G: 0x77, B: 0x81, A: 0xFF},
	Border:     color.NRGBA{R: 0xD0, G: 0xD7, B: 0xDE, A: 0xFF},
}

var darkPalette = Palette{
	Background: color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF},
	Surface:    color.NRGBA{R: 0x2C, G: 0x2C, B: 0x2C, A: 0xFF},
	Panel:      color.NRGBA{R: 0x32, G: 0x32, B: 0x32, A: 0xFF},
	Primary:    color.NRGBA{R: 0x0A, G: 0x84, B: 0xFF, A: 0xFF},
	Text:       color.NRGBA{R: 0xF5, G: 0xF5, B: 0xF7, A: 0xFF},
	TextMuted:  color.NRGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF},
	Border:     color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF},
}

var defaultMetrics = Config{
	CornerRadius: unit.Dp(4),
	Spacing:      unit.Dp(8),
	Padding:      unit.Dp(16),
	KeySize:      unit.Dp(44),
	FontTitle:    unit.Sp(20),
	FontBody:     unit.Sp(14),
	FontGlyph:    unit.Sp(22),
	FontCaption:  unit.Sp(12),
}

// macOS system font is slightly smaller.
var macOSMetrics = Config{
	CornerRadius: unit.Dp(10),
	Spacing:      unit.Dp(10),
	Padding:      unit.Dp(20),
	KeySize:      unit.Dp(46),
	FontTitle:    unit.Sp(22),
	FontBody:     unit.Sp(13),
	FontGlyph:    unit.Sp(24),
	FontCaption:  unit.Sp(11),
}
