package theme

import (
	"testing"

	"gioui.org/widget/material"
	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"light", ModeLight},
		{"dark", ModeDark},
		{"DARK", ModeDark},
		{"system", ModeSystem},
		{"", ModeLight},
		{"neon", ModeLight},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMode(tt.in))
		})
	}
}

func TestNewThemePalettes(t *testing.T) {
	light := NewTheme(material.NewTheme(), ModeLight)
	dark := NewTheme(material.NewTheme(), ModeDark)

	assert.False(t, light.Dark)
	assert.True(t, dark.Dark)
	assert.Equal(t, lightPalette, light.Palette)
	assert.Equal(t, darkPalette, dark.Palette)
	assert.Equal(t, dark.Palette.Text, dark.Theme.Palette.Fg)
	assert.Equal(t, light.Palette.Background, light.Theme.Palette.Bg)
	assert.NotZero(t, light.Config.KeySize)
}
