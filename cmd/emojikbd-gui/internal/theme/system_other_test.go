//go:build !windows && !darwin

package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDarkThemeName(t *testing.T) {
	assert.True(t, darkThemeName("Adwaita:dark"))
	assert.True(t, darkThemeName("Yaru-Dark"))
	assert.False(t, darkThemeName("Adwaita"))
	assert.False(t, darkThemeName(""))
}

func TestSystemModeFollowsGTKTheme(t *testing.T) {
	t.Setenv("GTK_THEME", "Adwaita:dark")
	assert.True(t, systemPrefersDark())

	t.Setenv("GTK_THEME", "Adwaita")
	assert.False(t, systemPrefersDark())
}
