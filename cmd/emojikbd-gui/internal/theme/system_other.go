//go:build !windows && !darwin

package theme

import (
	"os"
	"strings"
)

func systemPrefersDark() bool {
	return darkThemeName(os.Getenv("GTK_THEME"))
}

// darkThemeName reports whether a GTK theme name selects a dark variant,
// as in "Adwaita:dark" or "Yaru-dark".
func darkThemeName(name string) bool {
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ":dark") || strings.HasSuffix(name, "-dark")
}
