//go:build darwin

package theme

import (
	"os/exec"
	"strings"
)

func systemPrefersDark() bool {
	out, err := exec.Command("defaults", "read", "-g", "AppleInterfaceStyle").Output()
	if err != nil {
		// The key is absent in light mode.
		return false
	}
	return strings.EqualFold(strings.TrimSpace(string(out)), "dark")
}
