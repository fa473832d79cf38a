package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// appPaths resolves the per-user directories matdb writes to: one for
// configuration files, one for log output. The stdlib already knows the
// platform conventions; matdb only adds its own subdirectory.
type appPaths struct {
	tag string
}

func newAppPaths(appTag string) appPaths {
	return appPaths{tag: strings.ToLower(appTag)}
}

// ConfigDir is where matdb configuration files live, e.g.
// ~/.config/matdb on Linux.
func (a appPaths) ConfigDir() string {
	c, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return a.tag
		}
		c = filepath.Join(home, ".config")
	}
	return filepath.Join(c, a.tag)
}

// LogDir is where bare --logfile names land.
func (a appPaths) LogDir() string {
	c, err := os.UserCacheDir()
	if err != nil {
		return a.ConfigDir()
	}
	return filepath.Join(c, a.tag, "logs")
}
