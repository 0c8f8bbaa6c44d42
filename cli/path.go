package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/rasi/pkg"
)

// baseConfig is the base name of the configuration files. The rasi file has
// no extension; the JSON and YAML files append theirs.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		err := os.MkdirAll(dir, defaultDirMode)
		if err != nil {
			return err
		}
	}

	return nil
}
