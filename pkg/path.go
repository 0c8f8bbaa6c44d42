package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), Name}, // dlv default output
	{regexp.MustCompile(`^\.+`), ""},
}

// Prefix returns the base name used for the per-user configuration and cache
// directories. It is the executable's base name without extension, with a
// debugger's default output name replaced by [Name] and leading dots removed.
var Prefix = sync.OnceValue(func() string {
	id := os.Args[0]

	exe, err := os.Executable()
	if err == nil {
		id = exe
	}

	return prefixOf(id)
})

func prefixOf(path string) string {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	for _, r := range prefixRules {
		id = r.rex.ReplaceAllString(id, r.rep)
	}

	if id == "" {
		return Name
	}

	return id
}

// ConfigDir returns the per-user configuration directory.
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the per-user cache directory used for transient files.
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir joins Prefix to the directory reported by base, falling back to
// a hidden directory under $HOME and then to the working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
