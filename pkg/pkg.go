// Package pkg holds project metadata and the per-user directories derived
// from the executable name.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command and module identifier. It appears in help text and
	// in default config paths.
	Name = "rasi"
	// Description is a one-line summary used in help output.
	Description = "Widget theme compiler and live previewer"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
