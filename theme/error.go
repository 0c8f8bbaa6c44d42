package theme

import "github.com/ardnew/rasi/lang"

// Predefined errors (sentinel values).
var (
	ErrResolution       = lang.NewError("variable resolution")
	ErrCyclicVariable   = ErrResolution.Kind("cyclic variable")
	ErrVariableNotFound = ErrResolution.Kind("variable not found")

	ErrTheme    = lang.NewError("load theme")
	ErrReadFile = ErrTheme.Kind("read file")
)
