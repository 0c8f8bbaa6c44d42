//go:build !pprof

package profile

// Enabled reports whether the binary was built with profiling support.
const Enabled = false

// Modes returns nil; profiling requires the pprof build tag.
func Modes() []string { return nil }

func start(string, string, bool) interface{ Stop() } { return ignore{} }
