// Package profile provides optional runtime profiling via
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Enabled] is false, [Modes] is empty, and
// [Profiler.Start] is a no-op.
//
//	p := profile.Make(profile.WithMode("cpu"), profile.WithPath("/tmp/prof"))
//	defer p.Start().Stop()
//
// The resulting files are analyzed with go tool pprof, or go tool trace for
// the trace mode.
package profile
