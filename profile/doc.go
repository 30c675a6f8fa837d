// Package profile provides optional runtime profiling for htmldsl.
//
// Profiling uses [github.com/pkg/profile] and must be enabled at build time
// with the "pprof" build tag. Without the tag every operation is a no-op and
// [Modes] is empty.
//
//	p := profile.Make(
//	    profile.WithMode("cpu"),
//	    profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start().Stop()
//
// Profile files are written to the given directory with names matching the
// mode (cpu.pprof, mem.pprof). The htmldsl command exposes the profiler
// through flags:
//
//	go build -tags pprof -o htmldsl .
//	./htmldsl --pprof-mode heap --pprof-dir ./profiles render page.tmpl
//
// Analyze the output with go tool pprof:
//
//	go tool pprof -http=: ./profiles/mem.pprof
//
// Built with the tag, the package also imports [net/http/pprof], which
// registers its handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
