package alco

// blackBoxSink keeps values written by BlackBox reachable so the
// compiler must materialize them.
var blackBoxSink any

// BlackBox is a compiler-opaque identity. Benchmark functions pass the
// result of the unit under test through it so that dead-code
// elimination cannot remove the measured work.
//
//go:noinline
func BlackBox[T any](v T) T {
	blackBoxSink = v
	return v
}
