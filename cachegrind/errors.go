package cachegrind

import "errors"

// Errors surfaced by the measurement driver and the output parser.
var (
	// ErrValgrindAbsent means the simulator binary is not callable. It
	// is benign: the runner logs a note and skips all benchmark groups.
	ErrValgrindAbsent = errors.New("valgrind is not available")

	// ErrMeasurement means the simulator exited non-zero. The benchmark
	// group cannot continue; a deterministic simulator would fail the
	// same way on retry.
	ErrMeasurement = errors.New("failed to run benchmark in cachegrind")

	// ErrParseOutput means the cachegrind output file is missing the
	// expected events/summary lines or event names.
	ErrParseOutput = errors.New("unable to parse cachegrind output file")
)
