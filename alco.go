// Package alco estimates the empirical computational complexity of
// benchmark functions. Each benchmark is run repeatedly under valgrind's
// cachegrind tool across an adaptively chosen set of parameter
// assignments, and an additive term model is fitted to the measured
// instruction counts.
//
// One binary serves both roles: the driver process schedules
// measurements, and the same executable re-enters as the instrumented
// child when invoked with the --internal-run flag.
package alco

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bytesnake/alco/cachegrind"
	"github.com/bytesnake/alco/model"
	"github.com/bytesnake/alco/params"
	"github.com/bytesnake/alco/sampler"
)

// Version of the harness, reported in the JSON output.
const Version = "0.1.0"

// aslrEnvVar, when set to any value, leaves address-space layout
// randomization enabled for the instrumented children.
const aslrEnvVar = "IAI_ALLOW_ASLR"

// Benchmark is one benchmark group: a name, the function under
// measurement, and the parameter registry that spans its input space.
//
// The function must perform its setup unconditionally, consult
// Samples.SetupOnly before entering the measured body, exercise the
// unit under test exactly once per invocation, and pass the result
// through BlackBox.
type Benchmark struct {
	Name   string
	Func   func(*params.Samples)
	Params *params.Builder
}

// Runner executes benchmark groups and reports fitted models.
type Runner struct {
	out    io.Writer
	logger zerolog.Logger
	config *sampler.Config
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where results are written. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger sets the progress logger. Default: console output on
// stderr.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConfig overrides the sampler and fitter tunables.
func WithConfig(config *sampler.Config) Option {
	return func(r *Runner) {
		r.config = config
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		out:    os.Stdout,
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
		config: sampler.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the given benchmark groups with a default Runner. It is
// the entry point a benchmark binary calls from main.
func Run(benches ...Benchmark) error {
	return New().Run(benches...)
}

// Run dispatches on the command line: with --internal-run the process
// is the instrumented child and executes exactly one benchmark
// function; otherwise it is the driver and schedules measurements.
func (r *Runner) Run(benches ...Benchmark) error {
	args := os.Args
	if len(args) > 1 && args[1] == cachegrind.InternalRunFlag {
		return runChild(benches, args[2:])
	}
	return r.runDriver(benches)
}

// runChild executes one benchmark function under cachegrind and
// returns. The first argument is the benchmark index; the remainder are
// serialized assignment tokens. Zero tokens means calibration: the
// benchmark runs with the setup-only flag set.
func runChild(benches []Benchmark, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing benchmark index after %s", cachegrind.InternalRunFlag)
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid benchmark index %q: %w", args[0], err)
	}
	if index < 0 || index >= len(benches) {
		return fmt.Errorf("benchmark index %d out of range", index)
	}

	samples, err := params.ParseSamples(args[1:])
	if err != nil {
		return err
	}

	benches[index].Func(samples)
	return nil
}

// runDriver verifies the simulator, then runs every benchmark group:
// adaptive sampling, model fitting, reporting.
func (r *Runner) runDriver(benches []Benchmark) error {
	if err := cachegrind.CheckValgrind(); err != nil {
		r.logger.Warn().Err(err).Msg("skipping benchmarks")
		fmt.Fprintln(r.out,
			"valgrind was not found; install it and ensure it is on the PATH to run benchmarks")
		return nil
	}

	arch, err := cachegrind.DetectArch()
	if err != nil {
		return err
	}

	_, allowASLR := os.LookupEnv(aslrEnvVar)

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate the current executable: %w", err)
	}

	driver := cachegrind.NewDriver(
		executable,
		cachegrind.WithArch(arch),
		cachegrind.WithAllowASLR(allowASLR),
		cachegrind.WithLogger(r.logger),
	)

	results := make([]GroupResult, 0, len(benches))

	for i, bench := range benches {
		r.logger.Info().Str("benchmark", bench.Name).Msg("sampling")

		s := sampler.New(r.config, driver, sampler.WithLogger(r.logger))
		sampled, err := s.Run(i, bench.Name, bench.Params)
		if err != nil {
			return fmt.Errorf("benchmark %q: %w", bench.Name, err)
		}

		fitted, err := model.FitGreedyAdditive(
			sampled.Dataset, r.config.BeamSize, r.config.MaxInteractions)
		if err != nil {
			return fmt.Errorf("benchmark %q: %w", bench.Name, err)
		}

		results = append(results, GroupResult{
			Name:           bench.Name,
			Calibration:    sampled.Calibration,
			OldCalibration: sampled.OldCalibration,
			Measurements:   len(sampled.Dataset),
			Model:          fitted,
		})
	}

	r.printResults(results)
	return nil
}
