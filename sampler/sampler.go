package sampler

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/bytesnake/alco/cachegrind"
	"github.com/bytesnake/alco/model"
	"github.com/bytesnake/alco/params"
)

// CalibrationName is the output-file name under which the calibration
// run of every benchmark group is measured.
const CalibrationName = "alco_calibration"

// Measurer performs one synchronous measurement of the assignment and
// returns the parsed counters, plus the previous run's counters when an
// old output file exists. The cachegrind driver is the production
// implementation; tests substitute deterministic cost functions.
type Measurer interface {
	Measure(benchIndex int, name string, samples *params.Samples) (cachegrind.Stats, *cachegrind.Stats, error)
}

// Result is the outcome of sampling one benchmark group.
type Result struct {
	// Dataset holds every (assignment, delta) observation taken.
	Dataset model.Dataset

	// Calibration is the instruction-read baseline of the setup-only
	// run.
	Calibration uint64

	// OldCalibration is the previous run's baseline, when one existed.
	OldCalibration *uint64
}

// Sampler drives the adaptive measurement loop for benchmark groups.
type Sampler struct {
	config   *Config
	measurer Measurer
	logger   zerolog.Logger
	rng      *rand.Rand
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithLogger sets the sampler's progress logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// WithRand sets the random source used to draw joint combinations.
func WithRand(rng *rand.Rand) Option {
	return func(s *Sampler) {
		s.rng = rng
	}
}

// New creates a Sampler over the given measurer.
func New(config *Config, measurer Measurer, opts ...Option) *Sampler {
	s := &Sampler{
		config:   config,
		measurer: measurer,
		logger:   zerolog.Nop(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run builds the measurement dataset for one benchmark group:
// calibration, per-axis seeding, then joint random combinations.
func (s *Sampler) Run(benchIndex int, name string, b *params.Builder) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampler config: %w", err)
	}

	// Calibration: a zero-token child run measures setup cost only.
	calStats, oldCalStats, err := s.measurer.Measure(
		benchIndex, CalibrationName, params.CalibrationSamples())
	if err != nil {
		return nil, err
	}
	calibration := calStats.InstructionReads

	result := &Result{Calibration: calibration}
	if oldCalStats != nil {
		old := oldCalStats.InstructionReads
		result.OldCalibration = &old
		s.logger.Info().
			Uint64("calibration", calibration).
			Uint64("previous", old).
			Msg("calibration baseline")
	} else {
		s.logger.Info().Uint64("calibration", calibration).Msg("calibration baseline")
	}

	lower, err := b.LowerBound()
	if err != nil {
		return nil, err
	}

	// Per-axis seeding: expand each axis until the projected
	// instruction-count change drops below MinChange.
	axes := b.Params()
	axisSteps := make([][]int, len(axes))

	for axisIndex, axis := range axes {
		if length, ok := axis.Def.NumItems(); ok {
			// Discrete items are all explored jointly; no point seeding.
			steps := make([]int, length)
			for i := range steps {
				steps[i] = i
			}
			axisSteps[axisIndex] = steps
			continue
		}

		var observations []model.StepDelta
		step := 0

		for round := 0; round < s.config.SeedingSteps; round++ {
			assignment, ok := b.UpdateStep(lower, axis.Name, step)
			if !ok {
				// Past the end of the declared range.
				break
			}

			delta, err := s.measureDelta(benchIndex, name, assignment, calibration)
			if err != nil {
				return nil, err
			}

			observations = append(observations, model.StepDelta{Step: step, Delta: delta})
			result.Dataset = append(result.Dataset, model.Observation{
				Samples: assignment,
				Delta:   delta,
			})

			advance := model.EstimateStepSize(observations, s.config.MinChange)
			if advance == 0 {
				break
			}
			step += advance
		}

		steps := make([]int, len(observations))
		for i, o := range observations {
			steps[i] = o.Step
		}
		axisSteps[axisIndex] = steps

		s.logger.Debug().
			Str("axis", axis.Name).
			Ints("steps", steps).
			Msg("axis seeded")
	}

	// Joint combinations across axes.
	for _, combo := range s.drawCombinations(axisSteps) {
		indices := make([]params.StepIndex, len(axes))
		for axisIndex, axis := range axes {
			indices[axisIndex] = params.StepIndex{
				Name: axis.Name,
				Step: axisSteps[axisIndex][combo[axisIndex]],
			}
		}

		assignment, ok := b.FromIndices(indices)
		if !ok {
			return nil, fmt.Errorf("seeded step vanished for benchmark %q", name)
		}

		delta, err := s.measureDelta(benchIndex, name, assignment, calibration)
		if err != nil {
			return nil, err
		}
		result.Dataset = append(result.Dataset, model.Observation{
			Samples: assignment,
			Delta:   delta,
		})
	}

	s.logger.Info().
		Int("measurements", len(result.Dataset)).
		Msg("sampling finished")

	return result, nil
}

// measureDelta runs one measurement and subtracts the calibration
// baseline. The delta saturates at zero: a body cheaper than its own
// setup means the benchmark measures nothing.
func (s *Sampler) measureDelta(
	benchIndex int,
	name string,
	assignment *params.Samples,
	calibration uint64,
) (uint64, error) {
	stats, _, err := s.measurer.Measure(benchIndex, name, assignment)
	if err != nil {
		return 0, err
	}

	if stats.InstructionReads < calibration {
		s.logger.Warn().
			Uint64("instructions", stats.InstructionReads).
			Uint64("calibration", calibration).
			Msg("measurement below calibration baseline")
		return 0, nil
	}
	return stats.InstructionReads - calibration, nil
}

// drawCombinations forms the Cartesian product of the per-axis seeding
// positions and draws up to JointCombinations of them uniformly at
// random without replacement. Each combination holds one position index
// per axis.
func (s *Sampler) drawCombinations(axisSteps [][]int) [][]int {
	if len(axisSteps) == 0 {
		return nil
	}

	total := 1
	for _, steps := range axisSteps {
		total *= len(steps)
	}
	if total == 0 {
		return nil
	}

	want := s.config.JointCombinations
	if total <= want {
		want = total
	}

	// Reservoir sampling over an odometer enumeration of the product,
	// so even huge products need no materialization.
	reservoir := make([][]int, 0, want)
	odometer := make([]int, len(axisSteps))

	for count := 0; count < total; count++ {
		if len(reservoir) < want {
			combo := make([]int, len(odometer))
			copy(combo, odometer)
			reservoir = append(reservoir, combo)
		} else if j := s.rng.Intn(count + 1); j < want {
			combo := make([]int, len(odometer))
			copy(combo, odometer)
			reservoir[j] = combo
		}

		for axis := len(odometer) - 1; axis >= 0; axis-- {
			odometer[axis]++
			if odometer[axis] < len(axisSteps[axis]) {
				break
			}
			odometer[axis] = 0
		}
	}

	return reservoir
}
